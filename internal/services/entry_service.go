package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/terraincognita07/flowcast/internal/models"
)

var (
	ErrInvalidEntryDate   = errors.New("invalid entry date")
	ErrInvalidEntryLength = errors.New("invalid entry length")
	ErrEntryNotFound      = errors.New("entry not found")
	ErrEntryLoadFailed    = errors.New("load entries failed")
	ErrEntrySaveFailed    = errors.New("save entry failed")
	ErrEntryDeleteFailed  = errors.New("delete entry failed")
)

const (
	maxCycleLength  = 365
	maxPeriodLength = 60
	maxNotesLength  = 2000
)

type EntryRepository interface {
	ListAll() ([]models.Entry, error)
	FindByDayRange(dayStart time.Time, dayEnd time.Time) (models.Entry, bool, error)
	Create(entry *models.Entry) error
	Save(entry *models.Entry) error
	DeleteByDayRange(dayStart time.Time, dayEnd time.Time) (int64, error)
}

type SymptomLister interface {
	ListAll() ([]models.Symptom, error)
}

type EntryInput struct {
	Date         string
	CycleLength  int
	PeriodLength int
	Notes        string
}

type EntryService struct {
	entries  EntryRepository
	symptoms SymptomLister
}

func NewEntryService(entries EntryRepository, symptoms SymptomLister) *EntryService {
	return &EntryService{
		entries:  entries,
		symptoms: symptoms,
	}
}

// ListEntries returns every entry, newest first.
func (service *EntryService) ListEntries() ([]models.Entry, error) {
	entries, err := service.entries.ListAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEntryLoadFailed, err)
	}
	return SortEntriesNewestFirst(entries), nil
}

// NormalizeEntryInput validates raw input. Negative lengths mean "not provided" and are
// stored as zero.
func NormalizeEntryInput(input EntryInput) (models.Entry, error) {
	day, err := ParseDay(input.Date)
	if err != nil {
		return models.Entry{}, fmt.Errorf("%w: %v", ErrInvalidEntryDate, err)
	}
	if input.CycleLength > maxCycleLength || input.PeriodLength > maxPeriodLength {
		return models.Entry{}, ErrInvalidEntryLength
	}
	notes := strings.TrimSpace(input.Notes)
	if runes := []rune(notes); len(runes) > maxNotesLength {
		notes = string(runes[:maxNotesLength])
	}
	return models.Entry{
		Date:         day,
		CycleLength:  max(input.CycleLength, 0),
		PeriodLength: max(input.PeriodLength, 0),
		Notes:        notes,
	}, nil
}

// UpsertEntry stores the entry for its date, replacing any entry already logged that day.
func (service *EntryService) UpsertEntry(input EntryInput) (models.Entry, error) {
	normalized, err := NormalizeEntryInput(input)
	if err != nil {
		return models.Entry{}, err
	}

	dayStart, dayEnd := DayRange(normalized.Date)
	existing, found, err := service.entries.FindByDayRange(dayStart, dayEnd)
	if err != nil {
		return models.Entry{}, fmt.Errorf("%w: %v", ErrEntryLoadFailed, err)
	}
	if !found {
		if err := service.entries.Create(&normalized); err != nil {
			return models.Entry{}, fmt.Errorf("%w: %v", ErrEntrySaveFailed, err)
		}
		return normalized, nil
	}

	existing.CycleLength = normalized.CycleLength
	existing.PeriodLength = normalized.PeriodLength
	existing.Notes = normalized.Notes
	if err := service.entries.Save(&existing); err != nil {
		return models.Entry{}, fmt.Errorf("%w: %v", ErrEntrySaveFailed, err)
	}
	return existing, nil
}

func (service *EntryService) DeleteEntry(rawDate string) error {
	day, err := ParseDay(rawDate)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEntryDate, err)
	}
	dayStart, dayEnd := DayRange(day)
	deleted, err := service.entries.DeleteByDayRange(dayStart, dayEnd)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEntryDeleteFailed, err)
	}
	if deleted == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// CurrentPrediction reloads the entries and predicts from the latest one.
func (service *EntryService) CurrentPrediction() (Prediction, bool, error) {
	entries, err := service.entries.ListAll()
	if err != nil {
		return Prediction{}, false, fmt.Errorf("%w: %v", ErrEntryLoadFailed, err)
	}
	prediction, ok := PredictLatest(entries)
	return prediction, ok, nil
}

func (service *EntryService) Dashboard(now time.Time, location *time.Location) (Dashboard, error) {
	entries, err := service.entries.ListAll()
	if err != nil {
		return Dashboard{}, fmt.Errorf("%w: %v", ErrEntryLoadFailed, err)
	}
	symptoms := []models.Symptom{}
	if service.symptoms != nil {
		symptoms, err = service.symptoms.ListAll()
		if err != nil {
			return Dashboard{}, fmt.Errorf("%w: %v", ErrSymptomLoadFailed, err)
		}
	}
	return BuildDashboard(entries, symptoms, DateAtLocation(now, location)), nil
}

// MonthGrids builds a month and the one after it from a single read of the entries, so
// both grids share one prediction.
func (service *EntryService) MonthGrids(year int, monthIndex int, today time.Time) (CalendarMonth, CalendarMonth, error) {
	entries, err := service.entries.ListAll()
	if err != nil {
		return CalendarMonth{}, CalendarMonth{}, fmt.Errorf("%w: %v", ErrEntryLoadFailed, err)
	}
	prediction, ok := PredictLatest(entries)
	highlights := PredictionHighlights(prediction, ok)
	today = CalendarDay(today)

	nextYear, nextMonthIndex := NextMonth(year, monthIndex)
	return BuildMonthGrid(year, monthIndex, highlights, today),
		BuildMonthGrid(nextYear, nextMonthIndex, highlights, today),
		nil
}
