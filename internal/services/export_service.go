package services

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/terraincognita07/flowcast/internal/models"
)

const (
	ExportJSONFilename = "flowcast-data.json"
	ExportCSVFilename  = "flowcast-data.csv"
	csvTagSeparator    = "; "
)

var (
	ErrInvalidImport     = errors.New("invalid import document")
	ErrImportFailed      = errors.New("import failed")
	ErrExportFailed      = errors.New("export failed")
	ErrResetFailed       = errors.New("reset failed")
	errInvalidLength     = fmt.Errorf("%w: must be a whole number", ErrInvalidEntryLength)
	errEmptyImport       = errors.New("document has neither entries nor symptoms")
	errDuplicateSymptom  = errors.New("duplicate symptom id")
	errSnapshotMalformed = errors.New("malformed json")
)

var ExportCSVHeaders = []string{
	"Date",
	"Cycle length",
	"Period length",
	"Notes",
	"Symptoms",
}

type SnapshotStore interface {
	Load() ([]models.Entry, []models.Symptom, error)
	Replace(entries *[]models.Entry, symptoms *[]models.Symptom) error
	Clear() error
}

// SnapshotLength decodes a number, a numeric string, null or "" as a day count.
type SnapshotLength int

func (length *SnapshotLength) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*length = 0
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		raw = strings.TrimSpace(text)
		if raw == "" {
			*length = 0
			return nil
		}
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value != float64(int(value)) {
		return fmt.Errorf("%w: %s", errInvalidLength, string(data))
	}
	*length = SnapshotLength(value)
	return nil
}

type SnapshotEntry struct {
	Date      string         `json:"date"`
	CycleLen  SnapshotLength `json:"cycleLen"`
	PeriodLen SnapshotLength `json:"periodLen"`
	Notes     string         `json:"notes"`
}

type SnapshotSymptom struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Tag  string `json:"tag"`
}

type Snapshot struct {
	ExportedAt string            `json:"exported_at,omitempty"`
	Entries    []SnapshotEntry   `json:"entries"`
	Symptoms   []SnapshotSymptom `json:"symptoms"`
}

// ImportedSnapshot holds validated collections. A nil collection was absent from the
// document and leaves the stored one untouched.
type ImportedSnapshot struct {
	Entries  *[]models.Entry
	Symptoms *[]models.Symptom
}

type ImportSummary struct {
	EntriesReplaced  bool
	Entries          int
	SymptomsReplaced bool
	Symptoms         int
}

type ExportService struct {
	store SnapshotStore
}

func NewExportService(store SnapshotStore) *ExportService {
	return &ExportService{store: store}
}

func BuildSnapshot(entries []models.Entry, symptoms []models.Symptom, exportedAt time.Time) Snapshot {
	snapshot := Snapshot{
		Entries:  make([]SnapshotEntry, 0, len(entries)),
		Symptoms: make([]SnapshotSymptom, 0, len(symptoms)),
	}
	if !exportedAt.IsZero() {
		snapshot.ExportedAt = exportedAt.UTC().Format(time.RFC3339)
	}

	sortedEntries := slices.Clone(entries)
	slices.SortStableFunc(sortedEntries, func(a models.Entry, b models.Entry) int {
		return CalendarDay(a.Date).Compare(CalendarDay(b.Date))
	})
	for _, entry := range sortedEntries {
		snapshot.Entries = append(snapshot.Entries, SnapshotEntry{
			Date:      FormatDay(entry.Date),
			CycleLen:  SnapshotLength(entry.CycleLength),
			PeriodLen: SnapshotLength(entry.PeriodLength),
			Notes:     entry.Notes,
		})
	}
	for _, symptom := range symptoms {
		snapshot.Symptoms = append(snapshot.Symptoms, SnapshotSymptom{
			ID:   symptom.ID,
			Date: FormatDay(symptom.Date),
			Tag:  symptom.Tag,
		})
	}
	return snapshot
}

func (service *ExportService) ExportSnapshot(now time.Time) (Snapshot, error) {
	entries, symptoms, err := service.store.Load()
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	return BuildSnapshot(entries, symptoms, now), nil
}

func (service *ExportService) ExportJSON(now time.Time) ([]byte, error) {
	snapshot, err := service.ExportSnapshot(now)
	if err != nil {
		return nil, err
	}
	return MarshalSnapshot(snapshot)
}

func MarshalSnapshot(snapshot Snapshot) ([]byte, error) {
	payload, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	return append(payload, '\n'), nil
}

// ExportCSV writes one row per date that has an entry or a symptom, newest first.
func (service *ExportService) ExportCSV(writer io.Writer) error {
	entries, symptoms, err := service.store.Load()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	return WriteCSV(writer, entries, symptoms)
}

func WriteCSV(writer io.Writer, entries []models.Entry, symptoms []models.Symptom) error {
	entriesByDate := make(map[string]models.Entry, len(entries))
	tagsByDate := make(map[string][]string)
	dates := make([]string, 0, len(entries))
	for _, entry := range entries {
		key := FormatDay(entry.Date)
		if _, seen := entriesByDate[key]; !seen {
			dates = append(dates, key)
		}
		entriesByDate[key] = entry
	}
	for _, symptom := range SortSymptomsNewestFirst(symptoms) {
		key := FormatDay(symptom.Date)
		if _, hasEntry := entriesByDate[key]; !hasEntry && len(tagsByDate[key]) == 0 {
			dates = append(dates, key)
		}
		tagsByDate[key] = append(tagsByDate[key], symptom.Tag)
	}
	slices.Sort(dates)
	slices.Reverse(dates)

	csvWriter := csv.NewWriter(writer)
	if err := csvWriter.Write(ExportCSVHeaders); err != nil {
		return fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	for _, key := range dates {
		entry := entriesByDate[key]
		row := []string{
			key,
			formatOptionalLength(entry.CycleLength),
			formatOptionalLength(entry.PeriodLength),
			entry.Notes,
			strings.Join(tagsByDate[key], csvTagSeparator),
		}
		if err := csvWriter.Write(row); err != nil {
			return fmt.Errorf("%w: %v", ErrExportFailed, err)
		}
	}
	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	return nil
}

func formatOptionalLength(value int) string {
	if value <= 0 {
		return ""
	}
	return strconv.Itoa(value)
}

// ParseSnapshot validates a whole document. Any malformed item rejects it.
func ParseSnapshot(data []byte) (ImportedSnapshot, error) {
	var document struct {
		Entries  *[]SnapshotEntry   `json:"entries"`
		Symptoms *[]SnapshotSymptom `json:"symptoms"`
	}
	if err := json.Unmarshal(data, &document); err != nil {
		return ImportedSnapshot{}, fmt.Errorf("%w: %v: %v", ErrInvalidImport, errSnapshotMalformed, err)
	}
	if document.Entries == nil && document.Symptoms == nil {
		return ImportedSnapshot{}, fmt.Errorf("%w: %v", ErrInvalidImport, errEmptyImport)
	}

	imported := ImportedSnapshot{}
	if document.Entries != nil {
		entries, err := importEntries(*document.Entries)
		if err != nil {
			return ImportedSnapshot{}, err
		}
		imported.Entries = &entries
	}
	if document.Symptoms != nil {
		symptoms, err := importSymptoms(*document.Symptoms)
		if err != nil {
			return ImportedSnapshot{}, err
		}
		imported.Symptoms = &symptoms
	}
	return imported, nil
}

func importEntries(items []SnapshotEntry) ([]models.Entry, error) {
	indexByDate := make(map[string]int, len(items))
	entries := make([]models.Entry, 0, len(items))
	for position, item := range items {
		entry, err := NormalizeEntryInput(EntryInput{
			Date:         item.Date,
			CycleLength:  int(item.CycleLen),
			PeriodLength: int(item.PeriodLen),
			Notes:        item.Notes,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: entries[%d]: %v", ErrInvalidImport, position, err)
		}
		key := FormatDay(entry.Date)
		if existing, seen := indexByDate[key]; seen {
			entries[existing] = entry
			continue
		}
		indexByDate[key] = len(entries)
		entries = append(entries, entry)
	}
	return entries, nil
}

func importSymptoms(items []SnapshotSymptom) ([]models.Symptom, error) {
	seen := make(map[string]struct{}, len(items))
	symptoms := make([]models.Symptom, 0, len(items))
	for position, item := range items {
		day, err := ParseDay(item.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: symptoms[%d]: %v", ErrInvalidImport, position, err)
		}
		tag, err := NormalizeSymptomTag(item.Tag)
		if err != nil {
			return nil, fmt.Errorf("%w: symptoms[%d]: %v", ErrInvalidImport, position, err)
		}
		id := strings.TrimSpace(item.ID)
		if id == "" {
			id = uuid.NewString()
		}
		if _, duplicate := seen[id]; duplicate {
			return nil, fmt.Errorf("%w: symptoms[%d]: %v %q", ErrInvalidImport, position, errDuplicateSymptom, id)
		}
		seen[id] = struct{}{}
		symptoms = append(symptoms, models.Symptom{ID: id, Date: day, Tag: tag})
	}
	return symptoms, nil
}

// ImportSnapshot replaces the collections present in data in a single transaction.
func (service *ExportService) ImportSnapshot(data []byte) (ImportSummary, error) {
	imported, err := ParseSnapshot(data)
	if err != nil {
		return ImportSummary{}, err
	}
	if err := service.store.Replace(imported.Entries, imported.Symptoms); err != nil {
		return ImportSummary{}, fmt.Errorf("%w: %v", ErrImportFailed, err)
	}

	summary := ImportSummary{}
	if imported.Entries != nil {
		summary.EntriesReplaced = true
		summary.Entries = len(*imported.Entries)
	}
	if imported.Symptoms != nil {
		summary.SymptomsReplaced = true
		summary.Symptoms = len(*imported.Symptoms)
	}
	return summary, nil
}

func (service *ExportService) Reset() error {
	if err := service.store.Clear(); err != nil {
		return fmt.Errorf("%w: %v", ErrResetFailed, err)
	}
	return nil
}
