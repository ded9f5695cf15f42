package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/terraincognita07/flowcast/internal/models"
)

var (
	ErrInvalidSymptomID    = errors.New("invalid symptom id")
	ErrInvalidSymptomTag   = errors.New("invalid symptom tag")
	ErrInvalidSymptomDate  = errors.New("invalid symptom date")
	ErrSymptomNotFound     = errors.New("symptom not found")
	ErrSymptomLoadFailed   = errors.New("load symptoms failed")
	ErrCreateSymptomFailed = errors.New("create symptom failed")
	ErrDeleteSymptomFailed = errors.New("delete symptom failed")
)

const maxSymptomTagLength = 80

type SymptomRepository interface {
	ListAll() ([]models.Symptom, error)
	Create(symptom *models.Symptom) error
	DeleteByID(symptomID string) (int64, error)
}

type SymptomService struct {
	symptoms SymptomRepository
	newID    func() string
}

func NewSymptomService(symptoms SymptomRepository) *SymptomService {
	return &SymptomService{
		symptoms: symptoms,
		newID:    uuid.NewString,
	}
}

func NormalizeSymptomTag(raw string) (string, error) {
	tag := strings.Join(strings.Fields(raw), " ")
	if tag == "" || utf8.RuneCountInString(tag) > maxSymptomTagLength {
		return "", ErrInvalidSymptomTag
	}
	return tag, nil
}

// LogSymptom tags a day with a symptom. A blank date means today in location.
func (service *SymptomService) LogSymptom(rawDate string, rawTag string, now time.Time, location *time.Location) (models.Symptom, error) {
	tag, err := NormalizeSymptomTag(rawTag)
	if err != nil {
		return models.Symptom{}, err
	}

	day := DateAtLocation(now, location)
	if strings.TrimSpace(rawDate) != "" {
		day, err = ParseDay(rawDate)
		if err != nil {
			return models.Symptom{}, fmt.Errorf("%w: %v", ErrInvalidSymptomDate, err)
		}
	}

	symptom := models.Symptom{
		ID:   service.newID(),
		Date: day,
		Tag:  tag,
	}
	if err := service.symptoms.Create(&symptom); err != nil {
		return models.Symptom{}, fmt.Errorf("%w: %v", ErrCreateSymptomFailed, err)
	}
	return symptom, nil
}

func (service *SymptomService) DeleteSymptom(symptomID string) error {
	symptomID = strings.TrimSpace(symptomID)
	if symptomID == "" {
		return ErrInvalidSymptomID
	}
	deleted, err := service.symptoms.DeleteByID(symptomID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeleteSymptomFailed, err)
	}
	if deleted == 0 {
		return ErrSymptomNotFound
	}
	return nil
}

func (service *SymptomService) ListSymptoms() ([]models.Symptom, error) {
	symptoms, err := service.symptoms.ListAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSymptomLoadFailed, err)
	}
	return SortSymptomsNewestFirst(symptoms), nil
}

func (service *SymptomService) QuickTags() []string {
	return models.DefaultSymptomTags()
}
