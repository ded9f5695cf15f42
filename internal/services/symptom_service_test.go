package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/terraincognita07/flowcast/internal/models"
)

type symptomRepositoryStub struct {
	symptoms  []models.Symptom
	createErr error
	deleteErr error
	listErr   error
}

func (stub *symptomRepositoryStub) ListAll() ([]models.Symptom, error) {
	return stub.symptoms, stub.listErr
}

func (stub *symptomRepositoryStub) Create(symptom *models.Symptom) error {
	if stub.createErr != nil {
		return stub.createErr
	}
	stub.symptoms = append(stub.symptoms, *symptom)
	return nil
}

func (stub *symptomRepositoryStub) DeleteByID(symptomID string) (int64, error) {
	if stub.deleteErr != nil {
		return 0, stub.deleteErr
	}
	for index, symptom := range stub.symptoms {
		if symptom.ID == symptomID {
			stub.symptoms = append(stub.symptoms[:index], stub.symptoms[index+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func TestLogSymptomAssignsUniqueIDs(t *testing.T) {
	repo := &symptomRepositoryStub{}
	service := NewSymptomService(repo)
	now := time.Date(2024, time.March, 3, 12, 0, 0, 0, time.UTC)

	first, err := service.LogSymptom("2024-03-01", "Cramps", now, time.UTC)
	if err != nil {
		t.Fatalf("log symptom: %v", err)
	}
	second, err := service.LogSymptom("2024-03-01", "Cramps", now, time.UTC)
	if err != nil {
		t.Fatalf("log symptom: %v", err)
	}
	if first.ID == "" || first.ID == second.ID {
		t.Fatalf("expected distinct ids, got %q and %q", first.ID, second.ID)
	}
	if len(repo.symptoms) != 2 {
		t.Fatalf("expected two symptoms on the same date, got %d", len(repo.symptoms))
	}
}

func TestLogSymptomDefaultsToToday(t *testing.T) {
	repo := &symptomRepositoryStub{}
	service := NewSymptomService(repo)
	location, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	now := time.Date(2024, time.March, 3, 5, 0, 0, 0, time.UTC)

	symptom, err := service.LogSymptom("  ", "  mood   swings ", now, location)
	if err != nil {
		t.Fatalf("log symptom: %v", err)
	}
	if FormatDay(symptom.Date) != "2024-03-02" {
		t.Fatalf("expected local date 2024-03-02, got %s", FormatDay(symptom.Date))
	}
	if symptom.Tag != "mood swings" {
		t.Fatalf("expected collapsed tag, got %q", symptom.Tag)
	}
}

func TestLogSymptomValidation(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		tag     string
		wantErr error
	}{
		{name: "empty tag", date: "2024-03-01", tag: "   ", wantErr: ErrInvalidSymptomTag},
		{name: "tag too long", date: "2024-03-01", tag: strings.Repeat("a", 81), wantErr: ErrInvalidSymptomTag},
		{name: "bad date", date: "2024-02-31", tag: "Acne", wantErr: ErrInvalidSymptomDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &symptomRepositoryStub{}
			_, err := NewSymptomService(repo).LogSymptom(tt.date, tt.tag, time.Now(), time.UTC)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if len(repo.symptoms) != 0 {
				t.Fatalf("invalid symptom must not be stored")
			}
		})
	}

	if _, err := NormalizeSymptomTag(strings.Repeat("é", 80)); err != nil {
		t.Fatalf("expected 80 runes to be accepted, got %v", err)
	}
}

func TestLogSymptomWrapsCreateError(t *testing.T) {
	repo := &symptomRepositoryStub{createErr: errors.New("readonly")}
	_, err := NewSymptomService(repo).LogSymptom("2024-03-01", "Acne", time.Now(), time.UTC)
	if !errors.Is(err, ErrCreateSymptomFailed) {
		t.Fatalf("expected ErrCreateSymptomFailed, got %v", err)
	}
}

func TestDeleteSymptom(t *testing.T) {
	repo := &symptomRepositoryStub{symptoms: []models.Symptom{{ID: "keep"}, {ID: "drop"}}}
	service := NewSymptomService(repo)

	if err := service.DeleteSymptom(""); !errors.Is(err, ErrInvalidSymptomID) {
		t.Fatalf("expected ErrInvalidSymptomID, got %v", err)
	}
	if err := service.DeleteSymptom("missing"); !errors.Is(err, ErrSymptomNotFound) {
		t.Fatalf("expected ErrSymptomNotFound, got %v", err)
	}
	if err := service.DeleteSymptom("drop"); err != nil {
		t.Fatalf("delete symptom: %v", err)
	}
	if len(repo.symptoms) != 1 || repo.symptoms[0].ID != "keep" {
		t.Fatalf("expected only the named symptom removed, got %+v", repo.symptoms)
	}

	repo.deleteErr = errors.New("locked")
	if err := service.DeleteSymptom("keep"); !errors.Is(err, ErrDeleteSymptomFailed) {
		t.Fatalf("expected ErrDeleteSymptomFailed, got %v", err)
	}
}

func TestListSymptomsNewestFirst(t *testing.T) {
	repo := &symptomRepositoryStub{symptoms: []models.Symptom{
		{ID: "old", Date: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "new", Date: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)},
	}}
	symptoms, err := NewSymptomService(repo).ListSymptoms()
	if err != nil {
		t.Fatalf("list symptoms: %v", err)
	}
	if symptoms[0].ID != "new" {
		t.Fatalf("expected newest first, got %s", symptoms[0].ID)
	}

	repo.listErr = errors.New("boom")
	if _, err := NewSymptomService(repo).ListSymptoms(); !errors.Is(err, ErrSymptomLoadFailed) {
		t.Fatalf("expected ErrSymptomLoadFailed, got %v", err)
	}
}

func TestQuickTags(t *testing.T) {
	tags := NewSymptomService(&symptomRepositoryStub{}).QuickTags()
	if len(tags) == 0 || tags[0] != "Cramps" {
		t.Fatalf("unexpected quick tags %v", tags)
	}
	for _, tag := range tags {
		if _, err := NormalizeSymptomTag(tag); err != nil {
			t.Fatalf("quick tag %q is not a valid tag: %v", tag, err)
		}
	}
}
