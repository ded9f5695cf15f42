package db

import (
	"fmt"

	"github.com/terraincognita07/flowcast/internal/models"
	"gorm.io/gorm"
)

const snapshotBatchSize = 200

type Repositories struct {
	Entries  *EntryRepository
	Symptoms *SymptomRepository
	Snapshot *SnapshotRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Entries:  NewEntryRepository(database),
		Symptoms: NewSymptomRepository(database),
		Snapshot: NewSnapshotRepository(database),
	}
}

// SnapshotRepository reads and replaces both collections atomically.
type SnapshotRepository struct {
	database *gorm.DB
}

func NewSnapshotRepository(database *gorm.DB) *SnapshotRepository {
	return &SnapshotRepository{database: database}
}

func (repo *SnapshotRepository) Load() ([]models.Entry, []models.Symptom, error) {
	entries := make([]models.Entry, 0)
	symptoms := make([]models.Symptom, 0)
	err := repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Order("date ASC, id ASC").Find(&entries).Error; err != nil {
			return fmt.Errorf("load entries: %w", err)
		}
		if err := tx.Order("date DESC, created_at DESC, id ASC").Find(&symptoms).Error; err != nil {
			return fmt.Errorf("load symptoms: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return entries, symptoms, nil
}

// Replace swaps the stored collections for the given ones. A nil pointer leaves that
// collection untouched. Either everything is written or nothing is.
func (repo *SnapshotRepository) Replace(entries *[]models.Entry, symptoms *[]models.Symptom) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if entries != nil {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Entry{}).Error; err != nil {
				return fmt.Errorf("clear entries: %w", err)
			}
			if len(*entries) > 0 {
				if err := tx.CreateInBatches(entries, snapshotBatchSize).Error; err != nil {
					return fmt.Errorf("insert entries: %w", err)
				}
			}
		}
		if symptoms != nil {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Symptom{}).Error; err != nil {
				return fmt.Errorf("clear symptoms: %w", err)
			}
			if len(*symptoms) > 0 {
				if err := tx.CreateInBatches(symptoms, snapshotBatchSize).Error; err != nil {
					return fmt.Errorf("insert symptoms: %w", err)
				}
			}
		}
		return nil
	})
}

func (repo *SnapshotRepository) Clear() error {
	empty := []models.Entry{}
	noSymptoms := []models.Symptom{}
	return repo.Replace(&empty, &noSymptoms)
}
