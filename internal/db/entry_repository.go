package db

import (
	"time"

	"github.com/terraincognita07/flowcast/internal/models"
	"gorm.io/gorm"
)

type EntryRepository struct {
	database *gorm.DB
}

func NewEntryRepository(database *gorm.DB) *EntryRepository {
	return &EntryRepository{database: database}
}

func (repo *EntryRepository) ListAll() ([]models.Entry, error) {
	entries := make([]models.Entry, 0)
	if err := repo.database.Order("date ASC, id ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *EntryRepository) FindByDayRange(dayStart time.Time, dayEnd time.Time) (models.Entry, bool, error) {
	entry := models.Entry{}
	result := repo.database.
		Where("date >= ? AND date < ?", dayStart, dayEnd).
		Order("date DESC, id DESC").
		Limit(1).
		Find(&entry)
	if result.Error != nil {
		return models.Entry{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Entry{}, false, nil
	}
	return entry, true, nil
}

func (repo *EntryRepository) Create(entry *models.Entry) error {
	return repo.database.Create(entry).Error
}

func (repo *EntryRepository) Save(entry *models.Entry) error {
	return repo.database.Save(entry).Error
}

func (repo *EntryRepository) DeleteByDayRange(dayStart time.Time, dayEnd time.Time) (int64, error) {
	result := repo.database.Where("date >= ? AND date < ?", dayStart, dayEnd).Delete(&models.Entry{})
	return result.RowsAffected, result.Error
}
