package db

import (
	"github.com/terraincognita07/flowcast/internal/models"
	"gorm.io/gorm"
)

type SymptomRepository struct {
	database *gorm.DB
}

func NewSymptomRepository(database *gorm.DB) *SymptomRepository {
	return &SymptomRepository{database: database}
}

func (repo *SymptomRepository) ListAll() ([]models.Symptom, error) {
	symptoms := make([]models.Symptom, 0)
	if err := repo.database.Order("date DESC, created_at DESC, id ASC").Find(&symptoms).Error; err != nil {
		return nil, err
	}
	return symptoms, nil
}

func (repo *SymptomRepository) Create(symptom *models.Symptom) error {
	return repo.database.Create(symptom).Error
}

func (repo *SymptomRepository) DeleteByID(symptomID string) (int64, error) {
	result := repo.database.Where("id = ?", symptomID).Delete(&models.Symptom{})
	return result.RowsAffected, result.Error
}
