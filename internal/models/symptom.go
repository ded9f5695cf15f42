package models

import "time"

type Symptom struct {
	ID        string    `gorm:"primaryKey"`
	Date      time.Time `gorm:"type:date;not null;index:idx_symptoms_date"`
	Tag       string    `gorm:"not null"`
	CreatedAt time.Time
}

// DefaultSymptomTags are offered as one-click tags in the dashboard.
func DefaultSymptomTags() []string {
	return []string{
		"Cramps",
		"Headache",
		"Mood swings",
		"Bloating",
		"Fatigue",
		"Breast tenderness",
		"Acne",
		"Back pain",
		"Nausea",
		"Spotting",
		"Insomnia",
		"Food cravings",
	}
}
