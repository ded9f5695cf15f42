package models

import "time"

const (
	DefaultCycleLength  = 28
	DefaultPeriodLength = 5
)

// Entry is a logged period start. Date is the unique key; zero lengths mean "not provided".
type Entry struct {
	ID           uint      `gorm:"primaryKey"`
	Date         time.Time `gorm:"type:date;not null;uniqueIndex:uidx_entries_date"`
	CycleLength  int       `gorm:"not null;default:0"`
	PeriodLength int       `gorm:"not null;default:0"`
	Notes        string    `gorm:"not null;default:''"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
