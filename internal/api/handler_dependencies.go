package api

import (
	"github.com/terraincognita07/flowcast/internal/db"
	"github.com/terraincognita07/flowcast/internal/services"
	"gorm.io/gorm"
)

type dependencies struct {
	repositories   *db.Repositories
	entryService   *services.EntryService
	symptomService *services.SymptomService
	exportService  *services.ExportService
	calendarFeed   *services.CalendarFeed
}

func (handler *Handler) withDependencies(database *gorm.DB) *Handler {
	handler.repositories = db.NewRepositories(database)
	handler.entryService = services.NewEntryService(handler.repositories.Entries, handler.repositories.Symptoms)
	handler.symptomService = services.NewSymptomService(handler.repositories.Symptoms)
	handler.exportService = services.NewExportService(handler.repositories.Snapshot)
	handler.calendarFeed = services.NewCalendarFeed(handler.repositories.Entries, handler.projectedCycles)
	return handler
}
