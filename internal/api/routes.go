package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	registerPageRoutes(app, handler)
	registerAPIRoutes(app, handler)
}

func registerPageRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/favicon.ico", sendNoContent)
	app.Get("/lang/:lang", handler.SetLanguage)

	app.Get("/", handler.ShowDashboard)
	app.Get("/dashboard", handler.ShowDashboard)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api")

	entries := api.Group("/entries")
	entries.Get("", handler.GetEntries)
	entries.Post("", handler.UpsertEntry)
	entries.Delete("/:date", handler.DeleteEntry)
	entries.Post("/:date/delete", handler.DeleteEntry)

	symptoms := api.Group("/symptoms")
	symptoms.Get("", handler.GetSymptoms)
	symptoms.Post("", handler.CreateSymptom)
	symptoms.Get("/tags", handler.GetQuickTags)
	symptoms.Delete("/:id", handler.DeleteSymptom)
	symptoms.Post("/:id/delete", handler.DeleteSymptom)

	api.Get("/prediction", handler.GetPrediction)
	api.Get("/calendar", handler.GetCalendar)

	export := api.Group("/export")
	export.Get("/json", handler.ExportJSON)
	export.Get("/csv", handler.ExportCSV)
	export.Get("/ics", handler.ExportICS)

	api.Post("/import", handler.ImportData)
	api.Post("/reset", handler.ResetData)
}

func sendNoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *Handler) NotFound(c *fiber.Ctx) error {
	return apiError(c, fiber.StatusNotFound, "not found")
}
