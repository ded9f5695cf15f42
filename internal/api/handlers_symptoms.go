package api

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) GetSymptoms(c *fiber.Ctx) error {
	symptoms, err := handler.symptomService.ListSymptoms()
	if err != nil {
		return handler.serviceError(c, err)
	}
	views := make([]symptomView, 0, len(symptoms))
	for _, symptom := range symptoms {
		views = append(views, newSymptomView(symptom))
	}
	return c.JSON(views)
}

func (handler *Handler) GetQuickTags(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"tags": handler.symptomService.QuickTags()})
}

func (handler *Handler) CreateSymptom(c *fiber.Ctx) error {
	payload := symptomPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return handler.serviceError(c, fmt.Errorf("%w: %v", errInvalidRequestBody, err))
	}
	symptom, err := handler.symptomService.LogSymptom(payload.Date, payload.Tag, handler.now(), handler.location)
	if err != nil {
		return handler.serviceError(c, err)
	}
	if acceptsJSON(c) {
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "symptom": newSymptomView(symptom)})
	}
	return c.Redirect("/#symptoms", fiber.StatusSeeOther)
}

func (handler *Handler) DeleteSymptom(c *fiber.Ctx) error {
	if err := handler.symptomService.DeleteSymptom(c.Params("id")); err != nil {
		return handler.serviceError(c, err)
	}
	return redirectOrJSON(c, "/#symptoms", nil)
}
