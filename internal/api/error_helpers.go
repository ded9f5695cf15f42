package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/flowcast/internal/logger"
	"github.com/terraincognita07/flowcast/internal/services"
)

var errInvalidRequestBody = errors.New("invalid request body")

type serviceErrorMapping struct {
	target error
	status int
	key    string
}

var serviceErrorMappings = []serviceErrorMapping{
	{target: errInvalidRequestBody, status: fiber.StatusBadRequest, key: "error.invalid_body"},
	{target: services.ErrInvalidEntryDate, status: fiber.StatusBadRequest, key: "error.invalid_date"},
	{target: services.ErrInvalidSymptomDate, status: fiber.StatusBadRequest, key: "error.invalid_date"},
	{target: services.ErrInvalidEntryLength, status: fiber.StatusBadRequest, key: "error.invalid_length"},
	{target: services.ErrInvalidSymptomTag, status: fiber.StatusBadRequest, key: "error.invalid_tag"},
	{target: services.ErrInvalidImport, status: fiber.StatusBadRequest, key: "error.invalid_import"},
	{target: services.ErrEntryNotFound, status: fiber.StatusNotFound, key: "error.entry_not_found"},
	{target: services.ErrInvalidSymptomID, status: fiber.StatusNotFound, key: "error.symptom_not_found"},
	{target: services.ErrSymptomNotFound, status: fiber.StatusNotFound, key: "error.symptom_not_found"},
}

// serviceError maps a service failure onto a status code and a localized message.
// Unknown errors are logged and reported as 500.
func (handler *Handler) serviceError(c *fiber.Ctx, err error) error {
	for _, mapping := range serviceErrorMappings {
		if errors.Is(err, mapping.target) {
			return apiError(c, mapping.status, handler.localizedMessage(c, mapping.key))
		}
	}
	logger.Log.WithError(err).WithField("path", c.Path()).Error("request failed")
	return apiError(c, fiber.StatusInternalServerError, handler.localizedMessage(c, "error.internal"))
}
