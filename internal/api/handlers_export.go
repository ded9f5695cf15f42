package api

import (
	"bytes"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/flowcast/internal/services"
)

const maxImportBytes = 5 << 20

func (handler *Handler) ExportJSON(c *fiber.Ctx) error {
	payload, err := handler.exportService.ExportJSON(handler.now())
	if err != nil {
		return handler.serviceError(c, err)
	}
	setAttachmentHeaders(c, fiber.MIMEApplicationJSONCharsetUTF8, services.ExportJSONFilename)
	return c.Send(payload)
}

func (handler *Handler) ExportCSV(c *fiber.Ctx) error {
	var output bytes.Buffer
	if err := handler.exportService.ExportCSV(&output); err != nil {
		return handler.serviceError(c, err)
	}
	setAttachmentHeaders(c, "text/csv; charset=utf-8", services.ExportCSVFilename)
	return c.Send(output.Bytes())
}

func (handler *Handler) ExportICS(c *fiber.Ctx) error {
	document, err := handler.calendarFeed.Render(handler.now())
	if err != nil {
		return handler.serviceError(c, err)
	}
	setAttachmentHeaders(c, "text/calendar; charset=utf-8", services.ExportICSFilename)
	return c.SendString(document)
}

func (handler *Handler) ImportData(c *fiber.Ctx) error {
	payload, err := readImportPayload(c)
	if err != nil {
		return handler.serviceError(c, err)
	}
	summary, err := handler.exportService.ImportSnapshot(payload)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return redirectOrJSON(c, "/", fiber.Map{
		"entries":           summary.Entries,
		"entries_replaced":  summary.EntriesReplaced,
		"symptoms":          summary.Symptoms,
		"symptoms_replaced": summary.SymptomsReplaced,
	})
}

func (handler *Handler) ResetData(c *fiber.Ctx) error {
	if err := handler.exportService.Reset(); err != nil {
		return handler.serviceError(c, err)
	}
	return redirectOrJSON(c, "/", nil)
}

// readImportPayload accepts either a raw JSON body or a multipart upload in the "file" field.
func readImportPayload(c *fiber.Ctx) ([]byte, error) {
	contentType := strings.ToLower(c.Get(fiber.HeaderContentType))
	if !strings.HasPrefix(contentType, fiber.MIMEMultipartForm) {
		body := c.Body()
		if len(body) > maxImportBytes {
			return nil, services.ErrInvalidImport
		}
		return append([]byte(nil), body...), nil
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, services.ErrInvalidImport
	}
	if fileHeader.Size > maxImportBytes {
		return nil, services.ErrInvalidImport
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, services.ErrInvalidImport
	}
	defer file.Close()

	payload, err := io.ReadAll(io.LimitReader(file, maxImportBytes+1))
	if err != nil || len(payload) > maxImportBytes {
		return nil, services.ErrInvalidImport
	}
	return payload, nil
}
