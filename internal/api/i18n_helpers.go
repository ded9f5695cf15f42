package api

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/flowcast/internal/services"
)

var weekdayTranslationKeys = []string{
	"weekday.mon",
	"weekday.tue",
	"weekday.wed",
	"weekday.thu",
	"weekday.fri",
	"weekday.sat",
	"weekday.sun",
}

func translateMessage(messages map[string]string, key string) string {
	if key == "" {
		return ""
	}
	if messages != nil {
		if value, ok := messages[key]; ok && strings.TrimSpace(value) != "" {
			return value
		}
	}
	return key
}

func translateMessagef(messages map[string]string, key string, args ...any) string {
	return fmt.Sprintf(translateMessage(messages, key), args...)
}

func monthName(messages map[string]string, month time.Month) string {
	key := "month." + strconv.Itoa(int(month))
	if name := translateMessage(messages, key); name != key {
		return name
	}
	return month.String()
}

func displayDate(messages map[string]string, day time.Time) string {
	if day.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d %s %d", day.Day(), monthName(messages, day.Month()), day.Year())
}

func monthTitle(messages map[string]string, month services.CalendarMonth) string {
	return fmt.Sprintf("%s %d", monthName(messages, month.Month), month.Year)
}

func currentLanguage(c *fiber.Ctx) string {
	language, ok := c.Locals(contextLanguageKey).(string)
	if !ok || strings.TrimSpace(language) == "" {
		return ""
	}
	return language
}

func currentMessages(c *fiber.Ctx) map[string]string {
	messages, ok := c.Locals(contextMessagesKey).(map[string]string)
	if !ok || messages == nil {
		return map[string]string{}
	}
	return messages
}

// localizedMessage falls back to the default language when the request skipped the
// language middleware.
func (handler *Handler) localizedMessage(c *fiber.Ctx, key string) string {
	if message := translateMessage(currentMessages(c), key); message != key {
		return message
	}
	return handler.i18n.Translate(currentLanguage(c), key)
}

func (handler *Handler) withTemplateDefaults(c *fiber.Ctx, data fiber.Map) fiber.Map {
	if data == nil {
		data = fiber.Map{}
	}

	if _, ok := data["Messages"]; !ok {
		messages := currentMessages(c)
		if len(messages) == 0 {
			messages = handler.i18n.Messages(handler.i18n.DefaultLanguage())
		}
		data["Messages"] = messages
	}
	if _, ok := data["Lang"]; !ok {
		language := currentLanguage(c)
		if language == "" {
			language = handler.i18n.DefaultLanguage()
		}
		data["Lang"] = language
	}
	if _, ok := data["CSRFToken"]; !ok {
		data["CSRFToken"] = csrfToken(c)
	}
	return data
}
