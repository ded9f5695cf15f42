package api

import (
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/terraincognita07/flowcast/internal/i18n"
	"github.com/terraincognita07/flowcast/internal/services"
	"github.com/terraincognita07/flowcast/internal/templates"
	"gorm.io/gorm"
)

type Handler struct {
	location        *time.Location
	cookieSecure    bool
	projectedCycles int
	i18n            *i18n.Manager
	templates       map[string]*template.Template
	now             func() time.Time

	dependencies
}

type HandlerOptions struct {
	Location        *time.Location
	CookieSecure    bool
	ProjectedCycles int
}

func NewHandler(database *gorm.DB, i18nManager *i18n.Manager, options HandlerOptions) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	if i18nManager == nil {
		return nil, errors.New("i18n manager is required")
	}
	location := options.Location
	if location == nil {
		location = time.Local
	}

	pages := []string{"dashboard"}
	parsedTemplates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		parsed, err := template.New("base").Funcs(templateFuncMap()).ParseFS(templates.Files, "base.html", page+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		parsedTemplates[page] = parsed
	}

	handler := &Handler{
		location:        location,
		cookieSecure:    options.CookieSecure,
		projectedCycles: options.ProjectedCycles,
		i18n:            i18nManager,
		templates:       parsedTemplates,
		now:             time.Now,
	}
	return handler.withDependencies(database), nil
}

// today is the current calendar day in the configured location.
func (handler *Handler) today() time.Time {
	return services.DateAtLocation(handler.now(), handler.location)
}
