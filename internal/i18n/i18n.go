package i18n

import (
	"cmp"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"path"
	"slices"
	"strconv"
	"strings"
)

const (
	LangRU = "ru"
	LangEN = "en"
)

//go:embed locales/*.json
var embeddedLocales embed.FS

var errNoLocales = errors.New("no locales found")

// NewEmbeddedManager loads the locales compiled into the binary.
func NewEmbeddedManager(defaultLanguage string) (*Manager, error) {
	locales, err := fs.Sub(embeddedLocales, "locales")
	if err != nil {
		return nil, fmt.Errorf("open embedded locales: %w", err)
	}
	return NewManager(defaultLanguage, locales)
}

// Manager serves message catalogs. Each language's catalog is resolved once at load
// time: English, then the default language, then the language itself.
type Manager struct {
	defaultLanguage string
	catalogs        map[string]map[string]string
}

// NewManager reads every <language>.json file at the root of locales. English is
// required since it backs keys missing from the others.
func NewManager(defaultLanguage string, locales fs.FS) (*Manager, error) {
	raw, err := readCatalogs(locales)
	if err != nil {
		return nil, err
	}
	if _, ok := raw[LangEN]; !ok {
		return nil, fmt.Errorf("required locale %q missing", LangEN)
	}

	manager := &Manager{defaultLanguage: LangEN, catalogs: raw}
	manager.defaultLanguage = manager.NormalizeLanguage(defaultLanguage)

	resolved := make(map[string]map[string]string, len(raw))
	for language, messages := range raw {
		catalog := maps.Clone(raw[LangEN])
		maps.Copy(catalog, raw[manager.defaultLanguage])
		maps.Copy(catalog, messages)
		resolved[language] = catalog
	}
	manager.catalogs = resolved
	return manager, nil
}

func readCatalogs(locales fs.FS) (map[string]map[string]string, error) {
	files, err := fs.Glob(locales, "*.json")
	if err != nil {
		return nil, fmt.Errorf("list locales: %w", err)
	}
	if len(files) == 0 {
		return nil, errNoLocales
	}

	catalogs := make(map[string]map[string]string, len(files))
	for _, name := range files {
		language := strings.ToLower(strings.TrimSuffix(name, path.Ext(name)))
		content, err := fs.ReadFile(locales, name)
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", language, err)
		}
		var messages map[string]string
		if err := json.Unmarshal(content, &messages); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", language, err)
		}
		if len(messages) == 0 {
			return nil, fmt.Errorf("locale %s has no messages", language)
		}
		catalogs[language] = messages
	}
	return catalogs, nil
}

func (manager *Manager) DefaultLanguage() string {
	return manager.defaultLanguage
}

// SupportedLanguages lists the loaded languages in alphabetical order.
func (manager *Manager) SupportedLanguages() []string {
	return slices.Sorted(maps.Keys(manager.catalogs))
}

// NormalizeLanguage maps a tag such as "ru_RU" onto a loaded language, falling back to
// the default language.
func (manager *Manager) NormalizeLanguage(raw string) string {
	if language := primarySubtag(raw); manager.isSupported(language) {
		return language
	}
	return manager.defaultLanguage
}

// DetectFromAcceptLanguage picks the supported language with the highest q-value.
func (manager *Manager) DetectFromAcceptLanguage(header string) string {
	type weighted struct {
		language string
		quality  float64
	}

	var candidates []weighted
	for part := range strings.SplitSeq(header, ",") {
		tag, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		language := primarySubtag(tag)
		if !manager.isSupported(language) {
			continue
		}
		quality := 1.0
		if value, found := strings.CutPrefix(strings.TrimSpace(params), "q="); found {
			parsed, err := strconv.ParseFloat(value, 64)
			if err != nil || parsed <= 0 {
				continue
			}
			quality = parsed
		}
		candidates = append(candidates, weighted{language: language, quality: quality})
	}
	if len(candidates) == 0 {
		return manager.defaultLanguage
	}

	slices.SortStableFunc(candidates, func(a weighted, b weighted) int {
		return cmp.Compare(b.quality, a.quality)
	})
	return candidates[0].language
}

// Messages returns a copy of the resolved catalog for language.
func (manager *Manager) Messages(language string) map[string]string {
	return maps.Clone(manager.catalogs[manager.NormalizeLanguage(language)])
}

func (manager *Manager) Translate(language string, key string) string {
	if value := manager.catalogs[manager.NormalizeLanguage(language)][key]; strings.TrimSpace(value) != "" {
		return value
	}
	return key
}

func (manager *Manager) Translatef(language string, key string, args ...any) string {
	return fmt.Sprintf(manager.Translate(language, key), args...)
}

func (manager *Manager) isSupported(language string) bool {
	_, ok := manager.catalogs[language]
	return language != "" && ok
}

func primarySubtag(tag string) string {
	language := strings.ToLower(strings.TrimSpace(tag))
	language, _, _ = strings.Cut(strings.ReplaceAll(language, "_", "-"), "-")
	return language
}
