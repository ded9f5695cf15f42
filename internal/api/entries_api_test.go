package api

import (
	"net/http"
	"testing"
)

func TestEntryUpsertReplacesByDate(t *testing.T) {
	app, _ := newTestApp(t)

	created := doJSONRequest(t, app, http.MethodPost, "/api/entries", `{"date":"2024-01-01","cycle_length":28,"period_length":5,"notes":"first"}`)
	expectStatus(t, created, http.StatusOK)

	replaced := doJSONRequest(t, app, http.MethodPost, "/api/entries", `{"date":"2024-01-01","cycle_length":"30","period_length":null,"notes":"second"}`)
	expectStatus(t, replaced, http.StatusOK)

	listed := doJSONRequest(t, app, http.MethodGet, "/api/entries", "")
	expectStatus(t, listed, http.StatusOK)
	entries := []entryView{}
	decodeJSON(t, listed, &entries)

	if len(entries) != 1 {
		t.Fatalf("expected one entry after upsert, got %d", len(entries))
	}
	entry := entries[0]
	if entry.Date != "2024-01-01" || entry.CycleLength != 30 || entry.PeriodLength != 0 || entry.Notes != "second" {
		t.Fatalf("unexpected entry after upsert: %#v", entry)
	}
}

func TestEntryListIsNewestFirst(t *testing.T) {
	app, _ := newTestApp(t)

	for _, body := range []string{
		`{"date":"2023-11-06","cycle_length":28}`,
		`{"date":"2024-01-01","cycle_length":28}`,
		`{"date":"2023-12-04","cycle_length":28}`,
	} {
		expectStatus(t, doJSONRequest(t, app, http.MethodPost, "/api/entries", body), http.StatusOK)
	}

	entries := []entryView{}
	decodeJSON(t, doJSONRequest(t, app, http.MethodGet, "/api/entries", ""), &entries)

	expected := []string{"2024-01-01", "2023-12-04", "2023-11-06"}
	if len(entries) != len(expected) {
		t.Fatalf("expected %d entries, got %d", len(expected), len(entries))
	}
	for index, date := range expected {
		if entries[index].Date != date {
			t.Fatalf("entries[%d]: expected %s, got %s", index, date, entries[index].Date)
		}
	}
}

func TestEntryFormSubmissionRedirects(t *testing.T) {
	app, _ := newTestApp(t)

	response := doFormRequest(t, app, "/api/entries", "date=2024-01-01&cycle_length=&period_length=4&notes=from+form")
	expectStatus(t, response, http.StatusSeeOther)
	if location := response.Header.Get("Location"); location != "/" {
		t.Fatalf("expected redirect to /, got %q", location)
	}

	entries := []entryView{}
	decodeJSON(t, doJSONRequest(t, app, http.MethodGet, "/api/entries", ""), &entries)
	if len(entries) != 1 || entries[0].CycleLength != 0 || entries[0].PeriodLength != 4 || entries[0].Notes != "from form" {
		t.Fatalf("unexpected entries after form submit: %#v", entries)
	}
}

func TestEntryValidationErrors(t *testing.T) {
	app, _ := newTestApp(t)

	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{name: "missing date", body: `{"cycle_length":28}`, expected: "Invalid date"},
		{name: "impossible date", body: `{"date":"2023-02-29"}`, expected: "Invalid date"},
		{name: "cycle too long", body: `{"date":"2024-01-01","cycle_length":400}`, expected: "Cycle or period length is out of range"},
		{name: "fractional length", body: `{"date":"2024-01-01","period_length":4.5}`, expected: "Cycle or period length is out of range"},
		{name: "word length", body: `{"date":"2024-01-01","cycle_length":"long"}`, expected: "Cycle or period length is out of range"},
		{name: "truncated body", body: `{"date":"2024-01-01"`, expected: "Request body could not be read"},
		{name: "date not a string", body: `{"date":20240101}`, expected: "Request body could not be read"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			response := doJSONRequest(t, app, http.MethodPost, "/api/entries", testCase.body)
			expectStatus(t, response, http.StatusBadRequest)
			if message := readAPIError(t, response); message != testCase.expected {
				t.Fatalf("expected error %q, got %q", testCase.expected, message)
			}
		})
	}
}

func TestEntryDelete(t *testing.T) {
	app, _ := newTestApp(t)
	expectStatus(t, doJSONRequest(t, app, http.MethodPost, "/api/entries", `{"date":"2024-01-01"}`), http.StatusOK)

	expectStatus(t, doJSONRequest(t, app, http.MethodDelete, "/api/entries/2024-01-01", ""), http.StatusOK)

	missing := doJSONRequest(t, app, http.MethodDelete, "/api/entries/2024-01-01", "")
	expectStatus(t, missing, http.StatusNotFound)
	if message := readAPIError(t, missing); message != "Entry not found" {
		t.Fatalf("expected not found message, got %q", message)
	}

	invalid := doJSONRequest(t, app, http.MethodDelete, "/api/entries/not-a-date", "")
	expectStatus(t, invalid, http.StatusBadRequest)
}

func TestEntryDeleteFormAliasRedirects(t *testing.T) {
	app, _ := newTestApp(t)
	expectStatus(t, doJSONRequest(t, app, http.MethodPost, "/api/entries", `{"date":"2024-01-01"}`), http.StatusOK)

	response := doFormRequest(t, app, "/api/entries/2024-01-01/delete", "")
	expectStatus(t, response, http.StatusSeeOther)

	entries := []entryView{}
	decodeJSON(t, doJSONRequest(t, app, http.MethodGet, "/api/entries", ""), &entries)
	if len(entries) != 0 {
		t.Fatalf("expected entry to be deleted, got %#v", entries)
	}
}
