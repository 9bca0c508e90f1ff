// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the calendar UI: the
// month grid, the agenda list, the event forms, the ICS feed, and the
// optional owner login.
package handlers

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"eventcal/internal/index"
	"eventcal/internal/models"
	"eventcal/internal/store"
)

// monthLayout is the yyyy-MM key used in month navigation query params.
const monthLayout = "2006-01"

// filterParams carries the search/filter state threaded through every
// calendar page so navigation links preserve it.
type filterParams struct {
	Query    string
	Category string
}

// parseFilter reads the q and category query params. An absent category
// reads as the "all" sentinel.
func parseFilter(r *http.Request) filterParams {
	f := filterParams{
		Query:    r.URL.Query().Get("q"),
		Category: r.URL.Query().Get("category"),
	}
	if f.Category == "" {
		f.Category = index.AllCategories
	}
	return f
}

// active reports whether the filter narrows the collection at all.
func (f filterParams) active() bool {
	return f.Query != "" || f.Category != index.AllCategories
}

// suffix returns "&q=...&category=..." for appending to links that already
// carry a month param, or "" when the filter is inactive. Returned as
// template.URL because the templates splice it into href attributes whole.
func (f filterParams) suffix() template.URL {
	if !f.active() {
		return ""
	}
	v := url.Values{}
	if f.Query != "" {
		v.Set("q", f.Query)
	}
	if f.Category != index.AllCategories {
		v.Set("category", f.Category)
	}
	return template.URL("&" + v.Encode())
}

// query returns the filter plus the month as a bare query string for links
// that carry no other params (the nav tabs).
func (f filterParams) query(month string) template.URL {
	v := url.Values{}
	if month != "" {
		v.Set("month", month)
	}
	if f.Query != "" {
		v.Set("q", f.Query)
	}
	if f.Category != index.AllCategories {
		v.Set("category", f.Category)
	}
	return template.URL(v.Encode())
}

// parseMonth reads the month query param as yyyy-MM, defaulting to the
// current month when absent or malformed.
func parseMonth(r *http.Request) time.Time {
	if m := r.URL.Query().Get("month"); m != "" {
		if t, err := time.Parse(monthLayout, m); err == nil {
			return t
		}
	}
	now := models.Today()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// loadEvents reads the full collection and drops entries whose anchor date
// no longer parses, logging each one. The recurrence and index packages
// treat a malformed date as an error; dropping at the storage boundary
// keeps one corrupt row from blanking the whole calendar.
func loadEvents(ctx context.Context, s store.EventStore) ([]models.Event, error) {
	events, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	valid := events[:0]
	for _, ev := range events {
		if _, err := models.ParseDate(ev.Date); err != nil {
			slog.Warn("skipping event with malformed date", "id", ev.ID, "date", ev.Date)
			continue
		}
		valid = append(valid, ev)
	}
	return valid, nil
}
