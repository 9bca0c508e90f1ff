// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"eventcal/internal/ics"
	"eventcal/internal/store"
)

// Export serves the calendar as an iCalendar feed.
type Export struct {
	events store.EventStore
	title  string
}

// NewExport creates a new Export handler.
func NewExport(events store.EventStore, title string) *Export {
	return &Export{events: events, title: title}
}

// Feed writes the full collection as an .ics download. Recurrence rules
// travel as RRULE lines, so subscribing clients expand them natively.
func (e *Export) Feed(w http.ResponseWriter, r *http.Request) {
	events, err := e.events.List(r.Context())
	if err != nil {
		slog.Error("list events failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="calendar.ics"`)
	if _, err := w.Write([]byte(ics.Build(events, e.title))); err != nil {
		slog.Error("write ics feed failed", "error", err)
	}
}
