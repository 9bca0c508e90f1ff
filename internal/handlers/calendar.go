// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"eventcal/internal/index"
	"eventcal/internal/models"
	"eventcal/internal/render"
	"eventcal/internal/store"
)

// maxChipsPerDay caps how many event chips a month-grid cell shows before
// collapsing the rest into a "+N more" marker.
const maxChipsPerDay = 3

// Calendar groups the read-only calendar views: the month grid and the
// agenda list.
type Calendar struct {
	renderer    *render.Renderer
	events      store.EventStore
	authEnabled bool
}

// NewCalendar creates a new Calendar handler group.
func NewCalendar(renderer *render.Renderer, events store.EventStore, authEnabled bool) *Calendar {
	return &Calendar{
		renderer:    renderer,
		events:      events,
		authEnabled: authEnabled,
	}
}

// gridDay is one cell of the month grid.
type gridDay struct {
	Date    string // yyyy-MM-dd, target of the add-event link
	Num     int    // day of month
	InMonth bool   // false for the leading/trailing fill days
	IsToday bool
	Shown   []models.Instance // first chips, up to maxChipsPerDay
	More    int               // instances beyond Shown
}

// gridWeek is one row of seven cells.
type gridWeek struct {
	Days []gridDay
}

// MonthView renders the month grid: a fixed six-week, Sunday-first layout
// covering the requested month. Every cell queries the (filtered) event
// collection for instances on that date.
func (c *Calendar) MonthView(w http.ResponseWriter, r *http.Request) {
	month := parseMonth(r)
	filter := parseFilter(r)

	events, err := loadEvents(r.Context(), c.events)
	if err != nil {
		slog.Error("list events failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	filtered := index.Filter(events, filter.Query, filter.Category)

	// Back up from the 1st to the preceding Sunday, then lay out 42 cells.
	gridStart := month.AddDate(0, 0, -int(month.Weekday()))
	today := models.Today()

	weeks := make([]gridWeek, 0, 6)
	for wk := 0; wk < 6; wk++ {
		week := gridWeek{Days: make([]gridDay, 0, 7)}
		for d := 0; d < 7; d++ {
			day := gridStart.AddDate(0, 0, wk*7+d)
			date := models.FormatDate(day)

			instances, err := index.ForDate(filtered, date)
			if err != nil {
				// loadEvents dropped malformed anchors, so this is a bug.
				slog.Error("day query failed", "date", date, "error", err)
			}

			cell := gridDay{
				Date:    date,
				Num:     day.Day(),
				InMonth: day.Month() == month.Month(),
				IsToday: day.Equal(today),
				Shown:   instances,
			}
			if len(instances) > maxChipsPerDay {
				cell.Shown = instances[:maxChipsPerDay]
				cell.More = len(instances) - maxChipsPerDay
			}
			week.Days = append(week.Days, cell)
		}
		weeks = append(weeks, week)
	}

	monthKey := month.Format(monthLayout)
	c.renderer.Page(w, r, "calendar", &render.PageData{
		Title:    render.MonthLabel(monthKey),
		Section:  "calendar",
		Query:    filter.Query,
		Category: filter.Category,
		Data: map[string]any{
			"Weeks":         weeks,
			"Month":         monthKey,
			"MonthLabel":    render.MonthLabel(monthKey),
			"PrevMonth":     month.AddDate(0, -1, 0).Format(monthLayout),
			"NextMonth":     month.AddDate(0, 1, 0).Format(monthLayout),
			"FilterSuffix":  filter.suffix(),
			"FilterQuery":   filter.query(monthKey),
			"Filtered":      filter.active(),
			"FilteredCount": len(filtered),
			"TotalCount":    len(events),
			"Categories":    models.Categories,
			"AuthEnabled":   c.authEnabled,
		},
	})
}

// ListView renders the agenda: every instance falling inside the requested
// month, expanded from the (filtered) collection and grouped by date.
func (c *Calendar) ListView(w http.ResponseWriter, r *http.Request) {
	month := parseMonth(r)
	filter := parseFilter(r)

	events, err := loadEvents(r.Context(), c.events)
	if err != nil {
		slog.Error("list events failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	filtered := index.Filter(events, filter.Query, filter.Category)

	rangeStart := models.FormatDate(month)
	rangeEnd := models.FormatDate(month.AddDate(0, 1, -1))

	instances, err := index.ExpandAll(filtered, rangeStart, rangeEnd)
	if err != nil {
		slog.Error("expand events failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	groups := index.GroupByDate(instances)

	monthKey := month.Format(monthLayout)
	c.renderer.Page(w, r, "list", &render.PageData{
		Title:    "Events — " + render.MonthLabel(monthKey),
		Section:  "list",
		Query:    filter.Query,
		Category: filter.Category,
		Data: map[string]any{
			"Groups":        groups,
			"Month":         monthKey,
			"MonthLabel":    render.MonthLabel(monthKey),
			"PrevMonth":     month.AddDate(0, -1, 0).Format(monthLayout),
			"NextMonth":     month.AddDate(0, 1, 0).Format(monthLayout),
			"FilterSuffix":  filter.suffix(),
			"FilterQuery":   filter.query(monthKey),
			"Filtered":      filter.active(),
			"FilteredCount": len(filtered),
			"TotalCount":    len(events),
			"Categories":    models.Categories,
			"AuthEnabled":   c.authEnabled,
		},
	})
}
