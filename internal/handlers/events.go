// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"eventcal/internal/models"
	"eventcal/internal/render"
	"eventcal/internal/store"
)

// eventColors is the swatch palette offered in the event form. The first
// entry doubles as the default for events created without a choice.
var eventColors = []string{
	"bg-blue-100 text-blue-800",
	"bg-purple-100 text-purple-800",
	"bg-green-100 text-green-800",
	"bg-pink-100 text-pink-800",
	"bg-yellow-100 text-yellow-800",
	"bg-indigo-100 text-indigo-800",
	"bg-red-100 text-red-800",
	"bg-gray-100 text-gray-800",
}

// Events groups the event CRUD handlers: forms, create, update, delete,
// and the move (reschedule) action.
type Events struct {
	renderer    *render.Renderer
	store       store.EventStore
	authEnabled bool
}

// NewEvents creates a new Events handler group.
func NewEvents(renderer *render.Renderer, s store.EventStore, authEnabled bool) *Events {
	return &Events{
		renderer:    renderer,
		store:       s,
		authEnabled: authEnabled,
	}
}

// NewForm renders the blank event form. A date query param (from clicking
// a day cell) pre-fills the anchor date; otherwise it defaults to today.
func (e *Events) NewForm(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if _, err := models.ParseDate(date); err != nil {
		date = models.FormatDate(models.Today())
	}

	ev := models.Event{
		Date:       date,
		Category:   models.CategoryPersonal,
		Recurrence: models.RecurrenceNone,
		Color:      eventColors[0],
	}
	e.form(w, r, "new", "/events", ev, "")
}

// Create handles the new-event form submission.
func (e *Events) Create(w http.ResponseWriter, r *http.Request) {
	ev := eventFromForm(r)
	if msg := validateEvent(ev.Title, ev.Date, ev.Time, ev.Description); msg != "" {
		e.form(w, r, "new", "/events", ev, msg)
		return
	}

	ev.ID = uuid.NewString()
	ev.CreatedAt = time.Now().UTC()

	if err := e.store.Create(r.Context(), ev); err != nil {
		slog.Error("create event failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	slog.Info("event created", "id", ev.ID, "title", ev.Title, "date", ev.Date)
	redirectToMonth(w, r, ev.Date)
}

// EditForm renders the form pre-filled with an existing event.
func (e *Events) EditForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ev, err := e.store.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("find event failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if ev == nil {
		http.NotFound(w, r)
		return
	}

	e.form(w, r, "edit", "/events/"+id, *ev, "")
}

// Update handles the edit form submission. The stored ID and creation
// timestamp survive the update; everything else comes from the form.
func (e *Events) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	existing, err := e.store.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("find event failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if existing == nil {
		http.NotFound(w, r)
		return
	}

	ev := eventFromForm(r)
	ev.ID = existing.ID
	ev.CreatedAt = existing.CreatedAt

	if msg := validateEvent(ev.Title, ev.Date, ev.Time, ev.Description); msg != "" {
		e.form(w, r, "edit", "/events/"+id, ev, msg)
		return
	}

	if err := e.store.Update(r.Context(), ev); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		slog.Error("update event failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	redirectToMonth(w, r, ev.Date)
}

// Delete removes an event. Deleting a recurring event removes every
// occurrence, since occurrences only exist as expansions of the anchor.
func (e *Events) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := e.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		slog.Error("delete event failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	slog.Info("event deleted", "id", id)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Move reschedules an event to a new anchor date. For recurring events
// the whole series shifts, because occurrences derive from the anchor.
func (e *Events) Move(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	date := r.FormValue("date")

	if _, err := models.ParseDate(date); err != nil {
		http.Error(w, "Bad Request: date must be yyyy-MM-dd", http.StatusBadRequest)
		return
	}

	ev, err := e.store.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("find event failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if ev == nil {
		http.NotFound(w, r)
		return
	}

	ev.Date = date
	if err := e.store.Update(r.Context(), *ev); err != nil {
		slog.Error("move event failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	slog.Info("event moved", "id", id, "date", date)
	redirectToMonth(w, r, date)
}

// form renders the event form in either mode, echoing a validation error
// above the fields when one is set.
func (e *Events) form(w http.ResponseWriter, r *http.Request, mode, action string, ev models.Event, errMsg string) {
	title := "Add Event"
	if mode == "edit" {
		title = "Edit Event"
	}

	e.renderer.Page(w, r, "event_form", &render.PageData{
		Title:   title,
		Section: "calendar",
		Data: map[string]any{
			"Mode":        mode,
			"Action":      action,
			"Event":       ev,
			"Error":       errMsg,
			"Month":       monthOf(ev.Date),
			"Categories":  models.Categories,
			"Recurrences": models.Recurrences,
			"Colors":      eventColors,
			"AuthEnabled": e.authEnabled,
		},
	})
}

// eventFromForm builds an Event from the submitted form fields. Unknown
// category or recurrence values are kept verbatim; they degrade gracefully
// downstream rather than failing the submission.
func eventFromForm(r *http.Request) models.Event {
	ev := models.Event{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Date:        strings.TrimSpace(r.FormValue("date")),
		Time:        strings.TrimSpace(r.FormValue("time")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Category:    models.Category(r.FormValue("category")),
		Recurrence:  models.Recurrence(r.FormValue("recurrence")),
		Color:       r.FormValue("color"),
	}
	if ev.Category == "" {
		ev.Category = models.CategoryPersonal
	}
	if ev.Recurrence == "" {
		ev.Recurrence = models.RecurrenceNone
	}
	if ev.Color == "" {
		ev.Color = eventColors[0]
	}
	return ev
}

// monthOf extracts the yyyy-MM prefix of a date for redirect targets.
func monthOf(date string) string {
	if len(date) >= len(monthLayout) {
		return date[:len(monthLayout)]
	}
	return ""
}

// redirectToMonth sends the browser back to the month grid showing the
// given date's month.
func redirectToMonth(w http.ResponseWriter, r *http.Request, date string) {
	target := "/"
	if m := monthOf(date); m != "" {
		target = "/?month=" + m
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
