// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the calendar
// interface. Page templates are embedded at compile time and paired with
// the base layout; auth pages render standalone.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"eventcal/internal/middleware"
	"eventcal/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageData holds all data passed to page templates.
type PageData struct {
	Title     string         // Page title for the <title> tag
	Section   string         // Active nav section ("calendar", "list")
	AppTitle  string         // Calendar display name from config
	CSRFToken string         // CSRF token for forms
	Query     string         // Active search query, echoed in the filter bar
	Category  string         // Active category filter ("all" when unset)
	Data      map[string]any // Page-specific data
}

// Renderer handles template parsing and execution.
type Renderer struct {
	templates map[string]*template.Template
	appTitle  string
}

// standaloneTemplates lists templates that render as full HTML pages
// without the base layout (they have their own <html>, <head>, etc.).
var standaloneTemplates = map[string]bool{
	"login":      true,
	"setup":      true,
	"2fa_verify": true,
}

// pageTemplates lists the templates rendered inside the base layout.
var pageTemplates = []string{"calendar", "list", "event_form"}

// categoryIcons mirrors the original UI's per-category markers.
var categoryIcons = map[models.Category]string{
	models.CategoryPersonal:  "👤",
	models.CategoryWork:      "💼",
	models.CategoryHealth:    "🏥",
	models.CategorySocial:    "👥",
	models.CategoryEducation: "📚",
	models.CategoryTravel:    "✈️",
	models.CategoryFinance:   "💰",
	models.CategoryOther:     "📝",
}

// categoryColors maps categories to their badge style classes.
var categoryColors = map[models.Category]string{
	models.CategoryPersonal:  "bg-blue-100 text-blue-800",
	models.CategoryWork:      "bg-purple-100 text-purple-800",
	models.CategoryHealth:    "bg-green-100 text-green-800",
	models.CategorySocial:    "bg-pink-100 text-pink-800",
	models.CategoryEducation: "bg-yellow-100 text-yellow-800",
	models.CategoryTravel:    "bg-indigo-100 text-indigo-800",
	models.CategoryFinance:   "bg-red-100 text-red-800",
	models.CategoryOther:     "bg-gray-100 text-gray-800",
}

// New creates a Renderer by parsing all templates from the embedded
// filesystem.
func New(appTitle string) (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		appTitle:  appTitle,
	}

	funcs := template.FuncMap{
		// categoryIcon returns the marker for a category, falling back to
		// the "other" marker for unknown stored values.
		"categoryIcon": func(c models.Category) string {
			return categoryIcons[c.Display()]
		},
		// categoryColor returns the badge classes for a category.
		"categoryColor": func(c models.Category) string {
			return categoryColors[c.Display()]
		},
		// dateLabel renders a yyyy-MM-dd date as Today/Tomorrow/Yesterday
		// or a long-form date.
		"dateLabel": DateLabel,
		// eventColor returns the event's own display tag, or the default.
		"eventColor": func(color string) string {
			if color == "" {
				return models.DefaultColor
			}
			return color
		},
	}

	for _, name := range pageTemplates {
		tmpl, err := template.New("base.html").Funcs(funcs).ParseFS(
			templateFS, "templates/base.html", "templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[name] = tmpl
	}

	for name := range standaloneTemplates {
		tmpl, err := template.New(name + ".html").Funcs(funcs).ParseFS(
			templateFS, "templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[name] = tmpl
	}

	return r, nil
}

// Page renders the named template with the given data. Rendering errors
// after headers are sent can only be logged.
func (r *Renderer) Page(w http.ResponseWriter, req *http.Request, name string, data *PageData) {
	tmpl, ok := r.templates[name]
	if !ok {
		slog.Error("unknown template", "name", name)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if data == nil {
		data = &PageData{}
	}
	data.AppTitle = r.appTitle
	data.CSRFToken = middleware.GetCSRFToken(req)
	if data.Category == "" {
		data.Category = "all"
	}
	if data.Data == nil {
		data.Data = map[string]any{}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	root := "base.html"
	if standaloneTemplates[name] {
		root = name + ".html"
	}
	if err := tmpl.ExecuteTemplate(w, root, data); err != nil {
		slog.Error("template execution failed", "name", name, "error", err)
	}
}

// DateLabel renders a calendar date for list headings: Today, Tomorrow,
// Yesterday, or "Saturday, Jun 15, 2024". Unparseable dates come back
// verbatim.
func DateLabel(date string) string {
	day, err := models.ParseDate(date)
	if err != nil {
		return date
	}
	switch models.DaysBetween(models.Today(), day) {
	case 0:
		return "Today"
	case 1:
		return "Tomorrow"
	case -1:
		return "Yesterday"
	}
	return day.Format("Monday, Jan 2, 2006")
}

// MonthLabel renders a yyyy-MM month key as "June 2024".
func MonthLabel(month string) string {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return month
	}
	return t.Format("January 2006")
}
