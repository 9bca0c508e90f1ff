// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the calendar data structures shared across the
// application: the persisted Event and the derived, never-persisted Instance.
package models

import "time"

// Category classifies an event for filtering and display.
type Category string

const (
	CategoryPersonal  Category = "personal"
	CategoryWork      Category = "work"
	CategoryHealth    Category = "health"
	CategorySocial    Category = "social"
	CategoryEducation Category = "education"
	CategoryTravel    Category = "travel"
	CategoryFinance   Category = "finance"
	CategoryOther     Category = "other"
)

// Categories lists every known category in display order.
var Categories = []Category{
	CategoryPersonal, CategoryWork, CategoryHealth, CategorySocial,
	CategoryEducation, CategoryTravel, CategoryFinance, CategoryOther,
}

// Valid returns true if the category is one of the known values.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Display maps unknown category values to CategoryOther. Stored values are
// never rewritten; this fallback applies at render time only.
func (c Category) Display() Category {
	if c.Valid() {
		return c
	}
	return CategoryOther
}

// Recurrence describes how an event repeats after its anchor date.
type Recurrence string

const (
	RecurrenceNone    Recurrence = "none"
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
)

// Recurrences lists every known recurrence kind in display order.
var Recurrences = []Recurrence{
	RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly,
}

// Valid returns true if the recurrence is one of the known values.
func (r Recurrence) Valid() bool {
	for _, known := range Recurrences {
		if r == known {
			return true
		}
	}
	return false
}

// Repeats returns true if the event produces occurrences beyond its anchor
// date. Unknown recurrence values behave like "none".
func (r Recurrence) Repeats() bool {
	switch r {
	case RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return true
	}
	return false
}

// DefaultColor is the display tag applied when an event has none.
const DefaultColor = "bg-blue-100 text-blue-800"

// Event is the authoritative calendar entry as persisted by the store.
// Date is the anchor date in yyyy-MM-dd form; for recurring events it is the
// first occurrence. Time is an optional HH:mm string used only for same-day
// ordering. Category and Recurrence tolerate unknown values: they are kept
// verbatim in storage and degrade at the display/recurrence boundary.
type Event struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Date        string     `json:"date"`
	Time        string     `json:"time,omitempty"`
	Description string     `json:"description,omitempty"`
	Category    Category   `json:"category"`
	Recurrence  Recurrence `json:"recurrence"`
	Color       string     `json:"color,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Instance is a single dated occurrence of an event, produced by recurrence
// expansion or a day query. Instances are value copies computed per query
// and discarded; they carry OriginalID for lookup but are never written back.
type Instance struct {
	Event
	InstanceDate string `json:"instanceDate"`
	IsRecurring  bool   `json:"isRecurring"`
	OriginalID   string `json:"originalId"`
}
