// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ics renders the event collection as an iCalendar feed so the
// calendar can be subscribed to from other clients. Recurrence rules map
// onto RRULE: FREQ=MONTHLY with BYMONTHDAY shares the same
// skip-short-months behavior as the in-app expansion.
package ics

import (
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"eventcal/internal/models"
)

const prodID = "-//eventcal//calendar//EN"

// Build serializes the event collection into an iCalendar document.
// Events whose stored date cannot be parsed are skipped; the feed serves
// whatever remains.
func Build(events []models.Event, name string) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(prodID)
	if name != "" {
		cal.SetXWRCalName(name)
	}

	for _, ev := range events {
		day, err := models.ParseDate(ev.Date)
		if err != nil {
			continue
		}

		ve := cal.AddEvent(ev.ID)
		ve.SetSummary(ev.Title)
		if ev.Description != "" {
			ve.SetDescription(ev.Description)
		}
		ve.SetProperty(ical.ComponentPropertyCategories,
			strings.ToUpper(string(ev.Category.Display())))
		if !ev.CreatedAt.IsZero() {
			ve.SetCreatedTime(ev.CreatedAt)
			ve.SetDtStampTime(ev.CreatedAt)
		} else {
			ve.SetDtStampTime(time.Now())
		}

		if ev.Time != "" {
			start, terr := time.Parse(models.TimeLayout, ev.Time)
			if terr == nil {
				ve.SetStartAt(day.Add(
					time.Duration(start.Hour())*time.Hour +
						time.Duration(start.Minute())*time.Minute,
				))
			} else {
				ve.SetAllDayStartAt(day)
			}
		} else {
			ve.SetAllDayStartAt(day)
		}

		if rule := rrule(ev.Recurrence, day); rule != "" {
			ve.SetProperty(ical.ComponentPropertyRrule, rule)
		}
	}

	return cal.Serialize()
}

// rrule maps the in-app recurrence kinds to RRULE strings. "none" and
// unknown values produce no rule.
func rrule(rec models.Recurrence, anchor time.Time) string {
	switch rec {
	case models.RecurrenceDaily:
		return "FREQ=DAILY"
	case models.RecurrenceWeekly:
		return "FREQ=WEEKLY"
	case models.RecurrenceMonthly:
		return fmt.Sprintf("FREQ=MONTHLY;BYMONTHDAY=%d", anchor.Day())
	}
	return ""
}
