// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package recur evaluates event recurrence rules and expands events into
// concrete dated instances. Every function is pure: no state, no I/O, same
// inputs always produce the same outputs.
package recur

import (
	"time"

	"eventcal/internal/models"
)

// MaxInstances caps how many instances a single expansion may produce.
// Long ranges over daily or weekly rules stop here; hitting the cap is a
// documented limit, not an error.
const MaxInstances = 365

// OccursOn reports whether the event produces an occurrence on the given
// date. Both the event's anchor date and the query date are yyyy-MM-dd
// strings; a malformed one yields models.ErrInvalidDate.
func OccursOn(ev models.Event, date string) (bool, error) {
	anchor, err := models.ParseDate(ev.Date)
	if err != nil {
		return false, err
	}
	day, err := models.ParseDate(date)
	if err != nil {
		return false, err
	}
	return occursOn(anchor, ev.Recurrence, day), nil
}

// occursOn is the rule evaluation over normalized calendar dates.
// Events never occur before their anchor date, whatever the rule.
func occursOn(anchor time.Time, rec models.Recurrence, day time.Time) bool {
	diff := models.DaysBetween(anchor, day)
	if diff < 0 {
		return false
	}

	switch rec {
	case models.RecurrenceDaily:
		return true
	case models.RecurrenceWeekly:
		return diff%7 == 0
	case models.RecurrenceMonthly:
		// Same day-of-month as the anchor. Months too short for the anchor
		// day (say, day 31 in February) are skipped outright: the day
		// equality never holds, so no instance is produced and nothing is
		// clamped to month-end.
		return day.Day() == anchor.Day()
	default:
		// "none" and any unrecognized value: anchor date only.
		return diff == 0
	}
}

// Expand produces every instance of the event whose date falls in
// [rangeStart, rangeEnd] inclusive, in ascending date order, up to
// MaxInstances. All three date arguments are yyyy-MM-dd strings; a
// malformed one yields models.ErrInvalidDate. An empty range (end before
// start) yields an empty slice.
func Expand(ev models.Event, rangeStart, rangeEnd string) ([]models.Instance, error) {
	anchor, err := models.ParseDate(ev.Date)
	if err != nil {
		return nil, err
	}
	start, err := models.ParseDate(rangeStart)
	if err != nil {
		return nil, err
	}
	end, err := models.ParseDate(rangeEnd)
	if err != nil {
		return nil, err
	}

	if anchor.After(start) {
		start = anchor
	}

	var out []models.Instance
	switch ev.Recurrence {
	case models.RecurrenceDaily:
		for day := start; !day.After(end) && len(out) < MaxInstances; day = day.AddDate(0, 0, 1) {
			out = append(out, Instance(ev, day))
		}
	case models.RecurrenceWeekly:
		// Jump to the first in-range date congruent to the anchor mod 7,
		// then step a week at a time.
		day := anchor.AddDate(0, 0, ((models.DaysBetween(anchor, start)+6)/7)*7)
		for ; !day.After(end) && len(out) < MaxInstances; day = day.AddDate(0, 0, 7) {
			out = append(out, Instance(ev, day))
		}
	case models.RecurrenceMonthly:
		// Visit the anchor's day-of-month in each month from start onward.
		// time.Date normalizes overflow (Feb 31 → Mar 2-ish), so a changed
		// Day() marks a month that skips.
		year, month := start.Year(), start.Month()
		for {
			day := time.Date(year, month, anchor.Day(), 0, 0, 0, 0, time.UTC)
			if day.After(end) && day.Day() == anchor.Day() {
				break
			}
			if day.Day() == anchor.Day() && !day.Before(start) && !day.After(end) {
				out = append(out, Instance(ev, day))
				if len(out) >= MaxInstances {
					break
				}
			}
			month++
			if month > time.December {
				month = time.January
				year++
			}
			// Past the range with no candidate left to produce.
			if time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).After(end) {
				break
			}
		}
	default:
		// Single occurrence on the anchor date, if in range.
		if !anchor.Before(start) && !anchor.After(end) {
			out = append(out, Instance(ev, anchor))
		}
	}

	return out, nil
}

// Instance builds the dated occurrence of an event on the given day.
// Instance identifiers are deterministic so repeated expansions over the
// same inputs yield identical IDs: the literal anchor occurrence keeps the
// event's own ID, every derived occurrence appends its date.
func Instance(ev models.Event, day time.Time) models.Instance {
	date := models.FormatDate(day)
	inst := models.Instance{
		Event:        ev,
		InstanceDate: date,
		OriginalID:   ev.ID,
	}
	if date == ev.Date {
		inst.ID = ev.ID
	} else {
		inst.ID = ev.ID + "-" + date
		inst.IsRecurring = true
	}
	return inst
}
