// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package index answers day and range queries over an event collection:
// which instances fall on a given date, how instances bucket by date for
// list display, and which events pass the search/filter predicate. Like
// recur, it holds no state; every call works on the snapshot it is handed.
package index

import (
	"sort"
	"strings"

	"eventcal/internal/models"
	"eventcal/internal/recur"
)

// AllCategories is the sentinel category filter that matches every event.
const AllCategories = "all"

// ForDate returns one instance per event that occurs on the given date,
// preserving the input order of the collection. An event matches when the
// date is its literal anchor or when its recurrence rule produces an
// occurrence there. The date is a yyyy-MM-dd string; a malformed date or
// a malformed anchor in the collection yields models.ErrInvalidDate.
func ForDate(events []models.Event, date string) ([]models.Instance, error) {
	day, err := models.ParseDate(date)
	if err != nil {
		return nil, err
	}

	var out []models.Instance
	for _, ev := range events {
		if ev.Date == date {
			out = append(out, recur.Instance(ev, day))
			continue
		}
		if !ev.Recurrence.Repeats() {
			continue
		}
		ok, err := recur.OccursOn(ev, date)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, recur.Instance(ev, day))
		}
	}
	return out, nil
}

// DayGroup is one date bucket of instances for list display.
type DayGroup struct {
	Date      string
	Instances []models.Instance
}

// GroupByDate buckets instances by their date. Buckets come back in
// ascending date order; inside a bucket instances sort by time ascending,
// with a missing time sorting first. Ties keep their input order.
func GroupByDate(instances []models.Instance) []DayGroup {
	byDate := make(map[string][]models.Instance)
	var dates []string
	for _, inst := range instances {
		if _, seen := byDate[inst.InstanceDate]; !seen {
			dates = append(dates, inst.InstanceDate)
		}
		byDate[inst.InstanceDate] = append(byDate[inst.InstanceDate], inst)
	}
	// yyyy-MM-dd sorts chronologically as a string.
	sort.Strings(dates)

	groups := make([]DayGroup, 0, len(dates))
	for _, date := range dates {
		day := byDate[date]
		sort.SliceStable(day, func(i, j int) bool {
			return day[i].Time < day[j].Time
		})
		groups = append(groups, DayGroup{Date: date, Instances: day})
	}
	return groups
}

// Matches is the search/filter predicate: a case-insensitive substring
// match of query against title or description, AND an exact category match
// (or the "all" sentinel). A blank query matches everything. Category is
// compared against the stored value verbatim, unknown categories included.
func Matches(ev models.Event, query, category string) bool {
	if category != AllCategories && string(ev.Category) != category {
		return false
	}
	if strings.TrimSpace(query) == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(ev.Title), q) ||
		strings.Contains(strings.ToLower(ev.Description), q)
}

// Filter returns the events passing Matches, preserving input order.
func Filter(events []models.Event, query, category string) []models.Event {
	if strings.TrimSpace(query) == "" && (category == "" || category == AllCategories) {
		return events
	}
	if category == "" {
		category = AllCategories
	}
	var out []models.Event
	for _, ev := range events {
		if Matches(ev, query, category) {
			out = append(out, ev)
		}
	}
	return out
}

// ExpandAll expands every event over [rangeStart, rangeEnd] and merges the
// results into a single slice ordered by collection position first, date
// second — ready for GroupByDate, which imposes the final ordering.
func ExpandAll(events []models.Event, rangeStart, rangeEnd string) ([]models.Instance, error) {
	var out []models.Instance
	for _, ev := range events {
		instances, err := recur.Expand(ev, rangeStart, rangeEnd)
		if err != nil {
			return nil, err
		}
		out = append(out, instances...)
	}
	return out, nil
}
