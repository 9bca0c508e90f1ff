// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package index

import (
	"errors"
	"testing"

	"eventcal/internal/models"
)

// TestForDateWeekly verifies the end-to-end day query: a weekly event
// anchored 2024-03-01 shows up on 2024-03-15 and not on 2024-03-16.
func TestForDateWeekly(t *testing.T) {
	events := []models.Event{
		{ID: "1", Title: "Standup", Date: "2024-03-01", Recurrence: models.RecurrenceWeekly},
	}

	got, err := ForDate(events, "2024-03-15")
	if err != nil {
		t.Fatalf("ForDate: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("ForDate(2024-03-15) = %d instances, want 1", len(got))
	}
	if got[0].InstanceDate != "2024-03-15" {
		t.Errorf("instance date = %s, want 2024-03-15", got[0].InstanceDate)
	}
	if got[0].OriginalID != "1" {
		t.Errorf("OriginalID = %s, want 1", got[0].OriginalID)
	}

	got, err = ForDate(events, "2024-03-16")
	if err != nil {
		t.Fatalf("ForDate: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("ForDate(2024-03-16) = %d instances, want 0", len(got))
	}
}

// TestForDateLiteralMatch verifies the anchor date matches regardless of
// recurrence kind, and that non-recurring events only match literally.
func TestForDateLiteralMatch(t *testing.T) {
	for _, rec := range models.Recurrences {
		t.Run(string(rec), func(t *testing.T) {
			events := []models.Event{
				{ID: "1", Title: "Anchor", Date: "2024-06-15", Recurrence: rec},
			}
			got, err := ForDate(events, "2024-06-15")
			if err != nil {
				t.Fatalf("ForDate: %v", err)
			}
			if len(got) != 1 {
				t.Fatalf("ForDate(anchor, %s) = %d instances, want 1", rec, len(got))
			}
			if got[0].IsRecurring {
				t.Error("literal anchor occurrence must not be marked recurring")
			}
		})
	}
}

// TestForDatePreservesInputOrder verifies results come back in collection
// order with no implicit sort: the "first 3 then +N more" display relies
// on this.
func TestForDatePreservesInputOrder(t *testing.T) {
	events := []models.Event{
		{ID: "c", Title: "Later", Date: "2024-06-15", Time: "22:00"},
		{ID: "a", Title: "Daily", Date: "2024-06-01", Recurrence: models.RecurrenceDaily},
		{ID: "b", Title: "Early", Date: "2024-06-15", Time: "06:00"},
	}

	got, err := ForDate(events, "2024-06-15")
	if err != nil {
		t.Fatalf("ForDate: %v", err)
	}
	wantOrder := []string{"c", "a", "b"}
	if len(got) != len(wantOrder) {
		t.Fatalf("ForDate = %d instances, want %d", len(got), len(wantOrder))
	}
	for i, inst := range got {
		if inst.OriginalID != wantOrder[i] {
			t.Errorf("position %d = event %s, want %s", i, inst.OriginalID, wantOrder[i])
		}
	}
}

// TestForDateInvalidDate verifies malformed dates surface ErrInvalidDate.
func TestForDateInvalidDate(t *testing.T) {
	if _, err := ForDate(nil, "15-06-2024"); !errors.Is(err, models.ErrInvalidDate) {
		t.Errorf("ForDate error = %v, want ErrInvalidDate", err)
	}
}

// TestGroupByDate pins the bucketing contract: buckets ascend by date,
// intra-day order is untimed first then time ascending.
func TestGroupByDate(t *testing.T) {
	instances := []models.Instance{
		{Event: models.Event{ID: "1", Time: "09:00"}, InstanceDate: "2024-06-02"},
		{Event: models.Event{ID: "2", Time: ""}, InstanceDate: "2024-06-01"},
		{Event: models.Event{ID: "3", Time: "08:00"}, InstanceDate: "2024-06-01"},
	}

	groups := GroupByDate(instances)
	if len(groups) != 2 {
		t.Fatalf("GroupByDate = %d groups, want 2", len(groups))
	}

	if groups[0].Date != "2024-06-01" || groups[1].Date != "2024-06-02" {
		t.Fatalf("group dates = %s, %s; want 2024-06-01, 2024-06-02",
			groups[0].Date, groups[1].Date)
	}

	first := groups[0].Instances
	if len(first) != 2 || first[0].ID != "2" || first[1].ID != "3" {
		t.Errorf("2024-06-01 order = %v, want untimed event 2 then 08:00 event 3", ids(first))
	}
	if len(groups[1].Instances) != 1 || groups[1].Instances[0].ID != "1" {
		t.Errorf("2024-06-02 group = %v, want only event 1", ids(groups[1].Instances))
	}
}

// TestGroupByDateStableTies verifies instances with identical date and time
// keep their input relative order.
func TestGroupByDateStableTies(t *testing.T) {
	instances := []models.Instance{
		{Event: models.Event{ID: "x", Time: "10:00"}, InstanceDate: "2024-06-01"},
		{Event: models.Event{ID: "y", Time: "10:00"}, InstanceDate: "2024-06-01"},
		{Event: models.Event{ID: "z", Time: "10:00"}, InstanceDate: "2024-06-01"},
	}

	groups := GroupByDate(instances)
	if len(groups) != 1 {
		t.Fatalf("GroupByDate = %d groups, want 1", len(groups))
	}
	want := []string{"x", "y", "z"}
	for i, inst := range groups[0].Instances {
		if inst.ID != want[i] {
			t.Errorf("tie position %d = %s, want %s", i, inst.ID, want[i])
		}
	}
}

// TestGroupByDateEmpty verifies an empty input yields no groups.
func TestGroupByDateEmpty(t *testing.T) {
	if groups := GroupByDate(nil); len(groups) != 0 {
		t.Errorf("GroupByDate(nil) = %d groups, want 0", len(groups))
	}
}

// TestMatches covers the search/filter predicate.
func TestMatches(t *testing.T) {
	ev := models.Event{
		Title:       "Trip to Lisbon",
		Description: "Book flights and hotel",
		Category:    models.CategoryTravel,
	}

	tests := []struct {
		name     string
		query    string
		category string
		want     bool
	}{
		{name: "blank query all categories", query: "", category: "all", want: true},
		{name: "whitespace query", query: "   ", category: "all", want: true},
		{name: "title substring", query: "trip", category: "all", want: true},
		{name: "title substring mixed case", query: "tRiP", category: "all", want: true},
		{name: "description substring", query: "FLIGHTS", category: "all", want: true},
		{name: "no substring", query: "dentist", category: "all", want: false},
		{name: "category match", query: "", category: "travel", want: true},
		{name: "category mismatch", query: "", category: "work", want: false},
		{name: "both must hold", query: "trip", category: "work", want: false},
		{name: "query and category", query: "lisbon", category: "travel", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Matches(ev, tt.query, tt.category); got != tt.want {
				t.Errorf("Matches(%q, %q) = %v, want %v", tt.query, tt.category, got, tt.want)
			}
		})
	}
}

// TestMatchesVerbatimCategory verifies filtering compares the stored value,
// even for categories outside the known set.
func TestMatchesVerbatimCategory(t *testing.T) {
	ev := models.Event{Title: "Lodge meeting", Category: models.Category("secret-society")}

	if !Matches(ev, "", "secret-society") {
		t.Error("unknown stored category should match itself exactly")
	}
	if Matches(ev, "", "other") {
		t.Error("unknown stored category must not match its display fallback")
	}
	if !Matches(ev, "", "all") {
		t.Error(`"all" must match every category`)
	}
}

// TestExpandAllRoundTrip verifies property 8: a daily event over a ten-day
// range regroups into ten single-instance buckets with consecutive dates.
func TestExpandAllRoundTrip(t *testing.T) {
	events := []models.Event{
		{ID: "1", Title: "Walk", Date: "2024-06-01", Recurrence: models.RecurrenceDaily},
	}

	instances, err := ExpandAll(events, "2024-06-01", "2024-06-10")
	if err != nil {
		t.Fatalf("ExpandAll: %v", err)
	}
	groups := GroupByDate(instances)
	if len(groups) != 10 {
		t.Fatalf("round trip = %d buckets, want 10", len(groups))
	}
	prev := ""
	for i, g := range groups {
		if len(g.Instances) != 1 {
			t.Errorf("bucket %s has %d instances, want 1", g.Date, len(g.Instances))
		}
		if i > 0 {
			prevDay, _ := models.ParseDate(prev)
			day, _ := models.ParseDate(g.Date)
			if models.DaysBetween(prevDay, day) != 1 {
				t.Errorf("buckets not consecutive: %s then %s", prev, g.Date)
			}
		}
		prev = g.Date
	}
}

// TestFilter verifies Filter applies Matches and preserves order, treating
// an empty category as "all".
func TestFilter(t *testing.T) {
	events := []models.Event{
		{ID: "1", Title: "Dentist", Category: models.CategoryHealth},
		{ID: "2", Title: "Standup", Category: models.CategoryWork},
		{ID: "3", Title: "Dentist follow-up", Category: models.CategoryHealth},
	}

	got := Filter(events, "dentist", "")
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "3" {
		t.Errorf("Filter(dentist) = %v, want events 1 and 3 in order", eventIDs(got))
	}

	got = Filter(events, "", "work")
	if len(got) != 1 || got[0].ID != "2" {
		t.Errorf("Filter(work) = %v, want event 2", eventIDs(got))
	}

	got = Filter(events, "", "")
	if len(got) != 3 {
		t.Errorf("Filter(no criteria) = %d events, want all 3", len(got))
	}
}

func ids(instances []models.Instance) []string {
	out := make([]string, len(instances))
	for i, inst := range instances {
		out[i] = inst.ID
	}
	return out
}

func eventIDs(events []models.Event) []string {
	out := make([]string, len(events))
	for i, ev := range events {
		out[i] = ev.ID
	}
	return out
}
