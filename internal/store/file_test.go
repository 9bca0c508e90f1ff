// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"eventcal/internal/models"
)

func newFileStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	return s, dir
}

func TestFileStore_EmptyOnFreshDir(t *testing.T) {
	s, _ := newFileStore(t)
	events, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("fresh store has %d events", len(events))
	}
}

func TestFileStore_CRUDRoundTrip(t *testing.T) {
	s, _ := newFileStore(t)
	ctx := context.Background()

	ev := models.Event{
		ID:         "ev1",
		Title:      "Dentist",
		Date:       "2024-06-15",
		Time:       "09:30",
		Category:   models.CategoryHealth,
		Recurrence: models.RecurrenceNone,
	}
	if err := s.Create(ctx, ev); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.FindByID(ctx, "ev1")
	if err != nil || got == nil {
		t.Fatalf("find: %v, %v", got, err)
	}
	if got.Title != "Dentist" || got.Time != "09:30" {
		t.Errorf("found event = %+v", got)
	}

	ev.Title = "Dentist (moved)"
	if err := s.Update(ctx, ev); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ = s.FindByID(ctx, "ev1")
	if got.Title != "Dentist (moved)" {
		t.Error("update not persisted")
	}

	if err := s.Delete(ctx, "ev1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got, _ := s.FindByID(ctx, "ev1"); got != nil {
		t.Error("event survives delete")
	}
}

func TestFileStore_MutationsAgainstMissingID(t *testing.T) {
	s, _ := newFileStore(t)
	ctx := context.Background()

	if err := s.Update(ctx, models.Event{ID: "ghost"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("update missing: %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete missing: %v, want ErrNotFound", err)
	}
	if got, err := s.FindByID(ctx, "ghost"); got != nil || err != nil {
		t.Errorf("find missing: %v, %v, want nil, nil", got, err)
	}
}

func TestFileStore_ReplaceSwapsCollection(t *testing.T) {
	s, _ := newFileStore(t)
	ctx := context.Background()

	if err := s.Create(ctx, models.Event{ID: "old", Title: "Old", Date: "2024-06-01"}); err != nil {
		t.Fatal(err)
	}

	if err := s.Replace(ctx, []models.Event{
		{ID: "new1", Title: "New one", Date: "2024-07-01"},
		{ID: "new2", Title: "New two", Date: "2024-07-02"},
	}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	events, _ := s.List(ctx)
	if len(events) != 2 {
		t.Fatalf("events after replace = %d, want 2", len(events))
	}
	if got, _ := s.FindByID(ctx, "old"); got != nil {
		t.Error("pre-replace event survived")
	}

	// A nil slice replaces with an empty collection, not a null document.
	if err := s.Replace(ctx, nil); err != nil {
		t.Fatalf("replace nil: %v", err)
	}
	events, _ = s.List(ctx)
	if len(events) != 0 {
		t.Errorf("events after nil replace = %d, want 0", len(events))
	}
}

func TestFileStore_CorruptFileReadsEmpty(t *testing.T) {
	s, dir := newFileStore(t)
	if err := os.WriteFile(filepath.Join(dir, eventsFile), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	events, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("list over corrupt file: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("corrupt file read as %d events", len(events))
	}

	// The next write recovers the file.
	if err := s.Create(context.Background(), models.Event{ID: "ev1", Title: "x", Date: "2024-06-15"}); err != nil {
		t.Fatalf("create after corrupt read: %v", err)
	}
	events, _ = s.List(context.Background())
	if len(events) != 1 {
		t.Errorf("events after recovery = %d, want 1", len(events))
	}
}

func TestFileStore_PersistsAsJSONArray(t *testing.T) {
	s, dir := newFileStore(t)
	if err := s.Create(context.Background(), models.Event{ID: "ev1", Title: "x", Date: "2024-06-15"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(context.Background(), "ev1"); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, eventsFile))
	if err != nil {
		t.Fatalf("read events file: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(string(raw)), "[") {
		t.Errorf("events file is not a JSON array: %s", raw)
	}
}

func TestFileStore_ProfileRoundTrip(t *testing.T) {
	s, _ := newFileStore(t)
	ctx := context.Background()

	if p, err := s.GetProfile(ctx); p != nil || err != nil {
		t.Fatalf("fresh profile: %v, %v, want nil, nil", p, err)
	}

	secret := "JBSWY3DPEHPK3PXP"
	if err := s.SaveProfile(ctx, &Profile{
		PasswordHash: "$2a$10$hash",
		TOTPSecret:   &secret,
	}); err != nil {
		t.Fatalf("save profile: %v", err)
	}

	p, err := s.GetProfile(ctx)
	if err != nil || p == nil {
		t.Fatalf("get profile: %v, %v", p, err)
	}
	if p.PasswordHash != "$2a$10$hash" || p.TOTPSecret == nil || *p.TOTPSecret != secret {
		t.Errorf("profile = %+v", p)
	}
	if p.CreatedAt.IsZero() || p.UpdatedAt.IsZero() {
		t.Error("profile timestamps not set on save")
	}
}
