// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Integration tests for the PostgreSQL backend. Skipped when no database
// is reachable on the configured address.
package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"eventcal/internal/database"
	"eventcal/internal/models"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := "postgres://" + envOr("POSTGRES_USER", "eventcal") +
		":" + envOr("POSTGRES_PASSWORD", "changeme") +
		"@" + envOr("POSTGRES_HOST", "localhost") +
		":" + envOr("POSTGRES_PORT", "5432") +
		"/" + envOr("POSTGRES_DB", "eventcal") + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() {
		db.Exec("DELETE FROM events")
		db.Exec("DELETE FROM profile")
		db.Close()
	})
	return db
}

func TestPostgresStore_CRUDRoundTrip(t *testing.T) {
	s := NewPostgresStore(testDB(t))
	ctx := context.Background()

	ev := models.Event{
		ID:          "pg1",
		Title:       "Rent due",
		Date:        "2024-01-31",
		Description: "transfer before noon",
		Category:    models.CategoryFinance,
		Recurrence:  models.RecurrenceMonthly,
	}
	if err := s.Create(ctx, ev); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.FindByID(ctx, "pg1")
	if err != nil || got == nil {
		t.Fatalf("find: %+v, %v", got, err)
	}
	// The DATE column round-trips back to the yyyy-MM-dd string form.
	if got.Date != "2024-01-31" {
		t.Errorf("date = %q, want 2024-01-31", got.Date)
	}
	if got.Recurrence != models.RecurrenceMonthly {
		t.Errorf("recurrence = %q", got.Recurrence)
	}

	ev.Title = "Rent"
	if err := s.Update(ctx, ev); err != nil {
		t.Fatalf("update: %v", err)
	}

	events, err := s.List(ctx)
	if err != nil || len(events) != 1 || events[0].Title != "Rent" {
		t.Fatalf("list after update: %+v, %v", events, err)
	}

	if err := s.Delete(ctx, "pg1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Update(ctx, ev); !errors.Is(err, ErrNotFound) {
		t.Errorf("update after delete: %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "pg1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: %v, want ErrNotFound", err)
	}
}

func TestPostgresStore_ReplaceSwapsCollection(t *testing.T) {
	s := NewPostgresStore(testDB(t))
	ctx := context.Background()

	if err := s.Create(ctx, models.Event{
		ID: "old", Title: "Old", Date: "2024-06-01", CreatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := s.Replace(ctx, []models.Event{
		{ID: "new1", Title: "New one", Date: "2024-07-01", CreatedAt: time.Now()},
		{ID: "new2", Title: "New two", Date: "2024-07-02", CreatedAt: time.Now()},
	}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	events, err := s.List(ctx)
	if err != nil || len(events) != 2 {
		t.Fatalf("after replace: %+v, %v", events, err)
	}
	if got, _ := s.FindByID(ctx, "old"); got != nil {
		t.Error("pre-replace event survived")
	}
}

func TestPostgresStore_ProfileSingleRow(t *testing.T) {
	db := testDB(t)
	s := NewPostgresStore(db)
	ctx := context.Background()

	if p, err := s.GetProfile(ctx); p != nil || err != nil {
		t.Fatalf("fresh profile: %v, %v", p, err)
	}

	secret := "JBSWY3DPEHPK3PXP"
	if err := s.SaveProfile(ctx, &Profile{PasswordHash: "hash-1", TOTPSecret: &secret}); err != nil {
		t.Fatalf("save profile: %v", err)
	}
	// Saving again upserts the same row rather than adding a second one.
	if err := s.SaveProfile(ctx, &Profile{PasswordHash: "hash-2", TOTPSecret: &secret, TOTPEnabled: true}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	p, err := s.GetProfile(ctx)
	if err != nil || p == nil {
		t.Fatalf("get profile: %v, %v", p, err)
	}
	if p.PasswordHash != "hash-2" || !p.TOTPEnabled {
		t.Errorf("profile = %+v", p)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM profile").Scan(&count); err == nil && count > 1 {
		t.Errorf("profile rows = %d, want at most 1", count)
	}
}
