// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Integration tests for the Valkey backend. Skipped when no Valkey is
// reachable on the configured address.
package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"eventcal/internal/models"
)

func testValkey(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("VALKEY_PASSWORD"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		client.Del(context.Background(), valkeyEventsKey, valkeyProfileKey)
		client.Close()
	})
	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestValkeyStore_CRUDRoundTrip(t *testing.T) {
	s := NewValkeyStore(testValkey(t))
	ctx := context.Background()

	if events, err := s.List(ctx); err != nil || len(events) != 0 {
		t.Fatalf("fresh list: %v, %v", events, err)
	}

	ev := models.Event{
		ID:         "vk1",
		Title:      "Standup",
		Date:       "2024-06-03",
		Recurrence: models.RecurrenceWeekly,
	}
	if err := s.Create(ctx, ev); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.FindByID(ctx, "vk1")
	if err != nil || got == nil || got.Title != "Standup" {
		t.Fatalf("find: %+v, %v", got, err)
	}

	ev.Title = "Standup (async)"
	if err := s.Update(ctx, ev); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ = s.FindByID(ctx, "vk1")
	if got.Title != "Standup (async)" {
		t.Error("update not persisted")
	}

	if err := s.Delete(ctx, "vk1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, "vk1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: %v, want ErrNotFound", err)
	}
}

func TestValkeyStore_ReplaceSwapsCollection(t *testing.T) {
	s := NewValkeyStore(testValkey(t))
	ctx := context.Background()

	if err := s.Create(ctx, models.Event{ID: "old", Title: "Old", Date: "2024-06-01"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Replace(ctx, []models.Event{{ID: "new", Title: "New", Date: "2024-07-01"}}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	events, err := s.List(ctx)
	if err != nil || len(events) != 1 || events[0].ID != "new" {
		t.Errorf("after replace: %+v, %v", events, err)
	}
}

func TestValkeyStore_CorruptDocumentReadsEmpty(t *testing.T) {
	client := testValkey(t)
	s := NewValkeyStore(client)
	ctx := context.Background()

	if err := client.Set(ctx, valkeyEventsKey, "{not json", 0).Err(); err != nil {
		t.Fatal(err)
	}

	events, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list over corrupt document: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("corrupt document read as %d events", len(events))
	}
}

func TestValkeyStore_ProfileRoundTrip(t *testing.T) {
	s := NewValkeyStore(testValkey(t))
	ctx := context.Background()

	if p, err := s.GetProfile(ctx); p != nil || err != nil {
		t.Fatalf("fresh profile: %v, %v", p, err)
	}

	secret := "JBSWY3DPEHPK3PXP"
	if err := s.SaveProfile(ctx, &Profile{PasswordHash: "hash", TOTPSecret: &secret, TOTPEnabled: true}); err != nil {
		t.Fatalf("save profile: %v", err)
	}

	p, err := s.GetProfile(ctx)
	if err != nil || p == nil || !p.TOTPEnabled || *p.TOTPSecret != secret {
		t.Errorf("profile = %+v, err %v", p, err)
	}
}
