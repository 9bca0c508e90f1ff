// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package backup writes periodic JSON snapshots of the event collection
// and restores them. Snapshots go through the store interface, so every
// backend shares the same format: a plain event array Restore can feed
// back into any backend via Replace.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/robfig/cron/v3"

	"eventcal/internal/models"
	"eventcal/internal/store"
)

// stampLayout names snapshot files sortably: events-20240615-143000.json.
const stampLayout = "20060102-150405"

// Runner schedules and writes snapshots.
type Runner struct {
	cron   *cron.Cron
	events store.EventStore
	dir    string
	keep   int
}

// New creates a backup runner writing into dir and retaining keep
// snapshots per prune.
func New(events store.EventStore, dir string, keep int) *Runner {
	return &Runner{
		cron:   cron.New(),
		events: events,
		dir:    dir,
		keep:   keep,
	}
}

// Start schedules snapshots on the given cron expression and starts the
// scheduler.
func (r *Runner) Start(schedule string) error {
	_, err := r.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := r.Snapshot(ctx); err != nil {
			slog.Error("scheduled backup failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule backup: %w", err)
	}
	r.cron.Start()
	slog.Info("backups scheduled", "schedule", schedule, "dir", r.dir)
	return nil
}

// Stop halts the scheduler. A snapshot already running finishes.
func (r *Runner) Stop() {
	r.cron.Stop()
}

// Snapshot writes the current collection to a timestamped file and prunes
// old snapshots. Returns the path written.
func (r *Runner) Snapshot(ctx context.Context) (string, error) {
	events, err := r.events.List(ctx)
	if err != nil {
		return "", fmt.Errorf("backup list events: %w", err)
	}
	if events == nil {
		events = []models.Event{} // keep the snapshot a JSON array, not null
	}

	raw, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return "", fmt.Errorf("backup marshal: %w", err)
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("backup dir: %w", err)
	}

	path := filepath.Join(r.dir, "events-"+time.Now().UTC().Format(stampLayout)+".json")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("backup write: %w", err)
	}

	if err := r.prune(); err != nil {
		slog.Warn("backup prune failed", "error", err)
	}

	slog.Info("backup written", "path", path, "events", len(events))
	return path, nil
}

// Restore loads a snapshot file and replaces the store's collection with
// its contents. The snapshot is the same event array Snapshot writes, so
// any backend can restore a snapshot taken from any other.
func Restore(ctx context.Context, events store.EventStore, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("restore read: %w", err)
	}

	var restored []models.Event
	if err := json.Unmarshal(raw, &restored); err != nil {
		return fmt.Errorf("restore parse %s: %w", filepath.Base(path), err)
	}

	if err := events.Replace(ctx, restored); err != nil {
		return fmt.Errorf("restore replace: %w", err)
	}

	slog.Info("snapshot restored", "path", path, "events", len(restored))
	return nil
}

// prune deletes the oldest snapshots beyond the retention count.
func (r *Runner) prune() error {
	matches, err := filepath.Glob(filepath.Join(r.dir, "events-*.json"))
	if err != nil {
		return err
	}
	if r.keep <= 0 || len(matches) <= r.keep {
		return nil
	}
	// Timestamped names sort chronologically.
	sort.Strings(matches)
	for _, old := range matches[:len(matches)-r.keep] {
		if err := os.Remove(old); err != nil {
			return err
		}
	}
	return nil
}
