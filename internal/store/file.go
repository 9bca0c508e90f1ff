// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"eventcal/internal/models"
)

const (
	eventsFile  = "events.json"
	profileFile = "profile.json"
)

// FileStore keeps the event collection as a flat JSON array in a single
// file, the same document shape the original browser storage used. The
// owner profile lives in a sibling file. All mutations rewrite the whole
// document atomically (temp file + rename).
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore creates a file-backed store rooted at dir, creating the
// directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// load reads the event collection from disk. A missing or corrupt file
// reads as an empty collection: parse failures are logged and swallowed so
// bad persisted data never breaks rendering.
func (s *FileStore) load() []models.Event {
	path := filepath.Join(s.dir, eventsFile)
	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("events file unreadable, starting empty", "path", path, "error", err)
		}
		return nil
	}

	var events []models.Event
	if err := json.Unmarshal(raw, &events); err != nil {
		slog.Warn("events file corrupt, starting empty", "path", path, "error", err)
		return nil
	}
	return events
}

// save writes the collection atomically so a crash mid-write cannot leave
// a truncated document behind.
func (s *FileStore) save(events []models.Event) error {
	if events == nil {
		events = []models.Event{}
	}
	raw, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal events: %w", err)
	}
	return s.writeAtomic(filepath.Join(s.dir, eventsFile), raw)
}

func (s *FileStore) writeAtomic(path string, raw []byte) error {
	tmp, err := os.CreateTemp(s.dir, ".write-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

// List returns the full event collection.
func (s *FileStore) List(_ context.Context) ([]models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(), nil
}

// FindByID returns the event with the given ID, or nil if not present.
func (s *FileStore) FindByID(_ context.Context, id string) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ev := range s.load() {
		if ev.ID == id {
			return &ev, nil
		}
	}
	return nil, nil
}

// Create appends the event to the collection.
func (s *FileStore) Create(_ context.Context, ev models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := append(s.load(), ev)
	if err := s.save(events); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// Update replaces the stored event with the same ID.
func (s *FileStore) Update(_ context.Context, ev models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.load()
	for i := range events {
		if events[i].ID == ev.ID {
			events[i] = ev
			if err := s.save(events); err != nil {
				return fmt.Errorf("update event: %w", err)
			}
			return nil
		}
	}
	return ErrNotFound
}

// Delete removes the event with the given ID.
func (s *FileStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.load()
	for i := range events {
		if events[i].ID == id {
			events = append(events[:i], events[i+1:]...)
			if err := s.save(events); err != nil {
				return fmt.Errorf("delete event: %w", err)
			}
			return nil
		}
	}
	return ErrNotFound
}

// Replace swaps the whole collection for the given one.
func (s *FileStore) Replace(_ context.Context, events []models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.save(events); err != nil {
		return fmt.Errorf("replace events: %w", err)
	}
	return nil
}

// GetProfile returns the owner profile, or nil if setup has not run.
func (s *FileStore) GetProfile(_ context.Context) (*Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(filepath.Join(s.dir, profileFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	var p Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	return &p, nil
}

// SaveProfile creates or replaces the owner profile.
func (s *FileStore) SaveProfile(_ context.Context, p *Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.UpdatedAt = time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = p.UpdatedAt
	}
	raw, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	if err := s.writeAtomic(filepath.Join(s.dir, profileFile), raw); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}
