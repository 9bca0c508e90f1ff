// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// valkey.go persists the calendar in Valkey as two plain keys: the event
// collection as one JSON array document (mirroring the original key-value
// storage model) and the owner profile as a JSON object.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"eventcal/internal/models"
)

const (
	valkeyEventsKey  = "eventcal:events"
	valkeyProfileKey = "eventcal:profile"
)

// ValkeyStore keeps the whole collection under a single Valkey key.
// Mutations are serialized by a local mutex; a single process owns the
// calendar, so no cross-process coordination is needed.
type ValkeyStore struct {
	mu     sync.Mutex
	client *redis.Client
}

// NewValkeyStore creates a Valkey-backed store over an established client.
func NewValkeyStore(client *redis.Client) *ValkeyStore {
	return &ValkeyStore{client: client}
}

// load reads the event document. A missing key or an unparseable document
// reads as an empty collection.
func (s *ValkeyStore) load(ctx context.Context) ([]models.Event, error) {
	raw, err := s.client.Get(ctx, valkeyEventsKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("valkey get events: %w", err)
	}

	var events []models.Event
	if err := json.Unmarshal(raw, &events); err != nil {
		slog.Warn("events document corrupt, starting empty", "key", valkeyEventsKey, "error", err)
		return nil, nil
	}
	return events, nil
}

func (s *ValkeyStore) save(ctx context.Context, events []models.Event) error {
	if events == nil {
		events = []models.Event{}
	}
	raw, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("marshal events: %w", err)
	}
	if err := s.client.Set(ctx, valkeyEventsKey, raw, 0).Err(); err != nil {
		return fmt.Errorf("valkey set events: %w", err)
	}
	return nil
}

// List returns the full event collection.
func (s *ValkeyStore) List(ctx context.Context) ([]models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// FindByID returns the event with the given ID, or nil if not present.
func (s *ValkeyStore) FindByID(ctx context.Context, id string) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	events, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, ev := range events {
		if ev.ID == id {
			return &ev, nil
		}
	}
	return nil, nil
}

// Create appends the event to the collection.
func (s *ValkeyStore) Create(ctx context.Context, ev models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	events, err := s.load(ctx)
	if err != nil {
		return err
	}
	return s.save(ctx, append(events, ev))
}

// Update replaces the stored event with the same ID.
func (s *ValkeyStore) Update(ctx context.Context, ev models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	events, err := s.load(ctx)
	if err != nil {
		return err
	}
	for i := range events {
		if events[i].ID == ev.ID {
			events[i] = ev
			return s.save(ctx, events)
		}
	}
	return ErrNotFound
}

// Delete removes the event with the given ID.
func (s *ValkeyStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	events, err := s.load(ctx)
	if err != nil {
		return err
	}
	for i := range events {
		if events[i].ID == id {
			return s.save(ctx, append(events[:i], events[i+1:]...))
		}
	}
	return ErrNotFound
}

// Replace swaps the whole collection for the given one.
func (s *ValkeyStore) Replace(ctx context.Context, events []models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.save(ctx, events); err != nil {
		return fmt.Errorf("replace events: %w", err)
	}
	return nil
}

// GetProfile returns the owner profile, or nil if setup has not run.
func (s *ValkeyStore) GetProfile(ctx context.Context) (*Profile, error) {
	raw, err := s.client.Get(ctx, valkeyProfileKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("valkey get profile: %w", err)
	}

	var p Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	return &p, nil
}

// SaveProfile creates or replaces the owner profile.
func (s *ValkeyStore) SaveProfile(ctx context.Context, p *Profile) error {
	p.UpdatedAt = time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = p.UpdatedAt
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	if err := s.client.Set(ctx, valkeyProfileKey, raw, 0).Err(); err != nil {
		return fmt.Errorf("valkey set profile: %w", err)
	}
	return nil
}
