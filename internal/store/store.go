// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store persists the event collection and the owner profile.
// Three backends implement the same interfaces: a JSON file (default), a
// Valkey key, and a PostgreSQL table. The calendar core never sees the
// storage medium — it is handed loaded snapshots and returns values.
package store

import (
	"context"
	"errors"
	"time"

	"eventcal/internal/models"
)

// ErrNotFound reports an update or delete against an event ID that is not
// in the collection.
var ErrNotFound = errors.New("event not found")

// EventStore is the persistence boundary for the event collection.
// Collections are small (personal calendar scale); backends are free to
// implement the mutations as load-modify-save over the whole collection.
type EventStore interface {
	// List returns the full event collection. A missing or unreadable
	// collection reads as empty, never as an error surfaced to rendering.
	List(ctx context.Context) ([]models.Event, error)

	// FindByID returns the event with the given ID, or nil if not present.
	FindByID(ctx context.Context, id string) (*models.Event, error)

	// Create appends a new event to the collection.
	Create(ctx context.Context, ev models.Event) error

	// Update replaces the stored event with the same ID.
	// Returns ErrNotFound if no such event exists.
	Update(ctx context.Context, ev models.Event) error

	// Delete removes the event with the given ID.
	// Returns ErrNotFound if no such event exists.
	Delete(ctx context.Context, id string) error

	// Replace swaps the whole collection for the given one, e.g. when
	// restoring a snapshot. A nil slice replaces with an empty collection.
	Replace(ctx context.Context, events []models.Event) error
}

// Profile is the single-owner auth record: one per installation.
type Profile struct {
	PasswordHash string    `json:"password_hash"`
	TOTPSecret   *string   `json:"totp_secret,omitempty"`
	TOTPEnabled  bool      `json:"totp_enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProfileStore persists the owner profile alongside the events.
type ProfileStore interface {
	// GetProfile returns the owner profile, or nil if setup has not run.
	GetProfile(ctx context.Context) (*Profile, error)

	// SaveProfile creates or replaces the owner profile.
	SaveProfile(ctx context.Context, p *Profile) error
}

// Store combines event and profile persistence; every backend provides both.
type Store interface {
	EventStore
	ProfileStore
}
