// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"eventcal/internal/models"
)

// PostgresStore persists events in an events table and the owner profile
// in a single-row profile table. Schema lives in the goose migrations
// under internal/database.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a PostgreSQL-backed store over an established
// connection pool.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const eventColumns = `id, title, date, time_of_day, description, category, recurrence, color, created_at`

// scanEvent scans a row into an Event, normalizing the date back to its
// yyyy-MM-dd wire form.
func scanEvent(scanner interface{ Scan(...any) error }) (*models.Event, error) {
	var ev models.Event
	var date time.Time
	err := scanner.Scan(
		&ev.ID, &ev.Title, &date, &ev.Time, &ev.Description,
		&ev.Category, &ev.Recurrence, &ev.Color, &ev.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	ev.Date = models.FormatDate(date)
	return &ev, nil
}

// List returns the full event collection in creation order.
func (s *PostgresStore) List(ctx context.Context) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+eventColumns+` FROM events ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *ev)
	}
	return events, rows.Err()
}

// FindByID retrieves an event by ID. Returns nil if not found.
func (s *PostgresStore) FindByID(ctx context.Context, id string) (*models.Event, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	ev, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find event by id: %w", err)
	}
	return ev, nil
}

// Create inserts a new event.
func (s *PostgresStore) Create(ctx context.Context, ev models.Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (id, title, date, time_of_day, description, category, recurrence, color, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, ev.ID, ev.Title, ev.Date, ev.Time, ev.Description, ev.Category, ev.Recurrence, ev.Color, ev.CreatedAt)
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// Update replaces the stored event with the same ID.
func (s *PostgresStore) Update(ctx context.Context, ev models.Event) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE events SET
			title = $1, date = $2, time_of_day = $3, description = $4,
			category = $5, recurrence = $6, color = $7
		WHERE id = $8
	`, ev.Title, ev.Date, ev.Time, ev.Description, ev.Category, ev.Recurrence, ev.Color, ev.ID)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an event by ID.
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Replace swaps the whole collection for the given one, atomically in a
// single transaction.
func (s *PostgresStore) Replace(ctx context.Context, events []models.Event) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace events: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM events`); err != nil {
		return fmt.Errorf("replace events: %w", err)
	}
	for _, ev := range events {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO events (id, title, date, time_of_day, description, category, recurrence, color, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, ev.ID, ev.Title, ev.Date, ev.Time, ev.Description, ev.Category, ev.Recurrence, ev.Color, ev.CreatedAt)
		if err != nil {
			return fmt.Errorf("replace event %s: %w", ev.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace events: %w", err)
	}
	return nil
}

// GetProfile returns the owner profile, or nil if setup has not run.
func (s *PostgresStore) GetProfile(ctx context.Context) (*Profile, error) {
	p := &Profile{}
	err := s.db.QueryRowContext(ctx, `
		SELECT password_hash, totp_secret, totp_enabled, created_at, updated_at
		FROM profile WHERE id = 1
	`).Scan(&p.PasswordHash, &p.TOTPSecret, &p.TOTPEnabled, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// SaveProfile creates or replaces the owner profile.
func (s *PostgresStore) SaveProfile(ctx context.Context, p *Profile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profile (id, password_hash, totp_secret, totp_enabled)
		VALUES (1, $1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			password_hash = EXCLUDED.password_hash,
			totp_secret = EXCLUDED.totp_secret,
			totp_enabled = EXCLUDED.totp_enabled,
			updated_at = NOW()
	`, p.PasswordHash, p.TOTPSecret, p.TOTPEnabled)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}
