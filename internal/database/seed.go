// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"eventcal/internal/models"
)

// Seed inserts a few sample events for development installations.
// It is a no-op when the events table already has data.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM events`).Scan(&count); err != nil {
		return fmt.Errorf("seed count: %w", err)
	}
	if count > 0 {
		return nil
	}

	today := models.Today()
	samples := []models.Event{
		{
			Title:      "Morning run",
			Date:       models.FormatDate(today),
			Time:       "07:00",
			Category:   models.CategoryHealth,
			Recurrence: models.RecurrenceDaily,
			Color:      "bg-green-100 text-green-800",
		},
		{
			Title:       "Team standup",
			Date:        models.FormatDate(today),
			Time:        "09:30",
			Description: "Video call with the whole team",
			Category:    models.CategoryWork,
			Recurrence:  models.RecurrenceWeekly,
			Color:       "bg-purple-100 text-purple-800",
		},
		{
			Title:      "Rent due",
			Date:       models.FormatDate(today.AddDate(0, 0, 3)),
			Category:   models.CategoryFinance,
			Recurrence: models.RecurrenceMonthly,
			Color:      "bg-red-100 text-red-800",
		},
	}

	for _, ev := range samples {
		_, err := db.Exec(`
			INSERT INTO events (id, title, date, time_of_day, description, category, recurrence, color, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, uuid.NewString(), ev.Title, ev.Date, ev.Time, ev.Description, ev.Category, ev.Recurrence, ev.Color, time.Now())
		if err != nil {
			return fmt.Errorf("seed event %q: %w", ev.Title, err)
		}
	}

	slog.Info("seeded sample events", "count", len(samples))
	return nil
}
