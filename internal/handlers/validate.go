package handlers

import (
	"strings"
	"unicode/utf8"

	"eventcal/internal/models"
)

// Validation limits for event form fields.
const (
	maxTitleLen       = 200
	maxDescriptionLen = 2_000
	maxColorLen       = 100
)

// validateEvent checks event form inputs and returns the first error found,
// or "" when the input is acceptable. Unknown category and recurrence
// values are not errors: they degrade gracefully downstream.
func validateEvent(title, date, timeOfDay, description string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 200 characters)."
	}
	if _, err := models.ParseDate(date); err != nil {
		return "Date must be a valid date in yyyy-MM-dd form."
	}
	if !models.ValidTime(timeOfDay) {
		return "Time must be in HH:mm form."
	}
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return "Description is too long (max 2,000 characters)."
	}
	return ""
}
