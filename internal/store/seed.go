package store

import (
	"time"

	"github.com/arnold/habitus-api/internal/models"
)

func strPtr(s string) *string { return &s }

// SeedGoals returns the example goals shown on first use.
func SeedGoals(now time.Time) []models.Goal {
	now = now.UTC()
	due := now.Add(7 * 24 * time.Hour)

	return []models.Goal{
		{
			ID:          "1",
			Name:        "Morning Meditation",
			Description: strPtr("15 minutes of mindfulness practice"),
			Frequency:   models.FrequencyDaily,
			Visibility:  models.DefaultVisibility,
			CreatedAt:   now,
			Done:        false,
		},
		{
			ID:          "2",
			Name:        "Read a Book",
			Description: strPtr("Read at least 30 pages"),
			Frequency:   models.FrequencyDaily,
			Visibility:  models.DefaultVisibility,
			CreatedAt:   now,
			Done:        true,
		},
		{
			ID:          "3",
			Name:        "Complete Project",
			Description: strPtr("Finish the MVP features"),
			Frequency:   models.FrequencyOnce,
			DueDate:     &due,
			Visibility:  models.DefaultVisibility,
			CreatedAt:   now,
			Done:        false,
		},
	}
}
