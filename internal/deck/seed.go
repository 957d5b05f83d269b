package deck

import (
	"time"

	"cardstack/internal/models"
)

// SeedTasks is the starter deck shown on first launch.
func SeedTasks(now time.Time) []models.Task {
	due := now.Round(0).Add(24 * time.Hour)
	return []models.Task{
		{
			ID:          "1",
			Title:       "Submit quarterly report",
			Description: "Finalize and email the Q1 progress report to the team",
			Priority:    models.PriorityHigh,
			Category:    models.CategoryWork,
			DueDate:     &due,
		},
		{
			ID:          "2",
			Title:       "Call mom",
			Description: "It's her birthday next week, call to make plans",
			Priority:    models.PriorityMedium,
			Category:    models.CategoryPersonal,
		},
		{
			ID:          "3",
			Title:       "Pick up prescription",
			Description: "At Walgreens on Main St.",
			Priority:    models.PriorityHigh,
			Category:    models.CategoryErrands,
		},
		{
			ID:          "4",
			Title:       "Schedule dentist appointment",
			Description: "Need cleaning and check-up",
			Priority:    models.PriorityLow,
			Category:    models.CategoryPersonal,
		},
	}
}
