package deck

import (
	"sort"
	"time"

	"cardstack/internal/models"
)

// Visible returns copies of the tasks that are not snoozed at now, in deck
// order.
func Visible(tasks []models.Task, now time.Time) []models.Task {
	out := []models.Task{}
	for _, t := range tasks {
		if !t.IsSnoozed(now) {
			out = append(out, t.Clone())
		}
	}
	return out
}

// Snoozed returns copies of the tasks hidden at now, soonest wake-up first.
func Snoozed(tasks []models.Task, now time.Time) []models.Task {
	out := []models.Task{}
	for _, t := range tasks {
		if t.IsSnoozed(now) {
			out = append(out, t.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SnoozedUntil.Before(*out[j].SnoozedUntil)
	})
	return out
}

// FilterByCategory keeps the tasks in category c. The empty category keeps
// everything.
func FilterByCategory(tasks []models.Task, c models.Category) []models.Task {
	if c == "" {
		return tasks
	}
	out := []models.Task{}
	for _, t := range tasks {
		if t.Category == c {
			out = append(out, t)
		}
	}
	return out
}

// CategoryCounts counts tasks per category. Every known category is present,
// possibly with zero.
func CategoryCounts(tasks []models.Task) map[models.Category]int {
	counts := make(map[models.Category]int, len(models.Categories))
	for _, c := range models.Categories {
		counts[c] = 0
	}
	for _, t := range tasks {
		counts[t.Category]++
	}
	return counts
}
