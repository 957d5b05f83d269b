package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardstack/internal/deck"
	"cardstack/internal/models"
)

func TestParseDue(t *testing.T) {
	got, err := parseDue("2026-03-04T10:30:00Z")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2026, 3, 4, 10, 30, 0, 0, time.UTC)))

	got, err = parseDue("2026-03-04")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 4, 0, 0, 0, 0, time.Local), got)

	_, err = parseDue("next tuesday")
	assert.Error(t, err)
}

func TestPrintState(t *testing.T) {
	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	wake := now.Add(3 * time.Hour)
	st := deck.State{
		Tasks: []models.Task{
			{ID: "a", Title: "Write report", Category: models.CategoryWork, Priority: models.PriorityHigh},
			{ID: "b", Title: "Buy milk", Category: models.CategoryErrands, Priority: models.PriorityLow},
		},
		CurrentIndex:   1,
		SnoozedTasks:   []models.Task{{ID: "c", Title: "Call mom", Category: models.CategoryPersonal, Priority: models.PriorityMedium, SnoozedUntil: &wake}},
		CompletedTasks: []models.Task{{ID: "d", Title: "Old thing", Category: models.CategoryOther, Priority: models.PriorityMedium, IsCompleted: true}},
	}
	cur := st.Tasks[1]
	st.CurrentTask = &cur

	var buf bytes.Buffer
	printState(&buf, st, now)
	out := buf.String()

	assert.Contains(t, out, "Current (2/2): Buy milk [errands/low]")
	assert.Contains(t, out, ">  2. Buy milk")
	assert.Contains(t, out, "Call mom [personal/medium] (wakes in 3h0m0s)")
	assert.Contains(t, out, "Old thing [other/medium]")
}

func TestPrintStateEmpty(t *testing.T) {
	var buf bytes.Buffer
	printState(&buf, deck.State{}, time.Now())
	assert.Equal(t, "No tasks in the deck.\n", buf.String())
}
