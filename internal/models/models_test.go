package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTaskInput_Valid(t *testing.T) {
	assert.True(t, TaskInput{Title: "Call mom"}.Valid())
	assert.False(t, TaskInput{Title: ""}.Valid())
	assert.False(t, TaskInput{Title: "   "}.Valid())
}

func TestParsePriorityAndCategory(t *testing.T) {
	tests := []struct {
		in       string
		priority Priority
		category Category
	}{
		{in: "high", priority: PriorityHigh, category: DefaultCategory},
		{in: " LOW ", priority: PriorityLow, category: DefaultCategory},
		{in: "work", priority: DefaultPriority, category: CategoryWork},
		{in: "Errands", priority: DefaultPriority, category: CategoryErrands},
		{in: "", priority: DefaultPriority, category: DefaultCategory},
		{in: "urgent", priority: DefaultPriority, category: DefaultCategory},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.priority, ParsePriority(tt.in))
			assert.Equal(t, tt.category, ParseCategory(tt.in))
		})
	}
}

func TestTask_IsSnoozed(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)
	past := now.Add(-time.Minute)

	assert.False(t, Task{}.IsSnoozed(now))
	assert.True(t, Task{SnoozedUntil: &future}.IsSnoozed(now))
	assert.False(t, Task{SnoozedUntil: &past}.IsSnoozed(now))
	assert.False(t, Task{SnoozedUntil: &now}.IsSnoozed(now), "a deadline equal to now is expired")
}

func TestTask_CloneIsDeep(t *testing.T) {
	due := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)
	orig := Task{
		ID:          "p",
		DueDate:     &due,
		HasSubtasks: true,
		Subtasks:    []Task{{ID: "s", Title: "child"}},
	}

	c := orig.Clone()
	*c.DueDate = due.Add(time.Hour)
	c.Subtasks[0].Title = "changed"

	assert.Equal(t, due, *orig.DueDate)
	assert.Equal(t, "child", orig.Subtasks[0].Title)
	assert.Nil(t, CloneTasks(nil))
}
