package models

import (
	"strings"
	"time"
)

// Priority ranks how urgent a task is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Category groups tasks into decks.
type Category string

const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryErrands  Category = "errands"
	CategoryOther    Category = "other"
)

// Defaults applied when a task is created without a priority or category.
const (
	DefaultPriority = PriorityMedium
	DefaultCategory = CategoryPersonal
)

// ValidPriorities enumerates the priorities a task may carry.
var ValidPriorities = map[Priority]struct{}{
	PriorityLow:    {},
	PriorityMedium: {},
	PriorityHigh:   {},
}

// ValidCategories enumerates the supported categories.
var ValidCategories = map[Category]struct{}{
	CategoryWork:     {},
	CategoryPersonal: {},
	CategoryErrands:  {},
	CategoryOther:    {},
}

// Categories lists every category in display order.
var Categories = []Category{CategoryWork, CategoryPersonal, CategoryErrands, CategoryOther}

// Task represents a single card in the deck. Subtasks are owned by their
// parent and are never stored as top-level entries.
type Task struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Priority      Priority   `json:"priority"`
	Category      Category   `json:"category"`
	DueDate       *time.Time `json:"dueDate,omitempty"`
	CompletedDate *time.Time `json:"completedDate,omitempty"`
	SnoozedUntil  *time.Time `json:"snoozedUntil,omitempty"`
	IsCompleted   bool       `json:"isCompleted"`
	IsSubtask     bool       `json:"isSubtask,omitempty"`
	ParentTaskID  string     `json:"parentTaskId,omitempty"`
	HasSubtasks   bool       `json:"hasSubtasks,omitempty"`
	Subtasks      []Task     `json:"subtasks,omitempty"`
}

// TaskInput carries the caller supplied fields for a new task or subtask.
type TaskInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    Priority   `json:"priority"`
	Category    Category   `json:"category"`
	DueDate     *time.Time `json:"dueDate"`
}

// Valid reports whether the input can produce a task.
func (in TaskInput) Valid() bool {
	return strings.TrimSpace(in.Title) != ""
}

// ParsePriority returns the priority for s, or the default when s is unknown.
func ParsePriority(s string) Priority {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := ValidPriorities[p]; ok {
		return p
	}
	return DefaultPriority
}

// ParseCategory returns the category for s, or the default when s is unknown.
func ParseCategory(s string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := ValidCategories[c]; ok {
		return c
	}
	return DefaultCategory
}

// IsSnoozed reports whether the task is hidden from the deck at now.
func (t Task) IsSnoozed(now time.Time) bool {
	return t.SnoozedUntil != nil && t.SnoozedUntil.After(now)
}

// Clone returns a deep copy so callers can mutate the result freely.
func (t Task) Clone() Task {
	c := t
	c.DueDate = cloneTime(t.DueDate)
	c.CompletedDate = cloneTime(t.CompletedDate)
	c.SnoozedUntil = cloneTime(t.SnoozedUntil)
	if t.Subtasks != nil {
		c.Subtasks = make([]Task, len(t.Subtasks))
		for i, s := range t.Subtasks {
			c.Subtasks[i] = s.Clone()
		}
	}
	return c
}

// CloneTasks deep copies a task slice. A nil slice stays nil.
func CloneTasks(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
