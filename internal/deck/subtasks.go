package deck

import (
	"go.uber.org/zap"

	"cardstack/internal/models"
)

// AddSubtask appends a child task to the parent's subtask list. The parent
// must be a top-level task in the main collection.
func (e *Engine) AddSubtask(parentID string, in models.TaskInput) (models.Task, bool) {
	if !in.Valid() {
		return models.Task{}, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	pi := e.indexOf(parentID)
	if pi < 0 {
		return models.Task{}, false
	}

	sub := e.build(in)
	sub.IsSubtask = true
	sub.ParentTaskID = parentID

	parent := e.all[pi].Clone()
	parent.Subtasks = append(parent.Subtasks, sub)
	parent.HasSubtasks = true
	e.all = replaceAt(e.all, pi, parent)

	e.logger.Debug("subtask added", zap.String("parent", parentID), zap.String("id", sub.ID))
	e.saveTasks()
	return sub.Clone(), true
}

// CompleteSubtask marks a subtask done. It stays in the parent's list but no
// longer appears in ActiveSubtasks.
func (e *Engine) CompleteSubtask(parentID, subID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	pi, si := e.subtaskIndex(parentID, subID)
	if si < 0 || e.all[pi].Subtasks[si].IsCompleted {
		return false
	}

	parent := e.all[pi].Clone()
	parent.Subtasks[si].IsCompleted = true
	e.all = replaceAt(e.all, pi, parent)

	e.saveTasks()
	return true
}

// CancelSubtask removes a subtask from its parent.
func (e *Engine) CancelSubtask(parentID, subID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.detachSubtask(parentID, subID); !ok {
		return false
	}
	e.saveTasks()
	return true
}

// UpgradeSubtaskToTask detaches a subtask and appends it to the deck as an
// independent task with a fresh id.
func (e *Engine) UpgradeSubtaskToTask(parentID, subID string) (models.Task, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sub, ok := e.detachSubtask(parentID, subID)
	if !ok {
		return models.Task{}, false
	}

	t := e.build(models.TaskInput{
		Title:       sub.Title,
		Description: sub.Description,
		Priority:    sub.Priority,
		Category:    sub.Category,
		DueDate:     sub.DueDate,
	})
	e.all = append(cloneSlice(e.all), t)

	e.logger.Debug("subtask upgraded", zap.String("parent", parentID), zap.String("from", subID), zap.String("id", t.ID))
	e.saveTasks()
	return t.Clone(), true
}

// ActiveSubtasks returns the parent's subtasks that are not completed, in
// order. It returns nil when the parent does not exist.
func (e *Engine) ActiveSubtasks(parentID string) []models.Task {
	e.mu.Lock()
	defer e.mu.Unlock()

	pi := e.indexOf(parentID)
	if pi < 0 {
		return nil
	}
	active := []models.Task{}
	for _, s := range e.all[pi].Subtasks {
		if !s.IsCompleted {
			active = append(active, s.Clone())
		}
	}
	return active
}

func (e *Engine) subtaskIndex(parentID, subID string) (int, int) {
	pi := e.indexOf(parentID)
	if pi < 0 {
		return -1, -1
	}
	return pi, indexByID(e.all[pi].Subtasks, subID)
}

// detachSubtask removes a subtask from its parent and clears HasSubtasks
// once the list is empty. Callers persist the result.
func (e *Engine) detachSubtask(parentID, subID string) (models.Task, bool) {
	pi, si := e.subtaskIndex(parentID, subID)
	if si < 0 {
		return models.Task{}, false
	}

	parent := e.all[pi].Clone()
	sub := parent.Subtasks[si]
	parent.Subtasks = removeAt(parent.Subtasks, si)
	if len(parent.Subtasks) == 0 {
		parent.Subtasks = nil
		parent.HasSubtasks = false
	}
	e.all = replaceAt(e.all, pi, parent)
	return sub, true
}
