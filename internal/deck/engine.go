// Package deck holds the task deck state and every transition the app can
// apply to it: complete, dismiss, snooze, shuffle, navigation and the
// subtask lifecycle.
//
// The engine tracks the current card by id rather than by position, so
// un-snoozing or appending tasks never changes which card is showing.
// All methods are safe for concurrent use; calls are serialized.
package deck

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cardstack/internal/models"
	"cardstack/internal/persist"
)

// Snooze presets offered by the app, in hours.
const (
	SnoozeShort  = 1
	SnoozeMedium = 3
	SnoozeLong   = 24
)

// maxSnoozeHours bounds snooze requests to durations time.Duration can hold.
const maxSnoozeHours = 24 * 365 * 100

var defaultIntn = rand.Intn

// Store loads and saves whole collections. persist.Codec implements it.
type Store interface {
	Load(ctx context.Context, key string, fallback []models.Task) []models.Task
	Save(key string, tasks []models.Task)
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithRand replaces the source used by ShuffleDeck. intn must return a
// uniform value in [0, n).
func WithRand(intn func(n int) int) Option {
	return func(e *Engine) { e.intn = intn }
}

// WithIDs replaces the task id generator.
func WithIDs(next func() string) Option {
	return func(e *Engine) { e.newID = next }
}

// WithLogger sets the engine logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithSeed sets the tasks used when no main collection has been stored yet.
func WithSeed(tasks []models.Task) Option {
	return func(e *Engine) { e.seed = tasks }
}

// Engine owns the main and completed collections.
type Engine struct {
	mu     sync.Mutex
	store  Store
	logger *zap.Logger
	now    func() time.Time
	intn   func(n int) int
	newID  func() string
	seed   []models.Task

	all       []models.Task
	completed []models.Task

	currentID string
	position  int
	category  models.Category
}

// State is a snapshot of everything a presenter needs to render the deck.
type State struct {
	Tasks          []models.Task           `json:"tasks"`
	CompletedTasks []models.Task           `json:"completedTasks"`
	SnoozedTasks   []models.Task           `json:"snoozedTasks"`
	CurrentTask    *models.Task            `json:"currentTask"`
	CurrentIndex   int                     `json:"currentIndex"`
	Category       models.Category         `json:"category,omitempty"`
	CategoryCounts map[models.Category]int `json:"categoryCounts"`
	Total          int                     `json:"total"`
}

// New loads both collections from store and clears any snooze deadline that
// has already passed.
func New(ctx context.Context, store Store, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		logger: zap.NewNop(),
		now:    time.Now,
		intn:   defaultIntn,
		newID:  newTaskID,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.all = store.Load(ctx, persist.TasksKey, models.CloneTasks(e.seed))
	e.completed = store.Load(ctx, persist.CompletedTasksKey, nil)
	if e.completed == nil {
		e.completed = []models.Task{}
	}
	if e.all == nil {
		e.all = []models.Task{}
	}

	e.logger.Info("deck loaded", zap.Int("tasks", len(e.all)), zap.Int("completed", len(e.completed)))
	e.Sweep()
	return e
}

func newTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// clock returns the current time without a monotonic reading so values
// compare equal after a JSON round trip.
func (e *Engine) clock() time.Time {
	return e.now().Round(0)
}

// State returns a deep copy of the deck as seen at this instant.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock()
	visible := Visible(e.all, now)
	view := e.viewIndexes(now)

	st := State{
		Tasks:          FilterByCategory(visible, e.category),
		CompletedTasks: models.CloneTasks(e.completed),
		SnoozedTasks:   Snoozed(e.all, now),
		Category:       e.category,
		CategoryCounts: CategoryCounts(visible),
		Total:          len(visible),
	}
	if idx := e.cursor(view); idx >= 0 {
		cur := st.Tasks[idx]
		st.CurrentTask = &cur
		st.CurrentIndex = idx
	}
	return st
}

// CompleteTask moves the current card to the front of the completed list.
func (e *Engine) CompleteTask() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock()
	view := e.viewIndexes(now)
	idx := e.cursor(view)
	if idx < 0 {
		return false
	}

	ai := view[idx]
	done := e.all[ai].Clone()
	done.IsCompleted = true
	done.CompletedDate = &now
	done.SnoozedUntil = nil

	e.all = removeAt(e.all, ai)
	e.completed = append([]models.Task{done}, e.completed...)
	e.point(e.viewIndexes(now), idx)

	e.logger.Debug("task completed", zap.String("id", done.ID))
	e.saveTasks()
	e.saveCompleted()
	return true
}

// DismissTask sends the current card to the bottom of the deck. It is a
// no-op unless at least two cards are showing.
func (e *Engine) DismissTask() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock()
	view := e.viewIndexes(now)
	idx := e.cursor(view)
	if idx < 0 || len(view) <= 1 {
		return false
	}

	ai := view[idx]
	moved := e.all[ai]
	e.all = append(removeAt(e.all, ai), moved)

	view = e.viewIndexes(now)
	if idx >= len(view)-1 {
		idx = 0
	}
	e.point(view, idx)

	e.logger.Debug("task dismissed", zap.String("id", moved.ID))
	e.saveTasks()
	return true
}

// SnoozeTask hides the current card for the given number of hours and moves
// it to the bottom of the deck.
func (e *Engine) SnoozeTask(hours float64) bool {
	if !(hours > 0) || hours > maxSnoozeHours {
		return false
	}
	d := time.Duration(math.Round(hours * float64(time.Hour)))
	if d <= 0 {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock()
	view := e.viewIndexes(now)
	idx := e.cursor(view)
	if idx < 0 {
		return false
	}

	ai := view[idx]
	snoozed := e.all[ai].Clone()
	until := now.Add(d)
	snoozed.SnoozedUntil = &until
	e.all = append(removeAt(e.all, ai), snoozed)

	view = e.viewIndexes(now)
	if idx >= len(view) {
		idx = 0
	}
	e.point(view, idx)

	e.logger.Debug("task snoozed", zap.String("id", snoozed.ID), zap.Time("until", until))
	e.saveTasks()
	return true
}

// UnsnoozeTask brings a snoozed task back into the deck without moving it.
func (e *Engine) UnsnoozeTask(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock()
	ai := e.indexOf(id)
	if ai < 0 || !e.all[ai].IsSnoozed(now) {
		return false
	}

	t := e.all[ai].Clone()
	t.SnoozedUntil = nil
	e.all = replaceAt(e.all, ai, t)

	e.saveTasks()
	return true
}

// AddTask appends a new task to the bottom of the deck. Blank titles are
// ignored.
func (e *Engine) AddTask(in models.TaskInput) (models.Task, bool) {
	if !in.Valid() {
		return models.Task{}, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	t := e.build(in)
	e.all = append(cloneSlice(e.all), t)

	e.logger.Debug("task added", zap.String("id", t.ID))
	e.saveTasks()
	return t.Clone(), true
}

// ReturnToStack moves a completed task back to the bottom of the deck.
func (e *Engine) ReturnToStack(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	ci := indexByID(e.completed, id)
	if ci < 0 {
		return false
	}

	t := e.completed[ci].Clone()
	t.IsCompleted = false
	t.CompletedDate = nil
	e.completed = removeAt(e.completed, ci)
	e.all = append(cloneSlice(e.all), t)

	e.saveTasks()
	e.saveCompleted()
	return true
}

// DeleteCompletedTask permanently removes a task from the completed list.
func (e *Engine) DeleteCompletedTask(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	ci := indexByID(e.completed, id)
	if ci < 0 {
		return false
	}
	e.completed = removeAt(e.completed, ci)

	e.saveCompleted()
	return true
}

// ShuffleDeck randomly permutes the main collection and shows the first
// card. It needs at least two cards showing.
func (e *Engine) ShuffleDeck() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock()
	if len(e.viewIndexes(now)) <= 1 {
		return false
	}

	shuffled := cloneSlice(e.all)
	shuffle(shuffled, e.intn)
	e.all = shuffled
	e.point(e.viewIndexes(now), 0)

	e.saveTasks()
	return true
}

// NavigatePrevious shows the card above the current one.
func (e *Engine) NavigatePrevious() bool {
	return e.step(-1)
}

// NavigateNext shows the card below the current one.
func (e *Engine) NavigateNext() bool {
	return e.step(1)
}

func (e *Engine) step(delta int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	view := e.viewIndexes(e.clock())
	idx := e.cursor(view)
	if idx < 0 {
		return false
	}
	next := idx + delta
	if next < 0 || next >= len(view) {
		return false
	}
	e.point(view, next)
	return true
}

// SetCurrentIndex shows the card at position n of the deck, clamped into
// range. It reports whether the current card changed.
func (e *Engine) SetCurrentIndex(n int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	view := e.viewIndexes(e.clock())
	idx := e.cursor(view)
	if idx < 0 {
		e.position = max(n, 0)
		return false
	}
	n = clamp(n, 0, len(view)-1)
	e.point(view, n)
	return n != idx
}

// SelectCategory restricts the deck to one category; the empty category
// shows every card. Either way the deck restarts at its first card.
func (e *Engine) SelectCategory(c models.Category) bool {
	if c != "" {
		if _, ok := models.ValidCategories[c]; !ok {
			return false
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.category = c
	e.point(e.viewIndexes(e.clock()), 0)
	return true
}

// Sweep clears every snooze deadline that has passed and returns how many
// tasks it woke. Task order is left alone, and nothing is saved when no
// deadline has expired.
func (e *Engine) Sweep() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock()
	woken := 0
	var next []models.Task
	for i, t := range e.all {
		if t.SnoozedUntil == nil || t.SnoozedUntil.After(now) {
			continue
		}
		if next == nil {
			next = cloneSlice(e.all)
		}
		next[i].SnoozedUntil = nil
		woken++
	}
	if woken == 0 {
		return 0
	}

	e.all = next
	e.logger.Debug("snoozed tasks woke up", zap.Int("count", woken))
	e.saveTasks()
	return woken
}

// viewIndexes returns positions in e.all of the cards currently in the
// deck: not snoozed and, when a category is selected, in that category.
func (e *Engine) viewIndexes(now time.Time) []int {
	view := make([]int, 0, len(e.all))
	for i, t := range e.all {
		if t.IsSnoozed(now) {
			continue
		}
		if e.category != "" && t.Category != e.category {
			continue
		}
		view = append(view, i)
	}
	return view
}

// cursor locates the current card in view, falling back to the last known
// position when the card has left the view. It returns -1 for an empty view.
func (e *Engine) cursor(view []int) int {
	if len(view) == 0 {
		return -1
	}
	if e.currentID != "" {
		for i, ai := range view {
			if e.all[ai].ID == e.currentID {
				return i
			}
		}
	}
	return clamp(e.position, 0, len(view)-1)
}

// point makes view[idx] the current card, clamping idx into range.
func (e *Engine) point(view []int, idx int) {
	if len(view) == 0 {
		e.currentID = ""
		e.position = 0
		return
	}
	idx = clamp(idx, 0, len(view)-1)
	e.currentID = e.all[view[idx]].ID
	e.position = idx
}

func (e *Engine) indexOf(id string) int {
	for i, t := range e.all {
		if t.ID == id && !t.IsSubtask {
			return i
		}
	}
	return -1
}

func (e *Engine) build(in models.TaskInput) models.Task {
	t := models.Task{
		ID:          e.newID(),
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		Category:    in.Category,
	}
	if _, ok := models.ValidPriorities[t.Priority]; !ok {
		t.Priority = models.DefaultPriority
	}
	if _, ok := models.ValidCategories[t.Category]; !ok {
		t.Category = models.DefaultCategory
	}
	if in.DueDate != nil {
		due := *in.DueDate
		t.DueDate = &due
	}
	return t
}

func (e *Engine) saveTasks() {
	e.store.Save(persist.TasksKey, e.all)
}

func (e *Engine) saveCompleted() {
	e.store.Save(persist.CompletedTasksKey, e.completed)
}

func indexByID(tasks []models.Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// removeAt returns a new slice without element i; the input is not modified.
func removeAt(tasks []models.Task, i int) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	out = append(out, tasks[:i]...)
	return append(out, tasks[i+1:]...)
}

// replaceAt returns a new slice with element i replaced by t.
func replaceAt(tasks []models.Task, i int, t models.Task) []models.Task {
	out := cloneSlice(tasks)
	out[i] = t
	return out
}

// cloneSlice copies the slice header contents so appends and writes do not
// alias snapshots already handed out.
func cloneSlice(tasks []models.Task) []models.Task {
	out := make([]models.Task, len(tasks), len(tasks)+1)
	copy(out, tasks)
	return out
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
