// Package persist serializes task collections to a key-value store.
//
// Reads are synchronous and never fail from the caller's point of view: a
// missing or corrupt value yields the caller's fallback. Writes are queued
// and applied by a single goroutine in the order Save was called. When the
// queue is full, pending snapshots of the same key collapse to the newest.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"cardstack/internal/models"
)

// Storage keys for the two collections.
const (
	TasksKey          = "cardstack_tasks"
	CompletedTasksKey = "cardstack_completed_tasks"
)

const (
	queueSize    = 256
	writeTimeout = 5 * time.Second
)

// ErrClosed is returned by Flush after Close.
var ErrClosed = errors.New("codec closed")

// KV is the storage contract the codec writes through.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

type write struct {
	key   string
	value string
	ack   chan struct{}
}

// Codec reads and writes task collections as JSON documents.
type Codec struct {
	kv     KV
	logger *zap.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan write
	done   chan struct{}

	// overflow holds the newest snapshot per key while the queue is full.
	// Once it is non-empty every Save lands here until the writer drains it.
	overflowMu sync.Mutex
	overflow   map[string]string
}

// New starts the codec's writer goroutine. Call Close to drain it.
func New(kv KV, logger *zap.Logger) *Codec {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Codec{
		kv:     kv,
		logger: logger,
		queue:  make(chan write, queueSize),
		done:   make(chan struct{}),
	}
	go c.run()
	return c
}

// Load returns the collection stored under key. Pending writes are applied
// first so a Load always observes every earlier Save. On a missing key, a
// read error or undecodable JSON the fallback is returned and the failure
// is logged.
func (c *Codec) Load(ctx context.Context, key string, fallback []models.Task) []models.Task {
	if err := c.Flush(ctx); err != nil && !errors.Is(err, ErrClosed) {
		c.logger.Warn("flush before load failed", zap.String("key", key), zap.Error(err))
	}

	raw, ok, err := c.kv.Get(ctx, key)
	if err != nil {
		c.logger.Warn("failed to read tasks", zap.String("key", key), zap.Error(err))
		return fallback
	}
	if !ok {
		return fallback
	}

	tasks, err := Decode(raw)
	if err != nil {
		c.logger.Warn("failed to parse tasks", zap.String("key", key), zap.Error(err))
		return fallback
	}
	return tasks
}

// Save snapshots tasks and queues the write. It never blocks: when the queue
// is full the snapshot replaces any older pending one for the same key, and
// the writer applies it after the queued writes. Write failures are logged
// by the writer goroutine.
func (c *Codec) Save(key string, tasks []models.Task) {
	raw, err := Encode(tasks)
	if err != nil {
		c.logger.Error("failed to encode tasks", zap.String("key", key), zap.Error(err))
		return
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		c.logger.Warn("save after close dropped", zap.String("key", key))
		return
	}

	c.overflowMu.Lock()
	defer c.overflowMu.Unlock()
	if len(c.overflow) == 0 {
		select {
		case c.queue <- write{key: key, value: raw}:
			return
		default:
			c.logger.Warn("write queue full, coalescing saves", zap.Int("queued", cap(c.queue)))
		}
	}
	if c.overflow == nil {
		c.overflow = make(map[string]string)
	}
	c.overflow[key] = raw
}

// Flush waits until every write queued before the call has been applied.
func (c *Codec) Flush(ctx context.Context) error {
	ack := make(chan struct{})

	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return ErrClosed
	}
	c.queue <- write{ack: ack}
	c.mu.RUnlock()

	select {
	case <-ack:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close applies the queued writes and stops the writer goroutine.
func (c *Codec) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.queue)
	c.mu.Unlock()

	<-c.done
	return nil
}

func (c *Codec) run() {
	defer close(c.done)

	// acks that arrived while coalesced snapshots were still pending.
	var waiting []chan struct{}
	release := func() {
		for _, ack := range waiting {
			close(ack)
		}
		waiting = nil
	}

	for w := range c.queue {
		if w.ack != nil {
			waiting = append(waiting, w.ack)
		} else {
			c.apply(w.key, w.value)
		}
		if c.drainOverflow() {
			release()
		}
	}
	c.drainOverflow()
	release()
}

// drainOverflow writes the coalesced snapshots once the queue is empty. Every
// queued write is older than them at that point. It reports whether nothing
// is left pending.
func (c *Codec) drainOverflow() bool {
	c.overflowMu.Lock()
	if len(c.overflow) == 0 {
		c.overflowMu.Unlock()
		return true
	}
	if len(c.queue) > 0 {
		c.overflowMu.Unlock()
		return false
	}
	pending := c.overflow
	c.overflow = nil
	c.overflowMu.Unlock()

	for key, value := range pending {
		c.apply(key, value)
	}
	return true
}

func (c *Codec) apply(key, value string) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := c.kv.Set(ctx, key, value); err != nil {
		c.logger.Error("failed to write tasks", zap.String("key", key), zap.Error(err))
	}
}

// Encode renders a collection as a JSON array. Dates become RFC 3339
// strings; an empty collection is written as [] rather than null.
func Encode(tasks []models.Task) (string, error) {
	if tasks == nil {
		tasks = []models.Task{}
	}
	b, err := json.Marshal(tasks)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Decode parses a JSON array written by Encode or by the browser build of
// the app (ISO-8601 with milliseconds). Date fields of nested subtasks are
// rehydrated as well.
func Decode(raw string) ([]models.Task, error) {
	var tasks []models.Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		return nil, errors.New("stored value is not an array")
	}
	return tasks, nil
}
