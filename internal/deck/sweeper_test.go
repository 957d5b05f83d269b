package deck

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"cardstack/internal/persist"
)

func TestSweeper_WakesExpiredTasks(t *testing.T) {
	d := newTestDeck(t, simple("a", "b"))
	require.True(t, d.SnoozeTask(1))
	d.clock.Advance(90 * time.Minute)

	s := NewSweeper(d.Engine, 5*time.Millisecond, zaptest.NewLogger(t))
	s.Start(context.Background())
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return len(d.State().SnoozedTasks) == 0
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"b", "a"}, ids(d.State().Tasks))
}

func TestSweeper_TicksPickUpLaterExpiry(t *testing.T) {
	d := newTestDeck(t, simple("a", "b"))
	require.True(t, d.SnoozeTask(1))

	s := NewSweeper(d.Engine, 5*time.Millisecond, nil)
	s.Start(context.Background())
	defer s.Stop()

	time.Sleep(20 * time.Millisecond)
	assert.Len(t, d.State().SnoozedTasks, 1)

	d.clock.Advance(time.Hour)
	assert.Eventually(t, func() bool {
		return len(d.State().SnoozedTasks) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestSweeper_IdleSweepsDoNotWrite(t *testing.T) {
	d := newTestDeck(t, simple("a", "b"))
	require.True(t, d.SnoozeTask(1))
	saves := d.store.saveCount(persist.TasksKey)

	s := NewSweeper(d.Engine, time.Millisecond, nil)
	s.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	s.Stop()

	assert.Equal(t, saves, d.store.saveCount(persist.TasksKey))
}

func TestSweeper_StopAndContextCancel(t *testing.T) {
	d := newTestDeck(t, simple("a"))

	s := NewSweeper(d.Engine, 0, nil)
	assert.Equal(t, DefaultSweepInterval, s.interval)
	s.Stop() // not started

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	s.Start(ctx) // already running
	cancel()
	s.Stop()
	s.Stop()

	// Restartable after Stop; a stopped sweeper no longer touches the engine.
	s.Start(context.Background())
	s.Stop()
	require.True(t, d.SnoozeTask(1))
	d.clock.Advance(2 * time.Hour)
	time.Sleep(10 * time.Millisecond)
	assert.Len(t, d.State().SnoozedTasks, 0, "expired snoozes are hidden from the view even before a sweep")
	assert.NotNil(t, d.all[0].SnoozedUntil, "field is only cleared by a sweep")
}
