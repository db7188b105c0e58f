package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeQueue(t *testing.T, opts ...Option) (*Queue, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	q := NewQueue(append([]Option{WithClock(clock)}, opts...)...)
	return q, clock
}

func waitForLen(t *testing.T, q *Queue, want int) {
	t.Helper()
	assert.Eventually(t, func() bool { return q.Len() == want }, time.Second, time.Millisecond)
}

func TestQueue_Enqueue_preserves_call_order(t *testing.T) {
	q, _ := newFakeQueue(t)

	ids := []string{
		q.Enqueue(LevelInfo, "first", Sticky),
		q.Enqueue(LevelError, "second", time.Minute),
		q.Enqueue(LevelSuccess, "third", Sticky),
	}

	items := q.List()
	require.Len(t, items, 3)
	for i, n := range items {
		assert.Equal(t, ids[i], n.ID)
	}
	assert.Equal(t, "first", items[0].Message)
	assert.Equal(t, "third", items[2].Message)
}

func TestQueue_Enqueue_ids_are_unique_and_increasing(t *testing.T) {
	q, _ := newFakeQueue(t)

	a := q.Enqueue(LevelInfo, "a", Sticky)
	b := q.Enqueue(LevelInfo, "b", Sticky)
	q.ClearAll()
	c := q.Enqueue(LevelInfo, "c", Sticky)

	assert.Equal(t, "toast-1", a)
	assert.Equal(t, "toast-2", b)
	assert.Equal(t, "toast-3", c)
}

func TestQueue_Enqueue_sets_created_at_only_when_expiring(t *testing.T) {
	q, clock := newFakeQueue(t)

	q.Enqueue(LevelInfo, "sticky", Sticky)
	q.Enqueue(LevelInfo, "timed", time.Second)

	items := q.List()
	require.Len(t, items, 2)
	assert.True(t, items[0].CreatedAt.IsZero())
	assert.False(t, items[0].Expires())
	assert.Equal(t, clock.Now(), items[1].CreatedAt)
	assert.True(t, items[1].Expires())
}

func TestQueue_Enqueue_auto_dismisses_after_ttl(t *testing.T) {
	q, clock := newFakeQueue(t)

	id := q.Error("boom", 100*time.Millisecond)
	assert.Equal(t, "toast-1", id)
	assert.Equal(t, 1, q.Len())

	clock.Advance(99 * time.Millisecond)
	assert.Equal(t, 1, q.Len())

	clock.Advance(time.Millisecond)
	waitForLen(t, q, 0)
	assert.Equal(t, 0, q.Pending())
}

func TestQueue_Enqueue_sticky_is_never_dismissed(t *testing.T) {
	q, clock := newFakeQueue(t)

	q.Enqueue(LevelWarning, "stays", Sticky)
	clock.Advance(time.Hour)

	assert.Equal(t, 1, q.Len())
	assert.Equal(t, 0, q.Pending())
}

func TestQueue_helpers_use_default_ttls(t *testing.T) {
	q, _ := newFakeQueue(t)

	q.Success("s")
	q.Error("e")
	q.Info("i")
	q.Warning("w")

	items := q.List()
	require.Len(t, items, 4)
	assert.Equal(t, LevelSuccess, items[0].Level)
	assert.Equal(t, DefaultSuccessTTL, items[0].TTL)
	assert.Equal(t, LevelError, items[1].Level)
	assert.Equal(t, DefaultErrorTTL, items[1].TTL)
	assert.Equal(t, LevelInfo, items[2].Level)
	assert.Equal(t, DefaultInfoTTL, items[2].TTL)
	assert.Equal(t, LevelWarning, items[3].Level)
	assert.Equal(t, DefaultWarningTTL, items[3].TTL)
}

func TestQueue_helpers_honor_override(t *testing.T) {
	q, _ := newFakeQueue(t, WithDefaultTTL(LevelInfo, 10*time.Second))

	q.Info("configured")
	q.Info("explicit", 250*time.Millisecond)
	q.Success("sticky", Sticky)

	items := q.List()
	require.Len(t, items, 3)
	assert.Equal(t, 10*time.Second, items[0].TTL)
	assert.Equal(t, 250*time.Millisecond, items[1].TTL)
	assert.False(t, items[2].Expires())
}

func TestQueue_Dismiss_cancels_timer(t *testing.T) {
	q, clock := newFakeQueue(t)

	id := q.Info("bye", time.Second)
	require.Equal(t, 1, q.Pending())

	q.Dismiss(id)
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, 0, q.Pending())

	// A later notification must survive the original deadline.
	q.Info("later", time.Hour)
	clock.Advance(time.Second)
	assert.Equal(t, 1, q.Len())
}

func TestQueue_Dismiss_is_idempotent(t *testing.T) {
	q, _ := newFakeQueue(t)

	keep := q.Info("keep", Sticky)
	id := q.Info("drop", Sticky)

	q.Dismiss(id)
	before := q.List()
	q.Dismiss(id)
	q.Dismiss("toast-404")

	assert.Equal(t, before, q.List())
	require.Len(t, before, 1)
	assert.Equal(t, keep, before[0].ID)
}

func TestQueue_Dismiss_after_expiry_is_noop(t *testing.T) {
	q, clock := newFakeQueue(t)

	id := q.Success("done", 10*time.Millisecond)
	other := q.Info("other", Sticky)
	clock.Advance(10 * time.Millisecond)
	waitForLen(t, q, 1)

	q.Dismiss(id)

	items := q.List()
	require.Len(t, items, 1)
	assert.Equal(t, other, items[0].ID)
}

func TestQueue_ClearAll_stops_timers(t *testing.T) {
	q, clock := newFakeQueue(t)

	q.Info("a", time.Second)
	q.Info("b", 2*time.Second)
	q.Info("c", Sticky)

	q.ClearAll()
	assert.False(t, q.HasActive())
	assert.Equal(t, 0, q.Pending())

	clock.Advance(time.Minute)
	assert.Equal(t, 0, q.Len())
}

func TestQueue_ClearAll_empty(t *testing.T) {
	q, _ := newFakeQueue(t)
	q.ClearAll() // should not panic
	assert.False(t, q.HasActive())
}

func TestQueue_MaxActive_evicts_oldest(t *testing.T) {
	q, _ := newFakeQueue(t, WithMaxActive(2))

	q.Info("one", time.Minute)
	q.Info("two", Sticky)
	q.Info("three", Sticky)

	items := q.List()
	require.Len(t, items, 2)
	assert.Equal(t, "two", items[0].Message)
	assert.Equal(t, "three", items[1].Message)
	assert.Equal(t, 0, q.Pending())
}

func TestQueue_zero_ttl_expires_immediately(t *testing.T) {
	q, clock := newFakeQueue(t)

	q.Info("flash", 0)
	clock.Advance(0)

	waitForLen(t, q, 0)
}

func TestQueue_Subscribe_receives_changes(t *testing.T) {
	q, _ := newFakeQueue(t)

	var (
		mu   sync.Mutex
		seen [][]Notification
	)
	unsubscribe := q.Subscribe(func(items []Notification) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, items)
	})

	id := q.Info("hello", Sticky)
	q.Dismiss(id)
	q.Dismiss(id) // no change, no event

	unsubscribe()
	q.Info("unheard", Sticky)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 2)
	assert.Len(t, seen[0], 1)
	assert.Empty(t, seen[1])
}

func TestQueue_List_returns_copy(t *testing.T) {
	q, _ := newFakeQueue(t)
	q.Info("original", Sticky)

	items := q.List()
	items[0].Message = "mutated"

	assert.Equal(t, "original", q.List()[0].Message)
}

func TestQueue_concurrent_enqueue_and_dismiss(t *testing.T) {
	q, _ := newFakeQueue(t)

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := q.Info("x", time.Minute)
			q.Dismiss(id)
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, q.Len())
	assert.Equal(t, 0, q.Pending())
}

func TestNotification_Remaining(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	n := Notification{TTL: 5 * time.Second, CreatedAt: now}

	assert.Equal(t, 5*time.Second, n.Remaining(now))
	assert.Equal(t, 2*time.Second, n.Remaining(now.Add(3*time.Second)))
	assert.Equal(t, time.Duration(0), n.Remaining(now.Add(time.Minute)))

	sticky := Notification{TTL: Sticky}
	assert.Equal(t, Sticky, sticky.Remaining(now))
}

func TestLevel_Valid(t *testing.T) {
	assert.True(t, LevelSuccess.Valid())
	assert.True(t, LevelWarning.Valid())
	assert.False(t, Level("debug").Valid())
}
