package notify

import (
	"strconv"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/colonyops/consolestate/pkg/listeners"
)

// Subscriber is a callback invoked with the active notifications, in display
// order, after every change to the queue.
type Subscriber func([]Notification)

// Option configures a Queue.
type Option func(*Queue)

// WithClock sets the clock used to schedule auto-dismiss timers.
func WithClock(clock clockwork.Clock) Option {
	return func(q *Queue) {
		q.clock = clock
	}
}

// WithMaxActive caps the number of active notifications. When the cap is
// exceeded the oldest notification is evicted. Zero means unlimited.
func WithMaxActive(n int) Option {
	return func(q *Queue) {
		q.maxActive = n
	}
}

// WithDefaultTTL overrides the TTL the level helpers use when no duration
// is passed.
func WithDefaultTTL(level Level, ttl time.Duration) Option {
	return func(q *Queue) {
		q.defaults[level] = ttl
	}
}

// Queue manages the lifecycle of active notifications. It handles push,
// eviction, timed expiry, and dismissal. A Queue is safe for concurrent use.
type Queue struct {
	clock     clockwork.Clock
	maxActive int
	defaults  map[Level]time.Duration

	mu     sync.Mutex
	seq    uint64
	items  []Notification
	timers map[string]clockwork.Timer

	listeners listeners.Set[[]Notification]
}

// NewQueue creates an empty queue backed by the real clock unless
// WithClock is given.
func NewQueue(opts ...Option) *Queue {
	q := &Queue{
		clock: clockwork.NewRealClock(),
		defaults: map[Level]time.Duration{
			LevelSuccess: DefaultSuccessTTL,
			LevelError:   DefaultErrorTTL,
			LevelInfo:    DefaultInfoTTL,
			LevelWarning: DefaultWarningTTL,
		},
		timers: make(map[string]clockwork.Timer),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Enqueue appends a notification and returns its id. A non-negative ttl
// schedules the notification to be dismissed after that delay; Sticky
// keeps it until dismissed or cleared.
func (q *Queue) Enqueue(level Level, msg string, ttl time.Duration) string {
	if ttl < 0 {
		ttl = Sticky
	}

	q.mu.Lock()
	q.seq++
	n := Notification{
		ID:      "toast-" + strconv.FormatUint(q.seq, 10),
		Level:   level,
		Message: msg,
		TTL:     ttl,
	}
	if n.Expires() {
		n.CreatedAt = q.clock.Now()
	}
	q.items = append(q.items, n)

	var evicted []clockwork.Timer
	if q.maxActive > 0 && len(q.items) > q.maxActive {
		drop := len(q.items) - q.maxActive
		for _, old := range q.items[:drop] {
			if t, ok := q.timers[old.ID]; ok {
				evicted = append(evicted, t)
				delete(q.timers, old.ID)
			}
		}
		q.items = append([]Notification(nil), q.items[drop:]...)
	}
	q.mu.Unlock()

	for _, t := range evicted {
		t.Stop()
	}

	// The timer is registered outside the lock so a zero delay that fires
	// inline cannot deadlock against expire.
	if n.Expires() {
		q.schedule(n.ID, ttl)
	}

	q.publish()
	return n.ID
}

// Success enqueues a success notification. The first ttl, if given,
// overrides the default of 3s.
func (q *Queue) Success(msg string, ttl ...time.Duration) string {
	return q.Enqueue(LevelSuccess, msg, q.ttlFor(LevelSuccess, ttl))
}

// Error enqueues an error notification. The first ttl, if given,
// overrides the default of 5s.
func (q *Queue) Error(msg string, ttl ...time.Duration) string {
	return q.Enqueue(LevelError, msg, q.ttlFor(LevelError, ttl))
}

// Info enqueues an info notification. The first ttl, if given, overrides
// the default of 3s.
func (q *Queue) Info(msg string, ttl ...time.Duration) string {
	return q.Enqueue(LevelInfo, msg, q.ttlFor(LevelInfo, ttl))
}

// Warning enqueues a warning notification. The first ttl, if given,
// overrides the default of 4s.
func (q *Queue) Warning(msg string, ttl ...time.Duration) string {
	return q.Enqueue(LevelWarning, msg, q.ttlFor(LevelWarning, ttl))
}

// Dismiss removes the notification with the given id and cancels its
// pending timer. Unknown ids are ignored.
func (q *Queue) Dismiss(id string) {
	q.mu.Lock()
	t := q.timers[id]
	delete(q.timers, id)
	removed := q.removeLocked(id)
	q.mu.Unlock()

	if t != nil {
		t.Stop()
	}
	if removed {
		q.publish()
	}
}

// ClearAll removes every active notification and cancels all pending timers.
func (q *Queue) ClearAll() {
	q.mu.Lock()
	timers := q.timers
	q.timers = make(map[string]clockwork.Timer)
	hadItems := len(q.items) > 0
	q.items = nil
	q.mu.Unlock()

	for _, t := range timers {
		t.Stop()
	}
	if hadItems {
		q.publish()
	}
}

// List returns a copy of the active notifications in display order.
func (q *Queue) List() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.snapshotLocked()
}

// Len returns the number of active notifications.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// HasActive returns true if there are any active notifications.
func (q *Queue) HasActive() bool {
	return q.Len() > 0
}

// Pending returns the number of scheduled auto-dismiss timers.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.timers)
}

// Subscribe registers fn to be called after every change. The returned
// function removes the subscription.
func (q *Queue) Subscribe(fn Subscriber) func() {
	return q.listeners.Add(fn)
}

func (q *Queue) ttlFor(level Level, ttl []time.Duration) time.Duration {
	if len(ttl) > 0 {
		return ttl[0]
	}
	return q.defaults[level]
}

func (q *Queue) schedule(id string, ttl time.Duration) {
	t := q.clock.AfterFunc(ttl, func() { q.expire(id) })

	q.mu.Lock()
	if q.indexLocked(id) < 0 {
		// Dismissed, cleared, evicted, or already expired.
		q.mu.Unlock()
		t.Stop()
		return
	}
	q.timers[id] = t
	q.mu.Unlock()
}

// expire runs on the timer goroutine. It must not call back into the clock.
func (q *Queue) expire(id string) {
	q.mu.Lock()
	delete(q.timers, id)
	removed := q.removeLocked(id)
	q.mu.Unlock()

	if removed {
		q.publish()
	}
}

func (q *Queue) publish() {
	q.mu.Lock()
	items := q.snapshotLocked()
	q.mu.Unlock()

	q.listeners.Notify(items)
}

func (q *Queue) indexLocked(id string) int {
	for i, n := range q.items {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func (q *Queue) removeLocked(id string) bool {
	i := q.indexLocked(id)
	if i < 0 {
		return false
	}
	q.items = append(q.items[:i], q.items[i+1:]...)
	return true
}

func (q *Queue) snapshotLocked() []Notification {
	out := make([]Notification, len(q.items))
	copy(out, q.items)
	return out
}
