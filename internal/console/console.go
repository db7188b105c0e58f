// Package console coordinates the admin client's cross-cutting UI state:
// sidebar flags, the loading gate, transient notifications, and the public
// settings and version caches.
package console

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/colonyops/consolestate/internal/core/cache"
	"github.com/colonyops/consolestate/internal/core/loading"
	"github.com/colonyops/consolestate/internal/core/notify"
	"github.com/colonyops/consolestate/internal/core/settings"
	"github.com/colonyops/consolestate/internal/core/version"
	"github.com/colonyops/consolestate/pkg/listeners"
)

// Slot names used in logs and metrics.
const (
	SlotPublicSettings = "public_settings"
	SlotVersion        = "version"
)

// ErrUnavailable is returned by Prefetch when a slot fetch failed.
var ErrUnavailable = errors.New("not available")

// Backend is the remote collaborator the caches read from.
type Backend interface {
	FetchSettings(ctx context.Context) (settings.Public, error)
	FetchVersionInfo(ctx context.Context, force bool) (version.Info, error)
}

// Recorder receives state changes for instrumentation.
type Recorder interface {
	cache.Observer
	ObserveLoading(active int)
	ObserveNotification(level notify.Level)
	ObserveToasts(active int)
}

// Option configures a Console.
type Option func(*Console)

// WithQueue replaces the default notification queue.
func WithQueue(q *notify.Queue) Option {
	return func(c *Console) {
		c.queue = q
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Console) {
		c.log = l
	}
}

// WithRecorder sets the instrumentation recorder.
func WithRecorder(r Recorder) Option {
	return func(c *Console) {
		c.recorder = r
	}
}

// Console is the facade over the UI state. Construct one per application
// session and pass it to whatever owns the UI.
type Console struct {
	log      zerolog.Logger
	recorder Recorder

	queue          *notify.Queue
	gate           *loading.Gate
	publicSettings *cache.Slot[settings.Public]
	version        *cache.Slot[version.Info]

	mu               sync.Mutex
	sidebarCollapsed bool
	mobileOpen       bool

	listeners listeners.Set[Snapshot]
}

// New creates a Console reading through b.
func New(b Backend, opts ...Option) *Console {
	c := &Console{
		log:  zerolog.Nop(),
		gate: loading.NewGate(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.queue == nil {
		c.queue = notify.NewQueue()
	}

	slotOpts := []cache.Option{cache.WithLogger(c.log)}
	if c.recorder != nil {
		slotOpts = append(slotOpts, cache.WithObserver(c.recorder))
	}

	c.publicSettings = cache.NewSlot(SlotPublicSettings, settings.Public{},
		func(ctx context.Context, _ bool) (settings.Public, error) {
			return b.FetchSettings(ctx)
		}, slotOpts...)
	c.version = cache.NewSlot(SlotVersion, version.Info{},
		func(ctx context.Context, force bool) (version.Info, error) {
			return b.FetchVersionInfo(ctx, force)
		}, slotOpts...)

	c.queue.Subscribe(func(items []notify.Notification) {
		if c.recorder != nil {
			c.recorder.ObserveToasts(len(items))
		}
		c.publish()
	})
	c.gate.Subscribe(func(bool) { c.publish() })
	c.publicSettings.Subscribe(func(cache.Entry[settings.Public]) { c.publish() })
	c.version.Subscribe(func(cache.Entry[version.Info]) { c.publish() })

	return c
}

// ==================== Sidebar ====================

// ToggleSidebar flips the collapsed flag.
func (c *Console) ToggleSidebar() {
	c.mu.Lock()
	c.sidebarCollapsed = !c.sidebarCollapsed
	c.mu.Unlock()
	c.publish()
}

// SetSidebarCollapsed sets the collapsed flag.
func (c *Console) SetSidebarCollapsed(collapsed bool) {
	c.mu.Lock()
	c.sidebarCollapsed = collapsed
	c.mu.Unlock()
	c.publish()
}

// ToggleMobileSidebar flips the mobile open flag.
func (c *Console) ToggleMobileSidebar() {
	c.mu.Lock()
	c.mobileOpen = !c.mobileOpen
	c.mu.Unlock()
	c.publish()
}

// SetMobileOpen sets the mobile open flag.
func (c *Console) SetMobileOpen(open bool) {
	c.mu.Lock()
	c.mobileOpen = open
	c.mu.Unlock()
	c.publish()
}

// ==================== Loading ====================

// SetLoading increments the loading count when on is true and decrements
// it, never below zero, when false.
func (c *Console) SetLoading(on bool) {
	c.gate.Set(on)
	c.observeLoading()
}

// Loading reports whether any scoped operation is running.
func (c *Console) Loading() bool {
	return c.gate.Loading()
}

// Gate exposes the loading gate for use with loading.Run.
func (c *Console) Gate() *loading.Gate {
	return c.gate
}

// WithLoading runs op while holding the console's loading gate.
func WithLoading[T any](ctx context.Context, c *Console, op func(context.Context) (T, error)) (T, error) {
	defer c.observeLoading()
	return loading.Run(ctx, c.gate, func(ctx context.Context) (T, error) {
		c.observeLoading()
		return op(ctx)
	})
}

// WithLoadingAndError runs op while holding the loading gate. A failure is
// shown as an error notification and reported as ok=false.
func WithLoadingAndError[T any](ctx context.Context, c *Console, op func(context.Context) (T, error), errorMessage string) (T, bool) {
	defer c.observeLoading()
	return loading.RunReporting(ctx, c.gate, reporter{c}, func(ctx context.Context) (T, error) {
		c.observeLoading()
		return op(ctx)
	}, errorMessage)
}

// reporter routes loading failures through ShowError so they are counted.
type reporter struct{ c *Console }

func (r reporter) Error(msg string, ttl ...time.Duration) string {
	return r.c.ShowError(msg, ttl...)
}

func (c *Console) observeLoading() {
	if c.recorder != nil {
		c.recorder.ObserveLoading(c.gate.Active())
	}
}

// ==================== Notifications ====================

// ShowToast enqueues a notification. Pass notify.Sticky to disable
// auto-dismiss.
func (c *Console) ShowToast(level notify.Level, msg string, ttl time.Duration) string {
	c.countNotification(level)
	return c.queue.Enqueue(level, msg, ttl)
}

// ShowSuccess enqueues a success notification (default 3s).
func (c *Console) ShowSuccess(msg string, ttl ...time.Duration) string {
	c.countNotification(notify.LevelSuccess)
	return c.queue.Success(msg, ttl...)
}

// ShowError enqueues an error notification (default 5s).
func (c *Console) ShowError(msg string, ttl ...time.Duration) string {
	c.countNotification(notify.LevelError)
	return c.queue.Error(msg, ttl...)
}

// ShowInfo enqueues an info notification (default 3s).
func (c *Console) ShowInfo(msg string, ttl ...time.Duration) string {
	c.countNotification(notify.LevelInfo)
	return c.queue.Info(msg, ttl...)
}

// ShowWarning enqueues a warning notification (default 4s).
func (c *Console) ShowWarning(msg string, ttl ...time.Duration) string {
	c.countNotification(notify.LevelWarning)
	return c.queue.Warning(msg, ttl...)
}

// HideToast dismisses a notification. Unknown ids are ignored.
func (c *Console) HideToast(id string) {
	c.queue.Dismiss(id)
}

// ClearAllToasts dismisses every notification.
func (c *Console) ClearAllToasts() {
	c.queue.ClearAll()
}

// Toasts returns the active notifications in display order.
func (c *Console) Toasts() []notify.Notification {
	return c.queue.List()
}

// HasActiveToasts reports whether any notification is displayed.
func (c *Console) HasActiveToasts() bool {
	return c.queue.HasActive()
}

func (c *Console) countNotification(level notify.Level) {
	if c.recorder != nil {
		c.recorder.ObserveNotification(level)
	}
}

// ==================== Version ====================

// FetchVersion returns the update status, from cache unless force is set.
// ok is false while another fetch is running or when the fetch failed.
func (c *Console) FetchVersion(ctx context.Context, force bool) (version.Info, bool) {
	info, outcome := c.FetchVersionOutcome(ctx, force)
	return info, served(outcome)
}

// FetchVersionOutcome is FetchVersion reporting how the read was served, so
// callers can tell a deduplicated read from a failed one. Cached reads carry
// only the fields the backend returned; Warning is dropped.
func (c *Console) FetchVersionOutcome(ctx context.Context, force bool) (version.Info, cache.Outcome) {
	info, outcome := c.version.ReadOutcome(ctx, force)
	switch outcome {
	case cache.OutcomeHit:
		info = info.Normalize()
		info.Cached = true
		info.Warning = ""
		return info, outcome
	case cache.OutcomeFetched:
		return info, outcome
	default:
		return version.Info{}, outcome
	}
}

// ClearVersionCache forces the next FetchVersion to hit the backend and
// clears the update flag, e.g. after an update was applied.
func (c *Console) ClearVersionCache() {
	c.version.Invalidate()
	c.version.Amend(func(i version.Info) version.Info {
		i.HasUpdate = false
		return i
	})
}

// ==================== Public settings ====================

// FetchPublicSettings returns the public settings, from cache unless force
// is set. Cached reads return only the projected fields; the remaining
// booleans read false. ok is false while another fetch is running or when
// the fetch failed.
func (c *Console) FetchPublicSettings(ctx context.Context, force bool) (settings.Public, bool) {
	p, outcome := c.FetchPublicSettingsOutcome(ctx, force)
	return p, served(outcome)
}

// FetchPublicSettingsOutcome is FetchPublicSettings reporting how the read
// was served.
func (c *Console) FetchPublicSettingsOutcome(ctx context.Context, force bool) (settings.Public, cache.Outcome) {
	p, outcome := c.publicSettings.ReadOutcome(ctx, force)
	switch outcome {
	case cache.OutcomeHit:
		return settings.Project(p).Public(), outcome
	case cache.OutcomeFetched:
		return p, outcome
	default:
		return settings.Public{}, outcome
	}
}

func served(o cache.Outcome) bool {
	return o == cache.OutcomeHit || o == cache.OutcomeFetched
}

// ClearPublicSettingsCache forces the next FetchPublicSettings to hit the
// backend. Projected fields keep their values until then.
func (c *Console) ClearPublicSettingsCache() {
	c.publicSettings.Invalidate()
}

// Prefetch loads both caches concurrently. It returns an error naming the
// first cache whose fetch failed. A cache already being fetched elsewhere is
// not an error.
func (c *Console) Prefetch(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if _, o := c.FetchPublicSettingsOutcome(ctx, false); o == cache.OutcomeFailed {
			return fmt.Errorf("%s: %w", SlotPublicSettings, ErrUnavailable)
		}
		return nil
	})
	g.Go(func() error {
		if _, o := c.FetchVersionOutcome(ctx, false); o == cache.OutcomeFailed {
			return fmt.Errorf("%s: %w", SlotVersion, ErrUnavailable)
		}
		return nil
	})
	return g.Wait()
}

// ==================== Lifecycle ====================

// Reset restores sidebar, loading, and notification state to defaults.
// Cached values are kept.
func (c *Console) Reset() {
	c.mu.Lock()
	c.sidebarCollapsed = false
	c.mu.Unlock()

	c.gate.Reset()
	c.queue.ClearAll()
	c.observeLoading()
	c.publish()
}

// Subscribe registers fn to be called with a fresh snapshot after every
// state change. The returned function removes the subscription.
func (c *Console) Subscribe(fn func(Snapshot)) func() {
	return c.listeners.Add(fn)
}

func (c *Console) publish() {
	if c.listeners.Len() == 0 {
		return
	}
	c.listeners.Notify(c.Snapshot())
}
