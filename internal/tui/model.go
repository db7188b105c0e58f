// Package tui renders a live view of the console state.
package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/colonyops/consolestate/internal/console"
	"github.com/colonyops/consolestate/internal/core/cache"
	"github.com/colonyops/consolestate/internal/core/settings"
	"github.com/colonyops/consolestate/internal/core/styles"
	"github.com/colonyops/consolestate/internal/core/version"
)

// narrowWidth is the terminal width below which the sidebar behaves like
// the mobile drawer.
const narrowWidth = 80

var errFetchFailed = errors.New("fetch failed")

type (
	refreshTickMsg struct{}

	fetchDoneMsg struct {
		slot    string
		outcome cache.Outcome
		ok      bool
		info    version.Info
	}
)

// Options configures the watch model.
type Options struct {
	Console *console.Console
	// Clock is used for toast countdowns. Defaults to the real clock.
	Clock clockwork.Clock
	// RefreshInterval re-reads the caches periodically; 0 disables.
	RefreshInterval time.Duration
	Logger          zerolog.Logger
}

// Model is the bubbletea model for the watch view.
type Model struct {
	ctx         context.Context
	console     *console.Console
	buffer      *SnapshotBuffer
	unsubscribe func()
	clock       clockwork.Clock
	refresh     time.Duration
	log         zerolog.Logger

	keys    keyMap
	help    help.Model
	spinner spinner.Model

	snap          console.Snapshot
	announced     string
	width, height int
}

// New creates a watch model bound to opts.Console. Call Close once the
// program exits to release the console subscription.
func New(ctx context.Context, opts Options) Model {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	buffer := NewSnapshotBuffer(opts.Console.Snapshot)
	unsubscribe := opts.Console.Subscribe(buffer.Notify)

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(styles.SpinnerStyle),
	)

	return Model{
		ctx:         ctx,
		console:     opts.Console,
		buffer:      buffer,
		unsubscribe: unsubscribe,
		clock:       clock,
		refresh:     opts.RefreshInterval,
		log:         opts.Logger,
		keys:        defaultKeyMap(),
		help:        help.New(),
		spinner:     sp,
		snap:        opts.Console.Snapshot(),
	}
}

// Close releases the console subscription.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Snapshot returns the state the model last rendered from.
func (m Model) Snapshot() console.Snapshot {
	return m.snap
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.buffer.WaitForSignal(),
		m.spinner.Tick,
		m.prefetchCmd(),
		m.scheduleRefresh(),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case drainSnapshotMsg:
		if s, ok := m.buffer.Drain(); ok {
			m.snap = s
		}
		return m, m.buffer.WaitForSignal()

	case fetchDoneMsg:
		return m.handleFetchDone(msg)

	case refreshTickMsg:
		if m.snap.PublicSettingsLoading || m.snap.VersionLoading {
			return m, m.scheduleRefresh()
		}
		return m, tea.Batch(m.fetchCmd(false), m.scheduleRefresh())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Refresh):
		if m.snap.PublicSettingsLoading || m.snap.VersionLoading {
			return m, nil
		}
		return m, m.fetchCmd(true)

	case key.Matches(msg, m.keys.Sidebar):
		if m.narrow() {
			m.console.ToggleMobileSidebar()
		} else {
			m.console.ToggleSidebar()
		}
		return m, nil

	case key.Matches(msg, m.keys.Dismiss):
		if n := len(m.snap.Toasts); n > 0 {
			m.console.HideToast(m.snap.Toasts[n-1].ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.ClearToasts):
		m.console.ClearAllToasts()
		return m, nil

	case key.Matches(msg, m.keys.ClearVersion):
		if m.snap.VersionLoading {
			return m, nil
		}
		m.console.ClearVersionCache()
		m.announced = ""
		return m, m.fetchVersionCmd(false)

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	return m, nil
}

func (m Model) handleFetchDone(msg fetchDoneMsg) (tea.Model, tea.Cmd) {
	m.log.Debug().Str("slot", msg.slot).Str("outcome", string(msg.outcome)).Msg("fetch finished")

	if msg.slot != console.SlotVersion || !msg.ok || !msg.info.HasUpdate {
		return m, nil
	}
	if m.announced == msg.info.LatestVersion {
		return m, nil
	}

	m.announced = msg.info.LatestVersion
	m.console.ShowInfo("Update available: " + msg.info.LatestVersion)
	return m, nil
}

func (m Model) narrow() bool {
	return m.width > 0 && m.width < narrowWidth
}

func (m Model) scheduleRefresh() tea.Cmd {
	if m.refresh <= 0 {
		return nil
	}
	return tea.Tick(m.refresh, func(time.Time) tea.Msg {
		return refreshTickMsg{}
	})
}

func (m Model) fetchCmd(force bool) tea.Cmd {
	return tea.Batch(m.fetchSettingsCmd(force), m.fetchVersionCmd(force))
}

// prefetchCmd loads both caches once at startup.
func (m Model) prefetchCmd() tea.Cmd {
	c, ctx := m.console, m.ctx
	return func() tea.Msg {
		_, ok := console.WithLoadingAndError(ctx, c, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, c.Prefetch(ctx)
		}, "Failed to load console data")

		outcome := cache.OutcomeFetched
		if !ok {
			outcome = cache.OutcomeFailed
		}
		snap := c.Snapshot()
		return fetchDoneMsg{
			slot:    console.SlotVersion,
			outcome: outcome,
			ok:      snap.VersionLoaded,
			info:    snap.Version,
		}
	}
}

func (m Model) fetchSettingsCmd(force bool) tea.Cmd {
	c, ctx := m.console, m.ctx
	return func() tea.Msg {
		_, outcome := readWithLoading(ctx, c, func(ctx context.Context) (settings.Public, cache.Outcome) {
			return c.FetchPublicSettingsOutcome(ctx, force)
		}, "Failed to load public settings")
		return fetchDoneMsg{slot: console.SlotPublicSettings, outcome: outcome, ok: served(outcome)}
	}
}

func (m Model) fetchVersionCmd(force bool) tea.Cmd {
	c, ctx := m.console, m.ctx
	return func() tea.Msg {
		info, outcome := readWithLoading(ctx, c, func(ctx context.Context) (version.Info, cache.Outcome) {
			return c.FetchVersionOutcome(ctx, force)
		}, "Failed to check for updates")
		return fetchDoneMsg{slot: console.SlotVersion, outcome: outcome, ok: served(outcome), info: info}
	}
}

// readWithLoading holds the loading gate for read and reports a failed
// fetch as an error notification. A read that found another fetch running
// shows nothing; the running fetch publishes its result.
func readWithLoading[T any](ctx context.Context, c *console.Console, read func(context.Context) (T, cache.Outcome), errorMessage string) (T, cache.Outcome) {
	var outcome cache.Outcome
	v, _ := console.WithLoadingAndError(ctx, c, func(ctx context.Context) (T, error) {
		v, o := read(ctx)
		outcome = o
		if o == cache.OutcomeFailed {
			return v, errFetchFailed
		}
		return v, nil
	}, errorMessage)
	return v, outcome
}

func served(o cache.Outcome) bool {
	return o == cache.OutcomeHit || o == cache.OutcomeFetched
}
