package tui

import (
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/colonyops/consolestate/internal/console"
)

type drainSnapshotMsg struct{}

// SnapshotBuffer coalesces console change notifications into drain signals
// for the bubbletea loop. Console subscribers run on arbitrary goroutines
// and may deliver snapshots out of order, so the buffer keeps none of them:
// Drain reads the current state from source on the loop goroutine.
type SnapshotBuffer struct {
	source  func() console.Snapshot
	pending atomic.Bool
	signal  chan struct{}
}

// NewSnapshotBuffer constructs a buffer that reads state from source.
func NewSnapshotBuffer(source func() console.Snapshot) *SnapshotBuffer {
	return &SnapshotBuffer{
		source: source,
		signal: make(chan struct{}, 1),
	}
}

// Notify marks the view stale and emits a non-blocking drain signal. The
// snapshot argument lets it be passed to console.Subscribe and is ignored.
func (b *SnapshotBuffer) Notify(console.Snapshot) {
	b.pending.Store(true)

	select {
	case b.signal <- struct{}{}:
	default:
	}
}

// Drain returns the current state if a change was signalled since the last
// drain.
func (b *SnapshotBuffer) Drain() (console.Snapshot, bool) {
	if !b.pending.Swap(false) {
		return console.Snapshot{}, false
	}
	return b.source(), true
}

// WaitForSignal blocks until there is a change to drain.
func (b *SnapshotBuffer) WaitForSignal() tea.Cmd {
	return func() tea.Msg {
		<-b.signal
		return drainSnapshotMsg{}
	}
}
