package tui

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/consolestate/internal/console"
	"github.com/colonyops/consolestate/internal/core/notify"
	"github.com/colonyops/consolestate/internal/core/settings"
	"github.com/colonyops/consolestate/internal/core/version"
)

// stateSource is a mutable snapshot source.
type stateSource struct {
	mu   sync.Mutex
	snap console.Snapshot
}

func (s *stateSource) set(snap console.Snapshot) {
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
}

func (s *stateSource) get() console.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

func TestSnapshotBuffer_Drain_empty(t *testing.T) {
	b := NewSnapshotBuffer((&stateSource{}).get)
	_, ok := b.Drain()
	assert.False(t, ok)
}

func TestSnapshotBuffer_Drain_readsCurrentState(t *testing.T) {
	src := &stateSource{}
	b := NewSnapshotBuffer(src.get)

	src.set(console.Snapshot{SidebarCollapsed: true})
	b.Notify(console.Snapshot{Loading: true})

	s, ok := b.Drain()
	require.True(t, ok)
	assert.True(t, s.SidebarCollapsed)
	assert.False(t, s.Loading, "the delivered snapshot is ignored")

	_, ok = b.Drain()
	assert.False(t, ok)
}

func TestSnapshotBuffer_WaitForSignal_bufferedSignal(t *testing.T) {
	b := NewSnapshotBuffer((&stateSource{}).get)
	b.Notify(console.Snapshot{})

	msg := b.WaitForSignal()()
	_, ok := msg.(drainSnapshotMsg)
	require.True(t, ok)
}

func TestSnapshotBuffer_WaitForSignal_blocksUntilNotify(t *testing.T) {
	b := NewSnapshotBuffer((&stateSource{}).get)

	done := make(chan struct{})
	go func() {
		_ = b.WaitForSignal()()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("WaitForSignal returned before Notify")
	case <-time.After(20 * time.Millisecond):
	}

	b.Notify(console.Snapshot{})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WaitForSignal did not return after Notify")
	}
}

func TestSnapshotBuffer_ConcurrentNotify(t *testing.T) {
	src := &stateSource{}
	src.set(console.Snapshot{Loading: true})
	b := NewSnapshotBuffer(src.get)

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Notify(console.Snapshot{})
		}()
	}
	wg.Wait()

	_ = b.WaitForSignal()()
	s, ok := b.Drain()
	require.True(t, ok)
	assert.True(t, s.Loading)
}

type nopBackend struct{}

func (nopBackend) FetchSettings(context.Context) (settings.Public, error) {
	return settings.Public{}, nil
}

func (nopBackend) FetchVersionInfo(context.Context, bool) (version.Info, error) {
	return version.Info{}, nil
}

// A subscriber that delivers an older snapshot after a newer change must
// not leave the view on the stale state.
func TestSnapshotBuffer_OutOfOrderDeliveryShowsLatestState(t *testing.T) {
	c := console.New(nopBackend{}, console.WithQueue(notify.NewQueue()))
	b := NewSnapshotBuffer(c.Snapshot)

	hold := make(chan struct{})
	held := make(chan struct{})
	var once sync.Once
	unsubscribe := c.Subscribe(func(s console.Snapshot) {
		if len(s.Toasts) == 1 {
			once.Do(func() {
				close(held)
				<-hold
			})
		}
		b.Notify(s)
	})
	t.Cleanup(unsubscribe)

	shown := make(chan struct{})
	go func() {
		c.ShowInfo("saved", notify.Sticky)
		close(shown)
	}()
	<-held

	// The clear publishes and is delivered while the older snapshot is held.
	c.ClearAllToasts()
	close(hold)
	<-shown

	s, ok := b.Drain()
	require.True(t, ok)
	assert.Empty(t, s.Toasts)
	assert.False(t, s.HasActiveToasts)
}
