package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/consolestate/internal/core/notify"
	"github.com/colonyops/consolestate/internal/core/styles"
)

func TestRenderToasts_empty(t *testing.T) {
	assert.Empty(t, RenderToasts(nil, time.Now()))
}

func TestRenderToasts_renders_each_level(t *testing.T) {
	tests := []struct {
		level notify.Level
		icon  string
	}{
		{notify.LevelSuccess, styles.IconNotifySuccess},
		{notify.LevelError, styles.IconNotifyError},
		{notify.LevelWarning, styles.IconNotifyWarning},
		{notify.LevelInfo, styles.IconNotifyInfo},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			out := RenderToasts([]notify.Notification{
				{ID: "toast-1", Level: tt.level, Message: "test msg", TTL: notify.Sticky},
			}, time.Now())

			require.NotEmpty(t, out)
			assert.Contains(t, out, tt.icon)
			assert.Contains(t, out, "test msg")
		})
	}
}

func TestRenderToasts_stacks_oldest_first(t *testing.T) {
	out := RenderToasts([]notify.Notification{
		{ID: "toast-1", Level: notify.LevelInfo, Message: "first", TTL: notify.Sticky},
		{ID: "toast-2", Level: notify.LevelError, Message: "second", TTL: notify.Sticky},
	}, time.Now())

	firstIdx := strings.Index(out, "first")
	secondIdx := strings.Index(out, "second")

	require.NotEqual(t, -1, firstIdx)
	require.NotEqual(t, -1, secondIdx)
	assert.Less(t, firstIdx, secondIdx)
}

func TestRenderToasts_countdown(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	expiring := RenderToasts([]notify.Notification{
		{ID: "toast-1", Level: notify.LevelInfo, Message: "soon", TTL: 3 * time.Second, CreatedAt: now.Add(-time.Second)},
	}, now)
	assert.Contains(t, expiring, "(2s)")

	sticky := RenderToasts([]notify.Notification{
		{ID: "toast-2", Level: notify.LevelInfo, Message: "forever", TTL: notify.Sticky},
	}, now)
	assert.NotContains(t, sticky, "(")
}

func TestOverlayBottomRight_noToasts(t *testing.T) {
	assert.Equal(t, "body", overlayBottomRight("body", "", 80, 24))
}

func TestOverlayBottomRight_appendsBelow(t *testing.T) {
	out := overlayBottomRight("body", "toast", 20, 10)
	lines := strings.Split(out, "\n")

	assert.Equal(t, "body", lines[0])
	assert.Len(t, lines, 10)
	assert.True(t, strings.HasSuffix(lines[len(lines)-1], "toast"))
}
