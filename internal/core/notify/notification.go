// Package notify holds transient user-facing notifications and the queue
// that orders, expires, and dismisses them.
package notify

import (
	"time"
)

// Level represents the kind of a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
)

// Sticky is the TTL of a notification that is never dismissed automatically.
const Sticky time.Duration = -1

// Default auto-dismiss delays used by the level helpers.
const (
	DefaultSuccessTTL = 3 * time.Second
	DefaultErrorTTL   = 5 * time.Second
	DefaultInfoTTL    = 3 * time.Second
	DefaultWarningTTL = 4 * time.Second
)

// Notification represents a single transient message.
type Notification struct {
	ID      string        `json:"id"`
	Level   Level         `json:"type"`
	Message string        `json:"message"`
	TTL     time.Duration `json:"duration,omitempty"`
	// CreatedAt is only set when the notification has an auto-dismiss TTL.
	CreatedAt time.Time `json:"start_time,omitzero"`
}

// Expires reports whether the notification is dismissed automatically.
func (n Notification) Expires() bool {
	return n.TTL >= 0
}

// Remaining returns the time left before auto-dismiss, measured from now.
// Sticky notifications return Sticky.
func (n Notification) Remaining(now time.Time) time.Duration {
	if !n.Expires() {
		return Sticky
	}
	return max(n.CreatedAt.Add(n.TTL).Sub(now), 0)
}

// Valid reports whether l is one of the known levels.
func (l Level) Valid() bool {
	switch l {
	case LevelSuccess, LevelError, LevelInfo, LevelWarning:
		return true
	}
	return false
}
