package logging

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ComponentKey is the field naming the subsystem that emitted an event.
const ComponentKey = "cmp"

// Component returns a child of the global logger tagged with the subsystem
// name, e.g. "backend" or "console".
func Component(name string) zerolog.Logger {
	return log.With().Str(ComponentKey, name).Logger()
}

// ComponentCtx is Component with the session and command from ctx bound up
// front. Use it for long-lived loggers whose events are not logged with
// .Ctx, such as the watch view and the debug server.
func ComponentCtx(ctx context.Context, name string) zerolog.Logger {
	lc := log.With().Str(ComponentKey, name)
	if id := GetSessionID(ctx); id != "" {
		lc = lc.Str("session_id", id)
	}
	if command := GetCommand(ctx); command != "" {
		lc = lc.Str("command", command)
	}
	return lc.Logger()
}
