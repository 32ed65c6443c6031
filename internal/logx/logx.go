package logx

import (
	"context"

	"pkt.systems/pslog"
	"pkt.systems/termpart/schema"
)

type contextKey int

const (
	sessionKey contextKey = iota
)

// Ctx returns the logger bound to the provided context.
func Ctx(ctx context.Context) pslog.Logger {
	return pslog.Ctx(ctx)
}

// WithSession annotates the logger with the session id if present.
func WithSession(ctx context.Context, sessionID string) pslog.Logger {
	log := pslog.Ctx(ctx)
	if sessionID != "" {
		if current, ok := ctx.Value(sessionKey).(string); ok && current == sessionID {
			return log
		}
		log = log.With("session", sessionID)
	}
	return log
}

// ContextWithSession binds a session-annotated logger to the context and
// marks it so later WithSession calls do not repeat the field.
func ContextWithSession(ctx context.Context, sessionID string) context.Context {
	if ctx == nil || sessionID == "" {
		return ctx
	}
	log := WithSession(ctx, sessionID)
	ctx = pslog.ContextWithLogger(ctx, log)
	return context.WithValue(ctx, sessionKey, sessionID)
}

// WithSchema annotates the logger with schema metadata when available.
func WithSchema(log pslog.Logger, id schema.SchemaID, path string) pslog.Logger {
	log = log.With("schema", int(id))
	if path != "" {
		log = log.With("schema_path", path)
	}
	return log
}
