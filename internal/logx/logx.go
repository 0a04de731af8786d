// Package logx holds pslog helpers shared by the terminal surfaces.
package logx

import (
	"context"

	"pkt.systems/pslog"
	"pkt.systems/rhinoterm/schema"
)

type contextKey int

const (
	sessionKey contextKey = iota
	surfaceKey
)

// Ctx returns the logger bound to the provided context.
func Ctx(ctx context.Context) pslog.Logger {
	return pslog.Ctx(ctx)
}

// WithSession annotates the logger with the session id unless the context
// already carries it.
func WithSession(ctx context.Context, sessionID schema.SessionID) pslog.Logger {
	log := pslog.Ctx(ctx)
	if sessionID != "" {
		if current, ok := ctx.Value(sessionKey).(schema.SessionID); ok && current == sessionID {
			return log
		}
		log = log.With("session", sessionID)
	}
	return log
}

// WithSessionSurface annotates the logger with session and surface.
func WithSessionSurface(ctx context.Context, sessionID schema.SessionID, surface schema.SurfaceKind) pslog.Logger {
	log := WithSession(ctx, sessionID)
	if surface != "" {
		if current, ok := ctx.Value(surfaceKey).(schema.SurfaceKind); ok && current == surface {
			return log
		}
		log = log.With("surface", surface)
	}
	return log
}

// WithRemote annotates the logger with the peer address when known.
func WithRemote(log pslog.Logger, remote string) pslog.Logger {
	if remote != "" {
		log = log.With("remote", remote)
	}
	return log
}

// ContextWithSession stores the session marker on the context for log de-duplication.
func ContextWithSession(ctx context.Context, sessionID schema.SessionID) context.Context {
	if ctx == nil || sessionID == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionKey, sessionID)
}

// ContextWithSurface stores the surface marker on the context for log de-duplication.
func ContextWithSurface(ctx context.Context, surface schema.SurfaceKind) context.Context {
	if ctx == nil || surface == "" {
		return ctx
	}
	return context.WithValue(ctx, surfaceKey, surface)
}

// ContextWithSessionLogger attaches the logger and session/surface markers to the context.
func ContextWithSessionLogger(ctx context.Context, log pslog.Logger, sessionID schema.SessionID, surface schema.SurfaceKind) context.Context {
	ctx = pslog.ContextWithLogger(ctx, log)
	return ContextWithSurface(ContextWithSession(ctx, sessionID), surface)
}

// CopyContextFields copies session/surface markers from src to dst.
func CopyContextFields(dst context.Context, src context.Context) context.Context {
	if src == nil {
		return dst
	}
	if id, ok := src.Value(sessionKey).(schema.SessionID); ok && id != "" {
		dst = ContextWithSession(dst, id)
	}
	if surface, ok := src.Value(surfaceKey).(schema.SurfaceKind); ok && surface != "" {
		dst = ContextWithSurface(dst, surface)
	}
	return dst
}
