package ports

import (
	"context"

	"go.trai.ch/inkdeck/internal/core/domain"
)

// EngineSession is one long-lived external render process driven by the
// line-oriented ready/command protocol. A session handles many jobs
// sequentially; at most one render is outstanding at a time.
type EngineSession interface {
	// AwaitReady blocks until the engine emits its ready sentinel.
	// It returns domain.ErrEngineExited if the engine's output stream
	// closes, and domain.ErrEngineTimeout when the bounded wait expires.
	AwaitReady(ctx context.Context) error

	// Render submits one job and blocks until the engine is ready again.
	// The session must be ready when Render is called.
	Render(ctx context.Context, job domain.RenderJob) error

	// Close terminates the external process and releases all resources.
	Close() error
}

// Engine spawns render engine sessions.
type Engine interface {
	// Start launches one external engine process. The returned session is
	// not yet ready; callers must AwaitReady before the first Render.
	Start(ctx context.Context, settings domain.EngineSettings) (EngineSession, error)
}
