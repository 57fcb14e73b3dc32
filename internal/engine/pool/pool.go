// Package pool runs render jobs on a fixed set of long-lived engine sessions.
package pool

import (
	"context"
	"fmt"

	"go.trai.ch/inkdeck/internal/core/domain"
	"go.trai.ch/inkdeck/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Pool distributes render jobs over engine sessions. Each worker owns exactly
// one session for its whole lifetime; sessions are never shared or restarted.
type Pool struct {
	engine ports.Engine
	logger ports.Logger
}

// New creates a new Pool.
func New(engine ports.Engine, logger ports.Logger) *Pool {
	return &Pool{engine: engine, logger: logger}
}

// Run renders all jobs and calls rendered for every completed one. The
// callback must be safe for concurrent use. The first worker error cancels
// the remaining work and is returned.
func (p *Pool) Run(ctx context.Context, jobs []domain.RenderJob, settings domain.Settings, rendered func(domain.RenderJob)) error {
	if len(jobs) == 0 {
		return nil
	}

	workers := min(settings.Workers, len(jobs))
	if workers < 1 {
		workers = 1
	}

	queue := make(chan domain.RenderJob, len(jobs))
	for _, job := range jobs {
		queue <- job
	}
	close(queue)

	p.logger.Info(fmt.Sprintf("rendering %d frames on %d workers", len(jobs), workers))

	g, ctx := errgroup.WithContext(ctx)
	for i := range workers {
		g.Go(func() error {
			return p.work(ctx, i, queue, settings.Engine, rendered)
		})
	}
	return g.Wait()
}

func (p *Pool) work(
	ctx context.Context,
	id int,
	queue <-chan domain.RenderJob,
	settings domain.EngineSettings,
	rendered func(domain.RenderJob),
) error {
	session, err := p.engine.Start(ctx, settings)
	if err != nil {
		return domain.Annotate(err, "worker", id)
	}
	defer func() {
		if err := session.Close(); err != nil {
			p.logger.Error(zerr.With(zerr.Wrap(err, "closing engine session"), "worker", id))
		}
	}()

	if err := session.AwaitReady(ctx); err != nil {
		return domain.Annotate(err, "worker", id)
	}

	for job := range queue {
		// The queue is pre-filled, so a cancelled context must be
		// checked explicitly instead of relying on channel selection.
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := session.Render(ctx, job); err != nil {
			return zerr.With(domain.Annotate(err, "frame", job.FrameIndex), "source", job.SourcePath)
		}
		rendered(job)
	}
	return nil
}
