package pool_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/inkdeck/internal/core/domain"
	"go.trai.ch/inkdeck/internal/core/ports"
	"go.trai.ch/inkdeck/internal/engine/pool"
	"go.trai.ch/zerr"
)

type nopLogger struct{}

func (nopLogger) Info(string) {}
func (nopLogger) Warn(string) {}
func (nopLogger) Error(error) {}

var errRenderBoom = zerr.New("render boom")

// fakeEngine hands out sessions that record rendered frames and can be
// programmed to fail on a specific frame.
type fakeEngine struct {
	mu       sync.Mutex
	started  int
	closed   int
	rendered []int
	failOn   int
	startErr error
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{failOn: -1}
}

func (e *fakeEngine) Start(_ context.Context, _ domain.EngineSettings) (ports.EngineSession, error) {
	if e.startErr != nil {
		return nil, e.startErr
	}
	e.mu.Lock()
	e.started++
	e.mu.Unlock()
	return &fakeSession{engine: e}, nil
}

type fakeSession struct {
	engine *fakeEngine
}

func (s *fakeSession) AwaitReady(context.Context) error { return nil }

func (s *fakeSession) Render(_ context.Context, job domain.RenderJob) error {
	s.engine.mu.Lock()
	defer s.engine.mu.Unlock()
	if job.FrameIndex == s.engine.failOn {
		return errRenderBoom
	}
	s.engine.rendered = append(s.engine.rendered, job.FrameIndex)
	return nil
}

func (s *fakeSession) Close() error {
	s.engine.mu.Lock()
	defer s.engine.mu.Unlock()
	s.engine.closed++
	return nil
}

func jobsFor(n int) []domain.RenderJob {
	jobs := make([]domain.RenderJob, n)
	for i := range jobs {
		jobs[i] = domain.RenderJob{FrameIndex: i}
	}
	return jobs
}

func settingsFor(workers int) domain.Settings {
	s := domain.DefaultSettings()
	s.Workers = workers
	return s
}

func TestRunRendersAllJobs(t *testing.T) {
	engine := newFakeEngine()
	var completed atomic.Int32

	err := pool.New(engine, nopLogger{}).Run(t.Context(), jobsFor(7), settingsFor(3), func(domain.RenderJob) {
		completed.Add(1)
	})
	require.NoError(t, err)

	assert.Equal(t, int32(7), completed.Load())
	assert.Len(t, engine.rendered, 7)
	assert.Equal(t, 3, engine.started)
	assert.Equal(t, 3, engine.closed)
}

func TestRunCapsWorkersAtJobCount(t *testing.T) {
	engine := newFakeEngine()

	err := pool.New(engine, nopLogger{}).Run(t.Context(), jobsFor(2), settingsFor(8), func(domain.RenderJob) {})
	require.NoError(t, err)

	assert.Equal(t, 2, engine.started)
}

func TestRunNoJobs(t *testing.T) {
	engine := newFakeEngine()

	err := pool.New(engine, nopLogger{}).Run(t.Context(), nil, settingsFor(4), func(domain.RenderJob) {
		t.Fatal("no job should complete")
	})
	require.NoError(t, err)
	assert.Zero(t, engine.started)
}

func TestRunPropagatesRenderFailure(t *testing.T) {
	engine := newFakeEngine()
	engine.failOn = 4

	err := pool.New(engine, nopLogger{}).Run(t.Context(), jobsFor(6), settingsFor(2), func(domain.RenderJob) {})
	require.ErrorIs(t, err, errRenderBoom)

	// Every started session is closed even on failure.
	assert.Equal(t, engine.started, engine.closed)
}

func TestRunPropagatesStartFailure(t *testing.T) {
	engine := newFakeEngine()
	engine.startErr = domain.ErrEngineStartFailed

	err := pool.New(engine, nopLogger{}).Run(t.Context(), jobsFor(3), settingsFor(2), func(domain.RenderJob) {})
	require.ErrorIs(t, err, domain.ErrEngineStartFailed)
}
