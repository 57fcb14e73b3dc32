// Package inkscape drives long-lived external rendering processes over their
// interactive shell protocol.
package inkscape

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"go.trai.ch/inkdeck/internal/core/domain"
	"go.trai.ch/inkdeck/internal/core/ports"
	"go.trai.ch/zerr"
)

// Engine implements ports.Engine by spawning one shell-mode process per session.
type Engine struct {
	logger ports.Logger
}

// NewEngine creates a new Engine.
func NewEngine(logger ports.Logger) *Engine {
	return &Engine{logger: logger}
}

// Start spawns the configured engine command and returns its session. The
// process is expected to print a '>' prompt whenever it is ready for the
// next command; stdout and stderr are merged because the prompt may surface
// on either stream depending on the engine version.
func (e *Engine) Start(ctx context.Context, settings domain.EngineSettings) (ports.EngineSession, error) {
	if len(settings.Command) == 0 {
		return nil, domain.Annotate(domain.ErrEngineStartFailed, "reason", "empty engine command")
	}

	cmd := exec.CommandContext(ctx, settings.Command[0], settings.Command[1:]...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrEngineStartFailed.Error())
	}

	outR, outW, err := os.Pipe()
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrEngineStartFailed.Error())
	}
	cmd.Stdout = outW
	cmd.Stderr = outW

	if err := cmd.Start(); err != nil {
		_ = outR.Close()
		_ = outW.Close()
		return nil, zerr.With(zerr.Wrap(err, domain.ErrEngineStartFailed.Error()), "command", settings.Command[0])
	}
	// The child holds its own copy of the write end.
	_ = outW.Close()

	e.logger.Info(fmt.Sprintf("started engine %s (pid %d)", settings.Command[0], cmd.Process.Pid))

	s := &session{
		cmd:     cmd,
		stdin:   stdin,
		out:     outR,
		timeout: settings.ReadyTimeout,
		ready:   make(chan struct{}, 1),
		exited:  make(chan struct{}),
	}
	go s.scan()
	return s, nil
}

// session is one running engine process. A session is owned by exactly one
// worker; only Close may be called from elsewhere.
type session struct {
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	out     *os.File
	timeout time.Duration

	// ready receives one token per observed prompt; exited is closed when
	// the merged output stream ends.
	ready  chan struct{}
	exited chan struct{}

	closeOnce sync.Once
	closeErr  error
}

// scan reads the merged output one byte at a time and signals every prompt.
// Byte-wise reads are required: the prompt is not newline-terminated, so any
// buffering would sit on it indefinitely.
func (s *session) scan() {
	buf := make([]byte, 1)
	for {
		n, err := s.out.Read(buf)
		if n == 1 && buf[0] == '>' {
			select {
			case s.ready <- struct{}{}:
			default:
			}
		}
		if err != nil {
			close(s.exited)
			return
		}
	}
}

// AwaitReady blocks until the engine prints its prompt. A dead process or an
// exhausted timeout is a hard error; the run aborts instead of hanging on a
// prompt that will never come.
func (s *session) AwaitReady(ctx context.Context) error {
	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	select {
	case <-s.ready:
		return nil
	case <-s.exited:
		return domain.ErrEngineExited
	case <-timer.C:
		return domain.Annotate(domain.ErrEngineTimeout, "timeout", s.timeout.String())
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Render submits one export command and waits for the next prompt, which the
// engine prints only after it finished writing the page artifact.
func (s *session) Render(ctx context.Context, job domain.RenderJob) error {
	line := fmt.Sprintf("-A %q %q\n", job.TargetPath, job.SourcePath)
	if _, err := io.WriteString(s.stdin, line); err != nil {
		return zerr.Wrap(err, domain.ErrEngineExited.Error())
	}

	if err := s.AwaitReady(ctx); err != nil {
		return err
	}

	// The prompt acknowledges the command, not its success. The artifact
	// itself is the ground truth.
	if _, err := os.Stat(job.TargetPath); err != nil {
		return domain.Annotate(domain.ErrArtifactMissing, "target", job.TargetPath)
	}
	return nil
}

// Close asks the engine to quit and reaps the process.
func (s *session) Close() error {
	s.closeOnce.Do(func() {
		// Best effort: a crashed process has already closed its stdin.
		_, _ = io.WriteString(s.stdin, "quit\n")
		_ = s.stdin.Close()

		s.closeErr = s.cmd.Wait()

		// Unblocks the scanner if the pipe is still open.
		_ = s.out.Close()
	})
	return s.closeErr
}
