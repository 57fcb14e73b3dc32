// Package merge assembles the rendered page artifacts into the output document.
package merge

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"go.trai.ch/inkdeck/internal/core/domain"
	"go.trai.ch/inkdeck/internal/core/ports"
	"go.trai.ch/zerr"
)

// partialSuffix marks in-flight merge output until it is renamed into place.
const partialSuffix = ".partial"

// Finder probes the host for merge backends in priority order.
type Finder struct {
	logger ports.Logger

	// lookPath is swapped in tests to control which binaries "exist".
	lookPath func(string) (string, error)
}

// NewFinder creates a new Finder.
func NewFinder(logger ports.Logger) *Finder {
	return &Finder{logger: logger, lookPath: exec.LookPath}
}

// Find returns the first usable merger. The in-process backend is always
// usable; command backends require their binary on PATH. Unknown names are
// skipped with a warning so a stale configuration cannot abort a build that
// still has a working backend.
func (f *Finder) Find(_ context.Context, priority []string) (ports.Merger, error) {
	for _, name := range priority {
		switch name {
		case "pdfcpu":
			return atomic{pdfcpuMerger{}}, nil
		case "pdfunite", "gs":
			if path, err := f.lookPath(name); err == nil {
				return atomic{newCommandMerger(name, path)}, nil
			}
		default:
			f.logger.Warn(fmt.Sprintf("unknown merge backend %q, skipping", name))
		}
	}
	return nil, domain.Annotate(domain.ErrNoMergeTool, "tried", fmt.Sprintf("%v", priority))
}

// atomic decorates a merger so that the output path never holds a partial
// document: the inner merger writes to a side file which is renamed into
// place only on success.
type atomic struct {
	inner ports.Merger
}

func (a atomic) Name() string { return a.inner.Name() }

func (a atomic) Merge(ctx context.Context, pages []string, output string) error {
	partial := output + partialSuffix

	if err := a.inner.Merge(ctx, pages, partial); err != nil {
		_ = os.Remove(partial)
		return err
	}
	if err := os.Rename(partial, output); err != nil {
		_ = os.Remove(partial)
		return zerr.With(zerr.Wrap(err, domain.ErrMergeFailed.Error()), "output", output)
	}
	return nil
}
