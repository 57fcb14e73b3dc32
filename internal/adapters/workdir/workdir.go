// Package workdir manages the per-document work directories that hold
// materialized frames and rendered page artifacts.
package workdir

import (
	"fmt"
	"os"

	"go.trai.ch/inkdeck/internal/core/domain"
	"go.trai.ch/inkdeck/internal/core/ports"
	"go.trai.ch/zerr"
)

// Workspace implements ports.Workspace on the local filesystem.
type Workspace struct {
	logger ports.Logger
}

// New creates a new Workspace.
func New(logger ports.Logger) *Workspace {
	return &Workspace{logger: logger}
}

// Create returns the work directory for the input document.
//
// With keep set, the directory lives next to the input and is reused across
// runs; that persistence is what makes frame caching possible. Without keep,
// a throwaway directory is used and the cleanup function removes it.
func (w *Workspace) Create(input string, keep bool) (string, func(), error) {
	if keep {
		dir := domain.WorkDirFor(input)
		if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
			return "", nil, zerr.With(zerr.Wrap(err, domain.ErrWorkDirCreateFailed.Error()), "dir", dir)
		}
		return dir, func() {}, nil
	}

	dir, err := os.MkdirTemp("", domain.WorkDirPrefix)
	if err != nil {
		return "", nil, zerr.Wrap(err, domain.ErrWorkDirCreateFailed.Error())
	}
	cleanup := func() {
		if err := os.RemoveAll(dir); err != nil {
			w.logger.Error(zerr.With(zerr.Wrap(err, "removing work directory"), "dir", dir))
		}
	}
	return dir, cleanup, nil
}

// Clean removes the persistent work directory of the input document.
func (w *Workspace) Clean(input string) error {
	dir := domain.WorkDirFor(input)
	if err := os.RemoveAll(dir); err != nil {
		return zerr.With(zerr.Wrap(err, fmt.Sprintf("failed to remove %s", dir)), "input", input)
	}
	w.logger.Info(fmt.Sprintf("removed %s", dir))
	return nil
}
