package merge

import (
	"context"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"go.trai.ch/inkdeck/internal/core/domain"
	"go.trai.ch/zerr"
)

// pdfcpuMerger merges in-process, with no external binary involved. It is
// the preferred backend because it is always available.
type pdfcpuMerger struct{}

func (pdfcpuMerger) Name() string { return "pdfcpu" }

func (pdfcpuMerger) Merge(_ context.Context, pages []string, output string) error {
	if err := api.MergeCreateFile(pages, output, false, nil); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrMergeFailed.Error()), "backend", "pdfcpu")
	}
	return nil
}
