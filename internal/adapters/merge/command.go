package merge

import (
	"context"
	"os/exec"

	"go.trai.ch/inkdeck/internal/core/domain"
	"go.trai.ch/zerr"
)

// commandMerger shells out to an external merge binary.
type commandMerger struct {
	name string
	path string
	args func(pages []string, output string) []string
}

func newCommandMerger(name, path string) *commandMerger {
	m := &commandMerger{name: name, path: path}
	switch name {
	case "gs":
		m.args = func(pages []string, output string) []string {
			args := []string{"-dBATCH", "-dNOPAUSE", "-q", "-sDEVICE=pdfwrite", "-sOutputFile=" + output}
			return append(args, pages...)
		}
	default: // pdfunite
		m.args = func(pages []string, output string) []string {
			return append(append([]string{}, pages...), output)
		}
	}
	return m
}

func (m *commandMerger) Name() string { return m.name }

func (m *commandMerger) Merge(ctx context.Context, pages []string, output string) error {
	cmd := exec.CommandContext(ctx, m.path, m.args(pages, output)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return zerr.With(
			zerr.With(zerr.Wrap(err, domain.ErrMergeFailed.Error()), "backend", m.name),
			"output", string(out),
		)
	}
	return nil
}
