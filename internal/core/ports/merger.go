package ports

import "context"

// Merger concatenates single-page artifacts into one output document,
// preserving the given order exactly.
type Merger interface {
	// Name identifies the backing merge mechanism, e.g. "pdfcpu" or "gs".
	Name() string

	// Merge appends the pages, in order, into one document at output.
	// On failure no partial output may remain at the output path.
	Merge(ctx context.Context, pages []string, output string) error
}

// MergerFinder probes the host for an available merge backend.
type MergerFinder interface {
	// Find returns the first available merger from the priority-ordered
	// names, or domain.ErrNoMergeTool when none is usable.
	Find(ctx context.Context, priority []string) (Merger, error)
}
