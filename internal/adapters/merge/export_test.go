package merge

import "go.trai.ch/inkdeck/internal/core/ports"

// WithLookPath overrides binary discovery. Test helper.
func (f *Finder) WithLookPath(fn func(string) (string, error)) *Finder {
	f.lookPath = fn
	return f
}

// NewCommandMerger exposes the command backend for tests.
func NewCommandMerger(name, path string) ports.Merger {
	return newCommandMerger(name, path)
}

// AtomicOver exposes the atomic decorator for tests.
func AtomicOver(inner ports.Merger) ports.Merger {
	return atomic{inner}
}
