package ports

import "go.trai.ch/inkdeck/internal/core/domain"

// DocumentLoader parses an input vector document into the document model.
type DocumentLoader interface {
	// Load reads and parses the document at the given path.
	Load(path string) (*domain.Document, error)
}
