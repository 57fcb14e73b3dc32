// Package svg loads vector documents from disk into the document model.
package svg

import (
	"github.com/beevik/etree"
	"go.trai.ch/inkdeck/internal/core/domain"
	"go.trai.ch/zerr"
)

// Loader implements ports.DocumentLoader for SVG files.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses the file at path into a Document. The element tree is kept
// verbatim; unknown elements and attributes survive the round trip so the
// rendering engine sees the document exactly as the author saved it.
func (l *Loader) Load(path string) (*domain.Document, error) {
	tree := etree.NewDocument()
	if err := tree.ReadFromFile(path); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrDocumentParseFailed.Error()), "path", path)
	}

	doc, err := domain.NewDocument(tree)
	if err != nil {
		return nil, domain.Annotate(err, "path", path)
	}
	return doc, nil
}
