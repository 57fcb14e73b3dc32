// Package materializer turns the slide plan into per-frame documents on disk
// and decides, per frame, whether the cached page artifact can be reused.
package materializer

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"go.trai.ch/inkdeck/internal/core/domain"
	"go.trai.ch/inkdeck/internal/core/ports"
	"go.trai.ch/zerr"
)

// Materializer writes frame documents into the work directory.
type Materializer struct {
	logger ports.Logger
}

// New creates a new Materializer.
func New(logger ports.Logger) *Materializer {
	return &Materializer{logger: logger}
}

// Materialize produces one frame document per plan entry and returns the
// render jobs in frame order.
//
// The canonical document is hidden once up front; every frame then works on
// its own clone, shows exactly its planned layers, prunes what stayed hidden
// and substitutes the numbering tokens. A frame is a cache hit when its bytes
// on disk did not change and the rendered page artifact still exists.
func (m *Materializer) Materialize(doc *domain.Document, plan []domain.SlidePlanEntry, dir string) ([]domain.RenderJob, error) {
	doc.HideAll()

	jobs := make([]domain.RenderJob, 0, len(plan))
	for _, entry := range plan {
		frame := doc.Clone()
		for _, ref := range entry.Layers {
			if err := frame.Show(ref.Name, ref.Opacity); err != nil {
				return nil, zerr.With(err, "frame", entry.FrameIndex)
			}
		}

		// Layers with <use> references may point at nodes inside hidden
		// siblings, so such frames keep the full tree.
		if !referencesHiddenNodes(frame, entry) {
			frame.PruneHidden()
		}
		frame.SubstituteNumbering(entry.GroupIndex, entry.FrameIndex)

		data, err := frame.Bytes()
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrSlideWriteFailed.Error()), "frame", entry.FrameIndex)
		}

		source := filepath.Join(dir, domain.SlideSourceName(entry.FrameIndex))
		target := filepath.Join(dir, domain.SlideTargetName(entry.FrameIndex))
		hit, err := writeThroughCache(source, data, target)
		if err != nil {
			return nil, zerr.With(err, "frame", entry.FrameIndex)
		}

		jobs = append(jobs, domain.RenderJob{
			FrameIndex: entry.FrameIndex,
			SourcePath: source,
			TargetPath: target,
			CacheHit:   hit,
		})
	}

	m.logger.Info(fmt.Sprintf("materialized %d frames into %s", len(jobs), dir))
	return jobs, nil
}

// referencesHiddenNodes reports whether any shown layer of the frame embeds
// references into the rest of the tree.
func referencesHiddenNodes(frame *domain.Document, entry domain.SlidePlanEntry) bool {
	for _, ref := range entry.Layers {
		if frame.LayerHasEmbeddedRefs(ref.Name) {
			return true
		}
	}
	return false
}

// writeThroughCache writes the frame document and reports whether the
// previous artifact is still valid. The file is hashed before the write and
// re-read and hashed after it; the cache hits only when both digests match
// and the target exists. Hashing what is actually on disk, rather than the
// in-memory bytes, also invalidates frames a user edited by hand.
func writeThroughCache(source string, data []byte, target string) (bool, error) {
	var before [sha256.Size]byte
	had := false
	if old, err := os.ReadFile(source); err == nil {
		before = sha256.Sum256(old)
		had = true
	}

	if err := os.WriteFile(source, data, domain.FilePerm); err != nil {
		return false, zerr.With(zerr.Wrap(err, domain.ErrSlideWriteFailed.Error()), "path", source)
	}

	written, err := os.ReadFile(source)
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, domain.ErrSlideWriteFailed.Error()), "path", source)
	}

	if !had || before != sha256.Sum256(written) {
		return false, nil
	}
	if _, err := os.Stat(target); err != nil {
		return false, nil
	}
	return true, nil
}
