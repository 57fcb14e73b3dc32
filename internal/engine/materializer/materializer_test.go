package materializer_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/inkdeck/internal/core/domain"
	"go.trai.ch/inkdeck/internal/engine/materializer"
)

type nopLogger struct{}

func (nopLogger) Info(string) {}
func (nopLogger) Warn(string) {}
func (nopLogger) Error(error) {}

const deckSVG = `<svg xmlns="http://www.w3.org/2000/svg" xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape" xmlns:sodipodi="http://sodipodi.sourceforge.net/DTD/sodipodi-0.0.dtd">
  <sodipodi:namedview id="base"/>
  <g inkscape:groupmode="layer" inkscape:label="deck">
    <g inkscape:groupmode="layer" inkscape:label="one">
      <text><tspan>#num#</tspan><tspan>#frame_num#</tspan></text>
    </g>
    <g inkscape:groupmode="layer" inkscape:label="two"/>
  </g>
  <g inkscape:groupmode="layer" inkscape:label="extras"/>
</svg>`

func loadDoc(t *testing.T, svg string) *domain.Document {
	t.Helper()
	tree := etree.NewDocument()
	require.NoError(t, tree.ReadFromString(svg))
	doc, err := domain.NewDocument(tree)
	require.NoError(t, err)
	return doc
}

func planFor() []domain.SlidePlanEntry {
	return []domain.SlidePlanEntry{
		{GroupIndex: 1, FrameIndex: 0, Layers: []domain.LayerRef{{Name: "deck", Opacity: 1}, {Name: "one", Opacity: 1}}},
		{GroupIndex: 2, FrameIndex: 1, Layers: []domain.LayerRef{{Name: "deck", Opacity: 1}, {Name: "two", Opacity: 0.5}}},
	}
}

func TestMaterializeWritesFrames(t *testing.T) {
	dir := t.TempDir()
	m := materializer.New(nopLogger{})

	jobs, err := m.Materialize(loadDoc(t, deckSVG), planFor(), dir)
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	for i, job := range jobs {
		assert.Equal(t, i, job.FrameIndex)
		assert.Equal(t, filepath.Join(dir, domain.SlideSourceName(i)), job.SourcePath)
		assert.Equal(t, filepath.Join(dir, domain.SlideTargetName(i)), job.TargetPath)
		assert.False(t, job.CacheHit)
		assert.FileExists(t, job.SourcePath)
	}

	first, err := os.ReadFile(jobs[0].SourcePath)
	require.NoError(t, err)

	// The hidden "extras" layer and the editor metadata are pruned; the
	// numbering tokens become the 1-based slide number and the 0-based
	// frame index.
	assert.NotContains(t, string(first), "extras")
	assert.NotContains(t, string(first), "namedview")
	assert.NotContains(t, string(first), domain.TokenSlideNum)
	assert.NotContains(t, string(first), domain.TokenFrameNum)
	assert.Contains(t, string(first), "<tspan>1</tspan><tspan>0</tspan>")

	second, err := os.ReadFile(jobs[1].SourcePath)
	require.NoError(t, err)
	assert.Contains(t, string(second), "opacity:0.5")
	assert.Contains(t, string(second), "<tspan>2</tspan><tspan>1</tspan>")
	assert.NotContains(t, string(second), "extras")
}

func TestMaterializeCacheHits(t *testing.T) {
	dir := t.TempDir()
	m := materializer.New(nopLogger{})

	jobs, err := m.Materialize(loadDoc(t, deckSVG), planFor(), dir)
	require.NoError(t, err)

	// Unchanged frames stay misses until their page artifact exists.
	jobs, err = m.Materialize(loadDoc(t, deckSVG), planFor(), dir)
	require.NoError(t, err)
	for _, job := range jobs {
		assert.False(t, job.CacheHit)
	}

	for _, job := range jobs {
		require.NoError(t, os.WriteFile(job.TargetPath, []byte("%PDF"), 0o644))
	}

	jobs, err = m.Materialize(loadDoc(t, deckSVG), planFor(), dir)
	require.NoError(t, err)
	for _, job := range jobs {
		assert.True(t, job.CacheHit)
	}
}

func TestMaterializeInvalidatesChangedFrame(t *testing.T) {
	dir := t.TempDir()
	m := materializer.New(nopLogger{})

	jobs, err := m.Materialize(loadDoc(t, deckSVG), planFor(), dir)
	require.NoError(t, err)
	for _, job := range jobs {
		require.NoError(t, os.WriteFile(job.TargetPath, []byte("%PDF"), 0o644))
	}

	// Changing one frame's opacity must invalidate exactly that frame.
	plan := planFor()
	plan[1].Layers[1].Opacity = 0.7

	jobs, err = m.Materialize(loadDoc(t, deckSVG), plan, dir)
	require.NoError(t, err)
	assert.True(t, jobs[0].CacheHit)
	assert.False(t, jobs[1].CacheHit)
}

func TestMaterializeUnknownLayer(t *testing.T) {
	m := materializer.New(nopLogger{})

	plan := []domain.SlidePlanEntry{
		{GroupIndex: 1, FrameIndex: 0, Layers: []domain.LayerRef{{Name: "ghost", Opacity: 1}}},
	}
	_, err := m.Materialize(loadDoc(t, deckSVG), plan, t.TempDir())
	require.ErrorIs(t, err, domain.ErrLayerNotFound)
}

func TestMaterializeKeepsTreeForEmbeddedRefs(t *testing.T) {
	svg := `<svg xmlns:inkscape="i" xmlns:xlink="x">
  <g inkscape:groupmode="layer" inkscape:label="shared"><circle id="dot"/></g>
  <g inkscape:groupmode="layer" inkscape:label="view"><use xlink:href="#dot"/></g>
</svg>`

	plan := []domain.SlidePlanEntry{
		{GroupIndex: 1, FrameIndex: 0, Layers: []domain.LayerRef{{Name: "view", Opacity: 1}}},
	}
	dir := t.TempDir()

	jobs, err := materializer.New(nopLogger{}).Materialize(loadDoc(t, svg), plan, dir)
	require.NoError(t, err)

	data, err := os.ReadFile(jobs[0].SourcePath)
	require.NoError(t, err)

	// The hidden "shared" layer survives because "view" references into it.
	assert.Contains(t, string(data), `inkscape:label="shared"`)
}
