package planner_test

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/inkdeck/internal/core/domain"
	"go.trai.ch/inkdeck/internal/engine/planner"
)

type nopLogger struct{}

func (nopLogger) Info(string) {}
func (nopLogger) Warn(string) {}
func (nopLogger) Error(error) {}

// loadDoc parses an SVG snippet into the document model.
func loadDoc(t *testing.T, svg string) *domain.Document {
	t.Helper()
	tree := etree.NewDocument()
	require.NoError(t, tree.ReadFromString(svg))
	doc, err := domain.NewDocument(tree)
	require.NoError(t, err)
	return doc
}

// names flattens a plan entry's layer references into their names.
func names(entry domain.SlidePlanEntry) []string {
	out := make([]string, len(entry.Layers))
	for i, ref := range entry.Layers {
		out[i] = ref.Name
	}
	return out
}

const structuredSVG = `<svg xmlns="http://www.w3.org/2000/svg" xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape">
  <g inkscape:groupmode="layer" inkscape:label="intro">
    <g inkscape:groupmode="layer" inkscape:label="title"/>
    <g inkscape:groupmode="layer" inkscape:label="agenda">
      <g inkscape:groupmode="layer" inkscape:label="agenda-1"/>
      <g inkscape:groupmode="layer" inkscape:label="agenda-2"/>
    </g>
  </g>
  <g inkscape:groupmode="layer" inkscape:label="body">
    <g inkscape:groupmode="layer" inkscape:label="detail"/>
  </g>
</svg>`

func TestCompileStructured(t *testing.T) {
	doc := loadDoc(t, structuredSVG)

	plan, err := planner.New(nopLogger{}).Compile(doc, false)
	require.NoError(t, err)
	require.Len(t, plan, 4)

	assert.Equal(t, []string{"intro", "title"}, names(plan[0]))
	assert.Equal(t, []string{"intro", "agenda", "agenda-1"}, names(plan[1]))
	assert.Equal(t, []string{"intro", "agenda", "agenda-1", "agenda-2"}, names(plan[2]))
	assert.Equal(t, []string{"body", "detail"}, names(plan[3]))

	// Frames are numbered consecutively, build-up frames share one slide number.
	for i, entry := range plan {
		assert.Equal(t, i, entry.FrameIndex)
	}
	assert.Equal(t, 1, plan[0].GroupIndex)
	assert.Equal(t, 2, plan[1].GroupIndex)
	assert.Equal(t, 2, plan[2].GroupIndex)
	assert.Equal(t, 3, plan[3].GroupIndex)

	for _, entry := range plan {
		for _, ref := range entry.Layers {
			assert.Equal(t, domain.DefaultOpacity, ref.Opacity)
		}
	}
}

func TestCompileFlat(t *testing.T) {
	doc := loadDoc(t, structuredSVG)

	plan, err := planner.New(nopLogger{}).Compile(doc, true)
	require.NoError(t, err)
	require.Len(t, plan, 2)

	assert.Equal(t, []string{"intro"}, names(plan[0]))
	assert.Equal(t, []string{"body"}, names(plan[1]))
	assert.Equal(t, 1, plan[0].GroupIndex)
	assert.Equal(t, 2, plan[1].GroupIndex)
}

func TestCompileMasterInjection(t *testing.T) {
	doc := loadDoc(t, `<svg xmlns:inkscape="i">
  <g inkscape:groupmode="layer" inkscape:label="setup">
    <text>
      <tspan>#master#</tspan>
      <tspan>footer*0.8</tspan>
    </text>
    <g inkscape:groupmode="layer" inkscape:label="footer"/>
  </g>
  <g inkscape:groupmode="layer" inkscape:label="deck">
    <g inkscape:groupmode="layer" inkscape:label="one"/>
    <g inkscape:groupmode="layer" inkscape:label="two"/>
  </g>
</svg>`)

	plan, err := planner.New(nopLogger{}).Compile(doc, false)
	require.NoError(t, err)
	require.Len(t, plan, 3)

	for _, entry := range plan {
		last := entry.Layers[len(entry.Layers)-1]
		assert.Equal(t, "footer", last.Name)
		assert.Equal(t, 0.8, last.Opacity)
	}
}

func TestCompileImports(t *testing.T) {
	doc := loadDoc(t, `<svg xmlns:inkscape="i">
  <g inkscape:groupmode="layer" inkscape:label="shared">
    <g inkscape:groupmode="layer" inkscape:label="logo"/>
  </g>
  <g inkscape:groupmode="layer" inkscape:label="deck">
    <g inkscape:groupmode="layer" inkscape:label="slide-a">
      <text>
        <tspan>#import#</tspan>
        <tspan>logo*0.5</tspan>
      </text>
      <g inkscape:groupmode="layer" inkscape:label="step-1"/>
      <g inkscape:groupmode="layer" inkscape:label="step-2">
        <text>
          <tspan>#import#</tspan>
          <tspan>-logo</tspan>
        </text>
      </g>
    </g>
  </g>
</svg>`)

	plan, err := planner.New(nopLogger{}).Compile(doc, false)
	require.NoError(t, err)
	require.Len(t, plan, 3)

	// The slide under "shared" has no children and no directives.
	assert.Equal(t, []string{"shared", "logo"}, names(plan[0]))

	// Slide-level import lands on every build-up frame.
	require.Equal(t, []string{"deck", "slide-a", "step-1", "logo"}, names(plan[1]))
	assert.Equal(t, 0.5, plan[1].Layers[3].Opacity)

	// Frame-level import removes it again on the second frame.
	assert.Equal(t, []string{"deck", "slide-a", "step-1", "step-2"}, names(plan[2]))
}

func TestCompileContentGrammar(t *testing.T) {
	doc := loadDoc(t, `<svg xmlns:inkscape="i">
  <g inkscape:groupmode="layer" inkscape:label="deck">
    <g inkscape:groupmode="layer" inkscape:label="legacy">
      <text>
        <tspan>#content#</tspan>
        <tspan>alpha, beta*0.5</tspan>
        <tspan>+gamma</tspan>
        <tspan>gamma</tspan>
      </text>
    </g>
  </g>
  <g inkscape:groupmode="layer" inkscape:label="alpha"/>
  <g inkscape:groupmode="layer" inkscape:label="beta"/>
  <g inkscape:groupmode="layer" inkscape:label="gamma"/>
</svg>`)

	plan, err := planner.New(nopLogger{}).Compile(doc, false)
	require.NoError(t, err)
	// 3 content frames plus 3 empty top-level groups contributing nothing.
	require.Len(t, plan, 3)

	assert.Equal(t, []string{"deck", "alpha", "beta"}, names(plan[0]))
	assert.Equal(t, 0.5, plan[0].Layers[2].Opacity)

	// "+" continues from the previous frame's descriptor layers.
	assert.Equal(t, []string{"deck", "alpha", "beta", "gamma"}, names(plan[1]))

	// A plain line resets the accumulation.
	assert.Equal(t, []string{"deck", "gamma"}, names(plan[2]))

	// All three frames belong to one slide.
	for _, entry := range plan {
		assert.Equal(t, 1, entry.GroupIndex)
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		flat bool
		want error
	}{
		{
			name: "no slides",
			svg:  `<svg><g id="plain"/></svg>`,
			want: domain.ErrNoSlides,
		},
		{
			name: "unknown master layer",
			svg: `<svg xmlns:inkscape="i">
  <g inkscape:groupmode="layer" inkscape:label="deck">
    <text><tspan>#master#</tspan><tspan>ghost</tspan></text>
    <g inkscape:groupmode="layer" inkscape:label="one"/>
  </g>
</svg>`,
			want: domain.ErrLayerNotFound,
		},
		{
			name: "import removes missing layer",
			svg: `<svg xmlns:inkscape="i">
  <g inkscape:groupmode="layer" inkscape:label="deck">
    <g inkscape:groupmode="layer" inkscape:label="one">
      <text><tspan>#import#</tspan><tspan>-ghost</tspan></text>
    </g>
  </g>
</svg>`,
			want: domain.ErrImportRemoveMissing,
		},
		{
			name: "opacity out of range",
			svg: `<svg xmlns:inkscape="i">
  <g inkscape:groupmode="layer" inkscape:label="deck">
    <g inkscape:groupmode="layer" inkscape:label="legacy">
      <text><tspan>#content#</tspan><tspan>deck*1.5</tspan></text>
    </g>
  </g>
</svg>`,
			want: domain.ErrInvalidOpacity,
		},
		{
			name: "opacity not a number",
			svg: `<svg xmlns:inkscape="i">
  <g inkscape:groupmode="layer" inkscape:label="deck">
    <g inkscape:groupmode="layer" inkscape:label="legacy">
      <text><tspan>#content#</tspan><tspan>deck*solid</tspan></text>
    </g>
  </g>
</svg>`,
			want: domain.ErrInvalidOpacity,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := loadDoc(t, tc.svg)
			_, err := planner.New(nopLogger{}).Compile(doc, tc.flat)
			require.ErrorIs(t, err, tc.want)
		})
	}
}
