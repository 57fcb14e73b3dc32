// Package domain contains the core types of the slide build pipeline.
package domain

// DefaultOpacity is applied to layer references that carry no explicit opacity.
const DefaultOpacity = 1.0

// LayerRef references a named layer together with the opacity it should be shown at.
type LayerRef struct {
	Name    string
	Opacity float64
}

// SlidePlanEntry describes one frame of the compiled slide plan.
//
// GroupIndex is 1-based and shared by all frames that belong to the same
// logical slide (a build-up sequence). FrameIndex is 0-based, strictly
// increasing and contiguous across the whole plan; it keys the intermediate
// and artifact file names.
type SlidePlanEntry struct {
	GroupIndex int
	FrameIndex int
	Layers     []LayerRef
}

// HasLayer reports whether the entry's layer list contains the given name.
func (e SlidePlanEntry) HasLayer(name string) bool {
	for _, ref := range e.Layers {
		if ref.Name == name {
			return true
		}
	}
	return false
}
