package domain

import (
	"sort"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

const (
	attrGroupMode = "inkscape:groupmode"
	attrLabel     = "inkscape:label"
	attrStyle     = "style"

	styleDisplay = "display"
	styleOpacity = "opacity"
)

// layerNode is one entry of the document's layer arena. Layers reference
// their parent by arena index; visibility propagation is an upward index
// walk, never a pointer chase through the element tree.
type layerNode struct {
	name     string
	parent   int // arena index, -1 for top-level layers
	children []int
	elem     *etree.Element
	hasRefs  bool // subtree contains <use> elements referencing other nodes
}

// Document is the in-memory model of the input vector document: the parsed
// element tree plus an arena of its named layer nodes.
//
// The canonical document is built once per run and, after HideAll, never
// mutated again; every slide works on an independent Clone.
type Document struct {
	tree   *etree.Document
	nodes  []layerNode
	byName map[string]int
	top    []int
}

// NewDocument builds the layer arena for a parsed element tree.
func NewDocument(tree *etree.Document) (*Document, error) {
	root := tree.Root()
	if root == nil {
		return nil, ErrDocumentEmpty
	}

	d := &Document{
		tree:   tree,
		byName: make(map[string]int),
	}
	for _, el := range root.ChildElements() {
		if isLayer(el) {
			d.top = append(d.top, d.index(el, -1))
		}
	}
	return d, nil
}

// index recursively adds a layer element and its descendant layers to the arena.
func (d *Document) index(el *etree.Element, parent int) int {
	idx := len(d.nodes)
	d.nodes = append(d.nodes, layerNode{
		name:    layerName(el),
		parent:  parent,
		elem:    el,
		hasRefs: subtreeHasUse(el),
	})
	d.byName[d.nodes[idx].name] = idx

	for _, child := range el.ChildElements() {
		if isLayer(child) {
			ci := d.index(child, idx)
			d.nodes[idx].children = append(d.nodes[idx].children, ci)
		}
	}
	return idx
}

// Clone returns an independent deep copy of the document with a freshly
// built arena. Mutating the clone never affects the receiver.
func (d *Document) Clone() *Document {
	clone, err := NewDocument(d.tree.Copy())
	if err != nil {
		// The receiver had a root element, so the copy has one too.
		panic(err)
	}
	return clone
}

// TopLevelLayers returns the arena indices of the top-level layers in document order.
func (d *Document) TopLevelLayers() []int { return d.top }

// ChildLayers returns the arena indices of a layer's immediate child layers in document order.
func (d *Document) ChildLayers(i int) []int { return d.nodes[i].children }

// LayerName returns the name of the layer at the given arena index.
func (d *Document) LayerName(i int) string { return d.nodes[i].name }

// HasLayer reports whether a layer with the given name exists anywhere in the document.
func (d *Document) HasLayer(name string) bool {
	_, ok := d.byName[name]
	return ok
}

// LayerHasEmbeddedRefs reports whether the named layer contains elements that
// reference other nodes by id. Frames showing such a layer must not be pruned.
func (d *Document) LayerHasEmbeddedRefs(name string) bool {
	i, ok := d.byName[name]
	if !ok {
		return false
	}
	return d.nodes[i].hasRefs
}

// Visible reports whether the layer at the given arena index is currently shown.
func (d *Document) Visible(i int) bool {
	return styleMap(d.nodes[i].elem)[styleDisplay] != "none"
}

// Opacity returns the layer's current opacity, defaulting to 1 when unset.
func (d *Document) Opacity(i int) float64 {
	v, ok := styleMap(d.nodes[i].elem)[styleOpacity]
	if !ok {
		return DefaultOpacity
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return DefaultOpacity
	}
	return f
}

// HideAll sets every layer to hidden with opacity 1. It is the single global
// mutation of the canonical document, applied before any slide is materialized.
func (d *Document) HideAll() {
	for i := range d.nodes {
		setStyles(d.nodes[i].elem, map[string]string{
			styleDisplay: "none",
			styleOpacity: "1",
		})
	}
}

// Show makes the named layer visible at the given opacity and propagates
// visibility up the ancestor chain: a nested layer stays invisible unless
// every enclosing layer is shown as well. Ancestors take the same opacity;
// when several leaves under one ancestor disagree, the last writer wins.
func (d *Document) Show(name string, opacity float64) error {
	i, ok := d.byName[name]
	if !ok {
		return Annotate(ErrLayerNotFound, "layer", name)
	}
	for ; i >= 0; i = d.nodes[i].parent {
		setStyles(d.nodes[i].elem, map[string]string{
			styleDisplay: "inline",
			styleOpacity: strconv.FormatFloat(opacity, 'g', -1, 64),
		})
	}
	return nil
}

// PruneHidden removes all hidden top-level layers and editor-only metadata
// from the element tree. The arena is not rebuilt: a pruned document is only
// serialized afterwards.
func (d *Document) PruneHidden() {
	root := d.tree.Root()
	for _, i := range d.top {
		if !d.Visible(i) {
			root.RemoveChild(d.nodes[i].elem)
		}
	}
	for _, meta := range collectElements(root, func(el *etree.Element) bool {
		return el.Space == "sodipodi" && el.Tag == "namedview"
	}) {
		if p := meta.Parent(); p != nil {
			p.RemoveChild(meta)
		}
	}
}

// SubstituteNumbering replaces text spans that consist exactly of the
// numbering tokens with the slide and frame numbers.
func (d *Document) SubstituteNumbering(slideNum, frameNum int) {
	for _, span := range collectElements(d.tree.Root(), func(el *etree.Element) bool {
		return el.Tag == "tspan"
	}) {
		switch span.Text() {
		case TokenSlideNum:
			span.SetText(strconv.Itoa(slideNum))
		case TokenFrameNum:
			span.SetText(strconv.Itoa(frameNum))
		}
	}
}

// MasterLines returns the lines following a #master# marker in any text
// element of the document, or nil if no marker exists.
func (d *Document) MasterLines() []string {
	for _, text := range collectElements(d.tree.Root(), func(el *etree.Element) bool {
		return el.Tag == "text"
	}) {
		if lines, ok := directiveLines(text, TokenMaster); ok {
			return lines
		}
	}
	return nil
}

// ImportLines returns the lines following a #import# marker in a text element
// directly under the layer at the given arena index, or nil.
func (d *Document) ImportLines(i int) []string {
	lines, _ := layerDirective(d.nodes[i].elem, TokenImport)
	return lines
}

// ContentLines returns the lines following a #content# marker in a text
// element directly under the layer, signalling the legacy line grammar.
func (d *Document) ContentLines(i int) ([]string, bool) {
	return layerDirective(d.nodes[i].elem, TokenContent)
}

// Bytes serializes the document. Serialization preserves element and
// attribute order, so identical models yield identical bytes.
func (d *Document) Bytes() ([]byte, error) {
	return d.tree.WriteToBytes()
}

func layerDirective(layer *etree.Element, token string) ([]string, bool) {
	for _, child := range layer.ChildElements() {
		if child.Tag != "text" {
			continue
		}
		if lines, ok := directiveLines(child, token); ok {
			return lines, true
		}
	}
	return nil, false
}

// directiveLines reads a text element as a block of lines (its tspan
// children) and returns the lines after the marker if the first line is the
// given token.
func directiveLines(text *etree.Element, token string) ([]string, bool) {
	var lines []string
	for _, span := range text.ChildElements() {
		if span.Tag == "tspan" {
			lines = append(lines, strings.TrimSpace(span.Text()))
		}
	}
	if len(lines) == 0 || !strings.HasPrefix(lines[0], token) {
		return nil, false
	}
	out := make([]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		if line != "" {
			out = append(out, line)
		}
	}
	return out, true
}

func isLayer(el *etree.Element) bool {
	return el.Tag == "g" && el.SelectAttrValue(attrGroupMode, "") == "layer"
}

func layerName(el *etree.Element) string {
	if label := el.SelectAttrValue(attrLabel, ""); label != "" {
		return label
	}
	return el.SelectAttrValue("id", "")
}

func subtreeHasUse(el *etree.Element) bool {
	if el.Tag == "use" {
		return true
	}
	for _, child := range el.ChildElements() {
		if subtreeHasUse(child) {
			return true
		}
	}
	return false
}

// collectElements walks the subtree in document order and returns all
// elements matching the predicate.
func collectElements(el *etree.Element, match func(*etree.Element) bool) []*etree.Element {
	var out []*etree.Element
	if match(el) {
		out = append(out, el)
	}
	for _, child := range el.ChildElements() {
		out = append(out, collectElements(child, match)...)
	}
	return out
}

// styleMap parses the element's style attribute into a key/value map.
func styleMap(el *etree.Element) map[string]string {
	styles := make(map[string]string)
	raw := el.SelectAttrValue(attrStyle, "")
	if raw == "" {
		return styles
	}
	for _, item := range strings.Split(raw, ";") {
		if k, v, ok := strings.Cut(item, ":"); ok {
			styles[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
	}
	return styles
}

// setStyles merges the given properties into the element's style attribute.
// Keys are written in sorted order to keep serialization deterministic.
func setStyles(el *etree.Element, set map[string]string) {
	styles := styleMap(el)
	for k, v := range set {
		styles[k] = v
	}
	keys := make([]string, 0, len(styles))
	for k := range styles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+":"+styles[k])
	}
	el.CreateAttr(attrStyle, strings.Join(parts, ";"))
}
