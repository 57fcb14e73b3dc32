// Package planner compiles the document's layer tree into the ordered slide plan.
package planner

import (
	"fmt"
	"strconv"
	"strings"

	"go.trai.ch/inkdeck/internal/core/domain"
	"go.trai.ch/inkdeck/internal/core/ports"
	"go.trai.ch/zerr"
)

// Planner walks the document model and produces the ordered slide plan.
type Planner struct {
	logger ports.Logger
}

// New creates a new Planner.
func New(logger ports.Logger) *Planner {
	return &Planner{logger: logger}
}

// Compile produces the slide plan for the document.
//
// In flat mode every top-level layer is one frame. In structured mode
// top-level layers are groups, their children are slides, and a slide's own
// children become build-up frames that accumulate all layers seen so far.
// Master and import directives are expanded into every frame's layer list.
func (p *Planner) Compile(doc *domain.Document, flat bool) ([]domain.SlidePlanEntry, error) {
	master := doc.MasterLines()

	var (
		plan []domain.SlidePlanEntry
		err  error
	)
	if flat {
		plan, err = compileFlat(doc, master)
	} else {
		plan, err = compileStructured(doc, master)
	}
	if err != nil {
		return nil, err
	}
	if len(plan) == 0 {
		return nil, domain.ErrNoSlides
	}
	if err := validate(doc, plan); err != nil {
		return nil, err
	}

	p.logger.Info(fmt.Sprintf("compiled %d frames across %d slides", len(plan), plan[len(plan)-1].GroupIndex))
	return plan, nil
}

func compileFlat(doc *domain.Document, master []string) ([]domain.SlidePlanEntry, error) {
	var plan []domain.SlidePlanEntry
	for _, gi := range doc.TopLevelLayers() {
		layers := []domain.LayerRef{{Name: doc.LayerName(gi), Opacity: domain.DefaultOpacity}}
		layers, err := expandDirectives(layers, master, doc.ImportLines(gi))
		if err != nil {
			return nil, zerr.With(err, "slide", doc.LayerName(gi))
		}
		plan = append(plan, domain.SlidePlanEntry{
			GroupIndex: len(plan) + 1,
			FrameIndex: len(plan),
			Layers:     layers,
		})
	}
	return plan, nil
}

func compileStructured(doc *domain.Document, master []string) ([]domain.SlidePlanEntry, error) {
	var plan []domain.SlidePlanEntry
	frame, slide := 0, 0

	emit := func(layers []domain.LayerRef) {
		plan = append(plan, domain.SlidePlanEntry{
			GroupIndex: slide,
			FrameIndex: frame,
			Layers:     layers,
		})
		frame++
	}

	for _, gi := range doc.TopLevelLayers() {
		group := doc.LayerName(gi)

		for _, si := range doc.ChildLayers(gi) {
			slide++

			if lines, ok := doc.ContentLines(si); ok {
				if err := compileContent(doc, si, group, master, lines, emit); err != nil {
					return nil, zerr.With(err, "slide", doc.LayerName(si))
				}
				continue
			}

			base := []domain.LayerRef{
				{Name: group, Opacity: domain.DefaultOpacity},
				{Name: doc.LayerName(si), Opacity: domain.DefaultOpacity},
			}
			slideImports := doc.ImportLines(si)

			subs := doc.ChildLayers(si)
			if len(subs) == 0 {
				layers, err := expandDirectives(cloneRefs(base), master, slideImports)
				if err != nil {
					return nil, zerr.With(err, "slide", doc.LayerName(si))
				}
				emit(layers)
				continue
			}

			// Build-up: frame k shows group + slide + sub-frames 1..k.
			acc := cloneRefs(base)
			for _, fi := range subs {
				acc = append(acc, domain.LayerRef{Name: doc.LayerName(fi), Opacity: domain.DefaultOpacity})

				layers, err := expandDirectives(cloneRefs(acc), master, slideImports)
				if err == nil {
					layers, err = applyImports(layers, doc.ImportLines(fi))
				}
				if err != nil {
					return nil, zerr.With(err, "frame", doc.LayerName(fi))
				}
				emit(layers)
			}
		}
	}
	return plan, nil
}

// compileContent expands the legacy line grammar of a #content# slide: each
// line is one frame, a leading "+" starts from the previous frame's layers.
func compileContent(
	doc *domain.Document,
	si int,
	group string,
	master []string,
	lines []string,
	emit func([]domain.LayerRef),
) error {
	slideImports := doc.ImportLines(si)

	var prev []domain.LayerRef
	for _, line := range lines {
		refs, err := parseContentLine(line, prev)
		if err != nil {
			return err
		}
		prev = refs

		layers := append([]domain.LayerRef{{Name: group, Opacity: domain.DefaultOpacity}}, cloneRefs(refs)...)
		layers, err = expandDirectives(layers, master, slideImports)
		if err != nil {
			return err
		}
		emit(layers)
	}
	return nil
}

// expandDirectives applies master injection and then the import directive,
// in that order, to one frame's layer list.
func expandDirectives(layers []domain.LayerRef, master, imports []string) ([]domain.LayerRef, error) {
	for _, line := range master {
		ref, err := parseLayerRef(line)
		if err != nil {
			return nil, err
		}
		layers = append(layers, ref)
	}
	return applyImports(layers, imports)
}

// applyImports processes import lines in listed order: bare names append, a
// leading "-" removes every occurrence of the name.
func applyImports(layers []domain.LayerRef, imports []string) ([]domain.LayerRef, error) {
	for _, line := range imports {
		if name, ok := strings.CutPrefix(line, "-"); ok {
			kept := layers[:0]
			removed := false
			for _, ref := range layers {
				if ref.Name == name {
					removed = true
					continue
				}
				kept = append(kept, ref)
			}
			if !removed {
				return nil, domain.Annotate(domain.ErrImportRemoveMissing, "layer", name)
			}
			layers = kept
			continue
		}

		ref, err := parseLayerRef(line)
		if err != nil {
			return nil, err
		}
		layers = append(layers, ref)
	}
	return layers, nil
}

// parseContentLine parses one legacy grammar line, e.g. "a, b*0.5" or "+c".
func parseContentLine(line string, prev []domain.LayerRef) ([]domain.LayerRef, error) {
	var refs []domain.LayerRef
	if rest, ok := strings.CutPrefix(line, "+"); ok {
		refs = cloneRefs(prev)
		line = rest
	}
	for _, part := range strings.Split(line, ",") {
		ref, err := parseLayerRef(part)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// parseLayerRef parses "name" or "name*opacity".
func parseLayerRef(s string) (domain.LayerRef, error) {
	name, op, found := strings.Cut(strings.TrimSpace(s), "*")
	name = strings.TrimSpace(name)
	if !found {
		return domain.LayerRef{Name: name, Opacity: domain.DefaultOpacity}, nil
	}

	opacity, err := strconv.ParseFloat(strings.TrimSpace(op), 64)
	if err != nil || opacity < 0 || opacity > 1 {
		return domain.LayerRef{}, domain.Annotate(domain.ErrInvalidOpacity, "value", s)
	}
	return domain.LayerRef{Name: name, Opacity: opacity}, nil
}

// validate ensures every referenced layer resolves in the document. This is
// checked eagerly, before any rendering work begins.
func validate(doc *domain.Document, plan []domain.SlidePlanEntry) error {
	for _, entry := range plan {
		for _, ref := range entry.Layers {
			if !doc.HasLayer(ref.Name) {
				return zerr.With(domain.Annotate(domain.ErrLayerNotFound, "layer", ref.Name), "frame", entry.FrameIndex)
			}
		}
	}
	return nil
}

func cloneRefs(refs []domain.LayerRef) []domain.LayerRef {
	out := make([]domain.LayerRef, len(refs))
	copy(out, refs)
	return out
}
