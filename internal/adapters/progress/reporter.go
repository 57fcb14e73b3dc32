// Package progress provides a synchronous, line-oriented build reporter.
package progress

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/inkdeck/internal/ui/output"
	"go.trai.ch/inkdeck/internal/ui/style"
)

// Reporter implements ports.Reporter with chronological, line-buffered
// output. Workers report completions concurrently; a mutex serializes writes
// and the completion counter.
type Reporter struct {
	out *termenv.Output

	mu    sync.Mutex
	total int
	done  int
}

// NewReporter creates a Reporter writing to the given writer.
func NewReporter(w io.Writer) *Reporter {
	if w == nil {
		w = os.Stderr
	}
	return &Reporter{out: output.New(w)}
}

// Parsing announces the parse stage.
func (r *Reporter) Parsing(input string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.println(fmt.Sprintf("Parsing %s", input), style.Slate)
}

// Materializing announces the materialization stage and fixes the frame
// total that later percentages are computed against.
func (r *Reporter) Materializing(frames int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.total = frames
	r.done = 0
	r.println(fmt.Sprintf("Materializing %d frames", frames), style.Slate)
}

// Rendering announces the render stage.
func (r *Reporter) Rendering(jobs, workers int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.println(fmt.Sprintf("Rendering %d frames on %d workers", jobs, workers), style.Slate)
}

// Skipped reports a frame served from the cache.
func (r *Reporter) Skipped(target string) {
	r.frameDone(style.Tilde, "Skipped", target, style.Slate)
}

// Converted reports a freshly rendered frame.
func (r *Reporter) Converted(target string) {
	r.frameDone(style.Check, "Converted", target, style.Green)
}

// Merging announces the merge stage and the chosen backend.
func (r *Reporter) Merging(tool string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.println(fmt.Sprintf("Merging with %s", tool), style.Slate)
}

// UpToDate reports that no work was needed.
func (r *Reporter) UpToDate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.println(style.Check+" Everything up to date", style.Green)
}

// Done reports the finished output document.
func (r *Reporter) Done(out string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.println(style.Check+" Wrote "+out, style.Green)
}

func (r *Reporter) frameDone(icon, verb, target string, color lipgloss.Color) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.done++
	line := fmt.Sprintf("%s %s %s", icon, verb, filepath.Base(target))
	if r.total > 0 {
		line += fmt.Sprintf(" (%d%%)", r.done*100/r.total)
	}
	r.println(line, color)
}

func (r *Reporter) println(msg string, color lipgloss.Color) {
	styled := r.out.String(msg).Foreground(termenv.RGBColor(string(color)))
	_, _ = r.out.WriteString(styled.String() + "\n")
}
