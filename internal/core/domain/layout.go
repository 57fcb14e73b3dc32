package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// WorkDirPrefix is the prefix of the persistent per-document work directory.
	WorkDirPrefix = ".inkdeck-"

	// ConfigFileName is the name of the optional project configuration file.
	ConfigFileName = "inkdeck.yaml"

	// TokenMaster marks a text block whose following lines are injected into every frame.
	TokenMaster = "#master#"

	// TokenImport marks a text block whose following lines add or remove layers for a slide.
	TokenImport = "#import#"

	// TokenContent marks a slide whose frames are described by the legacy line grammar.
	TokenContent = "#content#"

	// TokenSlideNum is replaced with the 1-based slide number during materialization.
	TokenSlideNum = "#num#"

	// TokenFrameNum is replaced with the 0-based frame index during materialization.
	TokenFrameNum = "#frame_num#"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// WorkDirFor returns the persistent work directory for the given input document.
// It lives next to the document and is keyed by the document's basename.
func WorkDirFor(input string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(filepath.Dir(input), WorkDirPrefix+base)
}

// OutputFor returns the default output path for the given input document.
func OutputFor(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".pdf"
}

// SlideSourceName returns the file name of the materialized slide document for a frame.
func SlideSourceName(frame int) string {
	return fmt.Sprintf("slide-%d.svg", frame)
}

// SlideTargetName returns the file name of the rendered page artifact for a frame.
func SlideTargetName(frame int) string {
	return fmt.Sprintf("slide-%d.pdf", frame)
}
