package domain

import (
	"runtime"
	"time"
)

// EngineSettings describes how render engine processes are spawned and supervised.
type EngineSettings struct {
	// Command is the engine invocation, e.g. ["inkscape", "--shell"].
	Command []string

	// ReadyTimeout bounds the wait for the engine's ready sentinel.
	// EOF or timeout aborts the run instead of hanging.
	ReadyTimeout time.Duration
}

// Settings are the effective build settings, assembled from defaults, the
// optional inkdeck.yaml next to the document, and CLI flags (in that order).
type Settings struct {
	Workers int
	Keep    bool
	Flat    bool
	Engine  EngineSettings

	// Mergers is the priority-ordered list of merge backend names to probe.
	Mergers []string
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		Workers: runtime.NumCPU(),
		Engine: EngineSettings{
			Command:      []string{"inkscape", "--shell"},
			ReadyTimeout: 2 * time.Minute,
		},
		Mergers: []string{"pdfcpu", "pdfunite", "gs"},
	}
}
