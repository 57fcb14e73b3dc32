package ports

import "go.trai.ch/inkdeck/internal/core/domain"

// ConfigLoader assembles the effective build settings.
type ConfigLoader interface {
	// Load reads the optional project configuration file from the given
	// directory, merged over the built-in defaults.
	Load(dir string) (domain.Settings, error)
}
