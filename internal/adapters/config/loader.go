// Package config provides the configuration loader for inkdeck.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/inkdeck/internal/core/domain"
	"go.trai.ch/inkdeck/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using an optional YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load returns the effective settings for a build rooted in dir. A missing
// configuration file is not an error; the built-in defaults apply.
func (l *Loader) Load(dir string) (domain.Settings, error) {
	settings := domain.DefaultSettings()

	path := filepath.Join(dir, domain.ConfigFileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return settings, nil
	}
	if err != nil {
		return settings, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	var deckfile Deckfile
	if err := yaml.Unmarshal(data, &deckfile); err != nil {
		return settings, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
	}
	l.Logger.Info(fmt.Sprintf("loaded configuration from %s", path))

	return merge(settings, deckfile)
}

// merge overlays the file's explicitly set fields onto the defaults.
func merge(settings domain.Settings, deckfile Deckfile) (domain.Settings, error) {
	if deckfile.Workers != nil {
		if *deckfile.Workers < 1 {
			return settings, domain.Annotate(domain.ErrConfigParseFailed, "workers", *deckfile.Workers)
		}
		settings.Workers = *deckfile.Workers
	}
	if deckfile.Keep != nil {
		settings.Keep = *deckfile.Keep
	}
	if deckfile.Flat != nil {
		settings.Flat = *deckfile.Flat
	}
	if len(deckfile.Mergers) > 0 {
		settings.Mergers = deckfile.Mergers
	}

	if deckfile.Engine != nil {
		if len(deckfile.Engine.Command) > 0 {
			settings.Engine.Command = deckfile.Engine.Command
		}
		if deckfile.Engine.ReadyTimeout != "" {
			timeout, err := time.ParseDuration(deckfile.Engine.ReadyTimeout)
			if err != nil || timeout <= 0 {
				return settings, domain.Annotate(domain.ErrConfigParseFailed, "readyTimeout", deckfile.Engine.ReadyTimeout)
			}
			settings.Engine.ReadyTimeout = timeout
		}
	}
	return settings, nil
}
