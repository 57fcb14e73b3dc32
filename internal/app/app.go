// Package app implements the application layer for inkdeck.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/inkdeck/internal/adapters/watcher"
	"go.trai.ch/inkdeck/internal/core/domain"
	"go.trai.ch/inkdeck/internal/core/ports"
	"go.trai.ch/inkdeck/internal/engine/materializer"
	"go.trai.ch/inkdeck/internal/engine/planner"
	"go.trai.ch/inkdeck/internal/engine/pool"
	"go.trai.ch/zerr"
)

// debounceWindow coalesces editor save bursts into one rebuild.
const debounceWindow = 300 * time.Millisecond

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	loader       ports.DocumentLoader
	workspace    ports.Workspace
	engine       ports.Engine
	mergers      ports.MergerFinder
	watcher      ports.Watcher
	reporter     ports.Reporter
	logger       ports.Logger
}

// New creates a new App instance.
func New(
	configLoader ports.ConfigLoader,
	loader ports.DocumentLoader,
	workspace ports.Workspace,
	engine ports.Engine,
	mergers ports.MergerFinder,
	watch ports.Watcher,
	reporter ports.Reporter,
	log ports.Logger,
) *App {
	return &App{
		configLoader: configLoader,
		loader:       loader,
		workspace:    workspace,
		engine:       engine,
		mergers:      mergers,
		watcher:      watch,
		reporter:     reporter,
		logger:       log,
	}
}

// RunOptions configures a single build. Nil fields keep the value from the
// configuration file (or the built-in default); set fields win.
type RunOptions struct {
	Keep    *bool
	Flat    *bool
	Workers *int
	Output  string
}

// Run builds the output document for the given input.
//
// The stages run strictly in order: parse, compile the plan, probe for a
// merge backend, materialize frames, render the cache misses, merge. The
// backend probe happens before any rendering so a host without one fails
// before minutes of render work, not after.
func (a *App) Run(ctx context.Context, input string, opts RunOptions) error {
	settings, err := a.effectiveSettings(input, opts)
	if err != nil {
		return err
	}
	output := opts.Output
	if output == "" {
		output = domain.OutputFor(input)
	}

	a.reporter.Parsing(input)
	doc, err := a.loader.Load(input)
	if err != nil {
		return err
	}

	plan, err := planner.New(a.logger).Compile(doc, settings.Flat)
	if err != nil {
		return err
	}

	dir, cleanup, err := a.workspace.Create(input, settings.Keep)
	if err != nil {
		return err
	}
	defer cleanup()

	merger, err := a.mergers.Find(ctx, settings.Mergers)
	if err != nil {
		return err
	}

	a.reporter.Materializing(len(plan))
	jobs, err := materializer.New(a.logger).Materialize(doc, plan, dir)
	if err != nil {
		return err
	}

	artifacts, misses := domain.SplitJobs(jobs)
	if len(misses) == 0 {
		if _, err := os.Stat(output); err == nil {
			a.reporter.UpToDate()
			return nil
		}
	}

	for _, job := range jobs {
		if job.CacheHit {
			a.reporter.Skipped(job.TargetPath)
		}
	}

	if len(misses) > 0 {
		a.reporter.Rendering(len(misses), min(settings.Workers, len(misses)))
		err := pool.New(a.engine, a.logger).Run(ctx, misses, settings, func(job domain.RenderJob) {
			a.reporter.Converted(job.TargetPath)
		})
		if err != nil {
			return errors.Join(domain.ErrBuildFailed, err)
		}
	}

	a.reporter.Merging(merger.Name())
	if err := merger.Merge(ctx, artifacts, output); err != nil {
		return errors.Join(domain.ErrBuildFailed, err)
	}

	a.reporter.Done(output)
	return nil
}

// Watch rebuilds the document on every content change until the context is
// cancelled. Build failures are logged and watching continues; a broken
// intermediate save must not end the session.
func (a *App) Watch(ctx context.Context, input string, opts RunOptions) error {
	abs, err := filepath.Abs(input)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "resolving input path"), "input", input)
	}

	if err := a.Run(ctx, input, opts); err != nil {
		a.logger.Error(err)
	}
	fingerprint, _ := watcher.Fingerprint(input)

	if err := a.watcher.Start(ctx, input); err != nil {
		return zerr.Wrap(err, "starting file watcher")
	}
	defer func() {
		if err := a.watcher.Stop(); err != nil {
			a.logger.Error(zerr.Wrap(err, "stopping file watcher"))
		}
	}()

	rebuilds := make(chan struct{}, 1)
	debouncer := watcher.NewDebouncer(debounceWindow, func([]string) {
		select {
		case rebuilds <- struct{}{}:
		default:
		}
	})

	go func() {
		for event := range a.watcher.Events() {
			if path, err := filepath.Abs(event.Path); err != nil || path != abs {
				continue
			}
			if event.Operation == ports.OpRemove {
				continue
			}
			debouncer.Add(event.Path)
		}
	}()

	a.logger.Info(fmt.Sprintf("watching %s", input))
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-rebuilds:
			fp, err := watcher.Fingerprint(input)
			if err == nil && fp == fingerprint {
				continue
			}
			fingerprint = fp

			a.logger.Info("change detected, rebuilding")
			if err := a.Run(ctx, input, opts); err != nil {
				a.logger.Error(err)
			}
		}
	}
}

// Clean removes the persistent work directory of the input document.
func (a *App) Clean(_ context.Context, input string) error {
	return a.workspace.Clean(input)
}

// effectiveSettings merges defaults, the optional configuration file next to
// the document, and the explicitly set options, in that order.
func (a *App) effectiveSettings(input string, opts RunOptions) (domain.Settings, error) {
	settings, err := a.configLoader.Load(filepath.Dir(input))
	if err != nil {
		return settings, err
	}

	if opts.Keep != nil {
		settings.Keep = *opts.Keep
	}
	if opts.Flat != nil {
		settings.Flat = *opts.Flat
	}
	if opts.Workers != nil {
		if *opts.Workers < 1 {
			return settings, domain.Annotate(domain.ErrConfigParseFailed, "workers", *opts.Workers)
		}
		settings.Workers = *opts.Workers
	}
	return settings, nil
}
