// Package shell is the startup sequence that runs on the worker goroutine:
// the accessibility warning, the asset install and then the engine, whose
// dialog requests are served through the modal bridge until it exits.
package shell

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/druarnfield/splash/internal/assets"
	"github.com/druarnfield/splash/internal/bridge"
	"github.com/druarnfield/splash/internal/config"
	"github.com/druarnfield/splash/internal/engine"
	"github.com/druarnfield/splash/internal/exec"
	"github.com/druarnfield/splash/internal/installer"
	"github.com/druarnfield/splash/internal/pipeline"
	"github.com/druarnfield/splash/internal/platform"
	"github.com/druarnfield/splash/internal/prefs"
)

// Reporter receives progress for display. Calls come from the worker
// goroutine.
type Reporter interface {
	InstallStarted(label, from, to string, total int)
	InstallStep(name, description string)
	InstallStepDone(name, status string)
	InstallProgress(copied, total int)
	EngineStarted(command string)
}

// Deps are the collaborators of a run.
type Deps struct {
	Config   *config.Config
	Source   assets.Source
	Storage  platform.Storage
	Prefs    *prefs.Store
	Bridge   *bridge.Bridge
	Reporter Reporter
	Starter  exec.Starter
	Logger   *slog.Logger

	// CommandExists checks the engine command before launch. Defaults to
	// exec.CommandExists.
	CommandExists func(name string) bool
}

// Options select what a run does.
type Options struct {
	Force       bool
	DryRun      bool
	InstallOnly bool
}

// Result describes a finished run.
type Result struct {
	Outcome        installer.Outcome
	Version        string
	Copied         int
	Total          int
	EngineStarted  bool
	EngineRequests int
}

// ErrEngineNotFound is returned when the engine command is not on PATH.
var ErrEngineNotFound = errors.New("engine command not found")

// Run performs one start of the shell. On an install failure the user is
// shown the reason and Run returns the error without starting the engine.
func Run(ctx context.Context, d Deps, opts Options) (Result, error) {
	var res Result

	if !opts.InstallOnly {
		if err := warnAccessibility(ctx, d); err != nil {
			d.Logger.Warn("recording accessibility answer failed", slog.String("error", err.Error()))
		}
	}

	in := NewInstaller(d, opts)
	in.OnStart(func(st *installer.State) {
		res.Version = st.PackageVersion
		res.Total = st.Total
		d.Reporter.InstallStarted(st.Label(), st.InstalledVersion, st.PackageVersion, st.Total)
	})
	in.OnStep(d.Reporter.InstallStep)
	in.OnStepDone(func(name string, status pipeline.StepStatus) {
		d.Reporter.InstallStepDone(name, status.String())
	})
	in.OnProgress(func(copied, total int) {
		res.Copied = copied
		res.Total = total
		d.Reporter.InstallProgress(copied, total)
	})

	outcome, err := in.Run(ctx)
	res.Outcome = outcome
	if err != nil {
		d.Logger.Error("install failed",
			slog.Int("copied", res.Copied),
			slog.Int("total", res.Total),
			slog.String("error", err.Error()),
		)
		d.Bridge.Acknowledge(ctx, fmt.Sprintf("Installing game data failed:\n%v", err))
		return res, fmt.Errorf("install: %w", err)
	}
	if res.Version == "" {
		if st, err := in.Status(); err == nil {
			res.Version = st.PackageVersion
		}
	}

	if opts.InstallOnly || outcome == installer.OutcomeDryRun {
		return res, nil
	}

	res.EngineStarted, res.EngineRequests, err = runEngine(ctx, d)
	return res, err
}

// NewInstaller builds the installer for the configured package and storage.
func NewInstaller(d Deps, opts Options) *installer.Installer {
	cfg := d.Config
	toggles := make([]installer.Toggle, len(cfg.Settings))
	for i, s := range cfg.Settings {
		label := s.Label
		if label == "" {
			label = s.Key
		}
		toggles[i] = installer.Toggle{Key: s.Key, Label: label, Default: s.Default}
	}

	var chooser installer.Chooser
	if d.Bridge != nil {
		chooser = d.Bridge
	}

	return installer.New(d.Source, d.Storage, d.Prefs, chooser, d.Logger, installer.Options{
		Trees:                    cfg.Install.Trees,
		PreserveFolders:          cfg.Install.PreserveFolders,
		PreserveSubfolderParents: cfg.Install.PreserveSubfolderParents,
		PreserveFiles:            cfg.Install.PreserveFiles,
		Toggles:                  toggles,
		PackageVersion:           cfg.Package.Version,
		Force:                    opts.Force,
		DryRun:                   opts.DryRun,
	})
}

// runEngine starts the engine and serves it until it exits.
func runEngine(ctx context.Context, d Deps) (started bool, served int, err error) {
	cmd := engine.Command{Name: d.Config.Engine.Command, Args: d.Config.Engine.Args}

	exists := d.CommandExists
	if exists == nil {
		exists = exec.CommandExists
	}
	if !exists(cmd.Name) {
		d.Logger.Error("engine command not found", slog.String("command", cmd.Name))
		d.Bridge.Acknowledge(ctx, fmt.Sprintf("The game could not be found (%s).", cmd.Name))
		return false, 0, fmt.Errorf("%w: %s", ErrEngineNotFound, cmd.Name)
	}

	session, err := engine.Start(ctx, d.Starter, cmd, d.Bridge, d.Logger)
	if err != nil {
		d.Bridge.Acknowledge(ctx, fmt.Sprintf("The game failed to start:\n%v", err))
		return false, 0, err
	}
	d.Reporter.EngineStarted(cmd.Name)

	err = session.Serve(ctx)
	return true, session.Served(), err
}
