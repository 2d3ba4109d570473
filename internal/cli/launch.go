package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/druarnfield/splash/internal/bridge"
	"github.com/druarnfield/splash/internal/exec"
	"github.com/druarnfield/splash/internal/installer"
	"github.com/druarnfield/splash/internal/shell"
	"github.com/druarnfield/splash/internal/tui/console"
	"github.com/druarnfield/splash/internal/tui/launcher"
	"github.com/spf13/cobra"
)

// ErrInterrupted is returned when the user quits the UI before the run ends.
var ErrInterrupted = errors.New("interrupted")

type launchOptions struct {
	installOnly bool
	force       bool
	dryRun      bool
}

func runShell(cmd *cobra.Command, opts launchOptions) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shellOpts := shell.Options{
		Force:       opts.force,
		DryRun:      opts.dryRun,
		InstallOnly: opts.installOnly,
	}

	if useTUI(cmd.OutOrStdout()) {
		return runTUI(ctx, a, shellOpts)
	}
	return runConsole(ctx, a, shellOpts, cmd.InOrStdin(), cmd.OutOrStdout())
}

func (a *app) deps(tk bridge.Toolkit, reporter shell.Reporter, stderr io.Writer) shell.Deps {
	return shell.Deps{
		Config:   a.cfg,
		Source:   a.source,
		Storage:  a.storage,
		Prefs:    a.prefs,
		Bridge:   bridge.New(tk, a.logger),
		Reporter: reporter,
		Starter:  &exec.DefaultStarter{Stderr: stderr},
		Logger:   a.logger,
	}
}

func runTUI(ctx context.Context, a *app, opts shell.Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	host := launcher.NewHost()
	// Engine stderr is discarded so it cannot draw over the full-screen view.
	d := a.deps(host, host, nil)

	go func() {
		res, err := shell.Run(ctx, d, opts)
		host.Finish(summaryOf(res), err)
	}()

	p := tea.NewProgram(launcher.New(host, opts.InstallOnly), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("running UI: %w", err)
	}

	m, ok := final.(launcher.Model)
	if !ok || !m.Finished() {
		a.logger.Warn("run interrupted before it finished")
		return ErrInterrupted
	}
	return m.Err()
}

func runConsole(ctx context.Context, a *app, opts shell.Options, in io.Reader, out io.Writer) error {
	c := console.New(in, out)
	d := a.deps(c, c, os.Stderr)

	var (
		res    shell.Result
		runErr error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		res, runErr = shell.Run(ctx, d, opts)
	}()

	c.Loop(ctx, done)

	select {
	case <-done:
	default:
		a.logger.Warn("run interrupted before it finished")
		return ErrInterrupted
	}

	printSummary(out, res, runErr)
	return runErr
}

func summaryOf(res shell.Result) launcher.Summary {
	return launcher.Summary{
		Outcome:        res.Outcome,
		Version:        res.Version,
		Copied:         res.Copied,
		Total:          res.Total,
		EngineRequests: res.EngineRequests,
	}
}

func printSummary(w io.Writer, res shell.Result, err error) {
	fmt.Fprintln(w)
	if err != nil {
		fmt.Fprintf(w, "Failed: %v\n", err)
		if res.Total > 0 {
			fmt.Fprintf(w, "%d of %d files were copied.\n", res.Copied, res.Total)
		}
		return
	}

	switch res.Outcome {
	case installer.OutcomeSkip:
		fmt.Fprintf(w, "Game data is up to date (%s).\n", res.Version)
	case installer.OutcomeDryRun:
		fmt.Fprintln(w, "Dry run complete. No changes were made.")
	case installer.OutcomeDone:
		fmt.Fprintf(w, "Installed %s (%d files).\n", res.Version, res.Copied)
	}
	if res.EngineStarted {
		fmt.Fprintf(w, "%d dialogs answered for the game.\n", res.EngineRequests)
	}
}
