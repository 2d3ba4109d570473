// Package installer copies the game data bundled with the application
// package into writable storage, once per package version.
//
// A run goes Decide, CountTotal, Purge, Copy, Finalize. Purge, Copy and
// Finalize are steps of a pipeline so they can be described with a dry run.
// A failure anywhere stops the run and leaves storage as it is; the
// installed-version marker only moves once every file has been copied.
package installer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/druarnfield/splash/internal/assets"
	"github.com/druarnfield/splash/internal/pipeline"
	"github.com/druarnfield/splash/internal/platform"
	"github.com/druarnfield/splash/internal/prefs"
)

// SettingsTitle is the title of the settings checklist shown after an install.
const SettingsTitle = "Settings"

// Chooser asks the user which toggles to enable.
type Chooser interface {
	ChooseToggles(ctx context.Context, title string, labels []string, defaults []bool) []bool
}

// ProgressFunc is called after each copied file.
type ProgressFunc func(copied, total int)

// Options configure an Installer.
type Options struct {
	// Trees are the top-level package directories to install.
	Trees []string

	PreserveFolders          []string
	PreserveSubfolderParents []string
	PreserveFiles            []string

	// Toggles are offered to the user after a successful install.
	Toggles []Toggle

	// PackageVersion overrides the version read from the package.
	PackageVersion string

	// Force installs even when the marker matches the package version.
	Force bool

	// DryRun describes the Purge, Copy and Finalize steps without running them.
	DryRun bool
}

// Installer runs the install flow.
type Installer struct {
	src     assets.Source
	dst     platform.Storage
	prefs   *prefs.Store
	chooser Chooser
	logger  *slog.Logger
	opts    Options
	runner  *pipeline.Runner

	onStart    func(st *State)
	onProgress ProgressFunc
}

// New creates an Installer reading from src and writing to dst. The marker
// and the chosen toggles are kept in store. chooser may be nil, in which case
// toggles keep their defaults.
func New(src assets.Source, dst platform.Storage, store *prefs.Store, chooser Chooser, logger *slog.Logger, opts Options) *Installer {
	return &Installer{
		src:     src,
		dst:     dst,
		prefs:   store,
		chooser: chooser,
		logger:  logger,
		opts:    opts,
		runner:  pipeline.NewRunner(logger, opts.DryRun),
	}
}

// OnStart registers a callback invoked once the run knows it has work to
// do, after the total file count is known.
func (in *Installer) OnStart(fn func(st *State)) {
	in.onStart = fn
}

// OnProgress registers the per-file progress callback.
func (in *Installer) OnProgress(fn ProgressFunc) {
	in.onProgress = fn
}

// OnStep registers a callback invoked before each pipeline step.
func (in *Installer) OnStep(fn func(name, description string)) {
	if fn == nil {
		in.runner.OnStart(nil)
		return
	}
	in.runner.OnStart(func(step *pipeline.Step, _, _ int) {
		fn(step.Name, step.Description)
	})
}

// OnStepDone registers a callback invoked after each pipeline step,
// including the one that failed.
func (in *Installer) OnStepDone(fn func(name string, status pipeline.StepStatus)) {
	if fn == nil {
		in.runner.OnFinish(nil)
		return
	}
	in.runner.OnFinish(func(step *pipeline.Step, status pipeline.StepStatus, _ error) {
		fn(step.Name, status)
	})
}

// Status describes the installed and packaged versions without changing anything.
type Status struct {
	InstalledVersion string
	PackageVersion   string
	UpToDate         bool
}

// Status reads the marker and the package version.
func (in *Installer) Status() (Status, error) {
	pkgVersion, err := in.packageVersion()
	if err != nil {
		return Status{}, err
	}
	installed := in.prefs.InstalledVersion()
	return Status{
		InstalledVersion: installed,
		PackageVersion:   pkgVersion,
		UpToDate:         installed == pkgVersion,
	}, nil
}

// Run performs one install flow. The returned error is set only for
// OutcomeFailed and is a *PackageReadError, a *StorageWriteError or a prefs
// failure.
func (in *Installer) Run(ctx context.Context) (Outcome, error) {
	st, err := in.decide()
	if err != nil {
		return OutcomeFailed, err
	}
	if st == nil {
		return OutcomeSkip, nil
	}

	if err := in.countTotal(st); err != nil {
		in.logger.Error("counting package files failed", slog.String("error", err.Error()))
		return OutcomeFailed, err
	}
	in.logger.Info("install starting",
		slog.String("label", st.Label()),
		slog.String("from", st.InstalledVersion),
		slog.String("to", st.PackageVersion),
		slog.Int("files", st.Total),
	)
	if in.onStart != nil {
		in.onStart(st)
	}

	p := in.installPipeline(st)
	result := in.runner.Run(ctx, p)
	if result.Err != nil {
		in.logger.Error("install failed",
			slog.String("step", result.FailedStep),
			slog.Int("copied", st.Copied),
			slog.Int("total", st.Total),
		)
		return OutcomeFailed, unwrapStep(result.Err)
	}
	if in.runner.DryRun() {
		return OutcomeDryRun, nil
	}

	in.logger.Info("install finished",
		slog.String("version", st.PackageVersion),
		slog.Int("copied", st.Copied),
		slog.Int("steps_skipped", result.Count(pipeline.StepUpToDate)),
	)
	return OutcomeDone, nil
}

// decide returns nil when the run should be skipped.
func (in *Installer) decide() (*State, error) {
	pkgVersion, err := in.packageVersion()
	if err != nil {
		return nil, err
	}
	installed := in.prefs.InstalledVersion()

	if installed == pkgVersion && !in.opts.Force {
		in.logger.Info("installed version is current, skipping install",
			slog.String("version", installed),
		)
		return nil, nil
	}

	return &State{
		InstalledVersion:         installed,
		PackageVersion:           pkgVersion,
		preserveFolders:          newSet(in.opts.PreserveFolders),
		preserveSubfolderParents: newSet(in.opts.PreserveSubfolderParents),
		preserveFiles:            newSet(in.opts.PreserveFiles),
	}, nil
}

func (in *Installer) packageVersion() (string, error) {
	if in.opts.PackageVersion != "" {
		return in.opts.PackageVersion, nil
	}
	v, err := assets.Version(in.src)
	if err != nil {
		return "", &PackageReadError{Path: assets.VersionFile, Err: err}
	}
	if v == "" {
		return "", &PackageReadError{Path: assets.VersionFile, Err: errors.New("package version is not set")}
	}
	return v, nil
}

// countTotal works out which trees the package carries and how many leaf
// files they hold. An entry with an empty listing counts as one file, so an
// empty package directory is counted (and later copied) as a file.
func (in *Installer) countTotal(st *State) error {
	root, err := in.src.List(".")
	if err != nil {
		return &PackageReadError{Path: ".", Err: err}
	}
	present := newSet(root)

	for _, tree := range in.opts.Trees {
		if !present.has(tree) {
			attrs := []any{slog.String("tree", tree)}
			if guess := closest(tree, root); guess != "" {
				attrs = append(attrs, slog.String("did_you_mean", guess))
			}
			in.logger.Warn("tree missing from package, not installed", attrs...)
			continue
		}
		st.Trees = append(st.Trees, tree)

		n, err := in.countFiles(tree)
		if err != nil {
			return err
		}
		st.Total += n
	}
	return nil
}

// closest returns the package root entry most likely meant by a misspelt
// tree name, or "" when nothing is near.
func closest(tree string, names []string) string {
	best, bestDist := "", 3
	for _, n := range names {
		d := levenshtein.ComputeDistance(strings.ToLower(tree), strings.ToLower(n))
		if d < bestDist {
			best, bestDist = n, d
		}
	}
	return best
}

func (in *Installer) countFiles(p string) (int, error) {
	names, err := in.src.List(p)
	if err != nil {
		return 0, &PackageReadError{Path: p, Err: err}
	}
	if len(names) == 0 {
		return 1, nil
	}
	total := 0
	for _, name := range names {
		n, err := in.countFiles(assets.Join(p, name))
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

func (in *Installer) installPipeline(st *State) *pipeline.Pipeline {
	return &pipeline.Pipeline{
		ID:   "install",
		Name: st.Label(),
		Steps: []pipeline.Step{
			{
				Name:        "purge",
				Description: "Remove stale game data",
				Check: func(ctx context.Context) bool {
					return !in.anyTreeInstalled(st)
				},
				Run: func(ctx context.Context) error {
					for _, tree := range st.Trees {
						if err := in.purgeTree(st, tree); err != nil {
							return err
						}
					}
					return nil
				},
				DryRun: func(ctx context.Context) string {
					return fmt.Sprintf("would remove %s from %s, keeping preserved content",
						strings.Join(st.Trees, ", "), in.dst.Root())
				},
			},
			{
				Name:        "copy",
				Description: "Copy game data",
				Run: func(ctx context.Context) error {
					for _, tree := range st.Trees {
						if err := in.copyNode(st, tree); err != nil {
							return err
						}
					}
					return nil
				},
				DryRun: func(ctx context.Context) string {
					return fmt.Sprintf("would copy %d files into %s", st.Total, in.dst.Root())
				},
			},
			{
				Name:        "finalize",
				Description: "Record installed version",
				Run: func(ctx context.Context) error {
					return in.finalize(ctx, st)
				},
				DryRun: func(ctx context.Context) string {
					return fmt.Sprintf("would mark version %s as installed and ask for %d settings",
						st.PackageVersion, len(in.opts.Toggles))
				},
			},
		},
	}
}

// anyTreeInstalled reports whether storage holds a copy of any tree being
// installed. A listing error counts as present so purge reports it.
func (in *Installer) anyTreeInstalled(st *State) bool {
	for _, tree := range st.Trees {
		_, err := in.dst.ReadDir(tree)
		if err == nil || !errors.Is(err, fs.ErrNotExist) {
			return true
		}
	}
	return false
}

// purgeTree removes the storage copy of tree, if there is one.
func (in *Installer) purgeTree(st *State, tree string) error {
	if _, err := in.dst.ReadDir(tree); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return &StorageWriteError{Op: "list", Path: tree, Err: err}
	}
	_, err := in.purgeDir(st, tree)
	return err
}

// purgeDir deletes the contents of dir bottom-up, skipping preserved
// entries, then dir itself if nothing under it was kept. It reports whether
// dir was removed.
func (in *Installer) purgeDir(st *State, dir string) (bool, error) {
	if st.preserveFolders.has(path.Base(dir)) {
		in.logger.Debug("keeping preserved folder", slog.String("path", dir))
		return false, nil
	}

	entries, err := in.dst.ReadDir(dir)
	if err != nil {
		return false, &StorageWriteError{Op: "list", Path: dir, Err: err}
	}

	kept := false
	for _, e := range entries {
		child := path.Join(dir, e.Name)

		if !e.IsDir {
			if st.preserveFiles.has(e.Name) {
				in.logger.Debug("keeping preserved file", slog.String("path", child))
				kept = true
				continue
			}
			if err := in.dst.Remove(child); err != nil {
				return false, &StorageWriteError{Op: "remove", Path: child, Err: err}
			}
			continue
		}

		if st.preserveSubfolderParents.has(path.Base(dir)) {
			packaged, err := in.inPackage(child)
			if err != nil {
				return false, err
			}
			if !packaged {
				in.logger.Debug("keeping custom subfolder", slog.String("path", child))
				kept = true
				continue
			}
		}

		removed, err := in.purgeDir(st, child)
		if err != nil {
			return false, err
		}
		if !removed {
			kept = true
		}
	}

	if kept {
		return false, nil
	}
	if err := in.dst.Remove(dir); err != nil {
		return false, &StorageWriteError{Op: "remove", Path: dir, Err: err}
	}
	return true, nil
}

// inPackage reports whether rel names an entry of the package, comparing
// each path element without regard to case.
func (in *Installer) inPackage(rel string) (bool, error) {
	dir := "."
	for _, elem := range strings.Split(rel, "/") {
		names, err := in.src.List(dir)
		if err != nil {
			return false, &PackageReadError{Path: dir, Err: err}
		}
		match := ""
		for _, n := range names {
			if strings.EqualFold(n, elem) {
				match = n
				break
			}
		}
		if match == "" {
			return false, nil
		}
		dir = assets.Join(dir, match)
	}
	return true, nil
}

// copyNode copies the package entry p into storage. Directories are created
// before their children.
func (in *Installer) copyNode(st *State, p string) error {
	names, err := in.src.List(p)
	if err != nil {
		return &PackageReadError{Path: p, Err: err}
	}
	if len(names) == 0 {
		return in.copyFile(st, p)
	}

	if err := in.dst.MkdirAll(p); err != nil {
		return &StorageWriteError{Op: "mkdir", Path: p, Err: err}
	}
	for _, name := range names {
		if err := in.copyNode(st, assets.Join(p, name)); err != nil {
			return err
		}
	}
	return nil
}

func (in *Installer) copyFile(st *State, p string) error {
	r, err := in.src.Open(p)
	if err != nil {
		return &PackageReadError{Path: p, Err: err}
	}
	defer r.Close()

	w, err := in.dst.Create(p)
	if err != nil {
		return &StorageWriteError{Op: "create", Path: p, Err: err}
	}
	if _, err := io.Copy(w, readErrors{r: r, path: p}); err != nil {
		w.Close()
		var pkgErr *PackageReadError
		if errors.As(err, &pkgErr) {
			return pkgErr
		}
		return &StorageWriteError{Op: "write", Path: p, Err: err}
	}
	if err := w.Close(); err != nil {
		return &StorageWriteError{Op: "write", Path: p, Err: err}
	}

	st.Copied++
	if st.Copied > st.Total {
		in.logger.Warn("package changed during install, more files than counted",
			slog.Int("copied", st.Copied),
			slog.Int("counted", st.Total),
		)
		st.Total = st.Copied
	}
	if in.onProgress != nil {
		in.onProgress(st.Copied, st.Total)
	}
	return nil
}

// finalize advances the marker and then records the chosen settings.
func (in *Installer) finalize(ctx context.Context, st *State) error {
	if err := in.prefs.SetInstalledVersion(st.PackageVersion); err != nil {
		return fmt.Errorf("saving installed version: %w", err)
	}
	in.logger.Info("installed version recorded", slog.String("version", st.PackageVersion))

	if len(in.opts.Toggles) == 0 {
		return nil
	}

	labels := make([]string, len(in.opts.Toggles))
	defaults := make([]bool, len(in.opts.Toggles))
	for i, t := range in.opts.Toggles {
		labels[i] = t.Label
		defaults[i] = in.prefs.Toggle(t.Key, t.Default)
	}

	chosen := defaults
	if in.chooser != nil {
		chosen = in.chooser.ChooseToggles(ctx, SettingsTitle, labels, defaults)
	}

	values := make(map[string]bool, len(in.opts.Toggles))
	for i, t := range in.opts.Toggles {
		values[t.Key] = i < len(chosen) && chosen[i]
	}
	if err := in.prefs.SetToggles(values); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}

// readErrors tags read failures so copyFile can tell them from write failures.
type readErrors struct {
	r    io.Reader
	path string
}

func (re readErrors) Read(p []byte) (int, error) {
	n, err := re.r.Read(p)
	if err != nil && err != io.EOF {
		err = &PackageReadError{Path: re.path, Err: err}
	}
	return n, err
}

// unwrapStep strips the step name the pipeline runner adds so callers see
// the typed error directly.
func unwrapStep(err error) error {
	if inner := errors.Unwrap(err); inner != nil {
		return inner
	}
	return err
}
