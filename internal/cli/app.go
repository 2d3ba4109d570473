package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/druarnfield/splash/internal/assets"
	"github.com/druarnfield/splash/internal/config"
	"github.com/druarnfield/splash/internal/logging"
	"github.com/druarnfield/splash/internal/platform"
	"github.com/druarnfield/splash/internal/prefs"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// app holds what every command needs once configuration is loaded.
type app struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger
	prefs   *prefs.Store
	source  assets.Source
	storage platform.Storage
}

func loadApp(cmd *cobra.Command) (*app, error) {
	cfg, cfgPath, err := config.Load(config.LoadOptions{
		ConfigFile: flagConfig,
		Flags:      cmd.Flags(),
	})
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.Setup(logging.Options{
		Path:    config.LogFilePath(),
		Level:   cfg.Logging.Level,
		Verbose: flagVerbose,
	})
	if err != nil {
		logger = slog.New(logging.NopHandler{})
	}
	logger.Info("splash starting",
		slog.String("config", cfgPath),
		slog.String("package", cfg.Package.Dir),
		slog.String("data", cfg.Data.Dir),
	)

	store, err := prefs.Open(config.PrefsFilePath())
	if err != nil {
		return nil, fmt.Errorf("loading prefs: %w", err)
	}

	return &app{
		cfg:     cfg,
		cfgPath: cfgPath,
		logger:  logger,
		prefs:   store,
		source:  assets.NewDirSource(cfg.Package.Dir),
		storage: platform.NewDiskStorage(cfg.Data.Dir),
	}, nil
}

// useTUI reports whether the full-screen UI can be drawn on w.
func useTUI(w io.Writer) bool {
	if flagPlain {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
