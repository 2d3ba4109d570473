package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Package       PackageConfig       `mapstructure:"package"`
	Data          DataConfig          `mapstructure:"data"`
	Install       InstallConfig       `mapstructure:"install"`
	Settings      []ToggleConfig      `mapstructure:"settings"`
	Engine        EngineConfig        `mapstructure:"engine"`
	Accessibility AccessibilityConfig `mapstructure:"accessibility"`
	Logging       LoggingConfig       `mapstructure:"logging"`
}

// PackageConfig locates the read-only game data bundled with the application.
type PackageConfig struct {
	Dir string `mapstructure:"dir"`
	// Version overrides the VERSION file in the package root.
	Version string `mapstructure:"version"`
}

// DataConfig locates the writable storage game data is installed into.
type DataConfig struct {
	Dir string `mapstructure:"dir"`
}

type InstallConfig struct {
	Trees                    []string `mapstructure:"trees"`
	PreserveFolders          []string `mapstructure:"preserve_folders"`
	PreserveSubfolderParents []string `mapstructure:"preserve_subfolder_parents"`
	PreserveFiles            []string `mapstructure:"preserve_files"`
}

// ToggleConfig is one named boolean offered to the user after an install.
type ToggleConfig struct {
	Key     string `mapstructure:"key"`
	Label   string `mapstructure:"label"`
	Default bool   `mapstructure:"default"`
}

type EngineConfig struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
}

type AccessibilityConfig struct {
	// Services lists enabled accessibility services reported by the host.
	Services []string `mapstructure:"services"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// LoadOptions controls configuration loading.
type LoadOptions struct {
	// ConfigFile is an explicit config path; it must exist when set.
	ConfigFile string
	Flags      *pflag.FlagSet
}

func Defaults() *Config {
	return &Config{
		Package: PackageConfig{Dir: DefaultPackageDir()},
		Data:    DataConfig{Dir: DefaultDataDir()},
		Install: InstallConfig{
			Trees:                    []string{"data", "gfx", "lua", "lang"},
			PreserveFolders:          []string{"font"},
			PreserveSubfolderParents: []string{"sound", "mods", "gfx"},
			PreserveFiles:            []string{"user-default-mods.json", "fontdata.json"},
		},
		Settings: []ToggleConfig{
			{Key: "software_rendering", Label: "Software rendering"},
			{Key: "force_fullscreen", Label: "Force fullscreen"},
			{Key: "trap_back_button", Label: "Trap Back button"},
		},
		Engine:  EngineConfig{Command: "cataclysm-tiles"},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load merges defaults, the TOML config file, SPLASH_* environment variables
// and bound flags, in increasing order of precedence. It returns the config
// and the path of the file that was read ("" when none was found).
func Load(opts LoadOptions) (*Config, string, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SPLASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if opts.Flags != nil {
		if err := BindFlags(v, opts.Flags); err != nil {
			return nil, "", fmt.Errorf("binding flags: %w", err)
		}
	}

	path := opts.ConfigFile
	if path == "" {
		path = ConfigFilePath()
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			path = ""
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, "", fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("parsing config: %w", err)
	}
	cfg.Data.Dir = expandHome(cfg.Data.Dir)
	cfg.Package.Dir = expandHome(cfg.Package.Dir)

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return &cfg, v.ConfigFileUsed(), nil
}

// BindFlags binds the supported CLI flags to config keys.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	bindings := map[string]string{
		"data-dir":    "data.dir",
		"package-dir": "package.dir",
		"log-level":   "logging.level",
	}

	for flag, key := range bindings {
		f := flags.Lookup(flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %q: %w", flag, err)
		}
	}
	return nil
}

// Validate reports the first setting the installer cannot work without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Package.Dir) == "" {
		return errors.New("package.dir is required")
	}
	if strings.TrimSpace(c.Data.Dir) == "" {
		return errors.New("data.dir is required")
	}
	if len(c.Install.Trees) == 0 {
		return errors.New("install.trees must list at least one tree")
	}
	for _, tree := range c.Install.Trees {
		if strings.TrimSpace(tree) == "" || strings.ContainsAny(tree, `/\`) {
			return fmt.Errorf("install.trees: %q is not a top-level folder name", tree)
		}
	}
	seen := make(map[string]bool, len(c.Settings))
	for _, s := range c.Settings {
		if s.Key == "" {
			return errors.New("settings: every toggle needs a key")
		}
		if seen[s.Key] {
			return fmt.Errorf("settings: duplicate toggle key %q", s.Key)
		}
		seen[s.Key] = true
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	d := Defaults()

	v.SetDefault("package.dir", d.Package.Dir)
	v.SetDefault("package.version", d.Package.Version)
	v.SetDefault("data.dir", d.Data.Dir)

	v.SetDefault("install.trees", d.Install.Trees)
	v.SetDefault("install.preserve_folders", d.Install.PreserveFolders)
	v.SetDefault("install.preserve_subfolder_parents", d.Install.PreserveSubfolderParents)
	v.SetDefault("install.preserve_files", d.Install.PreserveFiles)

	v.SetDefault("settings", d.Settings)

	v.SetDefault("engine.command", d.Engine.Command)
	v.SetDefault("engine.args", d.Engine.Args)

	v.SetDefault("accessibility.services", d.Accessibility.Services)

	v.SetDefault("logging.level", d.Logging.Level)
}
