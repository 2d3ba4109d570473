package config

import (
	"os"
	"path/filepath"
	"strings"
)

func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "splash")
	}
	return filepath.Join(home, ".config", "splash")
}

// ConfigFilePath prefers a splash.toml next to the executable, the way an
// application package ships its own settings.
func ConfigFilePath() string {
	exe, err := os.Executable()
	if err == nil {
		adjacent := filepath.Join(filepath.Dir(exe), "splash.toml")
		if _, err := os.Stat(adjacent); err == nil {
			return adjacent
		}
	}
	return filepath.Join(ConfigDir(), "splash.toml")
}

func PrefsFilePath() string {
	return filepath.Join(ConfigDir(), "prefs.toml")
}

func LogFilePath() string {
	return filepath.Join(ConfigDir(), "splash.log")
}

// DefaultPackageDir is the "package" folder next to the executable.
func DefaultPackageDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "package"
	}
	return filepath.Join(filepath.Dir(exe), "package")
}

func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".local", "share", "splash")
	}
	return filepath.Join(home, ".local", "share", "splash")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
