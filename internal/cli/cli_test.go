package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type fixture struct {
	home    string
	pkgDir  string
	dataDir string
	cfgPath string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)

	f := &fixture{
		home:    home,
		pkgDir:  filepath.Join(home, "package"),
		dataDir: filepath.Join(home, "data"),
		cfgPath: filepath.Join(home, "splash.toml"),
	}
	writeFile(t, filepath.Join(f.pkgDir, "data", "core.lua"), "return {}")
	writeFile(t, filepath.Join(f.pkgDir, "data", "maps", "start.map"), "map")

	cfg := fmt.Sprintf(`[package]
dir = %q
version = "2.0"

[data]
dir = %q

[install]
trees = ["data"]

[[settings]]
key = "music"
label = "Play music"
default = true
`, f.pkgDir, f.dataDir)
	writeFile(t, f.cfgPath, cfg)
	return f
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func (f *fixture) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd("1.2.3")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(append([]string{"--config", f.cfgPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	f := newFixture(t)
	out, err := f.run(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if strings.TrimSpace(out) != "splash 1.2.3" {
		t.Errorf("output = %q", out)
	}
}

func TestStatusBeforeInstall(t *testing.T) {
	f := newFixture(t)
	out, err := f.run(t, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	for _, want := range []string{"version 2.0", "(none)", "install needed", "[x] Play music"} {
		if !strings.Contains(out, want) {
			t.Errorf("status output missing %q:\n%s", want, out)
		}
	}
}

func TestInstallThenStatus(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t, "install")
	if err != nil {
		t.Fatalf("install: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Installed 2.0 (2 files).") {
		t.Errorf("install output missing summary:\n%s", out)
	}
	got, err := os.ReadFile(filepath.Join(f.dataDir, "data", "maps", "start.map"))
	if err != nil {
		t.Fatalf("reading installed file: %v", err)
	}
	if string(got) != "map" {
		t.Errorf("installed content = %q", got)
	}

	out, err = f.run(t, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "up to date") {
		t.Errorf("status after install:\n%s", out)
	}

	out, err = f.run(t, "install")
	if err != nil {
		t.Fatalf("second install: %v", err)
	}
	if !strings.Contains(out, "Game data is up to date (2.0).") {
		t.Errorf("second install output:\n%s", out)
	}
}

func TestInstallDryRun(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t, "install", "--dry-run")
	if err != nil {
		t.Fatalf("install --dry-run: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Dry run complete") {
		t.Errorf("output missing dry-run summary:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(f.dataDir, "data")); !os.IsNotExist(err) {
		t.Errorf("dry run created data: %v", err)
	}
}

func TestInstallFailureReturnsError(t *testing.T) {
	f := newFixture(t)
	writeFile(t, f.cfgPath, fmt.Sprintf(`[package]
dir = %q

[data]
dir = %q

[install]
trees = ["data"]
`, f.pkgDir, f.dataDir))

	out, err := f.run(t, "install")
	if err == nil {
		t.Fatalf("install without a package version succeeded:\n%s", out)
	}
	if !strings.Contains(out, "Failed:") {
		t.Errorf("output missing failure:\n%s", out)
	}
}

func TestMissingConfigFile(t *testing.T) {
	f := newFixture(t)
	f.cfgPath = filepath.Join(f.home, "nope.toml")
	if _, err := f.run(t, "status"); err == nil {
		t.Fatal("expected error for a missing config file")
	}
}
