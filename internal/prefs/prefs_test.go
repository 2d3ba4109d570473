package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPrefs_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prefs.toml")

	p := &Prefs{
		InstalledVersion:            "0.G-1234",
		Toggles:                     map[string]bool{"software_rendering": true},
		AccessibilityFalsePositives: []string{"com.example.launcher"},
	}

	if err := Save(path, p); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.InstalledVersion != "0.G-1234" {
		t.Errorf("InstalledVersion = %q", loaded.InstalledVersion)
	}
	if !loaded.Toggles["software_rendering"] {
		t.Errorf("Toggles = %v", loaded.Toggles)
	}
	if len(loaded.AccessibilityFalsePositives) != 1 {
		t.Errorf("AccessibilityFalsePositives = %v", loaded.AccessibilityFalsePositives)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should be renamed away")
	}
}

func TestLoad_Missing(t *testing.T) {
	p, err := Load("/nonexistent/prefs.toml")
	if err != nil {
		t.Fatalf("Load should not error on missing file: %v", err)
	}
	if p.InstalledVersion != "" {
		t.Error("should be empty prefs")
	}
}

func TestLoad_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	if err := os.WriteFile(path, []byte("installed_version = ["), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestStore_SetInstalledVersionCommits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if st.InstalledVersion() != "" {
		t.Fatalf("fresh store marker = %q, want empty", st.InstalledVersion())
	}

	if err := st.SetInstalledVersion("1.0"); err != nil {
		t.Fatalf("SetInstalledVersion: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if reopened.InstalledVersion() != "1.0" {
		t.Errorf("marker after reopen = %q, want %q", reopened.InstalledVersion(), "1.0")
	}
	if last := reopened.Snapshot().LastInstall; last == nil || last.IsZero() {
		t.Error("LastInstall should be recorded")
	}
}

// unwritablePath returns a prefs path whose parent is a regular file.
func unwritablePath(t *testing.T) string {
	t.Helper()
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	return filepath.Join(blocker, "prefs.toml")
}

func TestStore_FailedCommitKeepsPreviousValues(t *testing.T) {
	st := NewStore(unwritablePath(t), &Prefs{
		InstalledVersion:            "1.0",
		Toggles:                     map[string]bool{"force_fullscreen": true},
		AccessibilityFalsePositives: []string{"old"},
	})

	if err := st.SetInstalledVersion("2.0"); err == nil {
		t.Fatal("SetInstalledVersion succeeded on an unwritable path")
	}
	if got := st.InstalledVersion(); got != "1.0" {
		t.Errorf("marker after failed save = %q, want 1.0", got)
	}
	if st.Snapshot().LastInstall != nil {
		t.Error("LastInstall set by a failed save")
	}

	if err := st.SetToggles(map[string]bool{"force_fullscreen": false, "new": true}); err == nil {
		t.Fatal("SetToggles succeeded on an unwritable path")
	}
	if !st.Toggle("force_fullscreen", false) || st.Toggle("new", false) {
		t.Errorf("toggles after failed save = %v", st.Snapshot().Toggles)
	}

	if err := st.AddFalsePositive("svc"); err == nil {
		t.Fatal("AddFalsePositive succeeded on an unwritable path")
	}
	if st.IsFalsePositive("svc") {
		t.Error("false positive kept after failed save")
	}
}

func TestStore_Toggles(t *testing.T) {
	st := NewStore("", nil)

	if !st.Toggle("force_fullscreen", true) {
		t.Error("unset toggle should return the default")
	}
	if err := st.SetToggles(map[string]bool{"force_fullscreen": false}); err != nil {
		t.Fatal(err)
	}
	if st.Toggle("force_fullscreen", true) {
		t.Error("stored toggle should override the default")
	}
}

func TestStore_FalsePositives(t *testing.T) {
	st := NewStore("", nil)

	if st.IsFalsePositive("svc") {
		t.Error("unknown service should not be a false positive")
	}
	st.AddFalsePositive("svc")
	st.AddFalsePositive("svc") // duplicate

	if !st.IsFalsePositive("svc") {
		t.Error("svc should be recorded")
	}
	if n := len(st.Snapshot().AccessibilityFalsePositives); n != 1 {
		t.Errorf("false positives = %d, want 1", n)
	}
}
