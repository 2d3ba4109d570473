package platform

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestDiskStorage_CreateAndReadDir(t *testing.T) {
	dir := t.TempDir()
	st := NewDiskStorage(dir)

	if err := st.MkdirAll("data/core"); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	w, err := st.Create("data/core/a.json")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := w.Write([]byte("{}")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "data", "core", "a.json"))
	if err != nil {
		t.Fatalf("reading created file: %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("content = %q", data)
	}

	entries, err := st.ReadDir("data")
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "core" || !entries[0].IsDir {
		t.Errorf("ReadDir(data) = %+v, want [core/]", entries)
	}
}

func TestDiskStorage_ReadDirMissing(t *testing.T) {
	st := NewDiskStorage(t.TempDir())
	_, err := st.ReadDir("nope")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadDir on missing dir: err = %v, want fs.ErrNotExist", err)
	}
}

func TestDiskStorage_Remove(t *testing.T) {
	dir := t.TempDir()
	st := NewDiskStorage(dir)

	if err := st.MkdirAll("gfx"); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "gfx", "t.png"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := st.Remove("gfx"); err == nil {
		t.Error("removing a non-empty directory should fail")
	}
	if err := st.Remove("gfx/t.png"); err != nil {
		t.Fatalf("Remove file: %v", err)
	}
	if err := st.Remove("gfx"); err != nil {
		t.Fatalf("Remove empty dir: %v", err)
	}
	if err := st.Remove("gfx"); err != nil {
		t.Errorf("Remove on missing path should be a no-op, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "gfx")); !os.IsNotExist(err) {
		t.Error("gfx should be gone")
	}
}
