package assets

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func testPackage() fstest.MapFS {
	return fstest.MapFS{
		"VERSION":              {Data: []byte("0.G-1234\n")},
		"data/json/items.json": {Data: []byte("[]")},
		"data/core/b.json":     {Data: []byte("{}")},
		"data/core/a.json":     {Data: []byte("{}")},
		"gfx/tiles.png":        {Data: []byte{0x89}},
	}
}

func TestFSSource_ListSorted(t *testing.T) {
	src := NewFSSource(testPackage())

	names, err := src.List("data/core")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 2 || names[0] != "a.json" || names[1] != "b.json" {
		t.Errorf("List(data/core) = %v, want [a.json b.json]", names)
	}
}

func TestFSSource_ListFileIsEmpty(t *testing.T) {
	src := NewFSSource(testPackage())

	names, err := src.List("gfx/tiles.png")
	if err != nil {
		t.Fatalf("List on file: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("List on file = %v, want empty", names)
	}
}

func TestFSSource_ListMissingIsEmpty(t *testing.T) {
	src := NewFSSource(testPackage())

	names, err := src.List("lua")
	if err != nil {
		t.Fatalf("List on missing path: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("List on missing path = %v, want empty", names)
	}
}

func TestFSSource_Open(t *testing.T) {
	src := NewFSSource(testPackage())

	rc, err := src.Open("data/json/items.json")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]" {
		t.Errorf("content = %q, want %q", data, "[]")
	}
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "lang", "mo"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "lang", "mo", "de.mo"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	src := NewDirSource(dir)
	names, err := src.List("lang")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 1 || names[0] != "mo" {
		t.Errorf("List(lang) = %v, want [mo]", names)
	}

	leaf, err := src.List("lang/mo/de.mo")
	if err != nil {
		t.Fatalf("List on file: %v", err)
	}
	if len(leaf) != 0 {
		t.Errorf("List on file = %v, want empty", leaf)
	}
}

func TestVersion(t *testing.T) {
	v, err := Version(NewFSSource(testPackage()))
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if v != "0.G-1234" {
		t.Errorf("Version = %q, want %q", v, "0.G-1234")
	}
}

func TestVersion_Missing(t *testing.T) {
	v, err := Version(NewFSSource(fstest.MapFS{}))
	if err != nil {
		t.Fatalf("Version on package without version file: %v", err)
	}
	if v != "" {
		t.Errorf("Version = %q, want empty", v)
	}
}

func TestJoin(t *testing.T) {
	if got := Join("data", "core", "a.json"); got != "data/core/a.json" {
		t.Errorf("Join = %q", got)
	}
	if got := Join("", ""); got != "." {
		t.Errorf("Join of empty = %q, want %q", got, ".")
	}
}
