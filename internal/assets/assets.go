// Package assets reads the game data bundled with the application package.
// The package is a read-only tree of byte blobs keyed by slash-separated paths.
package assets

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
)

// VersionFile is the optional file in the package root holding the package version.
const VersionFile = "VERSION"

// Source is the packaged-asset store.
//
// List returns the names of the entries directly under p. A file, or a path
// that does not exist, lists as empty; callers treat an empty listing as a
// leaf file.
type Source interface {
	List(p string) ([]string, error)
	Open(p string) (io.ReadCloser, error)
}

// FSSource adapts an fs.FS to Source.
type FSSource struct {
	fsys fs.FS
}

// NewFSSource wraps fsys.
func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

// NewDirSource returns a Source reading from a directory on disk.
func NewDirSource(dir string) *FSSource {
	return NewFSSource(os.DirFS(dir))
}

// List returns the sorted entry names under p.
func (s *FSSource) List(p string) ([]string, error) {
	entries, err := fs.ReadDir(s.fsys, clean(p))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || isNotDir(s.fsys, p) {
			return nil, nil
		}
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Open opens the file at p for reading.
func (s *FSSource) Open(p string) (io.ReadCloser, error) {
	return s.fsys.Open(clean(p))
}

// Version reads the package version from VersionFile. It returns an empty
// string when the package has no version file.
func Version(src Source) (string, error) {
	rc, err := src.Open(VersionFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return string(bytes.TrimSpace(data)), nil
}

// Join joins package path elements with forward slashes.
func Join(elem ...string) string {
	return clean(path.Join(elem...))
}

func clean(p string) string {
	p = strings.Trim(path.Clean("/"+p), "/")
	if p == "" {
		return "."
	}
	return p
}

func isNotDir(fsys fs.FS, p string) bool {
	info, err := fs.Stat(fsys, clean(p))
	return err == nil && !info.IsDir()
}
