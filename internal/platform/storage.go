package platform

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Entry is one child of a storage directory.
type Entry struct {
	Name  string
	IsDir bool
}

// Storage is the writable location game data is installed into. Paths are
// slash-separated and relative to the storage root.
type Storage interface {
	// Root describes where the storage lives, for logs and messages.
	Root() string

	// ReadDir lists the children of p in name order. A missing p returns an
	// error satisfying errors.Is(err, fs.ErrNotExist).
	ReadDir(p string) ([]Entry, error)

	// MkdirAll creates p and any missing parents.
	MkdirAll(p string) error

	// Create creates or truncates the file at p. The parent must exist.
	Create(p string) (io.WriteCloser, error)

	// Remove deletes a file or an empty directory.
	Remove(p string) error
}

// DiskStorage is a Storage backed by a directory on the local filesystem.
type DiskStorage struct {
	root string
}

// NewDiskStorage returns a DiskStorage rooted at dir.
func NewDiskStorage(dir string) *DiskStorage {
	return &DiskStorage{root: dir}
}

func (d *DiskStorage) Root() string {
	return d.root
}

func (d *DiskStorage) ReadDir(p string) ([]Entry, error) {
	dirents, err := os.ReadDir(d.abs(p))
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(dirents))
	for _, de := range dirents {
		entries = append(entries, Entry{Name: de.Name(), IsDir: de.IsDir()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (d *DiskStorage) MkdirAll(p string) error {
	return os.MkdirAll(d.abs(p), 0755)
}

func (d *DiskStorage) Create(p string) (io.WriteCloser, error) {
	return os.OpenFile(d.abs(p), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
}

func (d *DiskStorage) Remove(p string) error {
	err := os.Remove(d.abs(p))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (d *DiskStorage) abs(p string) string {
	return filepath.Join(d.root, filepath.FromSlash(p))
}
