package mock

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/druarnfield/splash/internal/platform"
)

// ErrInjected is returned by Storage operations that were set up to fail.
var ErrInjected = errors.New("injected storage failure")

// Storage is an in-memory platform.Storage for tests.
type Storage struct {
	mu    sync.Mutex
	dirs  map[string]bool
	files map[string][]byte

	creates    int
	removes    int
	mkdirs     int
	failCreate int
}

func NewStorage() *Storage {
	return &Storage{
		dirs:  map[string]bool{".": true},
		files: make(map[string][]byte),
	}
}

// FailCreateOn makes the nth call to Create (1-based) fail with ErrInjected.
func (s *Storage) FailCreateOn(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failCreate = n
}

func (s *Storage) Root() string {
	return "mem://"
}

func (s *Storage) ReadDir(p string) ([]platform.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p = clean(p)
	if !s.dirs[p] {
		if _, ok := s.files[p]; ok {
			return nil, fmt.Errorf("readdir %s: not a directory", p)
		}
		return nil, &fs.PathError{Op: "readdir", Path: p, Err: fs.ErrNotExist}
	}

	var entries []platform.Entry
	for d := range s.dirs {
		if d != "." && path.Dir(d) == p {
			entries = append(entries, platform.Entry{Name: path.Base(d), IsDir: true})
		}
	}
	for f := range s.files {
		if path.Dir(f) == p {
			entries = append(entries, platform.Entry{Name: path.Base(f)})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (s *Storage) MkdirAll(p string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mkdirs++
	return s.mkdirAll(clean(p))
}

func (s *Storage) mkdirAll(p string) error {
	if p == "." || s.dirs[p] {
		return nil
	}
	if _, ok := s.files[p]; ok {
		return fmt.Errorf("mkdir %s: file exists", p)
	}
	if err := s.mkdirAll(path.Dir(p)); err != nil {
		return err
	}
	s.dirs[p] = true
	return nil
}

func (s *Storage) Create(p string) (io.WriteCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creates++
	if s.failCreate > 0 && s.creates == s.failCreate {
		return nil, &fs.PathError{Op: "create", Path: p, Err: ErrInjected}
	}

	p = clean(p)
	if !s.dirs[path.Dir(p)] {
		return nil, &fs.PathError{Op: "create", Path: p, Err: fs.ErrNotExist}
	}
	if s.dirs[p] {
		return nil, fmt.Errorf("create %s: is a directory", p)
	}
	s.files[p] = nil
	return &memFile{store: s, path: p}, nil
}

func (s *Storage) Remove(p string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p = clean(p)
	if _, ok := s.files[p]; ok {
		s.removes++
		delete(s.files, p)
		return nil
	}
	if !s.dirs[p] {
		return nil
	}
	for d := range s.dirs {
		if d != p && strings.HasPrefix(d, p+"/") {
			return fmt.Errorf("remove %s: directory not empty", p)
		}
	}
	for f := range s.files {
		if strings.HasPrefix(f, p+"/") {
			return fmt.Errorf("remove %s: directory not empty", p)
		}
	}
	s.removes++
	delete(s.dirs, p)
	return nil
}

// WriteFile seeds a file, creating parent directories. It is not counted as
// an operation.
func (s *Storage) WriteFile(p string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p = clean(p)
	if err := s.mkdirAll(path.Dir(p)); err != nil {
		panic(err)
	}
	s.files[p] = append([]byte(nil), data...)
}

// Mkdir seeds an empty directory. It is not counted as an operation.
func (s *Storage) Mkdir(p string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mkdirAll(clean(p)); err != nil {
		panic(err)
	}
}

// ReadFile returns the content of a file and whether it exists.
func (s *Storage) ReadFile(p string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[clean(p)]
	return data, ok
}

// Exists reports whether a file or directory exists at p.
func (s *Storage) Exists(p string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p = clean(p)
	_, isFile := s.files[p]
	return isFile || s.dirs[p]
}

// Files returns every file path in sorted order.
func (s *Storage) Files() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.files))
	for f := range s.files {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Ops returns the number of mutating calls (Create, Remove, MkdirAll) made
// through the Storage interface.
func (s *Storage) Ops() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creates + s.removes + s.mkdirs
}

type memFile struct {
	store *Storage
	path  string
	buf   bytes.Buffer
}

func (f *memFile) Write(p []byte) (int, error) {
	return f.buf.Write(p)
}

func (f *memFile) Close() error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	f.store.files[f.path] = f.buf.Bytes()
	return nil
}

func clean(p string) string {
	p = strings.Trim(path.Clean("/"+p), "/")
	if p == "" {
		return "."
	}
	return p
}
