// Package prefs persists the small key/value settings the shell keeps between
// runs: the installed-version marker, named toggles and the accessibility
// false-positive list.
package prefs

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

type Prefs struct {
	InstalledVersion            string          `toml:"installed_version"`
	LastInstall                 *time.Time      `toml:"last_install,omitempty"`
	Toggles                     map[string]bool `toml:"toggles"`
	AccessibilityFalsePositives []string        `toml:"accessibility_false_positives"`
}

// Load reads prefs from path. A missing file yields empty prefs.
func Load(path string) (*Prefs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Prefs{}, nil
		}
		return nil, err
	}

	var p Prefs
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing prefs %s: %w", path, err)
	}
	return &p, nil
}

// Save writes prefs to a temporary file and renames it over path, so a crash
// never leaves a half-written marker behind.
func Save(path string, p *Prefs) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(p)
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Store is a Prefs bound to its file. Every setter writes then commits.
type Store struct {
	mu    sync.Mutex
	path  string
	prefs *Prefs
}

// Open loads the prefs file at path into a Store.
func Open(path string) (*Store, error) {
	p, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Store{path: path, prefs: p}, nil
}

// NewStore wraps already-loaded prefs. An empty path keeps them in memory only.
func NewStore(path string, p *Prefs) *Store {
	if p == nil {
		p = &Prefs{}
	}
	return &Store{path: path, prefs: p}
}

// Snapshot returns a copy of the current prefs.
func (s *Store) Snapshot() Prefs {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *s.prefs
	cp.Toggles = make(map[string]bool, len(s.prefs.Toggles))
	for k, v := range s.prefs.Toggles {
		cp.Toggles[k] = v
	}
	cp.AccessibilityFalsePositives = slices.Clone(s.prefs.AccessibilityFalsePositives)
	if s.prefs.LastInstall != nil {
		t := *s.prefs.LastInstall
		cp.LastInstall = &t
	}
	return cp
}

func (s *Store) InstalledVersion() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs.InstalledVersion
}

// SetInstalledVersion records v as the installed package version. If the
// file cannot be written the previous marker stays in effect.
func (s *Store) SetInstalledVersion(v string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prevVersion, prevTime := s.prefs.InstalledVersion, s.prefs.LastInstall
	now := time.Now().UTC().Truncate(time.Second)
	s.prefs.InstalledVersion = v
	s.prefs.LastInstall = &now
	if err := s.commit(); err != nil {
		s.prefs.InstalledVersion, s.prefs.LastInstall = prevVersion, prevTime
		return err
	}
	return nil
}

// Toggle returns the stored value of key, or def when it was never set.
func (s *Store) Toggle(key string, def bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.prefs.Toggles[key]
	if !ok {
		return def
	}
	return v
}

// SetToggles stores every value in toggles.
func (s *Store) SetToggles(toggles map[string]bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.prefs.Toggles
	next := make(map[string]bool, len(prev)+len(toggles))
	maps.Copy(next, prev)
	maps.Copy(next, toggles)
	s.prefs.Toggles = next
	if err := s.commit(); err != nil {
		s.prefs.Toggles = prev
		return err
	}
	return nil
}

func (s *Store) IsFalsePositive(service string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Contains(s.prefs.AccessibilityFalsePositives, service)
}

// AddFalsePositive records service as harmless so it is not reported again.
func (s *Store) AddFalsePositive(service string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.Contains(s.prefs.AccessibilityFalsePositives, service) {
		return nil
	}
	prev := s.prefs.AccessibilityFalsePositives
	s.prefs.AccessibilityFalsePositives = append(slices.Clone(prev), service)
	if err := s.commit(); err != nil {
		s.prefs.AccessibilityFalsePositives = prev
		return err
	}
	return nil
}

func (s *Store) commit() error {
	if s.path == "" {
		return nil
	}
	return Save(s.path, s.prefs)
}
