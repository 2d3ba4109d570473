package installer

// Outcome is the terminal state of an installer run.
type Outcome int

const (
	// OutcomeSkip means the installed version already matches the package.
	OutcomeSkip Outcome = iota
	// OutcomeDone means the package was installed and the marker advanced.
	OutcomeDone
	// OutcomeFailed means the run stopped on an error. Storage may hold a
	// partial copy; the marker is unchanged.
	OutcomeFailed
	// OutcomeDryRun means the steps were only described.
	OutcomeDryRun
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkip:
		return "skip"
	case OutcomeDone:
		return "done"
	case OutcomeFailed:
		return "failed"
	case OutcomeDryRun:
		return "dry-run"
	default:
		return "unknown"
	}
}

// Toggle is a named setting chosen by the user once an install finishes.
type Toggle struct {
	Key     string
	Label   string
	Default bool
}

// State is the bookkeeping of one run. It is created when the run starts
// and only touched by the goroutine running the installer.
type State struct {
	InstalledVersion string
	PackageVersion   string

	// Trees are the top-level package trees present in this package.
	Trees []string

	Total  int
	Copied int

	preserveFolders          set
	preserveSubfolderParents set
	preserveFiles            set
}

// Upgrade reports whether an earlier version is installed.
func (s *State) Upgrade() bool {
	return s.InstalledVersion != ""
}

// Label is the user-facing name of the run.
func (s *State) Label() string {
	if s.Upgrade() {
		return "Upgrading"
	}
	return "Installing"
}

type set map[string]struct{}

func newSet(items []string) set {
	s := make(set, len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}

func (s set) has(name string) bool {
	_, ok := s[name]
	return ok
}
