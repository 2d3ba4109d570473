package launcher

import "github.com/druarnfield/splash/internal/installer"

// InstallStartedMsg is sent once the installer knows how much there is to copy.
type InstallStartedMsg struct {
	Label string
	From  string
	To    string
	Total int
}

// StepMsg is sent when an install step begins.
type StepMsg struct {
	Name        string
	Description string
}

// StepDoneMsg is sent when an install step ends.
type StepDoneMsg struct {
	Name   string
	Status string
}

// ProgressMsg is sent after each copied file.
type ProgressMsg struct {
	Copied int
	Total  int
}

// EngineStartedMsg is sent when the engine process is running.
type EngineStartedMsg struct {
	Command string
}

// Summary describes a finished run.
type Summary struct {
	Outcome        installer.Outcome
	Version        string
	Copied         int
	Total          int
	EngineRequests int
}

// FinishedMsg is the last message of a run.
type FinishedMsg struct {
	Summary Summary
	Err     error
}

// postMsg carries a function to run on the UI loop.
type postMsg struct {
	fn func()
}
