// Package pipeline runs named steps in order. A step may report that it has
// nothing to do, and a dry run describes steps instead of running them.
package pipeline

import "context"

type Step struct {
	Name        string
	Description string

	// Check reports that the step has nothing to do. Optional.
	Check func(ctx context.Context) bool

	Run func(ctx context.Context) error

	// DryRun says what Run would change. Optional.
	DryRun func(ctx context.Context) string
}

// Pipeline is an ordered list of steps. ID names it in logs.
type Pipeline struct {
	ID    string
	Name  string
	Steps []Step
}
