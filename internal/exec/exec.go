package exec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
)

// Process is a running command whose stdin and stdout are connected to the
// caller.
type Process interface {
	// Stdin writes to the command's standard input. Closing it signals EOF.
	Stdin() io.WriteCloser

	// Stdout reads the command's standard output until it exits.
	Stdout() io.Reader

	// Wait blocks until the command exits. Stdout must be read to EOF first.
	Wait() error
}

// Starter is an interface for launching long-running external commands.
// Use DefaultStarter for real commands and MockStarter for tests.
type Starter interface {
	Start(ctx context.Context, name string, args ...string) (Process, error)
}

// DefaultStarter starts commands on the real system.
type DefaultStarter struct {
	// Stderr receives the command's standard error. Nil discards it.
	Stderr io.Writer
}

// Start launches the named command with piped stdin and stdout. Cancelling
// ctx kills the command.
func (d *DefaultStarter) Start(ctx context.Context, name string, args ...string) (Process, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = d.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("command %q: %w", name, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("command %q: %w", name, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("command %q failed to start: %w", name, err)
	}
	return &osProcess{name: name, cmd: cmd, stdin: stdin, stdout: stdout}, nil
}

type osProcess struct {
	name   string
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.Reader
}

func (p *osProcess) Stdin() io.WriteCloser { return p.stdin }
func (p *osProcess) Stdout() io.Reader     { return p.stdout }

func (p *osProcess) Wait() error {
	if err := p.cmd.Wait(); err != nil {
		return fmt.Errorf("command %q failed: %w", p.name, err)
	}
	return nil
}

// ExitCode returns the exit code carried by err, 0 for a nil error and -1
// when err did not come from an exited process.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// CommandExists checks whether a command is available on the system PATH.
func CommandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// ScriptFunc plays the part of a command in tests. It reads what the caller
// writes to stdin and writes the command's output to stdout. Its return
// value is what Wait reports.
type ScriptFunc func(stdin io.Reader, stdout io.Writer) error

// MockStarter is a test double that runs pre-configured scripts in place of
// commands.
type MockStarter struct {
	Scripts map[string]ScriptFunc
	Calls   []string

	mu sync.Mutex
}

// Start looks up the command key in the Scripts map and runs the matching
// script on its own goroutine. The key is formed as "name arg1 arg2 ...".
func (m *MockStarter) Start(ctx context.Context, name string, args ...string) (Process, error) {
	key := name
	if len(args) > 0 {
		key = name + " " + strings.Join(args, " ")
	}

	m.mu.Lock()
	m.Calls = append(m.Calls, key)
	script, ok := m.Scripts[key]
	m.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("unexpected command: %q", key)
	}

	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	p := &mockProcess{stdin: inW, stdout: outR, done: make(chan struct{})}

	go func() {
		p.err = script(inR, outW)
		outW.Close()
		inR.Close()
		close(p.done)
	}()
	return p, nil
}

type mockProcess struct {
	stdin  *io.PipeWriter
	stdout *io.PipeReader
	done   chan struct{}
	err    error
}

func (p *mockProcess) Stdin() io.WriteCloser { return p.stdin }
func (p *mockProcess) Stdout() io.Reader     { return p.stdout }

func (p *mockProcess) Wait() error {
	<-p.done
	return p.err
}
