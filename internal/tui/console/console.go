// Package console is a line-based UI loop for when there is no terminal to
// draw on. Dialogs are printed as text and answered by typing a line.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Console implements bridge.Toolkit on plain text streams. Escape sequences in
// dialog text are stripped. Loop must run on the goroutine that owns in and
// out; everything else reaches it through Post.
type Console struct {
	in      *bufio.Scanner
	out     io.Writer
	posts   chan func()
	stopped chan struct{}
	eof     bool

	lastPct int
}

// New creates a Console reading answers from in and writing to out.
func New(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:      bufio.NewScanner(in),
		out:     out,
		posts:   make(chan func(), 64),
		stopped: make(chan struct{}),
		lastPct: -10,
	}
}

// Post schedules fn on the loop. Once Loop has returned, fn is dropped.
func (c *Console) Post(fn func()) {
	select {
	case c.posts <- fn:
	case <-c.stopped:
	}
}

// Loop runs posted functions until done is closed or ctx is cancelled.
// Functions already posted when done closes are still run.
// Loop must be called at most once.
func (c *Console) Loop(ctx context.Context, done <-chan struct{}) {
	defer close(c.stopped)
	for {
		select {
		case fn := <-c.posts:
			fn()
		case <-done:
			for {
				select {
				case fn := <-c.posts:
					fn()
				default:
					return
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

// readLine returns the next input line. At end of input it returns false and
// every later dialog takes its fallback answer.
func (c *Console) readLine() (string, bool) {
	if c.eof || !c.in.Scan() {
		c.eof = true
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

func (c *Console) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}

// Alert prints prompt and waits for Enter.
func (c *Console) Alert(prompt, button string, onPress func()) {
	c.printf("\n%s\n[%s] ", ansi.Strip(prompt), button)
	c.readLine()
	onPress()
}

// Confirm asks until the answer is yes or no. End of input answers fallback.
func (c *Console) Confirm(prompt, yes, no string, fallback bool, onAnswer func(bool)) {
	for {
		c.printf("\n%s (%s/%s): ", ansi.Strip(prompt), yes, no)
		line, ok := c.readLine()
		if !ok {
			onAnswer(fallback)
			return
		}
		switch strings.ToLower(line) {
		case "y", "yes", strings.ToLower(yes):
			onAnswer(true)
			return
		case "n", "no", strings.ToLower(no):
			onAnswer(false)
			return
		}
		c.printf("Please answer %s or %s.\n", yes, no)
	}
}

// List prints numbered labels and asks for a number. An empty line, "q" or
// end of input cancels.
func (c *Console) List(prompt string, labels []string, onPick func(int), onCancel func()) {
	c.printf("\n%s\n", ansi.Strip(prompt))
	for i, l := range labels {
		c.printf("  %d. %s\n", i+1, ansi.Strip(l))
	}
	for {
		c.printf("Choose 1-%d (q to cancel): ", len(labels))
		line, ok := c.readLine()
		if !ok || line == "" || strings.EqualFold(line, "q") {
			onCancel()
			return
		}
		n, err := strconv.Atoi(line)
		if err == nil && n >= 1 && n <= len(labels) {
			onPick(n - 1)
			return
		}
		c.printf("%q is not a choice.\n", line)
	}
}

// Checklist prints labels with their state and lets the user flip entries by
// number until an empty line confirms. End of input confirms as shown.
func (c *Console) Checklist(title string, labels []string, checked []bool, onDone func([]bool)) {
	state := make([]bool, len(labels))
	copy(state, checked)

	for {
		c.printf("\n%s\n", title)
		for i, l := range labels {
			mark := " "
			if state[i] {
				mark = "x"
			}
			c.printf("  %d. [%s] %s\n", i+1, mark, ansi.Strip(l))
		}
		c.printf("Number to toggle, Enter to accept: ")

		line, ok := c.readLine()
		if !ok || line == "" {
			onDone(state)
			return
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > len(labels) {
			c.printf("%q is not a choice.\n", line)
			continue
		}
		state[n-1] = !state[n-1]
	}
}

// InstallStarted reports the start of an install.
func (c *Console) InstallStarted(label, from, to string, total int) {
	c.Post(func() {
		if from != "" {
			c.printf("%s %s -> %s (%d files)\n", label, from, to, total)
		} else {
			c.printf("%s %s (%d files)\n", label, to, total)
		}
	})
}

// InstallStep reports the step about to run.
func (c *Console) InstallStep(name, description string) {
	c.Post(func() { c.printf("  %s\n", description) })
}

// InstallStepDone notes steps that ended other than by running.
func (c *Console) InstallStepDone(name, status string) {
	if status == "done" {
		return
	}
	c.Post(func() { c.printf("  %s: %s\n", name, status) })
}

// InstallProgress prints every tenth of the way through the copy.
func (c *Console) InstallProgress(copied, total int) {
	c.Post(func() {
		if total <= 0 {
			return
		}
		pct := copied * 100 / total
		if pct/10 == c.lastPct/10 && copied != total {
			return
		}
		c.lastPct = pct
		c.printf("  %3d%% (%d/%d)\n", pct, copied, total)
	})
}

// EngineStarted reports that the engine is running.
func (c *Console) EngineStarted(command string) {
	c.Post(func() { c.printf("Running %s\n", command) })
}
