// Package launcher is the terminal UI of the shell. Its bubbletea Update loop
// is the UI loop: all dialogs are built, shown and answered there, while the
// install and the engine run on a worker goroutine that talks to it through
// a Host.
package launcher

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/druarnfield/splash/internal/tui/components"
)

type screen int

const (
	screenProgress screen = iota
	screenSummary
)

// Model is the top-level tea.Model coordinating progress → summary, with
// modal dialogs shown over either screen.
type Model struct {
	styles   components.Styles
	keys     components.DialogKeys
	screen   screen
	progress ProgressModel
	summary  SummaryModel
	dialogs  []dialog

	host        *Host
	holdSummary bool
	finished    bool
	err         error

	width    int
	height   int
	quitting bool
}

// New creates a Model fed by host. With holdSummary the summary screen stays
// up until dismissed; otherwise the program quits when the run finishes.
func New(host *Host, holdSummary bool) Model {
	styles := components.DefaultStyles()
	return Model{
		styles:      styles,
		keys:        components.DefaultDialogKeys(),
		screen:      screenProgress,
		progress:    NewProgressModel(styles),
		summary:     NewSummaryModel(styles),
		host:        host,
		holdSummary: holdSummary,
	}
}

// Init starts the spinner and the message pump.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.host.NextMsg(), m.progress.Init())
}

// Update handles messages and delegates to the active dialog or screen.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress, _ = m.progress.Update(msg)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.host.Cancel()
			m.quitting = true
			return m, tea.Quit
		}
		if len(m.dialogs) > 0 {
			return m.updateDialog(msg)
		}
		if m.screen == screenSummary {
			var cmd tea.Cmd
			m.summary, cmd = m.summary.Update(msg)
			return m, cmd
		}
		return m, nil

	case postMsg:
		msg.fn()
		m.dialogs = append(m.dialogs, m.host.takeDialogs()...)
		return m, m.host.NextMsg()

	case InstallStartedMsg, StepMsg, StepDoneMsg, ProgressMsg, EngineStartedMsg:
		var cmd tea.Cmd
		m.progress, cmd = m.progress.Update(msg)
		return m, tea.Batch(cmd, m.host.NextMsg())

	case FinishedMsg:
		m.finished = true
		m.err = msg.Err
		m.summary = m.summary.SetResult(msg.Summary, msg.Err)
		if !m.holdSummary {
			m.quitting = true
			return m, tea.Quit
		}
		m.screen = screenSummary
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.progress, cmd = m.progress.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) updateDialog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d, closed := m.dialogs[0].update(msg, m.keys)
	if closed {
		m.dialogs = m.dialogs[1:]
	} else {
		m.dialogs[0] = d
	}
	return m, nil
}

// View renders the active screen and the front dialog, if any.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var out string
	switch m.screen {
	case screenProgress:
		out = m.progress.View()
	case screenSummary:
		out = m.summary.View()
	}

	if len(m.dialogs) > 0 {
		out += "\n\n" + m.dialogs[0].view(m.styles, m.keys)
	}
	return out
}

// Finished reports whether the worker sent its final message.
func (m Model) Finished() bool {
	return m.finished
}

// Err returns the error the run finished with, if any.
func (m Model) Err() error {
	return m.err
}

// Screen returns the current screen (for testing).
func (m Model) Screen() screen {
	return m.screen
}
