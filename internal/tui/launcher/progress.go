package launcher

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/druarnfield/splash/internal/tui/components"
)

const barWidth = 30

// ProgressModel shows the install and engine screens.
type ProgressModel struct {
	styles  components.Styles
	spinner spinner.Model

	label  string
	from   string
	to     string
	step   string
	notes  []string
	copied int
	total  int

	engine string
	width  int
}

// NewProgressModel creates a progress view.
func NewProgressModel(styles components.Styles) ProgressModel {
	return ProgressModel{
		styles:  styles,
		spinner: components.NewSpinner(styles),
	}
}

// Init starts the spinner.
func (m ProgressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages.
func (m ProgressModel) Update(msg tea.Msg) (ProgressModel, tea.Cmd) {
	switch msg := msg.(type) {
	case InstallStartedMsg:
		m.label = msg.Label
		m.from = msg.From
		m.to = msg.To
		m.total = msg.Total
		m.copied = 0

	case StepMsg:
		m.step = msg.Description

	case StepDoneMsg:
		if msg.Status != "done" {
			m.notes = append(m.notes, fmt.Sprintf("%s: %s", msg.Name, msg.Status))
		}

	case ProgressMsg:
		m.copied = msg.Copied
		m.total = msg.Total

	case EngineStartedMsg:
		m.engine = msg.Command

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

// Copied returns the last reported copy count (for testing).
func (m ProgressModel) Copied() int {
	return m.copied
}

// View renders the install screen, or the engine screen once the engine runs.
func (m ProgressModel) View() string {
	var b strings.Builder

	b.WriteString(components.RenderBanner(m.styles))
	b.WriteString("\n\n")

	if m.engine != "" {
		b.WriteString(m.styles.Title.Render("Game running"))
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("  %s %s\n", m.spinner.View(), m.styles.Muted.Render(m.engine)))
		return b.String()
	}

	if m.label == "" {
		b.WriteString(fmt.Sprintf("  %s Checking game data\n", m.spinner.View()))
		return b.String()
	}

	title := fmt.Sprintf("%s %s", m.label, m.to)
	if m.from != "" {
		title = fmt.Sprintf("%s %s → %s", m.label, m.from, m.to)
	}
	b.WriteString(m.styles.Title.Render(title))
	b.WriteString("\n\n")

	pct := 0
	if m.total > 0 {
		pct = m.copied * 100 / m.total
	}
	b.WriteString(fmt.Sprintf("  %d/%d files  %s  %d%%\n",
		m.copied, m.total, components.RenderProgressBar(m.styles, m.copied, m.total, barWidth), pct))

	if m.step != "" {
		b.WriteString(fmt.Sprintf("\n  %s %s\n", m.spinner.View(), m.step))
	}
	for _, n := range m.notes {
		b.WriteString("  " + m.styles.Muted.Render(n) + "\n")
	}
	return b.String()
}
