package launcher

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/druarnfield/splash/internal/installer"
	"github.com/druarnfield/splash/internal/tui/components"
)

// SummaryModel shows the final results screen.
type SummaryModel struct {
	styles  components.Styles
	summary Summary
	err     error
}

// NewSummaryModel creates a summary view.
func NewSummaryModel(styles components.Styles) SummaryModel {
	return SummaryModel{styles: styles}
}

// SetResult updates the run to display.
func (m SummaryModel) SetResult(summary Summary, err error) SummaryModel {
	m.summary = summary
	m.err = err
	return m
}

// Update handles key events.
func (m SummaryModel) Update(msg tea.Msg) (SummaryModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter", "q":
			return m, tea.Quit
		}
	}
	return m, nil
}

// View renders the summary screen.
func (m SummaryModel) View() string {
	var b strings.Builder

	b.WriteString(components.RenderBanner(m.styles))
	b.WriteString("\n\n")

	s := m.summary
	switch {
	case m.err != nil:
		b.WriteString(m.styles.Error.Render("Failed"))
		b.WriteString("\n\n")
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("  Error: %v", m.err)))
		b.WriteString("\n\n")
		if s.Copied > 0 {
			b.WriteString(m.styles.Warning.Render(fmt.Sprintf("  %d of %d files were copied before the failure.", s.Copied, s.Total)))
			b.WriteString("\n")
		}
		b.WriteString(m.styles.Warning.Render("  Restart to try the install again."))
		b.WriteString("\n")

	case s.Outcome == installer.OutcomeSkip:
		b.WriteString(m.styles.Success.Render(fmt.Sprintf("%s Game data is up to date (%s)", m.styles.StatusSkipped, s.Version)))
		b.WriteString("\n")

	case s.Outcome == installer.OutcomeDryRun:
		b.WriteString(m.styles.Muted.Render("Dry run: nothing was changed. See the log for what would happen."))
		b.WriteString("\n")

	default:
		b.WriteString(m.styles.Success.Render(fmt.Sprintf("%s Installed %s (%d files)", m.styles.StatusDone, s.Version, s.Copied)))
		b.WriteString("\n")
	}

	if s.EngineRequests > 0 {
		b.WriteString(fmt.Sprintf("\n  %d dialogs answered for the game\n", s.EngineRequests))
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render("  Press enter or q to exit"))

	return b.String()
}
