package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds all shared Lipgloss styles used across TUI screens.
type Styles struct {
	Title          lipgloss.Style
	Subtitle       lipgloss.Style
	Body           lipgloss.Style
	Muted          lipgloss.Style
	Success        lipgloss.Style
	Error          lipgloss.Style
	Warning        lipgloss.Style
	Dialog         lipgloss.Style
	SelectedItem   lipgloss.Style
	UnselectedItem lipgloss.Style
	DisabledItem   lipgloss.Style
	Button         lipgloss.Style
	ActiveButton   lipgloss.Style
	CheckboxOn     string
	CheckboxOff    string
	StatusDone     string
	StatusSkipped  string
	StatusFailed   string
	Footer         lipgloss.Style
	AccentColor    lipgloss.AdaptiveColor
	ProgressFull   lipgloss.Style
	ProgressEmpty  lipgloss.Style
}

// DefaultStyles returns a Styles populated with the splash color palette.
// Uses AdaptiveColor to work in both light and dark terminals.
func DefaultStyles() Styles {
	accent := lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#F59E0B"}
	cyan := lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}
	muted := lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	success := lipgloss.AdaptiveColor{Light: "#16A34A", Dark: "#4ADE80"}
	errColor := lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#F87171"}
	warn := lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),

		Subtitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(cyan),

		Body: lipgloss.NewStyle(),

		Muted: lipgloss.NewStyle().
			Foreground(muted),

		Success: lipgloss.NewStyle().
			Foreground(success),

		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(errColor),

		Warning: lipgloss.NewStyle().
			Foreground(warn),

		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 2),

		SelectedItem: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),

		UnselectedItem: lipgloss.NewStyle(),

		DisabledItem: lipgloss.NewStyle().
			Foreground(muted).
			Strikethrough(true),

		Button: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 2),

		ActiveButton: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true).
			Underline(true).
			Padding(0, 2),

		CheckboxOn:    "[x]",
		CheckboxOff:   "[ ]",
		StatusDone:    "✓",
		StatusSkipped: "~",
		StatusFailed:  "✗",

		Footer: lipgloss.NewStyle().
			Foreground(muted),

		AccentColor: accent,

		ProgressFull: lipgloss.NewStyle().
			Foreground(accent),

		ProgressEmpty: lipgloss.NewStyle().
			Foreground(muted),
	}
}

// RenderBanner returns the title shown at the top of every screen.
func RenderBanner(s Styles) string {
	return s.Title.Render("splash") + s.Muted.Render("  game launcher")
}

// RenderProgressBar renders a bar of width cells filled to done/total.
func RenderProgressBar(s Styles, done, total, width int) string {
	filled := 0
	if total > 0 {
		filled = done * width / total
	}
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return s.ProgressFull.Render(strings.Repeat("█", filled)) +
		s.ProgressEmpty.Render(strings.Repeat("░", width-filled))
}
