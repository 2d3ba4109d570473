package launcher

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/druarnfield/splash/internal/bridge"
	"github.com/druarnfield/splash/internal/tui/components"
)

type dialogKind int

const (
	dialogAlert dialogKind = iota
	dialogConfirm
	dialogList
	dialogChecklist
)

// dialog is one modal on screen. Its callbacks run inside Update, on the UI
// loop, and each dialog calls exactly one of them before it closes.
type dialog struct {
	kind    dialogKind
	prompt  string
	buttons []string
	labels  []string
	checked []bool
	cursor  int

	onPress  func()
	onAnswer func(bool)
	onPick   func(int)
	onCancel func()
	onDone   func([]bool)
}

// update handles a key press and reports whether the dialog closed.
func (d dialog) update(msg tea.KeyMsg, keys components.DialogKeys) (dialog, bool) {
	switch d.kind {
	case dialogAlert:
		if key.Matches(msg, keys.Accept) || key.Matches(msg, keys.Toggle) {
			d.onPress()
			return d, true
		}

	case dialogConfirm:
		switch {
		case key.Matches(msg, keys.Left), key.Matches(msg, keys.Right):
			d.cursor = 1 - d.cursor
		case key.Matches(msg, keys.Yes):
			d.onAnswer(true)
			return d, true
		case key.Matches(msg, keys.No):
			d.onAnswer(false)
			return d, true
		case key.Matches(msg, keys.Accept):
			d.onAnswer(d.cursor == 0)
			return d, true
		}

	case dialogList:
		switch {
		case key.Matches(msg, keys.Up):
			d.cursor = wrap(d.cursor-1, len(d.labels))
		case key.Matches(msg, keys.Down):
			d.cursor = wrap(d.cursor+1, len(d.labels))
		case key.Matches(msg, keys.Accept):
			if len(d.labels) == 0 {
				d.onCancel()
				return d, true
			}
			d.onPick(d.cursor)
			return d, true
		case key.Matches(msg, keys.Cancel):
			d.onCancel()
			return d, true
		}

	case dialogChecklist:
		switch {
		case key.Matches(msg, keys.Up):
			d.cursor = wrap(d.cursor-1, len(d.labels))
		case key.Matches(msg, keys.Down):
			d.cursor = wrap(d.cursor+1, len(d.labels))
		case key.Matches(msg, keys.Toggle):
			if d.cursor < len(d.checked) {
				d.checked[d.cursor] = !d.checked[d.cursor]
			}
		case key.Matches(msg, keys.Accept):
			out := make([]bool, len(d.checked))
			copy(out, d.checked)
			d.onDone(out)
			return d, true
		}
	}
	return d, false
}

func wrap(i, n int) int {
	if n == 0 {
		return 0
	}
	return (i%n + n) % n
}

// view renders the dialog box.
func (d dialog) view(s components.Styles, keys components.DialogKeys) string {
	var b strings.Builder

	b.WriteString(s.Subtitle.Render(d.prompt))
	b.WriteString("\n\n")

	switch d.kind {
	case dialogAlert:
		b.WriteString(s.ActiveButton.Render(d.buttons[0]))
		b.WriteString("\n\n")
		b.WriteString(s.Footer.Render(components.HelpLine(keys.Accept)))

	case dialogConfirm:
		for i, label := range d.buttons {
			if i == d.cursor {
				b.WriteString(s.ActiveButton.Render(label))
			} else {
				b.WriteString(s.Button.Render(label))
			}
		}
		b.WriteString("\n\n")
		b.WriteString(s.Footer.Render(components.HelpLine(keys.Right, keys.Yes, keys.No, keys.Accept)))

	case dialogList:
		for i, label := range d.labels {
			line := fmt.Sprintf("  %d. %s", i+1, label)
			switch {
			case i == d.cursor:
				line = s.SelectedItem.Render("> " + line[2:])
			case strings.HasSuffix(label, bridge.UnavailableSuffix):
				line = s.DisabledItem.Render(line)
			default:
				line = s.UnselectedItem.Render(line)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(s.Footer.Render(components.HelpLine(keys.Down, keys.Accept, keys.Cancel)))

	case dialogChecklist:
		for i, label := range d.labels {
			checkbox := s.CheckboxOff
			if i < len(d.checked) && d.checked[i] {
				checkbox = s.CheckboxOn
			}
			line := fmt.Sprintf("  %s %s", checkbox, label)
			if i == d.cursor {
				line = s.SelectedItem.Render("> " + line[2:])
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(s.Footer.Render(components.HelpLine(keys.Toggle, keys.Accept)))
	}

	return s.Dialog.Render(b.String())
}
