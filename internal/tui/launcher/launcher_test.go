package launcher

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/druarnfield/splash/internal/bridge"
	"github.com/druarnfield/splash/internal/installer"
	"github.com/druarnfield/splash/internal/logging"
	"github.com/druarnfield/splash/internal/tui/components"
)

// --- helpers ---

func nopLogger() *slog.Logger {
	return slog.New(logging.NopHandler{})
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// pump feeds the next worker message into the model.
func pump(t *testing.T, m Model, h *Host) Model {
	t.Helper()
	ch := make(chan tea.Msg, 1)
	go func() { ch <- h.NextMsg()() }()
	select {
	case msg := <-ch:
		updated, _ := m.Update(msg)
		return updated.(Model)
	case <-time.After(2 * time.Second):
		t.Fatal("no message from worker")
		return m
	}
}

func press(m Model, keys ...tea.KeyMsg) Model {
	for _, k := range keys {
		updated, _ := m.Update(k)
		m = updated.(Model)
	}
	return m
}

func result[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("bridge call did not return")
		var zero T
		return zero
	}
}

func setup() (Model, *Host, *bridge.Bridge) {
	h := NewHost()
	return New(h, true), h, bridge.New(h, nopLogger())
}

// --- dialogs through the bridge ---

func TestAcknowledgeDialog(t *testing.T) {
	m, h, b := setup()

	done := make(chan struct{}, 1)
	go func() {
		b.Acknowledge(context.Background(), "Your character starves.")
		done <- struct{}{}
	}()

	m = pump(t, m, h)
	if !strings.Contains(m.View(), "Your character starves.") {
		t.Errorf("dialog not rendered:\n%s", m.View())
	}

	m = press(m, runes("x"))
	if len(m.dialogs) != 1 {
		t.Fatal("unrelated key should not close the dialog")
	}
	m = press(m, keyEnter)
	result(t, done)
	if len(m.dialogs) != 0 {
		t.Error("dialog should close after OK")
	}
}

func TestConfirmDialog(t *testing.T) {
	tests := []struct {
		name string
		keys []tea.KeyMsg
		want bool
	}{
		{"y key", []tea.KeyMsg{runes("y")}, true},
		{"n key", []tea.KeyMsg{runes("n")}, false},
		{"enter defaults to yes", []tea.KeyMsg{keyEnter}, true},
		{"move to no then enter", []tea.KeyMsg{keyRight, keyEnter}, false},
		{"esc does not dismiss", []tea.KeyMsg{keyEsc, runes("n")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, h, b := setup()
			got := make(chan bool, 1)
			go func() { got <- b.AskYesNo(context.Background(), "Quit?") }()

			m = pump(t, m, h)
			m = press(m, tt.keys...)
			if v := result(t, got); v != tt.want {
				t.Errorf("AskYesNo = %v, want %v", v, tt.want)
			}
		})
	}
}

func TestListDialog_DisabledRetry(t *testing.T) {
	m, h, b := setup()
	opts := []bridge.Option{{Label: "Eat", Enabled: false}, {Label: "Drink", Enabled: true}}

	got := make(chan int, 1)
	go func() { got <- b.AskSingleChoice(context.Background(), "Consume what?", opts) }()

	m = pump(t, m, h)
	if !strings.Contains(m.View(), "Eat"+bridge.UnavailableSuffix) {
		t.Errorf("disabled option not decorated:\n%s", m.View())
	}
	m = press(m, keyEnter)

	// The unavailable popup comes next.
	m = pump(t, m, h)
	if !strings.Contains(m.View(), bridge.UnavailableMessage) {
		t.Fatalf("expected unavailable popup:\n%s", m.View())
	}
	m = press(m, keyEnter)

	// Then the same list again.
	m = pump(t, m, h)
	if !strings.Contains(m.View(), "Consume what?") {
		t.Fatalf("expected list again:\n%s", m.View())
	}
	m = press(m, keyDown, keyEnter)

	if v := result(t, got); v != 1 {
		t.Errorf("AskSingleChoice = %d, want 1", v)
	}
}

func TestListDialog_Cancel(t *testing.T) {
	m, h, b := setup()

	got := make(chan int, 1)
	go func() {
		got <- b.AskSingleChoice(context.Background(), "Pick", []bridge.Option{{Label: "a", Enabled: true}})
	}()

	m = pump(t, m, h)
	m = press(m, keyEsc)
	if v := result(t, got); v != bridge.Cancelled {
		t.Errorf("AskSingleChoice = %d, want Cancelled", v)
	}
}

func TestChecklistDialog(t *testing.T) {
	m, h, b := setup()

	got := make(chan []bool, 1)
	go func() {
		got <- b.ChooseToggles(context.Background(), "Settings",
			[]string{"Software rendering", "Force fullscreen", "Trap Back button"},
			[]bool{false, true, false})
	}()

	m = pump(t, m, h)
	view := m.View()
	if !strings.Contains(view, "[x] Force fullscreen") {
		t.Errorf("default not pre-checked:\n%s", view)
	}

	// Check the first, uncheck the second.
	m = press(m, keySpace, keyDown, keySpace, keyEsc, keyEnter)

	v := result(t, got)
	want := []bool{true, false, false}
	for i := range want {
		if v[i] != want[i] {
			t.Errorf("toggles = %v, want %v", v, want)
			break
		}
	}
}

// --- progress and finish ---

func TestProgressMessages(t *testing.T) {
	m, h, _ := setup()

	go func() {
		h.InstallStarted("Upgrading", "0.9", "1.0", 10)
		h.InstallStepDone("purge", "nothing to do")
		h.InstallStep("copy", "Copy game data")
		h.InstallProgress(3, 10)
	}()
	for i := 0; i < 4; i++ {
		m = pump(t, m, h)
	}

	view := m.View()
	for _, want := range []string{"Upgrading 0.9 → 1.0", "3/10 files", "30%", "Copy game data", "purge: nothing to do"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if m.progress.Copied() != 3 {
		t.Errorf("copied = %d, want 3", m.progress.Copied())
	}
}

func TestEngineScreen(t *testing.T) {
	m, h, _ := setup()
	go h.EngineStarted("cataclysm-tiles")
	m = pump(t, m, h)

	if !strings.Contains(m.View(), "Game running") {
		t.Errorf("expected engine screen:\n%s", m.View())
	}
}

func TestFinish_HoldSummary(t *testing.T) {
	m, h, _ := setup()
	go h.Finish(Summary{Outcome: installer.OutcomeDone, Version: "1.0", Copied: 4, Total: 4}, nil)

	m = pump(t, m, h)
	if m.Screen() != screenSummary {
		t.Fatalf("expected summary screen, got %d", m.Screen())
	}
	if !m.Finished() || m.Err() != nil {
		t.Errorf("Finished = %v, Err = %v", m.Finished(), m.Err())
	}
	if !strings.Contains(m.View(), "Installed 1.0 (4 files)") {
		t.Errorf("summary:\n%s", m.View())
	}

	// The channel is closed after the final message.
	if msg := h.NextMsg()(); msg != nil {
		t.Errorf("expected nil after finish, got %T", msg)
	}
}

func TestFinish_QuitsWithoutSummary(t *testing.T) {
	h := NewHost()
	m := New(h, false)
	go h.Finish(Summary{Outcome: installer.OutcomeSkip}, nil)

	m = pump(t, m, h)
	if m.View() != "" {
		t.Error("model should be quitting")
	}
}

func TestCtrlCQuits(t *testing.T) {
	m, _, _ := setup()
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if updated.(Model).View() != "" {
		t.Error("model should be quitting")
	}
}

// --- summary ---

func TestSummary_Views(t *testing.T) {
	s := components.DefaultStyles()

	tests := []struct {
		name    string
		summary Summary
		err     error
		want    []string
	}{
		{
			name:    "skip",
			summary: Summary{Outcome: installer.OutcomeSkip, Version: "1.0"},
			want:    []string{"up to date", "1.0"},
		},
		{
			name:    "dry run",
			summary: Summary{Outcome: installer.OutcomeDryRun},
			want:    []string{"Dry run"},
		},
		{
			name:    "failure",
			summary: Summary{Outcome: installer.OutcomeFailed, Copied: 1, Total: 3},
			err:     errors.New("disk full"),
			want:    []string{"Failed", "disk full", "1 of 3 files", "Restart"},
		},
		{
			name:    "engine requests",
			summary: Summary{Outcome: installer.OutcomeSkip, Version: "1.0", EngineRequests: 7},
			want:    []string{"7 dialogs answered"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := NewSummaryModel(s).SetResult(tt.summary, tt.err).View()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("summary missing %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestWrap(t *testing.T) {
	if wrap(-1, 3) != 2 || wrap(3, 3) != 0 || wrap(1, 0) != 0 {
		t.Error("wrap does not cycle")
	}
}
