package launcher

import (
	"context"
	"slices"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Host connects the worker goroutine to the bubbletea program. The worker
// reports progress and posts dialog work through it; the Model reads the
// resulting messages one at a time with NextMsg.
//
// Host implements bridge.Toolkit. Its dialog methods must only be called
// from a function passed to Post, which the Model runs inside Update.
type Host struct {
	msgs   chan tea.Msg
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	pending []dialog
	closed  bool
}

// NewHost creates a Host.
func NewHost() *Host {
	ctx, cancel := context.WithCancel(context.Background())
	return &Host{
		msgs:   make(chan tea.Msg, 64),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Cancel stops delivering messages. Pending sends return immediately.
func (h *Host) Cancel() {
	h.cancel()
}

// send delivers a message on the channel, respecting cancellation to prevent
// deadlocks if the TUI has been shut down.
func (h *Host) send(msg tea.Msg) bool {
	select {
	case h.msgs <- msg:
		return true
	case <-h.ctx.Done():
		return false
	}
}

// NextMsg returns a tea.Cmd that waits for the next message from the channel.
func (h *Host) NextMsg() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-h.msgs
		if !ok {
			return nil
		}
		return msg
	}
}

// Post schedules fn on the UI loop.
func (h *Host) Post(fn func()) {
	h.send(postMsg{fn: fn})
}

func (h *Host) Alert(prompt, button string, onPress func()) {
	h.push(dialog{kind: dialogAlert, prompt: prompt, buttons: []string{button}, onPress: onPress})
}

// Confirm shows a yes/no dialog. Someone is always at the terminal, so the
// fallback answer is never used.
func (h *Host) Confirm(prompt, yes, no string, _ bool, onAnswer func(bool)) {
	h.push(dialog{kind: dialogConfirm, prompt: prompt, buttons: []string{yes, no}, onAnswer: onAnswer})
}

func (h *Host) List(prompt string, labels []string, onPick func(int), onCancel func()) {
	h.push(dialog{
		kind:     dialogList,
		prompt:   prompt,
		labels:   slices.Clone(labels),
		onPick:   onPick,
		onCancel: onCancel,
	})
}

func (h *Host) Checklist(title string, labels []string, checked []bool, onDone func([]bool)) {
	state := make([]bool, len(labels))
	copy(state, checked)
	h.push(dialog{
		kind:    dialogChecklist,
		prompt:  title,
		labels:  slices.Clone(labels),
		checked: state,
		onDone:  onDone,
	})
}

func (h *Host) push(d dialog) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pending = append(h.pending, d)
}

// takeDialogs returns the dialogs built since the last call.
func (h *Host) takeDialogs() []dialog {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := h.pending
	h.pending = nil
	return out
}

func (h *Host) InstallStarted(label, from, to string, total int) {
	h.send(InstallStartedMsg{Label: label, From: from, To: to, Total: total})
}

func (h *Host) InstallStep(name, description string) {
	h.send(StepMsg{Name: name, Description: description})
}

func (h *Host) InstallStepDone(name, status string) {
	h.send(StepDoneMsg{Name: name, Status: status})
}

func (h *Host) InstallProgress(copied, total int) {
	h.send(ProgressMsg{Copied: copied, Total: total})
}

func (h *Host) EngineStarted(command string) {
	h.send(EngineStartedMsg{Command: command})
}

// Finish sends the final message and closes the channel. Nothing may be sent
// afterwards.
func (h *Host) Finish(summary Summary, err error) {
	h.send(FinishedMsg{Summary: summary, Err: err})

	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.closed {
		h.closed = true
		close(h.msgs)
	}
}
