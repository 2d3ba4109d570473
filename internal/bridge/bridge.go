// Package bridge lets a background goroutine ask the user something through a
// modal dialog and block until the answer arrives.
//
// Dialogs are only ever touched on the UI loop: every call posts the dialog
// construction to the Toolkit and waits on a signal created for that call
// alone. Dialog callbacks, which also run on the UI loop, store the answer
// and raise the signal. Calls have no timeout; a UI loop that never answers
// blocks the caller forever.
package bridge

import (
	"context"
	"fmt"
	"log/slog"
)

const (
	// UnavailableSuffix is appended to the label of disabled list entries.
	UnavailableSuffix = " [unavailable]"

	// UnavailableMessage is shown when a disabled list entry is picked.
	UnavailableMessage = "That option is unavailable."

	ButtonOK  = "OK"
	ButtonYes = "Yes"
	ButtonNo  = "No"
)

// Toolkit is the dialog capability of the UI loop. Post schedules fn on the
// UI loop and may be called from any goroutine; the dialog methods are only
// called from inside a posted function. Alert, Confirm and Checklist are not
// dismissible; List can be cancelled. A Confirm that cannot be put to anyone
// answers fallback.
type Toolkit interface {
	Post(fn func())
	Alert(prompt, button string, onPress func())
	Confirm(prompt, yes, no string, fallback bool, onAnswer func(yes bool))
	List(prompt string, labels []string, onPick func(index int), onCancel func())
	Checklist(title string, labels []string, checked []bool, onDone func(checked []bool))
}

// Bridge serves blocking modal requests through a Toolkit.
type Bridge struct {
	tk     Toolkit
	logger *slog.Logger
}

// New creates a Bridge presenting dialogs with tk.
func New(tk Toolkit, logger *slog.Logger) *Bridge {
	return &Bridge{tk: tk, logger: logger}
}

// Acknowledge shows prompt with a single OK button and returns once it is pressed.
func (b *Bridge) Acknowledge(ctx context.Context, prompt string) {
	req := newRequest(KindAcknowledge, prompt, nil)
	b.acknowledge(ctx, req, prompt)
}

func (b *Bridge) acknowledge(ctx context.Context, req *Request, prompt string) {
	exchange(ctx, b, req, func(reply func(struct{})) {
		b.tk.Alert(prompt, ButtonOK, func() { reply(struct{}{}) })
	})
}

// AskYesNo shows prompt with Yes and No buttons and returns true for Yes.
func (b *Bridge) AskYesNo(ctx context.Context, prompt string) bool {
	return b.AskYesNoOr(ctx, prompt, false)
}

// AskYesNoOr is AskYesNo with the answer to assume when the UI has no one to
// ask, such as a console whose input has ended.
func (b *Bridge) AskYesNoOr(ctx context.Context, prompt string, fallback bool) bool {
	req := newRequest(KindYesNo, prompt, nil)
	return exchange(ctx, b, req, func(reply func(bool)) {
		b.tk.Confirm(prompt, ButtonYes, ButtonNo, fallback, reply)
	})
}

// choiceState tracks a SingleChoice request through its retry loop.
type choiceState int

const (
	choiceInit choiceState = iota
	choiceAwaiting
	choiceUnavailable
	choiceDone
)

// AskSingleChoice shows a cancellable list and returns the index of the
// picked option, or Cancelled. Picking a disabled option shows
// UnavailableMessage and then the same list again, until an enabled option is
// picked or the list is cancelled.
func (b *Bridge) AskSingleChoice(ctx context.Context, prompt string, options []Option) int {
	req := newRequest(KindSingleChoice, prompt, options)
	labels := req.labels()

	picked := Cancelled
	state := choiceInit
	for {
		switch state {
		case choiceInit:
			state = choiceAwaiting

		case choiceAwaiting:
			picked = exchange(ctx, b, req, func(reply func(int)) {
				b.tk.List(prompt, labels, reply, func() { reply(Cancelled) })
			})
			switch {
			case picked == Cancelled:
				state = choiceDone
			case picked < 0 || picked >= len(req.Options):
				b.logger.Warn("list answered with an index out of range",
					slog.String("request", req.ID),
					slog.Int("index", picked),
					slog.Int("options", len(req.Options)),
				)
				picked = Cancelled
				state = choiceDone
			case !req.Options[picked].Enabled:
				state = choiceUnavailable
			default:
				state = choiceDone
			}

		case choiceUnavailable:
			b.logger.Debug("disabled option picked",
				slog.String("request", req.ID),
				slog.Int("index", picked),
			)
			b.acknowledge(ctx, req, UnavailableMessage)
			state = choiceAwaiting

		case choiceDone:
			return picked
		}
	}
}

// ChooseToggles shows a checklist of labels pre-checked with defaults and
// returns the checked state when the user confirms.
func (b *Bridge) ChooseToggles(ctx context.Context, title string, labels []string, defaults []bool) []bool {
	options := make([]Option, len(labels))
	for i, l := range labels {
		options[i] = Option{Label: l, Enabled: true}
	}
	req := newRequest(KindChecklist, title, options)

	initial := make([]bool, len(labels))
	copy(initial, defaults)

	checked := exchange(ctx, b, req, func(reply func([]bool)) {
		b.tk.Checklist(title, labels, initial, reply)
	})

	out := make([]bool, len(labels))
	copy(out, checked)
	return out
}

// exchange posts show to the UI loop and blocks until the reply it was given
// is called. Only the first reply counts.
func exchange[T any](ctx context.Context, b *Bridge, req *Request, show func(reply func(T))) T {
	sig := newSignal()
	var answer T

	reply := func(v T) {
		if !sig.raise(func() { answer = v }) {
			b.logger.Warn("dialog answered twice, keeping first answer",
				slog.String("request", req.ID),
			)
		}
	}

	b.logger.Debug("posting dialog",
		slog.String("request", req.ID),
		slog.String("kind", req.Kind.String()),
	)
	b.tk.Post(func() {
		defer func() {
			if r := recover(); r != nil {
				b.logger.Error("building dialog failed, request will not be answered",
					slog.String("request", req.ID),
					slog.String("kind", req.Kind.String()),
					slog.String("panic", fmt.Sprint(r)),
				)
			}
		}()
		show(reply)
	})

	sig.wait(ctx, b.logger, req)

	b.logger.Debug("dialog answered",
		slog.String("request", req.ID),
		slog.Any("answer", answer),
	)
	return answer
}
