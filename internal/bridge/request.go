package bridge

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// Cancelled is the answer to a SingleChoice request whose list was dismissed.
const Cancelled = -1

// Kind is the shape of a modal interaction.
type Kind int

const (
	KindAcknowledge Kind = iota
	KindYesNo
	KindSingleChoice
	KindChecklist
)

func (k Kind) String() string {
	switch k {
	case KindAcknowledge:
		return "acknowledge"
	case KindYesNo:
		return "yes_no"
	case KindSingleChoice:
		return "single_choice"
	case KindChecklist:
		return "checklist"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Option is one entry of a SingleChoice list.
type Option struct {
	Label   string
	Enabled bool
}

// Request describes one modal interaction. It is built by the asking
// goroutine, submitted once and never modified afterwards.
type Request struct {
	// ID correlates log records of one interaction.
	ID      string
	Kind    Kind
	Prompt  string
	Options []Option
}

func newRequest(kind Kind, prompt string, options []Option) *Request {
	return &Request{
		ID:      uuid.NewString(),
		Kind:    kind,
		Prompt:  prompt,
		Options: slices.Clone(options),
	}
}

// labels returns the visible list labels, marking disabled entries.
func (r *Request) labels() []string {
	out := make([]string, len(r.Options))
	for i, o := range r.Options {
		out[i] = o.Label
		if !o.Enabled {
			out[i] += UnavailableSuffix
		}
	}
	return out
}
