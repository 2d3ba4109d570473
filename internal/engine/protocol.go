package engine

import "encoding/json"

// Request kinds sent by the engine.
const (
	KindPopup        = "popup"
	KindQueryYN      = "query_yn"
	KindSingleChoice = "single_choice"
)

// ErrUnknownKind is the error text sent back for a request kind the shell
// does not serve.
const ErrUnknownKind = "unknown request kind"

// Request is one line the engine writes to ask for a dialog.
type Request struct {
	ID      int64    `json:"id"`
	Kind    string   `json:"kind"`
	Text    string   `json:"text"`
	Options []Option `json:"options,omitempty"`
}

// Option is one entry of a single_choice request.
type Option struct {
	Label   string `json:"label"`
	Enabled bool   `json:"enabled"`
}

// Response is the line written back to the engine. Answer is null for a
// popup, a bool for query_yn and an index or -1 for single_choice.
type Response struct {
	ID     int64           `json:"id"`
	Answer json.RawMessage `json:"answer,omitempty"`
	Error  string          `json:"error,omitempty"`
}

var answerNull = json.RawMessage("null")

func answer(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return answerNull
	}
	return data
}
