// Package engine starts the game engine and serves the modal dialogs it asks
// for while it runs.
//
// The engine talks to the shell over its standard streams, one JSON object
// per line. Lines that are not JSON objects are the engine's own output and
// go to the log.
package engine

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/druarnfield/splash/internal/bridge"
	"github.com/druarnfield/splash/internal/exec"
)

// maxLine bounds a single protocol line.
const maxLine = 1 << 20

// Modal is the dialog surface the engine may use.
type Modal interface {
	Acknowledge(ctx context.Context, prompt string)
	AskYesNo(ctx context.Context, prompt string) bool
	AskSingleChoice(ctx context.Context, prompt string, options []bridge.Option) int
}

// Command is the engine executable and its arguments.
type Command struct {
	Name string
	Args []string
}

// Session is a running engine.
type Session struct {
	proc   exec.Process
	modal  Modal
	logger *slog.Logger

	served int
}

// Start launches the engine.
func Start(ctx context.Context, starter exec.Starter, cmd Command, modal Modal, logger *slog.Logger) (*Session, error) {
	proc, err := starter.Start(ctx, cmd.Name, cmd.Args...)
	if err != nil {
		return nil, fmt.Errorf("starting engine: %w", err)
	}
	logger.Info("engine started", slog.String("command", cmd.Name))
	return &Session{proc: proc, modal: modal, logger: logger}, nil
}

// Served returns the number of requests answered so far.
func (s *Session) Served() int {
	return s.served
}

// Serve answers engine requests one at a time until the engine closes its
// output, then waits for it to exit. It must be called from a single
// goroutine; that goroutine is the only user of the Modal while the engine
// runs.
func (s *Session) Serve(ctx context.Context) error {
	enc := json.NewEncoder(s.proc.Stdin())
	writable := true

	rd := bufio.NewReaderSize(s.proc.Stdout(), 64*1024)
	for {
		raw, tooLong, readErr := readLine(rd)
		line := bytes.TrimSpace(raw)
		switch {
		case tooLong:
			s.logger.Warn("engine line too long, skipped", slog.Int("limit", maxLine))
		case len(line) > 0:
			if req, ok := s.parse(line); ok {
				resp := s.handle(ctx, req)
				s.served++
				if writable {
					if err := enc.Encode(resp); err != nil {
						s.logger.Warn("engine stopped reading answers",
							slog.Int64("id", req.ID),
							slog.String("error", err.Error()),
						)
						writable = false
					}
				}
			}
		}

		if readErr != nil {
			if readErr != io.EOF {
				s.logger.Error("reading engine output failed", slog.String("error", readErr.Error()))
				// The engine must not block on a full pipe while we wait for it.
				_, _ = io.Copy(io.Discard, s.proc.Stdout())
			}
			break
		}
	}

	s.proc.Stdin().Close()
	err := s.proc.Wait()
	if err != nil {
		s.logger.Error("engine exited with error",
			slog.Int("exit_code", exec.ExitCode(err)),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("engine: %w", err)
	}
	s.logger.Info("engine exited", slog.Int("requests", s.served))
	return nil
}

// readLine returns the next line from r. A line longer than maxLine is
// consumed up to its newline and reported as tooLong with no content.
func readLine(r *bufio.Reader) (line []byte, tooLong bool, err error) {
	for {
		chunk, err := r.ReadSlice('\n')
		if !tooLong {
			if len(line)+len(chunk) > maxLine {
				tooLong = true
				line = nil
			} else {
				line = append(line, chunk...)
			}
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		return line, tooLong, err
	}
}

func (s *Session) parse(line []byte) (Request, bool) {
	var req Request
	if line[0] != '{' {
		s.logger.Debug("engine", slog.String("output", string(line)))
		return req, false
	}
	if err := json.Unmarshal(line, &req); err != nil {
		s.logger.Warn("malformed engine request, skipping",
			slog.String("line", string(line)),
			slog.String("error", err.Error()),
		)
		return req, false
	}
	return req, true
}

func (s *Session) handle(ctx context.Context, req Request) Response {
	s.logger.Debug("engine request",
		slog.Int64("id", req.ID),
		slog.String("kind", req.Kind),
	)

	switch req.Kind {
	case KindPopup:
		s.modal.Acknowledge(ctx, req.Text)
		return Response{ID: req.ID, Answer: answerNull}

	case KindQueryYN:
		return Response{ID: req.ID, Answer: answer(s.modal.AskYesNo(ctx, req.Text))}

	case KindSingleChoice:
		options := make([]bridge.Option, len(req.Options))
		for i, o := range req.Options {
			options[i] = bridge.Option{Label: o.Label, Enabled: o.Enabled}
		}
		return Response{ID: req.ID, Answer: answer(s.modal.AskSingleChoice(ctx, req.Text, options))}

	default:
		s.logger.Warn("unknown engine request kind",
			slog.Int64("id", req.ID),
			slog.String("kind", req.Kind),
		)
		return Response{ID: req.ID, Error: ErrUnknownKind}
	}
}
