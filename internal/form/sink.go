// internal/form/sink.go
//
// Contact form – submission sinks.
//
// Context
//   An accepted Snapshot is handed to a Sink.  The form only ever logs
//   submissions for developers; there is no network delivery.  The form
//   definition may list sink actions (see ActionDef); BuildSink turns that
//   list into one fan-out Sink.
//
//   Sink errors are logged by the caller, never shown to the visitor.  The
//   State has already been reset by the time a Sink runs.
//
//------------------------------------------------------------------------------

package form

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Sink receives accepted snapshots.
type Sink interface {
	Emit(ctx context.Context, snap Snapshot) error
}

// SinkFunc adapts a plain function to Sink.
type SinkFunc func(ctx context.Context, snap Snapshot) error

// Emit implements Sink.
func (f SinkFunc) Emit(ctx context.Context, snap Snapshot) error { return f(ctx, snap) }

// -----------------------------------------------------------------------------
// Log sink
// -----------------------------------------------------------------------------

// LogSink writes each snapshot as one structured INFO entry.
type LogSink struct{ Log *zap.SugaredLogger }

// Emit implements Sink.
func (l LogSink) Emit(_ context.Context, s Snapshot) error {
	log := l.Log
	if log == nil {
		log = zap.S()
	}
	log.Infow("contact form submitted",
		"name", s.Name,
		"email", s.Email,
		"phone", s.Phone,
		"phone_type", string(s.PhoneType),
		"role", string(s.Role),
		"bio", s.Bio,
		"email_updates", s.EmailUpdates,
		"submitted_on", s.SubmittedOn.Format(time.RFC3339Nano),
	)
	return nil
}

// -----------------------------------------------------------------------------
// JSON-lines sink
// -----------------------------------------------------------------------------

// JSONSink writes each snapshot as one JSON object per line.
type JSONSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewJSONSink returns a JSONSink writing to w.
func NewJSONSink(w io.Writer) *JSONSink { return &JSONSink{w: w} }

// Emit implements Sink.
func (j *JSONSink) Emit(_ context.Context, s Snapshot) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	_, err = j.w.Write(append(b, '\n'))
	return err
}

// -----------------------------------------------------------------------------
// Fan-out
// -----------------------------------------------------------------------------

// Multi emits to every sink in order and joins their errors.
type Multi []Sink

// Emit implements Sink.
func (m Multi) Emit(ctx context.Context, s Snapshot) error {
	var errs []error
	for _, sk := range m {
		if err := sk.Emit(ctx, s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// BuildSink converts the definition's actions into a Sink.  Unknown action
// types are skipped with a warning so a typo never blocks startup.  With
// no actions the result is a LogSink.
func BuildSink(def *Definition, log *zap.SugaredLogger, stdout io.Writer) Sink {
	if log == nil {
		log = zap.S()
	}
	if def == nil || len(def.Actions) == 0 {
		return LogSink{Log: log}
	}

	var out Multi
	for _, ac := range def.Actions {
		switch ac.Type {
		case "log":
			out = append(out, LogSink{Log: log})
		case "stdout":
			out = append(out, NewJSONSink(stdout))
		default:
			log.Warnw("form action warning",
				"form", def.ID, "action", ac.Type, "warning", "unsupported action")
		}
	}
	if len(out) == 0 {
		return LogSink{Log: log}
	}
	return out
}
