package phase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Code is the outcome of a phase
type Code string

const (
	CodeSuccess Code = "success"
	CodeError   Code = "error"
)

// Entry is one line of a phase's decision log
type Entry struct {
	Level   string `json:"level" yaml:"level"`
	Message string `json:"message" yaml:"message"`
}

// Result reports what a phase decided
type Result struct {
	RunID   string  `json:"run_id" yaml:"run_id"`
	Phase   string  `json:"phase" yaml:"phase"`
	Code    Code    `json:"code" yaml:"code"`
	Entries []Entry `json:"entries" yaml:"entries"`

	logger *slog.Logger
}

func newResult(ctx context.Context, phase string, logger *slog.Logger) *Result {
	runID := RunIDFrom(ctx)
	return &Result{
		RunID:  runID,
		Phase:  phase,
		Code:   CodeError,
		logger: logger.With("phase", phase, "run_id", runID),
	}
}

// Info records an informational entry
func (r *Result) Info(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.Entries = append(r.Entries, Entry{Level: "info", Message: msg})
	r.logger.Info(msg)
}

// Warn records a warning entry
func (r *Result) Warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.Entries = append(r.Entries, Entry{Level: "warn", Message: msg})
	r.logger.Warn(msg)
}

// Messages returns the entry texts in order
func (r *Result) Messages() []string {
	msgs := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		msgs[i] = e.Message
	}
	return msgs
}

type runIDKey struct{}

// WithRunID attaches the id shared by all phases of one run
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunIDFrom returns the run id of ctx, or a fresh one
func RunIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}
