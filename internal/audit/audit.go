package audit

import (
	"context"
	"log/slog"
)

// Pipeline stages.
const (
	StageLoad     = "load"
	StageValidate = "validate"
	StageGenerate = "generate"
	StageDeploy   = "deploy"
)

// Stage outcomes.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Event represents an audit entry for one pipeline stage.
type Event struct {
	// Stage is the pipeline stage.
	Stage string
	// Status is the stage outcome.
	Status string
	// Kind classifies the failure, empty on success.
	Kind string
	// Detail provides additional context.
	Detail string
}

// Logger records audit events.
type Logger interface {
	// Record stores an audit event.
	Record(ctx context.Context, event Event)
}

// StdLogger writes audit events to slog.
type StdLogger struct {
	logger *slog.Logger
}

// New returns a StdLogger.
func New(logger *slog.Logger) *StdLogger {
	return &StdLogger{logger: logger}
}

// Record logs an audit event.
func (l *StdLogger) Record(ctx context.Context, event Event) {
	if l == nil || l.logger == nil {
		return
	}
	level := slog.LevelInfo
	if event.Status == StatusFailed {
		level = slog.LevelError
	}
	l.logger.Log(ctx, level, "audit",
		"stage", event.Stage,
		"status", event.Status,
		"kind", event.Kind,
		"detail", event.Detail,
	)
}
