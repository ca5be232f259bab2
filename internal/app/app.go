package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/codex-k8s/course-crawler-init/internal/audit"
	"github.com/codex-k8s/course-crawler-init/internal/courses"
	"github.com/codex-k8s/course-crawler-init/internal/failure"
	"github.com/codex-k8s/course-crawler-init/internal/overlay"
	"github.com/codex-k8s/course-crawler-init/internal/templates"
)

// Deployer recreates the deployment once the overlay is on disk.
type Deployer interface {
	Deploy(ctx context.Context) error
}

// Options wires the pipeline collaborators.
type Options struct {
	// OverlayPath is where the overlay is written.
	OverlayPath string
	// Overlay tunes generated service names.
	Overlay overlay.Options
	// Deployer runs after the overlay is written.
	Deployer Deployer
	// Messages renders console output.
	Messages templates.Renderer
	// Audit records stage outcomes, optional.
	Audit audit.Logger
	// Logger is optional.
	Logger *slog.Logger
	// Stdout receives console messages, discarded when nil.
	Stdout io.Writer
	// Highlight decorates counts in console messages, fmt.Sprint when nil.
	Highlight func(a ...any) string
}

// Request is a single deployment run.
type Request struct {
	// Replicas is the requested recorder count.
	Replicas int
	// CoursesFile is the CSV course list.
	CoursesFile string
}

// App runs load, validate, generate and deploy in order, stopping at the
// first failure.
type App struct {
	overlayPath string
	overlayOpts overlay.Options
	deployer    Deployer
	messages    templates.Renderer
	audit       audit.Logger
	logger      *slog.Logger
	stdout      io.Writer
	highlight   func(a ...any) string
}

// New validates options and returns an App.
func New(opts Options) (*App, error) {
	if strings.TrimSpace(opts.OverlayPath) == "" {
		return nil, fmt.Errorf("overlay path is empty")
	}
	if opts.Deployer == nil {
		return nil, fmt.Errorf("deployer is nil")
	}
	if opts.Messages == nil {
		return nil, fmt.Errorf("messages renderer is nil")
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = io.Discard
	}
	highlight := opts.Highlight
	if highlight == nil {
		highlight = fmt.Sprint
	}
	return &App{
		overlayPath: opts.OverlayPath,
		overlayOpts: opts.Overlay,
		deployer:    opts.Deployer,
		messages:    opts.Messages,
		audit:       opts.Audit,
		logger:      opts.Logger,
		stdout:      stdout,
		highlight:   highlight,
	}, nil
}

// Run executes the pipeline. The overlay is never written when loading or
// validation fails, and the deployer never runs when writing fails.
func (a *App) Run(ctx context.Context, req Request) error {
	items, err := courses.Load(req.CoursesFile)
	if err != nil {
		a.record(ctx, audit.StageLoad, err, "")
		return err
	}
	a.record(ctx, audit.StageLoad, nil, fmt.Sprintf("%d courses from %s", len(items), req.CoursesFile))
	a.say(templates.KeyCoursesLoaded, map[string]any{"Count": a.highlight(len(items))})

	if err := courses.ValidateReplicas(req.Replicas, items); err != nil {
		a.record(ctx, audit.StageValidate, err, "")
		return err
	}
	a.record(ctx, audit.StageValidate, nil, fmt.Sprintf("%d replicas", req.Replicas))
	a.say(templates.KeyLaunching, map[string]any{"Replicas": a.highlight(req.Replicas)})

	doc := overlay.Build(items, a.overlayOpts)
	if err := overlay.WriteFile(a.overlayPath, doc); err != nil {
		a.record(ctx, audit.StageGenerate, err, "")
		return err
	}
	a.record(ctx, audit.StageGenerate, nil, a.overlayPath)
	a.say(templates.KeyOverlayWritten, map[string]any{"Path": a.overlayPath, "Count": len(doc.Services)})

	if err := a.deployer.Deploy(ctx); err != nil {
		a.record(ctx, audit.StageDeploy, err, "")
		return err
	}
	a.record(ctx, audit.StageDeploy, nil, "")
	a.say(templates.KeyDone, nil)
	return nil
}

func (a *App) record(ctx context.Context, stage string, err error, detail string) {
	if a.audit == nil {
		return
	}
	event := audit.Event{Stage: stage, Status: audit.StatusOK, Detail: detail}
	if err != nil {
		event.Status = audit.StatusFailed
		event.Kind = failure.KindOf(err).String()
		event.Detail = err.Error()
	}
	a.audit.Record(ctx, event)
}

func (a *App) say(key string, data any) {
	msg, err := a.messages.Render(key, data)
	if err != nil {
		if a.logger != nil {
			a.logger.Warn("render message failed", "key", key, "error", err)
		}
		return
	}
	fmt.Fprintln(a.stdout, msg)
}
