package compose

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/codex-k8s/course-crawler-init/internal/executil"
	"github.com/codex-k8s/course-crawler-init/internal/failure"
	"github.com/codex-k8s/course-crawler-init/internal/security"
)

// DefaultCommand invokes the Compose v2 plugin.
var DefaultCommand = []string{"docker", "compose"}

// DefaultOverrideFile is the overlay Compose merges without being told to.
const DefaultOverrideFile = "compose.override.yaml"

// ProjectFiles returns the files to pass with -f so Compose merges overlay
// over base. It is nil when overlay sits in dir under DefaultOverrideFile
// and Compose discovers both on its own.
func ProjectFiles(dir, base, overlay string) []string {
	if filepath.Base(overlay) == DefaultOverrideFile && sameDir(filepath.Dir(overlay), dir) {
		return nil
	}
	return []string{base, overlay}
}

func sameDir(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// Step names one Compose invocation of a deployment.
type Step string

const (
	StepDown Step = "down"
	StepUp   Step = "up"
)

// Runner executes a command to completion.
type Runner interface {
	Run(ctx context.Context, cmd executil.Command) (executil.Result, error)
}

// ExecRunner runs commands as child processes, streaming their output.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run implements Runner.
func (r ExecRunner) Run(ctx context.Context, cmd executil.Command) (executil.Result, error) {
	return executil.RunCommand(ctx, cmd, r.Stdout, r.Stderr)
}

// CommandError reports a failed Compose step.
type CommandError struct {
	Step     Step
	Command  string
	ExitCode int
	Output   string
	Err      error
}

func (e *CommandError) Error() string {
	if e.ExitCode < 0 {
		return fmt.Sprintf("%s failed: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("%s failed (exit code %d): %v", e.Command, e.ExitCode, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

// Kind implements failure.Classified.
func (e *CommandError) Kind() failure.Kind { return failure.KindSubprocess }

// Trigger recreates the Compose deployment found in Dir.
type Trigger struct {
	// Command is the Compose entry point, DefaultCommand when empty.
	Command []string
	// Dir is the project directory.
	Dir string
	// Files are passed as -f flags in order. Empty means Compose discovers
	// compose.yaml and compose.override.yaml in Dir.
	Files []string
	// Env adds variables on top of the inherited environment.
	Env map[string]string
	// Runner executes the steps, ExecRunner when nil.
	Runner Runner
	// Logger is optional.
	Logger *slog.Logger
}

// Commands returns the down and up invocations in execution order.
func (t Trigger) Commands() []executil.Command {
	base := t.Command
	if len(base) == 0 {
		base = DefaultCommand
	}
	env := t.env()
	prefix := slices.Clone(base[1:])
	for _, file := range t.Files {
		prefix = append(prefix, "-f", file)
	}
	build := func(args ...string) executil.Command {
		return executil.Command{
			Name: base[0],
			Args: append(slices.Clone(prefix), args...),
			Dir:  t.Dir,
			Env:  env,
		}
	}
	return []executil.Command{
		build(string(StepDown)),
		build(string(StepUp), "--build", "-d"),
	}
}

// Deploy tears the deployment down and brings it back up. A failed down
// step aborts before up runs.
func (t Trigger) Deploy(ctx context.Context) error {
	runner := t.Runner
	if runner == nil {
		runner = ExecRunner{}
	}

	steps := []Step{StepDown, StepUp}
	for i, cmd := range t.Commands() {
		step := steps[i]
		if t.Logger != nil {
			t.Logger.Info("running compose", "step", step, "command", cmd.String(), "dir", cmd.Dir)
			if len(cmd.Env) > 0 {
				t.Logger.Debug("compose environment", "step", step, "env", security.RedactEnv(cmd.Env))
			}
		}
		res, err := runner.Run(ctx, cmd)
		if err != nil {
			if t.Logger != nil && strings.TrimSpace(res.Output) != "" {
				t.Logger.Error("compose failed", "step", step, "output", strings.TrimSpace(res.Output))
			}
			return &CommandError{
				Step:     step,
				Command:  cmd.String(),
				ExitCode: res.ExitCode,
				Output:   res.Output,
				Err:      err,
			}
		}
	}
	return nil
}

func (t Trigger) env() []string {
	if len(t.Env) == 0 {
		return nil
	}
	out := make([]string, 0, len(t.Env))
	for _, key := range slices.Sorted(maps.Keys(t.Env)) {
		out = append(out, key+"="+t.Env[key])
	}
	return out
}
