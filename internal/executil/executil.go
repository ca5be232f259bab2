package executil

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// outputTailSize bounds how much child output is kept for error reports.
const outputTailSize = 4096

// StopGracePeriod is how long a cancelled command may take to exit after
// os.Interrupt before it is killed.
const StopGracePeriod = 30 * time.Second

// Command is a process invocation with an explicit argument vector.
type Command struct {
	// Name is the executable looked up in PATH.
	Name string
	// Args are passed to the executable verbatim.
	Args []string
	// Dir is the working directory, empty for the current one.
	Dir string
	// Env is appended to the inherited process environment.
	Env []string
}

// String returns the command line for logs.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Result holds the outcome of a finished command.
type Result struct {
	// ExitCode is -1 when the process did not start or was killed.
	ExitCode int
	// Output is the tail of combined stdout and stderr.
	Output string
}

// BuildCommand builds an exec.Cmd inheriting the current environment.
// Cancelling ctx interrupts the process and kills it after StopGracePeriod.
func BuildCommand(ctx context.Context, c Command) *exec.Cmd {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = append(os.Environ(), c.Env...)
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = StopGracePeriod
	return cmd
}

// RunCommand executes a command, streaming its output to stdout and stderr
// while keeping a tail for diagnostics. Nil writers discard the stream.
func RunCommand(ctx context.Context, c Command, stdout, stderr io.Writer) (Result, error) {
	cmd := BuildCommand(ctx, c)

	tail := &tailBuffer{limit: outputTailSize}
	cmd.Stdout = io.MultiWriter(orDiscard(stdout), tail)
	cmd.Stderr = io.MultiWriter(orDiscard(stderr), tail)
	err := cmd.Run()

	exitCode := -1
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	}
	return Result{ExitCode: exitCode, Output: tail.String()}, err
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}

// tailBuffer keeps the last limit bytes written to it. Stdout and stderr
// copiers write concurrently.
type tailBuffer struct {
	mu    sync.Mutex
	limit int
	buf   []byte
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.limit; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.buf)
}
