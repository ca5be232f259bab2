package compose

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/codex-k8s/course-crawler-init/internal/executil"
	"github.com/codex-k8s/course-crawler-init/internal/failure"
)

type fakeRunner struct {
	calls []executil.Command
	fail  map[string]executil.Result
}

func (f *fakeRunner) Run(_ context.Context, cmd executil.Command) (executil.Result, error) {
	f.calls = append(f.calls, cmd)
	if res, ok := f.fail[cmd.Args[len(cmd.Args)-1]]; ok {
		return res, errors.New("exit status 1")
	}
	return executil.Result{}, nil
}

func TestCommands(t *testing.T) {
	trigger := Trigger{Dir: "/srv/crawler", Env: map[string]string{"B": "2", "A": "1"}}

	want := []executil.Command{
		{Name: "docker", Args: []string{"compose", "down"}, Dir: "/srv/crawler", Env: []string{"A=1", "B=2"}},
		{Name: "docker", Args: []string{"compose", "up", "--build", "-d"}, Dir: "/srv/crawler", Env: []string{"A=1", "B=2"}},
	}
	if diff := cmp.Diff(want, trigger.Commands()); diff != "" {
		t.Fatalf("commands mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, []string{"docker", "compose"}, DefaultCommand)
}

func TestCommandsLegacyBinary(t *testing.T) {
	cmds := Trigger{Command: []string{"docker-compose"}}.Commands()

	require.Equal(t, "docker-compose down", cmds[0].String())
	require.Equal(t, "docker-compose up --build -d", cmds[1].String())
	require.Nil(t, cmds[0].Env)
}

func TestCommandsWithFiles(t *testing.T) {
	cmds := Trigger{Files: []string{"compose.yaml", "/srv/recorders.yaml"}}.Commands()

	require.Equal(t, "docker compose -f compose.yaml -f /srv/recorders.yaml down", cmds[0].String())
	require.Equal(t, "docker compose -f compose.yaml -f /srv/recorders.yaml up --build -d", cmds[1].String())
}

func TestProjectFiles(t *testing.T) {
	dir := t.TempDir()

	require.Nil(t, ProjectFiles(dir, "compose.yaml", filepath.Join(dir, DefaultOverrideFile)))
	require.Nil(t, ProjectFiles(".", "compose.yaml", DefaultOverrideFile))
	require.Equal(t,
		[]string{"compose.yaml", filepath.Join(dir, "recorders.yaml")},
		ProjectFiles(dir, "compose.yaml", filepath.Join(dir, "recorders.yaml")),
	)
	other := filepath.Join(t.TempDir(), DefaultOverrideFile)
	require.Equal(t, []string{"compose.yaml", other}, ProjectFiles(dir, "compose.yaml", other))
}

func TestDeployRunsDownThenUp(t *testing.T) {
	runner := &fakeRunner{}

	require.NoError(t, Trigger{Runner: runner}.Deploy(context.Background()))
	require.Len(t, runner.calls, 2)
	require.Equal(t, "docker compose down", runner.calls[0].String())
	require.Equal(t, "docker compose up --build -d", runner.calls[1].String())
}

func TestDeployDownFailureSkipsUp(t *testing.T) {
	runner := &fakeRunner{fail: map[string]executil.Result{"down": {ExitCode: 1, Output: "no such project"}}}

	err := Trigger{Runner: runner}.Deploy(context.Background())
	require.Error(t, err)
	require.Len(t, runner.calls, 1)

	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	require.Equal(t, StepDown, cmdErr.Step)
	require.Equal(t, 1, cmdErr.ExitCode)
	require.Equal(t, "no such project", cmdErr.Output)
	require.Contains(t, err.Error(), "docker compose down failed (exit code 1)")
	require.Equal(t, failure.KindSubprocess, failure.KindOf(err))
}

func TestDeployUpFailure(t *testing.T) {
	runner := &fakeRunner{fail: map[string]executil.Result{"-d": {ExitCode: 17}}}

	err := Trigger{Runner: runner}.Deploy(context.Background())

	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	require.Equal(t, StepUp, cmdErr.Step)
	require.Equal(t, 17, cmdErr.ExitCode)
	require.Len(t, runner.calls, 2)
}

func TestDeployMissingBinary(t *testing.T) {
	err := Trigger{Command: []string{"definitely-not-docker-4711", "compose"}}.Deploy(context.Background())
	require.Error(t, err)

	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	require.Equal(t, StepDown, cmdErr.Step)
	require.Equal(t, -1, cmdErr.ExitCode)
	require.ErrorIs(t, err, exec.ErrNotFound)
	require.Equal(t, failure.KindSubprocess, failure.KindOf(err))
}

func TestDeployWithExecRunner(t *testing.T) {
	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("true not available")
	}
	require.NoError(t, Trigger{Command: []string{"true"}, Dir: t.TempDir()}.Deploy(context.Background()))
}
