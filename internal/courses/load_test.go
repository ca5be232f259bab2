package courses

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/codex-k8s/course-crawler-init/internal/failure"
)

func writeCourses(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "courses.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadKeepsRowOrder(t *testing.T) {
	path := writeCourses(t, "id,title\n205,Go\n101,Rust\n7,Zig\n")

	got, err := Load(path)
	require.NoError(t, err)

	want := []Course{{ID: 205}, {ID: 101}, {ID: 7}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("courses mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadIgnoresExtraColumns(t *testing.T) {
	path := writeCourses(t, "title,id,slug\n\"Go, advanced\",42,go-adv\n")

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []Course{{ID: 42}}, got)
}

func TestLoadHeaderOnly(t *testing.T) {
	got, err := Load(writeCourses(t, "id\n"))
	require.NoError(t, err)
	require.Empty(t, got)
	require.NotNil(t, got)
}

func TestLoadEmptyFile(t *testing.T) {
	got, err := Load(writeCourses(t, ""))
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestLoadStripsByteOrderMark(t *testing.T) {
	got, err := Load(writeCourses(t, "\ufeffid\n3\n"))
	require.NoError(t, err)
	require.Equal(t, []Course{{ID: 3}}, got)
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.csv")

	_, err := Load(path)
	require.Error(t, err)

	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	require.Equal(t, path, ioErr.Path)
	require.ErrorIs(t, err, os.ErrNotExist)
	require.Equal(t, failure.KindIO, failure.KindOf(err))
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		line    int
		message string
	}{
		{name: "non numeric id", input: "id\n101\nabc\n", line: 3, message: `"abc" is not a positive integer`},
		{name: "zero id", input: "id\n0\n", line: 2, message: "not a positive integer"},
		{name: "negative id", input: "id\n-5\n", line: 2, message: "not a positive integer"},
		{name: "overflow id", input: "id\n4294967296\n", line: 2, message: "not a positive integer"},
		{name: "empty id", input: "id,title\n,Go\n", line: 2, message: "id is empty"},
		{name: "missing column", input: "course,title\n1,Go\n", line: 1, message: "column is missing"},
		{name: "short row", input: "id,title\n1\n", line: 2, message: "wrong number of fields"},
		{name: "bare quote", input: "id\n1\"2\n", line: 2, message: "bare"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.input))
			require.Error(t, err)

			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			require.Equal(t, tc.line, parseErr.Line)
			require.Contains(t, err.Error(), tc.message)
			require.Equal(t, failure.KindParse, failure.KindOf(err))
		})
	}
}

func TestParseTrimsIDWhitespace(t *testing.T) {
	got, err := Parse(strings.NewReader("id\n 12 \n"))
	require.NoError(t, err)
	require.Equal(t, []Course{{ID: 12}}, got)
}
