package overlay

import (
	"fmt"
	"path/filepath"

	"github.com/google/renameio/v2"

	"github.com/codex-k8s/course-crawler-init/internal/failure"
)

// WriteError reports a failed overlay write. The destination is left as it was.
type WriteError struct {
	// Path is the overlay destination.
	Path string
	// Err is the underlying error.
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write overlay %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Kind implements failure.Classified.
func (e *WriteError) Kind() failure.Kind { return failure.KindIO }

// WriteFile replaces path with the encoded document. Content goes to a
// pending file in the same directory which is renamed over path once synced.
func WriteFile(path string, d Document) error {
	pf, err := renameio.NewPendingFile(path,
		renameio.WithTempDir(filepath.Dir(path)),
		renameio.WithPermissions(0o644),
	)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	defer pf.Cleanup()

	if err := Encode(pf, d); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}
