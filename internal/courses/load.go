package courses

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/codex-k8s/course-crawler-init/internal/failure"
)

var errMissingColumn = errors.New("column is missing from header")

// IOError reports an unreadable courses file.
type IOError struct {
	// Path is the courses file path, empty when reading from a stream.
	Path string
	// Err is the underlying error.
	Err error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("read courses: %v", e.Err)
	}
	return fmt.Sprintf("read courses %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Kind implements failure.Classified.
func (e *IOError) Kind() failure.Kind { return failure.KindIO }

// ParseError reports a malformed courses row or field.
type ParseError struct {
	// Line is the 1-based line number in the input.
	Line int
	// Column is the offending column name, if known.
	Column string
	// Err is the underlying error.
	Err error
}

func (e *ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("parse courses: line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("parse courses: line %d: column %q: %v", e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Kind implements failure.Classified.
func (e *ParseError) Kind() failure.Kind { return failure.KindParse }

// Load reads courses from a CSV file in row order.
func Load(path string) ([]Course, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	defer f.Close()

	items, err := Parse(f)
	if err != nil {
		var ioErr *IOError
		if errors.As(err, &ioErr) && ioErr.Path == "" {
			ioErr.Path = path
		}
		return nil, err
	}
	return items, nil
}

// Parse reads courses from CSV with a header row. Only the id column is used;
// every row must have as many fields as the header.
func Parse(r io.Reader) ([]Course, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []Course{}, nil
	}
	if err != nil {
		return nil, readError(err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	idx := slices.Index(header, IDColumn)
	if idx < 0 {
		return nil, &ParseError{Line: 1, Column: IDColumn, Err: errMissingColumn}
	}

	items := []Course{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, readError(err)
		}
		line, _ := reader.FieldPos(idx)
		id, err := parseID(record[idx])
		if err != nil {
			return nil, &ParseError{Line: line, Column: IDColumn, Err: err}
		}
		items = append(items, Course{ID: id})
	}
	return items, nil
}

func parseID(raw string) (uint32, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, errors.New("id is empty")
	}
	id, err := strconv.ParseUint(value, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("id %q is not a positive integer", value)
	}
	return uint32(id), nil
}

func readError(err error) error {
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		return &ParseError{Line: csvErr.Line, Err: csvErr.Err}
	}
	return &IOError{Err: err}
}
