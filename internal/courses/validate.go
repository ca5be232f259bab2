package courses

import (
	"fmt"

	"github.com/codex-k8s/course-crawler-init/internal/failure"
)

// MismatchError reports a replica count that differs from the course count.
type MismatchError struct {
	// Requested is the replica count asked for.
	Requested int
	// Actual is the number of loaded courses.
	Actual int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("replicas count must be equal to courses count (replicas: %d, courses: %d)", e.Requested, e.Actual)
}

// Kind implements failure.Classified.
func (e *MismatchError) Kind() failure.Kind { return failure.KindConfigMismatch }

// DuplicateError reports a course id listed more than once.
type DuplicateError struct {
	// ID is the repeated course id.
	ID uint32
	// First and Second are the 1-based positions of the repeated entries.
	First, Second int
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("course id %d is listed twice (positions %d and %d)", e.ID, e.First, e.Second)
}

// Kind implements failure.Classified.
func (e *DuplicateError) Kind() failure.Kind { return failure.KindConfigMismatch }

// ValidateReplicas requires exactly one replica per course and unique course ids.
func ValidateReplicas(requested int, items []Course) error {
	if requested != len(items) {
		return &MismatchError{Requested: requested, Actual: len(items)}
	}
	seen := make(map[uint32]int, len(items))
	for i, item := range items {
		if first, ok := seen[item.ID]; ok {
			return &DuplicateError{ID: item.ID, First: first, Second: i + 1}
		}
		seen[item.ID] = i + 1
	}
	return nil
}
