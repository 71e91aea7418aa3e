package core

import (
	"errors"
	"fmt"
)

var (
	ErrLoad              = errors.New("asset load failed")
	ErrCapacityExceeded  = errors.New("bone count exceeds pose capacity")
	ErrClipNotFound      = errors.New("animation clip not found")
	ErrBoneCountMismatch = errors.New("bone count mismatch")
)

// LoadError describes a malformed or missing asset. Line is 1-based, 0 when the
// problem concerns the whole file.
type LoadError struct {
	Path   string
	Line   int
	Reason string
	Err    error
}

func NewLoadError(path string, line int, reason string, args ...interface{}) *LoadError {
	return &LoadError{
		Path:   path,
		Line:   line,
		Reason: fmt.Sprintf(reason, args...),
	}
}

func (e *LoadError) Error() string {
	msg := e.Reason
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s", msg, e.Err)
	}
	if e.Line > 0 {
		return fmt.Sprintf("failed to load '%s' (line %d): %s", e.Path, e.Line, msg)
	}
	return fmt.Sprintf("failed to load '%s': %s", e.Path, msg)
}

// Is makes every LoadError match ErrLoad.
func (e *LoadError) Is(target error) bool {
	return target == ErrLoad
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Wrap attaches a cause, e.g. ErrBoneCountMismatch or an I/O error.
func (e *LoadError) Wrap(err error) *LoadError {
	e.Err = err
	return e
}

var (
	ErrInvalidHierarchy = errors.New("invalid bone hierarchy")
	ErrInvalidClip      = errors.New("invalid animation clip")
	ErrDuplicateClip    = errors.New("animation clip already exists")
	ErrShapeLimit       = errors.New("shape limit reached")
	ErrNoLoader         = errors.New("no loader registered for resource type")
)
