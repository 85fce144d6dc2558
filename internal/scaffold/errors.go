package scaffold

import (
	"errors"
	"fmt"
)

var ErrEmptyName = errors.New("feature name cannot be empty")

// WriteError reports a failed directory creation or file write. Files written
// before the failure stay on disk.
type WriteError struct {
	Op   string
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// PathEscapeError is returned when a resolved template path would land outside
// the output directory.
type PathEscapeError struct {
	Path string
	Root string
}

func (e *PathEscapeError) Error() string {
	return fmt.Sprintf("resolved path %s escapes output directory %s", e.Path, e.Root)
}
