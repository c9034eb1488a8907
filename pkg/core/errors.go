package core

import (
	"errors"
	"fmt"
)

// ErrNoBuild indicates rebuilderd has no build, hence no logs, for a package
var ErrNoBuild = errors.New("no build available")

// Operations reported in Error.Op
const (
	OpFetch   = "fetch"
	OpLocalDB = "local-db"
	OpCache   = "cache"
	OpPager   = "pager"
	OpInspect = "inspect"
)

// Error wraps an error with the operation that failed
type Error struct {
	Op      string // Operation that failed
	Package string // Package name if applicable
	Err     error  // Underlying error
}

func (e *Error) Error() string {
	if e.Package != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Package, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap returns err wrapped in an Error for op, or nil when err is nil
func Wrap(op, pkg string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Package: pkg, Err: err}
}
