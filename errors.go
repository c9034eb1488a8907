// errors.go
package reprostatus

import (
	"github.com/archlinux/arch-repro-status/pkg/core"
	"github.com/archlinux/arch-repro-status/pkg/fetch"
)

var (
	// ErrNoBuild indicates rebuilderd has no build, hence no logs, for a package
	ErrNoBuild = core.ErrNoBuild

	// ErrMalformed indicates a response that could not be decoded
	ErrMalformed = fetch.ErrMalformed
)

// Error wraps an error with the operation that failed
type Error = core.Error

// StatusError is returned when a service replies with anything but 200 OK
type StatusError = fetch.StatusError

// Operations reported in Error.Op
const (
	OpFetch   = core.OpFetch
	OpLocalDB = core.OpLocalDB
	OpCache   = core.OpCache
	OpPager   = core.OpPager
	OpInspect = core.OpInspect
)
