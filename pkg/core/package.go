// pkg/core/package.go
package core

import (
	"fmt"

	"github.com/archlinux/arch-repro-status/pkg/archweb"
	"github.com/archlinux/arch-repro-status/pkg/rebuilderd"
)

// Package is a package together with its reproducibility status
type Package struct {
	Data          archweb.Package   // Metadata from archweb or the local database
	Status        rebuilderd.Status // StatusUnknown when rebuilderd has no record
	BuildID       int64             // 0 when rebuilderd has no build
	HasDiffoscope bool              // Whether a diffoscope is available for the build
}

// Name returns the package name
func (p Package) Name() string {
	return p.Data.Name
}

// String returns "name version STATUS" with the status padded to five columns
func (p Package) String() string {
	return fmt.Sprintf("%s %s %-5s", p.Data.Name, p.Data.FullVersion(), p.Status)
}
