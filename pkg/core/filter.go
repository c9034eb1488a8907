package core

import (
	"github.com/archlinux/arch-repro-status/pkg/rebuilderd"
)

// Filter returns the packages matching both the status (when non-nil) and
// one of the names (when non-empty). Names are compared exactly. Order is
// preserved and the input is left untouched; no match yields an empty,
// non-nil slice.
func Filter(packages []Package, status *rebuilderd.Status, names []string) []Package {
	var wanted map[string]struct{}
	if len(names) > 0 {
		wanted = make(map[string]struct{}, len(names))
		for _, name := range names {
			wanted[name] = struct{}{}
		}
	}

	kept := make([]Package, 0, len(packages))
	for _, pkg := range packages {
		if status != nil && pkg.Status != *status {
			continue
		}
		if wanted != nil {
			if _, ok := wanted[pkg.Name()]; !ok {
				continue
			}
		}
		kept = append(kept, pkg)
	}
	return kept
}
