package core

import (
	"github.com/archlinux/arch-repro-status/pkg/archweb"
	"github.com/archlinux/arch-repro-status/pkg/pacman"
	"github.com/archlinux/arch-repro-status/pkg/rebuilderd"
)

// Merge joins metadata with rebuilderd records by exact package name.
// The result has one entry per metadata record, in the same order. When
// several records share a name the first one wins; packages without a
// record are reported as unknown.
func Merge(meta []archweb.Package, records []rebuilderd.Package) []Package {
	byName := make(map[string]*rebuilderd.Package, len(records))
	for i := range records {
		if _, seen := byName[records[i].Name]; !seen {
			byName[records[i].Name] = &records[i]
		}
	}

	packages := make([]Package, 0, len(meta))
	for _, data := range meta {
		pkg := Package{Data: data, Status: rebuilderd.StatusUnknown}
		if rec, ok := byName[data.Name]; ok {
			pkg.Status = rec.Status
			pkg.BuildID = rec.BuildID
			pkg.HasDiffoscope = rec.HasDiffoscope
		}
		packages = append(packages, pkg)
	}
	return packages
}

// RestrictToSynced keeps the installed packages whose base also appears as a
// base in one of the sync databases. Split packages share a base, so the base
// is compared rather than the package name. With all set, every installed
// package is kept.
func RestrictToSynced(local, synced []*pacman.Package, all bool) []*pacman.Package {
	if all {
		return local
	}

	bases := make(map[string]struct{}, len(synced))
	for _, pkg := range synced {
		bases[pkg.BaseName()] = struct{}{}
	}

	kept := make([]*pacman.Package, 0, len(local))
	for _, pkg := range local {
		if _, ok := bases[pkg.BaseName()]; ok {
			kept = append(kept, pkg)
		}
	}
	return kept
}

// LocalMetadata converts installed packages to metadata records
func LocalMetadata(local []*pacman.Package) []archweb.Package {
	meta := make([]archweb.Package, 0, len(local))
	for _, pkg := range local {
		meta = append(meta, pkg.Metadata())
	}
	return meta
}
