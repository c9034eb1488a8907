package pacman

import (
	"strconv"
	"strings"
	"time"

	"github.com/archlinux/arch-repro-status/pkg/archweb"
)

// Package contains metadata from a 'desc' file in the local or a sync db
type Package struct {
	Name          string
	Version       string // [epoch:]pkgver-pkgrel
	Base          string
	Description   string
	URL           string
	Architecture  string
	BuildDate     int64
	InstallDate   int64
	Packager      string
	Size          int64 // Download size (CSIZE)
	InstalledSize int64 // SIZE in the local db, ISIZE in sync dbs
	Filename      string
	License       []string
	Replaces      []string
	Groups        []string
	Depends       []string
	OptDepends    []string
	MakeDepends   []string
	CheckDepends  []string
	Conflicts     []string
	Provides      []string
	Repository    string // Which db this came from (local, core, extra)
}

// BaseName returns the package base, falling back to the package name
// for packages built before %BASE% was recorded.
func (p *Package) BaseName() string {
	if p.Base != "" {
		return p.Base
	}
	return p.Name
}

// SplitVersion splits [epoch:]pkgver-pkgrel into its parts
func SplitVersion(version string) (epoch int64, pkgver, pkgrel string) {
	if i := strings.Index(version, ":"); i != -1 {
		if e, err := strconv.ParseInt(version[:i], 10, 64); err == nil {
			epoch = e
			version = version[i+1:]
		}
	}
	pkgver = version
	if i := strings.LastIndex(version, "-"); i != -1 {
		pkgver, pkgrel = version[:i], version[i+1:]
	}
	return epoch, pkgver, pkgrel
}

// Metadata converts the record to the shape archweb serves, so that local and
// remote packages are reported the same way.
func (p *Package) Metadata() archweb.Package {
	epoch, pkgver, pkgrel := SplitVersion(p.Version)
	return archweb.Package{
		Name:           p.Name,
		Base:           p.BaseName(),
		Repo:           p.Repository,
		Arch:           p.Architecture,
		Pkgver:         pkgver,
		Pkgrel:         pkgrel,
		Epoch:          epoch,
		Description:    p.Description,
		URL:            p.URL,
		Filename:       p.Filename,
		CompressedSize: p.Size,
		InstalledSize:  p.InstalledSize,
		BuildDate:      formatUnix(p.BuildDate),
		LastUpdate:     formatUnix(p.InstallDate),
		Maintainers:    []string{},
		Packager:       p.Packager,
		Groups:         toAny(p.Groups),
		Licenses:       nonNil(p.License),
		Conflicts:      toAny(p.Conflicts),
		Provides:       toAny(p.Provides),
		Replaces:       nonNil(p.Replaces),
		Depends:        nonNil(p.Depends),
		OptDepends:     nonNil(p.OptDepends),
		MakeDepends:    nonNil(p.MakeDepends),
		CheckDepends:   toAny(p.CheckDepends),
	}
}

func formatUnix(ts int64) string {
	if ts == 0 {
		return ""
	}
	return time.Unix(ts, 0).UTC().Format(time.RFC3339)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func toAny(s []string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}
