package archweb

import (
	"strconv"
)

// SearchResult is one page of results from the search API
type SearchResult struct {
	Version  int64     `json:"version"`
	Limit    int64     `json:"limit"`
	Valid    bool      `json:"valid"`
	Results  []Package `json:"results"`
	NumPages *int64    `json:"num_pages,omitempty"`
	Page     *int64    `json:"page,omitempty"`
}

// Package is the package data that archlinux.org provides.
// Fields typed any vary in shape between records and are only shown, never inspected.
type Package struct {
	Name           string   `json:"pkgname"`
	Base           string   `json:"pkgbase"`
	Repo           string   `json:"repo"`
	Arch           string   `json:"arch"`
	Pkgver         string   `json:"pkgver"`
	Pkgrel         string   `json:"pkgrel"`
	Epoch          int64    `json:"epoch"`
	Description    string   `json:"pkgdesc"`
	URL            string   `json:"url"`
	Filename       string   `json:"filename"`
	CompressedSize int64    `json:"compressed_size"`
	InstalledSize  int64    `json:"installed_size"`
	BuildDate      string   `json:"build_date"`
	LastUpdate     string   `json:"last_update"`
	FlagDate       any      `json:"flag_date"`
	Maintainers    []string `json:"maintainers"`
	Packager       string   `json:"packager"`
	Groups         []any    `json:"groups"`
	Licenses       []string `json:"licenses"`
	Conflicts      []any    `json:"conflicts"`
	Provides       []any    `json:"provides"`
	Replaces       []string `json:"replaces"`
	Depends        []string `json:"depends"`
	OptDepends     []string `json:"optdepends"`
	MakeDepends    []string `json:"makedepends"`
	CheckDepends   []any    `json:"checkdepends"`
}

// FullVersion returns [epoch:]pkgver-pkgrel
func (p Package) FullVersion() string {
	v := p.Pkgver + "-" + p.Pkgrel
	if p.Epoch > 0 {
		v = strconv.FormatInt(p.Epoch, 10) + ":" + v
	}
	return v
}
