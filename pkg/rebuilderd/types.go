package rebuilderd

import (
	"fmt"
)

// Status is the outcome of an independent rebuild
type Status int

const (
	// StatusUnknown means the package was not rebuilt (yet)
	StatusUnknown Status = iota
	// StatusGood means the rebuild matched the published package
	StatusGood
	// StatusBad means the rebuild differed from the published package
	StatusBad
)

// Statuses lists every status in its wire spelling order
var Statuses = []Status{StatusGood, StatusBad, StatusUnknown}

// String returns the wire spelling used by rebuilderd
func (s Status) String() string {
	switch s {
	case StatusGood:
		return "GOOD"
	case StatusBad:
		return "BAD"
	default:
		return "UNKWN"
	}
}

// ParseStatus parses an exact wire spelling (GOOD, BAD or UNKWN)
func ParseStatus(s string) (Status, error) {
	switch s {
	case "GOOD":
		return StatusGood, nil
	case "BAD":
		return StatusBad, nil
	case "UNKWN":
		return StatusUnknown, nil
	}
	return StatusUnknown, fmt.Errorf("invalid status %q (use GOOD, BAD or UNKWN)", s)
}

// MarshalText implements encoding.TextMarshaler
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
// Values this client does not know about decode as StatusUnknown.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		parsed = StatusUnknown
	}
	*s = parsed
	return nil
}

// Package is a rebuild record as listed by rebuilderd
type Package struct {
	Name           string `json:"name"`
	Version        string `json:"version"`
	Status         Status `json:"status"`
	Distro         string `json:"distro"`
	Suite          string `json:"suite"`
	Architecture   string `json:"architecture"`
	ArtifactURL    string `json:"artifact_url"`
	BuildID        int64  `json:"build_id"` // 0 when rebuilderd has no build
	BuiltAt        string `json:"built_at"`
	HasDiffoscope  bool   `json:"has_diffoscope"`
	HasAttestation bool   `json:"has_attestation"`
}

// LogKind selects which artifact of a build to fetch
type LogKind int

const (
	// LogBuild is the rebuild log
	LogBuild LogKind = iota
	// LogDiffoscope is the diffoscope output of a mismatching rebuild
	LogDiffoscope
)

// String returns the token used in cache file names
func (k LogKind) String() string {
	if k == LogDiffoscope {
		return "diffoscope"
	}
	return "build"
}

func (k LogKind) endpoint() string {
	if k == LogDiffoscope {
		return "diffoscope"
	}
	return "log"
}
