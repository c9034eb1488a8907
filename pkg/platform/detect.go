// pkg/platform/detect.go
package platform

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Platform represents the detected system platform
type Platform struct {
	OS     string   // linux, darwin, windows
	Arch   string   // amd64, arm64, 386, arm
	ID     string   // ID from os-release, e.g. arch
	IDLike []string // ID_LIKE from os-release
	Pacman bool     // Whether pacman is in PATH
}

// Detect detects the current platform
func Detect() *Platform {
	return DetectFrom("/")
}

// DetectFrom detects the platform of the system whose root filesystem is at
// root. Only the os-release lookup honours root.
func DetectFrom(root string) *Platform {
	p := &Platform{
		OS:     runtime.GOOS,
		Arch:   runtime.GOARCH,
		Pacman: commandExists("pacman"),
	}

	for _, name := range []string{"etc/os-release", "usr/lib/os-release"} {
		data, err := os.ReadFile(filepath.Join(root, name))
		if err != nil {
			continue
		}
		release := parseOSRelease(data)
		p.ID = release["ID"]
		p.IDLike = strings.Fields(release["ID_LIKE"])
		break
	}

	if p.ID == "" {
		if _, err := os.Stat(filepath.Join(root, "etc", "arch-release")); err == nil {
			p.ID = "arch"
		}
	}
	return p
}

// IsArchLinux reports whether the system is Arch Linux or derived from it
func (p *Platform) IsArchLinux() bool {
	return p.ID == "arch" || contains(p.IDLike, "arch")
}

// String returns a string representation of the platform
func (p *Platform) String() string {
	id := p.ID
	if id == "" {
		id = "unknown"
	}
	return fmt.Sprintf("%s/%s (%s, pacman: %t)", p.OS, p.Arch, id, p.Pacman)
}

// parseOSRelease reads KEY=value lines, unquoting values
func parseOSRelease(data []byte) map[string]string {
	values := make(map[string]string)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		values[key] = strings.Trim(value, `"'`)
	}
	return values
}
