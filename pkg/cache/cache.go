// pkg/cache/cache.go
package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/archlinux/arch-repro-status/pkg/core"
	"github.com/archlinux/arch-repro-status/pkg/rebuilderd"
)

// AppName names the per-user cache directory
const AppName = "arch-repro-status"

// LogFetcher downloads build artifacts on a cache miss
type LogFetcher interface {
	FetchLog(ctx context.Context, buildID int64, kind rebuilderd.LogKind) ([]byte, error)
}

// Cache stores build logs and diffoscopes on disk, keyed by build ID and kind.
// Entries are never invalidated: a build ID identifies a finished build.
type Cache struct {
	dir     string
	fetcher LogFetcher
	logger  zerolog.Logger
}

// DefaultDir returns the user cache directory for the application,
// falling back to the system temp directory.
func DefaultDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, AppName)
	}
	return filepath.Join(os.TempDir(), AppName)
}

// LogPath returns the file that holds the artifact of kind for a build
func LogPath(dir string, buildID int64, kind rebuilderd.LogKind) string {
	return filepath.Join(dir, fmt.Sprintf("%d-%s", buildID, kind))
}

// New creates a cache rooted at dir, or DefaultDir when dir is empty.
// The directory is created if needed.
func New(dir string, fetcher LogFetcher, logger zerolog.Logger) (*Cache, error) {
	if dir == "" {
		dir = DefaultDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, core.Wrap(core.OpCache, "", fmt.Errorf("creating cache directory: %w", err))
	}
	return &Cache{dir: dir, fetcher: fetcher, logger: logger}, nil
}

// Dir returns the cache directory
func (c *Cache) Dir() string {
	return c.dir
}

// Path returns where the artifact of a build is stored
func (c *Cache) Path(buildID int64, kind rebuilderd.LogKind) string {
	return LogPath(c.dir, buildID, kind)
}

// Ensure returns the path and contents of an artifact, downloading and
// storing it on a miss. A hit never touches the network. A failed download
// leaves no entry behind.
func (c *Cache) Ensure(ctx context.Context, buildID int64, kind rebuilderd.LogKind) (string, []byte, error) {
	path := c.Path(buildID, kind)

	data, err := os.ReadFile(path)
	if err == nil {
		c.logger.Debug().Str("path", path).Msg("cache hit")
		return path, data, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", nil, core.Wrap(core.OpCache, "", fmt.Errorf("reading %s: %w", path, err))
	}

	c.logger.Debug().Int64("build_id", buildID).Stringer("kind", kind).Msg("cache miss")
	data, err = c.fetcher.FetchLog(ctx, buildID, kind)
	if err != nil {
		return "", nil, core.Wrap(core.OpCache, "", err)
	}

	if err := writeAtomic(path, data); err != nil {
		return "", nil, core.Wrap(core.OpCache, "", err)
	}
	return path, data, nil
}

// writeAtomic writes data next to path and renames it into place
func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storing %s: %w", path, err)
	}
	return nil
}
