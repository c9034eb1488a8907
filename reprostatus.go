// reprostatus.go
package reprostatus

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/archlinux/arch-repro-status/pkg/archweb"
	"github.com/archlinux/arch-repro-status/pkg/cache"
	"github.com/archlinux/arch-repro-status/pkg/config"
	"github.com/archlinux/arch-repro-status/pkg/core"
	"github.com/archlinux/arch-repro-status/pkg/fetch"
	"github.com/archlinux/arch-repro-status/pkg/pacman"
	"github.com/archlinux/arch-repro-status/pkg/rebuilderd"
)

// Version is the release version, also sent in the User-Agent header
var Version = "1.5.0"

// UserAgent identifies requests made by this tool
func UserAgent() string {
	return config.AppName + "/" + Version
}

// Re-export types for convenience
type (
	Package = core.Package
	Status  = rebuilderd.Status
	LogKind = rebuilderd.LogKind
	Config  = config.Config
)

// Re-export status constants
const (
	StatusGood    = rebuilderd.StatusGood
	StatusBad     = rebuilderd.StatusBad
	StatusUnknown = rebuilderd.StatusUnknown
)

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return config.Default()
}

// MetadataSource looks up the packages of a maintainer
type MetadataSource interface {
	SearchMaintainer(ctx context.Context, maintainer string) ([]archweb.Package, error)
}

// StatusSource lists rebuild results
type StatusSource interface {
	ListPackages(ctx context.Context) ([]rebuilderd.Package, error)
}

// LocalDB reads the installed packages and the sync databases
type LocalDB interface {
	LocalPackages() ([]*pacman.Package, error)
	SyncPackages() ([]*pacman.Package, error)
}

// Query selects which packages to report on
type Query struct {
	Maintainer string             // Maintainer mode when set, the local system otherwise
	All        bool               // Keep installed packages that no sync database provides
	Filter     *rebuilderd.Status // Only packages with this status
	Names      []string           // Only packages with one of these names
}

// IsLocal reports whether the query is about the installed packages
func (q Query) IsLocal() bool {
	return q.Maintainer == ""
}

// Manager gathers metadata and rebuild results and merges them
type Manager struct {
	config   *Config
	metadata MetadataSource
	status   StatusSource
	logs     cache.LogFetcher
	local    LocalDB
	logger   zerolog.Logger
}

// Option configures a Manager
type Option func(*Manager)

// WithMetadataSource replaces the archweb client
func WithMetadataSource(src MetadataSource) Option {
	return func(m *Manager) {
		m.metadata = src
	}
}

// WithStatusSource replaces the rebuilderd client used for listing
func WithStatusSource(src StatusSource) Option {
	return func(m *Manager) {
		m.status = src
	}
}

// WithLogFetcher replaces the rebuilderd client used for logs
func WithLogFetcher(f cache.LogFetcher) Option {
	return func(m *Manager) {
		m.logs = f
	}
}

// WithLocalDB replaces the pacman database reader
func WithLocalDB(db LocalDB) Option {
	return func(m *Manager) {
		m.local = db
	}
}

// WithLogger sets the logger passed to every component
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Manager for cfg. Any source not replaced through an
// option talks to the services and database named in cfg. progress, when
// non-nil, receives download progress bars for logs.
func NewManager(cfg *Config, progress io.Writer, opts ...Option) (*Manager, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	m := &Manager{config: cfg, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(m)
	}

	client := fetch.NewClient(fetch.WithUserAgent(UserAgent()), fetch.WithProgress(progress))
	if m.metadata == nil {
		m.metadata = archweb.NewClient(client, archweb.Endpoint, m.logger)
	}
	if m.status == nil || m.logs == nil {
		rb := rebuilderd.NewClient(client, cfg.Rebuilderd, m.logger)
		if m.status == nil {
			m.status = rb
		}
		if m.logs == nil {
			m.logs = rb
		}
	}
	return m, nil
}

// Query returns the merged and filtered packages for q.
// Either source failing fails the whole query.
func (m *Manager) Query(ctx context.Context, q Query) ([]Package, error) {
	var (
		pkgs []Package
		err  error
	)
	if q.IsLocal() {
		pkgs, err = m.localPackages(ctx, q.All)
	} else {
		pkgs, err = m.maintainerPackages(ctx, q.Maintainer)
	}
	if err != nil {
		return nil, err
	}

	filtered := core.Filter(pkgs, q.Filter, q.Names)
	m.logger.Debug().Int("total", len(pkgs)).Int("shown", len(filtered)).Msg("filtered packages")
	return filtered, nil
}

// Cache returns the log cache, rooted at dir or the configured cache directory
func (m *Manager) Cache(dir string) (*cache.Cache, error) {
	if dir == "" {
		dir = m.config.CacheDir
	}
	return cache.New(dir, m.logs, m.logger)
}

func (m *Manager) maintainerPackages(ctx context.Context, maintainer string) ([]Package, error) {
	var (
		meta    []archweb.Package
		records []rebuilderd.Package
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		meta, err = m.metadata.SearchMaintainer(gctx, maintainer)
		return core.Wrap(core.OpFetch, maintainer, err)
	})
	g.Go(func() error {
		var err error
		records, err = m.status.ListPackages(gctx)
		return core.Wrap(core.OpFetch, "", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	m.logger.Debug().Int("archweb", len(meta)).Int("rebuilderd", len(records)).Msg("merging packages")
	return core.Merge(meta, records), nil
}

func (m *Manager) localPackages(ctx context.Context, all bool) ([]Package, error) {
	db := m.local
	if db == nil {
		opened, err := pacman.OpenDB(m.config.DBPath, m.config.Repos, m.logger)
		if err != nil {
			return nil, core.Wrap(core.OpLocalDB, "", err)
		}
		db = opened
	}

	var (
		records []rebuilderd.Package
		local   []*pacman.Package
		synced  []*pacman.Package
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = m.status.ListPackages(gctx)
		return core.Wrap(core.OpFetch, "", err)
	})
	g.Go(func() error {
		var err error
		if local, err = db.LocalPackages(); err != nil {
			return core.Wrap(core.OpLocalDB, "", err)
		}
		if all {
			return nil
		}
		synced, err = db.SyncPackages()
		return core.Wrap(core.OpLocalDB, "", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	kept := core.RestrictToSynced(local, synced, all)
	m.logger.Debug().Int("installed", len(local)).Int("kept", len(kept)).Msg("restricted to sync databases")
	return core.Merge(core.LocalMetadata(kept), records), nil
}
