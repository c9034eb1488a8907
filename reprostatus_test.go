package reprostatus

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/archlinux/arch-repro-status/pkg/archweb"
	"github.com/archlinux/arch-repro-status/pkg/pacman"
	"github.com/archlinux/arch-repro-status/pkg/rebuilderd"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeMetadata struct {
	pkgs  []archweb.Package
	err   error
	block bool
	got   string
}

func (f *fakeMetadata) SearchMaintainer(ctx context.Context, maintainer string) ([]archweb.Package, error) {
	f.got = maintainer
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.pkgs, f.err
}

type fakeStatus struct {
	pkgs  []rebuilderd.Package
	err   error
	block bool
}

func (f *fakeStatus) ListPackages(ctx context.Context) ([]rebuilderd.Package, error) {
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.pkgs, f.err
}

func (f *fakeStatus) FetchLog(context.Context, int64, rebuilderd.LogKind) ([]byte, error) {
	return []byte("log"), nil
}

type fakeDB struct {
	local   []*pacman.Package
	synced  []*pacman.Package
	err     error
	syncErr error
}

func (f *fakeDB) LocalPackages() ([]*pacman.Package, error) { return f.local, f.err }
func (f *fakeDB) SyncPackages() ([]*pacman.Package, error)  { return f.synced, f.syncErr }

func records() []rebuilderd.Package {
	return []rebuilderd.Package{
		{Name: "bash", Status: rebuilderd.StatusGood, BuildID: 1},
		{Name: "zstd", Status: rebuilderd.StatusBad, BuildID: 2, HasDiffoscope: true},
	}
}

func newTestManager(t *testing.T, opts ...Option) *Manager {
	t.Helper()
	m, err := NewManager(DefaultConfig(), nil, append([]Option{WithLogger(zerolog.Nop())}, opts...)...)
	require.NoError(t, err)
	return m
}

func names(pkgs []Package) []string {
	out := make([]string, len(pkgs))
	for i, p := range pkgs {
		out[i] = p.Name()
	}
	return out
}

func TestQuery_Maintainer(t *testing.T) {
	meta := &fakeMetadata{pkgs: []archweb.Package{{Name: "zstd"}, {Name: "yay"}, {Name: "bash"}}}
	m := newTestManager(t, WithMetadataSource(meta), WithStatusSource(&fakeStatus{pkgs: records()}))

	pkgs, err := m.Query(context.Background(), Query{Maintainer: "alice"})
	require.NoError(t, err)
	assert.Equal(t, "alice", meta.got)
	assert.Equal(t, []string{"zstd", "yay", "bash"}, names(pkgs))
	assert.Equal(t, StatusBad, pkgs[0].Status)
	assert.Equal(t, StatusUnknown, pkgs[1].Status)
	assert.Equal(t, int64(1), pkgs[2].BuildID)
}

func TestQuery_Filter(t *testing.T) {
	meta := &fakeMetadata{pkgs: []archweb.Package{{Name: "zstd"}, {Name: "yay"}, {Name: "bash"}}}
	m := newTestManager(t, WithMetadataSource(meta), WithStatusSource(&fakeStatus{pkgs: records()}))

	bad := StatusBad
	pkgs, err := m.Query(context.Background(), Query{Maintainer: "alice", Filter: &bad})
	require.NoError(t, err)
	assert.Equal(t, []string{"zstd"}, names(pkgs))

	pkgs, err = m.Query(context.Background(), Query{Maintainer: "alice", Names: []string{"bash", "yay"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"yay", "bash"}, names(pkgs))
}

func TestQuery_MaintainerFailsAsUnit(t *testing.T) {
	boom := errors.New("archweb is down")

	t.Run("MetadataFails", func(t *testing.T) {
		m := newTestManager(t,
			WithMetadataSource(&fakeMetadata{err: boom}),
			WithStatusSource(&fakeStatus{block: true}),
		)
		pkgs, err := m.Query(context.Background(), Query{Maintainer: "alice"})
		assert.Nil(t, pkgs)
		require.ErrorIs(t, err, boom)

		var e *Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, OpFetch, e.Op)
		assert.Equal(t, "alice", e.Package)
	})

	t.Run("StatusFails", func(t *testing.T) {
		m := newTestManager(t,
			WithMetadataSource(&fakeMetadata{block: true}),
			WithStatusSource(&fakeStatus{err: boom}),
		)
		pkgs, err := m.Query(context.Background(), Query{Maintainer: "alice"})
		assert.Nil(t, pkgs)
		assert.ErrorIs(t, err, boom)
	})
}

func TestQuery_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := newTestManager(t,
		WithMetadataSource(&fakeMetadata{block: true}),
		WithStatusSource(&fakeStatus{block: true}),
	)
	_, err := m.Query(ctx, Query{Maintainer: "alice"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestQuery_Local(t *testing.T) {
	db := &fakeDB{
		local: []*pacman.Package{
			{Name: "bash", Version: "5.2-1", Base: "bash"},
			{Name: "yay", Version: "12-1", Base: "yay"},
			{Name: "zstd", Version: "1:1.5-2", Base: "zstd"},
		},
		synced: []*pacman.Package{{Name: "bash", Base: "bash"}, {Name: "zstd", Base: "zstd"}},
	}
	m := newTestManager(t, WithLocalDB(db), WithStatusSource(&fakeStatus{pkgs: records()}))

	pkgs, err := m.Query(context.Background(), Query{})
	require.NoError(t, err)
	assert.Equal(t, []string{"bash", "zstd"}, names(pkgs))
	assert.Equal(t, "1:1.5-2", pkgs[1].Data.FullVersion())
	assert.True(t, pkgs[1].HasDiffoscope)

	pkgs, err = m.Query(context.Background(), Query{All: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"bash", "yay", "zstd"}, names(pkgs))
	assert.Equal(t, StatusUnknown, pkgs[1].Status)
}

func TestQuery_LocalFailures(t *testing.T) {
	boom := errors.New("permission denied")

	t.Run("LocalDB", func(t *testing.T) {
		m := newTestManager(t, WithLocalDB(&fakeDB{err: boom}), WithStatusSource(&fakeStatus{block: true}))
		_, err := m.Query(context.Background(), Query{})
		require.ErrorIs(t, err, boom)

		var e *Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, OpLocalDB, e.Op)
	})

	t.Run("SyncDB", func(t *testing.T) {
		m := newTestManager(t, WithLocalDB(&fakeDB{syncErr: boom}), WithStatusSource(&fakeStatus{block: true}))
		_, err := m.Query(context.Background(), Query{})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("Rebuilderd", func(t *testing.T) {
		m := newTestManager(t, WithLocalDB(&fakeDB{}), WithStatusSource(&fakeStatus{err: boom}))
		_, err := m.Query(context.Background(), Query{})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("MissingDatabase", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DBPath = filepath.Join(t.TempDir(), "nope")
		m, err := NewManager(cfg, nil, WithStatusSource(&fakeStatus{}))
		require.NoError(t, err)

		_, err = m.Query(context.Background(), Query{})
		var e *Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, OpLocalDB, e.Op)
	})
}

func TestNewManager_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rebuilderd = ""
	_, err := NewManager(cfg, nil)
	assert.Error(t, err)
}

func TestManager_Cache(t *testing.T) {
	dir := t.TempDir()
	m := newTestManager(t, WithLogFetcher(&fakeStatus{}))

	c, err := m.Cache(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, c.Dir())

	path, data, err := c.Ensure(context.Background(), 5, rebuilderd.LogBuild)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "5-build"), path)
	assert.Equal(t, "log", string(data))
}

func TestUserAgent(t *testing.T) {
	assert.Equal(t, "arch-repro-status/"+Version, UserAgent())
}

func TestQuery_IsLocal(t *testing.T) {
	assert.True(t, Query{}.IsLocal())
	assert.False(t, Query{Maintainer: "alice"}.IsLocal())
}
