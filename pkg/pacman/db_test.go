package pacman

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

func desc(name, version, base string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%%NAME%%\n%s\n\n%%VERSION%%\n%s\n\n", name, version)
	if base != "" {
		fmt.Fprintf(&b, "%%BASE%%\n%s\n\n", base)
	}
	b.WriteString("%DESC%\nsome package\n\n%ARCH%\nx86_64\n\n%BUILDDATE%\n1700000000\n\n")
	b.WriteString("%SIZE%\n2048\n\n%LICENSE%\nMIT\nApache-2.0\n\n%DEPENDS%\nglibc\ngcc-libs>=13\n\n")
	return b.String()
}

func TestParseDesc(t *testing.T) {
	pkg, err := ParseDesc(strings.NewReader(desc("python-foo", "1:2.0.1-3", "foo")))
	require.NoError(t, err)

	assert.Equal(t, "python-foo", pkg.Name)
	assert.Equal(t, "1:2.0.1-3", pkg.Version)
	assert.Equal(t, "foo", pkg.Base)
	assert.Equal(t, "some package", pkg.Description)
	assert.Equal(t, int64(1700000000), pkg.BuildDate)
	assert.Equal(t, int64(2048), pkg.InstalledSize)
	assert.Equal(t, []string{"MIT", "Apache-2.0"}, pkg.License)
	assert.Equal(t, []string{"glibc", "gcc-libs>=13"}, pkg.Depends)
}

func TestParseDesc_MissingName(t *testing.T) {
	_, err := ParseDesc(strings.NewReader("%VERSION%\n1.0-1\n"))
	assert.Error(t, err)
}

func TestSplitVersion(t *testing.T) {
	tests := []struct {
		in             string
		epoch          int64
		pkgver, pkgrel string
	}{
		{"1.0-1", 0, "1.0", "1"},
		{"2:1.0.r12-g0a1b-3", 2, "1.0.r12-g0a1b", "3"},
		{"20240101", 0, "20240101", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			epoch, pkgver, pkgrel := SplitVersion(tt.in)
			assert.Equal(t, tt.epoch, epoch)
			assert.Equal(t, tt.pkgver, pkgver)
			assert.Equal(t, tt.pkgrel, pkgrel)
		})
	}
}

func TestPackage_Metadata(t *testing.T) {
	pkg := &Package{Name: "libfoo", Version: "1:2.0-3", Repository: LocalRepo, Groups: []string{"base"}}
	meta := pkg.Metadata()

	assert.Equal(t, "libfoo", meta.Name)
	assert.Equal(t, "libfoo", meta.Base, "empty base falls back to the name")
	assert.Equal(t, "1:2.0-3", meta.FullVersion())
	assert.Equal(t, LocalRepo, meta.Repo)
	assert.Equal(t, []any{"base"}, meta.Groups)
	assert.NotNil(t, meta.Maintainers)
}

// buildSyncDB writes a repo.db tar archive holding one desc per package
func buildSyncDB(t *testing.T, descs map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for dir, content := range descs {
		require.NoError(t, tw.WriteHeader(&tar.Header{Name: dir + "/", Typeflag: tar.TypeDir, Mode: 0755}))
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name: dir + "/desc", Typeflag: tar.TypeReg, Mode: 0644, Size: int64(len(content)),
		}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	return buf.Bytes()
}

func compress(t *testing.T, format string, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	var w io.WriteCloser
	var err error

	switch format {
	case "plain":
		return data
	case "gzip":
		w = gzip.NewWriter(&buf)
	case "zstd":
		w, err = zstd.NewWriter(&buf)
	case "xz":
		w, err = xz.NewWriter(&buf)
	default:
		t.Fatalf("unknown format %s", format)
	}
	require.NoError(t, err)

	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestParseDatabase_Compression(t *testing.T) {
	archive := buildSyncDB(t, map[string]string{
		"foo-1.0-1": desc("foo", "1.0-1", "foo"),
	})

	for _, format := range []string{"plain", "gzip", "zstd", "xz"} {
		t.Run(format, func(t *testing.T) {
			pkgs, err := ParseDatabase(bytes.NewReader(compress(t, format, archive)), "extra")
			require.NoError(t, err)
			require.Len(t, pkgs, 1)
			assert.Equal(t, "foo", pkgs[0].Name)
			assert.Equal(t, "extra", pkgs[0].Repository)
		})
	}
}

func TestParseDatabase_Empty(t *testing.T) {
	pkgs, err := ParseDatabase(bytes.NewReader(nil), "core")
	require.NoError(t, err)
	assert.Empty(t, pkgs)
}

// writeDB lays out a pacman database directory under a temp dir
func writeDB(t *testing.T, local map[string]string, sync map[string][]byte) string {
	t.Helper()
	root := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(root, localDir), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, localDir, "ALPM_DB_VERSION"), []byte("9\n"), 0644))
	for dir, content := range local {
		pkgDir := filepath.Join(root, localDir, dir)
		require.NoError(t, os.MkdirAll(pkgDir, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(pkgDir, "desc"), []byte(content), 0644))
	}

	require.NoError(t, os.MkdirAll(filepath.Join(root, syncDir), 0755))
	for repo, data := range sync {
		require.NoError(t, os.WriteFile(filepath.Join(root, syncDir, repo+".db"), data, 0644))
	}
	return root
}

func TestOpenDB(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		root := writeDB(t, nil, nil)
		db, err := OpenDB(root, DefaultRepos, zerolog.Nop())
		require.NoError(t, err)
		assert.Equal(t, root, db.Root())
	})

	t.Run("MissingLocal", func(t *testing.T) {
		_, err := OpenDB(t.TempDir(), DefaultRepos, zerolog.Nop())
		assert.Error(t, err)
	})
}

func TestDB_LocalPackages(t *testing.T) {
	root := writeDB(t, map[string]string{
		"zlib-1:1.3-2":  desc("zlib", "1:1.3-2", "zlib"),
		"bash-5.2.26-2": desc("bash", "5.2.26-2", "bash"),
	}, nil)

	db, err := OpenDB(root, nil, zerolog.Nop())
	require.NoError(t, err)

	pkgs, err := db.LocalPackages()
	require.NoError(t, err)
	require.Len(t, pkgs, 2)
	assert.Equal(t, "bash", pkgs[0].Name)
	assert.Equal(t, "zlib", pkgs[1].Name)
	assert.Equal(t, LocalRepo, pkgs[0].Repository)
}

func TestDB_LocalPackagesBrokenDesc(t *testing.T) {
	root := writeDB(t, map[string]string{"broken-1-1": "%VERSION%\n1-1\n"}, nil)

	db, err := OpenDB(root, nil, zerolog.Nop())
	require.NoError(t, err)

	_, err = db.LocalPackages()
	assert.Error(t, err)
}

func TestDB_SyncPackages(t *testing.T) {
	core := buildSyncDB(t, map[string]string{"bash-5.2.26-2": desc("bash", "5.2.26-2", "bash")})
	extra := buildSyncDB(t, map[string]string{"python-foo-1.0-1": desc("python-foo", "1.0-1", "foo")})

	root := writeDB(t, nil, map[string][]byte{
		"core":  compress(t, "gzip", core),
		"extra": compress(t, "zstd", extra),
	})

	t.Run("AllRepos", func(t *testing.T) {
		db, err := OpenDB(root, []string{"core", "extra"}, zerolog.Nop())
		require.NoError(t, err)

		pkgs, err := db.SyncPackages()
		require.NoError(t, err)
		require.Len(t, pkgs, 2)
		assert.Equal(t, "core", pkgs[0].Repository)
		assert.Equal(t, "foo", pkgs[1].Base)
	})

	t.Run("MissingRepo", func(t *testing.T) {
		db, err := OpenDB(root, []string{"core", "community"}, zerolog.Nop())
		require.NoError(t, err)

		pkgs, err := db.SyncPackages()
		require.NoError(t, err)
		require.Len(t, pkgs, 1)
		assert.Equal(t, "bash", pkgs[0].Name)
	})

	t.Run("CorruptRepo", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(root, syncDir, "multilib.db"), []byte{0x1f, 0x8b, 0x00}, 0o644))
		db, err := OpenDB(root, []string{"multilib"}, zerolog.Nop())
		require.NoError(t, err)

		_, err = db.SyncPackages()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "multilib")
	})
}
