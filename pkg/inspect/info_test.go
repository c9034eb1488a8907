package inspect

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archlinux/arch-repro-status/pkg/archweb"
)

func TestWriteInfo(t *testing.T) {
	pkg := archweb.Package{
		Name:        "zstd",
		Base:        "zstd",
		Repo:        "core",
		Arch:        "x86_64",
		Pkgver:      "1.5.6",
		Pkgrel:      "1",
		Epoch:       1,
		Maintainers: []string{"alice", "bob"},
		Provides:    []any{"libzstd.so=1-64"},
		Depends:     []string{"glibc", "xz"},
		FlagDate:    nil,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteInfo(&buf, pkg))

	out := buf.String()
	for _, want := range []string{"Name", "zstd", "1:1.5.6-1", "alice, bob", "libzstd.so=1-64", "glibc, xz", "Check Deps"} {
		assert.Contains(t, out, want)
	}
}

func TestJoinAny(t *testing.T) {
	assert.Equal(t, "", joinAny(nil))
	assert.Equal(t, "a, 2", joinAny([]any{"a", 2}))
	assert.Equal(t, "", formatAny(nil))
}
