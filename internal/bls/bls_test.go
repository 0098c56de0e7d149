package bls

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cozystack/zipl-sync/internal/sysroot"
)

const sampleEntry = `# created by the deployment manager
title Fedora CoreOS 42 (ostree)
version 1
options root=/dev/mapper/root rw
linux /ostree/fedora-abc123/vmlinuz-6.8.0
initrd /ostree/fedora-abc123/initramfs-6.8.0.img
`

func TestParse(t *testing.T) {
	entry, err := Parse(strings.NewReader(sampleEntry))
	require.NoError(t, err)

	tests := []struct {
		key  string
		want string
	}{
		{"title", "Fedora CoreOS 42 (ostree)"},
		{"version", "1"},
		{"options", "root=/dev/mapper/root rw"},
		{"linux", "/ostree/fedora-abc123/vmlinuz-6.8.0"},
		{"initrd", "/ostree/fedora-abc123/initramfs-6.8.0.img"},
	}
	for _, tt := range tests {
		got, ok := entry.Get(tt.key)
		assert.True(t, ok, "key %q missing", tt.key)
		assert.Equal(t, tt.want, got, "key %q", tt.key)
	}

	_, ok := entry.Get("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"title", "version", "options", "linux", "initrd"}, entry.Keys())
}

func TestParseIgnoresBlankAndCommentLines(t *testing.T) {
	entry, err := Parse(strings.NewReader("\n# comment\n\nlinux /vmlinuz\n"))
	require.NoError(t, err)

	v, ok := entry.Get("linux")
	assert.True(t, ok)
	assert.Equal(t, "/vmlinuz", v)

	_, ok = entry.Get("# comment")
	assert.False(t, ok)
}

func TestDirStoreConfigs(t *testing.T) {
	root := t.TempDir()
	entriesDir := filepath.Join(root, "boot", "loader.1", "entries")
	require.NoError(t, os.MkdirAll(entriesDir, 0o755))

	require.NoError(t, os.WriteFile(
		filepath.Join(entriesDir, "ostree-2.conf"), []byte("linux /vmlinuz-b\n"), 0o644))
	require.NoError(t, os.WriteFile(
		filepath.Join(entriesDir, "ostree-1.conf"), []byte("linux /vmlinuz-a\n"), 0o644))
	require.NoError(t, os.WriteFile(
		filepath.Join(entriesDir, "README"), []byte("not an entry\n"), 0o644))

	store := NewDirStore(sysroot.New(root))
	entries, err := store.Configs(1)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Sorted by file name, non-.conf files skipped.
	assert.Equal(t, "ostree-1.conf", entries[0].Name)
	assert.Equal(t, "ostree-2.conf", entries[1].Name)
}

func TestDirStoreMissingDirIsEmpty(t *testing.T) {
	store := NewDirStore(sysroot.New(t.TempDir()))
	entries, err := store.Configs(0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
