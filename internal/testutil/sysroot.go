// Package testutil scaffolds fake sysroots for backend tests: boot
// directories, boot loader entries and Secure Execution key material laid
// out the way a real deployment would have them.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// BootEntry describes a boot loader entry to scaffold. Empty fields are
// omitted from the written file so tests can exercise incomplete entries.
type BootEntry struct {
	Title   string
	Linux   string
	Initrd  string
	Options string
}

// WriteBootEntry writes entry as <name>.conf under
// boot/loader.<bootVersion>/entries in root.
func WriteBootEntry(t testing.TB, root string, bootVersion int, name string, entry BootEntry) {
	t.Helper()

	dir := filepath.Join(root, "boot", fmt.Sprintf("loader.%d", bootVersion), "entries")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	content := ""
	if entry.Title != "" {
		content += "title " + entry.Title + "\n"
	}
	if entry.Linux != "" {
		content += "linux " + entry.Linux + "\n"
	}
	if entry.Initrd != "" {
		content += "initrd " + entry.Initrd + "\n"
	}
	if entry.Options != "" {
		content += "options " + entry.Options + "\n"
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".conf"), []byte(content), 0o644))
}

// WriteBootDir ensures root has a boot directory and returns its path.
func WriteBootDir(t testing.TB, root string) string {
	t.Helper()

	dir := filepath.Join(root, "boot")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	return dir
}

// WriteHostKeys creates a host key directory containing the named files and
// returns its path.
func WriteHostKeys(t testing.TB, parent string, names ...string) string {
	t.Helper()

	dir := filepath.Join(parent, "se-hostkeys")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("key material\n"), 0o644))
	}
	return dir
}
