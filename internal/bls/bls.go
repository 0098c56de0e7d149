// Package bls reads Boot Loader Specification entry files as written by the
// deployment manager under boot/loader.<version>/entries/.
package bls

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/cozystack/zipl-sync/internal/sysroot"
)

// Entry is a single parsed boot loader entry.
type Entry struct {
	// Name is the file name the entry was read from, if any.
	Name string

	keys   []string
	values map[string]string
}

// Get returns the value for key and whether it was present.
func (e *Entry) Get(key string) (string, bool) {
	v, ok := e.values[key]
	return v, ok
}

// Keys returns the entry's keys in file order.
func (e *Entry) Keys() []string {
	return append([]string(nil), e.keys...)
}

// Parse reads a BLS entry: one "key value" pair per line, values running to
// end of line, '#' lines and blank lines ignored.
func Parse(r io.Reader) (*Entry, error) {
	entry := &Entry{values: make(map[string]string)}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, _ := strings.Cut(line, " ")
		value = strings.TrimSpace(value)
		if _, seen := entry.values[key]; !seen {
			entry.keys = append(entry.keys, key)
		}
		entry.values[key] = value
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "reading boot loader entry")
	}
	return entry, nil
}

// ParseFile parses the BLS entry at path.
func ParseFile(path string) (*Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening boot loader entry")
	}
	defer f.Close()

	entry, err := Parse(f)
	if err != nil {
		return nil, err
	}
	entry.Name = filepath.Base(path)
	return entry, nil
}

// Store provides the boot loader entries synced for a boot configuration
// version.
type Store interface {
	Configs(bootVersion int) ([]*Entry, error)
}

// DirStore reads entries from boot/loader.<version>/entries under a sysroot.
type DirStore struct {
	sys *sysroot.Sysroot
}

func NewDirStore(sys *sysroot.Sysroot) *DirStore {
	return &DirStore{sys: sys}
}

// Configs returns the entries for bootVersion sorted by file name. A missing
// entries directory yields an empty list, not an error.
func (s *DirStore) Configs(bootVersion int) ([]*Entry, error) {
	dir := s.sys.Path("boot", fmt.Sprintf("loader.%d", bootVersion), "entries")

	dirents, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "reading boot loader entries in %s", dir)
	}

	var entries []*Entry
	for _, de := range dirents {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".conf") {
			continue
		}
		entry, err := ParseFile(filepath.Join(dir, de.Name()))
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}
