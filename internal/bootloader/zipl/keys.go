package zipl

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// findHostKeys scans the host key directory for Secure Execution host keys.
// An empty result means the machine is not provisioned for Secure Execution;
// a missing directory is an error, not emptiness, so a misconfigured host
// cannot silently fall back to an unsealed boot image.
func (b *Bootloader) findHostKeys() ([]string, error) {
	dirents, err := os.ReadDir(b.opts.HostKeyDir)
	if err != nil {
		return nil, errors.Wrapf(err, "looking for secure execution host keys in %s", b.opts.HostKeyDir)
	}

	var keys []string
	for _, de := range dirents {
		if strings.HasPrefix(de.Name(), b.opts.HostKeyPrefix) {
			keys = append(keys, filepath.Join(b.opts.HostKeyDir, de.Name()))
		}
	}
	return keys, nil
}
