package zipl

import (
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// bootEntry is the resolved triple genprotimg needs: kernel and initramfs
// paths under the boot directory plus the kernel command line.
type bootEntry struct {
	Kernel  string
	Initrd  string
	Options string
}

// resolveEntry loads the boot loader entries synced for bootVersion and
// resolves the first one. Multi-entry boot menus are not supported by this
// backend, so only the first entry is consulted.
func (b *Bootloader) resolveEntry(bootVersion int) (*bootEntry, error) {
	configs, err := b.store.Configs(bootVersion)
	if err != nil {
		return nil, errors.Wrapf(err, "loading boot loader configs for version %d", bootVersion)
	}
	if len(configs) == 0 {
		return nil, errors.Newf("no boot loader config for version %d", bootVersion)
	}
	cfg := configs[0]

	linux, ok := cfg.Get("linux")
	if !ok {
		return nil, errors.New(`no "linux" key in boot loader config`)
	}
	initrd, ok := cfg.Get("initrd")
	if !ok {
		return nil, errors.New(`no "initrd" key in boot loader config`)
	}
	options, ok := cfg.Get("options")
	if !ok {
		return nil, errors.New(`no "options" key in boot loader config`)
	}

	return &bootEntry{
		Kernel:  filepath.Join(b.opts.BootDir, linux),
		Initrd:  filepath.Join(b.opts.BootDir, initrd),
		Options: options,
	}, nil
}
