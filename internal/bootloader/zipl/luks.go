package zipl

import (
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// luksKeyMaterialPresent reports whether both the disk-unlock key and its
// mapping configuration exist. Either one alone is not enough to embed
// anything.
func (b *Bootloader) luksKeyMaterialPresent() bool {
	return unix.Access(b.opts.LUKSRootKey, unix.F_OK) == nil &&
		unix.Access(b.opts.LUKSConfig, unix.F_OK) == nil
}

// maybeReencryptRamdisk rebuilds the initramfs with the disk-unlock key
// embedded when key material is present, returning the path of the ramdisk
// subsequent steps must use. Without key material the original path comes
// back untouched and no process is spawned.
func (b *Bootloader) maybeReencryptRamdisk(initramfs string) (string, error) {
	if !b.luksKeyMaterialPresent() {
		return initramfs, nil
	}

	res, err := b.run.Run(b.opts.RamdiskTool, initramfs, b.opts.InitrdImage)
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", toolError(b.opts.RamdiskTool, res)
	}

	logrus.Info("secure execution: disk unlock key added to initramfs")
	return b.opts.InitrdImage, nil
}
