package zipl

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// buildProtectedImage seals kernel, initramfs and kernel command line into
// the Secure Execution boot image with genprotimg, encrypting against every
// discovered host key. Returns the path of the generated image.
//
// The command line goes into a uniquely named parameter file that is removed
// on success only; on failure it is left behind for inspection.
func (b *Bootloader) buildProtectedImage(entry *bootEntry, keys []string) (string, error) {
	if len(keys) == 0 {
		return "", errors.AssertionFailedf("protected image requested without host keys")
	}

	logrus.Infof("secure execution: kernel: %s", entry.Kernel)
	logrus.Infof("secure execution: initrd: %s", entry.Initrd)
	logrus.Infof("secure execution: kargs: %s", entry.Options)

	parmfile := filepath.Join(b.opts.TempDir, "sd_boot.parmfile."+uuid.NewString())
	if err := os.WriteFile(parmfile, []byte(entry.Options), 0o600); err != nil {
		return "", errors.Wrapf(err, "creating parameter file %s", parmfile)
	}

	ramdisk, err := b.maybeReencryptRamdisk(entry.Initrd)
	if err != nil {
		return "", err
	}

	args := []string{"-i", entry.Kernel, "-r", ramdisk, "-p", parmfile}
	for i, key := range keys {
		args = append(args, "-k", key)
		logrus.Infof("secure execution: host key[%d]: %s", i+1, key)
	}
	// Key verification happens when the keys are provisioned, not here.
	args = append(args, "--no-verify", "-o", b.opts.BootImage)

	res, err := b.run.Run(genprotimgTool, args...)
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", toolError(genprotimgTool, res)
	}

	logrus.Infof("secure execution: %s generated", b.opts.BootImage)
	_ = os.Remove(parmfile)
	return b.opts.BootImage, nil
}
