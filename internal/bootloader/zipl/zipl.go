// Package zipl implements the boot loader backend for IBM Z (s390x)
// machines. Writing boot loader entries does not make them bootable there:
// the boot block has to be re-indexed with zipl, and on hosts provisioned
// for IBM Secure Execution the kernel, initramfs and kernel command line
// first have to be sealed into a single encrypted image with genprotimg.
//
// Re-indexing is expensive, so the backend splits the work in two:
// MarkPending drops a stamp file whenever deployments change, and
// ApplyPending performs the actual re-index once per sync cycle, only if the
// stamp is present.
package zipl

import (
	"io/fs"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"

	"github.com/cozystack/zipl-sync/internal/bls"
	"github.com/cozystack/zipl-sync/internal/executil"
	"github.com/cozystack/zipl-sync/internal/sysroot"
)

// Name is the backend name the deployment manager selects explicitly.
const Name = "zipl"

const (
	ziplTool       = "zipl"
	genprotimgTool = "genprotimg"
)

// Options carries the machine paths the backend works against. The defaults
// match a stock s390x deployment; tests point them at temporary directories.
type Options struct {
	// UpdateStamp is the pending-reindex marker, relative to the sysroot.
	UpdateStamp string

	// BootDir holds the synced kernels and initramfs images and is the
	// zipl target directory.
	BootDir string

	// HostKeyDir is scanned for Secure Execution host keys; file names
	// starting with HostKeyPrefix count.
	HostKeyDir    string
	HostKeyPrefix string

	// BootImage is where the generated Secure Execution image goes.
	BootImage string

	// InitrdImage is where the LUKS-enabled initramfs is rebuilt to.
	InitrdImage string

	// LUKSRootKey and LUKSConfig must both exist for the disk-unlock key
	// to be embedded into the initramfs.
	LUKSRootKey string
	LUKSConfig  string

	// RamdiskTool rebuilds the initramfs with the unlock key inside.
	RamdiskTool string

	// TempDir receives the ephemeral genprotimg parameter files.
	TempDir string
}

// DefaultOptions returns the stock s390x paths.
func DefaultOptions() Options {
	return Options{
		UpdateStamp:   "boot/bootloader-update.stamp",
		BootDir:       "/boot",
		HostKeyDir:    "/etc/se-hostkeys",
		HostKeyPrefix: "ibm-z-hostkey",
		BootImage:     "/boot/sd-boot",
		InitrdImage:   "/tmp/sd-initrd.img",
		LUKSRootKey:   "/etc/luks/root",
		LUKSConfig:    "/etc/crypttab",
		RamdiskTool:   "s390x-se-luks-gencpio",
		TempDir:       os.TempDir(),
	}
}

// Bootloader drives zipl for a sysroot. It owns the update stamp
// exclusively; nothing else may create or remove it.
type Bootloader struct {
	sys   *sysroot.Sysroot
	store bls.Store
	run   executil.Runner
	opts  Options
}

func New(sys *sysroot.Sysroot, store bls.Store, run executil.Runner, opts Options) *Bootloader {
	return &Bootloader{sys: sys, store: store, run: run, opts: opts}
}

func (b *Bootloader) Name() string {
	return Name
}

// IsApplicable always reports false: the zipl backend is never auto-detected
// and has to be selected explicitly by the deployment manager.
func (b *Bootloader) IsApplicable() (bool, error) {
	return false, nil
}

// MarkPending records that a boot loader re-index is owed by (re)creating
// the update stamp. Called on every deployment write, so it stays cheap: an
// empty file, no fsync. Idempotent.
func (b *Bootloader) MarkPending() error {
	stamp := b.sys.Path(b.opts.UpdateStamp)
	if err := os.WriteFile(stamp, nil, 0o644); err != nil {
		return errors.Wrapf(err, "writing update stamp %s", stamp)
	}
	return nil
}

// Pending reports whether a re-index is currently owed.
func (b *Bootloader) Pending() (bool, error) {
	stamp := b.sys.Path(b.opts.UpdateStamp)
	if _, err := os.Stat(stamp); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, errors.Wrapf(err, "checking update stamp %s", stamp)
	}
	return true, nil
}

// ApplyPending re-indexes the boot block for bootVersion if the update stamp
// is present, and is a no-op otherwise. With Secure Execution host keys on
// the machine it generates and installs the sealed boot image; without them
// it runs plain zipl and clears the stamp.
//
// The caller must hold whatever lock serializes deployment mutations; no
// locking happens here.
func (b *Bootloader) ApplyPending(bootVersion int) error {
	if !b.sys.BootedDeployment {
		panic("zipl: ApplyPending invoked without a booted deployment")
	}

	pending, err := b.Pending()
	if err != nil {
		return err
	}
	if !pending {
		return nil
	}

	keys, err := b.findHostKeys()
	if err != nil {
		return err
	}
	if len(keys) > 0 {
		// The stamp deliberately stays in place on this path so the
		// sealed image is regenerated on every sync cycle.
		return b.applySecureExecution(bootVersion, keys)
	}

	// Plain setup: zipl reads the live boot loader configuration itself.
	res, err := b.run.Run(ziplTool)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return toolError(ziplTool, res)
	}

	stamp := b.sys.Path(b.opts.UpdateStamp)
	if err := os.Remove(stamp); err != nil {
		return errors.Wrapf(err, "removing update stamp %s", stamp)
	}
	return nil
}

// applySecureExecution runs the full Secure Execution sequence: resolve the
// active boot entry, seal it into the protected image, point zipl at it.
func (b *Bootloader) applySecureExecution(bootVersion int, keys []string) error {
	entry, err := b.resolveEntry(bootVersion)
	if err != nil {
		return err
	}

	image, err := b.buildProtectedImage(entry, keys)
	if err != nil {
		return err
	}

	res, err := b.run.Run(ziplTool, "-V", "-t", b.opts.BootDir, "-i", image)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return toolError(ziplTool, res)
	}
	logrus.Infof("secure execution: %s installed via zipl", image)
	return nil
}

// toolError turns a non-zero exit into an error carrying the captured
// output, so callers can surface the diagnostics instead of just a status.
func toolError(tool string, res *executil.Result) error {
	return errors.Newf("%s failed with exit status %d\nstdout: %s\nstderr: %s",
		tool, res.ExitCode, res.Stdout, res.Stderr)
}
