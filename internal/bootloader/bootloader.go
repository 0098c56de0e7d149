// Package bootloader defines the contract between the deployment manager
// and the machine-specific boot loader backends, and selects a backend by
// explicit name rather than runtime auto-detection.
package bootloader

import (
	"github.com/cockroachdb/errors"

	"github.com/cozystack/zipl-sync/internal/bls"
	"github.com/cozystack/zipl-sync/internal/bootloader/zipl"
	"github.com/cozystack/zipl-sync/internal/executil"
	"github.com/cozystack/zipl-sync/internal/sysroot"
)

// Bootloader is implemented by every backend.
type Bootloader interface {
	// Name returns the backend name.
	Name() string

	// IsApplicable reports whether the backend considers itself active
	// for the current machine without being explicitly selected.
	IsApplicable() (bool, error)

	// MarkPending records that boot loader state is out of date with the
	// written deployments. Cheap; called on every deployment write.
	MarkPending() error

	// ApplyPending brings the machine boot state up to date with the
	// boot configuration version, once, if marked pending.
	ApplyPending(bootVersion int) error
}

var _ Bootloader = (*zipl.Bootloader)(nil)

// ForName constructs the named backend against the given sysroot.
func ForName(name string, sys *sysroot.Sysroot, run executil.Runner, opts zipl.Options) (Bootloader, error) {
	switch name {
	case zipl.Name:
		return zipl.New(sys, bls.NewDirStore(sys), run, opts), nil
	default:
		return nil, errors.Newf("unknown boot loader backend %q", name)
	}
}
