// Package sysroot models the deployment root the boot loader backend
// operates on. The handle is constructed once by the caller and passed
// explicitly so the core stays testable against a temporary directory.
package sysroot

import (
	"os"
	"path/filepath"
)

// bootedSentinel is created by the deployment manager early in boot on a
// system running a managed deployment.
const bootedSentinel = "/run/ostree-booted"

// Sysroot is a handle to a physical deployment root.
type Sysroot struct {
	// Root is the absolute path of the deployment root ("/" on a live
	// system).
	Root string

	// BootedDeployment reports whether a currently booted deployment
	// context exists. Boot-loader re-indexing is meaningless without one.
	BootedDeployment bool
}

// New returns a handle for the given root without probing anything.
func New(root string) *Sysroot {
	return &Sysroot{Root: root}
}

// NewFromHost returns a handle for "/" with the booted-deployment fact
// detected from the running system.
func NewFromHost() *Sysroot {
	s := New("/")
	if _, err := os.Stat(bootedSentinel); err == nil {
		s.BootedDeployment = true
	}
	return s
}

// Path joins the given relative parts under the root.
func (s *Sysroot) Path(parts ...string) string {
	return filepath.Join(append([]string{s.Root}, parts...)...)
}
