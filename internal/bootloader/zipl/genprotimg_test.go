package zipl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cozystack/zipl-sync/internal/executil"
)

// parmCapturingRunner snapshots the genprotimg parameter file at invocation
// time, before the backend gets a chance to delete it.
type parmCapturingRunner struct {
	*executil.FakeRunner
	parmContent []byte
	parmPath    string
}

func (r *parmCapturingRunner) Run(name string, args ...string) (*executil.Result, error) {
	if name == genprotimgTool {
		for i := 0; i < len(args)-1; i++ {
			if args[i] == "-p" {
				r.parmPath = args[i+1]
				r.parmContent, _ = os.ReadFile(args[i+1])
			}
		}
	}
	return r.FakeRunner.Run(name, args...)
}

func TestBuildProtectedImageArguments(t *testing.T) {
	f := newFixture(t)
	runner := &parmCapturingRunner{FakeRunner: f.fake}
	b := New(f.sys, nil, runner, f.opts)

	key := "/etc/se-hostkeys/ibm-z-hostkey-1"
	image, err := b.buildProtectedImage(&bootEntry{
		Kernel:  "/boot/vmlinuz-X",
		Initrd:  "/boot/initramfs-X",
		Options: "root=/dev/mapper/x",
	}, []string{key})
	require.NoError(t, err)
	assert.Equal(t, f.opts.BootImage, image)

	calls := f.fake.CallsTo(genprotimgTool)
	require.Len(t, calls, 1)
	assert.Equal(t, []string{
		"-i", "/boot/vmlinuz-X",
		"-r", "/boot/initramfs-X",
		"-p", runner.parmPath,
		"-k", key,
		"--no-verify",
		"-o", f.opts.BootImage,
	}, calls[0].Args)

	// The parameter file holds exactly the command line, and is gone once
	// the image has been generated.
	assert.Equal(t, "root=/dev/mapper/x", string(runner.parmContent))
	_, statErr := os.Stat(runner.parmPath)
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestBuildProtectedImageMultipleKeysPreserveOrder(t *testing.T) {
	f := newFixture(t)
	b := f.bootloader()

	keys := []string{"/k/ibm-z-hostkey-1", "/k/ibm-z-hostkey-2", "/k/ibm-z-hostkey-3"}
	_, err := b.buildProtectedImage(&bootEntry{
		Kernel: "/boot/vmlinuz", Initrd: "/boot/initrd", Options: "ro",
	}, keys)
	require.NoError(t, err)

	calls := f.fake.CallsTo(genprotimgTool)
	require.Len(t, calls, 1)

	var keyArgs []string
	args := calls[0].Args
	for i := 0; i < len(args)-1; i++ {
		if args[i] == "-k" {
			keyArgs = append(keyArgs, args[i+1])
		}
	}
	assert.Equal(t, keys, keyArgs)
}

func TestBuildProtectedImageFailureLeaksParameterFile(t *testing.T) {
	f := newFixture(t)
	f.fake.Results[genprotimgTool] = &executil.Result{ExitCode: 1, Stderr: []byte("bad host key")}
	b := f.bootloader()

	_, err := b.buildProtectedImage(&bootEntry{
		Kernel: "/boot/vmlinuz", Initrd: "/boot/initrd", Options: "ro",
	}, []string{"/k/ibm-z-hostkey-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad host key")

	// The parameter file stays behind for inspection.
	dirents, readErr := os.ReadDir(f.opts.TempDir)
	require.NoError(t, readErr)
	require.Len(t, dirents, 1)
	content, readErr := os.ReadFile(filepath.Join(f.opts.TempDir, dirents[0].Name()))
	require.NoError(t, readErr)
	assert.Equal(t, "ro", string(content))
}

func TestBuildProtectedImageWithoutKeysIsAnAssertion(t *testing.T) {
	f := newFixture(t)
	b := f.bootloader()

	_, err := b.buildProtectedImage(&bootEntry{
		Kernel: "/boot/vmlinuz", Initrd: "/boot/initrd", Options: "ro",
	}, nil)
	require.Error(t, err)
	assert.Empty(t, f.fake.Calls)
}
