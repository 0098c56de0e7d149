// Package executil wraps synchronous child-process invocation behind a
// narrow Runner capability so external tools can be stubbed out in tests.
package executil

import (
	"bytes"
	"os/exec"

	"github.com/cockroachdb/errors"
)

// Result holds the outcome of a finished child process.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Runner executes an external tool and waits for it to finish. A non-zero
// exit status is reported through Result, not as an error; the error return
// is reserved for failures to run the tool at all (missing binary, fork
// failure). Callers decide what a non-zero exit means for them.
type Runner interface {
	Run(name string, args ...string) (*Result, error)
}

// ExecRunner runs tools via os/exec, resolving the name against PATH.
type ExecRunner struct{}

func (ExecRunner) Run(name string, args ...string) (*Result, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.Command(name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := &Result{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, errors.Wrapf(err, "spawning %s", name)
		}
		res.ExitCode = exitErr.ExitCode()
	}
	return res, nil
}
