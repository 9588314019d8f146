package profile

import (
	"bytes"
	"context"
	"os/exec"
	"time"
)

// DefaultTimeout bounds external tool invocations unless overridden.
const DefaultTimeout = 10 * time.Second

// CommandRunner runs an external command to completion and captures its
// output. Implementations return a non-nil error when the command cannot be
// started or exits with a non-zero status.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// systemRunner executes commands through os/exec. A positive timeout bounds
// every invocation so a hung tool fails the call instead of blocking the
// caller forever; zero leaves the invocation unbounded.
type systemRunner struct {
	timeout time.Duration
}

// NewSystemRunner returns a CommandRunner backed by os/exec with the given
// per-invocation timeout. A zero timeout disables the bound.
func NewSystemRunner(timeout time.Duration) CommandRunner {
	return systemRunner{timeout: timeout}
}

func (r systemRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}
