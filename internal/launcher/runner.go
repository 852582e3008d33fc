package launcher

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
)

// interruptExitCode stands in when the child was killed by a signal and
// has no exit code of its own (128 + SIGINT).
const interruptExitCode = 130

// PodmanRunner starts workspace containers in the foreground via
// `podman run`, inheriting the operator's terminal.
type PodmanRunner struct {
	command string
	logger  *slog.Logger
}

// NewPodmanRunner creates a PodmanRunner, verifying podman is on PATH.
func NewPodmanRunner(logger *slog.Logger) (*PodmanRunner, error) {
	bin, err := exec.LookPath("podman")
	if err != nil {
		return nil, fmt.Errorf("podman not found on PATH: %w", err)
	}
	return &PodmanRunner{command: bin, logger: logger}, nil
}

// Start spawns `podman run` with the spec's arguments and the operator's
// stdio attached. The child shares the process group, so terminal
// interrupts reach it directly; the controller deliberately does not kill
// it on context cancellation.
func (r *PodmanRunner) Start(spec *Spec) (Process, error) {
	args := spec.RunArgs()
	r.logger.Debug("exec", "cmd", r.command, "args", args)

	cmd := exec.Command(r.command, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting %s: %w", spec.ContainerName, err)
	}
	return &podmanProcess{cmd: cmd}, nil
}

type podmanProcess struct {
	cmd *exec.Cmd
}

// Wait blocks until podman exits. A non-zero exit is reported through the
// code, not as an error; only failures to observe the process error.
func (p *podmanProcess) Wait() (int, error) {
	err := p.cmd.Wait()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code < 0 {
			code = interruptExitCode
		}
		return code, nil
	}
	return 0, err
}
