// Package runtime talks to podman: it supervises the shared reverse-proxy
// and dnsmasq containers, queries and stops workspace containers, and
// inspects the podman machine. All control is via the podman CLI.
package runtime

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
)

// Helper wraps the podman binary for executing commands.
type Helper struct {
	command string
	logger  *slog.Logger
}

// NewHelper creates a Helper that shells out to the given command.
func NewHelper(command string, logger *slog.Logger) *Helper {
	return &Helper{command: command, logger: logger}
}

// Run executes the command with the given args and attached I/O streams.
// If the command exits non-zero, the returned error includes captured
// stderr.
func (h *Helper) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	h.logger.Debug("exec", "cmd", h.command, "args", args)

	cmd := exec.CommandContext(ctx, h.command, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout

	var stderrBuf bytes.Buffer
	if stderr != nil {
		cmd.Stderr = io.MultiWriter(stderr, &stderrBuf)
	} else {
		cmd.Stderr = &stderrBuf
	}

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %v: %w: %s", h.command, args, err, stderrBuf.String())
	}
	return nil
}

// Output executes the command and returns captured stdout.
func (h *Helper) Output(ctx context.Context, args ...string) ([]byte, error) {
	var stdout bytes.Buffer
	if err := h.Run(ctx, args, nil, &stdout, nil); err != nil {
		return nil, err
	}
	return stdout.Bytes(), nil
}

// parseLines splits output by newlines and removes empty strings.
func parseLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(s), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
