package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/fgrehm/darp/internal/settings"
)

// Supervisor manages the shared reverse-proxy and dnsmasq containers and
// reconciles workspace containers against a freshly built topology.
type Supervisor struct {
	helper   *Helper
	settings *settings.Settings
	logger   *slog.Logger
}

// New creates a Supervisor, verifying that podman is on PATH.
func New(s *settings.Settings, logger *slog.Logger) (*Supervisor, error) {
	bin, err := exec.LookPath("podman")
	if err != nil {
		return nil, fmt.Errorf("podman not found on PATH: %w", err)
	}
	logger.Debug("using container runtime", "command", bin)
	return &Supervisor{
		helper:   NewHelper(bin, logger),
		settings: s,
		logger:   logger,
	}, nil
}

// NewWithHelper creates a Supervisor around an existing Helper. Used by
// tests with a fake podman binary.
func NewWithHelper(h *Helper, s *settings.Settings, logger *slog.Logger) *Supervisor {
	return &Supervisor{helper: h, settings: s, logger: logger}
}

// RunningContainers returns the names of all running containers. Failures
// to reach the runtime degrade to an empty result.
func (sv *Supervisor) RunningContainers(ctx context.Context) []string {
	out, err := sv.helper.Output(ctx, "container", "ls", "--format", "{{.Names}}")
	if err != nil {
		sv.logger.Debug("listing containers failed", "error", err)
		return nil
	}
	return parseLines(string(out))
}

// IsRunning reports whether the named container is currently running.
func (sv *Supervisor) IsRunning(ctx context.Context, name string) bool {
	for _, running := range sv.RunningContainers(ctx) {
		if running == name {
			return true
		}
	}
	return false
}

// RunningWorkspaceContainers returns the running containers carrying the
// workspace prefix.
func (sv *Supervisor) RunningWorkspaceContainers(ctx context.Context) []string {
	var names []string
	for _, name := range sv.RunningContainers(ctx) {
		if strings.HasPrefix(name, WorkspacePrefix) {
			names = append(names, name)
		}
	}
	return names
}

// proxyRunArgs assembles the detached `podman run` for the reverse proxy.
func (sv *Supervisor) proxyRunArgs() []string {
	return []string{
		"run", "-d", "--rm",
		"--name", ProxyContainer,
		"-p", "80:80",
		"-v", sv.settings.VhostConfPath() + ":/etc/nginx/conf.d/vhost_container.conf",
		"nginx",
	}
}

// dnsRunArgs assembles the detached `podman run` for the dnsmasq forwarder.
func (sv *Supervisor) dnsRunArgs() []string {
	return []string{
		"run", "-d", "--rm",
		"--name", DNSContainer,
		"-p", "53:53/udp",
		"-p", "53:53/tcp",
		"-v", sv.settings.DnsmasqDir() + ":/etc/dnsmasq.d",
		"--cap-add=NET_ADMIN",
		"dockurr/dnsmasq",
	}
}

// EnsureProxy starts the reverse proxy container if it is not running.
// The launch is detached; the caller does not wait for readiness.
func (sv *Supervisor) EnsureProxy(ctx context.Context) error {
	if sv.IsRunning(ctx, ProxyContainer) {
		return nil
	}
	if _, err := sv.helper.Output(ctx, sv.proxyRunArgs()...); err != nil {
		return fmt.Errorf("starting %s: %w", ProxyContainer, err)
	}
	return nil
}

// ReloadOrStartProxy restarts the reverse proxy so it re-reads the mounted
// config files, or starts it if it is not running.
func (sv *Supervisor) ReloadOrStartProxy(ctx context.Context) error {
	if !sv.IsRunning(ctx, ProxyContainer) {
		return sv.EnsureProxy(ctx)
	}
	if _, err := sv.helper.Output(ctx, "restart", ProxyContainer); err != nil {
		return fmt.Errorf("restarting %s: %w", ProxyContainer, err)
	}
	return nil
}

// EnsureDNS starts the dnsmasq container if it is not running.
func (sv *Supervisor) EnsureDNS(ctx context.Context) error {
	if sv.IsRunning(ctx, DNSContainer) {
		return nil
	}
	if _, err := sv.helper.Output(ctx, sv.dnsRunArgs()...); err != nil {
		return fmt.Errorf("starting %s: %w", DNSContainer, err)
	}
	return nil
}

// StopContainer stops a single container by name.
func (sv *Supervisor) StopContainer(ctx context.Context, name string) error {
	if _, err := sv.helper.Output(ctx, "stop", name); err != nil {
		return fmt.Errorf("stopping %s: %w", name, err)
	}
	return nil
}

// StopContainers stops the named containers concurrently. After a
// topology rebuild any previously assigned port may be stale, so deploy
// stops every workspace container and lets the operator relaunch. All
// stops are attempted; the first failure (if any) is returned.
func (sv *Supervisor) StopContainers(ctx context.Context, names []string) error {
	var g errgroup.Group
	for _, name := range names {
		g.Go(func() error {
			return sv.StopContainer(ctx, name)
		})
	}
	return g.Wait()
}
