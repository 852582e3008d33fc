// Package settings holds the ambient configuration for a darp invocation:
// where state lives on disk and which podman machine is targeted. It is
// built once at process start and passed to every component by parameter.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
)

// ResolverFile is the macOS resolver drop-in that routes *.test lookups
// to the local dnsmasq container. Written by `darp init`.
const ResolverFile = "/etc/resolver/test"

// DefaultMachine is the podman machine targeted when PODMAN_MACHINE is unset.
const DefaultMachine = "podman-machine-default"

// Settings describes where darp keeps its state and which podman machine
// it talks to.
type Settings struct {
	// Root is the base storage directory (default ~/.darp).
	Root string

	// Machine is the podman machine name. An empty string means "any
	// running machine is acceptable".
	Machine string
}

// Load builds Settings from defaults, an optional .darprc in the current
// directory, and the DARP_ROOT / PODMAN_MACHINE environment variables.
// Precedence: env > .darprc > defaults.
func Load() (*Settings, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting home directory: %w", err)
	}

	s := &Settings{
		Root:    filepath.Join(home, ".darp"),
		Machine: DefaultMachine,
	}

	rc, err := loadRC()
	if err != nil {
		return nil, err
	}
	if rc != nil {
		if rc.Root != "" {
			s.Root = rc.Root
		}
		if rc.Machine != nil {
			s.Machine = *rc.Machine
		}
	}

	if v, ok := os.LookupEnv("DARP_ROOT"); ok && v != "" {
		s.Root = v
	}
	if v, ok := os.LookupEnv("PODMAN_MACHINE"); ok {
		s.Machine = v
	}

	return s, nil
}

// ConfigPath is the user configuration file (domains, environments).
func (s *Settings) ConfigPath() string {
	return filepath.Join(s.Root, "config.json")
}

// PortmapPath is the persisted topology (domain -> workspace -> port).
func (s *Settings) PortmapPath() string {
	return filepath.Join(s.Root, "portmap.json")
}

// VhostConfPath is the generated nginx virtual-host configuration,
// mounted into the reverse proxy container.
func (s *Settings) VhostConfPath() string {
	return filepath.Join(s.Root, "vhost_container.conf")
}

// HostsPath is the generated hosts file, mounted into workspace containers.
func (s *Settings) HostsPath() string {
	return filepath.Join(s.Root, "hosts_container")
}

// NginxConfPath is the base nginx.conf written by `darp init` and mounted
// into workspace containers.
func (s *Settings) NginxConfPath() string {
	return filepath.Join(s.Root, "nginx.conf")
}

// DnsmasqDir is the dnsmasq drop-in directory mounted into the dnsmasq
// container.
func (s *Settings) DnsmasqDir() string {
	return filepath.Join(s.Root, "dnsmasq.d")
}

// DeployLockPath is the advisory lock taken for the duration of a deploy
// so two concurrent deploys cannot interleave their writes.
func (s *Settings) DeployLockPath() string {
	return filepath.Join(s.Root, "deploy.lock")
}
