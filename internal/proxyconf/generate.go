// Package proxyconf renders a topology into the two artifacts the
// externally-managed containers consume: the nginx virtual-host
// configuration for the reverse proxy and the hosts file for name
// resolution inside workspace containers.
package proxyconf

import (
	"fmt"
	"os"
	"strings"

	"github.com/fgrehm/darp/internal/topology"
)

// UpstreamHost is how the reverse proxy container reaches services
// published on the host.
const UpstreamHost = "host.containers.internal"

// BindAddress is the catch-all address hosts-file entries resolve to.
const BindAddress = "0.0.0.0"

const vhostBlock = `server {
    listen 80;
    server_name %s;
    location / {
        proxy_pass http://%s:%d/;
        proxy_set_header Host $host;
    }
}

`

// VhostConfig renders one nginx server block per workspace, in topology
// order. Output is deterministic for a given topology.
func VhostConfig(topo *topology.Topology) string {
	var b strings.Builder
	for _, domain := range topo.Domains() {
		for _, workspace := range topo.Workspaces(domain) {
			port, _ := topo.Port(domain, workspace)
			fmt.Fprintf(&b, vhostBlock, topology.URL(domain, workspace), UpstreamHost, port)
		}
	}
	return b.String()
}

// HostsFile renders one hosts line per workspace, in topology order.
func HostsFile(topo *topology.Topology) string {
	var b strings.Builder
	for _, domain := range topo.Domains() {
		for _, workspace := range topo.Workspaces(domain) {
			fmt.Fprintf(&b, "%s   %s\n", BindAddress, topology.URL(domain, workspace))
		}
	}
	return b.String()
}

// WriteFiles renders and writes both artifacts. Write failures propagate;
// no partial rollback is attempted.
func WriteFiles(vhostPath, hostsPath string, topo *topology.Topology) error {
	if err := os.WriteFile(hostsPath, []byte(HostsFile(topo)), 0o644); err != nil {
		return fmt.Errorf("writing hosts file: %w", err)
	}
	if err := os.WriteFile(vhostPath, []byte(VhostConfig(topo)), 0o644); err != nil {
		return fmt.Errorf("writing vhost config: %w", err)
	}
	return nil
}
