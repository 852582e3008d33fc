package runtime

// Container names for the tool's own containers.
const (
	// ProxyContainer is the always-on nginx reverse proxy.
	ProxyContainer = "darp-reverse-proxy"

	// DNSContainer is the dnsmasq forwarder resolving *.test locally.
	DNSContainer = "darp-masq"

	// WorkspacePrefix marks containers launched for workspaces, so they
	// can be discovered and reconciled after a topology rebuild.
	WorkspacePrefix = "darp_"
)

// WorkspaceContainerName returns the deterministic container name for a
// workspace.
func WorkspaceContainerName(domain, workspace string) string {
	return WorkspacePrefix + domain + "_" + workspace
}
