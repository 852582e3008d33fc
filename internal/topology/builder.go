package topology

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fgrehm/darp/internal/config"
)

// Builder scans domain locations and allocates ports.
type Builder struct {
	logger *slog.Logger
}

// NewBuilder creates a Builder.
func NewBuilder(logger *slog.Logger) *Builder {
	return &Builder{logger: logger}
}

// Build produces a fresh Topology from the configured domains. Domains are
// visited in configuration order, workspaces in directory listing order,
// and ports are assigned from a single counter starting at BasePort, so
// the assignment is unique across the whole topology and deterministic for
// a given config and filesystem state.
//
// A domain whose location is missing or empty contributes zero workspaces
// without failing the build. Having no domains at all does fail it.
func (b *Builder) Build(domains *config.Domains) (*Topology, error) {
	if domains.Len() == 0 {
		return nil, config.ErrNoDomains
	}

	topo := &Topology{}
	port := BasePort

	for _, name := range domains.Names() {
		dom, _ := domains.Get(name)
		topo.AddDomain(name)

		for _, workspace := range b.listWorkspaces(name, dom.Location) {
			topo.Assign(name, workspace, port)
			port++
		}
	}

	return topo, nil
}

// listWorkspaces returns the immediate subdirectories of location, in
// listing order. Hidden entries and non-directories are skipped;
// an unreadable location yields no workspaces.
func (b *Builder) listWorkspaces(domain, location string) []string {
	entries, err := os.ReadDir(location)
	if err != nil {
		b.logger.Debug("skipping unreadable domain location",
			"domain", domain, "location", location, "error", err)
		return nil
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names = append(names, entry.Name())
	}
	return names
}

// URL returns the local domain name a workspace is served under.
func URL(domain, workspace string) string {
	return fmt.Sprintf("%s.%s.test", workspace, domain)
}
