package cmd

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/fgrehm/darp/internal/topology"
)

var urlsCmd = &cobra.Command{
	Use:   "urls",
	Short: "lists the urls darp makes available",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		u := newUI()

		topo, err := topology.Load(sets.PortmapPath())
		if err != nil {
			return err
		}

		u.Say("")
		for _, domain := range sortedCopy(topo.Domains()) {
			u.Say(u.Green(domain))
			for _, workspace := range sortedCopy(topo.Workspaces(domain)) {
				port, err := topo.Port(domain, workspace)
				if err != nil {
					return err
				}
				u.Sayf("  http://%s.%s.test (%d)", u.Blue(workspace), domain, port)
			}
			u.Say("")
		}
		return nil
	},
}

func sortedCopy(names []string) []string {
	out := make([]string, len(names))
	copy(out, names)
	sort.Strings(out)
	return out
}
