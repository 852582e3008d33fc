package cmd

import (
	"fmt"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/fgrehm/darp/internal/proxyconf"
	"github.com/fgrehm/darp/internal/runtime"
	"github.com/fgrehm/darp/internal/topology"
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "deploys the environment",
	Long: `Rebuild the workspace topology and roll it out.

Every domain location is re-scanned for workspaces, ports are reassigned
from scratch, the reverse-proxy and hosts files are regenerated, the
proxy is reloaded, and all running workspace containers are stopped
(their port bindings may no longer be valid).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		u := newUI()
		ctx := cmd.Context()

		u.Say("Deploying Container Development\n")

		cfg, err := loadConfig(u)
		if err != nil {
			return err
		}
		if cfg.Domains.Len() == 0 {
			return fmt.Errorf("please configure a domain (darp add domain)")
		}

		// Serialize concurrent deploys; the portmap and generated
		// configs are written as a unit.
		lock := flock.New(sets.DeployLockPath())
		if err := lock.Lock(); err != nil {
			return fmt.Errorf("acquiring deploy lock: %w", err)
		}
		defer func() { _ = lock.Unlock() }()

		topo, err := topology.NewBuilder(logger).Build(&cfg.Domains)
		if err != nil {
			return err
		}

		// Persist the portmap before generating configs, and generate
		// configs before touching any container: the proxy must never
		// reload into a half-written state.
		if err := topology.Save(sets.PortmapPath(), topo); err != nil {
			return err
		}
		if err := proxyconf.WriteFiles(sets.VhostConfPath(), sets.HostsPath(), topo); err != nil {
			return err
		}

		u.Sayf("restarting %s", u.Green(runtime.ProxyContainer))
		if err := supervisor.ReloadOrStartProxy(ctx); err != nil {
			logger.Warn("could not reload reverse proxy", "error", err)
		}

		// Every previously running workspace container is bound to a
		// port that may now belong to someone else. Stop them all.
		stale := supervisor.RunningWorkspaceContainers(ctx)
		for _, name := range stale {
			u.Sayf("stopping %s", u.Cyan(name))
		}
		if err := supervisor.StopContainers(ctx, stale); err != nil {
			logger.Warn("could not stop workspace containers", "error", err)
		}

		return nil
	},
}
