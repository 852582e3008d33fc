package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fgrehm/darp/internal/config"
	"github.com/fgrehm/darp/internal/settings"
)

var rmCmd = &cobra.Command{
	Use:   "rm",
	Short: "removes a configuration entry",
}

var rmDomainCmd = &cobra.Command{
	Use:   "domain NAME",
	Short: "removes a proxied domain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u := newUI()
		cfg, err := loadConfig(u)
		if err != nil {
			return err
		}

		if err := cfg.RemoveDomain(args[0]); err != nil {
			return err
		}
		if err := saveConfig(cfg); err != nil {
			return err
		}

		u.Sayf("removed '%s'", args[0])
		return nil
	},
}

var rmPortmapCmd = &cobra.Command{
	Use:   "portmap DOMAIN SERVICE HOST_PORT",
	Short: "removes a port mapping from a service",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		u := newUI()
		cfg, err := loadConfig(u)
		if err != nil {
			return err
		}

		domain, service, hostPort := args[0], args[1], args[2]
		if err := cfg.RemovePortmap(domain, service, hostPort); err != nil {
			return err
		}
		if err := saveConfig(cfg); err != nil {
			return err
		}

		u.Sayf("Removed portmapping for '%s.%s' (%s:____)", domain, service, hostPort)
		return nil
	},
}

var rmServeCommandCmd = &cobra.Command{
	Use:   "serve_command ENV",
	Short: "remove serve_command from an environment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u := newUI()
		cfg, err := loadConfig(u)
		if err != nil {
			return err
		}

		if !cfg.AnyServeCommand() {
			return fmt.Errorf("no environments with serve_command set, use 'darp set serve_command' first")
		}
		if _, err := lookupEnvironment(cfg, args[0]); err != nil {
			return err
		}
		if err := cfg.RemoveServeCommand(args[0]); err != nil {
			if errors.Is(err, config.ErrServeCommandNotSet) {
				return fmt.Errorf("environment '%s' has no custom serve_command, use 'darp set serve_command' first", args[0])
			}
			return err
		}
		if err := saveConfig(cfg); err != nil {
			return err
		}

		u.Sayf("Removed serve_command from environment '%s'", args[0])
		return nil
	},
}

var rmImageRepoCmd = &cobra.Command{
	Use:   "image_repository ENV",
	Short: "remove image_repository from an environment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u := newUI()
		cfg, err := loadConfig(u)
		if err != nil {
			return err
		}

		if !cfg.AnyImageRepository() {
			return fmt.Errorf("no environments with image_repository set, use 'darp set image_repository' first")
		}
		if _, err := lookupEnvironment(cfg, args[0]); err != nil {
			return err
		}
		if err := cfg.RemoveImageRepository(args[0]); err != nil {
			if errors.Is(err, config.ErrImageRepoNotSet) {
				return fmt.Errorf("environment '%s' has no custom image_repository, use 'darp set image_repository' first", args[0])
			}
			return err
		}
		if err := saveConfig(cfg); err != nil {
			return err
		}

		u.Sayf("Removed image_repository from environment '%s'", args[0])
		return nil
	},
}

var rmDarpRootCmd = &cobra.Command{
	Use:   "DARP_ROOT",
	Short: "remove DARP_ROOT from the shell config",
	Args:  cobra.NoArgs,
	RunE:  rmExportRunE("DARP_ROOT"),
}

var rmPodmanMachineCmd = &cobra.Command{
	Use:   "PODMAN_MACHINE",
	Short: "remove PODMAN_MACHINE from the shell config",
	Args:  cobra.NoArgs,
	RunE:  rmExportRunE("PODMAN_MACHINE"),
}

// rmExportRunE drops an export line from the user's shell rc file. A
// missing export is reported but is not an error.
func rmExportRunE(key string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		u := newUI()

		path, err := zshrcPath()
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("%s does not exist", path)
		}

		removed, err := settings.RemoveExport(path, key)
		if err != nil {
			return err
		}
		if !removed {
			u.Sayf("No %s entry found in %s.", key, path)
			return nil
		}

		u.Sayf("Removed %s from %s. Restart your shell or run 'source %s' to apply.", key, path, path)
		return nil
	}
}

func init() {
	rmCmd.AddCommand(rmDomainCmd)
	rmCmd.AddCommand(rmPortmapCmd)
	rmCmd.AddCommand(rmServeCommandCmd)
	rmCmd.AddCommand(rmImageRepoCmd)
	rmCmd.AddCommand(rmDarpRootCmd)
	rmCmd.AddCommand(rmPodmanMachineCmd)

	for _, c := range []*cobra.Command{rmDarpRootCmd, rmPodmanMachineCmd} {
		c.Flags().StringVarP(&zshrcFlag, "zshrc", "z", "", "shell config file to edit (default ~/.zshrc)")
	}
}
