package cmd

import (
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "adds a configuration entry",
}

var addDomainCmd = &cobra.Command{
	Use:   "domain NAME LOCATION",
	Short: "adds a proxied domain",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		u := newUI()
		cfg, err := loadConfig(u)
		if err != nil {
			return err
		}

		name, location := args[0], args[1]
		if err := cfg.AddDomain(name, location); err != nil {
			return err
		}
		if err := saveConfig(cfg); err != nil {
			return err
		}

		u.Sayf("created '%s' at %s", name, location)
		return nil
	},
}

var addPortmapCmd = &cobra.Command{
	Use:   "portmap DOMAIN SERVICE HOST_PORT CONTAINER_PORT",
	Short: "adds an extra port mapping to a service",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		u := newUI()
		cfg, err := loadConfig(u)
		if err != nil {
			return err
		}

		domain, service, hostPort, containerPort := args[0], args[1], args[2], args[3]
		if err := cfg.AddPortmap(domain, service, hostPort, containerPort); err != nil {
			return err
		}
		if err := saveConfig(cfg); err != nil {
			return err
		}

		u.Sayf("Created portmapping for '%s.%s' (%s:%s)", domain, service, hostPort, containerPort)
		return nil
	},
}

var addVolumeCmd = &cobra.Command{
	Use:   "volume ENV CONTAINER_DIR HOST_DIR",
	Short: "adds a volume to an environment",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		u := newUI()
		cfg, err := loadConfig(u)
		if err != nil {
			return err
		}

		env, containerDir, hostDir := args[0], args[1], args[2]
		if err := cfg.AddVolume(env, containerDir, hostDir); err != nil {
			return err
		}
		if err := saveConfig(cfg); err != nil {
			return err
		}

		u.Sayf("Added volume to environment '%s': %s -> %s", env, hostDir, containerDir)
		return nil
	},
}

func init() {
	addCmd.AddCommand(addDomainCmd)
	addCmd.AddCommand(addPortmapCmd)
	addCmd.AddCommand(addVolumeCmd)
}
