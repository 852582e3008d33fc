package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fgrehm/darp/internal/settings"
)

var zshrcFlag string

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "sets a configuration entry",
}

var setServeCommandCmd = &cobra.Command{
	Use:   "serve_command ENV CMD",
	Short: "set serve_command on an environment",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		u := newUI()
		cfg, err := loadConfig(u)
		if err != nil {
			return err
		}

		env, command := args[0], args[1]
		if _, err := lookupEnvironment(cfg, env); err != nil {
			return err
		}
		if err := cfg.SetServeCommand(env, command); err != nil {
			return err
		}
		if err := saveConfig(cfg); err != nil {
			return err
		}

		u.Sayf("Set serve_command for environment '%s' to:\n  %s", env, command)
		return nil
	},
}

var setImageRepoCmd = &cobra.Command{
	Use:   "image_repository ENV REPO",
	Short: "set image_repository on an environment",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		u := newUI()
		cfg, err := loadConfig(u)
		if err != nil {
			return err
		}

		env, repo := args[0], args[1]
		if _, err := lookupEnvironment(cfg, env); err != nil {
			return err
		}
		if err := cfg.SetImageRepository(env, repo); err != nil {
			return err
		}
		if err := saveConfig(cfg); err != nil {
			return err
		}

		u.Sayf("Set image_repository for environment '%s' to:\n  %s", env, repo)
		return nil
	},
}

var setDarpRootCmd = &cobra.Command{
	Use:   "DARP_ROOT PATH",
	Short: "persist DARP_ROOT in the shell config",
	Args:  cobra.ExactArgs(1),
	RunE:  setExportRunE("DARP_ROOT"),
}

var setPodmanMachineCmd = &cobra.Command{
	Use:   "PODMAN_MACHINE NAME",
	Short: "persist PODMAN_MACHINE in the shell config",
	Args:  cobra.ExactArgs(1),
	RunE:  setExportRunE("PODMAN_MACHINE"),
}

// setExportRunE persists one environment variable as an export line in
// the user's shell rc file.
func setExportRunE(key string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		u := newUI()

		path, err := zshrcPath()
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			u.Sayf("%s does not exist; creating it.", path)
		}

		if err := settings.SetExport(path, key, args[0]); err != nil {
			return err
		}

		u.Sayf("%s set to '%s' in %s. Restart your shell or run 'source %s' to apply.",
			key, args[0], path, path)
		return nil
	}
}

// zshrcPath resolves the -z flag (default ~/.zshrc), expanding a leading ~.
func zshrcPath() (string, error) {
	path := zshrcFlag
	if path == "" {
		path = "~/.zshrc"
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path, nil
}

func init() {
	setCmd.AddCommand(setServeCommandCmd)
	setCmd.AddCommand(setImageRepoCmd)
	setCmd.AddCommand(setDarpRootCmd)
	setCmd.AddCommand(setPodmanMachineCmd)

	for _, c := range []*cobra.Command{setDarpRootCmd, setPodmanMachineCmd} {
		c.Flags().StringVarP(&zshrcFlag, "zshrc", "z", "", "shell config file to edit (default ~/.zshrc)")
	}
}
