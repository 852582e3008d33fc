package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var serveEnvFlag string

var serveCmd = &cobra.Command{
	Use:   "serve -e ENV IMAGE",
	Short: "runs the environment serve_command",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u := newUI()
		cfg, err := loadConfig(u)
		if err != nil {
			return err
		}

		if serveEnvFlag == "" {
			return fmt.Errorf("environment is required for 'darp serve' (-e/--environment)")
		}
		env, err := lookupEnvironment(cfg, serveEnvFlag)
		if err != nil {
			return err
		}
		if env.ServeCommand == "" {
			return fmt.Errorf("environment '%s' has no serve_command, use 'darp set serve_command' first", serveEnvFlag)
		}

		inner := `if command -v nginx >/dev/null 2>&1; then ` +
			`echo "Starting nginx..."; nginx; ` +
			`else echo "nginx not found, skipping"; fi; ` +
			`cd /app; ` + env.ServeCommand
		command := []string{"sh", "-c", inner}

		// Exit code 2 restarts the service, Ctrl+C stops it for good.
		return runForeground(cmd.Context(), u, cfg, env, args[0], false, command, []int{2})
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveEnvFlag, "environment", "e", "", "environment whose serve_command to run")
}
