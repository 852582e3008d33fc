package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fgrehm/darp/internal/config"
)

var shellEnvFlag string

// shellInnerCommand starts nginx when the image ships one and hands the
// terminal to an interactive sh in /app.
const shellInnerCommand = `if command -v nginx >/dev/null 2>&1; then ` +
	`echo "Starting nginx..."; nginx; ` +
	`else echo "nginx not found, skipping"; fi; ` +
	`echo ""; ` +
	`echo "To leave this shell and stop the container, type: ` + "\033[33m" + `exit` + "\033[0m" + `"; ` +
	`echo ""; ` +
	`cd /app; exec sh`

var shellCmd = &cobra.Command{
	Use:   "shell [-e ENV] IMAGE",
	Short: "starts a shell instance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u := newUI()
		cfg, err := loadConfig(u)
		if err != nil {
			return err
		}

		var env *config.Environment
		if shellEnvFlag != "" {
			if env, err = lookupEnvironment(cfg, shellEnvFlag); err != nil {
				return err
			}
		}

		command := []string{"sh", "-c", shellInnerCommand}
		return runForeground(cmd.Context(), u, cfg, env, args[0], true, command, []int{137})
	},
}

func init() {
	shellCmd.Flags().StringVarP(&shellEnvFlag, "environment", "e", "", "environment to start the shell in")
}
