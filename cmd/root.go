// Package cmd wires the darp CLI: directories auto-reverse-proxied.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fgrehm/darp/internal/config"
	"github.com/fgrehm/darp/internal/runtime"
	"github.com/fgrehm/darp/internal/settings"
	"github.com/fgrehm/darp/internal/ui"
)

var (
	debugFlag bool
	logger    *slog.Logger

	// sets is the ambient configuration for this invocation, built once
	// in Execute and passed into every component.
	sets *settings.Settings

	// supervisor talks to podman for the whole invocation.
	supervisor *runtime.Supervisor

	// exitStatus carries a foreground child's exit code out to the shell.
	exitStatus int
)

// Version variables injected at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Built   = "unknown"
)

var rootCmd = &cobra.Command{
	Use:           "darp",
	Short:         "Your directories auto-reverse proxied",
	Version:       Version,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")
	rootCmd.SetVersionTemplate(fmt.Sprintf("darp version %s\n", Version))
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(deployCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(urlsCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command with signal handling. Before dispatching
// it performs the startup checks every invocation does: the podman
// machine must be running, port 53 should be unprivileged in the machine,
// and the shared proxy and dnsmasq containers are started best-effort.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger = newLogger(slices.Contains(os.Args[1:], "--debug"))
	u := newUI()

	var err error
	sets, err = settings.Load()
	if err != nil {
		u.Error(err.Error())
		os.Exit(1)
	}

	supervisor, err = runtime.New(sets, logger)
	if err != nil {
		u.Error(err.Error())
		os.Exit(1)
	}

	if !supervisor.MachineRunning(ctx) {
		if sets.Machine != "" {
			u.Sayf("Podman machine '%s' appears to be down %s",
				sets.Machine, u.Red("(podman machine start "+sets.Machine+")"))
		} else {
			u.Sayf("No podman machine appears to be running %s",
				u.Red("(podman machine start)"))
		}
		os.Exit(1)
	}

	port53OK := supervisor.UnprivilegedPortStart(ctx, 53)
	if !port53OK {
		u.Sayf("Podman machine '%s' has port 53 privileged %s",
			sets.Machine, u.Red("(run 'darp init' or see readme.md)"))
	}

	ensureSharedContainers(ctx, u)
	decorateCommandHelp(ctx, u, port53OK)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		u.Error(err.Error())
		os.Exit(1)
	}
	if exitStatus != 0 {
		os.Exit(exitStatus)
	}
}

// ensureSharedContainers starts the reverse proxy and dnsmasq containers
// when they are not running. Failures are reported but never abort the
// invocation; most commands only need them eventually.
func ensureSharedContainers(ctx context.Context, u *ui.UI) {
	if !supervisor.IsRunning(ctx, runtime.ProxyContainer) {
		u.Sayf("starting %s\n", u.Green(runtime.ProxyContainer))
		if err := supervisor.EnsureProxy(ctx); err != nil {
			logger.Warn("could not start reverse proxy", "error", err)
		}
	}
	if !supervisor.IsRunning(ctx, runtime.DNSContainer) {
		u.Sayf("starting %s\n", u.Green(runtime.DNSContainer))
		if err := supervisor.EnsureDNS(ctx); err != nil {
			logger.Warn("could not start dnsmasq", "error", err)
		}
	}
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.TimeValue(t.UTC())
				}
			}
			return a
		},
	}))
}

// newUI creates a UI that writes to stdout and stderr.
func newUI() *ui.UI {
	return ui.New(os.Stdout, os.Stderr)
}

// loadConfig reads the user configuration, creating an empty file on
// first use.
func loadConfig(u *ui.UI) (*config.Config, error) {
	cfg, created, err := config.Load(sets.ConfigPath())
	if err != nil {
		return nil, err
	}
	if created {
		u.Sayf("Created %s", sets.ConfigPath())
	}
	return cfg, nil
}

// saveConfig writes the user configuration back to disk.
func saveConfig(cfg *config.Config) error {
	return config.Save(sets.ConfigPath(), cfg)
}
