package cmd

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fgrehm/darp/internal/settings"
	"github.com/fgrehm/darp/internal/ui"
)

//go:embed nginx.conf
var baseNginxConf []byte

const dnsmasqTestConf = "address=/.test/127.0.0.1\n"

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "initializes darp",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		u := newUI()
		u.Say("Running initialization")

		ctx := cmd.Context()
		if err := writeResolverFile(ctx); err != nil {
			return err
		}
		u.Sayf("\n%s created", u.Green(settings.ResolverFile))

		if err := os.MkdirAll(sets.DnsmasqDir(), 0o755); err != nil {
			return fmt.Errorf("creating dnsmasq directory: %w", err)
		}

		if err := os.WriteFile(sets.NginxConfPath(), baseNginxConf, 0o644); err != nil {
			return fmt.Errorf("writing nginx.conf: %w", err)
		}

		testConf := filepath.Join(sets.DnsmasqDir(), "test.conf")
		if err := os.WriteFile(testConf, []byte(dnsmasqTestConf), 0o644); err != nil {
			return fmt.Errorf("writing dnsmasq config: %w", err)
		}
		u.Sayf("%s created", u.Green(testConf))

		configureMachinePorts(ctx, u)
		return nil
	},
}

// writeResolverFile creates /etc/resolver/test through sudo so *.test
// lookups reach the local dnsmasq container.
func writeResolverFile(ctx context.Context) error {
	mkdir := exec.CommandContext(ctx, "sudo", "mkdir", "-p", filepath.Dir(settings.ResolverFile))
	mkdir.Stdout = os.Stdout
	mkdir.Stderr = os.Stderr
	if err := mkdir.Run(); err != nil {
		return fmt.Errorf("creating resolver directory: %w", err)
	}

	tee := exec.CommandContext(ctx, "sudo", "tee", settings.ResolverFile)
	tee.Stdin = strings.NewReader("nameserver 127.0.0.1\n")
	tee.Stderr = os.Stderr
	if err := tee.Run(); err != nil {
		return fmt.Errorf("writing %s: %w", settings.ResolverFile, err)
	}
	return nil
}

// configureMachinePorts lowers the unprivileged port floor inside the
// podman machine so rootless podman can bind port 53. Rootful machines
// do not need it. Failures are reported but do not fail init.
func configureMachinePorts(ctx context.Context, u *ui.UI) {
	if supervisor.MachineRootful(ctx) {
		u.Sayf("Podman machine '%s' is %s; binding to port 53 does not require "+
			"changing net.ipv4.ip_unprivileged_port_start.", sets.Machine, u.Green("rootful"))
		return
	}

	u.Sayf("Configuring unprivileged ports in podman machine %s...", u.Green(sets.Machine))
	if err := supervisor.ConfigureUnprivilegedPorts(ctx, 53); err != nil {
		u.Warn("failed to configure unprivileged port 53 inside the podman machine, " +
			"you may need to run this manually")
		logger.Debug("sysctl configuration failed", "error", err)
		return
	}
	u.Sayf("%s set inside podman machine.", u.Green("net.ipv4.ip_unprivileged_port_start=53"))
}
