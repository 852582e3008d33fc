package runtime

import (
	"context"
	"strconv"
	"strings"
)

// MachineRunning reports whether the targeted podman machine is running.
// With a machine name configured, that specific machine must be running;
// otherwise any running machine is accepted. Detection failures count as
// not running.
func (sv *Supervisor) MachineRunning(ctx context.Context) bool {
	out, err := sv.helper.Output(ctx,
		"machine", "list", "--format", "{{.Name}} {{.Running}}")
	if err != nil {
		sv.logger.Debug("listing machines failed", "error", err)
		return false
	}

	machine := sv.settings.Machine
	for _, line := range parseLines(string(out)) {
		name, running, ok := strings.Cut(line, " ")
		if !ok {
			continue
		}
		// The active machine is marked with a trailing '*'.
		name = strings.TrimSuffix(name, "*")

		if machine != "" {
			if name == machine {
				return strings.EqualFold(strings.TrimSpace(running), "true")
			}
			continue
		}
		if strings.EqualFold(strings.TrimSpace(running), "true") {
			return true
		}
	}
	return false
}

// MachineRootful reports whether the targeted machine runs rootful.
// Detection failures fall back to rootless behavior.
func (sv *Supervisor) MachineRootful(ctx context.Context) bool {
	if sv.settings.Machine == "" {
		return false
	}
	out, err := sv.helper.Output(ctx,
		"machine", "inspect", sv.settings.Machine, "--format", "{{.Rootful}}")
	if err != nil {
		sv.logger.Debug("inspecting machine failed", "error", err)
		return false
	}
	return strings.EqualFold(strings.TrimSpace(string(out)), "true")
}

// UnprivilegedPortStart reports whether the machine allows unprivileged
// binds down to the given port. Rootful machines always pass; detection
// failures fail the check.
func (sv *Supervisor) UnprivilegedPortStart(ctx context.Context, port int) bool {
	if sv.MachineRootful(ctx) {
		return true
	}

	args := sv.machineSSHArgs("sysctl", "-n", "net.ipv4.ip_unprivileged_port_start")
	out, err := sv.helper.Output(ctx, args...)
	if err != nil {
		sv.logger.Debug("querying unprivileged port start failed", "error", err)
		return false
	}

	actual, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil {
		return false
	}
	return actual <= port
}

// ConfigureUnprivilegedPorts persistently lowers the machine's
// net.ipv4.ip_unprivileged_port_start to the given port, so the dnsmasq
// container can bind 53 rootless. Existing entries in sysctl.conf are
// replaced.
func (sv *Supervisor) ConfigureUnprivilegedPorts(ctx context.Context, port int) error {
	script := strings.Join([]string{
		`sudo sed -i '/^net\.ipv4\.ip_unprivileged_port_start/d' /etc/sysctl.conf`,
		"echo 'net.ipv4.ip_unprivileged_port_start=" + strconv.Itoa(port) + "' | sudo tee -a /etc/sysctl.conf >/dev/null",
		"sudo sysctl --system",
	}, "; ")

	args := sv.machineSSHArgs("sh", "-c", script)
	if _, err := sv.helper.Output(ctx, args...); err != nil {
		return err
	}
	return nil
}

// machineSSHArgs builds a `podman machine ssh` invocation, including the
// machine name when one is configured.
func (sv *Supervisor) machineSSHArgs(cmd ...string) []string {
	args := []string{"machine", "ssh"}
	if sv.settings.Machine != "" {
		args = append(args, sv.settings.Machine)
	}
	return append(args, cmd...)
}
