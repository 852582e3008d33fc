package settings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DARP_ROOT", "")
	t.Setenv("PODMAN_MACHINE", "")
	os.Unsetenv("DARP_ROOT")
	os.Unsetenv("PODMAN_MACHINE")

	s, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	home, _ := os.UserHomeDir()
	if s.Root != filepath.Join(home, ".darp") {
		t.Errorf("Root = %q, want %q", s.Root, filepath.Join(home, ".darp"))
	}
	if s.Machine != DefaultMachine {
		t.Errorf("Machine = %q, want %q", s.Machine, DefaultMachine)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DARP_ROOT", "/custom/root")
	t.Setenv("PODMAN_MACHINE", "dev-machine")

	s, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Root != "/custom/root" {
		t.Errorf("Root = %q, want /custom/root", s.Root)
	}
	if s.Machine != "dev-machine" {
		t.Errorf("Machine = %q, want dev-machine", s.Machine)
	}
}

func TestLoadEmptyMachineEnvMeansAny(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PODMAN_MACHINE", "")

	s, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Machine != "" {
		t.Errorf("Machine = %q, want empty (any machine)", s.Machine)
	}
}

func TestLoadRC(t *testing.T) {
	dir := t.TempDir()
	rc := "root = \"/rc/root\"\nmachine = \"rc-machine\"\n"
	if err := os.WriteFile(filepath.Join(dir, ".darprc"), []byte(rc), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	t.Setenv("DARP_ROOT", "")
	t.Setenv("PODMAN_MACHINE", "")
	os.Unsetenv("DARP_ROOT")
	os.Unsetenv("PODMAN_MACHINE")

	s, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Root != "/rc/root" {
		t.Errorf("Root = %q, want /rc/root", s.Root)
	}
	if s.Machine != "rc-machine" {
		t.Errorf("Machine = %q, want rc-machine", s.Machine)
	}
}

func TestEnvBeatsRC(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".darprc"), []byte("root = \"/rc/root\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	t.Setenv("DARP_ROOT", "/env/root")

	s, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Root != "/env/root" {
		t.Errorf("Root = %q, want /env/root", s.Root)
	}
}

func TestLoadRejectsBadRC(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".darprc"), []byte("root = [broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	if _, err := Load(); err == nil {
		t.Error("expected error for invalid .darprc")
	}
}

func TestPaths(t *testing.T) {
	s := &Settings{Root: "/home/me/.darp"}

	tests := []struct {
		got  string
		want string
	}{
		{s.ConfigPath(), "/home/me/.darp/config.json"},
		{s.PortmapPath(), "/home/me/.darp/portmap.json"},
		{s.VhostConfPath(), "/home/me/.darp/vhost_container.conf"},
		{s.HostsPath(), "/home/me/.darp/hosts_container"},
		{s.NginxConfPath(), "/home/me/.darp/nginx.conf"},
		{s.DnsmasqDir(), "/home/me/.darp/dnsmasq.d"},
		{s.DeployLockPath(), "/home/me/.darp/deploy.lock"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("path = %q, want %q", tt.got, tt.want)
		}
	}

	if !strings.HasPrefix(ResolverFile, "/etc/resolver/") {
		t.Errorf("ResolverFile = %q", ResolverFile)
	}
}
