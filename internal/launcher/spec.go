// Package launcher runs a workspace container in the foreground and
// applies the restart policy keyed on exit codes and operator interrupts.
package launcher

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/go-containerregistry/pkg/name"

	"github.com/fgrehm/darp/internal/config"
	"github.com/fgrehm/darp/internal/runtime"
	"github.com/fgrehm/darp/internal/settings"
	"github.com/fgrehm/darp/internal/topology"
)

// ContainerHTTPPort is the fixed in-container port the reverse proxy
// forwards to.
const ContainerHTTPPort = 8000

// ErrVolumeMissing is returned when a declared extra volume's host path
// does not exist. The launch is aborted before reaching the runtime.
var ErrVolumeMissing = errors.New("volume host path does not exist")

// Identity names the workspace a launch is for: the operator's current
// directory is the workspace, its parent directory is the domain.
type Identity struct {
	Domain    string
	Workspace string
	Dir       string
}

// CurrentIdentity derives the launch identity from the working directory.
func CurrentIdentity() (*Identity, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}
	return &Identity{
		Domain:    filepath.Base(filepath.Dir(cwd)),
		Workspace: filepath.Base(cwd),
		Dir:       cwd,
	}, nil
}

// Spec fully determines one container invocation. A restart reuses the
// spec as-is; it never re-resolves ports or volumes.
type Spec struct {
	ContainerName string
	Image         string
	Interactive   bool
	Volumes       []string // host:container
	Ports         []string // host:container
	Command       []string
}

// RunArgs assembles the `podman run` argument list for the spec.
func (s *Spec) RunArgs() []string {
	args := []string{"run", "--rm"}
	if s.Interactive {
		args = append(args, "-it")
	}
	args = append(args, "--name", s.ContainerName)
	for _, v := range s.Volumes {
		args = append(args, "-v", v)
	}
	for _, p := range s.Ports {
		args = append(args, "-p", p)
	}
	args = append(args, s.Image)
	args = append(args, s.Command...)
	return args
}

// SpecOptions carries everything needed to assemble a launch spec.
type SpecOptions struct {
	Settings *settings.Settings
	Config   *config.Config
	Topology *topology.Topology

	// Environment is the optional container environment (-e flag).
	Environment *config.Environment

	Identity    *Identity
	Image       string // image or tag as given on the command line
	Interactive bool
	Command     []string
}

// BuildSpec resolves a full launch spec: the deterministic container
// name, the standard and environment-declared mounts, service port
// overrides, and the proxy-facing port from the persisted topology.
func BuildSpec(opts SpecOptions) (*Spec, error) {
	id := opts.Identity

	dom, ok := opts.Config.Domains.Get(id.Domain)
	if !ok {
		return nil, fmt.Errorf("domain %s: %w", id.Domain, config.ErrDomainNotFound)
	}

	spec := &Spec{
		ContainerName: runtime.WorkspaceContainerName(id.Domain, id.Workspace),
		Interactive:   opts.Interactive,
		Command:       opts.Command,
	}

	spec.Volumes = []string{
		id.Dir + ":/app",
		opts.Settings.HostsPath() + ":/etc/hosts",
		opts.Settings.NginxConfPath() + ":/etc/nginx/nginx.conf",
		opts.Settings.VhostConfPath() + ":/etc/nginx/http.d/vhost_docker.conf",
	}

	if opts.Environment != nil {
		for _, vol := range opts.Environment.Volumes {
			hostPath := config.ResolveHostPath(vol.Host, id.Dir)
			if _, err := os.Stat(hostPath); err != nil {
				return nil, fmt.Errorf("volume %s: %w", vol.Host, ErrVolumeMissing)
			}
			spec.Volumes = append(spec.Volumes, hostPath+":"+vol.Container)
		}
	}

	if svc := dom.Services[id.Workspace]; svc != nil {
		for _, hostPort := range sortedKeys(svc.HostPortmappings) {
			spec.Ports = append(spec.Ports, hostPort+":"+svc.HostPortmappings[hostPort])
		}
	}

	proxyPort, err := opts.Topology.Port(id.Domain, id.Workspace)
	if err != nil {
		return nil, err
	}
	spec.Ports = append(spec.Ports, fmt.Sprintf("%d:%d", proxyPort, ContainerHTTPPort))

	image := opts.Environment.ResolveImage(opts.Image)
	if _, err := name.ParseReference(image); err != nil {
		return nil, fmt.Errorf("invalid image reference %q: %w", image, err)
	}
	spec.Image = image

	return spec, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
