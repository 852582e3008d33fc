// Package config defines darp's user configuration: domains bound to
// filesystem locations, per-service port overrides, and named container
// environments. It replaces ad-hoc nested-map probing with a typed tree.
package config

import "errors"

// Sentinel errors for configuration lookups and mutations.
var (
	ErrNoDomains           = errors.New("no domain configured")
	ErrDomainNotFound      = errors.New("domain does not exist")
	ErrDomainExists        = errors.New("domain already exists")
	ErrNoEnvironments      = errors.New("no environments configured")
	ErrEnvironmentNotFound = errors.New("environment does not exist")
	ErrPortmapExists       = errors.New("portmapping already exists")
	ErrPortmapNotFound     = errors.New("portmapping does not exist")
	ErrVolumeExists        = errors.New("volume mapping already exists")
	ErrServeCommandNotSet  = errors.New("serve_command is not set")
	ErrImageRepoNotSet     = errors.New("image_repository is not set")
)

// Config is the full user configuration tree.
type Config struct {
	Domains      Domains                 `json:"domains,omitempty"`
	Environments map[string]*Environment `json:"environments,omitempty"`
}

// Domain binds a domain name to a filesystem location whose immediate
// subdirectories are the domain's workspaces.
type Domain struct {
	Location string              `json:"location"`
	Services map[string]*Service `json:"services,omitempty"`
}

// Service holds per-workspace overrides, keyed by workspace directory name.
type Service struct {
	// HostPortmappings maps extra host ports to container ports, both as
	// decimal strings, passed through to `podman run -p`.
	HostPortmappings map[string]string `json:"host_portmappings,omitempty"`
}

// Environment describes a reusable container environment: extra volume
// mounts, the serve command, and an optional image repository prefix.
type Environment struct {
	Volumes         []Volume `json:"volumes,omitempty"`
	ServeCommand    string   `json:"serve_command,omitempty"`
	ImageRepository string   `json:"image_repository,omitempty"`
}

// Volume is one extra bind mount declared on an environment. Host may
// contain the {pwd} token (or legacy $(pwd)), resolved at launch time.
type Volume struct {
	Container string `json:"container"`
	Host      string `json:"host"`
}

// Environment returns the named environment.
func (c *Config) Environment(name string) (*Environment, error) {
	if len(c.Environments) == 0 {
		return nil, ErrNoEnvironments
	}
	env, ok := c.Environments[name]
	if !ok {
		return nil, ErrEnvironmentNotFound
	}
	return env, nil
}

// HasEnvironments reports whether any environment is configured.
func (c *Config) HasEnvironments() bool {
	return len(c.Environments) > 0
}

// AnyServeCommand reports whether any environment has a serve_command set.
func (c *Config) AnyServeCommand() bool {
	for _, env := range c.Environments {
		if env != nil && env.ServeCommand != "" {
			return true
		}
	}
	return false
}

// AnyImageRepository reports whether any environment has an
// image_repository set.
func (c *Config) AnyImageRepository() bool {
	for _, env := range c.Environments {
		if env != nil && env.ImageRepository != "" {
			return true
		}
	}
	return false
}

// ResolveImage combines an environment's image repository with the image
// given on the command line. With a repository configured, the CLI value
// is treated as a tag of that repository.
func (e *Environment) ResolveImage(cliImage string) string {
	if e != nil && e.ImageRepository != "" {
		return e.ImageRepository + ":" + cliImage
	}
	return cliImage
}
