package config

import "fmt"

// AddDomain registers a new domain bound to a filesystem location.
func (c *Config) AddDomain(name, location string) error {
	if existing, ok := c.Domains.Get(name); ok {
		return fmt.Errorf("domain %s already exists at %s: %w", name, existing.Location, ErrDomainExists)
	}
	c.Domains.Set(name, &Domain{Location: location})
	return nil
}

// RemoveDomain deletes a domain.
func (c *Config) RemoveDomain(name string) error {
	if _, ok := c.Domains.Get(name); !ok {
		return fmt.Errorf("domain %s: %w", name, ErrDomainNotFound)
	}
	c.Domains.Delete(name)
	return nil
}

// AddPortmap records an extra host:container port binding on a service.
func (c *Config) AddPortmap(domainName, serviceName, hostPort, containerPort string) error {
	dom, ok := c.Domains.Get(domainName)
	if !ok {
		return fmt.Errorf("domain %s: %w", domainName, ErrDomainNotFound)
	}

	if dom.Services == nil {
		dom.Services = map[string]*Service{}
	}
	svc := dom.Services[serviceName]
	if svc == nil {
		svc = &Service{}
		dom.Services[serviceName] = svc
	}
	if svc.HostPortmappings == nil {
		svc.HostPortmappings = map[string]string{}
	}

	if _, exists := svc.HostPortmappings[hostPort]; exists {
		return fmt.Errorf("portmapping %s.%s (%s:____): %w", domainName, serviceName, hostPort, ErrPortmapExists)
	}
	svc.HostPortmappings[hostPort] = containerPort
	return nil
}

// RemovePortmap deletes a host:container port binding from a service.
func (c *Config) RemovePortmap(domainName, serviceName, hostPort string) error {
	dom, ok := c.Domains.Get(domainName)
	if !ok {
		return fmt.Errorf("domain %s: %w", domainName, ErrDomainNotFound)
	}
	svc := dom.Services[serviceName]
	if svc == nil || svc.HostPortmappings == nil {
		return fmt.Errorf("portmapping %s.%s (%s:____): %w", domainName, serviceName, hostPort, ErrPortmapNotFound)
	}
	if _, exists := svc.HostPortmappings[hostPort]; !exists {
		return fmt.Errorf("portmapping %s.%s (%s:____): %w", domainName, serviceName, hostPort, ErrPortmapNotFound)
	}
	delete(svc.HostPortmappings, hostPort)
	return nil
}

// AddVolume appends an extra volume mount to an environment. Duplicate
// container/host pairs are rejected.
func (c *Config) AddVolume(envName, containerDir, hostDir string) error {
	env, err := c.Environment(envName)
	if err != nil {
		return fmt.Errorf("environment %s: %w", envName, err)
	}

	for _, v := range env.Volumes {
		if v.Container == containerDir && v.Host == hostDir {
			return fmt.Errorf("environment %s: %s -> %s: %w", envName, hostDir, containerDir, ErrVolumeExists)
		}
	}
	env.Volumes = append(env.Volumes, Volume{Container: containerDir, Host: hostDir})
	return nil
}

// SetServeCommand sets the serve command on an environment.
func (c *Config) SetServeCommand(envName, command string) error {
	env, err := c.Environment(envName)
	if err != nil {
		return fmt.Errorf("environment %s: %w", envName, err)
	}
	env.ServeCommand = command
	return nil
}

// RemoveServeCommand clears the serve command from an environment.
func (c *Config) RemoveServeCommand(envName string) error {
	env, err := c.Environment(envName)
	if err != nil {
		return fmt.Errorf("environment %s: %w", envName, err)
	}
	if env.ServeCommand == "" {
		return fmt.Errorf("environment %s: %w", envName, ErrServeCommandNotSet)
	}
	env.ServeCommand = ""
	return nil
}

// SetImageRepository sets the image repository on an environment.
func (c *Config) SetImageRepository(envName, repo string) error {
	env, err := c.Environment(envName)
	if err != nil {
		return fmt.Errorf("environment %s: %w", envName, err)
	}
	env.ImageRepository = repo
	return nil
}

// RemoveImageRepository clears the image repository from an environment.
func (c *Config) RemoveImageRepository(envName string) error {
	env, err := c.Environment(envName)
	if err != nil {
		return fmt.Errorf("environment %s: %w", envName, err)
	}
	if env.ImageRepository == "" {
		return fmt.Errorf("environment %s: %w", envName, ErrImageRepoNotSet)
	}
	env.ImageRepository = ""
	return nil
}
