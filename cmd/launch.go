package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/fgrehm/darp/internal/config"
	"github.com/fgrehm/darp/internal/launcher"
	"github.com/fgrehm/darp/internal/topology"
	"github.com/fgrehm/darp/internal/ui"
)

// lookupEnvironment resolves an environment name into its configuration,
// with user-facing messages for the two lookup failures.
func lookupEnvironment(cfg *config.Config, name string) (*config.Environment, error) {
	env, err := cfg.Environment(name)
	switch {
	case errors.Is(err, config.ErrNoEnvironments):
		return nil, fmt.Errorf("no environments configured, use 'darp add domain' and update the config")
	case errors.Is(err, config.ErrEnvironmentNotFound):
		return nil, fmt.Errorf("environment '%s' does not exist", name)
	case err != nil:
		return nil, err
	}
	return env, nil
}

// runForeground assembles a launch spec for the current workspace and
// blocks on the lifecycle controller until the container is done. The
// child's exit code becomes the tool's own exit status.
func runForeground(ctx context.Context, u *ui.UI, cfg *config.Config, env *config.Environment, image string, interactive bool, command []string, restartOn []int) error {
	id, err := launcher.CurrentIdentity()
	if err != nil {
		return err
	}

	topo, err := topology.Load(sets.PortmapPath())
	if err != nil {
		return err
	}

	spec, err := launcher.BuildSpec(launcher.SpecOptions{
		Settings:    sets,
		Config:      cfg,
		Topology:    topo,
		Environment: env,
		Identity:    id,
		Image:       image,
		Interactive: interactive,
		Command:     command,
	})
	switch {
	case errors.Is(err, config.ErrDomainNotFound):
		return fmt.Errorf("domain, %s, does not exist in darp's domain configuration", id.Domain)
	case errors.Is(err, topology.ErrPortNotAssigned):
		return fmt.Errorf("port not yet assigned to %s, run 'darp deploy'", id.Workspace)
	case errors.Is(err, launcher.ErrVolumeMissing):
		return fmt.Errorf("%w (check the environment's volumes)", err)
	case err != nil:
		return err
	}

	runner, err := launcher.NewPodmanRunner(logger)
	if err != nil {
		return err
	}

	ctrl := launcher.NewController(runner, supervisor, logger)
	ctrl.SetProgress(func(msg string) { u.Say(msg) })

	code, err := ctrl.Launch(ctx, spec, restartOn)
	if err != nil {
		return err
	}
	exitStatus = code
	return nil
}
