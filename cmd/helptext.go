package cmd

import (
	"context"
	"os"
	"slices"
	"strings"

	"github.com/fgrehm/darp/internal/config"
	"github.com/fgrehm/darp/internal/settings"
	"github.com/fgrehm/darp/internal/topology"
	"github.com/fgrehm/darp/internal/ui"
)

// prereqState is the environment facts help decoration is computed from.
type prereqState struct {
	// HasDomains reports whether any domain is configured.
	HasDomains bool

	// PortmapEmpty reports whether no workspace has a port assigned yet.
	PortmapEmpty bool

	// Initialized reports whether `darp init` has set up the resolver.
	Initialized bool

	// Port53OK reports whether the machine allows unprivileged binds to 53.
	Port53OK bool

	// HasEnvironments / AnyServeCommand / AnyImageRepository mirror the
	// corresponding config predicates.
	HasEnvironments    bool
	AnyServeCommand    bool
	AnyImageRepository bool
}

// prereqs lists the unmet prerequisites appended to each command's help.
type prereqs struct {
	Init         []string
	Deploy       []string
	Shell        []string
	Urls         []string
	Serve        []string
	AddVolume    []string
	SetServe     []string
	SetImageRepo []string
	RmServe      []string
	RmImageRepo  []string
}

// computePrereqs derives the per-command requirement hints from the
// observed state. Pure so it can be tested without podman or a config
// file.
func computePrereqs(st prereqState) prereqs {
	var p prereqs

	if st.Initialized {
		p.Init = append(p.Init, "initialized")
	}

	if !st.HasDomains {
		p.Deploy = append(p.Deploy, "add domain")
	}
	if st.PortmapEmpty {
		p.Shell = append(p.Shell, "deploy")
		p.Urls = append(p.Urls, "deploy")
	}

	if !st.Initialized || !st.Port53OK {
		for _, reqs := range []*[]string{&p.Deploy, &p.Shell, &p.Urls, &p.Serve} {
			if !slices.Contains(*reqs, "init") {
				*reqs = append(*reqs, "init")
			}
		}
	}

	if !st.HasEnvironments {
		p.AddVolume = append(p.AddVolume, "add domain")
		p.SetServe = append(p.SetServe, "add domain")
		p.SetImageRepo = append(p.SetImageRepo, "add domain")
		p.Serve = append(p.Serve, "add domain")
	}
	if !st.AnyServeCommand {
		p.Serve = append(p.Serve, "set serve_command")
		p.RmServe = append(p.RmServe, "set serve_command")
	}
	if !st.AnyImageRepository {
		p.RmImageRepo = append(p.RmImageRepo, "set image_repository")
	}

	return p
}

// decorateCommandHelp annotates each command's one-line help with its
// unmet prerequisites. Everything here is best-effort: a missing or
// unreadable config simply produces undecorated help.
func decorateCommandHelp(ctx context.Context, u *ui.UI, port53OK bool) {
	st := prereqState{Port53OK: port53OK, PortmapEmpty: true}

	if cfg, _, err := config.Load(sets.ConfigPath()); err == nil {
		st.HasDomains = cfg.Domains.Len() > 0
		st.HasEnvironments = cfg.HasEnvironments()
		st.AnyServeCommand = cfg.AnyServeCommand()
		st.AnyImageRepository = cfg.AnyImageRepository()
	}
	if st.HasDomains {
		if topo, err := topology.Load(sets.PortmapPath()); err == nil {
			st.PortmapEmpty = topo.Empty()
		}
	}
	st.Initialized = resolverInitialized()

	p := computePrereqs(st)
	initCmd.Short = u.DecorateHelp(initCmd.Short, p.Init)
	deployCmd.Short = u.DecorateHelp(deployCmd.Short, p.Deploy)
	shellCmd.Short = u.DecorateHelp(shellCmd.Short, p.Shell)
	urlsCmd.Short = u.DecorateHelp(urlsCmd.Short, p.Urls)
	serveCmd.Short = u.DecorateHelp(serveCmd.Short, p.Serve)
	addVolumeCmd.Short = u.DecorateHelp(addVolumeCmd.Short, p.AddVolume)
	setServeCommandCmd.Short = u.DecorateHelp(setServeCommandCmd.Short, p.SetServe)
	setImageRepoCmd.Short = u.DecorateHelp(setImageRepoCmd.Short, p.SetImageRepo)
	rmServeCommandCmd.Short = u.DecorateHelp(rmServeCommandCmd.Short, p.RmServe)
	rmImageRepoCmd.Short = u.DecorateHelp(rmImageRepoCmd.Short, p.RmImageRepo)
}

// resolverInitialized reports whether the *.test resolver drop-in from
// `darp init` is in place.
func resolverInitialized() bool {
	data, err := os.ReadFile(settings.ResolverFile)
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(data)) == "nameserver 127.0.0.1"
}
