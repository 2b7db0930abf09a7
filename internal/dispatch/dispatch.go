// Package dispatch picks the package manager for a project and hands the
// process over to it.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/onepm-dev/onepm/internal/cache"
	"github.com/onepm-dev/onepm/internal/messages"
	"github.com/onepm-dev/onepm/internal/pep440"
	"github.com/onepm-dev/onepm/internal/pm"
	"github.com/onepm-dev/onepm/internal/project"
)

// ErrDispatched signals that execution has been handed off to another binary.
var ErrDispatched = errors.New(messages.DispatchErrDispatched)

// Cache is the installation cache used by the dispatcher.
type Cache interface {
	pm.Installer
	InstallTool(ctx context.Context, tool string, req pep440.Requirement) (cache.Installation, error)
}

// Dispatcher detects and runs the package manager of the project in Dir.
type Dispatcher struct {
	Dir     string
	Cache   Cache
	Builder pm.EnvBuilder
	System  System
	// Exit terminates the process where exec is emulated by spawning.
	Exit func(int)

	project *project.Project
}

// New returns a Dispatcher for the project in dir.
func New(dir string, c Cache, builder pm.EnvBuilder, exit func(int)) *Dispatcher {
	return &Dispatcher{Dir: dir, Cache: c, Builder: builder, System: RealSystem{}, Exit: exit}
}

// Project loads the project on first use.
func (d *Dispatcher) Project() (*project.Project, error) {
	if d.project != nil {
		return d.project, nil
	}
	p, err := project.Load(d.Dir)
	if err != nil {
		return nil, err
	}
	d.project = p
	return p, nil
}

// Detect chooses the package manager: an explicit override, then the
// tool.onepm.package-manager setting, then the first kind whose project
// markers match. An unknown override fails before the project is read.
func (d *Dispatcher) Detect(override string) (pm.Kind, pep440.Requirement, error) {
	var overrideKind pm.Kind
	if override != "" {
		kind, err := pm.ParseKind(override)
		if err != nil {
			return 0, pep440.Requirement{}, err
		}
		overrideKind = kind
	}

	p, err := d.Project()
	if err != nil {
		return 0, pep440.Requirement{}, err
	}
	if configured := p.PackageManager(); configured != "" {
		req, err := pep440.ParseRequirement(configured)
		if err != nil {
			return 0, pep440.Requirement{}, fmt.Errorf(messages.PmInvalidConfiguredSpecFmt, configured, err)
		}
		if override != "" && overrideKind.String() != req.Name {
			return overrideKind, pep440.NewRequirement(overrideKind.String()), nil
		}
		kind, err := pm.ParseKind(req.Name)
		if err != nil {
			return 0, pep440.Requirement{}, &pm.UnsupportedToolError{Name: configured}
		}
		return kind, req, nil
	}
	if override != "" {
		return overrideKind, pep440.NewRequirement(overrideKind.String()), nil
	}
	for _, kind := range pm.Kinds() {
		if kind.Matches(p) {
			return kind, pep440.NewRequirement(kind.String()), nil
		}
	}
	return pm.Pip, pep440.NewRequirement(pm.Pip.String()), nil
}

// PackageManager detects the package manager, ensures its executable and
// returns the adapter for it.
func (d *Dispatcher) PackageManager(ctx context.Context, override string) (pm.Manager, error) {
	kind, req, err := d.Detect(override)
	if err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Debug().Str("component", "dispatch").Str("tool", kind.String()).Str("requirement", req.String()).Msg("detected package manager")
	exe, err := pm.EnsureExecutable(ctx, kind, req, d.host(), d.toolchain())
	if err != nil {
		return nil, err
	}
	return pm.New(kind, exe, d.host()), nil
}

// Use records spec as the project's package manager and ensures an
// installation satisfying it. With dryRun the edit is only returned.
func (d *Dispatcher) Use(ctx context.Context, spec string, dryRun bool) (project.Edit, error) {
	req, err := pep440.ParseRequirement(spec)
	if err != nil {
		return project.Edit{}, err
	}
	kind, err := pm.ParseKind(req.Name)
	if err != nil {
		return project.Edit{}, err
	}
	p, err := d.Project()
	if err != nil {
		return project.Edit{}, err
	}
	edit, err := p.SetPackageManager(strings.TrimSpace(spec))
	if err != nil {
		return project.Edit{}, err
	}
	if dryRun {
		return edit, nil
	}
	if err := edit.Apply(); err != nil {
		return project.Edit{}, err
	}
	if _, err := pm.EnsureExecutable(ctx, kind, req, d.host(), d.toolchain()); err != nil {
		return edit, err
	}
	return edit, nil
}

// Update installs the newest release satisfying the project's requirement for
// name, or for the detected package manager when name is empty, and returns
// its executable.
func (d *Dispatcher) Update(ctx context.Context, name string) (string, error) {
	kind, req, err := d.Detect(name)
	if err != nil {
		return "", err
	}
	if kind == pm.Pip {
		return pm.EnsureExecutable(ctx, kind, req, d.host(), d.toolchain())
	}
	if caps := d.Cache.Capabilities(); !caps.Shims {
		return "", fmt.Errorf(messages.DispatchShimsDisabledFmt, kind, caps.Reason)
	}
	inst, err := d.Cache.InstallTool(ctx, kind.String(), req)
	if err != nil {
		return "", err
	}
	return inst.Executable(), nil
}

// Handoff runs the request's preparatory commands and then replaces the
// process with its terminal command. It returns ErrDispatched when the
// handoff happened without replacing the process.
func (d *Dispatcher) Handoff(ctx context.Context, req pm.ExecRequest) error {
	if len(req.Argv) == 0 {
		return errors.New(messages.DispatchEmptyArgv)
	}
	sys := d.system()
	logger := zerolog.Ctx(ctx).With().Str("component", "dispatch").Logger()
	for _, cmd := range req.Before {
		if len(cmd.Argv) == 0 {
			return errors.New(messages.DispatchEmptyArgv)
		}
		logger.Debug().Strs("argv", cmd.Argv).Msg("running preparatory command")
		if err := sys.Run(ctx, cmd.Argv, mergeEnv(sys.Environ(), cmd.Env)); err != nil {
			return fmt.Errorf(messages.DispatchBeforeFailedFmt, strings.Join(cmd.Argv, " "), err)
		}
	}

	path := req.Argv[0]
	if !strings.ContainsRune(path, filepath.Separator) && !strings.ContainsRune(path, '/') {
		resolved, err := sys.LookPath(path, "")
		if err != nil {
			return err
		}
		path = resolved
	}
	logger.Debug().Str("path", path).Strs("argv", req.Argv).Msg("handing off")
	if err := sys.ExecBinary(path, req.Argv, mergeEnv(sys.Environ(), req.Env), d.Exit); err != nil {
		return fmt.Errorf(messages.DispatchExecFailedFmt, path, err)
	}
	return ErrDispatched
}

func (d *Dispatcher) system() System {
	if d.System == nil {
		return RealSystem{}
	}
	return d.System
}

func (d *Dispatcher) host() pm.Host {
	sys := d.system()
	return pm.Host{Project: d.project, Getenv: sys.Getenv, LookPath: sys.LookPath}
}

func (d *Dispatcher) toolchain() pm.Toolchain {
	return pm.Toolchain{Installer: d.Cache, Builder: d.Builder, RunCommand: d.system().CombinedOutput}
}
