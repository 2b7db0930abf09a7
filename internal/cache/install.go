package cache

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/onepm-dev/onepm/internal/distinfo"
	"github.com/onepm-dev/onepm/internal/index"
	"github.com/onepm-dev/onepm/internal/messages"
	"github.com/onepm-dev/onepm/internal/pep440"
	"github.com/onepm-dev/onepm/internal/venv"
)

// InstallTool installs the newest release of tool satisfying req into a new
// environment and returns it. An existing installation of the same version is
// returned unchanged.
func (m *Manager) InstallTool(ctx context.Context, tool string, req pep440.Requirement) (Installation, error) {
	if tool == "" {
		return Installation{}, errors.New(messages.CacheToolRequired)
	}
	if !m.caps.Shims {
		return Installation{}, errors.New(messages.CacheShimsDisabled)
	}
	logger := zerolog.Ctx(ctx).With().Str("component", "cache").Str("tool", tool).Logger()

	release, err := m.finder.FindBest(ctx, req)
	if err != nil {
		return Installation{}, err
	}
	version := release.Version
	logger.Debug().Str("requirement", req.String()).Str("version", version.String()).Msg("resolved release")

	installs, orphans, err := m.scan(ctx, tool)
	if err != nil {
		return Installation{}, err
	}
	for _, inst := range installs {
		if inst.Version.Equal(version) {
			m.touch(ctx, inst.Path)
			inst.LastUsed = m.now()
			return inst, nil
		}
	}

	fail := func(err error) (Installation, error) {
		return Installation{}, &InstallError{Tool: tool, Version: version.String(), Err: err}
	}
	if err := m.evict(ctx, tool, installs, orphans); err != nil {
		return fail(err)
	}
	if err := m.sys.MkdirAll(m.ToolDir(tool), 0o755); err != nil {
		return fail(fmt.Errorf(messages.CacheCreateDirFmt, err))
	}
	envDir := filepath.Join(m.ToolDir(tool), m.newID())
	_, _ = fmt.Fprintf(m.progress, messages.CacheInstallingFmt, tool, version, envDir)

	if _, err := m.builder.Ensure(ctx, envDir, false); err != nil {
		return fail(err)
	}
	args := []string{"install", "--disable-pip-version-check", "--no-input"}
	if simple := index.SimpleURL(m.indexURL); simple != "" {
		args = append(args, "--index-url", simple)
	}
	args = append(args, pep440.Pinned(tool, version).String())
	if err := m.RunPip(ctx, envDir, args...); err != nil {
		return fail(err)
	}

	dist, err := distinfo.Find(envDir, tool)
	if err != nil {
		return fail(err)
	}
	m.touch(ctx, envDir)
	logger.Info().Str("version", dist.Version.String()).Str("path", envDir).Msg("installed")
	return Installation{Tool: tool, Version: dist.Version, Path: envDir, LastUsed: m.now()}, nil
}

// RunPip runs the bootstrap pip inside the environment at envDir.
func (m *Manager) RunPip(ctx context.Context, envDir string, args ...string) error {
	pip, err := m.LocatePip(ctx)
	if err != nil {
		return err
	}
	argv := append([]string{"-I", pip}, args...)
	python := venv.Python(envDir)
	zerolog.Ctx(ctx).Debug().Str("component", "cache").Str("python", python).Strs("args", argv).Msg("running pip")
	out, err := m.sys.CombinedOutput(ctx, python, argv)
	if err != nil {
		return fmt.Errorf(messages.CacheInstallerFailedFmt, err, out)
	}
	return nil
}
