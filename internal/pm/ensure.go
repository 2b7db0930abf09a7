package pm

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/onepm-dev/onepm/internal/config"
	"github.com/onepm-dev/onepm/internal/distinfo"
	"github.com/onepm-dev/onepm/internal/messages"
	"github.com/onepm-dev/onepm/internal/pep440"
	"github.com/onepm-dev/onepm/internal/venv"
)

// Installer provides isolated installations of package managers.
type Installer interface {
	Resolve(ctx context.Context, tool string, req pep440.Requirement) (string, error)
	RunPip(ctx context.Context, envDir string, args ...string) error
	Capabilities() config.Capabilities
}

// EnvBuilder creates virtual environments.
type EnvBuilder interface {
	Ensure(ctx context.Context, path string, withPip bool) (string, error)
}

// Toolchain bundles what EnsureExecutable needs.
type Toolchain struct {
	Installer Installer
	Builder   EnvBuilder
	// RunCommand runs a command to completion and returns its combined output.
	RunCommand func(ctx context.Context, name string, args []string) ([]byte, error)
}

// EnsureExecutable returns an executable of kind satisfying req. Pip runs from
// the project's virtual environment, which is created and upgraded as needed;
// every other kind comes from the installation cache.
func EnsureExecutable(ctx context.Context, kind Kind, req pep440.Requirement, host Host, tc Toolchain) (string, error) {
	if kind != Pip {
		return tc.Installer.Resolve(ctx, kind.String(), req)
	}
	return ensurePip(ctx, req, host.withDefaults(), tc)
}

func ensurePip(ctx context.Context, req pep440.Requirement, host Host, tc Toolchain) (string, error) {
	logger := zerolog.Ctx(ctx).With().Str("component", "pm").Str("tool", "pip").Logger()
	envDir := host.Getenv("VIRTUAL_ENV")
	if envDir == "" {
		envDir = filepath.Join(host.Project.Dir, ".venv")
		if _, err := tc.Builder.Ensure(ctx, envDir, true); err != nil {
			return "", err
		}
	}
	python, err := host.LookPath("python", venv.BinDir(envDir))
	if err != nil {
		return "", err
	}

	dist, err := distinfo.Find(envDir, "pip")
	if err != nil && !errors.Is(err, distinfo.ErrNotInstalled) {
		return "", err
	}
	if err == nil && req.Contains(dist.Version) {
		return python, nil
	}

	logger.Debug().Str("requirement", req.String()).Str("env", envDir).Msg("upgrading pip")
	if tc.Installer != nil && tc.Installer.Capabilities().Shims {
		err = tc.Installer.RunPip(ctx, envDir, "install", "-U", req.String())
	} else {
		var out []byte
		out, err = tc.RunCommand(ctx, python, []string{"-m", "pip", "install", "-U", req.String()})
		if err != nil {
			err = fmt.Errorf(messages.CacheInstallerFailedFmt, err, out)
		}
	}
	if err != nil {
		return "", fmt.Errorf(messages.PmPipUpgradeFailedFmt, envDir, err)
	}
	return python, nil
}
