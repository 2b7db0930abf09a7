package pm

import (
	"errors"
	"path/filepath"

	"github.com/onepm-dev/onepm/internal/locate"
	"github.com/onepm-dev/onepm/internal/messages"
	"github.com/onepm-dev/onepm/internal/venv"
)

const (
	uvLockFile = "requirements.lock"
	uvSource   = "pyproject.toml"
)

var uvValueFlags = []string{
	"C", "config-setting", "only-binary", "no-binary", "cache-dir",
	"p", "python", "color", "find-links", "f",
	"extra-index-url", "i", "index-url",
}

type uv struct {
	base
}

// virtualenv returns the env overlay pointing uv at the project's .venv and
// the command creating it when missing. An active virtualenv or conda
// environment is left alone.
func (m uv) virtualenv() (map[string]string, []Command) {
	if m.host.Getenv("VIRTUAL_ENV") != "" || m.host.Getenv("CONDA_PREFIX") != "" {
		return nil, nil
	}
	var before []Command
	if !m.host.Project.HasFile(filepath.Join(".venv", venv.MarkerFile)) {
		before = append(before, Command{Argv: m.argv("venv")})
	}
	return map[string]string{"VIRTUAL_ENV": filepath.Join(m.host.Project.Dir, ".venv")}, before
}

func (m uv) request(args ...string) ExecRequest {
	env, before := m.virtualenv()
	return ExecRequest{Argv: m.argv(args...), Env: env, Before: before}
}

// Install syncs the lockfile, or pyproject.toml without one, unless packages
// are named, in which case they are installed directly.
func (m uv) Install(args []string) (ExecRequest, error) {
	if hasUnknownArgs(args, uvValueFlags) {
		return m.request(append([]string{"pip", "install"}, args...)...), nil
	}
	target := uvSource
	if m.host.Project.HasFile(uvLockFile) {
		target = uvLockFile
	}
	argv := append([]string{"pip", "sync"}, args...)
	return m.request(append(argv, target)...), nil
}

// Update recompiles the lockfile and then syncs it.
func (m uv) Update(args []string) (ExecRequest, error) {
	req := m.request("pip", "sync", uvLockFile)
	compile := append([]string{"pip", "compile", "-o", uvLockFile}, args...)
	req.Before = append(req.Before, Command{Argv: m.argv(append(compile, uvSource)...), Env: req.Env})
	return req, nil
}

func (m uv) Uninstall(args []string) (ExecRequest, error) {
	return m.request(append([]string{"pip", "uninstall"}, args...)...), nil
}

// Run executes a command from the project environment.
func (m uv) Run(args []string) (ExecRequest, error) {
	if len(args) == 0 {
		return ExecRequest{}, errors.New(messages.PmRunCommandRequired)
	}
	env, before := m.virtualenv()
	venvDir := env["VIRTUAL_ENV"]
	if venvDir == "" {
		venvDir = m.host.Getenv("VIRTUAL_ENV")
	}
	searchPath := ""
	if venvDir != "" {
		searchPath = locate.JoinPath(m.host.Getenv("PATH"), venv.BinDir(venvDir))
	} else if conda := m.host.Getenv("CONDA_PREFIX"); conda != "" {
		searchPath = locate.JoinPath(m.host.Getenv("PATH"), filepath.Join(conda, "bin"))
	}
	command, err := m.host.LookPath(args[0], searchPath)
	if err != nil {
		return ExecRequest{}, err
	}
	return ExecRequest{Argv: append([]string{command}, args[1:]...), Env: env, Before: before}, nil
}

func (m uv) Execute(args []string) (ExecRequest, error) {
	return m.request(args...), nil
}
