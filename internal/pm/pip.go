package pm

import (
	"errors"
	"path/filepath"

	"github.com/onepm-dev/onepm/internal/locate"
	"github.com/onepm-dev/onepm/internal/messages"
)

var pipRequirementFiles = []string{"requirements.txt", "requirements.in"}

type pip struct {
	base
}

// Install without arguments installs the project's requirements file, or the
// project itself.
func (m pip) Install(args []string) (ExecRequest, error) {
	if len(args) > 0 {
		return m.exec(prepend("install", args)...), nil
	}
	for _, name := range pipRequirementFiles {
		if m.host.Project.HasFile(name) {
			return m.exec("install", "-r", name), nil
		}
	}
	if m.host.Project.HasFile("setup.py") || m.host.Project.HasProjectTable() {
		return m.exec("install", "."), nil
	}
	return ExecRequest{}, errors.New(messages.PmPipNothingToInstall)
}

func (m pip) Uninstall(args []string) (ExecRequest, error) {
	return m.exec(prepend("uninstall", args)...), nil
}

func (m pip) Update([]string) (ExecRequest, error) {
	return ExecRequest{}, errors.New(messages.PmPipUpdateUnsupported)
}

// Run executes a command, preferring the environment's scripts directory.
func (m pip) Run(args []string) (ExecRequest, error) {
	if len(args) == 0 {
		return ExecRequest{}, errors.New(messages.PmRunCommandRequired)
	}
	binDir := filepath.Dir(m.command[0])
	command, err := m.host.LookPath(args[0], locate.JoinPath(m.host.Getenv("PATH"), binDir))
	if err != nil {
		return ExecRequest{}, err
	}
	return ExecRequest{Argv: append([]string{command}, args[1:]...)}, nil
}
