package pm

import (
	"os"

	"github.com/onepm-dev/onepm/internal/locate"
	"github.com/onepm-dev/onepm/internal/project"
)

// Command is a preparatory command run to completion before the handoff.
type Command struct {
	Argv []string
	Env  map[string]string
}

// ExecRequest is the terminal command of a verb: the process onepm hands off to.
type ExecRequest struct {
	Argv []string
	// Env is overlaid on the current environment.
	Env map[string]string
	// Before runs in order first; a failure aborts the handoff.
	Before []Command
}

// Manager translates verbs for one package manager.
type Manager interface {
	Kind() Kind
	// Command is the argv prefix that invokes the package manager.
	Command() []string
	Install(args []string) (ExecRequest, error)
	Uninstall(args []string) (ExecRequest, error)
	Update(args []string) (ExecRequest, error)
	Run(args []string) (ExecRequest, error)
	// Execute passes args through unchanged.
	Execute(args []string) (ExecRequest, error)
}

// Host is the process context adapters consult.
type Host struct {
	Project  *project.Project
	Getenv   func(string) string
	LookPath func(name string, searchPath string) (string, error)
}

func (h Host) withDefaults() Host {
	if h.Getenv == nil {
		h.Getenv = os.Getenv
	}
	if h.LookPath == nil {
		h.LookPath = locate.Find
	}
	if h.Project == nil {
		h.Project = &project.Project{Dir: "."}
	}
	return h
}

// New returns the Manager for kind invoking executable.
func New(kind Kind, executable string, host Host) Manager {
	b := base{kind: kind, command: []string{executable}, host: host.withDefaults()}
	switch kind {
	case PDM:
		return pdm{b}
	case Poetry:
		return poetry{b}
	case Uv:
		return uv{b}
	case Pip:
		b.command = []string{executable, "-m", "pip"}
		return pip{b}
	default:
		return pipenv{b}
	}
}

type base struct {
	kind    Kind
	command []string
	host    Host
}

func (b base) Kind() Kind {
	return b.kind
}

func (b base) Command() []string {
	return append([]string(nil), b.command...)
}

func (b base) argv(args ...string) []string {
	out := make([]string, 0, len(b.command)+len(args))
	out = append(out, b.command...)
	return append(out, args...)
}

func (b base) exec(args ...string) ExecRequest {
	return ExecRequest{Argv: b.argv(args...)}
}

func (b base) Execute(args []string) (ExecRequest, error) {
	return b.exec(args...), nil
}

func prepend(first string, args []string) []string {
	return append([]string{first}, args...)
}
