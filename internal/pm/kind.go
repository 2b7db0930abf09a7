// Package pm translates onepm verbs into package-manager command lines.
package pm

import (
	"fmt"
	"strings"

	"github.com/onepm-dev/onepm/internal/messages"
	"github.com/onepm-dev/onepm/internal/project"
)

// Kind identifies a supported package manager.
type Kind int

const (
	Pipenv Kind = iota
	PDM
	Poetry
	Uv
	Pip
)

// detectionOrder is the order in which kinds are matched against a project.
var detectionOrder = []Kind{Pipenv, PDM, Poetry, Uv, Pip}

var kindNames = map[Kind]string{
	Pipenv: "pipenv",
	PDM:    "pdm",
	Poetry: "poetry",
	Uv:     "uv",
	Pip:    "pip",
}

// UnsupportedToolError reports a package manager onepm does not know.
type UnsupportedToolError struct {
	Name string
}

func (e *UnsupportedToolError) Error() string {
	return fmt.Sprintf(messages.PmUnsupportedToolFmt, e.Name)
}

// Kinds returns every kind in detection order.
func Kinds() []Kind {
	out := make([]Kind, len(detectionOrder))
	copy(out, detectionOrder)
	return out
}

// Names returns the names of every kind in detection order.
func Names() []string {
	out := make([]string, 0, len(detectionOrder))
	for _, k := range detectionOrder {
		out = append(out, k.String())
	}
	return out
}

// ParseKind maps a package manager name to its Kind.
func ParseKind(name string) (Kind, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	for _, k := range detectionOrder {
		if kindNames[k] == want {
			return k, nil
		}
	}
	return 0, &UnsupportedToolError{Name: name}
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Matches reports whether the project looks like it is managed by k.
func (k Kind) Matches(p *project.Project) bool {
	switch k {
	case Pipenv:
		return p.HasFile("Pipfile.lock") || p.HasFile("Pipfile")
	case PDM:
		return p.HasFile("pdm.lock") || strings.Contains(p.BuildBackend(), "pdm") || p.HasTool("pdm")
	case Poetry:
		return p.HasFile("poetry.lock") || strings.Contains(p.BuildBackend(), "poetry") || p.HasTool("poetry")
	case Uv:
		return p.HasFile("uv.lock") || p.HasFile(uvLockFile) || p.HasTool("uv") || p.HasProjectTable()
	case Pip:
		return true
	}
	return false
}
