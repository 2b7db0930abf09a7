// Package project reads the pyproject.toml of the project in a directory.
package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/onepm-dev/onepm/internal/messages"
)

// FileName is the project metadata file.
const FileName = "pyproject.toml"

var (
	osReadFile = os.ReadFile
	osStat     = os.Stat
)

// Project is a directory with an optional pyproject.toml.
type Project struct {
	Dir  string
	Path string
	// Found is false when the directory has no pyproject.toml.
	Found bool

	raw []byte
	doc map[string]any
}

// Load reads the project in dir. A missing pyproject.toml is not an error.
func Load(dir string) (*Project, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	p := &Project{Dir: abs, Path: filepath.Join(abs, FileName), doc: map[string]any{}}
	data, err := osReadFile(p.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return p, nil
		}
		return nil, fmt.Errorf(messages.ProjectReadFailedFmt, p.Path, err)
	}
	if err := toml.Unmarshal(data, &p.doc); err != nil {
		return nil, fmt.Errorf(messages.ProjectInvalidTomlFmt, p.Path, err)
	}
	p.Found = true
	p.raw = data
	return p, nil
}

// Raw returns the file content as read.
func (p *Project) Raw() []byte {
	return p.raw
}

// HasFile reports whether name exists in the project directory.
func (p *Project) HasFile(name string) bool {
	_, err := osStat(filepath.Join(p.Dir, name))
	return err == nil
}

// PackageManager returns tool.onepm.package-manager, or "" when unset.
func (p *Project) PackageManager() string {
	value, _ := lookup(p.doc, "tool", "onepm", "package-manager").(string)
	return strings.TrimSpace(value)
}

// BuildBackend returns build-system.build-backend, or "".
func (p *Project) BuildBackend() string {
	value, _ := lookup(p.doc, "build-system", "build-backend").(string)
	return value
}

// HasTool reports whether a [tool.<name>] table exists.
func (p *Project) HasTool(name string) bool {
	return lookup(p.doc, "tool", name) != nil
}

// HasProjectTable reports whether a [project] table exists.
func (p *Project) HasProjectTable() bool {
	return lookup(p.doc, "project") != nil
}

func lookup(doc map[string]any, keys ...string) any {
	var cur any = doc
	for _, key := range keys {
		table, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur, ok = table[key]
		if !ok {
			return nil
		}
	}
	return cur
}
