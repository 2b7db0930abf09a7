package venv

import (
	"context"
	"os"
	"os/exec"

	"github.com/onepm-dev/onepm/internal/locate"
)

// System abstracts the OS operations needed to create environments.
type System interface {
	Stat(name string) (os.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	MkdirAll(path string, perm os.FileMode) error
	LookPath(name string) (string, error)
	CombinedOutput(ctx context.Context, name string, args []string) ([]byte, error)
}

// RealSystem implements System using the OS.
type RealSystem struct{}

// Stat returns file info for name.
func (RealSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

// ReadFile reads the named file and returns the contents.
func (RealSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// MkdirAll creates a directory path and its parents.
func (RealSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// LookPath finds an executable on PATH, skipping the running binary.
func (RealSystem) LookPath(name string) (string, error) {
	return locate.Find(name, "")
}

// CombinedOutput runs name with args and returns stdout and stderr together.
func (RealSystem) CombinedOutput(ctx context.Context, name string, args []string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}
