package dispatch

import (
	"context"
	"io"
	"os"
	"os/exec"

	"github.com/onepm-dev/onepm/internal/locate"
)

// System abstracts OS operations needed to detect and hand off to a package manager.
// The interface is package-local so tests can substitute every side effect.
type System interface {
	Getenv(key string) string
	Environ() []string
	Getwd() (string, error)
	LookPath(name string, searchPath string) (string, error)
	Run(ctx context.Context, argv []string, env []string) error
	CombinedOutput(ctx context.Context, name string, args []string) ([]byte, error)
	ExecBinary(path string, args []string, env []string, exit func(int)) error
	Stderr() io.Writer
}

// RealSystem implements System using the OS.
type RealSystem struct{}

// Getenv returns the value of the environment variable named by key.
func (RealSystem) Getenv(key string) string {
	return os.Getenv(key)
}

// Environ returns a copy of strings representing the environment.
func (RealSystem) Environ() []string {
	return os.Environ()
}

// Getwd returns the current working directory.
func (RealSystem) Getwd() (string, error) {
	return os.Getwd()
}

// LookPath finds an executable on searchPath, or PATH when empty.
func (RealSystem) LookPath(name string, searchPath string) (string, error) {
	return locate.Find(name, searchPath)
}

// Run runs argv to completion with the terminal attached.
func (RealSystem) Run(ctx context.Context, argv []string, env []string) error {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Env = env
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// CombinedOutput runs name with args and returns its combined output.
func (RealSystem) CombinedOutput(ctx context.Context, name string, args []string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// ExecBinary replaces the current process with the provided binary, or on
// platforms without exec, runs it and exits with its status.
func (RealSystem) ExecBinary(path string, args []string, env []string, exit func(int)) error {
	return execBinary(path, args, env, exit)
}

// Stderr returns the standard error writer.
func (RealSystem) Stderr() io.Writer {
	return os.Stderr
}
