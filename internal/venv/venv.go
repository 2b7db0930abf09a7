// Package venv creates isolated Python virtual environments.
package venv

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/onepm-dev/onepm/internal/messages"
	"github.com/onepm-dev/onepm/internal/pep440"
)

// MarkerFile is the file every valid environment carries at its root.
const MarkerFile = "pyvenv.cfg"

var goos = runtime.GOOS

// CreationError reports a failed environment creation.
type CreationError struct {
	Path   string
	Output string
	Err    error
}

func (e *CreationError) Error() string {
	if out := strings.TrimSpace(e.Output); out != "" {
		return fmt.Errorf(messages.VenvCreateFailedOutFmt, e.Path, e.Err, out).Error()
	}
	return fmt.Errorf(messages.VenvCreateFailedFmt, e.Path, e.Err).Error()
}

func (e *CreationError) Unwrap() error {
	return e.Err
}

// Builder creates environments with a base Python interpreter.
type Builder struct {
	// Python is the interpreter used to run "-m venv". When empty, python3 and
	// then python are looked up on PATH.
	Python string
	System System

	mu      sync.Mutex
	version *pep440.Version
}

// NewBuilder returns a Builder using the real OS.
func NewBuilder(python string) *Builder {
	return &Builder{Python: python, System: RealSystem{}}
}

// BinDir returns the scripts directory of the environment at envDir.
func BinDir(envDir string) string {
	if goos == "windows" {
		return filepath.Join(envDir, "Scripts")
	}
	return filepath.Join(envDir, "bin")
}

// Executable returns the path of a console script inside the environment.
func Executable(envDir string, name string) string {
	if goos == "windows" && filepath.Ext(name) == "" {
		name += ".exe"
	}
	return filepath.Join(BinDir(envDir), name)
}

// Python returns the interpreter path inside the environment.
func Python(envDir string) string {
	return Executable(envDir, "python")
}

// Interpreter returns the base interpreter used to create environments.
func (b *Builder) Interpreter() (string, error) {
	if b.Python != "" {
		return b.Python, nil
	}
	for _, name := range []string{"python3", "python"} {
		if path, err := b.System.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", errors.New(messages.VenvPythonNotFound)
}

var pythonVersionArgs = []string{"-c", "import platform; print(platform.python_version())"}

// PythonVersion returns the version of the base interpreter. The first
// successful answer is remembered.
func (b *Builder) PythonVersion(ctx context.Context) (*pep440.Version, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.version != nil {
		return b.version, nil
	}
	python, err := b.Interpreter()
	if err != nil {
		return nil, err
	}
	out, err := b.System.CombinedOutput(ctx, python, pythonVersionArgs)
	if err != nil {
		return nil, fmt.Errorf(messages.VenvPythonVersionFmt, python, err)
	}
	version, err := pep440.ParseVersion(strings.TrimSpace(string(out)))
	if err != nil {
		return nil, fmt.Errorf(messages.VenvPythonVersionFmt, python, err)
	}
	zerolog.Ctx(ctx).Debug().Str("component", "venv").Str("python", python).Str("version", version.String()).Msg("interpreter version")
	b.version = version
	return version, nil
}

// Valid reports whether envDir holds a complete environment: a pyvenv.cfg with a
// home key and an interpreter in the scripts directory.
func (b *Builder) Valid(envDir string) bool {
	data, err := b.System.ReadFile(filepath.Join(envDir, MarkerFile))
	if err != nil || !hasHomeKey(data) {
		return false
	}
	info, err := b.System.Stat(Python(envDir))
	return err == nil && !info.IsDir()
}

func hasHomeKey(data []byte) bool {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), "=")
		if ok && strings.TrimSpace(key) == "home" && strings.TrimSpace(value) != "" {
			return true
		}
	}
	return false
}

// Ensure creates an environment at path unless a valid one already exists and
// returns path. A directory left behind by an interrupted creation is rebuilt.
func (b *Builder) Ensure(ctx context.Context, path string, withPip bool) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.New(messages.VenvPathRequired)
	}
	if b.Valid(path) {
		return path, nil
	}

	logger := zerolog.Ctx(ctx).With().Str("component", "venv").Str("path", path).Logger()
	python, err := b.Interpreter()
	if err != nil {
		return "", &CreationError{Path: path, Err: err}
	}
	if err := b.System.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", &CreationError{Path: path, Err: err}
	}

	args := []string{"-m", "venv"}
	if _, statErr := b.System.Stat(path); statErr == nil {
		logger.Debug().Msg("rebuilding incomplete environment")
		args = append(args, "--clear")
	}
	if !withPip {
		args = append(args, "--without-pip")
	}
	args = append(args, path)

	logger.Debug().Str("python", python).Strs("args", args).Msg("creating environment")
	out, err := b.System.CombinedOutput(ctx, python, args)
	if err != nil {
		return "", &CreationError{Path: path, Output: string(out), Err: err}
	}
	if !b.Valid(path) {
		return "", &CreationError{Path: path, Output: string(out), Err: fmt.Errorf(messages.VenvReadMarkerFailedFmt, MarkerFile, errors.New(messages.VenvMarkerIncomplete))}
	}
	return path, nil
}
