// Package locate finds executables on the search path.
package locate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/onepm-dev/onepm/internal/messages"
)

var (
	osStat       = os.Stat
	osExecutable = os.Executable
	goos         = runtime.GOOS
)

// NotFoundError reports that no executable named Name exists on the search path.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf(messages.LocateNotFoundFmt, e.Name)
}

// Find searches searchPath (or $PATH when empty) for an executable called name.
// Candidates that are the running binary itself are skipped, so a shim named
// after a tool never resolves to itself.
func Find(name string, searchPath string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", errors.New(messages.LocateNameRequired)
	}
	if searchPath == "" {
		searchPath = os.Getenv("PATH")
	}
	self := selfInfo()

	if strings.ContainsRune(name, filepath.Separator) || strings.ContainsRune(name, '/') {
		if path, ok := executable(name, self); ok {
			return path, nil
		}
		return "", &NotFoundError{Name: name}
	}

	for _, dir := range filepath.SplitList(searchPath) {
		if dir == "" {
			continue
		}
		for _, candidate := range candidates(name) {
			if path, ok := executable(filepath.Join(dir, candidate), self); ok {
				return path, nil
			}
		}
	}
	return "", &NotFoundError{Name: name}
}

// JoinPath prepends dirs to the search path string.
func JoinPath(searchPath string, dirs ...string) string {
	parts := append([]string{}, dirs...)
	if searchPath != "" {
		parts = append(parts, searchPath)
	}
	return strings.Join(parts, string(os.PathListSeparator))
}

func candidates(name string) []string {
	if goos != "windows" || filepath.Ext(name) != "" {
		return []string{name}
	}
	exts := os.Getenv("PATHEXT")
	if exts == "" {
		exts = ".COM;.EXE;.BAT;.CMD"
	}
	var names []string
	for _, ext := range strings.Split(exts, ";") {
		if ext = strings.TrimSpace(ext); ext != "" {
			names = append(names, name+strings.ToLower(ext))
		}
	}
	return names
}

func executable(path string, self os.FileInfo) (string, bool) {
	info, err := osStat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	if goos != "windows" && info.Mode().Perm()&0o111 == 0 {
		return "", false
	}
	if self != nil && os.SameFile(info, self) {
		return "", false
	}
	return path, true
}

func selfInfo() os.FileInfo {
	exe, err := osExecutable()
	if err != nil {
		return nil
	}
	info, err := osStat(exe)
	if err != nil {
		return nil
	}
	return info
}
