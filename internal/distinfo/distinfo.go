// Package distinfo reads installed distribution metadata from a Python environment.
package distinfo

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/onepm-dev/onepm/internal/messages"
	"github.com/onepm-dev/onepm/internal/pep440"
)

// ErrNotInstalled is returned when no dist-info directory matches the name.
var ErrNotInstalled = errors.New(messages.DistinfoNotInstalled)

var (
	osReadDir  = os.ReadDir
	osReadFile = os.ReadFile
	goos       = runtime.GOOS
)

// Distribution is an installed package found inside an environment.
type Distribution struct {
	Name    string
	Version *pep440.Version
	Path    string
}

// SitePackages returns the site-packages directories of the environment rooted at envDir.
func SitePackages(envDir string) []string {
	if goos == "windows" {
		return []string{filepath.Join(envDir, "Lib", "site-packages")}
	}
	var dirs []string
	for _, lib := range []string{"lib", "lib64"} {
		entries, err := osReadDir(filepath.Join(envDir, lib))
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() && strings.HasPrefix(entry.Name(), "python") {
				dirs = append(dirs, filepath.Join(envDir, lib, entry.Name(), "site-packages"))
			}
		}
	}
	sort.Strings(dirs)
	return dirs
}

// Find locates the dist-info directory of name under envDir and reads its version
// from METADATA. The directory name is only used to pick the candidate.
func Find(envDir string, name string) (Distribution, error) {
	return FindIn(SitePackages(envDir), name)
}

// FindIn is like Find but searches the given site-packages directories.
func FindIn(dirs []string, name string) (Distribution, error) {
	want := pep440.CanonicalName(name)
	for _, dir := range dirs {
		entries, err := osReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			distName, ok := matchDistInfo(entry.Name())
			if !ok || !entry.IsDir() || pep440.CanonicalName(distName) != want {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			version, err := readVersion(filepath.Join(path, "METADATA"))
			if err != nil {
				return Distribution{}, err
			}
			return Distribution{Name: want, Version: version, Path: path}, nil
		}
	}
	return Distribution{}, fmt.Errorf("%w: "+messages.DistinfoNotFoundFmt, ErrNotInstalled, want, strings.Join(dirs, ", "))
}

// matchDistInfo extracts the project part of "<name>-<version>.dist-info".
func matchDistInfo(dirName string) (string, bool) {
	stem, ok := strings.CutSuffix(dirName, ".dist-info")
	if !ok {
		return "", false
	}
	idx := strings.LastIndex(stem, "-")
	if idx <= 0 {
		return "", false
	}
	return stem[:idx], true
}

func readVersion(path string) (*pep440.Version, error) {
	data, err := osReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(messages.DistinfoReadMetadataFmt, path, err)
	}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			// Headers end at the first blank line; the rest is the description.
			break
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "Version") {
			continue
		}
		v, err := pep440.ParseVersion(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf(messages.DistinfoReadMetadataFmt, path, err)
		}
		return v, nil
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf(messages.DistinfoReadMetadataFmt, path, err)
	}
	return nil, fmt.Errorf(messages.DistinfoMissingVersionFmt, path)
}
