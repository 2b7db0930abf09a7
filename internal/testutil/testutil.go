package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// WriteStub writes an executable shell stub that exits successfully.
// t is the active test; dir is the output directory; name is the executable file name.
func WriteStub(t *testing.T, dir string, name string) string {
	t.Helper()
	return WriteStubWithExit(t, dir, name, 0)
}

// WriteStubWithExit writes an executable shell stub that exits with the provided code.
// t is the active test; dir is the output directory; name is the executable file name.
func WriteStubWithExit(t *testing.T, dir string, name string, exitCode int) string {
	t.Helper()
	return WriteScript(t, dir, name, fmt.Sprintf("exit %d", exitCode))
}

// WriteScript writes an executable shell script with body after the shebang line.
func WriteScript(t *testing.T, dir string, name string, body string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, name)
	content := []byte("#!/bin/sh\n" + strings.TrimRight(body, "\n") + "\n")
	if err := os.WriteFile(path, content, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

// WriteRecordingStub writes a stub that appends its arguments, one invocation per
// line, to logPath and exits with exitCode.
func WriteRecordingStub(t *testing.T, dir string, name string, logPath string, exitCode int) string {
	t.Helper()
	body := fmt.Sprintf("echo \"$@\" >> %q\nexit %d", logPath, exitCode)
	return WriteScript(t, dir, name, body)
}

// BinDir returns the scripts directory of a virtual environment rooted at envDir.
func BinDir(envDir string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(envDir, "Scripts")
	}
	return filepath.Join(envDir, "bin")
}

// WriteVenv lays out a minimal virtual environment: pyvenv.cfg and a python stub.
// It returns the stub interpreter path.
func WriteVenv(t *testing.T, envDir string) string {
	t.Helper()
	if err := os.MkdirAll(envDir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", envDir, err)
	}
	cfg := "home = /usr/bin\ninclude-system-site-packages = false\nversion = 3.12.1\n"
	if err := os.WriteFile(filepath.Join(envDir, "pyvenv.cfg"), []byte(cfg), 0o644); err != nil {
		t.Fatalf("write pyvenv.cfg: %v", err)
	}
	return WriteStub(t, BinDir(envDir), "python")
}

// WriteDistInfo writes a dist-info directory with a METADATA file for name and version
// into the environment's site-packages.
func WriteDistInfo(t *testing.T, envDir string, name string, version string) string {
	t.Helper()
	site := filepath.Join(envDir, "lib", "python3.12", "site-packages")
	if runtime.GOOS == "windows" {
		site = filepath.Join(envDir, "Lib", "site-packages")
	}
	distDir := filepath.Join(site, strings.ReplaceAll(name, "-", "_")+"-"+version+".dist-info")
	if err := os.MkdirAll(distDir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", distDir, err)
	}
	metadata := fmt.Sprintf("Metadata-Version: 2.1\nName: %s\nVersion: %s\n\nDescription body\n", name, version)
	if err := os.WriteFile(filepath.Join(distDir, "METADATA"), []byte(metadata), 0o644); err != nil {
		t.Fatalf("write METADATA: %v", err)
	}
	return distDir
}

// WriteFile writes content to dir/name, creating parent directories.
func WriteFile(t *testing.T, dir string, name string, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WithWorkingDir runs fn with dir as the current working directory and restores the previous directory.
// t is the active test; dir is the temporary working directory for fn.
func WithWorkingDir(t *testing.T, dir string, fn func()) {
	t.Helper()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer func() {
		if err := os.Chdir(cwd); err != nil {
			t.Fatalf("restore chdir: %v", err)
		}
	}()
	fn()
}
