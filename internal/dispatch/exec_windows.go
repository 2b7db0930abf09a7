//go:build windows

package dispatch

import (
	"errors"
	"os"
	"os/exec"
)

// execBinary runs the target binary and exits with its status.
func execBinary(path string, args []string, env []string, exit func(int)) error {
	cmd := exec.Command(path, args[1:]...)
	cmd.Env = env
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exit(exitErr.ExitCode())
		return nil
	}
	if err != nil {
		return err
	}
	exit(0)
	return nil
}
