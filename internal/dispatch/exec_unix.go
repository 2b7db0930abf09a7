//go:build !windows

package dispatch

import "golang.org/x/sys/unix"

var unixExec = unix.Exec

// execBinary replaces the current process with the target binary.
func execBinary(path string, args []string, env []string, _ func(int)) error {
	return unixExec(path, args, env)
}
