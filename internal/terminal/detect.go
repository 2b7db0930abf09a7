// Package terminal reports whether onepm is attached to a terminal.
package terminal

import (
	"os"

	"golang.org/x/term"
)

var (
	isTerminal = term.IsTerminal
	stdinFd    = func() int { return int(os.Stdin.Fd()) }
	stderrFd   = func() int { return int(os.Stderr.Fd()) }
)

// IsInteractive reports whether prompts can be shown: stdin must be a
// terminal, and so must stderr, where prompts are drawn.
func IsInteractive() bool {
	return isTerminal(stdinFd()) && isTerminal(stderrFd())
}
