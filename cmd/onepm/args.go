package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/onepm-dev/onepm/internal/messages"
	"github.com/onepm-dev/onepm/internal/pm"
)

// toolArgs accepts between min and max positional args and requires the first
// one, when present, to name a supported package manager.
func toolArgs(min int, max int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.RangeArgs(min, max)(cmd, args); err != nil {
			return err
		}
		if len(args) == 0 {
			return nil
		}
		if _, err := pm.ParseKind(args[0]); err != nil {
			return fmt.Errorf(messages.ArgsUnknownToolFmt, args[0], strings.Join(pm.Names(), ", "))
		}
		return nil
	}
}
