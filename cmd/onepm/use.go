package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/onepm-dev/onepm/internal/messages"
)

func newUseCmd(a *app) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   messages.UseUse,
		Short: messages.UseShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.dispatcher()
			if err != nil {
				return err
			}
			edit, err := d.Use(cmd.Context(), args[0], dryRun)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch {
			case !edit.Changed():
				_, _ = fmt.Fprintln(out, messages.UseNoChanges)
			case dryRun:
				_, _ = fmt.Fprint(out, edit.Diff())
			default:
				_, _ = fmt.Fprintf(out, messages.UseUpdatedFmt, args[0], edit.Path)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, messages.UseFlagDryRun)
	return cmd
}
