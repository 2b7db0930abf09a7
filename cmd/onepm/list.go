package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/onepm-dev/onepm/internal/messages"
	"github.com/onepm-dev/onepm/internal/pm"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     messages.ListUse,
		Aliases: []string{messages.ListAlias},
		Short:   messages.ListShort,
		Args:    toolArgs(1, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := pm.ParseKind(args[0])
			if err != nil {
				return err
			}
			installs, err := a.cache.ListInstallations(cmd.Context(), kind.String())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(installs) == 0 {
				_, _ = fmt.Fprintf(out, messages.ListEmptyFmt, kind)
				return nil
			}
			for _, inst := range installs {
				_, _ = fmt.Fprintf(out, messages.ListEntryFmt, color.GreenString(inst.Version.String()), inst.Path)
			}
			return nil
		},
	}
}
