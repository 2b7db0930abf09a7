package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/onepm-dev/onepm/internal/messages"
)

func newUpdateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     messages.UpdateUse,
		Aliases: []string{messages.UpdateAlias},
		Short:   messages.UpdateShort,
		Args:    toolArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			d, err := a.dispatcher()
			if err != nil {
				return err
			}
			kind, _, err := d.Detect(name)
			if err != nil {
				return err
			}
			exe, err := d.Update(cmd.Context(), name)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), messages.UpdateDoneFmt, kind, exe)
			return nil
		},
	}
}
