package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/onepm-dev/onepm/internal/messages"
)

func newInstallCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   messages.InstallUse,
		Short: messages.InstallShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.dispatcher()
			if err != nil {
				return err
			}
			manager, err := d.PackageManager(cmd.Context(), "")
			if err != nil {
				return err
			}
			a.warnShimsDisabled(manager.Kind())
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), messages.InstallDoneFmt, manager.Kind(), strings.Join(manager.Command(), " "))
			return nil
		},
	}
}
