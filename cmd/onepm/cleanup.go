package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/onepm-dev/onepm/internal/messages"
	"github.com/onepm-dev/onepm/internal/pm"
	"github.com/onepm-dev/onepm/internal/terminal"
)

var isInteractive = terminal.IsInteractive

// confirmFunc asks a yes/no question; declining or aborting yields false.
var confirmFunc = func(title string) (bool, error) {
	var ok bool
	form := huh.NewForm(huh.NewGroup(huh.NewConfirm().Title(title).Value(&ok)))
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}

func newCleanupCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   messages.CleanupUse,
		Short: messages.CleanupShort,
		Args:  toolArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				if !yes {
					if !isInteractive() {
						return errors.New(messages.CleanupRequiresYes)
					}
					ok, err := confirmFunc(messages.CleanupConfirmAll)
					if err != nil {
						return err
					}
					if !ok {
						_, _ = fmt.Fprintln(out, messages.CleanupAborted)
						return nil
					}
				}
				if err := a.cache.Cleanup(cmd.Context(), "", ""); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(out, messages.CleanupRemovedAllFmt, a.settings.Paths.VenvsDir)
				return nil
			}

			kind, err := pm.ParseKind(args[0])
			if err != nil {
				return err
			}
			version := ""
			if len(args) > 1 {
				version = args[1]
			}
			if err := a.cache.Cleanup(cmd.Context(), kind.String(), version); err != nil {
				return err
			}
			if version == "" {
				_, _ = fmt.Fprintf(out, messages.CleanupRemovedToolFmt, kind)
			} else {
				_, _ = fmt.Fprintf(out, messages.CleanupRemovedFmt, kind, version)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, messages.CleanupFlagYes)
	return cmd
}
