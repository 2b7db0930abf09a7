package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/onepm-dev/onepm/internal/messages"
	"github.com/onepm-dev/onepm/internal/pm"
)

// shortcut is a verb forwarded to the detected package manager. Shims pin the
// package manager with override.
type shortcut struct {
	name     string
	short    string
	override string
	request  func(pm.Manager, []string) (pm.ExecRequest, error)
}

var shortcuts = []shortcut{
	{name: "pi", short: messages.ShortcutPiShort, request: pm.Manager.Install},
	{name: "pu", short: messages.ShortcutPuShort, request: pm.Manager.Update},
	{name: "pun", short: messages.ShortcutPunShort, request: pm.Manager.Uninstall},
	{name: "pr", short: messages.ShortcutPrShort, request: pm.Manager.Run},
	{name: "pa", short: messages.ShortcutPaShort, request: pm.Manager.Execute},
	shim(pm.PDM),
	shim(pm.Poetry),
	shim(pm.Pipenv),
	shim(pm.Uv),
}

func shim(kind pm.Kind) shortcut {
	return shortcut{
		name:     kind.String(),
		short:    fmt.Sprintf(messages.ShimShortFmt, kind),
		override: kind.String(),
		request:  pm.Manager.Execute,
	}
}

func lookupShortcut(name string) (shortcut, bool) {
	for _, s := range shortcuts {
		if s.name == name {
			return s, true
		}
	}
	return shortcut{}, false
}

func newShortcutCmd(a *app, s shortcut) *cobra.Command {
	return &cobra.Command{
		Use:                s.name,
		Short:              s.short,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.dispatcher()
			if err != nil {
				return err
			}
			manager, err := d.PackageManager(cmd.Context(), s.override)
			if err != nil {
				return err
			}
			a.warnShimsDisabled(manager.Kind())
			req, err := s.request(manager, args)
			if err != nil {
				return err
			}
			return d.Handoff(cmd.Context(), req)
		},
	}
}
