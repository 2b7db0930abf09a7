package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/onepm-dev/onepm/internal/cache"
	"github.com/onepm-dev/onepm/internal/config"
	"github.com/onepm-dev/onepm/internal/dispatch"
	"github.com/onepm-dev/onepm/internal/logging"
	"github.com/onepm-dev/onepm/internal/messages"
	"github.com/onepm-dev/onepm/internal/pm"
	"github.com/onepm-dev/onepm/internal/venv"
)

var (
	getwd     = os.Getwd
	getenv    = os.Getenv
	lookPath  = exec.LookPath
	newSystem = func() dispatch.System { return dispatch.RealSystem{} }
)

// app carries the state shared by every command of one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer
	exit   func(int)

	indexURL string
	verbose  bool

	settings *config.Settings
	caps     config.Capabilities
	cache    *cache.Manager
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		Long:          messages.RootLong,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	cmd.PersistentFlags().StringVar(&a.indexURL, "index-url", "", messages.RootFlagIndexURL)
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, messages.RootFlagVerbose)

	cmd.AddCommand(
		newInstallCmd(a),
		newUseCmd(a),
		newUpdateCmd(a),
		newCleanupCmd(a),
		newListCmd(a),
	)
	for _, s := range shortcuts {
		cmd.AddCommand(newShortcutCmd(a, s))
	}
	return cmd
}

// setup loads settings and installs the logger before any command runs.
func (a *app) setup(cmd *cobra.Command) error {
	settings, err := config.Load(getenv)
	if err != nil {
		return err
	}
	if a.indexURL != "" {
		settings.IndexURL = a.indexURL
		if err := settings.Validate(); err != nil {
			return fmt.Errorf("%w: %w", config.ErrConfigValidation, err)
		}
	}
	logger := logging.New(logging.Config{
		Level:   settings.LogLevel,
		Verbose: a.verbose,
		Output:  a.stderr,
		Color:   !color.NoColor,
	})
	// Each package tags its own component.
	cmd.SetContext(logging.WithLogger(cmd.Context(), logger))

	a.settings = settings
	a.caps = config.DetectCapabilities(settings, lookPath)
	a.cache = cache.NewFromSettings(settings, a.caps, a.stderr)
	cliLogger := logging.ComponentLogger(logger, "cli")
	cliLogger.Debug().
		Str("home", settings.Paths.Home).
		Str("index_url", settings.IndexURL).
		Bool("shims", a.caps.Shims).
		Msg("settings loaded")
	return nil
}

// dispatcher returns a dispatcher for the working directory.
func (a *app) dispatcher() (*dispatch.Dispatcher, error) {
	cwd, err := getwd()
	if err != nil {
		return nil, err
	}
	d := dispatch.New(cwd, a.cache, venv.NewBuilder(a.settings.Python), a.exit)
	d.System = newSystem()
	return d, nil
}

// warnShimsDisabled tells the user the tool comes from PATH instead of the cache.
func (a *app) warnShimsDisabled(kind pm.Kind) {
	if a.caps.Shims || kind == pm.Pip {
		return
	}
	_, _ = fmt.Fprint(a.stderr, color.YellowString(messages.WarnShimsDisabledFmt, a.caps.Reason, kind))
}
