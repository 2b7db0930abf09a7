package messages

// CLI messages for user-facing commands and prompts.
const (
	// RootUse is the CLI command name.
	RootUse = "onepm"
	// RootShort is the short description for the root command.
	RootShort = "One package manager front end for Python projects"
	RootLong  = "onepm detects the package manager a Python project uses, keeps an isolated\ninstallation of it in ~/.onepm, and forwards commands to it."

	RootFlagIndexURL = "Index URL used to look up package manager releases"
	RootFlagVerbose  = "Enable debug logging on stderr"

	// VersionCommitFmt formats the commit hash for version display.
	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
	VersionFullFmt   = "%s (%s)"
	VersionTemplate  = "{{.Version}}\n"

	// InstallUse is the install command name.
	InstallUse     = "install"
	InstallShort   = "Install the package manager configured for this project"
	InstallDoneFmt = "%s is ready at %s\n"

	UseUse        = "use <spec>"
	UseShort      = "Use the package manager given by the requirement spec"
	UseFlagDryRun = "Print the pyproject.toml change without writing it"
	UseUpdatedFmt = "Set tool.onepm.package-manager = %q in %s\n"
	UseNoChanges  = "pyproject.toml already uses this package manager spec."

	UpdateUse     = "update [name]"
	UpdateShort   = "Update the package manager used in the project"
	UpdateAlias   = "up"
	UpdateDoneFmt = "%s is up to date at %s\n"

	CleanupUse            = "cleanup [name] [version]"
	CleanupShort          = "Clean up installations of the specified package manager or all"
	CleanupFlagYes        = "Remove the whole cache without asking for confirmation"
	CleanupConfirmAll     = "Remove every cached package manager installation?"
	CleanupRequiresYes    = "cleanup without a package manager name removes the whole cache; re-run with --yes to confirm"
	CleanupAborted        = "Cleanup aborted."
	CleanupRemovedAllFmt  = "Removed %s\n"
	CleanupRemovedToolFmt = "Removed all installations of %s\n"
	CleanupRemovedFmt     = "Removed %s %s\n"

	ListUse      = "list <name>"
	ListShort    = "List all installed versions of the given package manager"
	ListAlias    = "ls"
	ListEntryFmt = "- %s (%s)\n"
	ListEmptyFmt = "No installations of %s found.\n"

	// ShortcutPiShort describes the pi shortcut.
	ShortcutPiShort  = "Install packages with the detected package manager"
	ShortcutPuShort  = "Update packages with the detected package manager"
	ShortcutPunShort = "Uninstall packages with the detected package manager"
	ShortcutPrShort  = "Run a command with the detected package manager"
	ShortcutPaShort  = "Pass arguments through to the detected package manager"
	ShimShortFmt     = "Run %s through onepm"

	ArgsUnknownToolFmt = "invalid argument %q: must be one of %s"

	// PromptYesDefaultFmt formats yes/no prompts with yes as default.
	PromptYesDefaultFmt   = "%s [Y/n]: "
	PromptNoDefaultFmt    = "%s [y/N]: "
	PromptInvalidResponse = "invalid response %q"

	WarnShimsDisabledFmt = "Warning: isolated installations are disabled (%s); using %s from PATH\n"
)
