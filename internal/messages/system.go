package messages

// System messages for internal operations.
const (
	// LocateNotFoundFmt reports a missing executable.
	LocateNotFoundFmt  = "%s is not found in PATH, did you install it?"
	LocateNameRequired = "executable name is required"

	// VenvPathRequired indicates the environment path is missing.
	VenvPathRequired        = "environment path is required"
	VenvPythonNotFound      = "no Python interpreter found; set ONEPM_PYTHON or install python3"
	VenvCreateFailedFmt     = "create virtual environment at %s: %w"
	VenvCreateFailedOutFmt  = "create virtual environment at %s: %w\n%s"
	VenvReadMarkerFailedFmt = "read %s: %w"
	VenvMarkerIncomplete    = "marker incomplete after creation"
	VenvPythonVersionFmt    = "query version of %s: %w"

	// Pep440InvalidVersionFmt reports an unparsable version.
	Pep440InvalidVersionFmt     = "invalid version %q"
	Pep440InvalidRequirementFmt = "invalid requirement %q: %s"
	Pep440InvalidSpecifierFmt   = "invalid specifier %q: %s"
	Pep440EmptyRequirement      = "requirement is empty"
	Pep440MalformedClauseFmt    = "malformed clause %q"
	Pep440WildcardOperatorFmt   = "wildcard not allowed with %s"
	Pep440WildcardPrefixFmt     = "wildcard prefix %q must be a plain release"
	Pep440CompatibleSegmentsFmt = "~=%s requires at least two release segments"

	// DistinfoNotFoundFmt reports a missing dist-info directory.
	DistinfoNotInstalled      = "distribution not installed"
	DistinfoNotFoundFmt       = "no installed distribution %s found under %s"
	DistinfoReadMetadataFmt   = "read metadata %s: %w"
	DistinfoMissingVersionFmt = "metadata %s has no Version field"

	// IndexCreateRequestFmt formats request creation errors.
	IndexCreateRequestFmt     = "create index request: %w"
	IndexFetchFailedFmt       = "fetch %s: %w"
	IndexUnexpectedStatusFmt  = "fetch %s: unexpected status %s"
	IndexDecodeFailedFmt      = "decode %s: %w"
	IndexProjectNotFoundFmt   = "package %s not found on %s"
	IndexNoMatchFmt           = "cannot find package matching requirement %s"
	IndexNoWheelFmt           = "release %s %s has no wheel distribution"
	IndexDownloadTooLargeFmt  = "download %s: response too large (%d bytes > limit %d bytes)"
	IndexDownloadTimeoutFmt   = "download %s: request timed out"
	IndexDigestInvalidFmt     = "invalid sha256 digest %q for %s: %w"
	IndexDigestMismatchFmt    = "checksum mismatch for %s (expected %s)"
	IndexCreateTempFileFmt    = "create temp file: %w"
	IndexOpenWheelFmt         = "open wheel %s: %w"
	IndexUnsafeWheelPathFmt   = "wheel %s contains unsafe path %q"
	IndexExtractFileFmt       = "extract %s: %w"
	IndexRetryBudgetExhausted = "retry budget exhausted"
	IndexNotFound             = "not found"

	// CacheListFailedFmt formats cache scan errors.
	CacheListFailedFmt           = "list installations of %s: %w"
	CacheInstallFailedFmt        = "install %s %s: %w"
	CacheInstallerFailedFmt      = "installer exited with error: %w\n%s"
	CacheEvictFailedFmt          = "evict %s: %w"
	CacheCreateDirFmt            = "create cache dir: %w"
	CacheInstallationNotFoundFmt = "no installation of %s matching version %s"
	CacheRemoveFailedFmt         = "remove %s: %w"
	CacheInvalidCleanupVersion   = "invalid version %q: %w"
	CacheToolRequired            = "package manager name is required"
	CacheShimsDisabled           = "isolated installations are disabled"
	CacheInstallingFmt           = "Installing %s %s into %s...\n"
	CachePipWheelNotDirFmt       = "pip wheel %s is not an unpacked wheel directory"
	CacheOpenLockFmt             = "open lock %s: %w"
	CacheLockFmt                 = "lock %s: %w"
	CacheLockTimeoutFmt          = "timed out waiting for lock after %s"
	CacheMovePipFmt              = "move pip wheel into place: %w"

	// PmUnsupportedToolFmt reports an unknown package manager.
	PmUnsupportedToolFmt       = "not supported package-manager: %s"
	PmRunCommandRequired       = "please specify a command to run"
	PmPipUpdateUnsupported     = "pip does not support the `pu` shortcut"
	PmPipNothingToInstall      = "no requirements.txt or setup.py/pyproject.toml is found, please specify packages to install"
	PmPipUpgradeFailedFmt      = "upgrade pip in %s: %w"
	PmInvalidConfiguredSpecFmt = "invalid tool.onepm.package-manager %q: %w"

	// ProjectReadFailedFmt formats pyproject read errors.
	ProjectReadFailedFmt     = "read %s: %w"
	ProjectInvalidTomlFmt    = "invalid %s: %w"
	ProjectWriteFailedFmt    = "write %s: %w"
	ProjectPatchVerifyFailed = "updated pyproject.toml does not contain the new package manager spec"

	// DispatchErrDispatched is the sentinel for a completed handoff.
	DispatchErrDispatched    = "dispatched"
	DispatchEmptyArgv        = "exec request has no command"
	DispatchBeforeFailedFmt  = "%s: %w"
	DispatchExecFailedFmt    = "exec %s: %w"
	DispatchShimsDisabledFmt = "cannot update %s: %s"

	// ConfigValidationFailed wraps every settings validation error.
	ConfigValidationFailed      = "config validation failed"
	ConfigReadFailedFmt         = "read config %s: %w"
	ConfigInvalidFmt            = "invalid config %s: %w"
	ConfigUnknownKeysFmt        = "config %s contains unrecognized keys: %w"
	ConfigResolveHomeFmt        = "resolve home dir: %w"
	ConfigInvalidMaxVersionsFmt = "max_versions must be at least 1 (got %d)"
	ConfigInvalidEnvIntFmt      = "invalid %s %q: %w"
	ConfigInvalidEnvBoolFmt     = "invalid %s %q: %w"
	ConfigInvalidIndexURLFmt    = "index_url %q must be an http or https URL"
	ConfigInvalidLogLevelFmt    = "log_level %q is not a valid level"
	ConfigShimsDisabledByEnv    = "disabled by configuration"
	ConfigShimsNoPython         = "no Python interpreter available"
)
