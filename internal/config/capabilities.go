package config

import "github.com/onepm-dev/onepm/internal/messages"

// Capabilities records what this process can do, computed once at startup.
type Capabilities struct {
	// Shims is true when isolated installations can be created and used.
	Shims bool
	// Reason explains why Shims is false.
	Reason string
}

// DetectCapabilities decides whether isolated installations are available:
// they are unless disabled by settings or no Python interpreter can be found.
// lookPath resolves an executable name.
func DetectCapabilities(settings *Settings, lookPath func(string) (string, error)) Capabilities {
	if settings != nil && settings.DisableShims {
		return Capabilities{Reason: messages.ConfigShimsDisabledByEnv}
	}
	if settings != nil && settings.Python != "" {
		if _, err := lookPath(settings.Python); err == nil {
			return Capabilities{Shims: true}
		}
		return Capabilities{Reason: messages.ConfigShimsNoPython}
	}
	for _, name := range []string{"python3", "python"} {
		if _, err := lookPath(name); err == nil {
			return Capabilities{Shims: true}
		}
	}
	return Capabilities{Reason: messages.ConfigShimsNoPython}
}
