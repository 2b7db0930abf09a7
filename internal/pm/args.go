package pm

import (
	"slices"
	"strings"
)

// hasUnknownArgs reports whether args carry a positional argument. Flags named
// in valueFlags consume the following argument as their value.
func hasUnknownArgs(args []string, valueFlags []string) bool {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		var name string
		switch {
		case strings.HasPrefix(arg, "--"):
			name = arg[2:]
		case strings.HasPrefix(arg, "-"):
			name = arg[1:]
		default:
			return true
		}
		if slices.Contains(valueFlags, name) {
			i++
		}
	}
	return false
}
