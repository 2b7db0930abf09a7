//go:build !windows

package cache

import (
	"time"

	"golang.org/x/sys/unix"
)

var statFn = unix.Stat

// accessTime returns the OS access time of path.
func accessTime(path string) (time.Time, bool) {
	var st unix.Stat_t
	if err := statFn(path, &st); err != nil {
		return time.Time{}, false
	}
	sec, nsec := st.Atim.Unix()
	return time.Unix(sec, nsec), true
}
