//go:build !windows

package backend

import (
	"golang.org/x/sys/unix"
)

// isExecutable reports whether the current user may execute name.
func isExecutable(name string) bool {
	return unix.Access(name, unix.X_OK) == nil
}
