//go:build windows

package backend

import (
	"golang.org/x/sys/windows"
)

// isExecutable reports whether name exists as a regular file. Windows has
// no execute bit, so attributes are all that can be checked.
func isExecutable(name string) bool {
	p, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return false
	}
	attrs, err := windows.GetFileAttributes(p)
	if err != nil {
		return false
	}
	return attrs&windows.FILE_ATTRIBUTE_DIRECTORY == 0
}
