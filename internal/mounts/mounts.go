// Package mounts finds the host directories standing in for Windows drives:
// Parallels shared volumes and the MetaQuotes Wine prefix.
package mounts

import (
	"path"
	"strings"
)

// Info holds the discovered drive mounts. Empty fields are unresolved.
type Info struct {
	CDrive string
	DDrive string
}

// Drive returns the mount for letter ("C" or "D"), or "" if unresolved.
func (i Info) Drive(letter string) string {
	switch strings.ToUpper(letter) {
	case "C":
		return i.CDrive
	case "D":
		return i.DDrive
	}
	return ""
}

// Discover scans volume names for Parallels-style drive mounts under root.
// A name containing "[C]" or "windows" (any case) stands in for C:, a name
// containing "[D]" for D:. The first match wins for each letter.
func Discover(volumes []string, root string) Info {
	var info Info
	for _, vol := range volumes {
		if info.CDrive == "" && isCDrive(vol) {
			info.CDrive = path.Join(root, vol)
		}
		if info.DDrive == "" && strings.Contains(vol, "[D]") {
			info.DDrive = path.Join(root, vol)
		}
	}
	return info
}

func isCDrive(vol string) bool {
	return strings.Contains(vol, "[C]") || strings.Contains(strings.ToLower(vol), "windows")
}
