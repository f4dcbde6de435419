package backend

import (
	"strings"
)

// Targets lists program names that need the Parallels desktop app.
// Entries match case-insensitively against the base name of a path, with
// or without the .exe extension.
type Targets []string

// Match reports whether file names one of the targets.
func (t Targets) Match(file string) bool {
	base := normalizeProgram(file)
	if base == "" {
		return false
	}
	for _, program := range t {
		if matchProgram(base, program) {
			return true
		}
	}
	return false
}

// normalizeProgram extracts the base filename, lowercased, without quotes
// or the .exe extension. Both separators are handled regardless of the host OS.
func normalizeProgram(file string) string {
	file = strings.Trim(file, `"'`)
	if i := strings.LastIndexAny(file, `/\`); i >= 0 {
		file = file[i+1:]
	}
	return strings.TrimSuffix(strings.ToLower(file), ".exe")
}

func matchProgram(baseName, program string) bool {
	return baseName == strings.TrimSuffix(strings.ToLower(program), ".exe")
}

// IsWindowsExe reports whether name refers to a Windows executable.
func IsWindowsExe(name string) bool {
	return strings.HasSuffix(strings.ToLower(strings.Trim(name, `"'`)), ".exe")
}
