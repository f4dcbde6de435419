package backend

import (
	"github.com/sverrirab/mtbridge/internal/platform"
)

// ParallelsApp is the macOS application name of Parallels Desktop.
const ParallelsApp = "Parallels Desktop"

// ResolveExecutable returns how to launch exe interactively. Target
// programs on macOS are opened through the Parallels Desktop app; anything
// else, and everything on Windows, is returned unchanged.
func ResolveExecutable(p platform.Platform, targets Targets, exe string) Invocation {
	if p.IsNative() || !targets.Match(exe) {
		return Invocation{Backend: Native, Name: exe}
	}
	return Invocation{
		Backend: VirtualMachine,
		Name:    "open",
		Args:    []string{"-a", ParallelsApp, "--args", exe},
	}
}
