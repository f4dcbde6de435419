// Package platform describes the machine mtbridge is running on.
// A Platform is built once at startup and passed by value afterwards.
package platform

import (
	"os"
	"runtime"
)

// Operating system names as reported by runtime.GOOS.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// Platform holds the immutable identity of the running host.
type Platform struct {
	OS   string
	Arch string
	Home string
	// WSL is set when running on Linux inside Windows Subsystem for Linux.
	WSL bool
}

// Detect builds a Platform from the running process.
func Detect() Platform {
	home, _ := os.UserHomeDir()
	p := Platform{
		OS:   runtime.GOOS,
		Arch: runtime.GOARCH,
		Home: home,
	}
	if p.IsLinux() {
		p.WSL = detectWSL(readProcVersion)
	}
	return p
}

// IsNative reports whether Windows executables run directly, without a
// compatibility layer or virtual machine.
func (p Platform) IsNative() bool { return p.OS == Windows }

// IsHost reports whether this is the macOS host that needs Wine or Parallels
// to run Windows executables.
func (p Platform) IsHost() bool { return p.OS == Darwin }

func (p Platform) IsLinux() bool { return p.OS == Linux }

// IsARM reports whether the CPU is an ARM variant.
func (p Platform) IsARM() bool { return p.Arch == "arm64" || p.Arch == "arm" }
