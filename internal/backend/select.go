package backend

import (
	"github.com/cockroachdb/errors"
)

// ErrBackendUnavailable is returned when a Windows executable must be
// routed but neither Wine nor Parallels can run it.
var ErrBackendUnavailable = errors.New("no backend available to run Windows executables")

// SelectInput is everything the routing decision depends on.
type SelectInput struct {
	Native     bool
	Host       bool
	WindowsExe bool
	Preferred  Kind
	WineUsable bool
	VMUsable   bool
}

// Select picks the backend for a command. Commands that are not Windows
// executables, or that run on Windows itself or a non-macOS system, run
// natively. Otherwise the preferred backend is used when usable, then the
// other one.
func Select(in SelectInput) (Kind, error) {
	if in.Native || !in.Host || !in.WindowsExe {
		return Native, nil
	}
	if in.Preferred == CompatRuntime && in.WineUsable {
		return CompatRuntime, nil
	}
	if in.VMUsable {
		return VirtualMachine, nil
	}
	if in.WineUsable {
		return CompatRuntime, nil
	}
	return Native, errors.WithHint(ErrBackendUnavailable,
		"Install MetaTrader 5 for macOS (Wine prefix) or Parallels Desktop with the prlctl tool on PATH.")
}
