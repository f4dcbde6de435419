package backend

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Kind identifies where a command runs.
type Kind int

const (
	// Native runs the command directly on this machine.
	Native Kind = iota
	// CompatRuntime runs a Windows executable through Wine.
	CompatRuntime
	// VirtualMachine runs a Windows executable inside a Parallels VM.
	VirtualMachine
)

func (k Kind) String() string {
	switch k {
	case Native:
		return "native"
	case CompatRuntime:
		return "compatRuntime"
	case VirtualMachine:
		return "virtualMachine"
	}
	return "unknown"
}

// ParseKind accepts the configuration names for the two routed backends.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "", "compatruntime":
		return CompatRuntime, nil
	case "virtualmachine":
		return VirtualMachine, nil
	}
	return Native, errors.Newf("unknown backend %q", s)
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	if string(text) == Native.String() {
		*k = Native
		return nil
	}
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
