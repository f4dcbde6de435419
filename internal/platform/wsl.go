package platform

import (
	"os"
	"strings"
)

func readProcVersion() (string, error) {
	data, err := os.ReadFile("/proc/version")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// detectWSL checks the kernel version string for the Microsoft marker that
// both WSL1 and WSL2 kernels carry.
func detectWSL(read func() (string, error)) bool {
	version, err := read()
	if err != nil {
		return false
	}
	if strings.Contains(strings.ToLower(version), "microsoft") {
		return true
	}
	// WSL2 VM indicator, present even with custom kernels.
	if _, err := os.Stat("/run/WSL"); err == nil {
		return true
	}
	return false
}
