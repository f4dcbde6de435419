package backend

import (
	"maps"
	"slices"
	"strings"
	"time"

	"mvdan.cc/sh/v3/syntax"
)

// Command is a program and its arguments as the caller sees them.
type Command struct {
	Name string
	Args []string
}

// Options are caller-supplied execution settings.
type Options struct {
	// Env is merged on top of the backend's own variables.
	Env map[string]string
	Dir string
}

// Invocation is a ready-to-run process description.
type Invocation struct {
	Backend Kind              `json:"backend"`
	Name    string            `json:"name"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
	Dir     string            `json:"dir,omitempty"`
}

// String renders the invocation as a shell command line.
func (inv Invocation) String() string {
	var parts []string
	for _, k := range slices.Sorted(maps.Keys(inv.Env)) {
		parts = append(parts, k+"="+quote(inv.Env[k]))
	}
	parts = append(parts, quote(inv.Name))
	for _, a := range inv.Args {
		parts = append(parts, quote(a))
	}
	return strings.Join(parts, " ")
}

func quote(s string) string {
	q, err := syntax.Quote(s, syntax.LangBash)
	if err != nil {
		// Only strings with NUL bytes can't be quoted; show them as-is.
		return s
	}
	return q
}

// Result holds the outcome of a finished process.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}
