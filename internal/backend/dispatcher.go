package backend

import (
	"context"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/sverrirab/mtbridge/internal/logging"
	"github.com/sverrirab/mtbridge/internal/mounts"
	"github.com/sverrirab/mtbridge/internal/platform"
)

// ParallelsCLI is the Parallels command-line tool used for the VM backend.
const ParallelsCLI = "prlctl"

// BundledWine is the Wine binary shipped inside the MetaTrader 5 macOS app.
const BundledWine = "/Applications/MetaTrader 5.app/Contents/SharedSupport/wine/bin/wine64"

// WineTranslator is the part of the path translator the dispatcher needs.
// *pathconv.Translator implements it.
type WineTranslator interface {
	ToWine(winPath string) string
	Wine() mounts.WineInfo
}

// Config configures a Dispatcher.
type Config struct {
	Platform   platform.Platform
	Translator WineTranslator
	Runner     Runner
	Preferred  Kind
	VMName     string
	WineBinary string
	Logger     *slog.Logger

	// LookPath and Executable default to exec.LookPath and an access(2)
	// check; tests replace them.
	LookPath   func(file string) (string, error)
	Executable func(path string) bool
}

// Dispatcher routes commands to a backend and runs them.
type Dispatcher struct {
	cfg    Config
	logger *slog.Logger
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(cfg Config) *Dispatcher {
	if cfg.Runner == nil {
		cfg.Runner = ExecRunner{}
	}
	if cfg.LookPath == nil {
		cfg.LookPath = exec.LookPath
	}
	if cfg.Executable == nil {
		cfg.Executable = isExecutable
	}
	if cfg.WineBinary == "" {
		cfg.WineBinary = "wine64"
	}
	return &Dispatcher{cfg: cfg, logger: logging.OrDiscard(cfg.Logger)}
}

// Execute dispatches cmd without blocking. onComplete is called exactly once,
// from another goroutine, with either the process result or an error.
// There is no cancellation beyond ctx, which is handed to the Runner.
func (d *Dispatcher) Execute(ctx context.Context, cmd Command, opts Options, onComplete func(*Result, error)) {
	go func() {
		onComplete(d.Run(ctx, cmd, opts))
	}()
}

// Run dispatches cmd and waits for it to finish. Runner errors are returned
// unchanged.
func (d *Dispatcher) Run(ctx context.Context, cmd Command, opts Options) (*Result, error) {
	inv, err := d.Plan(cmd, opts)
	if err != nil {
		return nil, err
	}
	d.logger.Debug("dispatching", "backend", inv.Backend, "command", inv.String())
	return d.cfg.Runner.Run(ctx, inv)
}

// Plan selects a backend for cmd and builds its invocation without running it.
func (d *Dispatcher) Plan(cmd Command, opts Options) (Invocation, error) {
	if cmd.Name == "" {
		return Invocation{}, errors.New("empty command")
	}

	in := SelectInput{
		Native:     d.cfg.Platform.IsNative(),
		Host:       d.cfg.Platform.IsHost(),
		WindowsExe: IsWindowsExe(cmd.Name),
		Preferred:  d.cfg.Preferred,
	}

	// Probing is only worth doing when routing is actually needed.
	var wine mounts.WineInfo
	var wineBin, prlctl string
	if !in.Native && in.Host && in.WindowsExe {
		wine = d.cfg.Translator.Wine()
		if wine.HasPrefix {
			wineBin = d.wineBinary()
		}
		prlctl, _ = d.cfg.LookPath(ParallelsCLI)
		in.WineUsable = wine.HasPrefix && wineBin != ""
		in.VMUsable = prlctl != ""
		d.logger.Debug("backend probe",
			"winePrefix", wine.Prefix, "hasPrefix", wine.HasPrefix,
			"wine", wineBin, "prlctl", prlctl)
	}

	kind, err := Select(in)
	if err != nil {
		return Invocation{}, errors.Wrapf(err, "running %s", cmd.Name)
	}

	switch kind {
	case CompatRuntime:
		return d.wineInvocation(wineBin, wine.Prefix, cmd, opts), nil
	case VirtualMachine:
		return d.vmInvocation(prlctl, cmd, opts), nil
	default:
		return Invocation{
			Backend: Native,
			Name:    cmd.Name,
			Args:    cmd.Args,
			Env:     opts.Env,
			Dir:     opts.Dir,
		}, nil
	}
}

func (d *Dispatcher) wineInvocation(wineBin, prefix string, cmd Command, opts Options) Invocation {
	env := map[string]string{
		"WINEPREFIX": prefix,
		"WINEDEBUG":  "-all",
	}
	for k, v := range opts.Env {
		env[k] = v
	}
	args := append([]string{d.cfg.Translator.ToWine(cmd.Name)}, cmd.Args...)
	return Invocation{
		Backend: CompatRuntime,
		Name:    wineBin,
		Args:    args,
		Env:     env,
		Dir:     opts.Dir,
	}
}

func (d *Dispatcher) vmInvocation(prlctl string, cmd Command, opts Options) Invocation {
	args := append([]string{"exec", d.cfg.VMName, cmd.Name}, cmd.Args...)
	return Invocation{
		Backend: VirtualMachine,
		Name:    prlctl,
		Args:    args,
		Env:     opts.Env,
		Dir:     opts.Dir,
	}
}

// wineBinary resolves the configured Wine binary, falling back to the copy
// bundled with MetaTrader 5. Returns "" when none is usable.
func (d *Dispatcher) wineBinary() string {
	bin := d.cfg.WineBinary
	if strings.Contains(bin, "/") {
		if d.cfg.Executable(bin) {
			return bin
		}
	} else if p, err := d.cfg.LookPath(bin); err == nil {
		return p
	}
	if d.cfg.Executable(BundledWine) {
		return BundledWine
	}
	return ""
}
