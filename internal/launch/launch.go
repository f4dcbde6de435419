// Package launch wires the mtbridge components together from the detected
// platform and the loaded configuration, and runs the exec workflow.
package launch

import (
	"context"
	"log/slog"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"

	"github.com/sverrirab/mtbridge/internal/backend"
	"github.com/sverrirab/mtbridge/internal/config"
	"github.com/sverrirab/mtbridge/internal/defaults"
	"github.com/sverrirab/mtbridge/internal/logging"
	"github.com/sverrirab/mtbridge/internal/pathconv"
	"github.com/sverrirab/mtbridge/internal/platform"
	"github.com/sverrirab/mtbridge/internal/volumecache"
)

// App holds the wired components.
type App struct {
	Platform   platform.Platform
	Config     *config.Config
	Volumes    *volumecache.Cache
	Translator *pathconv.Translator
	Dispatcher *backend.Dispatcher
	Defaults   *defaults.Provider
	Targets    backend.Targets
	Logger     *slog.Logger
}

// Deps lets tests replace the filesystem, clock and process runner.
type Deps struct {
	Fs       afero.Fs
	Clock    clockwork.Clock
	Runner   backend.Runner
	LookPath func(string) (string, error)
}

// New builds an App.
func New(p platform.Platform, cfg *config.Config, logger *slog.Logger, deps Deps) (*App, error) {
	logger = logging.OrDiscard(logger)
	if deps.Fs == nil {
		deps.Fs = afero.NewOsFs()
	}

	preferred, err := backend.ParseKind(cfg.Backend.Preferred)
	if err != nil {
		return nil, errors.Wrap(err, "backend configuration")
	}

	root := VolumesRoot(p, cfg)
	volumes := volumecache.New(root, volumecache.Options{
		Fs:     deps.Fs,
		Clock:  deps.Clock,
		TTL:    cfg.TTL(),
		Logger: logger,
	})

	var candidates []pathconv.Candidate
	if len(cfg.Paths.Alternates) > 0 {
		candidates = pathconv.TemplateCandidates(cfg.Paths.Alternates, p.Home)
	}

	tr := pathconv.New(pathconv.Options{
		Platform:          p,
		Volumes:           volumes,
		Fs:                deps.Fs,
		VolumesRoot:       root,
		LowerDriveLetters: !p.IsHost(),
		Candidates:        candidates,
		WinePrefix:        cfg.Wine.Prefix,
		Logger:            logger,
	})

	disp := backend.NewDispatcher(backend.Config{
		Platform:   p,
		Translator: tr,
		Runner:     deps.Runner,
		Preferred:  preferred,
		VMName:     cfg.Backend.VMName,
		WineBinary: cfg.Wine.Binary,
		Logger:     logger,
		LookPath:   deps.LookPath,
	})

	return &App{
		Platform:   p,
		Config:     cfg,
		Volumes:    volumes,
		Translator: tr,
		Dispatcher: disp,
		Defaults:   defaults.NewProvider(p, tr),
		Targets:    backend.Targets(cfg.Backend.Targets),
		Logger:     logger,
	}, nil
}

// VolumesRoot returns the configured volumes root or the per-OS default.
func VolumesRoot(p platform.Platform, cfg *config.Config) string {
	if cfg.Paths.VolumesRoot != "" {
		return cfg.Paths.VolumesRoot
	}
	if p.IsHost() {
		return "/Volumes"
	}
	return "/mnt"
}

// Options holds the parsed exec flags.
type Options struct {
	Target string
	Args   []string
	Dir    string
	Env    []string // KEY=VALUE pairs
	DryRun bool
}

// Outcome is what Run produced: the planned invocation and, unless this was
// a dry run, the process result.
type Outcome struct {
	Invocation backend.Invocation
	Result     *backend.Result
}

// Run plans and, unless DryRun is set, executes the command. A host path
// given as working directory is used as is.
func (a *App) Run(ctx context.Context, opts Options) (*Outcome, error) {
	env, err := parseEnv(opts.Env)
	if err != nil {
		return nil, err
	}

	cmd := backend.Command{Name: opts.Target, Args: opts.Args}
	bopts := backend.Options{Env: env, Dir: opts.Dir}

	inv, err := a.Dispatcher.Plan(cmd, bopts)
	if err != nil {
		return nil, err
	}
	a.Logger.Info("routing command", "backend", inv.Backend, "target", opts.Target)

	out := &Outcome{Invocation: inv}
	if opts.DryRun {
		return out, nil
	}

	type done struct {
		res *backend.Result
		err error
	}
	ch := make(chan done, 1)
	a.Dispatcher.Execute(ctx, cmd, bopts, func(res *backend.Result, err error) {
		ch <- done{res, err}
	})
	d := <-ch
	if d.err != nil {
		return nil, d.err
	}
	out.Result = d.res
	return out, nil
}

// RefreshVolumes drops the cached listing and lists the volumes again.
func (a *App) RefreshVolumes() []string {
	a.Volumes.Invalidate()
	return a.Volumes.Volumes()
}

func parseEnv(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	env := make(map[string]string, len(pairs))
	for _, kv := range pairs {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return nil, errors.Newf("invalid environment variable %q, want KEY=VALUE", kv)
		}
		env[k] = v
	}
	return env, nil
}
