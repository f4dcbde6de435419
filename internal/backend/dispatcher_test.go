package backend

import (
	"context"
	"os/exec"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sverrirab/mtbridge/internal/mounts"
	"github.com/sverrirab/mtbridge/internal/pathconv"
	"github.com/sverrirab/mtbridge/internal/platform"
)

const editor = `C:\Program Files\MetaTrader 5\MetaEditor64.exe`

var mac = platform.Platform{OS: platform.Darwin, Arch: "arm64", Home: "/Users/trader"}

type fakeRunner struct {
	mu    sync.Mutex
	calls []Invocation
	res   *Result
	err   error
}

func (f *fakeRunner) Run(_ context.Context, inv Invocation) (*Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, inv)
	return f.res, f.err
}

func (f *fakeRunner) invocations() []Invocation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Invocation(nil), f.calls...)
}

type env struct {
	fs     afero.Fs
	runner *fakeRunner
	onPath map[string]string
}

func newEnv(t *testing.T, withPrefix bool, onPath ...string) *env {
	t.Helper()
	e := &env{
		fs:     afero.NewMemMapFs(),
		runner: &fakeRunner{res: &Result{}},
		onPath: map[string]string{},
	}
	if withPrefix {
		require.NoError(t, e.fs.MkdirAll(mac.Home+"/"+mounts.DefaultWinePrefix+"/"+mounts.MT5Dir, 0o755))
	}
	for _, name := range onPath {
		e.onPath[name] = "/usr/local/bin/" + name
	}
	return e
}

func (e *env) dispatcher(preferred Kind) *Dispatcher {
	tr := pathconv.New(pathconv.Options{Platform: mac, Fs: e.fs, VolumesRoot: "/Volumes"})
	return NewDispatcher(Config{
		Platform:   mac,
		Translator: tr,
		Runner:     e.runner,
		Preferred:  preferred,
		VMName:     "Windows 11",
		WineBinary: "wine64",
		LookPath: func(file string) (string, error) {
			if p, ok := e.onPath[file]; ok {
				return p, nil
			}
			return "", exec.ErrNotFound
		},
		Executable: func(string) bool { return false },
	})
}

func TestPlanWine(t *testing.T) {
	e := newEnv(t, true, "wine64", "prlctl")
	d := e.dispatcher(CompatRuntime)

	inv, err := d.Plan(Command{Name: editor, Args: []string{`/compile:C:\MQL5\Experts\a.mq5`, "/log"}},
		Options{Env: map[string]string{"WINEDEBUG": "+loaddll", "LANG": "C"}})
	require.NoError(t, err)

	prefix := mac.Home + "/" + mounts.DefaultWinePrefix
	assert.Equal(t, CompatRuntime, inv.Backend)
	assert.Equal(t, "/usr/local/bin/wine64", inv.Name)
	assert.Equal(t, []string{
		prefix + "/drive_c/Program Files/MetaTrader 5/MetaEditor64.exe",
		`/compile:C:\MQL5\Experts\a.mq5`,
		"/log",
	}, inv.Args)
	assert.Equal(t, map[string]string{
		"WINEPREFIX": prefix,
		"WINEDEBUG":  "+loaddll",
		"LANG":       "C",
	}, inv.Env, "caller env overrides backend env")
}

func TestPlanWineUsesBundledBinary(t *testing.T) {
	e := newEnv(t, true)
	d := e.dispatcher(CompatRuntime)
	d.cfg.Executable = func(p string) bool { return p == BundledWine }

	inv, err := d.Plan(Command{Name: editor}, Options{})
	require.NoError(t, err)
	assert.Equal(t, BundledWine, inv.Name)
	assert.Equal(t, "-all", inv.Env["WINEDEBUG"])
}

func TestPlanFallsBackToVM(t *testing.T) {
	e := newEnv(t, false, "wine64", "prlctl")
	d := e.dispatcher(CompatRuntime)

	inv, err := d.Plan(Command{Name: editor, Args: []string{"/portable"}}, Options{})
	require.NoError(t, err)
	assert.Equal(t, VirtualMachine, inv.Backend)
	assert.Equal(t, "/usr/local/bin/prlctl", inv.Name)
	assert.Equal(t, []string{"exec", "Windows 11", editor, "/portable"}, inv.Args)
}

func TestPlanPreferredVM(t *testing.T) {
	e := newEnv(t, true, "wine64", "prlctl")
	d := e.dispatcher(VirtualMachine)

	inv, err := d.Plan(Command{Name: editor}, Options{})
	require.NoError(t, err)
	assert.Equal(t, VirtualMachine, inv.Backend)
}

func TestPlanNonExeRunsNatively(t *testing.T) {
	e := newEnv(t, true, "wine64", "prlctl")
	d := e.dispatcher(CompatRuntime)

	inv, err := d.Plan(Command{Name: "ls", Args: []string{"-l"}}, Options{Dir: "/tmp"})
	require.NoError(t, err)
	assert.Equal(t, Invocation{Backend: Native, Name: "ls", Args: []string{"-l"}, Dir: "/tmp"}, inv)
}

func TestPlanNativeOnWindows(t *testing.T) {
	e := newEnv(t, false)
	d := e.dispatcher(CompatRuntime)
	d.cfg.Platform = platform.Platform{OS: platform.Windows}

	inv, err := d.Plan(Command{Name: editor}, Options{})
	require.NoError(t, err)
	assert.Equal(t, Native, inv.Backend)
	assert.Equal(t, editor, inv.Name)
}

func TestPlanEmptyCommand(t *testing.T) {
	e := newEnv(t, false)
	_, err := e.dispatcher(CompatRuntime).Plan(Command{}, Options{})
	assert.Error(t, err)
}

func TestExecuteUnavailable(t *testing.T) {
	e := newEnv(t, false)
	d := e.dispatcher(CompatRuntime)

	res, err := await(t, d, Command{Name: editor})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, ErrBackendUnavailable))
	assert.Contains(t, err.Error(), "no backend available")
	assert.Empty(t, e.runner.invocations(), "nothing spawned")
}

func TestExecuteFallsBackToVMWithDefaultName(t *testing.T) {
	e := newEnv(t, false, "prlctl")
	e.runner.res = &Result{Stdout: "0 errors"}
	d := e.dispatcher(CompatRuntime)

	res, err := await(t, d, Command{Name: editor})
	require.NoError(t, err)
	assert.Equal(t, "0 errors", res.Stdout)

	calls := e.runner.invocations()
	require.Len(t, calls, 1)
	assert.Equal(t, VirtualMachine, calls[0].Backend)
	assert.Equal(t, []string{"exec", "Windows 11", editor}, calls[0].Args)
}

func TestExecutePassesRunnerErrorThrough(t *testing.T) {
	e := newEnv(t, false)
	boom := errors.New("boom")
	e.runner.err = boom
	d := e.dispatcher(CompatRuntime)

	_, err := await(t, d, Command{Name: "ls"})
	assert.Equal(t, boom, err)
}

func TestExecuteCallsBackOnce(t *testing.T) {
	e := newEnv(t, false, "prlctl")
	d := e.dispatcher(CompatRuntime)

	var mu sync.Mutex
	calls := 0
	done := make(chan struct{})
	d.Execute(context.Background(), Command{Name: editor}, Options{}, func(*Result, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		close(done)
	})

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("callback not invoked")
	}
	time.Sleep(10 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls)
}

type outcome struct {
	res *Result
	err error
}

func await(t *testing.T, d *Dispatcher, cmd Command) (*Result, error) {
	t.Helper()
	ch := make(chan outcome, 1)
	d.Execute(context.Background(), cmd, Options{}, func(res *Result, err error) {
		ch <- outcome{res, err}
	})
	select {
	case o := <-ch:
		return o.res, o.err
	case <-time.After(5 * time.Second):
		t.Fatal("callback not invoked")
		return nil, nil
	}
}

func TestInvocationString(t *testing.T) {
	inv := Invocation{
		Name: "/usr/local/bin/wine64",
		Args: []string{"/Users/trader/drive_c/Program Files/MetaEditor64.exe", "/log"},
		Env:  map[string]string{"WINEPREFIX": "/p", "WINEDEBUG": "-all"},
	}
	assert.Equal(t,
		"WINEDEBUG=-all WINEPREFIX=/p /usr/local/bin/wine64 '/Users/trader/drive_c/Program Files/MetaEditor64.exe' /log",
		inv.String())
}
