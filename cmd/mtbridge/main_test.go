package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os/exec"
	"strings"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sverrirab/mtbridge/internal/backend"
	"github.com/sverrirab/mtbridge/internal/config"
	"github.com/sverrirab/mtbridge/internal/defaults"
	"github.com/sverrirab/mtbridge/internal/launch"
	"github.com/sverrirab/mtbridge/internal/platform"
)

type stubRunner struct {
	calls []backend.Invocation
}

func (s *stubRunner) Run(_ context.Context, inv backend.Invocation) (*backend.Result, error) {
	s.calls = append(s.calls, inv)
	return &backend.Result{Stdout: "compiled\n", ExitCode: 2}, nil
}

func testBuilder(t *testing.T, runner backend.Runner) builder {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/Volumes/Macintosh HD", 0o755))
	require.NoError(t, fs.MkdirAll("/Volumes/[C] Windows 11", 0o755))

	p := platform.Platform{OS: platform.Darwin, Arch: "arm64", Home: "/Users/trader"}
	return func(_ string, logger *slog.Logger) (*launch.App, error) {
		return launch.New(p, config.Defaults(), logger, launch.Deps{
			Fs:     fs,
			Clock:  clockwork.NewFakeClock(),
			Runner: runner,
			LookPath: func(file string) (string, error) {
				if file == "prlctl" {
					return "/usr/local/bin/prlctl", nil
				}
				return "", exec.ErrNotFound
			},
		})
	}
}

func run(t *testing.T, runner backend.Runner, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(testBuilder(t, runner))
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return out.String()
}

func TestToHostCommand(t *testing.T) {
	out := run(t, nil, "to-host", `C:\MT5_Install\MetaTrader\metaeditor.exe`, `D:\data`)
	assert.Equal(t,
		"/Volumes/[C] Windows 11/MT5_Install/MetaTrader/metaeditor.exe\n/Volumes/D/data\n", out)
}

func TestToWindowsCommand(t *testing.T) {
	out := run(t, nil, "to-windows", "/Volumes/[C] Windows 11/MQL5/Experts/a.mq5")
	assert.Equal(t, `C:\MQL5\Experts\a.mq5`+"\n", out)
}

func TestToWineCommandWithoutPrefix(t *testing.T) {
	out := run(t, nil, "to-wine", `C:\x.exe`)
	assert.Equal(t, `C:\x.exe`+"\n", out)
}

func TestResolveCommand(t *testing.T) {
	out := run(t, nil, "resolve", "metaeditor.exe")
	assert.Equal(t, "open -a 'Parallels Desktop' --args metaeditor.exe\n", out)
}

func TestExecDryRunJSON(t *testing.T) {
	runner := &stubRunner{}
	out := run(t, runner, "exec", "--dry-run", "--json", "--", `C:\MT5\metaeditor.exe`, "/log")

	var inv backend.Invocation
	require.NoError(t, json.Unmarshal([]byte(out), &inv))
	assert.Equal(t, backend.VirtualMachine, inv.Backend)
	assert.Equal(t, []string{"exec", "Windows 11", `C:\MT5\metaeditor.exe`, "/log"}, inv.Args)
	assert.Empty(t, runner.calls)
}

func TestExecRuns(t *testing.T) {
	exitCode = 0
	t.Cleanup(func() { exitCode = 0 })

	runner := &stubRunner{}
	out := run(t, runner, "exec", `C:\MT5\metaeditor.exe`, "-flag")

	assert.Equal(t, "compiled\n", out)
	assert.Equal(t, 2, exitCode)
	require.Len(t, runner.calls, 1)
	assert.Equal(t, "-flag", runner.calls[0].Args[len(runner.calls[0].Args)-1])
}

func TestDefaultsCommandJSON(t *testing.T) {
	out := run(t, nil, "defaults", "--json")

	var paths defaults.Paths
	require.NoError(t, json.Unmarshal([]byte(out), &paths))
	assert.Equal(t, "/Volumes/C/MT5_Install/MetaTrader/metaeditor.exe", paths.MetaEditor5)
}

func TestVolumesCommand(t *testing.T) {
	out := run(t, nil, "volumes", "--refresh")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Macintosh HD", lines[0])
	assert.Contains(t, lines[1], "[C] Windows 11")
	assert.Contains(t, lines[1], "C:")
}

func TestPlatformCommand(t *testing.T) {
	out := run(t, nil, "platform")
	assert.Contains(t, out, "darwin/arm64")
	assert.Contains(t, out, "host=true")
	assert.Contains(t, out, "compatRuntime")
}
