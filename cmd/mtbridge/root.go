package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sverrirab/mtbridge/internal/config"
	"github.com/sverrirab/mtbridge/internal/launch"
	"github.com/sverrirab/mtbridge/internal/logging"
	"github.com/sverrirab/mtbridge/internal/platform"
)

// builder creates the App once flags are parsed.
type builder func(configPath string, logger *slog.Logger) (*launch.App, error)

func defaultBuilder(configPath string, logger *slog.Logger) (*launch.App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return launch.New(platform.Detect(), cfg, logger, launch.Deps{})
}

type rootFlags struct {
	configPath string
	verbose    bool
	logFormat  string
}

func newRootCmd(build builder) *cobra.Command {
	var flags rootFlags
	var app *launch.App

	root := &cobra.Command{
		Use:   "mtbridge",
		Short: "Bridge MetaEditor paths and executables between Windows and the host",
		Long: `mtbridge translates paths between the Windows view used by MetaEditor
and the host filesystem (Parallels shared volumes, the MetaQuotes Wine
prefix), and runs Windows executables through Wine or a Parallels VM.`,
		Example: `  mtbridge to-host 'C:\MT5_Install\MetaTrader\metaeditor.exe'
  mtbridge to-windows ~/Documents/Experts/EA.mq5
  mtbridge exec --dry-run -- 'C:\Program Files\MetaTrader 5\MetaEditor64.exe' /compile:EA.mq5`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if flags.verbose {
				level = slog.LevelDebug
			}
			logger := logging.New(logging.Config{
				Level:  level,
				Format: logging.Format(flags.logFormat),
				Output: cmd.ErrOrStderr(),
			})

			var err error
			app, err = build(flags.configPath, logger)
			return err
		},
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/mtbridge/config.toml)")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "print diagnostic info")
	root.PersistentFlags().StringVar(&flags.logFormat, "log-format", "text", "log format: text, json")

	appFn := func() *launch.App { return app }
	root.AddCommand(
		newToHostCmd(appFn),
		newToWindowsCmd(appFn),
		newToWineCmd(appFn),
		newResolveCmd(appFn),
		newExecCmd(appFn),
		newDefaultsCmd(appFn),
		newVolumesCmd(appFn),
		newPlatformCmd(appFn),
	)
	return root
}
