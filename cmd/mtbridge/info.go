package main

import (
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sverrirab/mtbridge/internal/launch"
)

var (
	okColor   = color.New(color.FgGreen)
	missColor = color.New(color.FgYellow)
	keyColor  = color.New(color.FgCyan)
)

func newDefaultsCmd(app func() *launch.App) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "defaults",
		Short: "Print the default MetaEditor install paths for this platform",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := app().Defaults.Get()
			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return errors.Wrap(enc.Encode(paths), "encoding defaults")
			}
			fmt.Fprintf(w, "%s %s\n", keyColor.Sprint("metaeditor4:"), paths.MetaEditor4)
			fmt.Fprintf(w, "%s %s\n", keyColor.Sprint("metaeditor5:"), paths.MetaEditor5)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func newVolumesCmd(app func() *launch.App) *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "volumes",
		Short: "List mounted volumes and the drives they stand in for",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			var vols []string
			if refresh {
				vols = a.RefreshVolumes()
			} else {
				vols = a.Volumes.Volumes()
			}

			w := cmd.OutOrStdout()
			m := a.Translator.Mounts()
			for _, v := range vols {
				line := v
				switch a.Volumes.Root() + "/" + v {
				case m.CDrive:
					line += " " + okColor.Sprint("→ C:")
				case m.DDrive:
					line += " " + okColor.Sprint("→ D:")
				}
				fmt.Fprintln(w, line)
			}
			if m.CDrive == "" {
				fmt.Fprintln(w, missColor.Sprint("no Parallels C: volume found"))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "re-list the volumes directory instead of using the cache")
	return cmd
}

func newPlatformCmd(app func() *launch.App) *cobra.Command {
	return &cobra.Command{
		Use:   "platform",
		Short: "Print detected platform and backend availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			p := a.Platform
			w := cmd.OutOrStdout()

			fmt.Fprintf(w, "%s %s/%s\n", keyColor.Sprint("platform:"), p.OS, p.Arch)
			fmt.Fprintf(w, "%s native=%v host=%v linux=%v arm=%v wsl=%v\n",
				keyColor.Sprint("flags:"), p.IsNative(), p.IsHost(), p.IsLinux(), p.IsARM(), p.WSL)

			wine := a.Translator.Wine()
			fmt.Fprintf(w, "%s %s %s\n", keyColor.Sprint("wine prefix:"), wine.Prefix, status(wine.HasPrefix))
			fmt.Fprintf(w, "%s %s %s\n", keyColor.Sprint("metatrader 4:"), wine.MT4Dir, status(wine.HasMT4))
			fmt.Fprintf(w, "%s %s %s\n", keyColor.Sprint("metatrader 5:"), wine.MT5Dir, status(wine.HasMT5))
			fmt.Fprintf(w, "%s %s (vm %q)\n", keyColor.Sprint("preferred backend:"),
				a.Config.Backend.Preferred, a.Config.Backend.VMName)
			return nil
		},
	}
}

func status(ok bool) string {
	if ok {
		return okColor.Sprint("[found]")
	}
	return missColor.Sprint("[missing]")
}
