package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sverrirab/mtbridge/internal/launch"
)

func newToHostCmd(app func() *launch.App) *cobra.Command {
	return &cobra.Command{
		Use:   "to-host <windows-path>...",
		Short: "Translate Windows paths to host paths",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printEach(cmd, args, app().Translator.ToHost)
		},
	}
}

func newToWindowsCmd(app func() *launch.App) *cobra.Command {
	return &cobra.Command{
		Use:   "to-windows <host-path>...",
		Short: "Translate host paths to Windows paths",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printEach(cmd, args, app().Translator.ToWindows)
		},
	}
}

func newToWineCmd(app func() *launch.App) *cobra.Command {
	return &cobra.Command{
		Use:   "to-wine <windows-path>...",
		Short: "Translate Windows paths to locations inside the Wine prefix",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printEach(cmd, args, app().Translator.ToWine)
		},
	}
}

func printEach(cmd *cobra.Command, args []string, conv func(string) string) error {
	for _, a := range args {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), conv(a)); err != nil {
			return err
		}
	}
	return nil
}
