package main

import (
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/sverrirab/mtbridge/internal/backend"
	"github.com/sverrirab/mtbridge/internal/launch"
)

func newExecCmd(app func() *launch.App) *cobra.Command {
	var opts launch.Options
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "exec [flags] -- <target> [args...]",
		Short: "Run a command, routing Windows executables through Wine or Parallels",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Target = args[0]
			opts.Args = args[1:]

			out, err := app().Run(cmd.Context(), opts)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if opts.DryRun {
				if asJSON {
					enc := json.NewEncoder(w)
					enc.SetIndent("", "  ")
					return errors.Wrap(enc.Encode(out.Invocation), "encoding invocation")
				}
				_, err := fmt.Fprintln(w, out.Invocation.String())
				return err
			}

			fmt.Fprint(w, out.Result.Stdout)
			fmt.Fprint(cmd.ErrOrStderr(), out.Result.Stderr)
			exitCode = out.Result.ExitCode
			return nil
		},
	}

	// Everything after the target belongs to the target.
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().StringVar(&opts.Dir, "dir", "", "working directory")
	cmd.Flags().StringArrayVarP(&opts.Env, "env", "e", nil, "extra environment variable KEY=VALUE (repeatable)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "print the translated command without executing")
	cmd.Flags().BoolVar(&asJSON, "json", false, "with --dry-run, print the invocation as JSON")
	return cmd
}

func newResolveCmd(app func() *launch.App) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <exe>",
		Short: "Show how an executable is launched interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			inv := backend.ResolveExecutable(a.Platform, a.Targets, args[0])
			_, err := fmt.Fprintln(cmd.OutOrStdout(), inv.String())
			return err
		},
	}
}
