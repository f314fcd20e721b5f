package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"checkup/internal/config"
	"checkup/internal/confirm"
	"checkup/internal/gitindex"
	"checkup/internal/runner"
	"checkup/internal/task"
	"checkup/internal/termlog"
)

const appVersion = "0.2.0"

type rootOptions struct {
	configPath string
	dir        string
	noColor    bool
	yes        bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "checkup",
		Short: "Formatting and strict type checking over version-control-tracked files",
		Long: `checkup wraps a code formatter and two independent strict type checkers
over the tracked files of the current repository.

Examples:
  checkup format-check          # fail if any tracked file is misformatted
  checkup format-all            # rewrite tracked files in place
  checkup format-all --yes      # skip the dirty-tree confirmation
  checkup lint-check            # run both type checkers`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default "+config.DefaultFileName+" in the project directory)")
	root.PersistentFlags().StringVar(&opts.dir, "dir", "", "project directory (default current directory)")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	root.AddCommand(&cobra.Command{
		Use:   "format-check",
		Short: "Check formatting without rewriting files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := buildRunner(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return r.FormatCheck(cmd.Context())
		},
	})

	formatAll := &cobra.Command{
		Use:   "format-all",
		Short: "Reformat tracked files in place",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := buildRunner(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return r.FormatAll(cmd.Context())
		},
	}
	formatAll.Flags().BoolVarP(&opts.yes, "yes", "y", false, "skip the dirty-tree confirmation prompt")
	root.AddCommand(formatAll)

	root.AddCommand(&cobra.Command{
		Use:   "lint-check",
		Short: "Run both strict type checkers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := buildRunner(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return r.LintCheck(cmd.Context())
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "checkup "+appVersion)
		},
	})

	return root
}

func buildRunner(ctx context.Context, opts *rootOptions) (*task.Runner, error) {
	cfg, err := config.Load(opts.configPath, opts.dir)
	if err != nil {
		return nil, err
	}

	idx := gitindex.New(cfg.ProjectDir)
	if err := idx.Ensure(ctx); err != nil {
		return nil, err
	}

	colors := !opts.noColor && isTTY()
	log := termlog.NewSectionWriter(os.Stdout, os.Stderr, colors)
	tools := runner.New(cfg.ProjectDir, os.Stdout, os.Stderr)
	prompt := confirm.New(os.Stdin, os.Stdout, opts.yes, colors)

	return task.NewRunner(cfg, idx, tools, prompt, log), nil
}

// isTTY checks if the current environment has a TTY available.
func isTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
