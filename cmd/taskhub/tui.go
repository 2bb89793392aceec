package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/taskhub/internal/tui"
	"github.com/idilsaglam/taskhub/internal/ui"
	"github.com/idilsaglam/taskhub/internal/uistore"
)

func newTUICmd(a *app) *cobra.Command {
	var (
		local   bool
		backend string
		f       taskFlags
	)
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Interactive task list",
		Long: `Interactive task list.

Keys: space toggles, a adds, d deletes, r refreshes, / filters, q quits.

Examples:
  taskhub tui
  taskhub tui --local
  taskhub tui --mock`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if local && f.mock {
				return usagef("--local and --mock are mutually exclusive")
			}
			if !ui.IsTerminal(os.Stdout) {
				return usagef("tui needs a terminal")
			}
			if !local {
				name := "Tasks"
				if f.mock {
					name = "Tasks (mock)"
				}
				return tui.Run(cmd.Context(), uistore.NewTasks(a.taskAPI(&f)), name)
			}
			cfg := a.cfg.Storage
			cfg.Backend = backend
			st, closeFn, err := openStorage(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeFn()
			store, err := uistore.NewLocalTasks(cmd.Context(), st)
			if err != nil {
				return err
			}
			return tui.Run(cmd.Context(), store, "Tasks (local)")
		},
	}
	cmd.Flags().BoolVar(&local, "local", false, "Use the local-only list")
	cmd.Flags().StringVar(&backend, "storage", a.cfg.Storage.Backend, "Storage backend for --local: file, badger, s3")
	f.register(cmd)
	return cmd
}
