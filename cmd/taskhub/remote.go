package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/taskhub/internal/config"
	"github.com/idilsaglam/taskhub/internal/ui"
)

func newRemoteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Manage the saved API endpoint",
	}

	set := &cobra.Command{
		Use:   "set <url>",
		Short: "Save the API base URL",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.SetRemote(args[0]); err != nil {
				return usageError{err}
			}
			a.ok("saved")
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show which API the client commands use",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := config.GetRemote()
			if err != nil {
				return err
			}
			th := ui.Current()
			if r == nil {
				fmt.Fprintf(a.out, "%s %s\n", a.cfg.Client.BaseURL, ui.C(th.Muted, "(default)"))
				return nil
			}
			fmt.Fprintf(a.out, "%s %s\n", r.BaseURL, ui.C(th.Muted, "("+r.Source+")"))
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Forget the saved API base URL",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ClearRemote(); err != nil {
				return err
			}
			a.ok("cleared")
			return nil
		},
	}

	cmd.AddCommand(set, show, clearCmd)
	return cmd
}
