package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/taskhub/internal/ui"
	"github.com/idilsaglam/taskhub/internal/uistore"
)

func newLocalCmd(a *app) *cobra.Command {
	var backend string
	cmd := &cobra.Command{
		Use:     "local",
		Aliases: []string{"l"},
		Short:   "Work with the local-only task list",
		Long: `Work with the task list kept in local storage. No server involved.

Examples:
  taskhub local ls
  taskhub local add Buy milk
  taskhub local done 2
  taskhub local --storage badger ls`,
	}
	cmd.PersistentFlags().StringVar(&backend, "storage", a.cfg.Storage.Backend, "Storage backend: file, badger, s3")

	with := func(cmd *cobra.Command, fn func(*uistore.LocalTasks) error) error {
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
		return fn(store)
	}

	var group bool
	ls := &cobra.Command{
		Use:   "ls",
		Short: "List local tasks",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return with(cmd, func(s *uistore.LocalTasks) error {
				ui.TaskPanel(a.out, "Tasks (local)", s.State().Tasks, group)
				return nil
			})
		},
	}
	ls.Flags().BoolVar(&group, "group", false, "Group output by pending/done")

	add := &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a local task",
		Args:  minArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(strings.Join(args, " "))
			if title == "" {
				return usagef("add: empty title")
			}
			return with(cmd, func(s *uistore.LocalTasks) error {
				if err := s.Add(cmd.Context(), title); err != nil {
					return err
				}
				a.ok("added")
				return nil
			})
		},
	}

	done := &cobra.Command{
		Use:   "done <ref>",
		Short: "Toggle a local task",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return with(cmd, func(s *uistore.LocalTasks) error {
				t, err := resolveTask(s.State().Tasks, args[0])
				if err != nil {
					return err
				}
				if err := s.Toggle(cmd.Context(), t.ID); err != nil {
					return err
				}
				a.ok("toggled")
				return nil
			})
		},
	}

	rm := &cobra.Command{
		Use:   "rm <ref>",
		Short: "Remove a local task",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return with(cmd, func(s *uistore.LocalTasks) error {
				t, err := resolveTask(s.State().Tasks, args[0])
				if err != nil {
					return err
				}
				if err := s.Remove(cmd.Context(), t.ID); err != nil {
					return err
				}
				a.ok("removed " + t.Title)
				return nil
			})
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every local task",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return with(cmd, func(s *uistore.LocalTasks) error {
				if err := s.ClearAll(cmd.Context()); err != nil {
					return err
				}
				a.ok("cleared")
				return nil
			})
		},
	}

	cmd.AddCommand(ls, add, done, rm, clearCmd)
	return cmd
}
