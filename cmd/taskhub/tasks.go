package main

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/taskhub/internal/client/mockapi"
	"github.com/idilsaglam/taskhub/internal/ui"
	"github.com/idilsaglam/taskhub/internal/uistore"
)

// remote task flags
type taskFlags struct {
	mock      bool
	mockDelay time.Duration
}

func (f *taskFlags) register(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVar(&f.mock, "mock", false, "Use the in-process mock API instead of a server")
	cmd.PersistentFlags().DurationVar(&f.mockDelay, "mock-delay", mockapi.DefaultDelay, "Artificial latency of the mock API")
}

func (a *app) taskAPI(f *taskFlags) uistore.TaskAPI {
	if f.mock {
		return mockapi.New(mockapi.WithDelay(f.mockDelay))
	}
	return a.client()
}

func newTasksCmd(a *app) *cobra.Command {
	f := &taskFlags{}
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"t"},
		Short:   "Work with the task list on the server",
		Long: `Work with the task list on the server.

Tasks are referred to by their position in ` + "`tasks ls`" + ` or by id as #<id>.

Examples:
  taskhub tasks ls
  taskhub tasks add Buy milk
  taskhub tasks done 1
  taskhub tasks update #1712345678901 --title "Buy oat milk"
  taskhub tasks rm 2`,
	}
	f.register(cmd)

	// load returns a store that has fetched the list.
	load := func(cmd *cobra.Command) (*uistore.Tasks, error) {
		s := uistore.NewTasks(a.taskAPI(f))
		if err := s.Refresh(cmd.Context()); err != nil {
			return nil, err
		}
		return s, nil
	}

	var group bool
	ls := &cobra.Command{
		Use:   "ls",
		Short: "List tasks",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := load(cmd)
			if err != nil {
				return err
			}
			ui.TaskPanel(a.out, "Tasks", s.State().Tasks, group)
			return nil
		},
	}
	ls.Flags().BoolVar(&group, "group", false, "Group output by pending/done")

	get := &cobra.Command{
		Use:   "get <ref>",
		Short: "Show one task",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := load(cmd)
			if err != nil {
				return err
			}
			t, err := resolveTask(s.State().Tasks, args[0])
			if err != nil {
				return err
			}
			if !f.mock {
				if t, err = a.client().GetTask(cmd.Context(), t.ID); err != nil {
					return err
				}
			}
			ui.Panel(a.out, []string{ui.TaskLine(t)})
			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a task",
		Args:  minArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := uistore.NewTasks(a.taskAPI(f))
			if err := s.Add(cmd.Context(), strings.Join(args, " ")); err != nil {
				return err
			}
			a.ok("added " + ui.TaskLine(s.State().Tasks[0]))
			return nil
		},
	}

	done := &cobra.Command{
		Use:   "done <ref>",
		Short: "Toggle a task's done flag",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := load(cmd)
			if err != nil {
				return err
			}
			t, err := resolveTask(s.State().Tasks, args[0])
			if err != nil {
				return err
			}
			if err := s.Toggle(cmd.Context(), t.ID); err != nil {
				return err
			}
			a.ok("toggled")
			return nil
		},
	}

	var (
		newTitle string
		newDone  bool
	)
	update := &cobra.Command{
		Use:   "update <ref>",
		Short: "Change a task's title or done flag",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.mock {
				return usagef("update needs a server; the mock API has no update call")
			}
			if !cmd.Flags().Changed("title") && !cmd.Flags().Changed("done") {
				return usagef("nothing to update: pass --title and/or --done")
			}
			s, err := load(cmd)
			if err != nil {
				return err
			}
			t, err := resolveTask(s.State().Tasks, args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("title") {
				t.Title = newTitle
			}
			if cmd.Flags().Changed("done") {
				t.Done = newDone
			}
			updated, err := a.client().UpdateTask(cmd.Context(), t.ID, t.Title, t.Done)
			if err != nil {
				return err
			}
			a.ok("updated " + ui.TaskLine(updated))
			return nil
		},
	}
	update.Flags().StringVar(&newTitle, "title", "", "New title")
	update.Flags().BoolVar(&newDone, "done", false, "New done flag")

	rm := &cobra.Command{
		Use:   "rm <ref>",
		Short: "Remove a task",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := load(cmd)
			if err != nil {
				return err
			}
			t, err := resolveTask(s.State().Tasks, args[0])
			if err != nil {
				return err
			}
			if err := s.Remove(cmd.Context(), t.ID); err != nil {
				return err
			}
			a.ok("removed " + t.Title)
			return nil
		},
	}

	cmd.AddCommand(ls, get, add, done, update, rm)
	return cmd
}
