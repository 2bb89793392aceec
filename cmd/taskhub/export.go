package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/taskhub/internal/export"
	"github.com/idilsaglam/taskhub/internal/uistore"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		format  string
		out     string
		local   bool
		backend string
		f       taskFlags
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export tasks or persons as json, csv or pdf",
		Long: `Export tasks or persons as json, csv or pdf.

Examples:
  taskhub export tasks
  taskhub export tasks --local --format csv -o tasks.csv
  taskhub export persons --format pdf -o personen.pdf`,
	}
	cmd.PersistentFlags().StringVarP(&format, "format", "F", export.FormatJSON, "Output format: json, csv, pdf")
	cmd.PersistentFlags().StringVarP(&out, "out", "o", "", "Output file (stdout if omitted)")

	// write opens the destination and hands it to fn.
	write := func(fn func(io.Writer) error) error {
		if out == "" {
			if format == export.FormatPDF {
				return usagef("pdf output needs --out")
			}
			return fn(a.out)
		}
		file, err := os.Create(out)
		if err != nil {
			return err
		}
		if err := fn(file); err != nil {
			file.Close()
			return err
		}
		if err := file.Close(); err != nil {
			return err
		}
		a.ok(fmt.Sprintf("wrote %s", out))
		return nil
	}

	tasks := &cobra.Command{
		Use:   "tasks",
		Short: "Export the task list",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var list uistore.TaskList
			if local {
				cfg := a.cfg.Storage
				cfg.Backend = backend
				st, closeFn, err := openStorage(cmd.Context(), cfg)
				if err != nil {
					return err
				}
				defer closeFn()
				if list, err = uistore.NewLocalTasks(cmd.Context(), st); err != nil {
					return err
				}
			} else {
				list = uistore.NewTasks(a.taskAPI(&f))
			}
			if err := list.Refresh(cmd.Context()); err != nil {
				return err
			}
			return write(func(w io.Writer) error {
				return export.Tasks(w, format, list.State().Tasks)
			})
		},
	}
	tasks.Flags().BoolVar(&local, "local", false, "Export the local-only list")
	tasks.Flags().StringVar(&backend, "storage", a.cfg.Storage.Backend, "Storage backend for --local")
	f.register(tasks)

	persons := &cobra.Command{
		Use:   "persons",
		Short: "Export the person list",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := uistore.NewPersons(cmd.Context(), a.client())
			if err := s.Fetch(cmd.Context()); err != nil {
				return err
			}
			return write(func(w io.Writer) error {
				return export.Persons(w, format, s.State().Persons)
			})
		},
	}

	cmd.AddCommand(tasks, persons)
	return cmd
}
