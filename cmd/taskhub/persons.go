package main

import (
	"github.com/spf13/cobra"

	"github.com/idilsaglam/taskhub/internal/ui"
	"github.com/idilsaglam/taskhub/internal/uistore"
)

func newPersonsCmd(a *app) *cobra.Command {
	var backend string
	cmd := &cobra.Command{
		Use:     "persons",
		Aliases: []string{"p", "personen"},
		Short:   "Work with the Personen resource",
		Long: `Work with the Personen resource on the server.

The last fetched list is kept in local storage; ls --cached shows it
without a server.

Examples:
  taskhub persons ls
  taskhub persons add --vorname Max --nachname Mustermann
  taskhub persons edit <id> --aktiv=false
  taskhub persons rm <id>`,
	}
	cmd.PersistentFlags().StringVar(&backend, "storage", a.cfg.Storage.Backend, "Cache storage: file, badger, s3")

	// with opens the store and hands it to fn.
	with := func(cmd *cobra.Command, fn func(*uistore.Persons) error) error {
		cfg := a.cfg.Storage
		cfg.Backend = backend
		st, closeFn, err := openStorage(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closeFn()
		return fn(uistore.NewPersons(cmd.Context(), a.client(), uistore.WithPersistence(st)))
	}

	var cached bool
	ls := &cobra.Command{
		Use:   "ls",
		Short: "List persons",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return with(cmd, func(s *uistore.Persons) error {
				if !cached {
					if err := s.Fetch(cmd.Context()); err != nil {
						return err
					}
				}
				ui.PersonPanel(a.out, s.State().Persons)
				return nil
			})
		},
	}
	ls.Flags().BoolVar(&cached, "cached", false, "Show the last fetched list without asking the server")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one person",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePersonID(args[0])
			if err != nil {
				return err
			}
			p, err := a.client().GetPerson(cmd.Context(), id)
			if err != nil {
				return err
			}
			ui.Panel(a.out, []string{ui.PersonLine(p)})
			return nil
		},
	}

	var (
		vorname, nachname string
		aktiv             bool
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a person",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return with(cmd, func(s *uistore.Persons) error {
				p := uistore.NewPerson()
				p.Vorname, p.Nachname, p.Aktiv = vorname, nachname, aktiv
				saved, err := s.Save(cmd.Context(), p, true)
				if err != nil {
					return err
				}
				a.ok("created " + ui.PersonLine(saved))
				return nil
			})
		},
	}
	add.Flags().StringVar(&vorname, "vorname", "", "First name (required)")
	add.Flags().StringVar(&nachname, "nachname", "", "Last name (required)")
	add.Flags().BoolVar(&aktiv, "aktiv", true, "Active flag")

	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a person",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePersonID(args[0])
			if err != nil {
				return err
			}
			return with(cmd, func(s *uistore.Persons) error {
				if err := s.Fetch(cmd.Context()); err != nil {
					return err
				}
				p, ok := s.Find(id)
				if !ok {
					return usagef("person %s not found", id)
				}
				if cmd.Flags().Changed("vorname") {
					p.Vorname = vorname
				}
				if cmd.Flags().Changed("nachname") {
					p.Nachname = nachname
				}
				if cmd.Flags().Changed("aktiv") {
					p.Aktiv = aktiv
				}
				saved, err := s.Save(cmd.Context(), p, false)
				if err != nil {
					return err
				}
				a.ok("updated " + ui.PersonLine(saved))
				return nil
			})
		},
	}
	edit.Flags().StringVar(&vorname, "vorname", "", "First name")
	edit.Flags().StringVar(&nachname, "nachname", "", "Last name")
	edit.Flags().BoolVar(&aktiv, "aktiv", true, "Active flag")

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a person",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePersonID(args[0])
			if err != nil {
				return err
			}
			return with(cmd, func(s *uistore.Persons) error {
				if err := s.Delete(cmd.Context(), id); err != nil {
					return err
				}
				a.ok("deleted")
				return nil
			})
		},
	}

	cmd.AddCommand(ls, get, add, edit, rm)
	return cmd
}
