package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/phrazzld/persona/internal/domain"
	"github.com/phrazzld/persona/internal/platform/migrations"
	"github.com/phrazzld/persona/internal/presenter"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newListCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all persons",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, a *application, args []string) error {
			if err := a.runOnUI(cmd.Context(), a.table.Load); err != nil {
				return err
			}
			// The loop has stopped, so this goroutine owns the table again.
			return printPersons(cmd.OutOrStdout(), a.table.Rows(), opts.json)
		}),
	}
}

func newGetCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID...",
		Short: "Show persons by ID",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, a *application, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}

			found, err := getPersons(cmd.Context(), a, ids)
			if err != nil {
				return err
			}

			var persons []domain.Person
			missing := false
			for i, p := range found {
				if p == nil {
					missing = true
					fmt.Fprintf(cmd.ErrOrStderr(), "person %d not found\n", ids[i])
					continue
				}
				persons = append(persons, *p)
			}
			if err := printPersons(cmd.OutOrStdout(), persons, opts.json); err != nil {
				return err
			}
			if missing {
				return errOperationFailed
			}
			return nil
		}),
	}
}

// getPersons submits one lookup per id and waits for all of them. The
// result has a nil entry for each id with no row.
func getPersons(ctx context.Context, a *application, ids []int64) ([]*domain.Person, error) {
	found := make([]*domain.Person, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		t := a.repo.GetByID(id)
		g.Go(func() error {
			p, err := t.Wait(gctx)
			if err != nil {
				return fmt.Errorf("get person %d: %w", id, err)
			}
			found[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return found, nil
}

func newAddCmd(opts *cliOptions) *cobra.Command {
	var form presenter.PersonForm

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a person",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, a *application, args []string) error {
			if err := a.runOnUI(cmd.Context(), func() <-chan struct{} { return a.table.Add(form) }); err != nil {
				return err
			}
			rows := a.table.Rows()
			return printPersons(cmd.OutOrStdout(), rows[len(rows)-1:], opts.json)
		}),
	}

	cmd.Flags().StringVar(&form.FirstName, "first", "", "first name")
	cmd.Flags().StringVar(&form.LastName, "last", "", "last name")
	cmd.Flags().StringVar(&form.BirthDate, "birth", "", "birth date (YYYY-MM-DD)")
	return cmd
}

func newDeleteCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID...",
		Short: "Delete persons by ID",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, a *application, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}

			// Load first so failures are reported by name.
			op := func() <-chan struct{} {
				done := make(chan struct{})
				loaded := a.table.Load()
				go func() {
					<-loaded
					a.dispatcher.RunOnUI(func() {
						deleted := a.table.DeleteSelected(ids)
						go func() {
							<-deleted
							close(done)
						}()
					})
				}()
				return done
			}
			if err := a.runOnUI(cmd.Context(), op); err != nil {
				return err
			}
			return printPersons(cmd.OutOrStdout(), a.table.Rows(), opts.json)
		}),
	}
}

func newClearCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all persons",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, a *application, args []string) error {
			return a.runOnUI(cmd.Context(), a.table.Clear)
		}),
	}
}

func newMigrateCmd(opts *cliOptions) *cobra.Command {
	var status bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the persons schema",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, a *application, args []string) error {
			ctx := cmd.Context()

			h, err := a.manager.Acquire(ctx)
			if err != nil {
				return err
			}

			var v int64
			if status {
				v, err = migrations.Version(ctx, h.DB, h.Driver)
			} else {
				v, err = migrations.Up(ctx, h.DB, h.Driver, a.logger)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", v)
			return nil
		}),
	}

	cmd.Flags().BoolVar(&status, "status", false, "print the schema version without migrating")
	return cmd
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid person ID %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
