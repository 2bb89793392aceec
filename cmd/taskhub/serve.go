package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/taskhub/internal/api"
	"github.com/idilsaglam/taskhub/internal/config"
	"github.com/idilsaglam/taskhub/internal/logging"
	"github.com/idilsaglam/taskhub/internal/model"
	"github.com/idilsaglam/taskhub/internal/service"
	"github.com/idilsaglam/taskhub/internal/store"
	"github.com/idilsaglam/taskhub/internal/store/memstore"
	"github.com/idilsaglam/taskhub/internal/store/sqlstore"
)

func newServeCmd(a *app) *cobra.Command {
	cfg := &a.cfg.Server
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API",
		Long: `Run the task and person REST API.

Without --db-driver records live in memory and are lost on exit.

Examples:
  taskhub serve
  taskhub serve --addr :8080 --db-driver sqlite --db-dsn taskhub.db
  taskhub serve --db-driver postgres --db-dsn postgres://user:pw@localhost/taskhub`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, closeFn, err := buildServer(ctx, *cfg)
			if err != nil {
				return err
			}
			defer closeFn()
			return srv.ListenAndServe(ctx, cfg.Addr, cfg.ShutdownTimeout)
		},
	}
	cmd.Flags().StringVar(&cfg.Addr, "addr", cfg.Addr, "Listen address")
	cmd.Flags().StringVar(&cfg.DBDriver, "db-driver", cfg.DBDriver, "Record store: sqlite, postgres, mysql (empty: memory)")
	cmd.Flags().StringVar(&cfg.DBDSN, "db-dsn", cfg.DBDSN, "Database DSN")
	cmd.Flags().DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "Graceful shutdown timeout")
	return cmd
}

// buildServer wires record stores, services and the HTTP layer.
func buildServer(ctx context.Context, cfg config.ServerConfig) (*api.Server, func() error, error) {
	var (
		taskStore   store.Store[int64, model.Task]
		personStore store.Store[uuid.UUID, model.Person]
		closeFn     = func() error { return nil }
	)
	log := logging.Logger()

	if cfg.DBDriver == "" {
		taskStore = memstore.New(model.TaskKey)
		personStore = memstore.New(model.PersonKey)
	} else {
		db, err := sqlstore.Open(cfg.DBDriver, cfg.DBDSN)
		if err != nil {
			return nil, closeFn, err
		}
		closeFn = db.Close
		ts, err := sqlstore.New(ctx, db, "tasks", model.TaskKey, sqlstore.Int64Key)
		if err != nil {
			db.Close()
			return nil, closeFn, err
		}
		ps, err := sqlstore.New(ctx, db, "persons", model.PersonKey, sqlstore.UUIDKey)
		if err != nil {
			db.Close()
			return nil, closeFn, err
		}
		taskStore, personStore = ts, ps
		log.Info("using sql store", "driver", db.Driver())
	}

	tasks, err := service.NewTasks(ctx, taskStore, service.WithTaskLogger(log))
	if err != nil {
		closeFn()
		return nil, closeFn, err
	}
	persons, err := service.NewPersons(ctx, personStore, log)
	if err != nil {
		closeFn()
		return nil, closeFn, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return api.New(tasks, persons, api.WithLogger(log), api.WithRegistry(reg)), closeFn, nil
}
