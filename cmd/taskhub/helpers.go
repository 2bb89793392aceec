package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/taskhub/internal/client"
	"github.com/idilsaglam/taskhub/internal/config"
	"github.com/idilsaglam/taskhub/internal/kv"
	"github.com/idilsaglam/taskhub/internal/kv/badgerkv"
	"github.com/idilsaglam/taskhub/internal/kv/jsonfile"
	"github.com/idilsaglam/taskhub/internal/kv/s3kv"
	"github.com/idilsaglam/taskhub/internal/model"
	"github.com/idilsaglam/taskhub/internal/ui"
)

// Argument validators that report usage errors.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usagef("usage: %s", cmd.UseLine())
		}
		return nil
	}
}

func minArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return usagef("usage: %s", cmd.UseLine())
		}
		return nil
	}
}

func noArgs(cmd *cobra.Command, args []string) error { return exactArgs(0)(cmd, args) }

func (a *app) client() *client.Client {
	return client.New(a.cfg.ResolveBaseURL(a.apiURL), client.WithTimeout(a.timeout))
}

// resolveTask finds a task by reference: "#<id>" or a 1-based position as
// printed by ls.
func resolveTask(tasks []model.Task, ref string) (model.Task, error) {
	if rest, ok := strings.CutPrefix(ref, "#"); ok {
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return model.Task{}, usagef("not a task id: %s", ref)
		}
		for _, t := range tasks {
			if t.ID == id {
				return t, nil
			}
		}
		return model.Task{}, fmt.Errorf("task %s not found", ref)
	}
	n, err := strconv.Atoi(ref)
	if err != nil {
		return model.Task{}, usagef("not a number: %s", ref)
	}
	if n < 1 || n > len(tasks) {
		return model.Task{}, usagef("index out of range: have %d, got %d", len(tasks), n)
	}
	return tasks[n-1], nil
}

func parsePersonID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, usagef("not a person id: %s", s)
	}
	return id, nil
}

// openStorage opens the configured local storage backend. The returned
// close func is never nil.
func openStorage(ctx context.Context, cfg config.StorageConfig) (kv.Storage, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Backend {
	case config.BackendFile, "":
		return jsonfile.New(cfg.Dir), noop, nil
	case config.BackendBadger:
		path := badgerkv.DefaultPath()
		if cfg.Dir != "" {
			path = filepath.Join(cfg.Dir, "badger")
		}
		st, err := badgerkv.Open(badgerkv.Options{Path: path})
		if err != nil {
			return nil, noop, err
		}
		return st, st.Close, nil
	case config.BackendS3:
		st, err := s3kv.New(ctx, s3kv.Config{
			Bucket:    cfg.S3.Bucket,
			Prefix:    cfg.S3.Prefix,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			PathStyle: cfg.S3.PathStyle,
		})
		if err != nil {
			return nil, noop, err
		}
		return st, noop, nil
	}
	return nil, noop, usagef("unknown storage backend %q (want %s, %s, %s)",
		cfg.Backend, config.BackendFile, config.BackendBadger, config.BackendS3)
}

func (a *app) ok(msg string) { ui.OK(a.out, msg) }
