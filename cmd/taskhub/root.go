package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/taskhub/internal/config"
	"github.com/idilsaglam/taskhub/internal/logging"
	"github.com/idilsaglam/taskhub/internal/ui"
)

// app is what every command shares: resolved config, output streams and
// the global flags.
type app struct {
	cfg    *config.Config
	out    io.Writer
	errOut io.Writer

	apiURL   string
	timeout  time.Duration
	logLevel string
	logJSON  bool
	theme    string
	color    string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{cfg: config.Load(), out: stdout, errOut: stderr}

	root := &cobra.Command{
		Use:   "taskhub",
		Short: "Tasks and persons over REST, from the shell or a terminal UI",
		Long: `taskhub serves a small task and person API and ships the clients for it.

Examples:
  taskhub serve --addr :5052
  taskhub tasks ls
  taskhub tasks add "Buy milk"
  taskhub local done 2
  taskhub persons add --vorname Max --nachname Mustermann
  taskhub tui --local`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.apiURL, "api", "", "API base URL (default: saved remote, then "+a.cfg.Client.BaseURL+")")
	pf.DurationVar(&a.timeout, "timeout", a.cfg.Client.Timeout, "HTTP client timeout")
	pf.StringVar(&a.logLevel, "log-level", a.cfg.Log.Level, "Log level: debug, info, warn, error")
	pf.BoolVar(&a.logJSON, "log-json", a.cfg.Log.JSON, "Log as JSON")
	pf.StringVar(&a.theme, "theme", "classic", "Output theme: classic, neon, mono")
	pf.StringVar(&a.color, "color", "auto", "Color output: auto, always, never")

	root.AddCommand(
		newServeCmd(a),
		newTasksCmd(a),
		newPersonsCmd(a),
		newLocalCmd(a),
		newTUICmd(a),
		newExportCmd(a),
		newRemoteCmd(a),
		newVersionCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	logging.Init(logging.Config{
		Level:  logging.ParseLevel(a.logLevel),
		JSON:   a.logJSON,
		Output: a.errOut,
	})
	ui.SetTheme(a.theme)
	switch a.color {
	case "always":
		ui.SetColorForcing(true, false)
	case "never":
		ui.SetColorForcing(false, true)
	case "auto":
		ui.SetColorForcing(false, false)
	default:
		return usagef("invalid --color %q (want auto, always, never)", a.color)
	}
	return nil
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  noArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.out, "taskhub %s (%s)\n", Version, Commit)
		},
	}
}
