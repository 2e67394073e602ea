package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/vango-dev/vango-lite/internal/config"
	"github.com/vango-dev/vango-lite/internal/errors"
	"github.com/vango-dev/vango-lite/internal/telemetry"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╦  ╦┌─┐┌┐┌┌─┐┌─┐  ┬  ┬┌┬┐┌─┐
  ╚╗╔╝├─┤││││ ┬│ │  │  │ │ ├┤
   ╚╝ ┴ ┴┘└┘└─┘└─┘  ┴─┘┴ ┴ └─┘
`

// app holds the state shared by all commands after flag parsing.
type app struct {
	configPath string
	logLevel   string
	logFormat  string
	tracing    string

	cfg      *config.Config
	logger   *slog.Logger
	shutdown telemetry.Shutdown
}

func main() {
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		errors.DisableColors()
	}

	a := &app{}
	if err := a.rootCmd().Execute(); err != nil {
		a.reportError(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return (&app{}).rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vango-lite",
		Short: "Render declarative component trees with hooks",
		Long: `vango-lite renders component trees built from virtual nodes into an
in-memory host tree. Components use hooks for state, effects and refs;
memoized and lazy components are supported.

  • render: print the HTML of a demo after simulated clicks
  • serve:  live preview server with WebSocket updates
  • demos:  list the built-in demos
  • init:   write a default configuration file`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if a.shutdown == nil {
				return nil
			}
			return a.shutdown(context.Background())
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file (default: vango-lite.json or vango-lite.yaml in the project root)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")
	rootCmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "Log format: text or json (default from config)")
	rootCmd.PersistentFlags().StringVar(&a.tracing, "trace-exporter", "", "Trace exporter: none or stdout (default from config)")

	rootCmd.AddCommand(
		renderCmd(a),
		serveCmd(a),
		demosCmd(),
		initCmd(),
		versionCmd(),
	)
	return rootCmd
}

// setup loads the configuration, applies flag overrides and builds the
// logger.
func (a *app) setup(logOut io.Writer) error {
	var (
		cfg *config.Config
		err error
	)
	if a.configPath != "" {
		cfg, err = config.LoadFile(a.configPath)
	} else {
		cfg, err = config.LoadFromWorkingDir()
	}
	if err != nil {
		return err
	}

	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}
	if a.tracing != "" {
		cfg.Trace.Exporter = a.tracing
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	shutdown, err := telemetry.Init(logOut, cfg.Trace.Exporter, version)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = newLogger(logOut, cfg)
	a.shutdown = shutdown
	return nil
}

// reportError prints err as JSON when logs are JSON, so that log
// collectors see one record per line.
func (a *app) reportError(w io.Writer, err error) {
	format := a.logFormat
	if format == "" && a.cfg != nil {
		format = a.cfg.Log.Format
	}
	if strings.EqualFold(format, "json") {
		errors.PrintErrorJSON(w, err)
		return
	}
	errors.PrintError(w, err)
}

func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel()}
	var handler slog.Handler
	if strings.EqualFold(cfg.Log.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}
