package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/vango-lite/internal/demo"
	"github.com/vango-dev/vango-lite/pkg/export"
	"github.com/vango-dev/vango-lite/pkg/preview"
)

func serveCmd(a *app) *cobra.Command {
	var (
		addr         string
		enableExport bool
	)

	cmd := &cobra.Command{
		Use:   "serve <demo>",
		Short: "Start the live preview server for a demo",
		Long: `Render a demo in a long-lived session and serve it over HTTP.

The page dispatches clicks back to the server, and every completed render
pass is pushed to connected browsers over a WebSocket.

Endpoints:
  GET  /                        preview page
  GET  /snapshot                current HTML
  POST /dispatch/{id}/{event}   run an event handler
  POST /export                  export the current HTML
  GET  /ws                      live updates
  GET  /metrics                 Prometheus metrics

Examples:
  vango-lite serve counter
  vango-lite serve lazy --addr 0.0.0.0:8080`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runServe(cmd, args[0], addr, enableExport)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config)")
	cmd.Flags().BoolVar(&enableExport, "export", false, "Enable POST /export using the configured exporter")

	return cmd
}

func (a *app) runServe(cmd *cobra.Command, name, addr string, enableExport bool) error {
	d, err := demo.Lookup(name)
	if err != nil {
		return err
	}
	if addr != "" {
		if err := a.cfg.SetPreviewAddress(addr); err != nil {
			return err
		}
	}

	var exporter export.Exporter
	if enableExport {
		exporter, err = a.exporter(renderOptions{export: true})
		if err != nil {
			return err
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tree := d.Build(demo.OptionsFrom(a.cfg))
	srv, err := preview.New(preview.Config{
		Name:           d.Name,
		Tree:           tree.Root,
		Logger:         a.logger,
		Registry:       reg,
		SessionOptions: a.cfg.SessionOptions(nil),
		Exporter:       exporter,
	})
	if err != nil {
		return err
	}
	defer srv.Close()

	out := cmd.ErrOrStderr()
	fmt.Fprint(out, banner)
	success(out, "Serving %s on %s", d.Name, a.cfg.PreviewURL())
	info(out, "Press Ctrl+C to stop")

	return srv.ListenAndServe(ctx, a.cfg.PreviewAddress())
}
