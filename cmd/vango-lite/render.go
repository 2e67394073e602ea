package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vango-lite/internal/demo"
	"github.com/vango-dev/vango-lite/internal/errors"
	"github.com/vango-dev/vango-lite/pkg/export"
	"github.com/vango-dev/vango-lite/pkg/host/memtree"
	"github.com/vango-dev/vango-lite/pkg/vango"
)

type renderOptions struct {
	clicks  []string
	wait    bool
	timeout time.Duration
	delay   time.Duration
	export  bool
	bucket  string
	prefix  string
	region  string
}

func renderCmd(a *app) *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render <demo>",
		Short: "Render a demo and print its HTML",
		Long: `Render a demo into an in-memory host tree and print the resulting HTML.

Clicks are dispatched in order after the first render; every click runs the
demo's onclick handler and the passes it triggers. With --wait, lazy
components are loaded before the first render.

Examples:
  vango-lite render counter --click inc --click inc
  vango-lite render lazy --wait
  vango-lite render memo --export
  vango-lite render hello --s3-bucket my-bucket --region eu-west-1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringArrayVar(&opts.clicks, "click", nil, "Dispatch a click on the element with this id (repeatable)")
	cmd.Flags().BoolVarP(&opts.wait, "wait", "w", false, "Wait for lazy components to load")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Lazy load timeout (default from config)")
	cmd.Flags().DurationVar(&opts.delay, "delay", demo.DefaultLoadDelay, "Simulated loader latency for lazy demos")
	cmd.Flags().BoolVar(&opts.export, "export", false, "Write the snapshot to the export directory")
	cmd.Flags().StringVar(&opts.bucket, "s3-bucket", "", "Upload the snapshot to this S3 bucket (default from config)")
	cmd.Flags().StringVar(&opts.prefix, "s3-prefix", "", "S3 key prefix (default from config)")
	cmd.Flags().StringVar(&opts.region, "region", "", "AWS region (default from config)")

	return cmd
}

func (a *app) runRender(cmd *cobra.Command, name string, opts renderOptions) error {
	d, err := demo.Lookup(name)
	if err != nil {
		return err
	}

	demoOpts := demo.OptionsFrom(a.cfg)
	demoOpts.LoadDelay = opts.delay
	tree := d.Build(demoOpts)

	doc := memtree.New()
	root, err := doc.Container("div")
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	sessOpts := append(a.cfg.SessionOptions(a.logger), vango.WithContext(ctx))
	session := vango.NewSession(doc, sessOpts...)
	defer session.Close()

	if opts.wait && len(tree.Lazy) > 0 {
		timeout := opts.timeout
		if timeout <= 0 {
			timeout = a.cfg.LazyTimeout()
		}
		waitCtx, cancel := context.WithTimeout(ctx, timeout)
		err := vango.Preload(waitCtx, tree.Lazy...)
		cancel()
		if err != nil {
			return err
		}
	}

	if err := session.Render(tree.Root, root, vango.RootIdentity); err != nil {
		return err
	}

	for _, id := range opts.clicks {
		node := root.Find(id)
		if node == nil {
			return errors.New("E161").
				WithDetailf("no element with id %q", id).
				WithSuggestion("Render without --click to see the element ids.")
		}
		if err := node.Dispatch("click"); err != nil {
			return err
		}
	}

	html := root.InnerHTML()
	fmt.Fprintln(cmd.OutOrStdout(), html)

	exporter, err := a.exporter(opts)
	if err != nil || exporter == nil {
		return err
	}
	location, err := exporter.Export(ctx, &export.Snapshot{
		Demo:   d.Name,
		HTML:   html,
		Passes: session.Passes(),
	})
	if err != nil {
		return err
	}
	success(cmd.ErrOrStderr(), "Exported %s", location)
	return nil
}

// exporter returns the S3 exporter when a bucket is set, the disk exporter
// when --export is given, or nil.
func (a *app) exporter(opts renderOptions) (export.Exporter, error) {
	bucket := opts.bucket
	if bucket == "" && !opts.export {
		return nil, nil
	}
	if bucket == "" {
		bucket = a.cfg.Export.Bucket
	}
	if bucket == "" {
		return export.NewDiskExporter(a.cfg.ExportPath())
	}

	prefix := opts.prefix
	if prefix == "" {
		prefix = a.cfg.Export.Prefix
	}
	region := opts.region
	if region == "" {
		region = a.cfg.Export.Region
	}
	return export.NewS3Exporter(export.NewS3Client(region), bucket, prefix), nil
}
