package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vango-lite/internal/config"
	"github.com/vango-dev/vango-lite/internal/errors"
)

func initCmd() *cobra.Command {
	var (
		dir    string
		asJSON bool
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: `Write vango-lite.yaml (or vango-lite.json with --json) with the default
settings into the project directory.

Examples:
  vango-lite init
  vango-lite init --dir ./site --json`,
		Args:              cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			abs, err := filepath.Abs(dir)
			if err != nil {
				return errors.New("E120").Wrap(err)
			}
			if err := os.MkdirAll(abs, 0755); err != nil {
				return errors.New("E120").Wrap(err)
			}
			if config.Exists(abs) && !force {
				return errors.Newf(errors.CategoryCLI, "a configuration file already exists in %s", abs).
					WithSuggestion("Pass --force to overwrite it")
			}

			name := config.YAMLConfigFileName
			if asJSON {
				name = config.ConfigFileName
			}
			cfg := config.New()
			cfg.Name = filepath.Base(abs)
			if err := cfg.SaveTo(filepath.Join(abs, name)); err != nil {
				return err
			}

			success(cmd.ErrOrStderr(), "Wrote %s", cfg.Path())
			info(cmd.ErrOrStderr(), "Preview URL: %s", cfg.PreviewURL())
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Project directory")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Write JSON instead of YAML")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing configuration file")
	return cmd
}
