package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dmitrymomot/webtools"
	"github.com/dmitrymomot/webtools/pkg/config"
	"github.com/dmitrymomot/webtools/pkg/db"
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the panel over HTTP",
		Long: `Serve the panel until interrupted.

The project configuration must exist; every other service is built on its
first request. Only clients in --allow-ip (loopback by default) are served.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := newApp(v)
			defer app.Close()
			return app.Run(cmd.Context())
		},
	}
}

func newDirsCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "dirs",
		Short: "Print the resolved project directories as YAML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := newApp(v)
			defer app.Close()

			dirs, err := webtools.Resolve[*webtools.Directories](app.Registry(), webtools.ServiceDirectories)
			if err != nil {
				return err
			}
			return writeYAML(cmd.OutOrStdout(), dirs.All())
		},
	}
}

func newConfigCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the merged project configuration as YAML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := newApp(v)
			defer app.Close()

			cfg, err := webtools.Resolve[*config.Config](app.Registry(), webtools.ServiceConfig)
			if err != nil {
				return err
			}
			return writeYAML(cmd.OutOrStdout(), cfg.Map())
		},
	}
}

func newMigrateCmd(v *viper.Viper) *cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations from migrationsDir",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := newApp(v)
			defer app.Close()

			m, err := webtools.Resolve[*db.Migrator](app.Registry(), webtools.ServiceMigrator)
			if err != nil {
				return err
			}
			n, err := m.Up(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", n)
			return err
		},
	}

	migrate.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print the state of every migration as YAML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := newApp(v)
			defer app.Close()

			m, err := webtools.Resolve[*db.Migrator](app.Registry(), webtools.ServiceMigrator)
			if err != nil {
				return err
			}
			status, err := m.Status(cmd.Context())
			if err != nil {
				return err
			}
			return writeYAML(cmd.OutOrStdout(), status)
		},
	})
	return migrate
}
