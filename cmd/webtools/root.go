package main

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/webtools"
	"github.com/dmitrymomot/webtools/pkg/config"
)

const envPrefix = "WEBTOOLS"

// Flag names. Each one can also be set from WEBTOOLS_<NAME>, for example
// WEBTOOLS_BASE_PATH.
const (
	flagBasePath      = "base-path"
	flagToolsPath     = "tools-path"
	flagTemplatesPath = "templates-path"
	flagEnv           = "env"
	flagLogLevel      = "log-level"
	flagLogFormat     = "log-format"
	flagAddr          = "addr"
	flagAllowIP       = "allow-ip"
	flagSentryDSN     = "sentry-dsn"
)

func newRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:           "webtools",
		Short:         "Developer administration panel",
		Long:          `Bootstrap and serve the web tools panel for the project at --base-path.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	pf := root.PersistentFlags()
	pf.String(flagBasePath, ".", "project root")
	pf.String(flagToolsPath, "", "panel installation directory (default: base path)")
	pf.String(flagTemplatesPath, "", "code generation templates (default: <tools>/templates)")
	pf.String(flagEnv, config.EnvDevelopment, "application environment")
	pf.String(flagLogLevel, "info", "log level: debug, info, warn or error")
	pf.String(flagLogFormat, "text", "log format: text or json")
	pf.String(flagAddr, ":8080", "listen address")
	pf.StringSlice(flagAllowIP, nil, "allowed client address or CIDR (repeatable, default: loopback)")
	pf.String(flagSentryDSN, "", "Sentry DSN for error reporting")

	_ = v.BindPFlags(pf)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root.AddCommand(
		newServeCmd(v),
		newDirsCmd(v),
		newConfigCmd(v),
		newMigrateCmd(v),
	)
	return root
}

// newApp bootstraps the panel from the resolved flags and environment.
func newApp(v *viper.Viper, opts ...webtools.Option) *webtools.App {
	basePath := v.GetString(flagBasePath)
	if abs, err := filepath.Abs(basePath); err == nil {
		basePath = abs
	}

	base := []webtools.Option{
		webtools.WithBasePath(basePath),
		webtools.WithToolsPath(v.GetString(flagToolsPath)),
		webtools.WithTemplatesPath(v.GetString(flagTemplatesPath)),
		webtools.WithEnvironment(v.GetString(flagEnv)),
		webtools.WithLogLevel(v.GetString(flagLogLevel)),
		webtools.WithLogFormat(v.GetString(flagLogFormat)),
		webtools.WithAddress(v.GetString(flagAddr)),
		webtools.WithSentry(v.GetString(flagSentryDSN), slog.LevelWarn),
	}
	if ips := v.GetStringSlice(flagAllowIP); len(ips) > 0 {
		base = append(base, webtools.WithAllowedIPs(ips...))
	}
	return webtools.New(append(base, opts...)...)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
