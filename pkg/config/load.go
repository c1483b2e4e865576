package config

import (
	"log/slog"
	"path/filepath"

	"github.com/dmitrymomot/webtools/pkg/logger"
)

// Application environments.
const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
	EnvTesting     = "testing"
)

// BaseName is the name of the base configuration file.
const BaseName = "config"

// SearchDirs returns the directories scanned for configuration files of the
// project rooted at basePath, in lookup order.
func SearchDirs(basePath string) []string {
	return []string{
		filepath.Join(basePath, ".webtools"),
		filepath.Join(basePath, "config"),
		filepath.Join(basePath, "app", "config"),
		basePath,
	}
}

// Load reads the base configuration of the project at basePath and merges
// the override for env on top of it. Production never looks for an override.
//
// A missing or malformed base configuration is returned as an error. A
// missing override is ignored; a malformed one is logged and ignored.
func Load(basePath, env string, log *slog.Logger) (*Config, error) {
	return LoadWith(NewScanner(SearchDirs(basePath)...), env, log)
}

// LoadWith is Load with a caller-supplied scanner.
func LoadWith(s *Scanner, env string, log *slog.Logger) (*Config, error) {
	if log == nil {
		log = logger.NewNope()
	}

	cfg, err := s.Load(BaseName)
	if err != nil {
		return nil, err
	}

	if env == "" || env == EnvProduction {
		return cfg, nil
	}

	override, err := s.Scan(env)
	if err != nil {
		log.Warn("unable to load environment configuration, using base configuration",
			slog.String("environment", env),
			slog.String("error", err.Error()),
		)
		return cfg, nil
	}
	if override != nil {
		cfg.Merge(override)
	}

	return cfg, nil
}
