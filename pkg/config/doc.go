// Package config loads layered project configuration.
//
// A Config is a tree of string-keyed mappings whose leaves are scalars or
// lists. Configuration files are discovered by a Scanner that looks for
// <name>.yaml, <name>.yml, <name>.json or <name>.toml in an ordered list of
// directories.
//
// Load reads the base "config" file and, unless the environment is
// production, merges an environment-specific override (for example
// "development.yaml") on top of it:
//
//	cfg, err := config.Load(basePath, config.EnvDevelopment, log)
//	if err != nil {
//		return err // missing or malformed base configuration
//	}
//	cacheDir := cfg.String("application.cacheDir", "")
//
// Merge is right-biased: mappings present on both sides merge recursively,
// everything else in the override replaces the base value, and keys the
// override does not mention are left alone.
package config
