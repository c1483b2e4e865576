package config

import (
	"errors"
	"fmt"
)

var (
	// ErrConfigNotFound is returned by Scanner.Load when no file matches the name.
	ErrConfigNotFound = errors.New("config: configuration file not found")

	// ErrConfigParse is wrapped by every ParseError.
	ErrConfigParse = errors.New("config: malformed configuration")

	// ErrUnsupportedFormat is returned for files with an unknown extension.
	ErrUnsupportedFormat = errors.New("config: unsupported file format")
)

// ParseError reports a configuration file that could not be decoded.
type ParseError struct {
	Err  error
	Path string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("config: parse %s: %v", e.Path, e.Err)
}

// Unwrap exposes both ErrConfigParse and the decoder error.
func (e *ParseError) Unwrap() []error {
	return []error{ErrConfigParse, e.Err}
}
