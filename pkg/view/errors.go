package view

import "errors"

var (
	// ErrViewNotFound is returned when a template file does not exist.
	ErrViewNotFound = errors.New("view: template not found")

	// ErrCompile is returned when a template cannot be copied into the
	// compiled cache.
	ErrCompile = errors.New("view: failed to compile template")

	// ErrParse is returned for templates with syntax errors.
	ErrParse = errors.New("view: failed to parse template")

	// ErrRender is returned when executing a template fails.
	ErrRender = errors.New("view: failed to render template")
)
