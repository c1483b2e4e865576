package fsutil

import (
	"os"
	"path/filepath"
	"strings"
)

// Normalize returns the canonical form of path: "." and ".." elements are
// resolved, both "/" and "\" are treated as separators, and trailing
// separators are removed. An empty path stays empty.
func Normalize(path string) string {
	if path == "" {
		return ""
	}
	unified := strings.ReplaceAll(path, `\`, "/")
	if isDrivePath(unified) {
		// Drive paths stay in slash form so they survive Clean on unix.
		return unified[:2] + filepath.ToSlash(filepath.Clean(unified[2:]))
	}
	return filepath.Clean(filepath.FromSlash(unified))
}

// IsAbsolute reports whether path is absolute. Windows drive paths such as
// "C:\app" and "C:/app" are absolute on every platform.
func IsAbsolute(path string) bool {
	if path == "" {
		return false
	}
	if path[0] == '/' || path[0] == '\\' {
		return true
	}
	return isDrivePath(path) || filepath.IsAbs(path)
}

// Join joins elem onto base unless elem is already absolute, then
// normalizes the result.
func Join(base, elem string) string {
	if IsAbsolute(elem) {
		return Normalize(elem)
	}
	return Normalize(base + string(os.PathSeparator) + elem)
}

func isDrivePath(path string) bool {
	if len(path) < 3 {
		return false
	}
	c := path[0]
	letter := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
	return letter && path[1] == ':' && (path[2] == '/' || path[2] == '\\')
}
