package fsutil

import (
	"io/fs"
	"log/slog"
	"os"

	"github.com/dmitrymomot/webtools/pkg/logger"
)

const defaultDirPerm fs.FileMode = 0o755

// FS bundles the path helpers with a logger for fallback warnings.
// The zero value is not usable; create one with New.
type FS struct {
	log     *slog.Logger
	dirPerm fs.FileMode
}

// Option configures FS.
type Option func(*FS)

// WithLogger sets the logger used for fallback warnings.
func WithLogger(l *slog.Logger) Option {
	return func(f *FS) {
		if l != nil {
			f.log = l
		}
	}
}

// WithDirPerm sets the permission bits used when creating fallback directories.
// Default: 0755.
func WithDirPerm(perm fs.FileMode) Option {
	return func(f *FS) {
		f.dirPerm = perm
	}
}

// New creates an FS with the given options.
func New(opts ...Option) *FS {
	f := &FS{
		log:     logger.NewNope(),
		dirPerm: defaultDirPerm,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Normalize is the method form of the package-level Normalize.
func (f *FS) Normalize(path string) string { return Normalize(path) }

// IsAbsolute is the method form of the package-level IsAbsolute.
func (f *FS) IsAbsolute(path string) bool { return IsAbsolute(path) }

// IsReadableDir reports whether path exists, is a directory and can be listed.
func (f *FS) IsReadableDir(path string) bool { return IsReadableDir(path) }

// IsWritableDir reports whether path exists, is a directory and accepts new files.
func (f *FS) IsWritableDir(path string) bool { return IsWritableDir(path) }

// ResolveWritableDir returns the first candidate that is an existing, writable
// directory. Empty candidates are skipped. When nothing qualifies the
// normalized fallback is returned, created first if it does not exist, and a
// warning is logged. It never fails: if the fallback cannot be created the
// error is logged and the fallback is still returned.
func (f *FS) ResolveWritableDir(fallback string, candidates ...string) string {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if p := Normalize(c); IsWritableDir(p) {
			return p
		}
	}

	fallback = Normalize(fallback)
	f.log.Warn("unable to use requested directory, using fallback",
		slog.Any("candidates", candidates),
		slog.String("fallback", fallback),
	)

	if _, err := os.Stat(fallback); os.IsNotExist(err) {
		if err := os.MkdirAll(fallback, f.dirPerm); err != nil {
			f.log.Error("failed to create fallback directory",
				slog.String("path", fallback),
				slog.String("error", err.Error()),
			)
		}
	}

	return fallback
}

// IsReadableDir reports whether path exists, is a directory and can be listed.
func IsReadableDir(path string) bool {
	if !isDir(path) {
		return false
	}
	return canRead(path)
}

// IsWritableDir reports whether path exists, is a directory and accepts new files.
func IsWritableDir(path string) bool {
	if !isDir(path) {
		return false
	}
	return canWrite(path)
}

func isDir(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// IsReadableFile reports whether path is a regular file that can be opened.
func IsReadableFile(path string) bool {
	if path == "" {
		return false
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	info, err := f.Stat()
	return err == nil && info.Mode().IsRegular()
}
