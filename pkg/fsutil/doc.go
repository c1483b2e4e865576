// Package fsutil normalizes filesystem paths and checks directories for
// readability and writability.
//
// ResolveWritableDir picks the first usable directory from a list of
// candidates and falls back to a known location when none qualifies. It never
// fails: the fallback is created on demand and a warning is logged so the
// caller can keep going with a sane default.
//
//	fs := fsutil.New(fsutil.WithLogger(log))
//	dir := fs.ResolveWritableDir(filepath.Join(os.TempDir(), "webtools", "volt"), cfg.String("volt.cacheDir", ""))
package fsutil
