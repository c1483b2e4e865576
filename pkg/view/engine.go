package view

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dmitrymomot/webtools/pkg/config"
	"github.com/dmitrymomot/webtools/pkg/fsutil"
	"github.com/dmitrymomot/webtools/pkg/logger"
)

// TemplateExt is the extension of panel templates.
const TemplateExt = ".html"

// EngineOptions configures template compilation.
type EngineOptions struct {
	// CompiledExt replaces TemplateExt on compiled copies.
	CompiledExt string `yaml:"compiledExt"`
	// Separator replaces path separators when flattening template paths
	// into compiled file names.
	Separator string `yaml:"separator"`
	// CacheDir is the preferred compiled cache directory.
	CacheDir string `yaml:"cacheDir"`
	// CompiledPath, when set, is used as the compiled cache directory
	// verbatim.
	CompiledPath string `yaml:"compiledPath,omitempty"`
	// ForceCompile recompiles templates on every use.
	ForceCompile bool `yaml:"forceCompile"`
}

// DefaultCacheDir is the compiled cache used when the configured one is
// unusable.
func DefaultCacheDir() string {
	return filepath.Join(os.TempDir(), "webtools", "volt")
}

// EngineOptionsFromConfig reads the volt section, or the view section when
// volt is absent. Without either the defaults are used: ".tmpl" compiled
// extension, "_" separator, application.cacheDir (or DefaultCacheDir) and
// forced compilation in development.
func EngineOptionsFromConfig(cfg *config.Config, development bool) EngineOptions {
	appCacheDir := cfg.String("application.cacheDir", "")

	opts := EngineOptions{
		CompiledExt:  ".tmpl",
		Separator:    "_",
		CacheDir:     appCacheDir,
		ForceCompile: development,
	}
	if opts.CacheDir == "" {
		opts.CacheDir = DefaultCacheDir()
	}

	section, ok := cfg.Sub("volt")
	if !ok {
		section, ok = cfg.Sub("view")
	}
	if !ok {
		return opts
	}

	opts.CompiledExt = section.String("compiledExt", opts.CompiledExt)
	opts.Separator = section.String("separator", opts.Separator)
	opts.CacheDir = section.String("cacheDir", appCacheDir)
	opts.CompiledPath = section.String("compiledPath", "")
	opts.ForceCompile = development || section.Bool("forceCompile", false)
	return opts
}

type parsed struct {
	tmpl    *template.Template
	modTime time.Time
}

// Engine compiles panel templates into a cache directory and parses them
// with html/template.
//
// Compiling copies the source next to other compiled templates under a
// flattened name, so a panel installed read-only still renders from a
// writable location.
type Engine struct {
	opts      EngineOptions
	basePath  string
	toolsWeb  string
	cacheDir  string
	funcs     template.FuncMap
	log       *slog.Logger
	mu        sync.Mutex
	templates map[string]parsed
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithFuncs adds template functions.
func WithFuncs(funcs template.FuncMap) EngineOption {
	return func(e *Engine) {
		for k, v := range funcs {
			e.funcs[k] = v
		}
	}
}

// WithEngineLogger sets the engine logger.
func WithEngineLogger(log *slog.Logger) EngineOption {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// NewEngine creates an Engine. Templates under basePath or <toolsPath>/web
// get compiled names relative to those roots. fs resolves the cache
// directory, falling back to DefaultCacheDir.
func NewEngine(opts EngineOptions, basePath, toolsPath string, fs *fsutil.FS, eopts ...EngineOption) *Engine {
	e := &Engine{
		opts:      opts,
		basePath:  fsutil.Normalize(basePath),
		toolsWeb:  fsutil.Normalize(filepath.Join(toolsPath, "web")),
		funcs:     template.FuncMap{},
		log:       logger.NewNope(),
		templates: make(map[string]parsed),
	}
	for _, opt := range eopts {
		opt(e)
	}
	if fs == nil {
		fs = fsutil.New(fsutil.WithLogger(e.log))
	}
	if e.opts.Separator == "" {
		e.opts.Separator = "_"
	}

	if opts.CompiledPath != "" {
		e.cacheDir = fs.ResolveWritableDir(fsutil.Normalize(opts.CompiledPath))
	} else {
		e.cacheDir = fs.ResolveWritableDir(DefaultCacheDir(), opts.CacheDir)
	}
	return e
}

// Options returns the effective options.
func (e *Engine) Options() EngineOptions {
	return e.opts
}

// CacheDir returns the resolved compiled cache directory.
func (e *Engine) CacheDir() string {
	return e.cacheDir
}

// CompiledPath maps a template to its compiled copy:
// <cacheDir>/<relative path with separators replaced, minus .html><compiledExt>.
func (e *Engine) CompiledPath(templatePath string) string {
	p := fsutil.Normalize(templatePath)
	if rest, ok := trimDir(p, e.basePath); ok {
		p = rest
	} else if rest, ok := trimDir(p, e.toolsWeb); ok {
		p = rest
	}

	p = strings.Trim(p, `\/`)
	name := strings.NewReplacer(`\`, e.opts.Separator, "/", e.opts.Separator).Replace(p)
	name = strings.TrimSuffix(name, TemplateExt) + e.opts.CompiledExt
	return filepath.Join(e.cacheDir, name)
}

// Compile refreshes the compiled copy of templatePath when compilation is
// forced, the copy is missing or the source is newer. It returns the
// compiled path.
func (e *Engine) Compile(templatePath string) (string, error) {
	src, err := os.Stat(templatePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrViewNotFound, templatePath)
		}
		return "", errors.Join(ErrCompile, err)
	}

	dst := e.CompiledPath(templatePath)
	if !e.opts.ForceCompile {
		if st, err := os.Stat(dst); err == nil && !st.ModTime().Before(src.ModTime()) {
			return dst, nil
		}
	}

	if err := copyFile(templatePath, dst); err != nil {
		return "", errors.Join(ErrCompile, err)
	}
	e.log.Debug("template compiled", slog.String("template", templatePath), slog.String("compiled", dst))
	return dst, nil
}

// Template compiles templatePath if needed and returns the parsed
// template. Parsed templates are reused until their compiled copy changes.
func (e *Engine) Template(templatePath string) (*template.Template, error) {
	dst, err := e.Compile(templatePath)
	if err != nil {
		return nil, err
	}
	st, err := os.Stat(dst)
	if err != nil {
		return nil, errors.Join(ErrCompile, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if p, ok := e.templates[dst]; ok && !e.opts.ForceCompile && p.modTime.Equal(st.ModTime()) {
		return p.tmpl, nil
	}

	body, err := os.ReadFile(dst)
	if err != nil {
		return nil, errors.Join(ErrCompile, err)
	}
	tmpl, err := template.New(filepath.Base(templatePath)).Funcs(e.funcs).Parse(string(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, templatePath, err)
	}
	e.templates[dst] = parsed{tmpl: tmpl, modTime: st.ModTime()}
	return tmpl, nil
}

// Execute renders templatePath with data into w.
func (e *Engine) Execute(w io.Writer, templatePath string, data any) error {
	tmpl, err := e.Template(templatePath)
	if err != nil {
		return err
	}
	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRender, templatePath, err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	// Write to a temp file first so concurrent readers never see a
	// partial template.
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".compile-*")
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, in); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), dst)
}

// trimDir strips dir from p when p is dir itself or lies inside it.
// A sibling sharing the prefix ("/app2" for "/app") does not match.
func trimDir(p, dir string) (string, bool) {
	if dir == "" || !strings.HasPrefix(p, dir) {
		return p, false
	}
	rest := p[len(dir):]
	if rest == "" || isSeparator(rest[0]) || isSeparator(dir[len(dir)-1]) {
		return rest, true
	}
	return p, false
}

func isSeparator(c byte) bool { return c == '/' || c == '\\' }
