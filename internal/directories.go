package internal

import (
	"log/slog"
	"path/filepath"

	"github.com/dmitrymomot/webtools/pkg/config"
	"github.com/dmitrymomot/webtools/pkg/fsutil"
	"github.com/dmitrymomot/webtools/pkg/logger"
)

// Logical directory names.
const (
	DirModels        = "modelsDir"
	DirControllers   = "controllersDir"
	DirMigrations    = "migrationsDir"
	DirBase          = "basePath"
	DirTools         = "toolsPath"
	DirTemplates     = "templatesPath"
	DirWebToolsViews = "webToolsViews"
	DirResources     = "resourcesDir"
	DirElements      = "elementsDir"
)

// requiredDirectories are read from the application section of the
// configuration and may stay unresolved.
var requiredDirectories = []string{DirModels, DirControllers, DirMigrations}

// Directories holds the resolved project locations.
// An empty ModelsDir, ControllersDir or MigrationsDir means the directory is
// not configured or does not exist; the other fields are always set.
type Directories struct {
	ModelsDir      string
	ControllersDir string
	MigrationsDir  string
	BasePath       string
	ToolsPath      string
	TemplatesPath  string
	WebToolsViews  string
	ResourcesDir   string
	ElementsDir    string
}

// ResolveDirectories derives the project directories from the three root
// paths and the application section of cfg. It never fails: configured
// directories that are not readable are left empty and logged.
func ResolveDirectories(basePath, toolsPath, templatesPath string, cfg *config.Config, log *slog.Logger) *Directories {
	if log == nil {
		log = logger.NewNope()
	}

	basePath = fsutil.Normalize(basePath)
	toolsPath = fsutil.Normalize(toolsPath)
	templatesPath = fsutil.Normalize(templatesPath)

	d := &Directories{
		BasePath:      basePath,
		ToolsPath:     toolsPath,
		TemplatesPath: templatesPath,
		WebToolsViews: fsutil.Normalize(filepath.Join(toolsPath, "web", "tools", "views")),
		ResourcesDir:  fsutil.Normalize(filepath.Join(toolsPath, "resources")),
		ElementsDir:   fsutil.Normalize(filepath.Join(toolsPath, "resources", "elements")),
	}

	app, ok := cfg.Sub("application")
	if !ok {
		return d
	}

	for _, name := range requiredDirectories {
		candidate := app.String(name, "")
		if candidate == "" {
			continue
		}

		resolved := fsutil.Join(basePath, candidate)
		if !fsutil.IsReadableDir(resolved) {
			log.Warn("configured directory is not a readable directory",
				slog.String("name", name),
				slog.String("path", resolved),
			)
			continue
		}
		d.set(name, resolved)
	}

	return d
}

// Lookup returns the directory registered under a logical name. The boolean
// is false for unknown names and for unresolved directories.
func (d *Directories) Lookup(name string) (string, bool) {
	p, known := d.fields()[name]
	if !known || p == nil || *p == "" {
		return "", false
	}
	return *p, true
}

// All returns every logical name with its path. Unresolved directories map
// to an empty string.
func (d *Directories) All() map[string]string {
	out := make(map[string]string, 9)
	for name, p := range d.fields() {
		out[name] = *p
	}
	return out
}

func (d *Directories) set(name, path string) {
	if p, ok := d.fields()[name]; ok {
		*p = path
	}
}

func (d *Directories) fields() map[string]*string {
	return map[string]*string{
		DirModels:        &d.ModelsDir,
		DirControllers:   &d.ControllersDir,
		DirMigrations:    &d.MigrationsDir,
		DirBase:          &d.BasePath,
		DirTools:         &d.ToolsPath,
		DirTemplates:     &d.TemplatesPath,
		DirWebToolsViews: &d.WebToolsViews,
		DirResources:     &d.ResourcesDir,
		DirElements:      &d.ElementsDir,
	}
}
