package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Extensions lists the file extensions recognized by a Scanner, in lookup order.
var Extensions = []string{".yaml", ".yml", ".json", ".toml"}

// Scanner discovers configuration files by name in a list of directories.
// Directories are searched in order and the first matching file wins.
type Scanner struct {
	fsys fs.FS
	dirs []string
}

// NewScanner creates a Scanner over the OS filesystem.
func NewScanner(dirs ...string) *Scanner {
	return &Scanner{dirs: dirs}
}

// NewScannerFS creates a Scanner over fsys. Directories are fs.FS paths
// ("." for the root).
func NewScannerFS(fsys fs.FS, dirs ...string) *Scanner {
	return &Scanner{fsys: fsys, dirs: dirs}
}

// Dirs returns the search directories.
func (s *Scanner) Dirs() []string {
	return s.dirs
}

// Find returns the path of the first file matching name, or "" when none exists.
func (s *Scanner) Find(name string) string {
	for _, dir := range s.dirs {
		for _, ext := range Extensions {
			p := s.join(dir, name+ext)
			if s.isFile(p) {
				return p
			}
		}
	}
	return ""
}

// Scan loads the configuration called name. A missing file is not an error:
// Scan returns nil, nil. A file that cannot be decoded yields a *ParseError.
func (s *Scanner) Scan(name string) (*Config, error) {
	path := s.Find(name)
	if path == "" {
		return nil, nil
	}
	return s.parseFile(path)
}

// Load is like Scan but reports a missing file as ErrConfigNotFound.
func (s *Scanner) Load(name string) (*Config, error) {
	cfg, err := s.Scan(name)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("%w: %q in %s", ErrConfigNotFound, name, strings.Join(s.dirs, ", "))
	}
	return cfg, nil
}

func (s *Scanner) parseFile(path string) (*Config, error) {
	data, err := s.readFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	decode, err := decoderFor(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := decode(data, &raw); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return New(raw), nil
}

func decoderFor(path string) (func([]byte, any) error, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal, nil
	case ".json":
		return json.Unmarshal, nil
	case ".toml":
		return toml.Unmarshal, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

func (s *Scanner) join(dir, file string) string {
	if s.fsys != nil {
		if dir == "" || dir == "." {
			return file
		}
		return strings.TrimSuffix(filepath.ToSlash(dir), "/") + "/" + file
	}
	return filepath.Join(dir, file)
}

func (s *Scanner) isFile(path string) bool {
	var (
		info fs.FileInfo
		err  error
	)
	if s.fsys != nil {
		info, err = fs.Stat(s.fsys, path)
	} else {
		info, err = os.Stat(path)
	}
	return err == nil && info.Mode().IsRegular()
}

func (s *Scanner) readFile(path string) ([]byte, error) {
	if s.fsys != nil {
		return fs.ReadFile(s.fsys, path)
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
	}
	return data, err
}
