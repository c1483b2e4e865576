// Package sysinfo describes the running panel: Go runtime, build metadata,
// host and environment.
package sysinfo

import (
	"runtime"
	"runtime/debug"
	"time"
)

// Dependency is a module linked into the binary.
type Dependency struct {
	Path    string `json:"path" yaml:"path"`
	Version string `json:"version" yaml:"version"`
}

// Info is a snapshot of build and host facts taken at startup.
type Info struct {
	StartedAt    time.Time    `json:"started_at" yaml:"started_at"`
	GoVersion    string       `json:"go_version" yaml:"go_version"`
	OS           string       `json:"os" yaml:"os"`
	Arch         string       `json:"arch" yaml:"arch"`
	Hostname     string       `json:"hostname" yaml:"hostname"`
	Environment  string       `json:"environment" yaml:"environment"`
	Module       string       `json:"module,omitempty" yaml:"module,omitempty"`
	Version      string       `json:"version,omitempty" yaml:"version,omitempty"`
	Revision     string       `json:"revision,omitempty" yaml:"revision,omitempty"`
	Dependencies []Dependency `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	NumCPU       int          `json:"num_cpu" yaml:"num_cpu"`
	Dirty        bool         `json:"dirty,omitempty" yaml:"dirty,omitempty"`
}

// New collects Info for hostname and environment.
func New(hostname, environment string) *Info {
	info := &Info{
		StartedAt:   time.Now(),
		GoVersion:   runtime.Version(),
		OS:          runtime.GOOS,
		Arch:        runtime.GOARCH,
		NumCPU:      runtime.NumCPU(),
		Hostname:    hostname,
		Environment: environment,
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.Module = bi.Main.Path
	info.Version = bi.Main.Version
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Revision = s.Value
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		}
	}
	for _, d := range bi.Deps {
		if d.Replace != nil {
			d = d.Replace
		}
		info.Dependencies = append(info.Dependencies, Dependency{Path: d.Path, Version: d.Version})
	}
	return info
}

// Uptime returns the time elapsed since New.
func (i *Info) Uptime() time.Duration {
	return time.Since(i.StartedAt)
}

// Runtime is live process state.
type Runtime struct {
	Goroutines int    `json:"goroutines" yaml:"goroutines"`
	HeapAlloc  uint64 `json:"heap_alloc" yaml:"heap_alloc"`
	Sys        uint64 `json:"sys" yaml:"sys"`
	NumGC      uint32 `json:"num_gc" yaml:"num_gc"`
}

// Runtime samples live process state.
func (i *Info) Runtime() Runtime {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return Runtime{
		Goroutines: runtime.NumGoroutine(),
		HeapAlloc:  ms.HeapAlloc,
		Sys:        ms.Sys,
		NumGC:      ms.NumGC,
	}
}
