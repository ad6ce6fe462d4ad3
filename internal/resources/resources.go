// Package resources loads the name lists and index schema the benchmark
// runs against. Defaults are compiled into the binary; a directory can
// override any of them file by file.
package resources

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/wesleyorama2/searchperf/internal/namegen"
)

// Resource file names.
const (
	FirstNamesFile = "firstNames.txt"
	LastNamesFile  = "lastNames.txt"
	SettingsFile   = "settings.yaml"
	MappingFile    = "simpleMapping.yaml"
)

//go:embed defaults/*
var embedded embed.FS

// ResourceLoadError reports a resource that could not be read.
type ResourceLoadError struct {
	Resource string
	Err      error
}

func (e *ResourceLoadError) Error() string {
	return fmt.Sprintf("failed to load resource %s: %v", e.Resource, e.Err)
}

func (e *ResourceLoadError) Unwrap() error {
	return e.Err
}

// Bundle holds the raw contents of every resource.
type Bundle struct {
	FirstNames []byte
	LastNames  []byte
	Settings   []byte
	Mapping    []byte
}

// Corpus parses the name lists.
func (b *Bundle) Corpus() (*namegen.Corpus, error) {
	return namegen.ParseCorpus(b.FirstNames, b.LastNames)
}

// Loader reads resources from an optional override filesystem, falling back
// to the embedded defaults for files the override does not have.
type Loader struct {
	override fs.FS
	dir      string
}

// NewLoader returns a Loader. An empty dir uses only the embedded defaults.
func NewLoader(dir string) *Loader {
	l := &Loader{dir: dir}
	if dir != "" {
		l.override = os.DirFS(dir)
	}
	return l
}

// NewLoaderFS returns a Loader that overrides the defaults from fsys.
func NewLoaderFS(fsys fs.FS) *Loader {
	return &Loader{override: fsys}
}

// Load returns the contents of the named resource.
func (l *Loader) Load(name string) ([]byte, error) {
	if l.override != nil {
		data, err := fs.ReadFile(l.override, name)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, &ResourceLoadError{Resource: name, Err: err}
		}
	}

	data, err := embedded.ReadFile("defaults/" + name)
	if err != nil {
		return nil, &ResourceLoadError{Resource: name, Err: err}
	}
	return data, nil
}

// LoadAll reads every resource. The override directory, when set, must exist.
func (l *Loader) LoadAll() (*Bundle, error) {
	if l.dir != "" {
		info, err := os.Stat(l.dir)
		if err != nil {
			return nil, &ResourceLoadError{Resource: l.dir, Err: err}
		}
		if !info.IsDir() {
			return nil, &ResourceLoadError{Resource: l.dir, Err: fmt.Errorf("not a directory")}
		}
	}

	var b Bundle
	targets := []struct {
		name string
		dst  *[]byte
	}{
		{FirstNamesFile, &b.FirstNames},
		{LastNamesFile, &b.LastNames},
		{SettingsFile, &b.Settings},
		{MappingFile, &b.Mapping},
	}
	for _, t := range targets {
		data, err := l.Load(t.name)
		if err != nil {
			return nil, err
		}
		*t.dst = data
	}
	return &b, nil
}
