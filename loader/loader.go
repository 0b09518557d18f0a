package loader

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/kbukum/flowkit/errors"
	"github.com/kbukum/flowkit/logger"
)

// Loader loads pipeline definitions by name.
type Loader interface {
	Load(name string) (*Definition, error)
}

// FileLoader loads definitions from YAML files on disk.
type FileLoader struct {
	dirs []string
	log  *logger.Logger
}

// NewFileLoader creates a loader that searches dirs for <name>.yaml and
// <name>.yml, first at the top level and then in subdirectories.
func NewFileLoader(dirs ...string) *FileLoader {
	return &FileLoader{dirs: dirs, log: logger.Get(logger.ComponentLoader)}
}

// Load finds and parses the definition called name.
func (l *FileLoader) Load(name string) (*Definition, error) {
	for _, dir := range l.dirs {
		path, ok := findDefinition(dir, name)
		if !ok {
			continue
		}
		def, err := loadFile(path)
		if err != nil {
			l.log.Error("definition rejected", logger.MergeWithError(logger.Fields("definition", name, "path", path), err))
			return nil, err
		}
		l.log.Debug("definition loaded", logger.Fields("definition", def.Name, "path", path, "nodes", len(def.Nodes)))
		return def, nil
	}
	return nil, errors.NotFound("pipeline definition", name).
		WithDetail("dirs", l.dirs)
}

func findDefinition(dir, name string) (string, bool) {
	files := []string{name + ".yaml", name + ".yml"}
	for _, file := range files {
		path := filepath.Join(dir, file)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}

	var found string
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		for _, file := range files {
			if d.Name() == file {
				found = path
				return fs.SkipAll
			}
		}
		return nil
	})
	return found, found != ""
}

func loadFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.InvalidInput("definition", "cannot read "+path).WithCause(err)
	}
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, errors.InvalidInput("definition", "cannot parse "+path).WithCause(err)
	}
	if def.Name == "" {
		def.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// LoadDefinition loads a definition from explicit file paths, using the
// first one that exists.
func LoadDefinition(name string, paths ...string) (*Definition, error) {
	for _, path := range paths {
		def, err := loadFile(path)
		if err == nil {
			return def, nil
		}
		if appErr, ok := errors.AsAppError(err); ok && stderrors.Is(appErr.Cause, fs.ErrNotExist) {
			continue
		}
		return nil, err
	}
	return nil, errors.NotFound("pipeline definition", name).
		WithDetail("paths", paths)
}
