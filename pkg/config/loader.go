package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/albertocavalcante/compdb/internal/log"
)

// DefaultFileName is the configuration file looked up when none is given.
const DefaultFileName = "config.toml"

// ProjectFileName is the hidden project-level config file.
const ProjectFileName = ".compdb.toml"

// ProjectDirName is the project-level config directory.
const ProjectDirName = ".compdb"

// Load reads the configuration file at path and builds the model.
// A missing or unreadable file is an error; malformed content is not.
func Load(path string) (*Config, error) {
	table, err := LoadTable(path)
	if err != nil {
		return nil, err
	}
	cfg := Build(table)
	log.Component("config").Debug("configuration built",
		"compiler", cfg.General.Compiler,
		"include_dirs", cfg.General.IncludeDirs,
		"overrides", cfg.Overrides(),
	)
	return cfg, nil
}

// LoadTable reads and decodes the configuration file at path.
//
// Files ending in .yaml or .yml are decoded as YAML, everything else as
// TOML. Content that fails to decode, or decodes to something other than
// a table, yields an empty table so the model degrades to defaults.
func LoadTable(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, newConfigError(ConfigNotFound, path, "configuration file not found", err)
		}
		return nil, newConfigError(ConfigInvalid, path, "failed to read configuration file", err)
	}

	logger := log.Component("config")

	table, err := decode(path, data)
	if err != nil {
		logger.Warn("ignoring malformed configuration", "path", path, "error", err)
		return map[string]any{}, nil
	}

	logger.Debug("configuration loaded", "path", path, "sections", len(table))
	return table, nil
}

// decode picks a decoder from the file extension.
func decode(path string, data []byte) (map[string]any, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		if doc == nil {
			return map[string]any{}, nil
		}
		table, ok := asTable(doc)
		if !ok {
			return nil, errors.New("top-level YAML value is not a mapping")
		}
		return table, nil
	default:
		table := make(map[string]any)
		if _, err := toml.Decode(string(data), &table); err != nil {
			return nil, err
		}
		return table, nil
	}
}

// Find looks for a configuration file in start and its parents.
//
// Each directory is checked for config.toml, .compdb.toml and
// .compdb/config.toml in that order. The search stops at a workspace
// root (.git, WORKSPACE, MODULE.bazel) or at the filesystem root.
func Find(start string) (string, bool) {
	current, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}

	for {
		for _, candidate := range candidatePaths(current) {
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, true
			}
		}

		if isWorkspaceRoot(current) {
			break
		}

		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}

	return "", false
}

// candidatePaths returns the config locations checked in dir.
func candidatePaths(dir string) []string {
	return []string{
		filepath.Join(dir, DefaultFileName),
		filepath.Join(dir, ProjectFileName),
		filepath.Join(dir, ProjectDirName, DefaultFileName),
	}
}

// isWorkspaceRoot checks if the directory carries a workspace marker.
func isWorkspaceRoot(dir string) bool {
	markers := []string{".git", "WORKSPACE", "WORKSPACE.bazel", "MODULE.bazel"}
	for _, marker := range markers {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	return false
}
