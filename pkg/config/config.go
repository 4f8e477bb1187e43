// Package config provides the build configuration model for compdb.
//
// A configuration table has one "general" section holding the default
// build settings and zero or more sections named after directories:
//
//	[general]
//	compiler = "/usr/bin/cc"
//	includes = ["-Iinclude"]
//	defines = ["-DDEBUG=1"]
//	flags = ["-Wall"]
//	filetypes = [".c", ".cpp"]
//	include_dirs = ["src", "lib"]
//	exclude_dirs = ["third_party"]
//	gitignore = true
//
//	[src]
//	compiler = "/usr/bin/clang"
//
// A directory section only takes effect when its name is also listed in
// general.include_dirs.
package config

import (
	"maps"
	"slices"
)

// DefaultCompiler is used when a section does not name a compiler.
const DefaultCompiler = "/usr/bin/cc"

// GeneralSection is the name of the section holding the default entry.
const GeneralSection = "general"

// Entry is the set of build settings that applies to one directory.
// Entries are read-only once built.
type Entry struct {
	// Compiler is the path or name of the compiler executable.
	Compiler string

	// Includes are include tokens such as "-Ifoo", in argument order.
	Includes []string

	// Flags are arbitrary compiler flags, in argument order.
	Flags []string

	// Defines are define tokens such as "-DFOO=1", in argument order.
	Defines []string

	// Filetypes are the filename suffixes that produce compile commands.
	// Only the general entry's filetypes are consulted.
	Filetypes []string

	// IncludeDirs lists the root-level subdirectories that are traversed.
	IncludeDirs []string

	// ExcludeDirs lists subdirectory names (or glob patterns) to skip.
	ExcludeDirs []string

	// Gitignore enables skipping paths ignored by .gitignore files.
	// Nil when the key is absent.
	Gitignore *bool
}

// NewEntry creates an Entry with built-in defaults.
func NewEntry() *Entry {
	return &Entry{
		Compiler:    DefaultCompiler,
		Includes:    []string{},
		Flags:       []string{},
		Defines:     []string{},
		Filetypes:   []string{},
		IncludeDirs: []string{},
		ExcludeDirs: []string{},
	}
}

// GitignoreEnabled reports whether gitignore filtering was switched on.
func (e *Entry) GitignoreEnabled() bool {
	return e != nil && e.Gitignore != nil && *e.Gitignore
}

// Config is the configuration model: one general entry plus the
// per-directory overrides.
type Config struct {
	// General is the default entry. It is always present.
	General *Entry

	// Directories maps a directory name to its override entry.
	Directories map[string]*Entry
}

// NewConfig creates a Config with a default general entry and no overrides.
func NewConfig() *Config {
	return &Config{
		General:     NewEntry(),
		Directories: make(map[string]*Entry),
	}
}

// Build creates a Config from a decoded configuration table. It never
// fails: missing or mistyped fields fall back to their defaults.
//
// Overrides are full entries, not deltas. A field missing from an
// override section takes the built-in default, not the general value.
func Build(table map[string]any) *Config {
	cfg := NewConfig()

	general, ok := table[GeneralSection]
	if !ok {
		return cfg
	}
	cfg.General = entryFromValue(general)

	for _, dir := range cfg.General.IncludeDirs {
		section, ok := table[dir]
		if !ok {
			continue
		}
		cfg.Directories[dir] = entryFromValue(section)
	}

	return cfg
}

// Resolve returns the effective entry for a directory name: its override
// if one was registered, the general entry otherwise.
func (c *Config) Resolve(dir string) *Entry {
	if e, ok := c.Directories[dir]; ok {
		return e
	}
	return c.General
}

// HasOverride reports whether dir has its own entry.
func (c *Config) HasOverride(dir string) bool {
	_, ok := c.Directories[dir]
	return ok
}

// Overrides returns the names of the directories with their own entry,
// sorted.
func (c *Config) Overrides() []string {
	return slices.Sorted(maps.Keys(c.Directories))
}

// entryFromValue decodes one section. Anything that is not a table
// decodes to the default entry.
func entryFromValue(v any) *Entry {
	e := NewEntry()

	section, ok := asTable(v)
	if !ok {
		return e
	}

	if s, ok := section["compiler"].(string); ok {
		e.Compiler = s
	}
	e.Includes = stringList(section["includes"])
	e.Flags = stringList(section["flags"])
	e.Defines = stringList(section["defines"])
	e.Filetypes = stringList(section["filetypes"])
	e.IncludeDirs = stringList(section["include_dirs"])
	e.ExcludeDirs = stringList(section["exclude_dirs"])
	if b, ok := section["gitignore"].(bool); ok {
		e.Gitignore = &b
	}

	return e
}

// asTable accepts the table shapes produced by the TOML and YAML decoders.
func asTable(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if ks, ok := k.(string); ok {
				out[ks] = val
			}
		}
		return out, true
	}
	return nil, false
}

// stringList converts an array value to strings, keeping positions.
// Non-string elements become "". Non-array values yield an empty list.
func stringList(v any) []string {
	var items []any
	switch t := v.(type) {
	case []any:
		items = t
	case []string:
		return append([]string{}, t...)
	case []map[string]any:
		// TOML arrays of tables; none of the elements are strings.
		return make([]string, len(t))
	default:
		return []string{}
	}

	out := make([]string, len(items))
	for i, item := range items {
		if s, ok := item.(string); ok {
			out[i] = s
		}
	}
	return out
}
