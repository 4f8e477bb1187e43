// Package compdb builds and writes compilation database records.
//
// A record describes the full compiler invocation for one source file, in
// the shape consumed by clangd and other tooling:
//
//	{
//	  "arguments": ["/usr/bin/cc", "-Iinclude", "-DFOO", "-Wall", "-o", "a.o", "a.c"],
//	  "directory": "/abs/root",
//	  "file": "/abs/root/src/a.c",
//	  "output": "/abs/root/src/a.o"
//	}
package compdb

import (
	"path/filepath"
	"strings"

	"github.com/albertocavalcante/compdb/pkg/config"
)

// ObjectSuffix is appended to a source stem to name its object file.
const ObjectSuffix = ".o"

// Record is one compile command.
type Record struct {
	Arguments []string `json:"arguments"`
	Directory string   `json:"directory"`
	File      string   `json:"file"`
	Output    string   `json:"output"`
}

// Synthesize builds the record for file using entry. root is the
// canonical traversal root. It does not touch the filesystem.
//
// Arguments are ordered compiler, includes, defines, flags, then
// "-o <stem>.o <name>" where name is the directory-less file name.
func Synthesize(entry *config.Entry, root, file string) Record {
	name := filepath.Base(file)
	object := ObjectName(name)

	args := make([]string, 0, 1+len(entry.Includes)+len(entry.Defines)+len(entry.Flags)+3)
	args = append(args, entry.Compiler)
	args = append(args, entry.Includes...)
	args = append(args, entry.Defines...)
	args = append(args, entry.Flags...)
	args = append(args, "-o", object, name)

	return Record{
		Arguments: args,
		Directory: root,
		File:      file,
		Output:    filepath.Join(filepath.Dir(file), object),
	}
}

// ObjectName returns the object file name for a source file name:
// the final extension is replaced by ".o" ("foo.bar.c" -> "foo.bar.o").
func ObjectName(name string) string {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	if stem == "" {
		// ".c" has no stem; keep the whole name.
		stem = name
	}
	return stem + ObjectSuffix
}
