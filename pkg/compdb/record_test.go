package compdb

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/albertocavalcante/compdb/pkg/config"
)

func TestSynthesizeArgumentOrder(t *testing.T) {
	entry := config.NewEntry()
	entry.Compiler = "/usr/bin/clang"
	entry.Includes = []string{"-Iinclude", "-Ithird_party"}
	entry.Defines = []string{"-DFOO=1", "-DBAR"}
	entry.Flags = []string{"-Wall", "-O2"}

	rec := Synthesize(entry, "/work", "/work/src/main.c")

	assert.Equal(t, []string{
		"/usr/bin/clang",
		"-Iinclude", "-Ithird_party",
		"-DFOO=1", "-DBAR",
		"-Wall", "-O2",
		"-o", "main.o", "main.c",
	}, rec.Arguments)
	assert.Equal(t, "/work", rec.Directory)
	assert.Equal(t, "/work/src/main.c", rec.File)
	assert.Equal(t, "/work/src/main.o", rec.Output)
}

func TestSynthesizeDefaultEntry(t *testing.T) {
	rec := Synthesize(config.NewEntry(), "/work", "/work/a.c")

	assert.Equal(t, []string{config.DefaultCompiler, "-o", "a.o", "a.c"}, rec.Arguments)
}

func TestSynthesizeDoesNotAliasEntry(t *testing.T) {
	entry := config.NewEntry()
	entry.Flags = make([]string, 1, 8)
	entry.Flags[0] = "-g"

	first := Synthesize(entry, "/work", "/work/a.c")
	second := Synthesize(entry, "/work", "/work/b.c")

	assert.Equal(t, "a.c", first.Arguments[len(first.Arguments)-1])
	assert.Equal(t, "b.c", second.Arguments[len(second.Arguments)-1])
	assert.Equal(t, []string{"-g"}, entry.Flags)
}

func TestObjectName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"foo.c", "foo.o"},
		{"foo.bar.c", "foo.bar.o"},
		{"widget.cpp", "widget.o"},
		{"Makefile", "Makefile.o"},
		{".c", ".c.o"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ObjectName(tt.name))
		})
	}
}

func TestSynthesizeMultiDotFile(t *testing.T) {
	rec := Synthesize(config.NewEntry(), "/r", "/r/src/foo.bar.c")

	n := len(rec.Arguments)
	assert.Equal(t, "foo.bar.o", rec.Arguments[n-2])
	assert.Equal(t, "foo.bar.c", rec.Arguments[n-1])
}
