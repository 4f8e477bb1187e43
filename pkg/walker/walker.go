// Package walker traverses a source tree and produces one compile command
// per matching file.
//
// # Traversal rules
//
// The walk is depth-first and synchronous:
//
//  1. In the root directory, a subdirectory is entered only if its name is
//     listed in general.include_dirs.
//  2. Below the root every subdirectory is entered, except names matching
//     an exclude_dirs pattern and, with gitignore enabled, ignored paths.
//  3. A file produces one record for every general filetype suffix its
//     name ends with.
//  4. The entry used for a record is resolved from the name of the
//     directory that immediately contains the file. Files in the root use
//     the general entry.
//
// Ignore files are read only in directories the walk enters. A symlink
// that leads back to a directory on the current path is not followed;
// other aliases of the same directory are walked again.
//
// Directory entries are read with os.ReadDir, which sorts them by name, so
// the output order is stable across runs.
package walker

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/albertocavalcante/compdb/internal/log"
	"github.com/albertocavalcante/compdb/pkg/compdb"
	"github.com/albertocavalcante/compdb/pkg/config"
)

// Options adjusts the walk.
type Options struct {
	// IgnoreOverrides uses the general entry for every file, as releases
	// before per-directory resolution did.
	IgnoreOverrides bool
}

// Stats summarizes a walk.
type Stats struct {
	Root    string
	Dirs    int
	Files   int
	Records int
	Skipped int
}

type walker struct {
	root   string
	cfg    *config.Config
	sink   compdb.Sink
	opts   Options
	filter *filter
	active map[string]struct{}
	stats  Stats
	logger *slog.Logger
}

// Walk traverses root and emits a record to sink for every matching file.
// Any I/O error, sink error or context cancellation aborts the walk.
func Walk(ctx context.Context, root string, cfg *config.Config, sink compdb.Sink, opts Options) (Stats, error) {
	realRoot, err := Canonicalize(root)
	if err != nil {
		return Stats{}, err
	}

	w := &walker{
		root:   realRoot,
		cfg:    cfg,
		sink:   sink,
		opts:   opts,
		filter: newFilter(cfg),
		active: make(map[string]struct{}),
		stats:  Stats{Root: realRoot},
		logger: log.Component("walker"),
	}

	if err := w.visit(ctx, realRoot, nil); err != nil {
		return w.stats, err
	}

	w.logger.Info("walk finished",
		"root", w.stats.Root,
		"dirs", w.stats.Dirs,
		"files", w.stats.Files,
		"records", w.stats.Records,
		"skipped", w.stats.Skipped,
	)
	return w.stats, nil
}

// Canonicalize returns the absolute, symlink-free form of path.
func Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize %s: %w", path, err)
	}
	return resolved, nil
}

// visit lists one directory and recurses into the subdirectories that
// pass the traversal rules. parts is the path of dir from the root as
// walked, one element per component.
func (w *walker) visit(ctx context.Context, dir string, parts []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	realDir, err := Canonicalize(dir)
	if err != nil {
		return err
	}
	// Only the directories on the current path count, so a symlink back
	// to an ancestor stops while separate aliases are still walked.
	if _, onPath := w.active[realDir]; onPath {
		w.logger.Debug("skipping symlink cycle", "dir", realDir, "via", dir)
		w.stats.Skipped++
		return nil
	}
	w.active[realDir] = struct{}{}
	defer delete(w.active, realDir)

	entries, err := os.ReadDir(realDir)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", realDir, err)
	}
	w.stats.Dirs++

	depth, err := w.filter.push(realDir, parts)
	if err != nil {
		return err
	}
	defer w.filter.pop(depth)

	atRoot := len(parts) == 0
	name := filepath.Base(realDir)
	effective := w.effective(atRoot, name)
	w.logger.Debug("visiting directory",
		"dir", realDir,
		"override", !atRoot && !w.opts.IgnoreOverrides && w.cfg.HasOverride(name),
		"ignore_patterns", w.filter.depth(),
	)

	for _, entry := range entries {
		path := filepath.Join(realDir, entry.Name())
		entryParts := append(slices.Clip(parts), entry.Name())

		if isDirectory(path, entry) {
			if !w.descend(atRoot, entry.Name(), path, entryParts, effective) {
				w.stats.Skipped++
				continue
			}
			if err := w.visit(ctx, path, entryParts); err != nil {
				return err
			}
			continue
		}

		if err := w.file(path, entry.Name(), entryParts, effective); err != nil {
			return err
		}
	}

	return nil
}

// effective resolves the entry for files directly inside a directory.
// Files in the root always use the general entry.
func (w *walker) effective(atRoot bool, dirName string) *config.Entry {
	if atRoot || w.opts.IgnoreOverrides {
		return w.cfg.General
	}
	return w.cfg.Resolve(dirName)
}

// descend applies root-level gating, exclude_dirs and gitignore rules.
func (w *walker) descend(atRoot bool, name, path string, parts []string, effective *config.Entry) bool {
	if atRoot && !slices.Contains(w.cfg.General.IncludeDirs, name) {
		w.logger.Debug("skipping root directory not in include_dirs", "dir", name)
		return false
	}
	if w.filter.excluded(name, effective) {
		w.logger.Debug("skipping excluded directory", "dir", path)
		return false
	}
	if w.filter.ignored(parts, true) {
		w.logger.Debug("skipping gitignored directory", "dir", path)
		return false
	}
	return true
}

// file emits one record per general filetype that name ends with.
func (w *walker) file(path, name string, parts []string, effective *config.Entry) error {
	if w.filter.ignored(parts, false) {
		w.logger.Debug("skipping gitignored file", "file", path)
		w.stats.Skipped++
		return nil
	}
	w.stats.Files++

	for _, suffix := range w.cfg.General.Filetypes {
		if suffix == "" || !strings.HasSuffix(name, suffix) {
			continue
		}
		record := compdb.Synthesize(effective, w.root, path)
		if err := w.sink.Emit(record); err != nil {
			return fmt.Errorf("failed to emit record for %s: %w", path, err)
		}
		w.stats.Records++
		log.Trace("record", "file", path, "suffix", suffix, "compiler", effective.Compiler)
	}

	return nil
}

// isDirectory reports whether entry is a directory, following symlinks.
// A broken symlink is not a directory.
func isDirectory(path string, entry fs.DirEntry) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
