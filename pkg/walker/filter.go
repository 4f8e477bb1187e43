package walker

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/albertocavalcante/compdb/pkg/config"
)

const (
	gitignoreFile   = ".gitignore"
	infoExcludeFile = ".git/info/exclude"
)

// filter decides which entries below the root are skipped.
//
// Ignore rules are loaded only for directories the walk enters, so gated
// or excluded directories are never read. Patterns form a stack that
// grows on entering a directory and shrinks on leaving it.
type filter struct {
	exclude   []string
	gitignore bool
	patterns  []gitignore.Pattern
	matcher   gitignore.Matcher
}

func newFilter(cfg *config.Config) *filter {
	return &filter{
		exclude:   cfg.General.ExcludeDirs,
		gitignore: cfg.General.GitignoreEnabled(),
	}
}

// push loads the ignore rules of dir, whose path from the root is domain.
// It returns the stack depth to restore with pop. At the root the
// repository's .git/info/exclude is read before .gitignore.
func (f *filter) push(dir string, domain []string) (int, error) {
	depth := len(f.patterns)
	if !f.gitignore {
		return depth, nil
	}

	dirFS := osfs.New(dir)
	files := []string{gitignoreFile}
	if len(domain) == 0 {
		files = []string{infoExcludeFile, gitignoreFile}
	}

	for _, name := range files {
		data, err := util.ReadFile(dirFS, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return depth, fmt.Errorf("failed to read %s in %s: %w", name, dir, err)
		}
		f.patterns = append(f.patterns, parsePatterns(data, domain)...)
	}

	if len(f.patterns) != depth {
		f.matcher = gitignore.NewMatcher(f.patterns)
	}
	return depth, nil
}

// pop drops the rules pushed since depth.
func (f *filter) pop(depth int) {
	if len(f.patterns) == depth {
		return
	}
	f.patterns = f.patterns[:depth]
	f.matcher = gitignore.NewMatcher(f.patterns)
}

// depth is the number of ignore patterns in effect.
func (f *filter) depth() int {
	return len(f.patterns)
}

// parsePatterns reads one ignore file. Blank lines and comments are
// skipped.
func parsePatterns(data []byte, domain []string) []gitignore.Pattern {
	var ps []gitignore.Pattern
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}
		ps = append(ps, gitignore.ParsePattern(line, domain))
	}
	return ps
}

// excluded reports whether a subdirectory name matches an exclude_dirs
// pattern of the general entry or of the listing directory's entry.
func (f *filter) excluded(name string, effective *config.Entry) bool {
	if matchAny(f.exclude, name) {
		return true
	}
	if effective == nil {
		return false
	}
	return matchAny(effective.ExcludeDirs, name)
}

// ignored reports whether the entry at parts (path from the root, one
// element per component) is ignored by the rules in effect.
func (f *filter) ignored(parts []string, isDir bool) bool {
	if f.matcher == nil || len(f.patterns) == 0 {
		return false
	}
	return f.matcher.Match(parts, isDir)
}

// matchAny matches name against glob patterns. Plain names match
// literally; malformed patterns only match literally.
func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if p == "" {
			continue
		}
		if p == name {
			return true
		}
		if ok, err := doublestar.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}
