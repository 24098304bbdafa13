// Package scanner walks a directory tree and yields the source files that
// live under a source folder.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"github.com/mherod/source-parse/internal/model"
)

// DefaultMarker is the directory segment a file's path must contain.
const DefaultMarker = "src"

var (
	// ErrEmptyMarker indicates a blank source-folder marker
	ErrEmptyMarker = errors.New("empty source folder marker")

	// ErrUnknownExtension indicates an extension with no dialect
	ErrUnknownExtension = errors.New("unknown source extension")
)

// Options controls which files Walk yields.
type Options struct {
	// Marker is the directory name that must appear as a full segment of
	// the absolute path. Defaults to "src".
	Marker string
	// Extensions restricts the dialects scanned. Empty means all dialects.
	Extensions []string
	// Ignore holds glob patterns matched against the slash-separated path
	// relative to the root.
	Ignore []string
}

// Entry is one file selected for indexing.
type Entry struct {
	Path    string // absolute
	Rel     string // slash-separated, relative to the scan root
	Dialect model.Dialect
}

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// Scanner discovers source files under a root directory.
type Scanner struct {
	root           string
	marker         string
	dialects       []model.Dialect
	ignorePatterns []compiledPattern
}

// New creates a scanner rooted at root.
func New(root string, opts Options) (*Scanner, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", root, err)
	}

	marker := opts.Marker
	if marker == "" {
		marker = DefaultMarker
	}
	marker = strings.Trim(filepath.ToSlash(marker), "/")
	if marker == "" {
		return nil, ErrEmptyMarker
	}

	s := &Scanner{
		root:   absRoot,
		marker: marker,
	}

	if len(opts.Extensions) == 0 {
		s.dialects = model.Dialects()
	}
	for _, ext := range opts.Extensions {
		d, ok := model.DialectForExtension(ext)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownExtension, ext)
		}
		s.dialects = append(s.dialects, d)
	}

	for _, pattern := range opts.Ignore {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		s.ignorePatterns = append(s.ignorePatterns, compiledPattern{pattern: pattern, glob: g})
	}

	return s, nil
}

// Root returns the absolute scan root.
func (s *Scanner) Root() string {
	return s.root
}

// Extensions returns the extensions of the dialects being scanned.
func (s *Scanner) Extensions() []string {
	exts := make([]string, len(s.dialects))
	for i, d := range s.dialects {
		exts[i] = d.Extension
	}
	return exts
}

// Walk lazily yields matching files in directory-walk order. A walk error
// is yielded once and ends the sequence.
func (s *Scanner) Walk(ctx context.Context) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		stopped := errors.New("stopped")

		err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}

			relPath, err := filepath.Rel(s.root, path)
			if err != nil {
				return err
			}
			relPath = filepath.ToSlash(relPath)

			if d.IsDir() {
				if path != s.root && s.shouldIgnore(relPath) {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}

			entry, ok := s.match(path, relPath)
			if !ok {
				return nil
			}
			if !yield(entry, nil) {
				return stopped
			}
			return nil
		})

		if err != nil && !errors.Is(err, stopped) {
			yield(Entry{}, fmt.Errorf("failed to walk %s: %w", s.root, err))
		}
	}
}

// Collect walks the tree and returns every match.
func (s *Scanner) Collect(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	for entry, err := range s.Walk(ctx) {
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Matches reports whether an absolute file path would be yielded by Walk.
func (s *Scanner) Matches(path string) bool {
	relPath, err := filepath.Rel(s.root, path)
	if err != nil || strings.HasPrefix(relPath, "..") {
		return false
	}
	_, ok := s.match(path, filepath.ToSlash(relPath))
	return ok
}

func (s *Scanner) match(path, relPath string) (Entry, bool) {
	if !s.inSourceFolder(path) {
		return Entry{}, false
	}

	dialect, ok := s.dialectFor(path)
	if !ok {
		return Entry{}, false
	}

	if s.shouldIgnore(relPath) {
		return Entry{}, false
	}

	return Entry{Path: path, Rel: relPath, Dialect: dialect}, true
}

// inSourceFolder checks for the marker as a whole segment of the absolute path.
func (s *Scanner) inSourceFolder(path string) bool {
	return strings.Contains(filepath.ToSlash(path), "/"+s.marker+"/")
}

func (s *Scanner) dialectFor(path string) (model.Dialect, bool) {
	base := filepath.Base(path)
	for _, d := range s.dialects {
		if strings.HasSuffix(base, d.Extension) {
			return d, true
		}
	}
	return model.Dialect{}, false
}

// shouldIgnore checks if a path matches any ignore pattern.
func (s *Scanner) shouldIgnore(relPath string) bool {
	if s.matchesAnyPattern(relPath) {
		return true
	}

	// "build/**" should also prune the "build" directory itself.
	return s.matchesAnyPattern(relPath + "/**")
}

func (s *Scanner) matchesAnyPattern(path string) bool {
	for _, cp := range s.ignorePatterns {
		if cp.glob.Match(path) {
			return true
		}
	}
	return false
}
