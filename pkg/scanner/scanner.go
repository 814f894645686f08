package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Extension is the file suffix recognized as an orchestration source.
const Extension = ".odx"

// Scanner discovers orchestration source files on disk.
type Scanner struct {
	excludeDirs     []string
	excludePatterns []string
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithExcludeDirs sets directory names to skip entirely during traversal.
func WithExcludeDirs(dirs []string) Option {
	return func(s *Scanner) {
		s.excludeDirs = dirs
	}
}

// WithExcludePatterns sets glob patterns matched against slash-separated
// relative paths. Matching files are skipped.
func WithExcludePatterns(patterns []string) Option {
	return func(s *Scanner) {
		s.excludePatterns = patterns
	}
}

// New creates a Scanner with the given options.
func New(opts ...Option) *Scanner {
	s := &Scanner{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan walks each path and returns every orchestration file found,
// sorted lexically. A path that is itself a file is returned as-is when
// it has the right extension.
func (s *Scanner) Scan(paths ...string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if strings.EqualFold(filepath.Ext(root), Extension) {
				if _, ok := seen[root]; !ok {
					seen[root] = struct{}{}
					files = append(files, root)
				}
			}
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if s.excludedDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if !strings.EqualFold(filepath.Ext(path), Extension) {
				return nil
			}
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				rel = path
			}
			if s.excludedPath(filepath.ToSlash(rel)) {
				return nil
			}
			if _, ok := seen[path]; !ok {
				seen[path] = struct{}{}
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}

func (s *Scanner) excludedDir(name string) bool {
	for _, d := range s.excludeDirs {
		if strings.EqualFold(d, name) {
			return true
		}
	}
	return false
}

func (s *Scanner) excludedPath(rel string) bool {
	for _, p := range s.excludePatterns {
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
	}
	return false
}
