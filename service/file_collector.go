package service

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ludo-technologies/treesim/domain"
)

// FileCollectorImpl implements the FileCollector interface
type FileCollectorImpl struct {
	loader domain.GraphLoader
}

// NewFileCollector creates a new file collector. Files are accepted when
// loader supports their extension; a nil loader selects GraphLoaderImpl.
func NewFileCollector(loader domain.GraphLoader) *FileCollectorImpl {
	if loader == nil {
		loader = NewGraphLoader()
	}
	return &FileCollectorImpl{loader: loader}
}

// CollectGraphFiles finds the graph files under paths. Explicit file
// arguments are only checked against the exclude patterns. The result is
// sorted and free of duplicates.
func (f *FileCollectorImpl) CollectGraphFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		path = filepath.Clean(path)
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, domain.NewFileNotFoundError(path, err)
		}

		if !info.IsDir() {
			if !f.loader.Supports(path) {
				return nil, domain.NewUnsupportedFormatError(filepath.Ext(path))
			}
			if !matchesAny(excludePatterns, filepath.Base(path), filepath.ToSlash(path)) {
				add(path)
			}
			continue
		}

		dirFiles, err := f.collectFromDirectory(path, recursive, includePatterns, excludePatterns)
		if err != nil {
			return nil, err
		}
		for _, file := range dirFiles {
			add(file)
		}
	}

	sort.Strings(files)
	return files, nil
}

// collectFromDirectory collects graph files from a directory
func (f *FileCollectorImpl) collectFromDirectory(dirPath string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	var files []string

	walkFunc := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped
			return nil
		}

		if path == dirPath {
			return nil
		}

		// Skip hidden directories and files
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if !recursive {
				return filepath.SkipDir
			}
			return nil
		}

		if !f.loader.Supports(path) {
			return nil
		}

		rel, err := filepath.Rel(dirPath, path)
		if err != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		if matchesAny(excludePatterns, d.Name(), rel) {
			return nil
		}
		if len(includePatterns) == 0 || matchesAny(includePatterns, d.Name(), rel) {
			files = append(files, path)
		}
		return nil
	}

	if err := filepath.WalkDir(dirPath, walkFunc); err != nil {
		return nil, fmt.Errorf("failed to walk directory %s: %w", dirPath, err)
	}

	return files, nil
}

// matchesAny checks the patterns against the base name and the slash
// separated relative path
func matchesAny(patterns []string, name, rel string) bool {
	for _, pattern := range patterns {
		if matched, _ := doublestar.Match(pattern, rel); matched {
			return true
		}
		if matched, _ := doublestar.Match(pattern, name); matched {
			return true
		}
	}
	return false
}
