package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/toyz/routectl/internal/utils"
)

var skipDirs = map[string]bool{
	"vendor":       true,
	"node_modules": true,
	"testdata":     true,
}

// DirectoryScanner expands directory patterns into package directories
type DirectoryScanner struct{}

// NewDirectoryScanner creates a new directory scanner
func NewDirectoryScanner() *DirectoryScanner {
	return &DirectoryScanner{}
}

// ScanDirectories returns the directories holding Go files, in lexical order.
// A pattern ending in /... is scanned recursively; any other names one directory.
func (s *DirectoryScanner) ScanDirectories(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var dirs []string

	add := func(dir string) {
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}

	for _, pattern := range patterns {
		root, recursive := splitPattern(pattern)
		info, err := os.Stat(root)
		if err != nil {
			return nil, utils.WrapProcessError(fmt.Sprintf("pattern %s", pattern), err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("pattern %s: %s is not a directory", pattern, root)
		}

		if !recursive {
			ok, err := hasGoFiles(root)
			if err != nil {
				return nil, utils.WrapProcessError(fmt.Sprintf("directory read %s", root), err)
			}
			if ok {
				add(root)
			}
			continue
		}

		err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if path != root && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			ok, err := hasGoFiles(path)
			if err != nil {
				return err
			}
			if ok {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, utils.WrapProcessError(fmt.Sprintf("pattern %s", pattern), err)
		}
	}

	sort.Strings(dirs)
	return dirs, nil
}

// splitPattern turns ./internal/... into (internal, true)
func splitPattern(pattern string) (string, bool) {
	if pattern == "..." {
		return ".", true
	}
	if base, ok := strings.CutSuffix(pattern, "/..."); ok {
		if base == "" {
			base = "."
		}
		return filepath.Clean(base), true
	}
	return filepath.Clean(pattern), false
}

// skipDir reports directories the go tool ignores as well as common non-source trees
func skipDir(name string) bool {
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
		return true
	}
	return skipDirs[name]
}

func hasGoFiles(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() && strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go") {
			return true, nil
		}
	}
	return false, nil
}
