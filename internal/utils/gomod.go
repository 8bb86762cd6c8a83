package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
)

// GoModParser provides utilities for parsing go.mod files
type GoModParser struct{}

// NewGoModParser creates a new go.mod parser
func NewGoModParser() *GoModParser {
	return &GoModParser{}
}

// ParseModuleName extracts the module name from a go.mod file
func (p *GoModParser) ParseModuleName(goModPath string) (string, error) {
	cleanPath := filepath.Clean(goModPath)
	if filepath.Base(cleanPath) != "go.mod" {
		return "", fmt.Errorf("file is not a go.mod file: %s", goModPath)
	}

	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return "", WrapLoadError("go.mod file", err)
	}

	// Parse using official modfile parser
	modFile, err := modfile.ParseLax(cleanPath, content, nil)
	if err != nil {
		return "", WrapParseError("go.mod file", err)
	}

	if modFile.Module == nil {
		return "", fmt.Errorf("no module declaration found in %s", cleanPath)
	}

	return modFile.Module.Mod.Path, nil
}

// FindGoModFile searches for go.mod file starting from the given directory and walking up
func (p *GoModParser) FindGoModFile(startDir string) (string, error) {
	currentDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", WrapProcessError("path resolution "+startDir, err)
	}

	for {
		goModPath := filepath.Join(currentDir, "go.mod")
		if info, err := os.Stat(goModPath); err == nil && !info.IsDir() {
			return goModPath, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return "", fmt.Errorf("go.mod file not found above %s", startDir)
}

// ImportPath returns the import path of dir inside the module rooted at moduleDir
func ImportPath(moduleName, moduleDir, dir string) (string, error) {
	absModule, err := filepath.Abs(moduleDir)
	if err != nil {
		return "", WrapProcessError("path resolution "+moduleDir, err)
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", WrapProcessError("path resolution "+dir, err)
	}

	rel, err := filepath.Rel(absModule, absDir)
	if err != nil {
		return "", WrapProcessError("relative path of "+dir, err)
	}
	rel = filepath.ToSlash(rel)
	if rel == "." {
		return moduleName, nil
	}
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("%s is outside module %s", dir, moduleName)
	}
	return moduleName + "/" + rel, nil
}
