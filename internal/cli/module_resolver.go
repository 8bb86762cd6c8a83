package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/toyz/routectl/internal/utils"
)

// ModuleResolver handles resolving Go module information
type ModuleResolver struct {
	gomod *utils.GoModParser
}

// NewModuleResolver creates a new module resolver
func NewModuleResolver() *ModuleResolver {
	return &ModuleResolver{gomod: utils.NewGoModParser()}
}

// Module is a resolved module: its path and the directory it is rooted at
type Module struct {
	Path string
	Dir  string
}

// Resolve finds the module enclosing startDir. A custom module name replaces
// the go.mod declaration; without a go.mod it is rooted at startDir.
func (r *ModuleResolver) Resolve(customModule, startDir string) (Module, error) {
	goModPath, findErr := r.gomod.FindGoModFile(startDir)

	if customModule != "" {
		dir := startDir
		if findErr == nil {
			dir = filepath.Dir(goModPath)
		}
		abs, err := filepath.Abs(dir)
		if err != nil {
			return Module{}, err
		}
		return Module{Path: customModule, Dir: abs}, nil
	}

	if findErr != nil {
		return Module{}, fmt.Errorf("failed to determine module name: %w (consider using --module flag)", findErr)
	}
	name, err := r.gomod.ParseModuleName(goModPath)
	if err != nil {
		return Module{}, fmt.Errorf("failed to determine module name: %w", err)
	}
	return Module{Path: name, Dir: filepath.Dir(goModPath)}, nil
}

// ResolveFromWorkingDir resolves the module enclosing the working directory
func (r *ModuleResolver) ResolveFromWorkingDir(customModule string) (Module, error) {
	wd, err := os.Getwd()
	if err != nil {
		return Module{}, fmt.Errorf("failed to get current directory: %w", err)
	}
	return r.Resolve(customModule, wd)
}

// BuildPackagePath builds the full import path for a package directory
func (r *ModuleResolver) BuildPackagePath(module Module, packageDir string) (string, error) {
	return utils.ImportPath(module.Path, module.Dir, packageDir)
}
