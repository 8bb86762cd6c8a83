// Package cli drives a routectl run over a set of directory patterns.
package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/toyz/routectl/internal/config"
	"github.com/toyz/routectl/internal/diagnostics"
	"github.com/toyz/routectl/internal/generator"
	"github.com/toyz/routectl/internal/models"
	"github.com/toyz/routectl/internal/parser"
	"github.com/toyz/routectl/internal/utils"
)

// Options select what a run covers
type Options struct {
	// Patterns are directories, or directories followed by /... for recursion
	Patterns []string
	// Check compares the generated files with what is on disk instead of writing
	Check bool
}

// Summary describes the outcome of a run
type Summary struct {
	PackagesScanned   int
	PackagesGenerated int
	Controllers       int
	Routes            int
	Adapters          int
	Written           []string
	Unchanged         []string
	Removed           []string
	Stale             []string
	Warnings          int
	Errors            int
	Duration          time.Duration
}

// Generator coordinates the CLI generation process
type Generator struct {
	cfg            *config.Config
	scanner        *DirectoryScanner
	moduleResolver *ModuleResolver
	parser         *parser.Parser
	codeGenerator  *generator.Generator
	diagnostics    *utils.DiagnosticSystem
	logger         zerolog.Logger
	summary        Summary
}

// NewGenerator creates a CLI generator for cfg
func NewGenerator(cfg *config.Config, diags *utils.DiagnosticSystem, logger zerolog.Logger) *Generator {
	return &Generator{
		cfg:            cfg,
		scanner:        NewDirectoryScanner(),
		moduleResolver: NewModuleResolver(),
		parser: parser.NewParser(cfg.Capabilities(),
			parser.WithOutputFile(cfg.Output.Filename),
			parser.WithLogger(logger)),
		codeGenerator: generator.NewGenerator(
			generator.WithOutputFile(cfg.Output.Filename),
			generator.WithLogger(logger)),
		diagnostics: diags,
		logger:      logger,
	}
}

// GetSummary returns the summary of the last run
func (g *Generator) GetSummary() Summary {
	return g.summary
}

// Run executes the complete generation process. The findings of each package
// are printed once it is processed. A failing package does not stop the
// others; Run returns every fatal finding and package error joined.
func (g *Generator) Run(opts Options) error {
	start := time.Now()
	g.summary = Summary{}
	defer func() { g.summary.Duration = time.Since(start) }()

	module, err := g.moduleResolver.ResolveFromWorkingDir(g.cfg.Module)
	if err != nil {
		return &models.GeneratorError{Type: models.ErrorTypeConfig, Message: "failed to resolve module", Cause: err}
	}
	g.diagnostics.Verbose("Module %s rooted at %s", module.Path, module.Dir)

	dirs, err := g.scanner.ScanDirectories(opts.Patterns)
	if err != nil {
		return &models.GeneratorError{Type: models.ErrorTypeFileSystem, Message: "failed to scan directories", Cause: err}
	}
	g.diagnostics.Debug("Scanning %d directories", len(dirs))

	sink := diagnostics.NewSink()
	var failures []error
	for _, dir := range dirs {
		pkgSink := diagnostics.NewSink()
		err := g.processPackage(dir, module, opts, pkgSink)

		g.diagnostics.Indent()
		g.diagnostics.Report(pkgSink.Report())
		g.diagnostics.Unindent()
		if err != nil {
			failures = append(failures, err)
		}
		sink.Merge(pkgSink)
	}

	g.summary.Warnings = sink.Count(diagnostics.Advisory)
	g.summary.Errors = sink.Count(diagnostics.Fatal) + len(failures)

	if err := sink.Err(); err != nil {
		failures = append([]error{err}, failures...)
	}
	if opts.Check && len(g.summary.Stale) > 0 {
		failures = append(failures, &models.GeneratorError{
			Type:    models.ErrorTypeGeneration,
			Message: fmt.Sprintf("%d generated file(s) out of date, run routectl without --check", len(g.summary.Stale)),
		})
	}
	return errors.Join(failures...)
}

func (g *Generator) processPackage(dir string, module Module, opts Options, sink *diagnostics.Sink) error {
	pkg, err := g.parser.ParsePackage(dir, sink)
	if errors.Is(err, parser.ErrNoGoFiles) {
		g.logger.Debug().Str("dir", dir).Msg("no buildable files")
		return nil
	}
	if err != nil {
		return &models.GeneratorError{Type: models.ErrorTypeParse, File: dir, Message: "failed to parse package", Cause: err}
	}
	g.summary.PackagesScanned++

	pkg.ImportPath, err = g.moduleResolver.BuildPackagePath(module, dir)
	if err != nil {
		return &models.GeneratorError{Type: models.ErrorTypeConfig, File: dir, Message: "failed to build package path", Cause: err}
	}

	out, err := g.codeGenerator.Generate(pkg, sink)
	if err != nil {
		return err
	}

	target := filepath.Join(dir, g.cfg.Output.Filename)
	if out == nil {
		if len(pkg.Controllers) > 0 {
			// every controller failed; keep the previous output until fixed
			return nil
		}
		return g.dropStale(target, opts)
	}

	g.summary.PackagesGenerated++
	g.summary.Controllers += len(out.Controllers)
	g.summary.Routes += out.Routes
	g.summary.Adapters += out.Adapters

	if opts.Check {
		same, err := utils.SameContent(out.Path, out.Content)
		if err != nil {
			return &models.GeneratorError{Type: models.ErrorTypeFileSystem, File: out.Path, Message: "failed to read generated file", Cause: err}
		}
		if !same {
			g.summary.Stale = append(g.summary.Stale, out.Path)
			g.diagnostics.Warn("%s is out of date", out.Path)
		}
		return nil
	}

	written, err := utils.WriteFileAtomic(out.Path, out.Content, 0o644)
	if err != nil {
		return &models.GeneratorError{Type: models.ErrorTypeFileSystem, File: out.Path, Message: "failed to write generated file", Cause: err}
	}
	if written {
		g.diagnostics.Writing(out.Path)
		g.summary.Written = append(g.summary.Written, out.Path)
	} else {
		g.diagnostics.Verbose("%s unchanged", out.Path)
		g.summary.Unchanged = append(g.summary.Unchanged, out.Path)
	}
	g.diagnostics.PhaseItem("%s: %d controller(s), %d route(s)", pkg.ImportPath, len(out.Controllers), out.Routes)
	return nil
}

// dropStale removes a generated file left in a package that no longer has controllers
func (g *Generator) dropStale(path string, opts Options) error {
	generated, err := IsGenerated(path)
	if err != nil {
		return &models.GeneratorError{Type: models.ErrorTypeFileSystem, File: path, Message: "failed to read generated file", Cause: err}
	}
	if !generated {
		return nil
	}
	if opts.Check {
		g.summary.Stale = append(g.summary.Stale, path)
		g.diagnostics.Warn("%s belongs to no controller", path)
		return nil
	}
	if _, err := utils.RemoveIfExists(path); err != nil {
		return &models.GeneratorError{Type: models.ErrorTypeFileSystem, File: path, Message: "failed to remove stale file", Cause: err}
	}
	g.summary.Removed = append(g.summary.Removed, path)
	g.diagnostics.Verbose("Removed stale %s", path)
	return nil
}
