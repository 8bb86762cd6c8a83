package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/toyz/routectl/internal/cli"
	"github.com/toyz/routectl/internal/config"
	"github.com/toyz/routectl/internal/logger"
	"github.com/toyz/routectl/internal/utils"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("routectl", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		moduleFlag  = fs.String("module", "", "Module path used in route infos (defaults to the go.mod module)")
		configFlag  = fs.String("config", "", "Config file (defaults to "+config.DefaultFile+" when present)")
		verboseFlag = fs.Bool("verbose", false, "Enable verbose output and debug tracing")
		quietFlag   = fs.Bool("quiet", false, "Only show errors")
		cleanFlag   = fs.Bool("clean", false, "Delete the generated files under the given directories")
		checkFlag   = fs.Bool("check", false, "Fail when a generated file is missing or out of date, without writing")
		helpFlag    = fs.Bool("help", false, "Show help information")
	)

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: routectl [options] <directory-paths...>\n\n")
		fmt.Fprintf(stderr, "routectl Route Generator\n")
		fmt.Fprintf(stderr, "Scans Go packages for //routectl:: annotations and generates a Router method per controller.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nDirectory Patterns:\n")
		fmt.Fprintf(stderr, "  ./...              Scan current directory and all subdirectories recursively\n")
		fmt.Fprintf(stderr, "  ./internal/...     Scan internal directory and all its subdirectories\n")
		fmt.Fprintf(stderr, "  ./pkg/controllers  Scan only the specific directory (no recursion)\n")
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  routectl ./...                                  # Generate everything\n")
		fmt.Fprintf(stderr, "  routectl --check ./...                          # Verify generated files in CI\n")
		fmt.Fprintf(stderr, "  routectl --module github.com/myorg/myapp ./...  # Specify module path\n")
		fmt.Fprintf(stderr, "  routectl --clean ./...                          # Delete generated files\n")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *helpFlag {
		fs.Usage()
		return 0
	}

	patterns := fs.Args()
	if len(patterns) == 0 {
		fmt.Fprintf(stderr, "Error: At least one directory path is required\n\n")
		fs.Usage()
		return 1
	}
	if *cleanFlag && *checkFlag {
		fmt.Fprintf(stderr, "Error: --clean and --check cannot be combined\n")
		return 1
	}

	// only flags given on the command line override the other sources
	overrides := make(map[string]any)
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "module":
			overrides["module"] = *moduleFlag
		case "verbose":
			overrides["verbose"] = *verboseFlag
		case "quiet":
			overrides["quiet"] = *quietFlag
		}
	})

	cfg, err := config.Load(config.Options{File: *configFlag, Flags: overrides})
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	level := utils.DiagnosticInfo
	switch {
	case cfg.Quiet:
		level = utils.DiagnosticError
	case cfg.Verbose:
		level = utils.DiagnosticVerbose
	}
	diags := utils.NewDiagnosticSystemWithWriters(level, stdout, stderr)

	logLevel := cfg.Log.Level
	if cfg.Verbose {
		logLevel = "debug"
	}
	log := logger.NewWithWriter(stderr, logLevel, cfg.Log.Pretty)

	diags.Section("Route Generator")

	if *cleanFlag {
		removed, err := cli.NewCleaner(cfg.Output.Filename).CleanGeneratedFiles(patterns)
		if err != nil {
			diags.Error("Clean operation failed: %v", err)
			return 1
		}
		for _, path := range removed {
			diags.List("Removed %s", path)
		}
		diags.Complete(fmt.Sprintf("Removed %d generated file(s)", len(removed)))
		return 0
	}

	if *checkFlag {
		diags.Verbose("Check mode: nothing will be written")
	}

	generator := cli.NewGenerator(cfg, diags, log)
	reporter := cli.NewDiagnosticReporter(diags, cfg.Verbose)

	if err := generator.Run(cli.Options{Patterns: patterns, Check: *checkFlag}); err != nil {
		reporter.ReportError(err)
		return 1
	}

	reporter.ReportSuccess(generator.GetSummary(), *checkFlag)
	if *checkFlag {
		diags.Success("Generated files are up to date")
	} else {
		diags.Complete("Generation complete!")
	}
	return 0
}
