package cli

import (
	"errors"

	"github.com/toyz/routectl/internal/diagnostics"
	"github.com/toyz/routectl/internal/models"
	"github.com/toyz/routectl/internal/utils"
)

// DiagnosticReporter explains run failures on the console
type DiagnosticReporter struct {
	diagnostics *utils.DiagnosticSystem
	verbose     bool
}

// NewDiagnosticReporter creates a reporter writing through diags
func NewDiagnosticReporter(diags *utils.DiagnosticSystem, verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{diagnostics: diags, verbose: verbose}
}

// ReportError prints err with hints matching its kind. Joined errors are
// reported one by one.
func (r *DiagnosticReporter) ReportError(err error) {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			r.ReportError(e)
		}
		return
	}

	var fatal *diagnostics.FatalError
	if errors.As(err, &fatal) {
		// the findings themselves were printed while running
		r.diagnostics.Error("Generation failed with %d error(s)", len(fatal.Diagnostics))
		return
	}

	var genErr *models.GeneratorError
	if !errors.As(err, &genErr) {
		r.diagnostics.Error("Generation failed: %v", err)
		return
	}

	r.diagnostics.Error("%s error: %v", genErr.Type, genErr)
	for _, hint := range hintsFor(genErr.Type) {
		r.diagnostics.Info("hint: %s", hint)
	}
}

// ReportSuccess prints the run summary
func (r *DiagnosticReporter) ReportSuccess(summary Summary, check bool) {
	stats := map[string]interface{}{
		"Packages scanned": summary.PackagesScanned,
		"Controllers":      summary.Controllers,
		"Routes":           summary.Routes,
		"Adapters":         summary.Adapters,
		"Warnings":         summary.Warnings,
	}
	if check {
		stats["Out of date"] = len(summary.Stale)
	} else {
		stats["Files written"] = len(summary.Written)
		stats["Files unchanged"] = len(summary.Unchanged)
		stats["Files removed"] = len(summary.Removed)
	}
	r.diagnostics.Summary("Summary", stats)

	if r.verbose && len(summary.Written) > 0 {
		r.diagnostics.Subsection("Generated Files")
		for _, file := range summary.Written {
			r.diagnostics.List("%s", file)
		}
	}
}

func hintsFor(t models.ErrorType) []string {
	switch t {
	case models.ErrorTypeParse:
		return []string{"Check that the package compiles with go vet"}
	case models.ErrorTypeConfig:
		return []string{
			"Check that a go.mod file encloses the working directory",
			"Try specifying --module explicitly",
		}
	case models.ErrorTypeFileSystem:
		return []string{"Check the directory permissions of the package"}
	case models.ErrorTypeGeneration:
		return []string{"Run with --verbose for the full trace"}
	default:
		return nil
	}
}
