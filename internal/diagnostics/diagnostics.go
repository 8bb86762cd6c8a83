// Package diagnostics collects the build-time findings of a compiler pass.
//
// Every parsing and validation step receives a *Sink explicitly and reports
// into it; nothing in the pipeline prints. A fatal diagnostic halts synthesis
// for the controller it belongs to, an advisory one does not.
package diagnostics

import (
	"fmt"
	"sort"
	"strings"
)

// Severity distinguishes findings that halt synthesis from those that don't
type Severity int

const (
	Advisory Severity = iota
	Fatal
)

func (s Severity) String() string {
	if s == Fatal {
		return "error"
	}
	return "warning"
}

// Code identifies the kind of finding
type Code int

const (
	UnknownExtractor Code = iota
	MultipleBodyExtractors
	PathPlaceholderMismatch
	InvalidMiddleware
	UnknownMethod
	SyntaxError
	InvalidExtractorSyntax
	UnsupportedSignature
	DuplicateRoute
	StateConflict
	UnsupportedParamType
	DuplicatePlaceholder
	EmptyHeader
	MalformedArgument
	UnboundParameter
	DanglingExtractor
	MissingCapability
	BodyOnBodylessMethod
	DuplicateExtractor
	EmptyController
	UnknownArgument
	OrphanRoute
	EmptyPath
)

var codeNames = [...]string{
	UnknownExtractor:        "UnknownExtractor",
	MultipleBodyExtractors:  "MultipleBodyExtractors",
	PathPlaceholderMismatch: "PathPlaceholderMismatch",
	InvalidMiddleware:       "InvalidMiddleware",
	UnknownMethod:           "UnknownMethod",
	SyntaxError:             "SyntaxError",
	InvalidExtractorSyntax:  "InvalidExtractorSyntax",
	UnsupportedSignature:    "UnsupportedSignature",
	DuplicateRoute:          "DuplicateRoute",
	StateConflict:           "StateConflict",
	UnsupportedParamType:    "UnsupportedParamType",
	DuplicatePlaceholder:    "DuplicatePlaceholder",
	EmptyHeader:             "EmptyHeader",
	MalformedArgument:       "MalformedArgument",
	UnboundParameter:        "UnboundParameter",
	DanglingExtractor:       "DanglingExtractor",
	MissingCapability:       "MissingCapability",
	BodyOnBodylessMethod:    "BodyOnBodylessMethod",
	DuplicateExtractor:      "DuplicateExtractor",
	EmptyController:         "EmptyController",
	UnknownArgument:         "UnknownArgument",
	OrphanRoute:             "OrphanRoute",
	EmptyPath:               "EmptyPath",
}

func (c Code) String() string {
	if c < 0 || int(c) >= len(codeNames) {
		return fmt.Sprintf("Code(%d)", int(c))
	}
	return codeNames[c]
}

// Location represents where a finding occurred in source code
type Location struct {
	File   string
	Line   int // 1-based
	Column int // 1-based
}

// String returns a formatted string representation of the location
func (l Location) String() string {
	if l.File == "" {
		return "unknown location"
	}
	if l.Line == 0 {
		return l.File
	}
	if l.Column == 0 {
		return fmt.Sprintf("%s:%d", l.File, l.Line)
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Offset returns the location shifted by n columns on the same line
func (l Location) Offset(n int) Location {
	if l.Column > 0 {
		l.Column += n
	}
	return l
}

// Subject names the controller, handler and parameter a finding is about
type Subject struct {
	Controller string
	Handler    string
	Param      string
}

// String renders the subject as Controller.Handler(param)
func (s Subject) String() string {
	var b strings.Builder
	b.WriteString(s.Controller)
	if s.Handler != "" {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.Handler)
	}
	if s.Param != "" {
		fmt.Fprintf(&b, "(%s)", s.Param)
	}
	return b.String()
}

// WithHandler returns a copy of the subject scoped to handler
func (s Subject) WithHandler(handler string) Subject {
	s.Handler = handler
	s.Param = ""
	return s
}

// WithParam returns a copy of the subject scoped to param
func (s Subject) WithParam(param string) Subject {
	s.Param = param
	return s
}

// Diagnostic is one build-time finding
type Diagnostic struct {
	Severity   Severity
	Code       Code
	Message    string
	Subject    Subject
	Location   Location
	Suggestion string
}

// String renders the diagnostic the way compilers do: location: severity: message
func (d Diagnostic) String() string {
	var b strings.Builder
	if d.Location.File != "" {
		b.WriteString(d.Location.String())
		b.WriteString(": ")
	}
	b.WriteString(d.Severity.String())
	b.WriteString(": ")
	if subject := d.Subject.String(); subject != "" {
		b.WriteString(subject)
		b.WriteString(": ")
	}
	b.WriteString(d.Message)
	if d.Suggestion != "" {
		b.WriteString(" (")
		b.WriteString(d.Suggestion)
		b.WriteByte(')')
	}
	return b.String()
}

// Sink accumulates diagnostics in the order they are reported.
// It is not safe for concurrent use; a pass owns its sink.
type Sink struct {
	items []Diagnostic
}

// NewSink creates an empty sink
func NewSink() *Sink {
	return &Sink{}
}

// Add records a diagnostic
func (s *Sink) Add(d Diagnostic) {
	s.items = append(s.items, d)
}

// Fatalf records a fatal diagnostic
func (s *Sink) Fatalf(loc Location, subject Subject, code Code, format string, args ...any) {
	s.add(Fatal, loc, subject, code, format, args...)
}

// Warnf records an advisory diagnostic
func (s *Sink) Warnf(loc Location, subject Subject, code Code, format string, args ...any) {
	s.add(Advisory, loc, subject, code, format, args...)
}

func (s *Sink) add(sev Severity, loc Location, subject Subject, code Code, format string, args ...any) {
	s.items = append(s.items, Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Subject:  subject,
		Location: loc,
	})
}

// Suggest attaches a suggestion to the most recent diagnostic
func (s *Sink) Suggest(format string, args ...any) {
	if len(s.items) == 0 {
		return
	}
	s.items[len(s.items)-1].Suggestion = fmt.Sprintf(format, args...)
}

// Items returns the diagnostics in reporting order
func (s *Sink) Items() []Diagnostic {
	out := make([]Diagnostic, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of recorded diagnostics
func (s *Sink) Len() int {
	return len(s.items)
}

// Mark returns a position that FatalSince and Since can be asked about
func (s *Sink) Mark() int {
	return len(s.items)
}

// Since returns the diagnostics recorded after mark
func (s *Sink) Since(mark int) []Diagnostic {
	if mark < 0 || mark > len(s.items) {
		return nil
	}
	out := make([]Diagnostic, len(s.items)-mark)
	copy(out, s.items[mark:])
	return out
}

// FatalSince reports whether a fatal diagnostic was recorded after mark
func (s *Sink) FatalSince(mark int) bool {
	for _, d := range s.Since(mark) {
		if d.Severity == Fatal {
			return true
		}
	}
	return false
}

// HasFatal reports whether any fatal diagnostic was recorded
func (s *Sink) HasFatal() bool {
	return s.FatalSince(0)
}

// Count returns the number of diagnostics with the given severity
func (s *Sink) Count(sev Severity) int {
	n := 0
	for _, d := range s.items {
		if d.Severity == sev {
			n++
		}
	}
	return n
}

// Merge appends the diagnostics of other
func (s *Sink) Merge(other *Sink) {
	if other == nil {
		return
	}
	s.items = append(s.items, other.items...)
}

// Report returns the diagnostics sorted by file, line and column.
// Findings at the same position keep their reporting order.
func (s *Sink) Report() []Diagnostic {
	out := s.Items()
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Location, out[j].Location
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
	return out
}

// Err returns a *FatalError when any fatal diagnostic was recorded
func (s *Sink) Err() error {
	var fatals []Diagnostic
	for _, d := range s.Report() {
		if d.Severity == Fatal {
			fatals = append(fatals, d)
		}
	}
	if len(fatals) == 0 {
		return nil
	}
	return &FatalError{Diagnostics: fatals}
}

// FatalError carries the fatal diagnostics of a pass
type FatalError struct {
	Diagnostics []Diagnostic
}

func (e *FatalError) Error() string {
	if len(e.Diagnostics) == 1 {
		return e.Diagnostics[0].String()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d errors:", len(e.Diagnostics))
	for _, d := range e.Diagnostics {
		b.WriteString("\n\t")
		b.WriteString(d.String())
	}
	return b.String()
}
