package models

import (
	"strings"
	"unicode"
)

// Header is one response header to inject
type Header struct {
	Name  string
	Value string
}

// MiddlewareRef is a middleware named in a controller annotation
type MiddlewareRef struct {
	Expr    string // Go expression as written, e.g. "auth.Required"
	Package string // selector qualifier ("auth"), empty for local identifiers
}

// ControllerConfig is the parsed controller annotation
type ControllerConfig struct {
	RoutePrefix string
	Middlewares []MiddlewareRef
	Headers     []Header
	ContentType string
}

// ImportSpec is one import of a source file
type ImportSpec struct {
	Name string // explicit name, empty when the package name is used
	Path string
}

// LocalName returns the identifier the import is referenced by in source.
// Unnamed imports use the name goimports would assume for the path.
func (i ImportSpec) LocalName() string {
	if i.Name != "" {
		return i.Name
	}
	base := i.Path
	if idx := strings.LastIndex(base, "/"); idx >= 0 {
		parent := base[:idx]
		base = base[idx+1:]
		if isMajorVersion(base) {
			base = parent
			if idx := strings.LastIndex(base, "/"); idx >= 0 {
				base = base[idx+1:]
			}
		}
	}
	base = strings.TrimPrefix(base, "go-")
	if idx := strings.IndexFunc(base, func(r rune) bool {
		return !(r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r))
	}); idx >= 0 {
		base = base[:idx]
	}
	return base
}

func isMajorVersion(elem string) bool {
	return len(elem) > 1 && elem[0] == 'v' && strings.Trim(elem[1:], "0123456789") == ""
}

// ControllerMetadata is a controller discovered in a package
type ControllerMetadata struct {
	Name    string
	File    string
	Line    int
	Config  ControllerConfig
	Routes  []RouteMetadata
	Imports []ImportSpec // imports of the file declaring the controller
	Failed  bool         // a fatal diagnostic was reported for this controller
}

// PackageMetadata is the result of scanning one package directory
type PackageMetadata struct {
	Name        string
	Dir         string
	ImportPath  string
	Controllers []ControllerMetadata
}
