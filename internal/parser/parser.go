package parser

import (
	"errors"
	"fmt"
	"go/ast"
	"go/build"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/toyz/routectl/internal/annotations"
	"github.com/toyz/routectl/internal/diagnostics"
	"github.com/toyz/routectl/internal/models"
	"github.com/toyz/routectl/internal/registry"
)

// DefaultOutputFile is the generated file skipped while scanning
const DefaultOutputFile = "autogen_routes.go"

// ErrNoGoFiles is returned for directories without buildable non-test Go files
var ErrNoGoFiles = errors.New("no Go files found")

// Parser builds the route registry of the controllers in a package
type Parser struct {
	fileSet    *token.FileSet
	validator  *registry.Validator
	outputFile string
	logger     zerolog.Logger
}

// Option configures a Parser
type Option func(*Parser)

// WithOutputFile sets the generated file name that is skipped while scanning
func WithOutputFile(name string) Option {
	return func(p *Parser) { p.outputFile = name }
}

// WithLogger sets the trace logger
func WithLogger(l zerolog.Logger) Option {
	return func(p *Parser) { p.logger = l }
}

// NewParser creates a parser validating routes against caps
func NewParser(caps registry.Capabilities, opts ...Option) *Parser {
	p := &Parser{
		fileSet:    token.NewFileSet(),
		validator:  registry.NewValidator(registry.NewExtractorRegistry(), caps),
		outputFile: DefaultOutputFile,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type sourceFile struct {
	name string
	ast  *ast.File
}

// ParsePackage parses the non-test Go files of dir in name order.
// Annotation findings go to sink; the error covers I/O and Go syntax errors only.
func (p *Parser) ParsePackage(dir string, sink *diagnostics.Sink) (*models.PackageMetadata, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []sourceFile
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") || name == p.outputFile {
			continue
		}
		if match, err := build.Default.MatchFile(dir, name); err != nil || !match {
			continue
		}
		path := filepath.Join(dir, name)
		file, err := parser.ParseFile(p.fileSet, path, nil, parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		files = append(files, sourceFile{name: path, ast: file})
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w in directory %s", ErrNoGoFiles, dir)
	}

	pkg, err := p.build(files, sink)
	if err != nil {
		return nil, err
	}
	pkg.Dir = dir
	return pkg, nil
}

// ParseSource parses a single file held in memory
func (p *Parser) ParseSource(filename, source string, sink *diagnostics.Sink) (*models.PackageMetadata, error) {
	file, err := parser.ParseFile(p.fileSet, filename, source, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}
	pkg, err := p.build([]sourceFile{{name: filename, ast: file}}, sink)
	if err != nil {
		return nil, err
	}
	pkg.Dir = filepath.Dir(filename)
	return pkg, nil
}

type method struct {
	file *sourceFile
	decl *ast.FuncDecl
}

func (p *Parser) build(files []sourceFile, sink *diagnostics.Sink) (*models.PackageMetadata, error) {
	sort.Slice(files, func(i, j int) bool { return files[i].name < files[j].name })

	pkg := &models.PackageMetadata{Name: files[0].ast.Name.Name}
	for _, f := range files[1:] {
		if f.ast.Name.Name != pkg.Name {
			return nil, fmt.Errorf("multiple packages found: %s and %s (%s)", pkg.Name, f.ast.Name.Name, f.name)
		}
	}

	index := make(map[string]int)
	var methods []method
	for i := range files {
		f := &files[i]
		imports := fileImports(f.ast)
		for _, decl := range f.ast.Decls {
			switch d := decl.(type) {
			case *ast.GenDecl:
				if d.Tok != token.TYPE {
					continue
				}
				for _, spec := range d.Specs {
					ts := spec.(*ast.TypeSpec)
					doc := ts.Doc
					if doc == nil && len(d.Specs) == 1 {
						doc = d.Doc
					}
					ctrl, ok := p.controller(ts, doc, f.name, imports, sink)
					if !ok {
						continue
					}
					index[ctrl.Name] = len(pkg.Controllers)
					pkg.Controllers = append(pkg.Controllers, ctrl)
				}
			case *ast.FuncDecl:
				if d.Recv != nil && len(d.Recv.List) == 1 {
					methods = append(methods, method{file: f, decl: d})
				}
			}
		}
	}

	// files are sorted and declarations are visited in offset order,
	// so methods are already in source order
	seen := make(map[int]map[string]string)
	for _, m := range methods {
		anns := p.routeAnnotations(m.decl.Doc)
		if len(anns) == 0 {
			continue
		}
		recv := receiverName(m.decl.Recv.List[0].Type)
		subject := diagnostics.Subject{Controller: recv, Handler: m.decl.Name.Name}

		idx, ok := index[recv]
		if !ok {
			sink.Warnf(anns[0].loc, subject, diagnostics.OrphanRoute,
				"route annotation on a method of %s, which is not a controller; ignored", recv)
			sink.Suggest("annotate %s with //routectl::controller", recv)
			continue
		}
		ctrl := &pkg.Controllers[idx]
		if seen[idx] == nil {
			seen[idx] = make(map[string]string)
		}
		for _, ann := range anns {
			p.route(ctrl, m, ann, seen[idx], sink)
		}
	}

	for i := range pkg.Controllers {
		ctrl := &pkg.Controllers[i]
		if len(ctrl.Routes) == 0 && !ctrl.Failed {
			sink.Warnf(diagnostics.Location{File: ctrl.File, Line: ctrl.Line}, diagnostics.Subject{Controller: ctrl.Name},
				diagnostics.EmptyController, "no routes found in controller")
		}
		p.logger.Debug().
			Str("controller", ctrl.Name).
			Int("routes", len(ctrl.Routes)).
			Bool("failed", ctrl.Failed).
			Msg("controller scanned")
	}

	return pkg, nil
}

type annotation struct {
	text string
	loc  diagnostics.Location
}

// annotationsOf returns the routectl annotations of a doc comment in order
func (p *Parser) annotationsOf(doc *ast.CommentGroup) []annotation {
	if doc == nil {
		return nil
	}
	var out []annotation
	for _, c := range doc.List {
		text, ok := annotations.Strip(c.Text)
		if !ok {
			continue
		}
		pos := p.fileSet.Position(c.Slash)
		loc := diagnostics.Location{File: pos.Filename, Line: pos.Line, Column: pos.Column}
		out = append(out, annotation{text: text, loc: loc.Offset(strings.Index(c.Text, text))})
	}
	return out
}

func (p *Parser) routeAnnotations(doc *ast.CommentGroup) []annotation {
	var out []annotation
	for _, ann := range p.annotationsOf(doc) {
		if annotations.Keyword(ann.text) != annotations.ControllerKeyword {
			out = append(out, ann)
		}
	}
	return out
}

func (p *Parser) controller(ts *ast.TypeSpec, doc *ast.CommentGroup, file string, imports []models.ImportSpec, sink *diagnostics.Sink) (models.ControllerMetadata, bool) {
	for _, ann := range p.annotationsOf(doc) {
		if annotations.Keyword(ann.text) != annotations.ControllerKeyword {
			continue
		}

		subject := diagnostics.Subject{Controller: ts.Name.Name}
		mark := sink.Mark()
		ctrl := models.ControllerMetadata{
			Name:    ts.Name.Name,
			File:    file,
			Line:    p.fileSet.Position(ts.Pos()).Line,
			Imports: imports,
		}
		ctrl.Config = annotations.ParseController(ann.text, annotations.Context{Location: ann.loc, Subject: subject, Sink: sink})

		if ts.TypeParams != nil && len(ts.TypeParams.List) > 0 {
			sink.Fatalf(ann.loc, subject, diagnostics.UnsupportedSignature, "generic controller types are not supported")
		}
		ctrl.Failed = sink.FatalSince(mark)
		return ctrl, true
	}
	return models.ControllerMetadata{}, false
}

// route parses, validates and records one route annotation of a handler
func (p *Parser) route(ctrl *models.ControllerMetadata, m method, ann annotation, seen map[string]string, sink *diagnostics.Sink) {
	subject := diagnostics.Subject{Controller: ctrl.Name, Handler: m.decl.Name.Name}
	mark := sink.Mark()

	desc, ok := annotations.ParseRoute(ann.text, annotations.Context{Location: ann.loc, Subject: subject, Sink: sink})
	if ok {
		p.validator.Validate(desc, ann.loc, subject, sink)
	}

	params, ret, result := p.signature(m.decl, ann.loc, subject, sink)

	if ok {
		key := desc.Method.String() + " " + routeShape(ctrl.Config.RoutePrefix, desc.Path)
		if prev, dup := seen[key]; dup {
			sink.Fatalf(ann.loc, subject, diagnostics.DuplicateRoute,
				"duplicate route %s %s, already handled by %s", desc.Method, desc.Path, prev)
		} else {
			seen[key] = m.decl.Name.Name
		}
	}

	if sink.FatalSince(mark) {
		ctrl.Failed = true
		p.logger.Debug().Str("controller", ctrl.Name).Str("handler", m.decl.Name.Name).Msg("route rejected")
		return
	}

	ctrl.Routes = append(ctrl.Routes, models.RouteMetadata{
		Descriptor:  desc,
		HandlerName: m.decl.Name.Name,
		Params:      params,
		Return:      ret,
		ResultType:  result,
		File:        ann.loc.File,
		Line:        ann.loc.Line,
	})
	p.logger.Debug().
		Str("controller", ctrl.Name).
		Str("handler", m.decl.Name.Name).
		Str("method", desc.Method.String()).
		Str("path", desc.Path).
		Msg("route registered")
}

// signature analyses the parameters and results of a handler
func (p *Parser) signature(decl *ast.FuncDecl, loc diagnostics.Location, subject diagnostics.Subject, sink *diagnostics.Sink) ([]models.ParamInfo, models.ReturnShape, string) {
	var params []models.ParamInfo
	if decl.Type.Params != nil {
		for _, field := range decl.Type.Params.List {
			if _, variadic := field.Type.(*ast.Ellipsis); variadic {
				sink.Fatalf(loc, subject, diagnostics.UnsupportedSignature, "variadic handler parameters are not supported")
				continue
			}
			typ := types.ExprString(field.Type)
			if len(field.Names) == 0 {
				params = append(params, models.ParamInfo{Index: len(params), Type: typ})
				continue
			}
			for _, name := range field.Names {
				params = append(params, models.ParamInfo{Index: len(params), Name: name.Name, Type: typ})
			}
		}
	}

	var results []string
	if decl.Type.Results != nil {
		for _, field := range decl.Type.Results.List {
			n := len(field.Names)
			if n == 0 {
				n = 1
			}
			for i := 0; i < n; i++ {
				results = append(results, types.ExprString(field.Type))
			}
		}
	}

	switch {
	case len(results) == 0:
		return params, models.ReturnNone, ""
	case len(results) == 1 && results[0] == "error":
		return params, models.ReturnError, ""
	case len(results) == 1:
		return params, models.ReturnValue, results[0]
	case len(results) == 2 && results[1] == "error":
		return params, models.ReturnValueError, results[0]
	}

	sink.Fatalf(loc, subject, diagnostics.UnsupportedSignature,
		"unsupported handler results (%s)", strings.Join(results, ", "))
	sink.Suggest("handlers return nothing, error, a value, or (value, error)")
	return params, models.ReturnNone, ""
}

func fileImports(file *ast.File) []models.ImportSpec {
	var out []models.ImportSpec
	for _, imp := range file.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		spec := models.ImportSpec{Path: path}
		if imp.Name != nil {
			if imp.Name.Name == "_" || imp.Name.Name == "." {
				continue
			}
			spec.Name = imp.Name.Name
		}
		out = append(out, spec)
	}
	return out
}

// receiverName returns the type name of a method receiver, without pointer or type arguments
func receiverName(expr ast.Expr) string {
	for {
		switch e := expr.(type) {
		case *ast.StarExpr:
			expr = e.X
		case *ast.ParenExpr:
			expr = e.X
		case *ast.IndexExpr:
			expr = e.X
		case *ast.IndexListExpr:
			expr = e.X
		case *ast.Ident:
			return e.Name
		default:
			return types.ExprString(expr)
		}
	}
}

// routeShape returns the full path with parameter names erased, so /{id} and /:name collide
func routeShape(prefix, path string) string {
	full := strings.TrimRight(prefix, "/") + path
	segments := strings.Split(full, "/")
	for i, seg := range segments {
		if strings.HasPrefix(seg, ":") || strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") && seg != "{*}" {
			segments[i] = "{}"
		}
	}
	return strings.Join(segments, "/")
}
