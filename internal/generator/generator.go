// Package generator assembles the routers of a package's controllers into one
// generated Go file.
package generator

import (
	"fmt"
	"go/ast"
	goparser "go/parser"
	"go/token"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"

	"github.com/toyz/routectl/internal/diagnostics"
	"github.com/toyz/routectl/internal/models"
	"github.com/toyz/routectl/internal/parser"
	"github.com/toyz/routectl/internal/planner"
	"github.com/toyz/routectl/internal/registry"
	"github.com/toyz/routectl/internal/templates"
	"github.com/toyz/routectl/internal/utils"
)

// DefaultOutputFile is the name of the generated file in each package
const DefaultOutputFile = parser.DefaultOutputFile

// Generator turns parsed packages into generated route files
type Generator struct {
	templates  *templates.TemplateRegistry
	synth      *templates.Synthesizer
	outputFile string
	logger     zerolog.Logger
}

// Option configures a Generator
type Option func(*Generator)

// WithOutputFile sets the generated file name
func WithOutputFile(name string) Option {
	return func(g *Generator) { g.outputFile = name }
}

// WithLogger sets the trace logger
func WithLogger(l zerolog.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// WithPathParsers replaces the path parameter conversions
func WithPathParsers(parsers *registry.PathParsers) Option {
	return func(g *Generator) { g.synth = templates.NewSynthesizer(g.templates, parsers) }
}

// NewGenerator creates a generator
func NewGenerator(opts ...Option) *Generator {
	tr := templates.NewTemplateRegistry()
	g := &Generator{
		templates:  tr,
		synth:      templates.NewSynthesizer(tr, registry.NewPathParsers()),
		outputFile: DefaultOutputFile,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GeneratedFile is the rendered output of one package
type GeneratedFile struct {
	Path        string
	Content     []byte
	Controllers []string
	Routes      int
	Adapters    int
}

// RouteData is one registration of the router template
type RouteData struct {
	Method  string
	Path    string
	Handler string
	Target  string
}

// RouterData is the view handed to the router template
type RouterData struct {
	Package     string
	Controller  string
	StateType   string
	Stateless   bool
	Routes      []RouteData
	Middlewares []string
	Prefix      string
}

// FileData is the view handed to the file template
type FileData struct {
	Package  string
	Imports  []models.ImportSpec
	Sections []string
}

// Generate renders the routes file of pkg. The package import path identifies
// the routes in RouteInfo. Controllers with fatal diagnostics are skipped and
// the result is nil when no controller remains.
func (g *Generator) Generate(pkg *models.PackageMetadata, sink *diagnostics.Sink) (*GeneratedFile, error) {
	out := &GeneratedFile{Path: filepath.Join(pkg.Dir, g.outputFile)}
	imports := newImportSet()
	var sections []string

	pkgPath := pkg.ImportPath
	if pkgPath == "" {
		pkgPath = pkg.Name
	}

	for i := range pkg.Controllers {
		ctrl := &pkg.Controllers[i]
		if ctrl.Failed {
			continue
		}
		plan := planner.PlanController(ctrl, sink)
		if ctrl.Failed {
			g.logger.Debug().Str("controller", ctrl.Name).Msg("controller skipped after planning")
			continue
		}

		ctrlSections, adapters, err := g.controller(plan, pkgPath)
		if err != nil {
			return nil, &models.GeneratorError{
				Type:    models.ErrorTypeGeneration,
				File:    ctrl.File,
				Line:    ctrl.Line,
				Message: fmt.Sprintf("failed to generate router for %s", ctrl.Name),
				Cause:   err,
			}
		}
		imports.offer(ctrl.Imports)

		sections = append(sections, ctrlSections...)
		out.Controllers = append(out.Controllers, ctrl.Name)
		out.Routes += len(plan.Routes)
		out.Adapters += adapters

		g.logger.Debug().
			Str("controller", ctrl.Name).
			Str("state", plan.StateType).
			Int("routes", len(plan.Routes)).
			Int("adapters", adapters).
			Msg("router assembled")
	}

	if len(out.Controllers) == 0 {
		return nil, nil
	}

	// render once without user imports to learn which ones the code names
	draft, err := g.render(pkg.Name, imports, sections)
	if err != nil {
		return nil, &models.GeneratorError{Type: models.ErrorTypeGeneration, File: out.Path, Message: "failed to render file", Cause: err}
	}
	if err := imports.resolve(out.Path, draft); err != nil {
		return nil, &models.GeneratorError{Type: models.ErrorTypeGeneration, File: out.Path, Message: "failed to resolve imports", Cause: err}
	}
	src, err := g.render(pkg.Name, imports, sections)
	if err != nil {
		return nil, &models.GeneratorError{Type: models.ErrorTypeGeneration, File: out.Path, Message: "failed to render file", Cause: err}
	}

	formatted, err := utils.FormatGoSource(out.Path, []byte(src))
	if err != nil {
		return nil, &models.GeneratorError{Type: models.ErrorTypeGeneration, File: out.Path, Message: "generated code does not format", Cause: err}
	}
	out.Content = formatted
	return out, nil
}

func (g *Generator) render(pkgName string, imports *importSet, sections []string) (string, error) {
	return g.templates.Execute("file", FileData{
		Package:  pkgName,
		Imports:  imports.sorted(),
		Sections: sections,
	})
}

// controller renders the adapters and router of one planned controller
func (g *Generator) controller(plan planner.ControllerPlan, pkgPath string) ([]string, int, error) {
	ctrl := plan.Controller
	stateType := plan.StateType
	if stateType == "" {
		stateType = templates.NoStateType
	}

	data := RouterData{
		Package:    pkgPath,
		Controller: ctrl.Name,
		StateType:  stateType,
		Stateless:  plan.StateType == "",
		Prefix:     ctrl.Config.RoutePrefix,
	}
	for _, mw := range ctrl.Config.Middlewares {
		data.Middlewares = append(data.Middlewares, mw.Expr)
	}

	var sections []string
	adapters := 0
	for _, route := range plan.Routes {
		handler := route.Route.HandlerName
		target := fmt.Sprintf("routectl.Stateless[%s](c.%s)", stateType, handler)
		if templates.NeedsAdapter(route) {
			src, err := g.synth.Adapter(route, plan.StateType, ctrl.Imports)
			if err != nil {
				return nil, 0, err
			}
			sections = append(sections, src)
			target = fmt.Sprintf("%s(c)", templates.AdapterName(ctrl.Name, route.Symbol()))
			adapters++
		}
		data.Routes = append(data.Routes, RouteData{
			Method:  route.Route.Descriptor.Method.String(),
			Path:    route.Route.Descriptor.Path,
			Handler: handler,
			Target:  target,
		})
	}

	router, err := g.templates.Execute("router", data)
	if err != nil {
		return nil, 0, err
	}
	return append(sections, router), adapters, nil
}

// importSet collects the imports the generated file references
type importSet struct {
	byName     map[string]models.ImportSpec
	candidates []models.ImportSpec
}

func newImportSet() *importSet {
	s := &importSet{byName: make(map[string]models.ImportSpec)}
	s.byName["routectl"] = models.ImportSpec{Path: planner.RuntimeImportPath}
	return s
}

// offer records the imports of a controller's file as available
func (s *importSet) offer(imports []models.ImportSpec) {
	s.candidates = append(s.candidates, imports...)
}

// resolve keeps the offered imports whose local name qualifies an identifier
// in the rendered sections
func (s *importSet) resolve(filename, src string) error {
	file, err := goparser.ParseFile(token.NewFileSet(), filename, src, goparser.SkipObjectResolution)
	if err != nil {
		return fmt.Errorf("rendered code does not parse: %w", err)
	}

	used := make(map[string]bool)
	ast.Inspect(file, func(n ast.Node) bool {
		if sel, ok := n.(*ast.SelectorExpr); ok {
			if id, ok := sel.X.(*ast.Ident); ok {
				used[id.Name] = true
			}
		}
		return true
	})

	for _, imp := range s.candidates {
		name := imp.LocalName()
		if !used[name] {
			continue
		}
		if existing, ok := s.byName[name]; ok {
			if existing.Path != imp.Path {
				return fmt.Errorf("%s refers to both %q and %q", name, existing.Path, imp.Path)
			}
			continue
		}
		s.byName[name] = imp
	}
	return nil
}

func (s *importSet) sorted() []models.ImportSpec {
	out := make([]models.ImportSpec, 0, len(s.byName))
	for _, spec := range s.byName {
		out = append(out, spec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Name < out[j].Name
	})
	return out
}
