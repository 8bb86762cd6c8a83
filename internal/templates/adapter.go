// Package templates synthesizes the Go source of generated adapters and routers.
package templates

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/toyz/routectl/internal/models"
	"github.com/toyz/routectl/internal/planner"
	"github.com/toyz/routectl/internal/registry"
)

// NoStateType is the state type of controllers without State parameters
const NoStateType = "routectl.NoState"

// AdapterData is the view of one adapter handed to the adapter template
type AdapterData struct {
	FuncName    string
	OptionsVar  string
	Controller  string
	Handler     string
	StateType   string
	HasOptions  bool
	Headers     []models.Header
	ContentType string
	Steps       []string
}

// Synthesizer emits parameter-binding adapters from binding plans
type Synthesizer struct {
	templates *TemplateRegistry
	parsers   *registry.PathParsers
}

// NewSynthesizer creates a synthesizer using the given path conversions
func NewSynthesizer(templates *TemplateRegistry, parsers *registry.PathParsers) *Synthesizer {
	return &Synthesizer{templates: templates, parsers: parsers}
}

// NeedsAdapter reports whether the handler must be wrapped
func NeedsAdapter(plan models.BindingPlan) bool {
	return plan.NeedsAdapter || !plan.Native
}

// Adapter renders the adapter of plan for a controller with the given state type
func (s *Synthesizer) Adapter(plan models.BindingPlan, stateType string, imports []models.ImportSpec) (string, error) {
	if stateType == "" {
		stateType = NoStateType
	}
	handler := plan.Route.HandlerName
	data := AdapterData{
		FuncName:    AdapterName(plan.Controller, plan.Symbol()),
		OptionsVar:  OptionsName(plan.Controller, plan.Symbol()),
		Controller:  plan.Controller,
		Handler:     handler,
		StateType:   stateType,
		HasOptions:  plan.Augments(),
		Headers:     plan.Headers,
		ContentType: plan.ContentType,
	}

	b := &stepBuilder{}

	for _, binding := range plan.Bindings {
		switch binding.Kind {
		case models.Path:
			s.pathSteps(b, binding)
		case models.State:
			b.add("%s := state", b.v(binding.Params[0]))
		case models.Query:
			b.bind("routectl.BindQuery", binding.Params[0])
		case models.HeaderParam:
			b.add("hdr := c.Request()")
			for _, p := range binding.Params {
				fn := "HeaderValue"
				if p.Type == "*string" {
					fn = "HeaderPtr"
				}
				b.add("%s := routectl.%s(hdr, %s)", b.v(p), fn, strconv.Quote(HeaderName(p.Name)))
			}
		case models.CookieParam:
			b.add("jar := routectl.CookieJarOf(c)")
			for _, p := range binding.Params {
				fn := "Value"
				if p.Type == "*string" {
					fn = "Ptr"
				}
				b.add("%s := jar.%s(%s)", b.v(p), fn, strconv.Quote(p.Name))
			}
		case models.SessionParam:
			b.add("sess := routectl.SessionOf(c)")
			for _, p := range binding.Params {
				if elem, ok := strings.CutPrefix(p.Type, "*"); ok {
					b.add("%s := routectl.SessionPtr[%s](c.Context(), sess, %s)", b.v(p), elem, strconv.Quote(p.Name))
					continue
				}
				b.add("%s := routectl.SessionValue[%s](c.Context(), sess, %s)", b.v(p), p.Type, strconv.Quote(p.Name))
			}
		case models.Json:
			b.bind("routectl.BindJSON", binding.Params[0])
		case models.Form:
			b.bind("routectl.BindForm", binding.Params[0])
		case models.Bytes:
			b.body("routectl.BodyBytes", "[]byte", binding.Params[0])
		case models.Text, models.Html, models.Xml, models.JavaScript:
			b.body("routectl.BodyText", "string", binding.Params[0])
		case models.None:
			for _, p := range binding.Params {
				switch {
				case planner.IsRuntimeType(p.Type, "RequestContext", imports):
					b.add("%s := c", b.v(p))
				case planner.IsContextType(p.Type, imports):
					b.add("%s := c.Context()", b.v(p))
				default:
					b.add("var %s %s", b.v(p), p.Type)
				}
			}
		default:
			return "", fmt.Errorf("%s.%s: no synthesis for %s binding", plan.Controller, handler, binding.Kind)
		}
	}

	opts := "nil"
	if data.HasOptions {
		opts = data.OptionsVar
		b.add("%s.Apply(c)", opts)
	}

	args := make([]string, len(plan.CallArgs))
	for i, p := range plan.CallArgs {
		args[i] = b.v(p)
	}
	call := fmt.Sprintf("ctrl.%s(%s)", handler, strings.Join(args, ", "))

	switch plan.Route.Return {
	case models.ReturnNone:
		b.add("%s", call)
		b.add("return routectl.Render(c, nil, %s)", opts)
	case models.ReturnError:
		b.add("if err := %s; err != nil {\nreturn err\n}", call)
		b.add("return routectl.Render(c, nil, %s)", opts)
	case models.ReturnValue:
		b.add("result := %s", call)
		b.add("return routectl.Render(c, result, %s)", opts)
	case models.ReturnValueError:
		b.add("result, err := %s", call)
		b.add("if err != nil {\nreturn err\n}")
		b.add("return routectl.Render(c, result, %s)", opts)
	}

	data.Steps = b.steps
	return s.templates.Execute("adapter", data)
}

func (s *Synthesizer) pathSteps(b *stepBuilder, binding models.Binding) {
	names := make([]string, len(binding.Params))
	for i, p := range binding.Params {
		names[i] = strconv.Quote(p.Name)
	}
	b.add("raw, err := routectl.PathValues(c, %s)", strings.Join(names, ", "))
	b.add("if err != nil {\nreturn err\n}")
	for i, p := range binding.Params {
		src := fmt.Sprintf("raw[%d]", i)
		if p.Type == "string" {
			b.add("%s := %s", b.v(p), src)
			continue
		}
		b.add("%s, err := %s", b.v(p), s.parsers.For(p.Type).Call(src))
		b.add("if err != nil {\nreturn routectl.ErrBadRequest(%s, err)\n}",
			strconv.Quote(fmt.Sprintf("invalid path parameter %q", p.Name)))
	}
}

type stepBuilder struct {
	steps []string
}

// v returns the local variable holding a parameter's value
func (b *stepBuilder) v(p models.ParamInfo) string {
	return "p" + strconv.Itoa(p.Index)
}

func (b *stepBuilder) add(format string, args ...any) {
	b.steps = append(b.steps, fmt.Sprintf(format, args...))
}

// bind decodes into a value or into a freshly allocated pointer
func (b *stepBuilder) bind(fn string, p models.ParamInfo) {
	if elem, ok := strings.CutPrefix(p.Type, "*"); ok {
		b.add("%s := new(%s)", b.v(p), elem)
		b.add("if err := %s(c, %s); err != nil {\nreturn err\n}", fn, b.v(p))
		return
	}
	b.add("var %s %s", b.v(p), p.Type)
	b.add("if err := %s(c, &%s); err != nil {\nreturn err\n}", fn, b.v(p))
}

// body reads the payload and converts it when the parameter has a named type.
// Pointer parameters receive the address of the converted value.
func (b *stepBuilder) body(fn, native string, p models.ParamInfo) {
	if p.Type == native {
		b.add("%s, err := %s(c)", b.v(p), fn)
		b.add("if err != nil {\nreturn err\n}")
		return
	}
	b.add("body, err := %s(c)", fn)
	b.add("if err != nil {\nreturn err\n}")

	elem, ptr := strings.CutPrefix(p.Type, "*")
	switch {
	case !ptr:
		b.add("%s := %s(body)", b.v(p), p.Type)
	case elem == native:
		b.add("%s := &body", b.v(p))
	default:
		b.add("val := %s(body)", elem)
		b.add("%s := &val", b.v(p))
	}
}
