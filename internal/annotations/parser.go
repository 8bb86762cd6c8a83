// Package annotations parses the argument text of routectl annotations.
//
// Annotations are line comments of the form
//
//	//routectl::controller(path = "/users", middleware = auth.Required, header("X-A", "1"))
//	//routectl::get("/{id}", extract(id = Path), content_type("application/json"))
//
// The text after the "//routectl::" prefix is parsed with a real grammar:
//
//	annotation := Ident ( "(" argList? ")" )?
//	argList    := arg ( "," arg )* ","?
//	arg        := String | Number | reference ( "(" argList? ")" | "=" value )?
//	value      := String | Number | reference
//	reference  := Ident ( "." Ident )*
//
// and then lowered to models.ControllerConfig or models.RouteDescriptor.
// Findings are reported to the diagnostics.Sink passed in.
package annotations

import (
	"errors"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/routectl/internal/diagnostics"
	"github.com/toyz/routectl/internal/models"
)

// Prefix marks a comment line as a routectl annotation
const Prefix = "//routectl::"

// ControllerKeyword is the annotation keyword placed on controller types
const ControllerKeyword = "controller"

// Strip returns the annotation text of a comment line, without the prefix
func Strip(comment string) (string, bool) {
	comment = strings.TrimSpace(comment)
	if !strings.HasPrefix(comment, Prefix) {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(comment, Prefix)), true
}

// Keyword returns the leading identifier of annotation text
func Keyword(text string) string {
	end := strings.IndexFunc(text, func(r rune) bool {
		return !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	})
	if end < 0 {
		return text
	}
	return text[:end]
}

// Context locates annotation text for diagnostics
type Context struct {
	Location diagnostics.Location // position of the first character of the text
	Subject  diagnostics.Subject
	Sink     *diagnostics.Sink
}

func (c Context) at(pos lexer.Position) diagnostics.Location {
	return c.Location.Offset(pos.Column - 1)
}

// parse runs the grammar and reports syntax errors as fatal
func (c Context) parse(text string) (*callNode, bool) {
	node, err := callParser.ParseString(c.Location.File, text)
	if err != nil {
		loc := c.Location
		msg := err.Error()
		var perr participle.Error
		if errors.As(err, &perr) {
			loc = c.at(perr.Position())
			msg = perr.Message()
		}
		c.Sink.Fatalf(loc, c.Subject, diagnostics.SyntaxError, "malformed annotation %q: %s", text, msg)
		return nil, false
	}
	return node, true
}

// ParseController lowers the text of a controller annotation.
// The keyword must be "controller"; its argument list is optional.
func ParseController(text string, ctx Context) models.ControllerConfig {
	var cfg models.ControllerConfig
	node, ok := ctx.parse(text)
	if !ok {
		return cfg
	}
	if node.Keyword != ControllerKeyword {
		ctx.Sink.Fatalf(ctx.at(node.Pos), ctx.Subject, diagnostics.SyntaxError,
			"expected %q annotation, found %q", ControllerKeyword, node.Keyword)
		return cfg
	}

	for _, arg := range node.Args {
		loc := ctx.at(arg.Pos)
		named := arg.Named
		if named == nil {
			ctx.Sink.Warnf(loc, ctx.Subject, diagnostics.UnknownArgument,
				"unexpected positional argument %s in controller annotation", arg.describe())
			continue
		}

		key := named.Ref.String()
		switch {
		case named.Value != nil && key == "path":
			prefix, ok := stringValue(named.Value)
			if !ok {
				ctx.Sink.Warnf(loc, ctx.Subject, diagnostics.MalformedArgument, "path must be a string literal")
				continue
			}
			if strings.TrimSpace(prefix) == "" {
				ctx.Sink.Warnf(loc, ctx.Subject, diagnostics.EmptyPath, "empty controller path is ignored")
				continue
			}
			cfg.RoutePrefix = NormalizePath(prefix)

		case named.Value != nil && key == "middleware":
			ref := named.Value.Ref
			if ref == nil {
				ctx.Sink.Fatalf(ctx.at(named.Value.Pos), ctx.Subject, diagnostics.InvalidMiddleware,
					"unparsable middleware reference %s", valueText(named.Value))
				ctx.Sink.Suggest("use an identifier or a selector such as auth.Required")
				continue
			}
			cfg.Middlewares = append(cfg.Middlewares, middlewareRef(ref))

		case named.Call && key == "header":
			if h, ok := lowerHeader(named, ctx); ok {
				cfg.Headers = append(cfg.Headers, h)
			}

		case named.Call && key == "content_type":
			if ct, ok := lowerContentType(named, ctx); ok {
				cfg.ContentType = ct
			}

		default:
			ctx.Sink.Warnf(loc, ctx.Subject, diagnostics.UnknownArgument,
				"unknown controller argument %q", key)
			ctx.Sink.Suggest("valid arguments are path, middleware, header and content_type")
		}
	}
	return cfg
}

// ParseRoute lowers the text of a route annotation. It returns false when a
// fatal diagnostic was reported for the route.
func ParseRoute(text string, ctx Context) (models.RouteDescriptor, bool) {
	mark := ctx.Sink.Mark()
	route := models.RouteDescriptor{
		Path:       "/",
		Extractors: make(map[string]models.ExtractorKind),
	}

	node, ok := ctx.parse(text)
	if !ok {
		return route, false
	}

	method, ok := models.ParseMethod(node.Keyword)
	if !ok {
		ctx.Sink.Fatalf(ctx.at(node.Pos), ctx.Subject, diagnostics.UnknownMethod,
			"unknown HTTP method %q", node.Keyword)
		ctx.Sink.Suggest("valid methods are %s", methodList())
		return route, false
	}
	route.Method = method

	pathSeen := false
	for _, arg := range node.Args {
		loc := ctx.at(arg.Pos)
		if lit, ok := arg.stringArg(); ok {
			if pathSeen {
				ctx.Sink.Warnf(loc, ctx.Subject, diagnostics.MalformedArgument,
					"extra path literal %s is ignored", *arg.String)
				continue
			}
			pathSeen = true
			route.Path = NormalizePath(lit)
			continue
		}

		named := arg.Named
		if named == nil {
			ctx.Sink.Warnf(loc, ctx.Subject, diagnostics.UnknownArgument,
				"unexpected argument %s in route annotation", arg.describe())
			continue
		}

		key := named.Ref.String()
		switch {
		case key == "extract":
			if !named.Call {
				ctx.Sink.Fatalf(loc, ctx.Subject, diagnostics.InvalidExtractorSyntax,
					"extract must be called as extract(name = Kind, ...)")
				continue
			}
			lowerExtractors(named, route.Extractors, ctx)

		case named.Call && key == "header":
			if h, ok := lowerHeader(named, ctx); ok {
				route.Headers = append(route.Headers, h)
			}

		case named.Call && key == "content_type":
			if ct, ok := lowerContentType(named, ctx); ok {
				route.ContentType = ct
			}

		default:
			ctx.Sink.Warnf(loc, ctx.Subject, diagnostics.UnknownArgument,
				"unknown route argument %q", key)
			ctx.Sink.Suggest("valid arguments are a path literal, extract, header and content_type")
		}
	}

	return route, !ctx.Sink.FatalSince(mark)
}

func lowerExtractors(call *namedNode, into map[string]models.ExtractorKind, ctx Context) {
	for _, arg := range call.Args {
		loc := ctx.at(arg.Pos)
		if arg.Named == nil || arg.Named.Value == nil {
			ctx.Sink.Fatalf(loc, ctx.Subject, diagnostics.InvalidExtractorSyntax,
				"invalid extractor %s, expected name = Kind", arg.describe())
			continue
		}
		name, ok := arg.Named.Ref.ident()
		if !ok {
			ctx.Sink.Fatalf(loc, ctx.Subject, diagnostics.InvalidExtractorSyntax,
				"extractor name %q must be a parameter name", arg.Named.Ref.String())
			continue
		}
		subject := ctx.Subject.WithParam(name)

		value := arg.Named.Value
		kindName := valueText(value)
		if value.Ref != nil {
			kindName = value.Ref.String()
		}
		kind, ok := models.ParseExtractorKind(kindName)
		if !ok {
			ctx.Sink.Fatalf(ctx.at(value.Pos), subject, diagnostics.UnknownExtractor,
				"unknown extractor kind %q for parameter %q", kindName, name)
			ctx.Sink.Suggest("valid kinds are %s", kindList())
			continue
		}

		if prev, dup := into[name]; dup {
			ctx.Sink.Warnf(loc, subject, diagnostics.DuplicateExtractor,
				"parameter %q is extracted more than once (%s, then %s); the last entry wins", name, prev, kind)
		}
		into[name] = kind
	}
}

// lowerHeader accepts header("name", "value") and header(name = "value")
func lowerHeader(call *namedNode, ctx Context) (models.Header, bool) {
	loc := ctx.at(call.Pos)
	var h models.Header
	switch {
	case len(call.Args) == 2 && call.Args[0].String != nil && call.Args[1].String != nil:
		h.Name, _ = call.Args[0].stringArg()
		h.Value, _ = call.Args[1].stringArg()
	case len(call.Args) == 1 && call.Args[0].Named != nil && call.Args[0].Named.Value != nil &&
		call.Args[0].Named.Value.String != nil:
		name, ok := call.Args[0].Named.Ref.ident()
		if !ok {
			ctx.Sink.Warnf(loc, ctx.Subject, diagnostics.MalformedArgument,
				"header name %q must be an identifier or a string literal", call.Args[0].Named.Ref.String())
			return h, false
		}
		h.Name = name
		h.Value = unquote(*call.Args[0].Named.Value.String)
	default:
		ctx.Sink.Warnf(loc, ctx.Subject, diagnostics.MalformedArgument, "malformed header argument list, header is skipped")
		ctx.Sink.Suggest(`expected header("name", "value") or header(name = "value")`)
		return h, false
	}

	h.Name = strings.TrimSpace(h.Name)
	if h.Name == "" {
		ctx.Sink.Warnf(loc, ctx.Subject, diagnostics.EmptyHeader, "empty header name, header is skipped")
		return h, false
	}
	if h.Value == "" {
		ctx.Sink.Warnf(loc, ctx.Subject, diagnostics.EmptyHeader, "header %q has an empty value", h.Name)
	}
	return h, true
}

func lowerContentType(call *namedNode, ctx Context) (string, bool) {
	if len(call.Args) != 1 || call.Args[0].String == nil {
		ctx.Sink.Warnf(ctx.at(call.Pos), ctx.Subject, diagnostics.MalformedArgument,
			"content_type expects exactly one string literal, argument is ignored")
		return "", false
	}
	ct, _ := call.Args[0].stringArg()
	return ct, true
}

func middlewareRef(ref *refNode) models.MiddlewareRef {
	mw := models.MiddlewareRef{Expr: ref.String()}
	if len(ref.Parts) > 1 {
		mw.Package = ref.Parts[0]
	}
	return mw
}

func stringValue(v *valueNode) (string, bool) {
	if v.String == nil {
		return "", false
	}
	return unquote(*v.String), true
}

func valueText(v *valueNode) string {
	switch {
	case v.String != nil:
		return *v.String
	case v.Number != nil:
		return *v.Number
	case v.Ref != nil:
		return v.Ref.String()
	}
	return ""
}

// NormalizePath trims the path and makes sure it starts with "/"
func NormalizePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

func kindList() string {
	names := make([]string, len(models.AnnotationKinds))
	for i, k := range models.AnnotationKinds {
		names[i] = k.String()
	}
	return strings.Join(names, ", ")
}

func methodList() string {
	names := make([]string, len(models.AllMethods))
	for i, m := range models.AllMethods {
		names[i] = strings.ToLower(string(m))
	}
	return strings.Join(names, ", ")
}
