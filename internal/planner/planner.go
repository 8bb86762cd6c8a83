// Package planner resolves, per handler, which extractor feeds each parameter
// and the order in which the generated adapter performs the extractions.
package planner

import (
	"strconv"
	"strings"

	"github.com/toyz/routectl/internal/diagnostics"
	"github.com/toyz/routectl/internal/models"
	"github.com/toyz/routectl/internal/registry"
)

// RuntimeImportPath is the import path of the generated code's runtime
const RuntimeImportPath = "github.com/toyz/routectl/pkg/routectl"

// ControllerPlan is the binding plan of every route of a controller
type ControllerPlan struct {
	Controller *models.ControllerMetadata
	StateType  string // empty for stateless controllers
	Routes     []models.BindingPlan
}

// PlanController plans every route of ctrl and checks that all State
// parameters agree on one type. It marks the controller failed on a fatal finding.
func PlanController(ctrl *models.ControllerMetadata, sink *diagnostics.Sink) ControllerPlan {
	mark := sink.Mark()
	plan := ControllerPlan{Controller: ctrl}

	var stateOwner string
	for _, route := range ctrl.Routes {
		p := Plan(ctrl, route, sink)
		if p.StateType != "" {
			switch {
			case plan.StateType == "":
				plan.StateType = p.StateType
				stateOwner = route.HandlerName
			case plan.StateType != p.StateType:
				sink.Fatalf(routeLocation(route), diagnostics.Subject{Controller: ctrl.Name, Handler: route.HandlerName},
					diagnostics.StateConflict, "State type %s conflicts with %s used by %s",
					p.StateType, plan.StateType, stateOwner)
				sink.Suggest("every handler of a controller must share one state type")
			}
		}
		plan.Routes = append(plan.Routes, p)
	}
	assignVariants(plan.Routes)

	if sink.FatalSince(mark) {
		ctrl.Failed = true
	}
	return plan
}

// assignVariants names the routes of handlers bound more than once after their
// method, adding an ordinal when the method repeats too: ShowGet, ShowHead, ListGet1, ListGet2.
func assignVariants(routes []models.BindingPlan) {
	perHandler := make(map[string]int)
	perMethod := make(map[string]int)
	for _, r := range routes {
		perHandler[r.Route.HandlerName]++
		perMethod[r.Route.HandlerName+" "+r.Route.Descriptor.Method.String()]++
	}

	seen := make(map[string]int)
	for i := range routes {
		r := &routes[i]
		if perHandler[r.Route.HandlerName] < 2 {
			continue
		}
		method := r.Route.Descriptor.Method.String()
		if method != "" {
			r.Variant = method[:1] + strings.ToLower(method[1:])
		}
		key := r.Route.HandlerName + " " + method
		if perMethod[key] > 1 {
			seen[key]++
			r.Variant += strconv.Itoa(seen[key])
		}
	}
}

// Plan resolves the binding plan of one route
func Plan(ctrl *models.ControllerMetadata, route models.RouteMetadata, sink *diagnostics.Sink) models.BindingPlan {
	loc := routeLocation(route)
	subject := diagnostics.Subject{Controller: ctrl.Name, Handler: route.HandlerName}
	extractors := route.Descriptor.Extractors

	plan := models.BindingPlan{
		Controller:  ctrl.Name,
		Route:       route,
		Headers:     MergeHeaders(ctrl.Config.Headers, route.Descriptor.Headers),
		ContentType: route.Descriptor.ContentType,
	}
	if plan.ContentType == "" {
		plan.ContentType = ctrl.Config.ContentType
	}

	declared := make(map[string]bool)
	for _, param := range route.Params {
		if !param.Blank() {
			declared[param.Name] = true
		}
	}
	for _, name := range registry.SortedKeys(extractors) {
		if !declared[name] {
			sink.Warnf(loc, subject.WithParam(name), diagnostics.DanglingExtractor,
				"extractor %s = %s has no matching parameter; ignored", name, extractors[name])
		}
	}

	groups := make(map[models.ExtractorKind][]models.ParamInfo)
	var queries, passthrough []models.ParamInfo
	var body *models.ParamInfo

	for _, param := range route.Params {
		if !param.Blank() {
			if kind, ok := extractors[param.Name]; ok {
				param.Kind = kind
			}
		}
		plan.CallArgs = append(plan.CallArgs, param)

		ps := subject.WithParam(param.Name)
		switch kind := param.Kind; {
		case kind == models.None:
			if !param.Blank() && !isPassthroughType(param.Type, ctrl.Imports) {
				sink.Warnf(loc, ps, diagnostics.UnboundParameter,
					"parameter %q has no extractor, it will receive no managed data", param.Name)
				sink.Suggest("add extract(%s = Kind) or rename it to _", param.Name)
			}
			passthrough = append(passthrough, param)

		case kind == models.Path:
			if strings.HasPrefix(param.Type, "*") {
				sink.Fatalf(loc, ps, diagnostics.UnsupportedParamType,
					"Path parameter %q cannot be a pointer (%s)", param.Name, param.Type)
			}
			groups[kind] = append(groups[kind], param)

		case kind == models.State:
			if len(groups[kind]) > 0 {
				sink.Fatalf(loc, ps, diagnostics.StateConflict,
					"handler declares more than one State parameter (%s and %s)", groups[kind][0].Name, param.Name)
				continue
			}
			plan.StateType = param.Type
			groups[kind] = append(groups[kind], param)

		case kind == models.Query:
			queries = append(queries, param)

		case kind == models.HeaderParam || kind == models.CookieParam:
			if param.Type != "string" && param.Type != "*string" {
				sink.Fatalf(loc, ps, diagnostics.UnsupportedParamType,
					"%s parameter %q must be string or *string, found %s", kind, param.Name, param.Type)
			}
			groups[kind] = append(groups[kind], param)

		case kind == models.SessionParam:
			groups[kind] = append(groups[kind], param)

		case kind.IsBody():
			p := param
			body = &p
		}
	}

	if paths := groups[models.Path]; len(paths) > 0 {
		plan.Bindings = append(plan.Bindings, models.Binding{Kind: models.Path, Params: byPlaceholder(paths, route.Descriptor.Path)})
	}
	if state := groups[models.State]; len(state) > 0 {
		plan.Bindings = append(plan.Bindings, models.Binding{Kind: models.State, Params: state})
	}
	for _, q := range queries {
		plan.Bindings = append(plan.Bindings, models.Binding{Kind: models.Query, Params: []models.ParamInfo{q}})
	}
	for _, kind := range []models.ExtractorKind{models.HeaderParam, models.CookieParam, models.SessionParam} {
		if params := groups[kind]; len(params) > 0 {
			plan.Bindings = append(plan.Bindings, models.Binding{Kind: kind, Params: params})
		}
	}
	if body != nil {
		plan.Bindings = append(plan.Bindings, models.Binding{Kind: body.Kind, Params: []models.ParamInfo{*body}})
	}
	if len(passthrough) > 0 {
		plan.Bindings = append(plan.Bindings, models.Binding{Kind: models.None, Params: passthrough})
	}

	managed := false
	for _, param := range plan.CallArgs {
		if param.Kind != models.None {
			managed = true
			break
		}
	}
	plan.NeedsAdapter = managed || plan.Augments()
	plan.Native = len(route.Params) == 1 &&
		IsRuntimeType(route.Params[0].Type, "RequestContext", ctrl.Imports) &&
		route.Return == models.ReturnError

	return plan
}

// MergeHeaders applies route headers over controller headers. Names compare
// case-insensitively; a known name is updated in place and new names are appended.
func MergeHeaders(controller, route []models.Header) []models.Header {
	var merged []models.Header
	for _, list := range [][]models.Header{controller, route} {
		for _, h := range list {
			replaced := false
			for i := range merged {
				if strings.EqualFold(merged[i].Name, h.Name) {
					merged[i].Value = h.Value
					replaced = true
					break
				}
			}
			if !replaced {
				merged = append(merged, h)
			}
		}
	}
	return merged
}

// IsRuntimeType reports whether typ names the given type of the routectl runtime,
// however the file imports it
func IsRuntimeType(typ, name string, imports []models.ImportSpec) bool {
	qual, sel, ok := strings.Cut(typ, ".")
	if !ok || sel != name {
		return false
	}
	for _, imp := range imports {
		if imp.Path == RuntimeImportPath && imp.LocalName() == qual {
			return true
		}
	}
	return false
}

// isPassthroughType reports whether a None parameter is fed from the request itself
func isPassthroughType(typ string, imports []models.ImportSpec) bool {
	if IsRuntimeType(typ, "RequestContext", imports) {
		return true
	}
	return IsContextType(typ, imports)
}

// IsContextType reports whether typ is context.Context
func IsContextType(typ string, imports []models.ImportSpec) bool {
	qual, sel, ok := strings.Cut(typ, ".")
	if !ok || sel != "Context" {
		return false
	}
	for _, imp := range imports {
		if imp.Path == "context" && imp.LocalName() == qual {
			return true
		}
	}
	return false
}

// byPlaceholder orders path parameters by their placeholder position
func byPlaceholder(params []models.ParamInfo, path string) []models.ParamInfo {
	out := make([]models.ParamInfo, 0, len(params))
	used := make(map[string]bool)
	for _, name := range registry.Placeholders(path) {
		for _, p := range params {
			if p.Name == name && !used[name] {
				out = append(out, p)
				used[name] = true
			}
		}
	}
	for _, p := range params {
		if !used[p.Name] {
			out = append(out, p)
		}
	}
	return out
}

func routeLocation(route models.RouteMetadata) diagnostics.Location {
	return diagnostics.Location{File: route.File, Line: route.Line}
}
