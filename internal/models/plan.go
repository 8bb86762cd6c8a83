package models

// Binding is one extraction step of an adapter
type Binding struct {
	Kind ExtractorKind
	// Params bound by this step. Path bindings with more than one parameter
	// are a positional tuple; context bindings list every reader of the source.
	Params []ParamInfo
}

// IsTuple reports whether the binding extracts several path values at once
func (b Binding) IsTuple() bool {
	return b.Kind == Path && len(b.Params) > 1
}

// BindingPlan is the resolved extraction plan of one handler
type BindingPlan struct {
	Controller   string
	Route        RouteMetadata
	Bindings     []Binding
	CallArgs     []ParamInfo // declared order
	Headers      []Header    // controller headers merged with route headers
	ContentType  string
	NeedsAdapter bool
	Native       bool   // handler is already func(routectl.RequestContext) error
	StateType    string // declared type of the State parameter, if any
	// Variant tells apart the generated symbols of a handler bound to several routes
	Variant string
}

// Symbol is the handler name qualified by its variant
func (p BindingPlan) Symbol() string {
	return p.Route.HandlerName + p.Variant
}

// Augments reports whether the adapter injects headers or a content type
func (p BindingPlan) Augments() bool {
	return len(p.Headers) > 0 || p.ContentType != ""
}
