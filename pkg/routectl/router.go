// Package routectl is the runtime behind code generated by the routectl command:
// dispatch tables, parameter extraction helpers and response rendering.
package routectl

import (
	"strings"
)

// NoState is the state type of routers whose handlers take no State parameter
type NoState struct{}

// Handler is a route handler that receives the router's shared state value.
// The state is shared by every concurrent request; S must be safe for that.
type Handler[S any] func(c RequestContext, state S) error

// Stateless lifts a plain HandlerFunc into a Handler that ignores the state
func Stateless[S any](h HandlerFunc) Handler[S] {
	return func(c RequestContext, _ S) error {
		return h(c)
	}
}

// Chain composes middlewares so that the first one observes the request first
func Chain(middlewares ...MiddlewareFunc) MiddlewareFunc {
	return func(next HandlerFunc) HandlerFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}

type route[S any] struct {
	info        RouteInfo
	handler     Handler[S]
	middlewares []MiddlewareFunc // outermost first
}

// Router accumulates the routes of one controller. It is generic over the
// controller's state type and becomes servable once WithState binds a value.
type Router[S any] struct {
	pkg        string
	controller string
	routes     []*route[S]
}

// NewRouter creates an empty router for the given package path and controller name
func NewRouter[S any](pkg, controller string) *Router[S] {
	return &Router[S]{pkg: pkg, controller: controller}
}

// Handle registers handler under method and path
func (r *Router[S]) Handle(method, path, name string, handler Handler[S]) *Router[S] {
	r.routes = append(r.routes, &route[S]{
		info: RouteInfo{
			Method:      strings.ToUpper(method),
			Path:        JoinPath("", path),
			Package:     r.pkg,
			Controller:  r.controller,
			HandlerName: name,
		},
		handler: handler,
	})
	return r
}

// Use wraps every route registered so far. Within one call the first
// middleware runs outermost; a later call wraps around earlier ones.
func (r *Router[S]) Use(middlewares ...MiddlewareFunc) *Router[S] {
	if len(middlewares) == 0 {
		return r
	}
	for _, rt := range r.routes {
		wrapped := make([]MiddlewareFunc, 0, len(middlewares)+len(rt.middlewares))
		wrapped = append(wrapped, middlewares...)
		rt.middlewares = append(wrapped, rt.middlewares...)
		rt.info.Middlewares += len(middlewares)
	}
	return r
}

// Nest moves every route under prefix
func (r *Router[S]) Nest(prefix string) *Router[S] {
	if prefix == "" || prefix == "/" {
		return r
	}
	for _, rt := range r.routes {
		rt.info.Path = JoinPath(prefix, rt.info.Path)
	}
	return r
}

// Len returns the number of registered routes
func (r *Router[S]) Len() int {
	return len(r.routes)
}

// WithState binds state to every handler and folds the middlewares,
// producing a dispatch table ready to mount.
func (r *Router[S]) WithState(state S) *Table {
	t := &Table{entries: make([]Entry, 0, len(r.routes))}
	for _, rt := range r.routes {
		h := rt.handler
		var fn HandlerFunc = func(c RequestContext) error {
			return h(c, state)
		}
		fn = Chain(rt.middlewares...)(fn)
		t.entries = append(t.entries, Entry{Info: rt.info, Handler: fn})
	}
	return t
}

// Entry is one servable route
type Entry struct {
	Info    RouteInfo
	Handler HandlerFunc
}

// Table is the dispatch table of a controller with its state bound
type Table struct {
	entries []Entry
}

// Merge combines several tables, keeping registration order
func Merge(tables ...*Table) *Table {
	merged := &Table{}
	for _, t := range tables {
		if t != nil {
			merged.entries = append(merged.entries, t.entries...)
		}
	}
	return merged
}

// Entries returns the routes in registration order
func (t *Table) Entries() []Entry {
	return append([]Entry(nil), t.entries...)
}

// Routes returns the route metadata in registration order
func (t *Table) Routes() []RouteInfo {
	infos := make([]RouteInfo, len(t.entries))
	for i, e := range t.entries {
		infos[i] = e.Info
	}
	return infos
}

// Mount registers every route on server and records it in DefaultRouteRegistry
func (t *Table) Mount(server WebServerInterface) {
	for _, e := range t.entries {
		server.RegisterRoute(e.Info.Method, Path(e.Info.Path), e.Handler)
		DefaultRouteRegistry.RegisterRoute(e.Info)
	}
}

// MountGroup registers every route on a route group
func (t *Table) MountGroup(group RouteGroup) {
	for _, e := range t.entries {
		group.RegisterRoute(e.Info.Method, Path(e.Info.Path), e.Handler)
		DefaultRouteRegistry.RegisterRoute(e.Info)
	}
}

// Match finds the entry serving method and path, returning the bound
// path parameters. It does not consult any host framework.
func (t *Table) Match(method, path string) (Entry, map[string]string, bool) {
	method = strings.ToUpper(method)
	for _, e := range t.entries {
		if e.Info.Method != method {
			continue
		}
		if params, ok := matchPath(Path(e.Info.Path), path); ok {
			return e, params, true
		}
	}
	return Entry{}, nil, false
}

func matchPath(template Path, path string) (map[string]string, bool) {
	tmpl := splitSegments(template.Raw())
	segs := splitSegments(path)
	params := make(map[string]string)

	for i, ts := range tmpl {
		if ts == "{*}" {
			params["*"] = strings.Join(segs[i:], "/")
			return params, true
		}
		if i >= len(segs) {
			return nil, false
		}
		parts := Path(ts).Parts()
		if len(parts) == 1 && parts[0].Type == ParameterPart {
			params[parts[0].Value] = segs[i]
			continue
		}
		if ts != segs[i] {
			return nil, false
		}
	}
	if len(tmpl) != len(segs) {
		return nil, false
	}
	return params, true
}

func splitSegments(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
