package routectl

import (
	"sync"
)

// RouteInfo contains metadata about a registered route
type RouteInfo struct {
	// Method is the HTTP method (GET, POST, PUT, DELETE, etc.)
	Method string

	// Path is the full route template, prefix included (e.g. "/users/{id}")
	Path string

	// Package is the import path of the package declaring the controller
	Package string

	// Controller is the name of the controller that owns this route
	Controller string

	// HandlerName is the name of the handler method
	HandlerName string

	// Middlewares is the number of middlewares wrapping the handler
	Middlewares int
}

// RouteRegistry provides access to all mounted routes in the application
type RouteRegistry interface {
	GetAllRoutes() []RouteInfo
	GetRoutesByPackage(pkg string) []RouteInfo
	GetRoutesByController(controller string) []RouteInfo
	GetRoutesByMethod(method string) []RouteInfo
	RegisterRoute(route RouteInfo)
}

// DefaultRouteRegistry is the global route registry instance
var DefaultRouteRegistry RouteRegistry = NewInMemoryRouteRegistry()

// InMemoryRouteRegistry implements RouteRegistry using an in-memory slice
type InMemoryRouteRegistry struct {
	mu     sync.RWMutex
	routes []RouteInfo
}

// NewInMemoryRouteRegistry creates a new in-memory route registry
func NewInMemoryRouteRegistry() *InMemoryRouteRegistry {
	return &InMemoryRouteRegistry{}
}

// GetAllRoutes returns a copy of all registered routes
func (r *InMemoryRouteRegistry) GetAllRoutes() []RouteInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]RouteInfo(nil), r.routes...)
}

// GetRoutesByPackage returns routes filtered by package path
func (r *InMemoryRouteRegistry) GetRoutesByPackage(pkg string) []RouteInfo {
	return r.filter(func(ri RouteInfo) bool { return ri.Package == pkg })
}

// GetRoutesByController returns routes filtered by controller name
func (r *InMemoryRouteRegistry) GetRoutesByController(controller string) []RouteInfo {
	return r.filter(func(ri RouteInfo) bool { return ri.Controller == controller })
}

// GetRoutesByMethod returns routes filtered by HTTP method
func (r *InMemoryRouteRegistry) GetRoutesByMethod(method string) []RouteInfo {
	return r.filter(func(ri RouteInfo) bool { return ri.Method == method })
}

// RegisterRoute adds a route to the registry
func (r *InMemoryRouteRegistry) RegisterRoute(route RouteInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, route)
}

func (r *InMemoryRouteRegistry) filter(keep func(RouteInfo) bool) []RouteInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var filtered []RouteInfo
	for _, route := range r.routes {
		if keep(route) {
			filtered = append(filtered, route)
		}
	}
	return filtered
}

// GetRoutes returns all mounted routes (convenience function)
func GetRoutes() []RouteInfo {
	return DefaultRouteRegistry.GetAllRoutes()
}
