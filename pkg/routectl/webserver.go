package routectl

import (
	"context"
	"time"
)

// WebServerInterface is what a host framework adapter implements so a Table can be mounted on it
type WebServerInterface interface {
	RegisterRoute(method string, path Path, handler HandlerFunc, middlewares ...MiddlewareFunc)
	RegisterGroup(prefix string) RouteGroup

	Use(middleware MiddlewareFunc)

	Start(addr string) error
	Stop(ctx context.Context) error

	// Name identifies the host framework, e.g. "echo"
	Name() string
}

// RouteGroup registers routes below a shared prefix
type RouteGroup interface {
	RegisterRoute(method string, path Path, handler HandlerFunc, middlewares ...MiddlewareFunc)
	Use(middleware MiddlewareFunc)
	Group(prefix string) RouteGroup
}

// RequestContext is the per-request view generated adapters and native handlers receive
type RequestContext interface {
	Method() string
	Path() string
	RealIP() string
	Context() context.Context

	Param(key string) string
	ParamNames() []string

	QueryParam(key string) string
	QueryParams() map[string][]string

	Request() RequestInterface
	Response() ResponseInterface

	// Binding, delegated to the host framework's binders
	BindQuery(i any) error
	BindForm(i any) error
	BindJSON(i any) error

	// request-scoped values, e.g. the session set by SessionMiddleware
	Get(key string) any
	Set(key string, val any)
}

// RequestInterface reads the incoming request
type RequestInterface interface {
	Header(key string) string
	Body() ([]byte, error)
	ContentLength() int64
	ContentType() string
	Cookies() []Cookie
	Cookie(name string) (Cookie, error)
}

// ResponseInterface writes the response. Written reports whether a body or status was sent.
type ResponseInterface interface {
	Status() int
	SetStatus(code int)

	Header(key string) string
	SetHeader(key, value string)

	JSON(code int, i any) error
	String(code int, s string) error
	Blob(code int, contentType string, b []byte) error
	NoContent(code int) error

	SetCookie(cookie Cookie)

	Written() bool
}

// HandlerFunc is a host-agnostic handler
type HandlerFunc func(RequestContext) error

// MiddlewareFunc wraps a HandlerFunc
type MiddlewareFunc func(HandlerFunc) HandlerFunc

// Cookie mirrors http.Cookie for the adapters
type Cookie struct {
	Name     string
	Value    string
	Path     string
	Domain   string
	Expires  time.Time
	MaxAge   int
	Secure   bool
	HttpOnly bool
	SameSite SameSiteMode
}

// SameSiteMode is the cookie SameSite attribute
type SameSiteMode int

const (
	SameSiteDefaultMode SameSiteMode = iota
	SameSiteLaxMode
	SameSiteStrictMode
	SameSiteNoneMode
)
