package adapters

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/toyz/routectl/pkg/routectl"
)

// EchoAdapter implements routectl.WebServerInterface for Echo v4
type EchoAdapter struct {
	engine *echo.Echo
}

// NewEchoAdapter creates a new Echo adapter
func NewEchoAdapter(e *echo.Echo) *EchoAdapter {
	return &EchoAdapter{engine: e}
}

// NewDefaultEchoAdapter creates a new Echo adapter with default Echo instance
func NewDefaultEchoAdapter() *EchoAdapter {
	return &EchoAdapter{engine: echo.New()}
}

// RegisterRoute registers a route with the Echo server
func (ea *EchoAdapter) RegisterRoute(method string, path routectl.Path, handler routectl.HandlerFunc, middlewares ...routectl.MiddlewareFunc) {
	ea.engine.Add(method, path.Colon("*"), convertEchoHandler(handler), convertEchoMiddlewares(middlewares)...)
}

// RegisterGroup creates a new route group
func (ea *EchoAdapter) RegisterGroup(prefix string) routectl.RouteGroup {
	return &EchoGroupAdapter{group: ea.engine.Group(prefix)}
}

// Use adds global middleware
func (ea *EchoAdapter) Use(middleware routectl.MiddlewareFunc) {
	ea.engine.Use(convertEchoMiddleware(middleware))
}

// Start starts the server
func (ea *EchoAdapter) Start(addr string) error {
	return ea.engine.Start(addr)
}

// Stop stops the server
func (ea *EchoAdapter) Stop(ctx context.Context) error {
	return ea.engine.Shutdown(ctx)
}

// Name returns the adapter name
func (ea *EchoAdapter) Name() string {
	return "Echo"
}

// GetEngine returns the underlying Echo instance
func (ea *EchoAdapter) GetEngine() *echo.Echo {
	return ea.engine
}

// EchoGroupAdapter implements routectl.RouteGroup for Echo groups
type EchoGroupAdapter struct {
	group *echo.Group
}

// RegisterRoute registers a route with the group
func (ega *EchoGroupAdapter) RegisterRoute(method string, path routectl.Path, handler routectl.HandlerFunc, middlewares ...routectl.MiddlewareFunc) {
	ega.group.Add(method, path.Colon("*"), convertEchoHandler(handler), convertEchoMiddlewares(middlewares)...)
}

// Use adds middleware to the group
func (ega *EchoGroupAdapter) Use(middleware routectl.MiddlewareFunc) {
	ega.group.Use(convertEchoMiddleware(middleware))
}

// Group creates a sub-group
func (ega *EchoGroupAdapter) Group(prefix string) routectl.RouteGroup {
	return &EchoGroupAdapter{group: ega.group.Group(prefix)}
}

// convertEchoHandler converts routectl.HandlerFunc to echo.HandlerFunc.
// *routectl.HTTPError results become *echo.HTTPError so Echo's error handler renders them.
func convertEchoHandler(handler routectl.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		return toEchoError(handler(&EchoRequestContext{context: c}))
	}
}

func toEchoError(err error) error {
	var he *routectl.HTTPError
	if errors.As(err, &he) {
		return echo.NewHTTPError(he.Code, he.Message).SetInternal(he.Internal)
	}
	return err
}

// convertEchoMiddleware converts routectl.MiddlewareFunc to echo.MiddlewareFunc
func convertEchoMiddleware(middleware routectl.MiddlewareFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			inner := func(routectl.RequestContext) error {
				return next(c)
			}
			return toEchoError(middleware(inner)(&EchoRequestContext{context: c}))
		}
	}
}

func convertEchoMiddlewares(middlewares []routectl.MiddlewareFunc) []echo.MiddlewareFunc {
	converted := make([]echo.MiddlewareFunc, len(middlewares))
	for i, mw := range middlewares {
		converted[i] = convertEchoMiddleware(mw)
	}
	return converted
}

// EchoRequestContext implements routectl.RequestContext for Echo
type EchoRequestContext struct {
	context echo.Context
}

// Method returns the HTTP method
func (erc *EchoRequestContext) Method() string {
	return erc.context.Request().Method
}

// Path returns the request path
func (erc *EchoRequestContext) Path() string {
	return erc.context.Request().URL.Path
}

// RealIP returns the real IP address
func (erc *EchoRequestContext) RealIP() string {
	return erc.context.RealIP()
}

// Context returns the request's context.Context
func (erc *EchoRequestContext) Context() context.Context {
	return erc.context.Request().Context()
}

// Param returns path parameter by name
func (erc *EchoRequestContext) Param(key string) string {
	return erc.context.Param(key)
}

// ParamNames returns path parameter names
func (erc *EchoRequestContext) ParamNames() []string {
	return erc.context.ParamNames()
}

// QueryParam returns query parameter by name
func (erc *EchoRequestContext) QueryParam(key string) string {
	return erc.context.QueryParam(key)
}

// QueryParams returns all query parameters
func (erc *EchoRequestContext) QueryParams() map[string][]string {
	return erc.context.QueryParams()
}

// Request returns the request interface
func (erc *EchoRequestContext) Request() routectl.RequestInterface {
	return &EchoRequestInterface{request: erc.context.Request()}
}

// Response returns the response interface
func (erc *EchoRequestContext) Response() routectl.ResponseInterface {
	return &EchoResponseInterface{context: erc.context}
}

// BindQuery binds query parameters using `query` struct tags
func (erc *EchoRequestContext) BindQuery(i any) error {
	return (&echo.DefaultBinder{}).BindQueryParams(erc.context, i)
}

// BindForm binds a form body using `form` struct tags
func (erc *EchoRequestContext) BindForm(i any) error {
	return (&echo.DefaultBinder{}).BindBody(erc.context, i)
}

// BindJSON decodes a JSON body with the engine's serializer
func (erc *EchoRequestContext) BindJSON(i any) error {
	return erc.context.Echo().JSONSerializer.Deserialize(erc.context, i)
}

// Get retrieves data from context
func (erc *EchoRequestContext) Get(key string) any {
	return erc.context.Get(key)
}

// Set stores data in context
func (erc *EchoRequestContext) Set(key string, val any) {
	erc.context.Set(key, val)
}

// EchoRequestInterface implements routectl.RequestInterface for Echo requests
type EchoRequestInterface struct {
	request *http.Request
}

// Header returns request header value
func (eri *EchoRequestInterface) Header(key string) string {
	return eri.request.Header.Get(key)
}

// Body reads the request body and puts it back for later readers
func (eri *EchoRequestInterface) Body() ([]byte, error) {
	return readHTTPBody(eri.request)
}

// ContentLength returns content length
func (eri *EchoRequestInterface) ContentLength() int64 {
	return eri.request.ContentLength
}

// ContentType returns content type
func (eri *EchoRequestInterface) ContentType() string {
	return eri.request.Header.Get(echo.HeaderContentType)
}

// Cookies returns all cookies
func (eri *EchoRequestInterface) Cookies() []routectl.Cookie {
	return fromHTTPCookies(eri.request.Cookies())
}

// Cookie returns specific cookie
func (eri *EchoRequestInterface) Cookie(name string) (routectl.Cookie, error) {
	c, err := eri.request.Cookie(name)
	if err != nil {
		return routectl.Cookie{}, routectl.ErrCookieNotFound
	}
	return fromHTTPCookie(c), nil
}

// EchoResponseInterface implements routectl.ResponseInterface for Echo responses
type EchoResponseInterface struct {
	context echo.Context
}

// Status returns response status code
func (eri *EchoResponseInterface) Status() int {
	return eri.context.Response().Status
}

// SetStatus sets response status code
func (eri *EchoResponseInterface) SetStatus(code int) {
	eri.context.Response().Status = code
}

// Header returns response header value
func (eri *EchoResponseInterface) Header(key string) string {
	return eri.context.Response().Header().Get(key)
}

// SetHeader sets response header
func (eri *EchoResponseInterface) SetHeader(key, value string) {
	eri.context.Response().Header().Set(key, value)
}

// JSON writes JSON response
func (eri *EchoResponseInterface) JSON(code int, i any) error {
	return eri.context.JSON(code, i)
}

// String writes string response
func (eri *EchoResponseInterface) String(code int, s string) error {
	return eri.context.String(code, s)
}

// Blob writes a response with the given content type
func (eri *EchoResponseInterface) Blob(code int, contentType string, b []byte) error {
	return eri.context.Blob(code, contentType, b)
}

// NoContent writes headers only
func (eri *EchoResponseInterface) NoContent(code int) error {
	return eri.context.NoContent(code)
}

// SetCookie adds a Set-Cookie header
func (eri *EchoResponseInterface) SetCookie(cookie routectl.Cookie) {
	eri.context.SetCookie(toHTTPCookie(cookie))
}

// Written reports whether the response has been committed
func (eri *EchoResponseInterface) Written() bool {
	return eri.context.Response().Committed
}

func readHTTPBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	r.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}
