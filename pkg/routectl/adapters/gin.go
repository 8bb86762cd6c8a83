package adapters

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/toyz/routectl/pkg/routectl"
)

// GinAdapter implements routectl.WebServerInterface for Gin framework
type GinAdapter struct {
	engine *gin.Engine

	mu     sync.Mutex
	server *http.Server
}

// NewGinAdapter creates a new Gin adapter
func NewGinAdapter(g *gin.Engine) *GinAdapter {
	return &GinAdapter{engine: g}
}

// NewDefaultGinAdapter creates a new Gin adapter with default Gin instance
func NewDefaultGinAdapter() *GinAdapter {
	return &GinAdapter{engine: gin.Default()}
}

// RegisterRoute registers a route with the Gin server
func (ga *GinAdapter) RegisterRoute(method string, path routectl.Path, handler routectl.HandlerFunc, middlewares ...routectl.MiddlewareFunc) {
	handlers := append(convertGinMiddlewares(middlewares), convertGinHandler(handler))
	ga.engine.Handle(method, path.Colon("*path"), handlers...)
}

// RegisterGroup registers a route group with the Gin server
func (ga *GinAdapter) RegisterGroup(prefix string) routectl.RouteGroup {
	return &GinRouteGroup{group: ga.engine.Group(prefix)}
}

// Use registers a global middleware with the Gin server
func (ga *GinAdapter) Use(middleware routectl.MiddlewareFunc) {
	ga.engine.Use(convertGinMiddleware(middleware))
}

// Start serves the engine through an http.Server so Stop can shut it down
func (ga *GinAdapter) Start(addr string) error {
	ga.mu.Lock()
	ga.server = &http.Server{Addr: addr, Handler: ga.engine}
	srv := ga.server
	ga.mu.Unlock()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts the server down
func (ga *GinAdapter) Stop(ctx context.Context) error {
	ga.mu.Lock()
	srv := ga.server
	ga.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// Name returns the adapter name
func (ga *GinAdapter) Name() string {
	return "Gin"
}

// GetEngine returns the underlying Gin engine
func (ga *GinAdapter) GetEngine() *gin.Engine {
	return ga.engine
}

// GinRouteGroup implements routectl.RouteGroup for Gin
type GinRouteGroup struct {
	group *gin.RouterGroup
}

// RegisterRoute registers a route with the group
func (grg *GinRouteGroup) RegisterRoute(method string, path routectl.Path, handler routectl.HandlerFunc, middlewares ...routectl.MiddlewareFunc) {
	handlers := append(convertGinMiddlewares(middlewares), convertGinHandler(handler))
	grg.group.Handle(method, path.Colon("*path"), handlers...)
}

// Use adds middleware to the group
func (grg *GinRouteGroup) Use(middleware routectl.MiddlewareFunc) {
	grg.group.Use(convertGinMiddleware(middleware))
}

// Group creates a sub-group
func (grg *GinRouteGroup) Group(prefix string) routectl.RouteGroup {
	return &GinRouteGroup{group: grg.group.Group(prefix)}
}

func convertGinHandler(handler routectl.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := handler(&GinRequestContext{context: c}); err != nil {
			writeGinError(c, err)
		}
	}
}

// convertGinMiddleware runs a routectl middleware in Gin's chain. The rest of
// the chain runs when the middleware calls its next handler; a middleware that
// never does aborts the chain.
func convertGinMiddleware(middleware routectl.MiddlewareFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		called := false
		next := func(routectl.RequestContext) error {
			called = true
			c.Next()
			return nil
		}
		if err := middleware(next)(&GinRequestContext{context: c}); err != nil {
			writeGinError(c, err)
			return
		}
		if !called {
			c.Abort()
		}
	}
}

func convertGinMiddlewares(middlewares []routectl.MiddlewareFunc) []gin.HandlerFunc {
	converted := make([]gin.HandlerFunc, len(middlewares))
	for i, mw := range middlewares {
		converted[i] = convertGinMiddleware(mw)
	}
	return converted
}

func writeGinError(c *gin.Context, err error) {
	_ = c.Error(err)
	he := routectl.AsHTTPError(err)
	if c.Writer.Written() {
		c.Abort()
		return
	}
	c.AbortWithStatusJSON(he.Code, gin.H{"message": he.Message})
}

// GinRequestContext implements routectl.RequestContext for Gin
type GinRequestContext struct {
	context *gin.Context
}

// Method returns the HTTP method
func (grc *GinRequestContext) Method() string {
	return grc.context.Request.Method
}

// Path returns the request path
func (grc *GinRequestContext) Path() string {
	return grc.context.Request.URL.Path
}

// RealIP returns the client IP address
func (grc *GinRequestContext) RealIP() string {
	return grc.context.ClientIP()
}

// Context returns the request's context.Context
func (grc *GinRequestContext) Context() context.Context {
	return grc.context.Request.Context()
}

// Param returns path parameter by name
func (grc *GinRequestContext) Param(key string) string {
	return grc.context.Param(key)
}

// ParamNames returns path parameter names
func (grc *GinRequestContext) ParamNames() []string {
	names := make([]string, len(grc.context.Params))
	for i, p := range grc.context.Params {
		names[i] = p.Key
	}
	return names
}

// QueryParam returns query parameter by name
func (grc *GinRequestContext) QueryParam(key string) string {
	return grc.context.Query(key)
}

// QueryParams returns all query parameters
func (grc *GinRequestContext) QueryParams() map[string][]string {
	return grc.context.Request.URL.Query()
}

// Request returns the request interface
func (grc *GinRequestContext) Request() routectl.RequestInterface {
	return &GinRequestInterface{request: grc.context.Request}
}

// Response returns the response interface
func (grc *GinRequestContext) Response() routectl.ResponseInterface {
	return &GinResponseInterface{context: grc.context}
}

// BindQuery binds query parameters using `form` struct tags
func (grc *GinRequestContext) BindQuery(i any) error {
	return grc.context.ShouldBindQuery(i)
}

// BindForm binds a form body using `form` struct tags
func (grc *GinRequestContext) BindForm(i any) error {
	return grc.context.ShouldBindWith(i, binding.Form)
}

// BindJSON decodes a JSON body
func (grc *GinRequestContext) BindJSON(i any) error {
	return grc.context.ShouldBindJSON(i)
}

// Get retrieves data from context
func (grc *GinRequestContext) Get(key string) any {
	v, _ := grc.context.Get(key)
	return v
}

// Set stores data in context
func (grc *GinRequestContext) Set(key string, val any) {
	grc.context.Set(key, val)
}

// GinRequestInterface implements routectl.RequestInterface for Gin requests
type GinRequestInterface struct {
	request *http.Request
}

// Header returns request header value
func (gri *GinRequestInterface) Header(key string) string {
	return gri.request.Header.Get(key)
}

// Body reads the request body and puts it back for later readers
func (gri *GinRequestInterface) Body() ([]byte, error) {
	return readHTTPBody(gri.request)
}

// ContentLength returns content length
func (gri *GinRequestInterface) ContentLength() int64 {
	return gri.request.ContentLength
}

// ContentType returns content type
func (gri *GinRequestInterface) ContentType() string {
	return gri.request.Header.Get("Content-Type")
}

// Cookies returns all cookies
func (gri *GinRequestInterface) Cookies() []routectl.Cookie {
	return fromHTTPCookies(gri.request.Cookies())
}

// Cookie returns specific cookie
func (gri *GinRequestInterface) Cookie(name string) (routectl.Cookie, error) {
	c, err := gri.request.Cookie(name)
	if err != nil {
		return routectl.Cookie{}, routectl.ErrCookieNotFound
	}
	return fromHTTPCookie(c), nil
}

// GinResponseInterface implements routectl.ResponseInterface for Gin
type GinResponseInterface struct {
	context *gin.Context
}

// Status returns response status code
func (gri *GinResponseInterface) Status() int {
	return gri.context.Writer.Status()
}

// SetStatus sets response status code
func (gri *GinResponseInterface) SetStatus(code int) {
	gri.context.Status(code)
}

// Header returns response header value
func (gri *GinResponseInterface) Header(key string) string {
	return gri.context.Writer.Header().Get(key)
}

// SetHeader sets response header
func (gri *GinResponseInterface) SetHeader(key, value string) {
	gri.context.Header(key, value)
}

// JSON writes JSON response
func (gri *GinResponseInterface) JSON(code int, i any) error {
	gri.context.JSON(code, i)
	return nil
}

// String writes a plain text response
func (gri *GinResponseInterface) String(code int, s string) error {
	gri.context.Data(code, "text/plain; charset=utf-8", []byte(s))
	return nil
}

// Blob writes a response with the given content type
func (gri *GinResponseInterface) Blob(code int, contentType string, b []byte) error {
	gri.context.Data(code, contentType, b)
	return nil
}

// NoContent writes headers only
func (gri *GinResponseInterface) NoContent(code int) error {
	gri.context.Status(code)
	gri.context.Writer.WriteHeaderNow()
	return nil
}

// SetCookie adds a Set-Cookie header
func (gri *GinResponseInterface) SetCookie(cookie routectl.Cookie) {
	http.SetCookie(gri.context.Writer, toHTTPCookie(cookie))
}

// Written reports whether the response has been written
func (gri *GinResponseInterface) Written() bool {
	return gri.context.Writer.Written()
}
