package adapters

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/toyz/routectl/pkg/routectl"
)

const fiberWrittenKey = "routectl.written"

// FiberAdapter wraps a Fiber app to implement routectl.WebServerInterface
type FiberAdapter struct {
	app *fiber.App
}

// NewFiberAdapter creates a Fiber adapter whose error handler renders
// *routectl.HTTPError and *fiber.Error with their status codes
func NewFiberAdapter() *FiberAdapter {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
			}
			he := routectl.AsHTTPError(err)
			return c.Status(he.Code).JSON(fiber.Map{"message": he.Message})
		},
	})
	return &FiberAdapter{app: app}
}

// NewFiberAdapterWithApp wraps an existing Fiber app
func NewFiberAdapterWithApp(app *fiber.App) *FiberAdapter {
	return &FiberAdapter{app: app}
}

// RegisterRoute registers a route with the Fiber app
func (fa *FiberAdapter) RegisterRoute(method string, path routectl.Path, handler routectl.HandlerFunc, middlewares ...routectl.MiddlewareFunc) {
	handlers := append(convertFiberMiddlewares(middlewares), convertFiberHandler(handler))
	fa.app.Add(method, path.Colon("*"), handlers...)
}

// RegisterGroup creates a new route group
func (fa *FiberAdapter) RegisterGroup(prefix string) routectl.RouteGroup {
	return &FiberRouteGroup{group: fa.app.Group(prefix)}
}

// Use adds global middleware
func (fa *FiberAdapter) Use(middleware routectl.MiddlewareFunc) {
	fa.app.Use(convertFiberMiddleware(middleware))
}

// Start starts the server
func (fa *FiberAdapter) Start(addr string) error {
	return fa.app.Listen(addr)
}

// Stop gracefully shuts the server down
func (fa *FiberAdapter) Stop(ctx context.Context) error {
	return fa.app.ShutdownWithContext(ctx)
}

// Name returns the adapter name
func (fa *FiberAdapter) Name() string {
	return "Fiber"
}

// GetApp returns the underlying Fiber app
func (fa *FiberAdapter) GetApp() *fiber.App {
	return fa.app
}

// FiberRouteGroup implements routectl.RouteGroup for Fiber
type FiberRouteGroup struct {
	group fiber.Router
}

// RegisterRoute registers a route with the group
func (frg *FiberRouteGroup) RegisterRoute(method string, path routectl.Path, handler routectl.HandlerFunc, middlewares ...routectl.MiddlewareFunc) {
	handlers := append(convertFiberMiddlewares(middlewares), convertFiberHandler(handler))
	frg.group.Add(method, path.Colon("*"), handlers...)
}

// Use adds middleware to the group
func (frg *FiberRouteGroup) Use(middleware routectl.MiddlewareFunc) {
	frg.group.Use(convertFiberMiddleware(middleware))
}

// Group creates a sub-group
func (frg *FiberRouteGroup) Group(prefix string) routectl.RouteGroup {
	return &FiberRouteGroup{group: frg.group.Group(prefix)}
}

// convertFiberHandler converts a routectl handler to a Fiber handler; errors
// are left to the app's ErrorHandler
func convertFiberHandler(handler routectl.HandlerFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return handler(&FiberRequestContext{ctx: c})
	}
}

func convertFiberMiddleware(middleware routectl.MiddlewareFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		next := func(routectl.RequestContext) error {
			return c.Next()
		}
		return middleware(next)(&FiberRequestContext{ctx: c})
	}
}

func convertFiberMiddlewares(middlewares []routectl.MiddlewareFunc) []fiber.Handler {
	converted := make([]fiber.Handler, len(middlewares))
	for i, mw := range middlewares {
		converted[i] = convertFiberMiddleware(mw)
	}
	return converted
}

// FiberRequestContext wraps fiber.Ctx to implement routectl.RequestContext
type FiberRequestContext struct {
	ctx *fiber.Ctx
}

// Method returns the HTTP method
func (frc *FiberRequestContext) Method() string {
	return frc.ctx.Method()
}

// Path returns the request path
func (frc *FiberRequestContext) Path() string {
	return frc.ctx.Path()
}

// RealIP returns the client IP address
func (frc *FiberRequestContext) RealIP() string {
	return frc.ctx.IP()
}

// Context returns the user context of the request
func (frc *FiberRequestContext) Context() context.Context {
	return frc.ctx.UserContext()
}

// Param returns path parameter by name
func (frc *FiberRequestContext) Param(name string) string {
	return frc.ctx.Params(name)
}

// ParamNames returns the parameter names of the matched route
func (frc *FiberRequestContext) ParamNames() []string {
	return append([]string(nil), frc.ctx.Route().Params...)
}

// QueryParam returns query parameter by name
func (frc *FiberRequestContext) QueryParam(key string) string {
	return frc.ctx.Query(key)
}

// QueryParams returns all query parameters
func (frc *FiberRequestContext) QueryParams() map[string][]string {
	result := make(map[string][]string)
	frc.ctx.Request().URI().QueryArgs().VisitAll(func(key, value []byte) {
		k := string(key)
		result[k] = append(result[k], string(value))
	})
	return result
}

// Request returns the request interface
func (frc *FiberRequestContext) Request() routectl.RequestInterface {
	return &FiberRequest{ctx: frc.ctx}
}

// Response returns the response interface
func (frc *FiberRequestContext) Response() routectl.ResponseInterface {
	return &FiberResponse{ctx: frc.ctx}
}

// BindQuery binds query parameters using `query` struct tags
func (frc *FiberRequestContext) BindQuery(i any) error {
	return frc.ctx.QueryParser(i)
}

// BindForm binds a form body using `form` struct tags
func (frc *FiberRequestContext) BindForm(i any) error {
	return frc.ctx.BodyParser(i)
}

// BindJSON decodes a JSON body with the app's decoder
func (frc *FiberRequestContext) BindJSON(i any) error {
	return frc.ctx.App().Config().JSONDecoder(frc.ctx.Body(), i)
}

// Get retrieves data from the request locals
func (frc *FiberRequestContext) Get(key string) any {
	return frc.ctx.Locals(key)
}

// Set stores data in the request locals
func (frc *FiberRequestContext) Set(key string, val any) {
	frc.ctx.Locals(key, val)
}

// FiberRequest wraps fiber.Ctx to implement routectl.RequestInterface
type FiberRequest struct {
	ctx *fiber.Ctx
}

// Header returns request header value
func (fr *FiberRequest) Header(key string) string {
	return fr.ctx.Get(key)
}

// Body returns a copy of the request body; fasthttp reuses the original buffer
func (fr *FiberRequest) Body() ([]byte, error) {
	return append([]byte(nil), fr.ctx.Body()...), nil
}

// ContentLength returns content length
func (fr *FiberRequest) ContentLength() int64 {
	return int64(fr.ctx.Request().Header.ContentLength())
}

// ContentType returns content type
func (fr *FiberRequest) ContentType() string {
	return fr.ctx.Get(fiber.HeaderContentType)
}

// Cookies returns all request cookies
func (fr *FiberRequest) Cookies() []routectl.Cookie {
	var cookies []routectl.Cookie
	fr.ctx.Request().Header.VisitAllCookie(func(key, value []byte) {
		cookies = append(cookies, routectl.Cookie{Name: string(key), Value: string(value)})
	})
	return cookies
}

// Cookie returns specific cookie
func (fr *FiberRequest) Cookie(name string) (routectl.Cookie, error) {
	value := fr.ctx.Request().Header.Cookie(name)
	if value == nil {
		return routectl.Cookie{}, routectl.ErrCookieNotFound
	}
	return routectl.Cookie{Name: name, Value: string(value)}, nil
}

// FiberResponse wraps fiber.Ctx to implement routectl.ResponseInterface
type FiberResponse struct {
	ctx *fiber.Ctx
}

// Status returns response status code
func (fr *FiberResponse) Status() int {
	return fr.ctx.Response().StatusCode()
}

// SetStatus sets response status code
func (fr *FiberResponse) SetStatus(code int) {
	fr.ctx.Status(code)
}

// Header returns response header value
func (fr *FiberResponse) Header(key string) string {
	return string(fr.ctx.Response().Header.Peek(key))
}

// SetHeader sets response header
func (fr *FiberResponse) SetHeader(name, value string) {
	fr.ctx.Set(name, value)
}

// JSON writes JSON response
func (fr *FiberResponse) JSON(code int, data any) error {
	fr.markWritten()
	return fr.ctx.Status(code).JSON(data)
}

// String writes a plain text response
func (fr *FiberResponse) String(code int, s string) error {
	fr.markWritten()
	return fr.ctx.Status(code).SendString(s)
}

// Blob writes a response with the given content type
func (fr *FiberResponse) Blob(code int, contentType string, data []byte) error {
	fr.markWritten()
	fr.ctx.Set(fiber.HeaderContentType, contentType)
	return fr.ctx.Status(code).Send(data)
}

// NoContent writes headers only
func (fr *FiberResponse) NoContent(code int) error {
	fr.markWritten()
	return fr.ctx.SendStatus(code)
}

// SetCookie adds a Set-Cookie header
func (fr *FiberResponse) SetCookie(cookie routectl.Cookie) {
	fc := &fiber.Cookie{
		Name:     cookie.Name,
		Value:    cookie.Value,
		Path:     cookie.Path,
		Domain:   cookie.Domain,
		Expires:  cookie.Expires,
		MaxAge:   cookie.MaxAge,
		Secure:   cookie.Secure,
		HTTPOnly: cookie.HttpOnly,
	}
	switch cookie.SameSite {
	case routectl.SameSiteStrictMode:
		fc.SameSite = fiber.CookieSameSiteStrictMode
	case routectl.SameSiteNoneMode:
		fc.SameSite = fiber.CookieSameSiteNoneMode
	default:
		fc.SameSite = fiber.CookieSameSiteLaxMode
	}
	fr.ctx.Cookie(fc)
}

// Written reports whether a body writer has run for this request
func (fr *FiberResponse) Written() bool {
	written, _ := fr.ctx.Locals(fiberWrittenKey).(bool)
	return written
}

func (fr *FiberResponse) markWritten() {
	fr.ctx.Locals(fiberWrittenKey, true)
}
