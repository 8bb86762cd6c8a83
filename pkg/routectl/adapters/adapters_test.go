package adapters

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/toyz/routectl/pkg/routectl"
)

type createUser struct {
	Name string `json:"name" form:"name"`
}

type listFilters struct {
	Limit int    `query:"limit" form:"limit"`
	Sort  string `query:"sort" form:"sort"`
}

// sampleTable builds the dispatch table shared by the adapter tests
func sampleTable() *routectl.Table {
	r := routectl.NewRouter[string]("example.com/app", "UserController")

	r.Handle("GET", "/{id}", "Get", func(c routectl.RequestContext, greeting string) error {
		values, err := routectl.PathValues(c, "id")
		if err != nil {
			return err
		}
		id, err := routectl.ParseInt(values[0])
		if err != nil {
			return routectl.ErrBadRequest("invalid id", err)
		}
		agent := routectl.HeaderValue(c.Request(), "user-agent")
		return routectl.Render(c, map[string]any{"id": id, "greeting": greeting, "agent": agent}, nil)
	})

	r.Handle("GET", "/", "List", func(c routectl.RequestContext, _ string) error {
		var f listFilters
		if err := routectl.BindQuery(c, &f); err != nil {
			return err
		}
		opts := &routectl.ResponseOptions{Headers: []routectl.Header{{Name: "X-Total", Value: "0"}}}
		opts.Apply(c)
		return routectl.Render(c, f, opts)
	})

	r.Handle("POST", "/", "Create", func(c routectl.RequestContext, _ string) error {
		var u createUser
		if err := routectl.BindJSON(c, &u); err != nil {
			return err
		}
		return routectl.Render(c, routectl.Created(u), nil)
	})

	r.Handle("GET", "/theme", "Theme", func(c routectl.RequestContext, _ string) error {
		jar := routectl.CookieJarOf(c)
		return routectl.Render(c, jar.Value("theme"), &routectl.ResponseOptions{ContentType: "text/html"})
	})

	r.Use(func(next routectl.HandlerFunc) routectl.HandlerFunc {
		return func(c routectl.RequestContext) error {
			c.Response().SetHeader("X-Middleware", "on")
			return next(c)
		}
	})

	return r.Nest("/users").WithState("hello")
}

type adapterCase struct {
	name        string
	method      string
	target      string
	body        string
	contentType string
	cookie      *http.Cookie
	header      map[string]string
	status      int
	contains    []string
	respHeaders map[string]string
}

func adapterCases() []adapterCase {
	return []adapterCase{
		{
			name:        "path param, state and header",
			method:      "GET",
			target:      "/users/42",
			header:      map[string]string{"User-Agent": "test-agent"},
			status:      200,
			contains:    []string{`"id":42`, `"greeting":"hello"`, `"agent":"test-agent"`},
			respHeaders: map[string]string{"X-Middleware": "on"},
		},
		{
			name:     "bad path param becomes 400",
			method:   "GET",
			target:   "/users/abc",
			status:   400,
			contains: []string{"invalid id"},
		},
		{
			name:        "query binding and route headers",
			method:      "GET",
			target:      "/users?limit=5&sort=name",
			status:      200,
			contains:    []string{`"Limit":5`, `"Sort":"name"`},
			respHeaders: map[string]string{"X-Total": "0"},
		},
		{
			name:        "json body",
			method:      "POST",
			target:      "/users",
			body:        `{"name":"ada"}`,
			contentType: "application/json",
			status:      201,
			contains:    []string{`"name":"ada"`},
		},
		{
			name:        "malformed json body",
			method:      "POST",
			target:      "/users",
			body:        `{"name":`,
			contentType: "application/json",
			status:      400,
		},
		{
			name:        "cookie with content type override",
			method:      "GET",
			target:      "/users/theme",
			cookie:      &http.Cookie{Name: "theme", Value: "dark"},
			status:      200,
			contains:    []string{"dark"},
			respHeaders: map[string]string{"Content-Type": "text/html"},
		},
		{
			name:   "unknown route",
			method: "GET",
			target: "/nope",
			status: 404,
		},
	}
}

func newCaseRequest(tc adapterCase) *http.Request {
	var body io.Reader
	if tc.body != "" {
		body = strings.NewReader(tc.body)
	}
	req := httptest.NewRequest(tc.method, tc.target, body)
	if tc.contentType != "" {
		req.Header.Set("Content-Type", tc.contentType)
	}
	for k, v := range tc.header {
		req.Header.Set(k, v)
	}
	if tc.cookie != nil {
		req.AddCookie(tc.cookie)
	}
	return req
}
