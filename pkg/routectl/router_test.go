package routectl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type appState struct {
	greeting string
}

func tracing(name string, trace *[]string) MiddlewareFunc {
	return func(next HandlerFunc) HandlerFunc {
		return func(c RequestContext) error {
			*trace = append(*trace, name+":before")
			err := next(c)
			*trace = append(*trace, name+":after")
			return err
		}
	}
}

func TestRouter_MiddlewareOrder(t *testing.T) {
	var trace []string
	r := NewRouter[NoState]("example.com/app", "UserController")
	r.Handle("GET", "/", "List", Stateless[NoState](func(c RequestContext) error {
		trace = append(trace, "handler")
		return nil
	}))
	r.Use(tracing("first", &trace), tracing("second", &trace))

	table := r.WithState(NoState{})
	entry, _, ok := table.Match("GET", "/")
	require.True(t, ok)
	require.NoError(t, entry.Handler(newFakeContext()))

	assert.Equal(t, []string{
		"first:before", "second:before", "handler", "second:after", "first:after",
	}, trace)
	assert.Equal(t, 2, entry.Info.Middlewares)
}

func TestRouter_LaterUseWrapsEarlier(t *testing.T) {
	var trace []string
	r := NewRouter[NoState]("", "C")
	r.Handle("GET", "/", "H", Stateless[NoState](func(RequestContext) error { return nil }))
	r.Use(tracing("inner", &trace))
	r.Use(tracing("outer", &trace))

	entry, _, ok := r.WithState(NoState{}).Match("GET", "/")
	require.True(t, ok)
	require.NoError(t, entry.Handler(newFakeContext()))
	assert.Equal(t, []string{"outer:before", "inner:before", "inner:after", "outer:after"}, trace)
}

func TestRouter_UseOnlyWrapsRegisteredRoutes(t *testing.T) {
	var trace []string
	r := NewRouter[NoState]("", "C")
	r.Use(tracing("early", &trace))
	r.Handle("GET", "/", "H", Stateless[NoState](func(RequestContext) error { return nil }))

	entry, _, ok := r.WithState(NoState{}).Match("GET", "/")
	require.True(t, ok)
	require.NoError(t, entry.Handler(newFakeContext()))
	assert.Empty(t, trace)
}

func TestRouter_NestAndState(t *testing.T) {
	r := NewRouter[*appState]("example.com/app", "GreetController")
	r.Handle("get", "/{name}", "Greet", func(c RequestContext, s *appState) error {
		return c.Response().String(200, s.greeting+" "+c.Param("name"))
	})
	r.Nest("/greet")

	table := r.WithState(&appState{greeting: "hello"})
	routes := table.Routes()
	require.Len(t, routes, 1)
	assert.Equal(t, "GET", routes[0].Method)
	assert.Equal(t, "/greet/{name}", routes[0].Path)
	assert.Equal(t, "Greet", routes[0].HandlerName)

	entry, params, ok := table.Match("GET", "/greet/bob")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"name": "bob"}, params)

	ctx := newFakeContext()
	ctx.params = params
	require.NoError(t, entry.Handler(ctx))
	assert.Equal(t, "hello bob", string(ctx.res.body))
}

func TestTable_EmptyRouterMatchesNothing(t *testing.T) {
	table := NewRouter[NoState]("", "Empty").Nest("/api").WithState(NoState{})
	_, _, ok := table.Match("GET", "/api")
	assert.False(t, ok)
	assert.Empty(t, table.Routes())
}

func TestTable_MatchRejectsWrongMethodAndLength(t *testing.T) {
	r := NewRouter[NoState]("", "C")
	r.Handle("POST", "/users/{id}/posts/{post_id}", "Create", Stateless[NoState](func(RequestContext) error { return nil }))
	table := r.WithState(NoState{})

	_, _, ok := table.Match("GET", "/users/1/posts/2")
	assert.False(t, ok)
	_, _, ok = table.Match("POST", "/users/1/posts")
	assert.False(t, ok)

	_, params, ok := table.Match("POST", "/users/1/posts/2")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"id": "1", "post_id": "2"}, params)
}

func TestMerge(t *testing.T) {
	a := NewRouter[NoState]("", "A").Handle("GET", "/a", "A", Stateless[NoState](func(RequestContext) error { return nil }))
	b := NewRouter[NoState]("", "B").Handle("GET", "/b", "B", Stateless[NoState](func(RequestContext) error { return nil }))

	merged := Merge(a.WithState(NoState{}), nil, b.WithState(NoState{}))
	routes := merged.Routes()
	require.Len(t, routes, 2)
	assert.Equal(t, "/a", routes[0].Path)
	assert.Equal(t, "/b", routes[1].Path)
}

func TestJoinPath(t *testing.T) {
	tests := []struct {
		prefix, path, expected string
	}{
		{"", "/", "/"},
		{"", "", "/"},
		{"/api", "/", "/api"},
		{"/api/", "/users", "/api/users"},
		{"/api", "users", "/api/users"},
		{"", "/users/{id}", "/users/{id}"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, JoinPath(tt.prefix, tt.path), "%q + %q", tt.prefix, tt.path)
	}
}
