package routectl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name        string
		result      any
		opts        *ResponseOptions
		status      int
		contentType string
		body        string
	}{
		{
			name:        "struct as json",
			result:      map[string]int{"id": 1},
			status:      200,
			contentType: "application/json",
			body:        `{"id":1}`,
		},
		{
			name:        "string as text",
			result:      "pong",
			status:      200,
			contentType: "text/plain; charset=utf-8",
			body:        "pong",
		},
		{
			name:        "bytes as octet stream",
			result:      []byte{0x1, 0x2},
			status:      200,
			contentType: "application/octet-stream",
			body:        "\x01\x02",
		},
		{
			name:        "content type override on json",
			result:      map[string]string{"a": "b"},
			opts:        &ResponseOptions{ContentType: "application/vnd.api+json"},
			status:      200,
			contentType: "application/vnd.api+json",
			body:        `{"a":"b"}`,
		},
		{
			name:        "content type override on text",
			result:      "<p>hi</p>",
			opts:        &ResponseOptions{ContentType: "text/html"},
			status:      200,
			contentType: "text/html",
			body:        "<p>hi</p>",
		},
		{
			name:        "response wrapper",
			result:      Created(map[string]int{"id": 2}),
			status:      201,
			contentType: "application/json",
			body:        `{"id":2}`,
		},
		{
			name:   "nil result",
			result: nil,
			status: 204,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newFakeContext()
			require.NoError(t, Render(c, tt.result, tt.opts))
			assert.Equal(t, tt.status, c.res.status)
			assert.Equal(t, tt.contentType, c.res.contentType)
			assert.Equal(t, tt.body, string(c.res.body))
		})
	}
}

func TestRender_SkipsWrittenResponse(t *testing.T) {
	c := newFakeContext()
	require.NoError(t, c.Response().String(202, "already"))
	require.NoError(t, Render(c, "again", nil))
	assert.Equal(t, 202, c.res.status)
	assert.Equal(t, "already", string(c.res.body))
}

func TestRender_ResponseHeaders(t *testing.T) {
	c := newFakeContext()
	resp := OK("x").WithHeader("X-Request-Id", "abc")
	require.NoError(t, Render(c, resp, nil))
	assert.Equal(t, "abc", c.res.headers["X-Request-Id"])
}

func TestResponseOptions_Apply(t *testing.T) {
	c := newFakeContext()
	opts := &ResponseOptions{
		Headers:     []Header{{Name: "X-A", Value: "3"}, {Name: "X-B", Value: "2"}},
		ContentType: "text/plain",
	}
	opts.Apply(c)
	assert.Equal(t, "3", c.res.headers["X-A"])
	assert.Equal(t, "2", c.res.headers["X-B"])
	assert.Equal(t, "text/plain", c.res.headers["Content-Type"])

	var none *ResponseOptions
	assert.NotPanics(t, func() { none.Apply(c) })
}

func TestHTTPError(t *testing.T) {
	cause := errors.New("boom")
	he := ErrBadRequest("bad input", cause)
	assert.Equal(t, 400, he.Code)
	assert.ErrorIs(t, he, cause)
	assert.Equal(t, "HTTP 400: bad input: boom", he.Error())

	assert.Equal(t, "Not Found", NewHTTPError(404, "").Message)

	mapped := AsHTTPError(cause)
	assert.Equal(t, 500, mapped.Code)
	assert.Same(t, he, AsHTTPError(he))
}
