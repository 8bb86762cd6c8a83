package routectl

import (
	"encoding/json"
	"net/http"
)

// Response represents an HTTP response with custom status code and body.
// Return it from a handler when the status or per-response headers matter:
//
//	func (c *UserController) Create(u User) (*routectl.Response, error) {
//		return routectl.Created(u), nil
//	}
type Response struct {
	StatusCode int
	Body       any
	Headers    []Header
}

// NewResponse creates a new Response with the specified status code and body
func NewResponse(statusCode int, body any) *Response {
	return &Response{StatusCode: statusCode, Body: body}
}

// OK creates a 200 OK response with the given body
func OK(body any) *Response {
	return NewResponse(http.StatusOK, body)
}

// Created creates a 201 Created response with the given body
func Created(body any) *Response {
	return NewResponse(http.StatusCreated, body)
}

// NoContent creates a 204 No Content response
func NoContent() *Response {
	return NewResponse(http.StatusNoContent, nil)
}

// WithHeader adds a response header and returns r
func (r *Response) WithHeader(name, value string) *Response {
	r.Headers = append(r.Headers, Header{Name: name, Value: value})
	return r
}

// Header is one response header
type Header struct {
	Name  string
	Value string
}

// ResponseOptions is the header and content-type augmentation computed for a route
type ResponseOptions struct {
	Headers     []Header
	ContentType string
}

// Apply sets the option headers on the response. Adapters call it before the
// handler runs so the headers survive handlers that write the response themselves.
func (o *ResponseOptions) Apply(c RequestContext) {
	if o == nil {
		return
	}
	for _, h := range o.Headers {
		c.Response().SetHeader(h.Name, h.Value)
	}
	if o.ContentType != "" {
		c.Response().SetHeader("Content-Type", o.ContentType)
	}
}

// Render writes a handler result. Strings are sent as text, byte slices as
// octet streams, *Response values with their own status and headers, and
// everything else as JSON. A configured content type replaces the default one.
// Nothing is written when the handler already wrote the response.
func Render(c RequestContext, result any, opts *ResponseOptions) error {
	if c.Response().Written() {
		return nil
	}

	contentType := ""
	if opts != nil {
		contentType = opts.ContentType
	}

	status := http.StatusOK
	if resp, ok := result.(*Response); ok && resp != nil {
		if resp.StatusCode != 0 {
			status = resp.StatusCode
		}
		for _, h := range resp.Headers {
			c.Response().SetHeader(h.Name, h.Value)
		}
		result = resp.Body
	}

	return writeBody(c, status, result, contentType)
}

func writeBody(c RequestContext, status int, body any, contentType string) error {
	res := c.Response()
	switch v := body.(type) {
	case nil:
		if status == http.StatusOK {
			status = http.StatusNoContent
		}
		return res.NoContent(status)
	case string:
		if contentType == "" {
			contentType = "text/plain; charset=utf-8"
		}
		return res.Blob(status, contentType, []byte(v))
	case []byte:
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		return res.Blob(status, contentType, v)
	default:
		if contentType == "" {
			return res.JSON(status, v)
		}
		payload, err := json.Marshal(v)
		if err != nil {
			return ErrInternalServerError("failed to encode response", err)
		}
		return res.Blob(status, contentType, payload)
	}
}
