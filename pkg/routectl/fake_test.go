package routectl

import (
	"context"
	"encoding/json"
	"errors"
)

// fakeContext is an in-memory RequestContext for exercising runtime helpers
type fakeContext struct {
	method  string
	path    string
	params  map[string]string
	query   map[string][]string
	headers map[string]string
	cookies []Cookie
	body    []byte
	values  map[string]any
	res     *fakeResponse
}

func newFakeContext() *fakeContext {
	return &fakeContext{
		method:  "GET",
		path:    "/",
		params:  map[string]string{},
		query:   map[string][]string{},
		headers: map[string]string{},
		values:  map[string]any{},
		res:     &fakeResponse{headers: map[string]string{}},
	}
}

func (f *fakeContext) Method() string                   { return f.method }
func (f *fakeContext) Path() string                     { return f.path }
func (f *fakeContext) RealIP() string                   { return "127.0.0.1" }
func (f *fakeContext) Context() context.Context         { return context.Background() }
func (f *fakeContext) Param(key string) string          { return f.params[key] }
func (f *fakeContext) ParamNames() []string             { return nil }
func (f *fakeContext) QueryParams() map[string][]string { return f.query }
func (f *fakeContext) Request() RequestInterface        { return &fakeRequest{f} }
func (f *fakeContext) Response() ResponseInterface {
	return f.res
}
func (f *fakeContext) Get(key string) any      { return f.values[key] }
func (f *fakeContext) Set(key string, val any) { f.values[key] = val }

func (f *fakeContext) QueryParam(key string) string {
	if v := f.query[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func (f *fakeContext) BindQuery(i any) error {
	flat := map[string]string{}
	for k, v := range f.query {
		flat[k] = v[0]
	}
	raw, _ := json.Marshal(flat)
	return json.Unmarshal(raw, i)
}

func (f *fakeContext) BindForm(i any) error { return f.BindJSON(i) }
func (f *fakeContext) BindJSON(i any) error { return json.Unmarshal(f.body, i) }

type fakeRequest struct{ f *fakeContext }

func (r *fakeRequest) Header(key string) string { return r.f.headers[key] }
func (r *fakeRequest) Body() ([]byte, error)    { return r.f.body, nil }
func (r *fakeRequest) ContentLength() int64     { return int64(len(r.f.body)) }
func (r *fakeRequest) ContentType() string      { return r.f.headers["Content-Type"] }
func (r *fakeRequest) Cookies() []Cookie        { return r.f.cookies }
func (r *fakeRequest) Cookie(name string) (Cookie, error) {
	for _, c := range r.f.cookies {
		if c.Name == name {
			return c, nil
		}
	}
	return Cookie{}, errors.New("no cookie")
}

type fakeResponse struct {
	status      int
	headers     map[string]string
	body        []byte
	cookies     []Cookie
	written     bool
	contentType string
}

func (r *fakeResponse) Status() int                 { return r.status }
func (r *fakeResponse) SetStatus(code int)          { r.status = code }
func (r *fakeResponse) Header(key string) string    { return r.headers[key] }
func (r *fakeResponse) SetHeader(key, value string) { r.headers[key] = value }
func (r *fakeResponse) SetCookie(c Cookie)          { r.cookies = append(r.cookies, c) }
func (r *fakeResponse) Written() bool               { return r.written }

func (r *fakeResponse) JSON(code int, i any) error {
	payload, err := json.Marshal(i)
	if err != nil {
		return err
	}
	return r.Blob(code, "application/json", payload)
}

func (r *fakeResponse) String(code int, s string) error {
	return r.Blob(code, "text/plain; charset=utf-8", []byte(s))
}

func (r *fakeResponse) Blob(code int, contentType string, b []byte) error {
	r.status, r.contentType, r.body, r.written = code, contentType, b, true
	r.headers["Content-Type"] = contentType
	return nil
}

func (r *fakeResponse) NoContent(code int) error {
	r.status, r.written = code, true
	return nil
}
