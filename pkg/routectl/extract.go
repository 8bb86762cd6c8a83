package routectl

// HeaderValue returns the named request header, or "" when the request does not carry it
func HeaderValue(r RequestInterface, name string) string {
	return r.Header(name)
}

// HeaderPtr returns the named request header, or nil when it is missing or empty
func HeaderPtr(r RequestInterface, name string) *string {
	if v := r.Header(name); v != "" {
		return &v
	}
	return nil
}

// CookieJar is a snapshot of the request cookies, keyed by name
type CookieJar map[string]string

// CookieJarOf reads every cookie of the request once
func CookieJarOf(c RequestContext) CookieJar {
	cookies := c.Request().Cookies()
	jar := make(CookieJar, len(cookies))
	for _, ck := range cookies {
		if _, seen := jar[ck.Name]; !seen {
			jar[ck.Name] = ck.Value
		}
	}
	return jar
}

// Value returns the cookie value, or "" when the cookie is absent
func (j CookieJar) Value(name string) string {
	return j[name]
}

// Ptr returns the cookie value, or nil when the cookie is absent
func (j CookieJar) Ptr(name string) *string {
	if v, ok := j[name]; ok {
		return &v
	}
	return nil
}

// BodyBytes reads the raw request body
func BodyBytes(c RequestContext) ([]byte, error) {
	body, err := c.Request().Body()
	if err != nil {
		return nil, ErrBadRequest("failed to read request body", err)
	}
	return body, nil
}

// BodyText reads the request body as a string
func BodyText(c RequestContext) (string, error) {
	body, err := BodyBytes(c)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// BindQuery binds the query string into v, reporting failures as 400
func BindQuery(c RequestContext, v any) error {
	if err := c.BindQuery(v); err != nil {
		return ErrBadRequest("invalid query parameters", err)
	}
	return nil
}

// BindJSON binds a JSON body into v, reporting failures as 400
func BindJSON(c RequestContext, v any) error {
	if err := c.BindJSON(v); err != nil {
		return ErrBadRequest("invalid JSON body", err)
	}
	return nil
}

// BindForm binds a form body into v, reporting failures as 400
func BindForm(c RequestContext, v any) error {
	if err := c.BindForm(v); err != nil {
		return ErrBadRequest("invalid form body", err)
	}
	return nil
}
