package models

import "strings"

// Method is an HTTP method a route can be registered under
type Method string

const (
	MethodGet     Method = "GET"
	MethodHead    Method = "HEAD"
	MethodDelete  Method = "DELETE"
	MethodOptions Method = "OPTIONS"
	MethodPatch   Method = "PATCH"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodTrace   Method = "TRACE"
	MethodConnect Method = "CONNECT"
)

// AllMethods lists the methods in annotation keyword order
var AllMethods = []Method{
	MethodGet, MethodHead, MethodDelete, MethodOptions, MethodPatch,
	MethodPost, MethodPut, MethodTrace, MethodConnect,
}

// ParseMethod resolves an annotation keyword such as "get" or "POST"
func ParseMethod(keyword string) (Method, bool) {
	m := Method(strings.ToUpper(keyword))
	for _, known := range AllMethods {
		if m == known {
			return m, true
		}
	}
	return "", false
}

// CarriesNoBody reports whether requests with this method conventionally have no payload
func (m Method) CarriesNoBody() bool {
	return m == MethodGet || m == MethodHead || m == MethodDelete
}

func (m Method) String() string {
	return string(m)
}
