package models

import "fmt"

// ExtractorKind is the strategy used to obtain one handler parameter's value
type ExtractorKind int

const (
	// None means the parameter receives no managed extraction
	None ExtractorKind = iota
	Path
	Query
	Json
	Form
	Bytes
	Text
	Html
	Xml
	JavaScript
	HeaderParam
	CookieParam
	SessionParam
	State
)

var extractorNames = [...]string{
	None:         "None",
	Path:         "Path",
	Query:        "Query",
	Json:         "Json",
	Form:         "Form",
	Bytes:        "Bytes",
	Text:         "Text",
	Html:         "Html",
	Xml:          "Xml",
	JavaScript:   "JavaScript",
	HeaderParam:  "HeaderParam",
	CookieParam:  "CookieParam",
	SessionParam: "SessionParam",
	State:        "State",
}

// AnnotationKinds are the kinds that may be named in extract(...); None is implicit
var AnnotationKinds = []ExtractorKind{
	Path, Query, Json, Form, Bytes, Text, Html, Xml, JavaScript,
	HeaderParam, CookieParam, SessionParam, State,
}

func (k ExtractorKind) String() string {
	if k < 0 || int(k) >= len(extractorNames) {
		return fmt.Sprintf("ExtractorKind(%d)", int(k))
	}
	return extractorNames[k]
}

// ParseExtractorKind looks a kind up by its exact annotation name
func ParseExtractorKind(name string) (ExtractorKind, bool) {
	for _, k := range AnnotationKinds {
		if extractorNames[k] == name {
			return k, true
		}
	}
	return None, false
}

// IsBody reports whether the kind reads and consumes the request payload
func (k ExtractorKind) IsBody() bool {
	switch k {
	case Json, Form, Bytes, Text, Html, Xml, JavaScript:
		return true
	}
	return false
}

// IsContext reports whether the kind reads ambient request context
func (k ExtractorKind) IsContext() bool {
	switch k {
	case HeaderParam, CookieParam, SessionParam, State:
		return true
	}
	return false
}

// Capability is a host feature an extractor kind depends on
type Capability string

const (
	NoCapability      Capability = ""
	HeadersCapability Capability = "headers"
	CookiesCapability Capability = "cookies"
	SessionCapability Capability = "sessions"
)

// Capability returns the host capability the kind requires, if any
func (k ExtractorKind) Capability() Capability {
	switch k {
	case HeaderParam:
		return HeadersCapability
	case CookieParam:
		return CookiesCapability
	case SessionParam:
		return SessionCapability
	}
	return NoCapability
}
