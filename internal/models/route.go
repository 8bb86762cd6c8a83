package models

// RouteDescriptor is the parsed route annotation of one handler
type RouteDescriptor struct {
	Method      Method
	Path        string
	Extractors  map[string]ExtractorKind
	Headers     []Header
	ContentType string
}

// ReturnShape classifies a handler's results
type ReturnShape int

const (
	ReturnNone       ReturnShape = iota // func(...)
	ReturnError                         // func(...) error
	ReturnValue                         // func(...) T
	ReturnValueError                    // func(...) (T, error)
)

// ParamInfo is one declared handler parameter
type ParamInfo struct {
	Index int // position in the handler signature
	Name  string
	Type  string
	Kind  ExtractorKind
}

// Blank reports whether the parameter is unnamed or "_"
func (p ParamInfo) Blank() bool {
	return p.Name == "" || p.Name == "_"
}

// RouteMetadata is one annotated handler of a controller
type RouteMetadata struct {
	Descriptor  RouteDescriptor
	HandlerName string
	Params      []ParamInfo
	Return      ReturnShape
	ResultType  string // T for ReturnValue and ReturnValueError
	File        string
	Line        int
}
