package registry

import "fmt"

// PathParser converts a raw path value into a declared Go type
type PathParser struct {
	TypeName string
	Func     string // function in package routectl
	Generic  bool   // Func takes the target type as a type argument
}

// Call renders the conversion expression for raw
func (p PathParser) Call(raw string) string {
	if p.Generic {
		return fmt.Sprintf("routectl.%s[%s](%s)", p.Func, p.TypeName, raw)
	}
	return fmt.Sprintf("routectl.%s(%s)", p.Func, raw)
}

var builtinPathParsers = map[string]string{
	"string":    "ParseString",
	"int":       "ParseInt",
	"int8":      "ParseInt8",
	"int16":     "ParseInt16",
	"int32":     "ParseInt32",
	"int64":     "ParseInt64",
	"uint":      "ParseUint",
	"uint8":     "ParseUint8",
	"uint16":    "ParseUint16",
	"uint32":    "ParseUint32",
	"uint64":    "ParseUint64",
	"float32":   "ParseFloat32",
	"float64":   "ParseFloat64",
	"bool":      "ParseBool",
	"uuid.UUID": "ParseUUID",
}

var pathParserAliases = map[string]string{
	"byte": "uint8",
	"rune": "int32",
}

// PathParsers maps declared path parameter types to runtime conversions
type PathParsers struct {
	parsers map[string]PathParser
}

// NewPathParsers creates a registry with the built-in conversions
func NewPathParsers() *PathParsers {
	r := &PathParsers{parsers: make(map[string]PathParser)}
	for typeName, fn := range builtinPathParsers {
		r.parsers[typeName] = PathParser{TypeName: typeName, Func: fn}
	}
	return r
}

// Register adds or replaces the conversion for a type
func (r *PathParsers) Register(typeName, fn string) {
	r.parsers[typeName] = PathParser{TypeName: typeName, Func: fn}
}

// Builtin reports whether the type has a dedicated conversion
func (r *PathParsers) Builtin(typeName string) bool {
	_, ok := r.parsers[resolveAlias(typeName)]
	return ok
}

// For returns the conversion of typeName. Types without a dedicated
// conversion use ParseText, which requires *T to implement encoding.TextUnmarshaler.
func (r *PathParsers) For(typeName string) PathParser {
	if p, ok := r.parsers[resolveAlias(typeName)]; ok {
		p.TypeName = typeName
		return p
	}
	return PathParser{TypeName: typeName, Func: "ParseText", Generic: true}
}

func resolveAlias(typeName string) string {
	if actual, ok := pathParserAliases[typeName]; ok {
		return actual
	}
	return typeName
}
