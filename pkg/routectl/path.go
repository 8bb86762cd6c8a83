package routectl

import (
	"strings"
)

// PathPartType represents the type of path part
type PathPartType int

const (
	StaticPart PathPartType = iota
	ParameterPart
	WildcardPart
)

// PathPart represents a single part of a route path
type PathPart struct {
	Type      PathPartType
	Value     string // static text, or the parameter name
	ParamType string // optional type hint from {name:type}
}

// Path is a route path template. Parameters are written as {name}, {name:type}
// or :name; {*} is a trailing wildcard.
type Path string

// Raw returns the template as written
func (p Path) Raw() string {
	return string(p)
}

// Parts splits the template into static, parameter and wildcard parts
func (p Path) Parts() []PathPart {
	path := string(p)
	var parts []PathPart
	var static strings.Builder

	flush := func() {
		if static.Len() > 0 {
			parts = append(parts, PathPart{Type: StaticPart, Value: static.String()})
			static.Reset()
		}
	}

	i := 0
	for i < len(path) {
		switch {
		case path[i] == '{':
			j := strings.IndexByte(path[i:], '}')
			if j < 0 {
				// malformed, keep as static text
				static.WriteString(path[i:])
				i = len(path)
				continue
			}
			content := path[i+1 : i+j]
			flush()
			if content == "*" {
				parts = append(parts, PathPart{Type: WildcardPart, Value: "*"})
			} else {
				name, typ, _ := strings.Cut(content, ":")
				parts = append(parts, PathPart{Type: ParameterPart, Value: name, ParamType: typ})
			}
			i += j + 1
		case path[i] == ':' && (i == 0 || path[i-1] == '/'):
			end := strings.IndexByte(path[i:], '/')
			if end < 0 {
				end = len(path) - i
			}
			flush()
			parts = append(parts, PathPart{Type: ParameterPart, Value: path[i+1 : i+end]})
			i += end
		default:
			static.WriteByte(path[i])
			i++
		}
	}
	flush()
	return parts
}

// Params returns the parameter names in template order
func (p Path) Params() []string {
	var names []string
	for _, part := range p.Parts() {
		if part.Type == ParameterPart {
			names = append(names, part.Value)
		}
	}
	return names
}

// Colon renders the template in the :name syntax shared by echo, gin and fiber.
// wildcard is the framework spelling of a catch-all segment.
func (p Path) Colon(wildcard string) string {
	var b strings.Builder
	for _, part := range p.Parts() {
		switch part.Type {
		case ParameterPart:
			b.WriteString(":" + part.Value)
		case WildcardPart:
			b.WriteString(wildcard)
		default:
			b.WriteString(part.Value)
		}
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}

// JoinPath nests path under prefix, keeping exactly one slash between them
func JoinPath(prefix, path string) string {
	prefix = strings.TrimRight(prefix, "/")
	if path == "" || path == "/" {
		if prefix == "" {
			return "/"
		}
		return prefix
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return prefix + path
}
