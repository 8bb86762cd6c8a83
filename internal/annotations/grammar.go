package annotations

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// annotationLexer tokenizes the argument text of a routectl annotation
var annotationLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Number", Pattern: `[-+]?[0-9]+(\.[0-9]+)?`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Punct", Pattern: `[(),=.]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// callNode is the root of every annotation: keyword ( "(" argList? ")" )?
type callNode struct {
	Pos     lexer.Position
	Keyword string     `parser:"@Ident"`
	Open    bool       `parser:"( @'('"`
	Args    []*argNode `parser:"  ( @@ ( ',' @@ )* ','? )? ')' )?"`
}

// argNode is one argument: a literal, a reference, a call or a key = value pair
type argNode struct {
	Pos    lexer.Position
	String *string    `parser:"  @String"`
	Number *string    `parser:"| @Number"`
	Named  *namedNode `parser:"| @@"`
}

type namedNode struct {
	Pos   lexer.Position
	Ref   *refNode   `parser:"@@"`
	Call  bool       `parser:"( @'('"`
	Args  []*argNode `parser:"  ( @@ ( ',' @@ )* ','? )? ')'"`
	Value *valueNode `parser:"| '=' @@ )?"`
}

type valueNode struct {
	Pos    lexer.Position
	String *string  `parser:"  @String"`
	Number *string  `parser:"| @Number"`
	Ref    *refNode `parser:"| @@"`
}

type refNode struct {
	Parts []string `parser:"@Ident ( '.' @Ident )*"`
}

func (r *refNode) String() string {
	return strings.Join(r.Parts, ".")
}

// ident returns the reference when it is a single identifier
func (r *refNode) ident() (string, bool) {
	if len(r.Parts) != 1 {
		return "", false
	}
	return r.Parts[0], true
}

var callParser = participle.MustBuild[callNode](
	participle.Lexer(annotationLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

// describe renders an argument the way the user wrote it, for diagnostics
func (a *argNode) describe() string {
	switch {
	case a.String != nil:
		return *a.String
	case a.Number != nil:
		return *a.Number
	case a.Named != nil:
		return a.Named.Ref.String()
	}
	return "?"
}

// stringArg returns the unquoted value of a bare string literal argument
func (a *argNode) stringArg() (string, bool) {
	if a.String == nil {
		return "", false
	}
	return unquote(*a.String), true
}

// bare reports whether the argument is a reference with no call or value
func (n *namedNode) bare() bool {
	return !n.Call && n.Value == nil
}

func unquote(lit string) string {
	if s, err := strconv.Unquote(lit); err == nil {
		return s
	}
	return strings.TrimSuffix(strings.TrimPrefix(lit, `"`), `"`)
}
