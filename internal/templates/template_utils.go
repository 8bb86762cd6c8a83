package templates

import (
	"strconv"
	"strings"
	"text/template"
	"unicode"
)

var templateFuncs = template.FuncMap{
	"quote": strconv.Quote,
	"join":  strings.Join,
}

// HeaderName derives a request header name from a parameter name:
// userAgent and user_agent both become user-agent, requestID becomes request-id.
func HeaderName(param string) string {
	runes := []rune(param)
	var b strings.Builder
	for i, r := range runes {
		switch {
		case r == '_' || r == '-':
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "-") {
				b.WriteByte('-')
			}
			continue
		case unicode.IsUpper(r) && i > 0:
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				if !strings.HasSuffix(b.String(), "-") {
					b.WriteByte('-')
				}
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return strings.TrimSuffix(b.String(), "-")
}

// AdapterName returns the name of the generated adapter of a handler
func AdapterName(controller, handler string) string {
	return "wrap" + controller + handler
}

// OptionsName returns the name of the generated response options of a handler
func OptionsName(controller, handler string) string {
	return "resp" + controller + handler
}
