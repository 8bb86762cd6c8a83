package templates

import (
	"bytes"
	"fmt"
	"text/template"
)

// TemplateRegistry provides a centralized way to access all templates
type TemplateRegistry struct {
	templates map[string]*template.Template
}

// NewTemplateRegistry creates a new template registry with all templates parsed
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{
		templates: make(map[string]*template.Template),
	}

	registry.register("file", fileTemplate)
	registry.register("adapter", adapterTemplate)
	registry.register("router", routerTemplate)

	return registry
}

func (tr *TemplateRegistry) register(name, text string) {
	tr.templates[name] = template.Must(template.New(name).Funcs(templateFuncs).Parse(text))
}

// Has reports whether a template is registered under name
func (tr *TemplateRegistry) Has(name string) bool {
	_, exists := tr.templates[name]
	return exists
}

// Execute renders the named template with data
func (tr *TemplateRegistry) Execute(name string, data any) (string, error) {
	tmpl, exists := tr.templates[name]
	if !exists {
		return "", fmt.Errorf("template not found: %s", name)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.String(), nil
}

// fileTemplate renders a complete generated file
const fileTemplate = `// Code generated by routectl. DO NOT EDIT.

package {{.Package}}

import (
{{- range .Imports}}
	{{if .Name}}{{.Name}} {{end}}{{quote .Path}}
{{- end}}
)
{{range .Sections}}
{{.}}
{{end}}`

// adapterTemplate renders one parameter-binding adapter and its response options
const adapterTemplate = `{{if .HasOptions -}}
var {{.OptionsVar}} = &routectl.ResponseOptions{
{{- if .Headers}}
	Headers: []routectl.Header{
{{- range .Headers}}
		{Name: {{quote .Name}}, Value: {{quote .Value}}},
{{- end}}
	},
{{- end}}
{{- if .ContentType}}
	ContentType: {{quote .ContentType}},
{{- end}}
}

{{end -}}
func {{.FuncName}}(ctrl *{{.Controller}}) routectl.Handler[{{.StateType}}] {
	return func(c routectl.RequestContext, state {{.StateType}}) error {
{{- range .Steps}}
		{{.}}
{{- end}}
	}
}`

// routerTemplate renders the Router method of a controller, and Routes for stateless ones
const routerTemplate = `// Router returns the routes of {{.Controller}}. Bind a state with WithState
// and mount the resulting table on a server.
func (c *{{.Controller}}) Router() *routectl.Router[{{.StateType}}] {
	r := routectl.NewRouter[{{.StateType}}]({{quote .Package}}, {{quote .Controller}})
{{- range .Routes}}
	r.Handle({{quote .Method}}, {{quote .Path}}, {{quote .Handler}}, {{.Target}})
{{- end}}
{{- if .Middlewares}}
	r.Use({{join .Middlewares ", "}})
{{- end}}
{{- if .Prefix}}
	return r.Nest({{quote .Prefix}})
{{- else}}
	return r
{{- end}}
}
{{- if .Stateless}}

// Routes returns the routes of {{.Controller}} ready to mount
func (c *{{.Controller}}) Routes() *routectl.Table {
	return c.Router().WithState(routectl.NoState{})
}
{{- end}}`
