package templates

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/routectl/internal/models"
	"github.com/toyz/routectl/internal/planner"
	"github.com/toyz/routectl/internal/registry"
)

func TestHeaderName(t *testing.T) {
	tests := []struct {
		param string
		want  string
	}{
		{"userAgent", "user-agent"},
		{"user_agent", "user-agent"},
		{"requestID", "request-id"},
		{"HTTPStatus", "http-status"},
		{"xAPIKey", "x-api-key"},
		{"authorization", "authorization"},
		{"X", "x"},
	}
	for _, tt := range tests {
		t.Run(tt.param, func(t *testing.T) {
			assert.Equal(t, tt.want, HeaderName(tt.param))
		})
	}
}

func TestNames(t *testing.T) {
	assert.Equal(t, "wrapUserControllerGet", AdapterName("UserController", "Get"))
	assert.Equal(t, "respUserControllerGet", OptionsName("UserController", "Get"))
}

func TestTemplateRegistry(t *testing.T) {
	tr := NewTemplateRegistry()
	for _, name := range []string{"file", "adapter", "router"} {
		assert.True(t, tr.Has(name), name)
	}
	assert.False(t, tr.Has("module"))

	_, err := tr.Execute("module", nil)
	assert.EqualError(t, err, "template not found: module")
}

var imports = []models.ImportSpec{
	{Path: "context"},
	{Path: planner.RuntimeImportPath},
}

func param(index int, name, typ string, kind models.ExtractorKind) models.ParamInfo {
	return models.ParamInfo{Index: index, Name: name, Type: typ, Kind: kind}
}

func synthesize(t *testing.T, plan models.BindingPlan, stateType string) string {
	t.Helper()
	out, err := NewSynthesizer(NewTemplateRegistry(), registry.NewPathParsers()).Adapter(plan, stateType, imports)
	require.NoError(t, err)
	return out
}

func TestAdapter_ContextExtractors(t *testing.T) {
	agent := param(0, "userAgent", "string", models.HeaderParam)
	trace := param(1, "traceID", "*string", models.HeaderParam)
	theme := param(2, "theme", "string", models.CookieParam)
	token := param(3, "token", "*string", models.CookieParam)
	user := param(4, "user", "*Account", models.SessionParam)
	visits := param(5, "visits", "int", models.SessionParam)

	plan := models.BindingPlan{
		Controller: "Profile",
		Route:      models.RouteMetadata{HandlerName: "Show", Return: models.ReturnError},
		Bindings: []models.Binding{
			{Kind: models.HeaderParam, Params: []models.ParamInfo{agent, trace}},
			{Kind: models.CookieParam, Params: []models.ParamInfo{theme, token}},
			{Kind: models.SessionParam, Params: []models.ParamInfo{user, visits}},
		},
		CallArgs:     []models.ParamInfo{agent, trace, theme, token, user, visits},
		NeedsAdapter: true,
	}

	out := synthesize(t, plan, "")
	for _, fragment := range []string{
		"func wrapProfileShow(ctrl *Profile) routectl.Handler[routectl.NoState] {",
		"hdr := c.Request()",
		`p0 := routectl.HeaderValue(hdr, "user-agent")`,
		`p1 := routectl.HeaderPtr(hdr, "trace-id")`,
		"jar := routectl.CookieJarOf(c)",
		`p2 := jar.Value("theme")`,
		`p3 := jar.Ptr("token")`,
		"sess := routectl.SessionOf(c)",
		`p4 := routectl.SessionPtr[Account](c.Context(), sess, "user")`,
		`p5 := routectl.SessionValue[int](c.Context(), sess, "visits")`,
		"if err := ctrl.Show(p0, p1, p2, p3, p4, p5); err != nil {",
		"return routectl.Render(c, nil, nil)",
	} {
		assert.Contains(t, out, fragment)
	}
	assert.NotContains(t, out, "var resp")
}

func TestAdapter_PathTupleAndBody(t *testing.T) {
	postID := param(0, "post_id", "string", models.Path)
	id := param(1, "id", "int64", models.Path)
	raw := param(2, "raw", "[]byte", models.Bytes)

	plan := models.BindingPlan{
		Controller: "Posts",
		Route:      models.RouteMetadata{HandlerName: "Update", Return: models.ReturnValueError},
		Bindings: []models.Binding{
			{Kind: models.Path, Params: []models.ParamInfo{id, postID}},
			{Kind: models.Bytes, Params: []models.ParamInfo{raw}},
		},
		CallArgs:     []models.ParamInfo{postID, id, raw},
		Headers:      []models.Header{{Name: "Cache-Control", Value: "no-store"}},
		ContentType:  "text/plain",
		NeedsAdapter: true,
	}

	out := synthesize(t, plan, "*App")
	for _, fragment := range []string{
		"var respPostsUpdate = &routectl.ResponseOptions{",
		`{Name: "Cache-Control", Value: "no-store"},`,
		`ContentType: "text/plain",`,
		"func wrapPostsUpdate(ctrl *Posts) routectl.Handler[*App] {",
		`raw, err := routectl.PathValues(c, "id", "post_id")`,
		"p1, err := routectl.ParseInt64(raw[0])",
		"p0 := raw[1]",
		"p2, err := routectl.BodyBytes(c)",
		"respPostsUpdate.Apply(c)",
		"result, err := ctrl.Update(p0, p1, p2)",
		"return routectl.Render(c, result, respPostsUpdate)",
	} {
		assert.Contains(t, out, fragment)
	}
}

func TestAdapter_NamedBodyAndPassthrough(t *testing.T) {
	rc := param(0, "rc", "routectl.RequestContext", models.None)
	ctx := param(1, "ctx", "context.Context", models.None)
	blank := param(2, "_", "Options", models.None)
	doc := param(3, "doc", "Markdown", models.Text)
	form := param(4, "form", "Signup", models.Form)

	plan := models.BindingPlan{
		Controller: "Docs",
		Route:      models.RouteMetadata{HandlerName: "Render", Return: models.ReturnNone},
		Bindings: []models.Binding{
			{Kind: models.Form, Params: []models.ParamInfo{form}},
			{Kind: models.Text, Params: []models.ParamInfo{doc}},
			{Kind: models.None, Params: []models.ParamInfo{rc, ctx, blank}},
		},
		CallArgs:     []models.ParamInfo{rc, ctx, blank, doc, form},
		NeedsAdapter: true,
	}

	out := synthesize(t, plan, "")
	for _, fragment := range []string{
		"var p4 Signup",
		"if err := routectl.BindForm(c, &p4); err != nil {",
		"body, err := routectl.BodyText(c)",
		"p3 := Markdown(body)",
		"p0 := c",
		"p1 := c.Context()",
		"var p2 Options",
		"ctrl.Render(p0, p1, p2, p3, p4)",
		"return routectl.Render(c, nil, nil)",
	} {
		assert.Contains(t, out, fragment)
	}
}

func TestAdapter_PointerBodies(t *testing.T) {
	tests := []struct {
		name  string
		kind  models.ExtractorKind
		typ   string
		steps []string
	}{
		{"text", models.Text, "*string", []string{"body, err := routectl.BodyText(c)", "p0 := &body"}},
		{"bytes", models.Bytes, "*[]byte", []string{"body, err := routectl.BodyBytes(c)", "p0 := &body"}},
		{"named xml", models.Xml, "*Feed", []string{"body, err := routectl.BodyText(c)", "val := Feed(body)", "p0 := &val"}},
		{"json", models.Json, "*Feed", []string{"p0 := new(Feed)", "if err := routectl.BindJSON(c, p0); err != nil {"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := param(0, "doc", tt.typ, tt.kind)
			plan := models.BindingPlan{
				Controller:   "Docs",
				Route:        models.RouteMetadata{HandlerName: "Save", Return: models.ReturnError},
				Bindings:     []models.Binding{{Kind: tt.kind, Params: []models.ParamInfo{doc}}},
				CallArgs:     []models.ParamInfo{doc},
				NeedsAdapter: true,
			}
			out := synthesize(t, plan, "")
			for _, step := range tt.steps {
				assert.Contains(t, out, step)
			}
			assert.NotContains(t, out, "*"+strings.TrimPrefix(tt.typ, "*")+"(body)")
		})
	}
}

func TestAdapter_VariantNames(t *testing.T) {
	plan := models.BindingPlan{
		Controller:   "Things",
		Route:        models.RouteMetadata{HandlerName: "Show", Return: models.ReturnNone},
		Headers:      []models.Header{{Name: "X-A", Value: "1"}},
		NeedsAdapter: true,
		Variant:      "Head",
	}
	out := synthesize(t, plan, "")
	assert.Contains(t, out, "func wrapThingsShowHead(ctrl *Things) routectl.Handler[routectl.NoState] {")
	assert.Contains(t, out, "var respThingsShowHead = &routectl.ResponseOptions{")
	assert.Contains(t, out, "ctrl.Show()")
}

func TestAdapter_UnsupportedBinding(t *testing.T) {
	plan := models.BindingPlan{
		Controller: "C",
		Route:      models.RouteMetadata{HandlerName: "H"},
		Bindings:   []models.Binding{{Kind: models.ExtractorKind(99)}},
	}
	_, err := NewSynthesizer(NewTemplateRegistry(), registry.NewPathParsers()).Adapter(plan, "", imports)
	assert.Error(t, err)
}

func TestNeedsAdapter(t *testing.T) {
	assert.False(t, NeedsAdapter(models.BindingPlan{Native: true}))
	assert.True(t, NeedsAdapter(models.BindingPlan{Native: true, NeedsAdapter: true}))
	assert.True(t, NeedsAdapter(models.BindingPlan{}))
}
