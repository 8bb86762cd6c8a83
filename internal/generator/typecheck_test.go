package generator

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/packages"

	"github.com/toyz/routectl/internal/diagnostics"
	"github.com/toyz/routectl/internal/parser"
	"github.com/toyz/routectl/internal/registry"
)

const typecheckImportPath = "github.com/toyz/routectl/internal/generator/testdata/typecheck"

// TestGenerate_TypeChecks loads testdata/typecheck with the generated file
// overlaid and requires the package to type-check.
func TestGenerate_TypeChecks(t *testing.T) {
	if testing.Short() {
		t.Skip("loads packages through the go command")
	}

	dir, err := filepath.Abs(filepath.Join("testdata", "typecheck"))
	require.NoError(t, err)

	sink := diagnostics.NewSink()
	caps := registry.Capabilities{Headers: true, Cookies: true, Sessions: true}
	pkg, err := parser.NewParser(caps).ParsePackage(dir, sink)
	require.NoError(t, err)
	pkg.ImportPath = typecheckImportPath

	out, err := NewGenerator().Generate(pkg, sink)
	require.NoError(t, err)
	require.NotNil(t, out)
	require.False(t, sink.HasFatal(), "%v", sink.Items())
	assert.Equal(t, []string{"PostController", "ProfileController", "BodyController", "HealthController"}, out.Controllers)

	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedSyntax |
			packages.NeedImports | packages.NeedTypes | packages.NeedTypesInfo,
		Dir:     dir,
		Overlay: map[string][]byte{out.Path: out.Content},
	}
	pkgs, err := packages.Load(cfg, ".")
	require.NoError(t, err)
	require.Len(t, pkgs, 1)

	loaded := pkgs[0]
	for _, e := range loaded.Errors {
		t.Errorf("%s", e)
	}
	if t.Failed() {
		t.Logf("generated file:\n%s", out.Content)
		return
	}
	assert.Contains(t, loaded.GoFiles, out.Path)

	scope := loaded.Types.Scope()
	for _, name := range []string{
		"wrapPostControllerComment",
		"wrapPostControllerShowGet",
		"wrapPostControllerShowHead",
		"respPostControllerShowGet",
		"respPostControllerShowHead",
		"wrapPostControllerListGet1",
		"wrapPostControllerListGet2",
		"wrapProfileControllerShow",
		"wrapProfileControllerRaw",
		"wrapBodyControllerTextPtr",
		"wrapBodyControllerBytesPtr",
		"wrapBodyControllerBlobPtr",
		"wrapBodyControllerXML",
	} {
		assert.NotNil(t, scope.Lookup(name), name)
	}
	assert.Nil(t, scope.Lookup("wrapHealthControllerHealth"))
}
