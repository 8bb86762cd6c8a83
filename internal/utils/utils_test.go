package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/routectl/internal/diagnostics"
)

func TestFormatGoSource(t *testing.T) {
	src := "package demo\nimport (\n\"strings\"\n\"fmt\"\n)\nfunc  F( )  string{return fmt.Sprint(strings.ToUpper(\"x\"))}\n"

	out, err := FormatGoSource("demo.go", []byte(src))
	require.NoError(t, err)
	assert.Contains(t, string(out), "import (\n\t\"fmt\"\n\t\"strings\"\n)")
	assert.Contains(t, string(out), "func F() string { return fmt.Sprint(strings.ToUpper(\"x\")) }")

	again, err := FormatGoSource("demo.go", out)
	require.NoError(t, err)
	assert.Equal(t, string(out), string(again))
}

func TestFormatGoSource_KeepsUnusedImports(t *testing.T) {
	src := "package demo\n\nimport \"fmt\"\n"
	out, err := FormatGoSource("demo.go", []byte(src))
	require.NoError(t, err)
	assert.Contains(t, string(out), `import "fmt"`)
}

func TestFormatGoSource_InvalidSyntax(t *testing.T) {
	_, err := FormatGoSource("bad.go", []byte("package demo\nfunc {"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid Go syntax")
}

func TestGoModParser(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/app\n\ngo 1.22\n"), 0o644))
	nested := filepath.Join(root, "internal", "api")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	p := NewGoModParser()
	found, err := p.FindGoModFile(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "go.mod"), found)

	name, err := p.ParseModuleName(found)
	require.NoError(t, err)
	assert.Equal(t, "example.com/app", name)

	_, err = p.ParseModuleName(filepath.Join(root, "other.txt"))
	assert.Error(t, err)
}

func TestGoModParser_NoModuleLine(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "go.mod")
	require.NoError(t, os.WriteFile(path, []byte("go 1.22\n"), 0o644))

	_, err := NewGoModParser().ParseModuleName(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no module declaration")
}

func TestImportPath(t *testing.T) {
	root := t.TempDir()
	tests := []struct {
		name    string
		dir     string
		want    string
		wantErr bool
	}{
		{name: "module root", dir: root, want: "example.com/app"},
		{name: "nested", dir: filepath.Join(root, "internal", "api"), want: "example.com/app/internal/api"},
		{name: "outside", dir: filepath.Dir(root), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ImportPath("example.com/app", root, tt.dir)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.go")

	written, err := WriteFileAtomic(path, []byte("one"), 0o644)
	require.NoError(t, err)
	assert.True(t, written)

	written, err = WriteFileAtomic(path, []byte("one"), 0o644)
	require.NoError(t, err)
	assert.False(t, written, "identical content is not rewritten")

	written, err = WriteFileAtomic(path, []byte("two"), 0o644)
	require.NoError(t, err)
	assert.True(t, written)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are cleaned up")
}

func TestRemoveIfExistsAndSameContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.go")

	same, err := SameContent(path, []byte("x"))
	require.NoError(t, err)
	assert.False(t, same)

	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	same, err = SameContent(path, []byte("x"))
	require.NoError(t, err)
	assert.True(t, same)

	removed, err := RemoveIfExists(path)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = RemoveIfExists(path)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestDiagnosticSystem_Levels(t *testing.T) {
	tests := []struct {
		name    string
		level   DiagnosticLevel
		wantOut []string
		wantErr []string
		absent  []string
	}{
		{
			name:    "quiet shows errors only",
			level:   DiagnosticError,
			wantErr: []string{"[ERROR] boom"},
			absent:  []string{"[WARN]", "[INFO]"},
		},
		{
			name:    "info",
			level:   DiagnosticInfo,
			wantOut: []string{"[INFO] hello", "[SUCCESS] done"},
			wantErr: []string{"[ERROR] boom", "[WARN] careful"},
			absent:  []string{"[VERBOSE]", "[DEBUG]"},
		},
		{
			name:    "debug",
			level:   DiagnosticDebug,
			wantOut: []string{"[VERBOSE] detail", "[DEBUG] trace"},
		},
		{
			name:   "silent",
			level:  DiagnosticSilent,
			absent: []string{"boom", "hello"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			d := NewDiagnosticSystemWithWriters(tt.level, &out, &errOut)
			d.SetColors(false)

			d.Error("boom")
			d.Warn("careful")
			d.Info("hello")
			d.Success("done")
			d.Verbose("detail")
			d.Debug("trace")

			for _, want := range tt.wantOut {
				assert.Contains(t, out.String(), want)
			}
			for _, want := range tt.wantErr {
				assert.Contains(t, errOut.String(), want)
			}
			for _, absent := range tt.absent {
				assert.NotContains(t, out.String()+errOut.String(), absent)
			}
		})
	}
}

func TestDiagnosticSystem_Report(t *testing.T) {
	sink := &diagnostics.Sink{}
	loc := diagnostics.Location{File: "users.go", Line: 12, Column: 3}
	subject := diagnostics.Subject{Controller: "Users", Handler: "Get"}
	sink.Fatalf(loc, subject, diagnostics.UnknownExtractor, "unknown extractor %q", "Paht")
	sink.Suggest("valid kinds are Path, Query")
	sink.Warnf(loc, subject, diagnostics.DanglingExtractor, "extractor for x names no parameter")

	var out, errOut bytes.Buffer
	d := NewDiagnosticSystemWithWriters(DiagnosticError, &out, &errOut)
	d.SetColors(false)
	d.Report(sink.Report())

	assert.Contains(t, errOut.String(), `users.go:12:3: error: Users.Get: unknown extractor "Paht"`)
	assert.Contains(t, errOut.String(), "hint: valid kinds are Path, Query")
	assert.NotContains(t, errOut.String(), "warning", "warnings are hidden at error level")

	errOut.Reset()
	d = NewDiagnosticSystemWithWriters(DiagnosticWarn, &out, &errOut)
	d.SetColors(false)
	d.Report(sink.Report())
	assert.Contains(t, errOut.String(), "users.go:12:3: warning: Users.Get: extractor for x names no parameter")
}

func TestDiagnosticSystem_Summary(t *testing.T) {
	var out bytes.Buffer
	d := NewDiagnosticSystemWithWriters(DiagnosticInfo, &out, &out)
	d.SetColors(false)
	d.Summary("Generation Complete!", map[string]interface{}{"Routes": 3, "Controllers": 1})

	assert.Contains(t, out.String(), "Generation Complete!\n   Controllers: 1\n   Routes: 3\n")
}

func TestDiagnosticSystem_Indent(t *testing.T) {
	sink := &diagnostics.Sink{}
	sink.Warnf(diagnostics.Location{File: "a.go", Line: 3, Column: 1}, diagnostics.Subject{Controller: "A"},
		diagnostics.EmptyController, "no routes found in controller")
	sink.Suggest("add a route")

	var out, errOut bytes.Buffer
	d := NewDiagnosticSystemWithWriters(DiagnosticInfo, &out, &errOut)
	d.SetColors(false)

	d.Indent()
	d.Report(sink.Report())
	d.PhaseItem("pkg: %d route(s)", 2)
	d.Unindent()
	d.Unindent()
	d.Info("done")

	assert.Contains(t, errOut.String(), "  a.go:3:1: warning: A: no routes found in controller\n      hint: add a route\n")
	assert.Contains(t, out.String(), "  ✓ pkg: 2 route(s)\n")
	assert.Contains(t, out.String(), "\n[INFO] done\n")
}
