package diagnostics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSink_SeverityTracking(t *testing.T) {
	s := NewSink()
	assert.False(t, s.HasFatal())
	assert.NoError(t, s.Err())

	s.Warnf(Location{File: "a.go", Line: 3}, Subject{Controller: "Users"}, EmptyController, "no routes found in controller")
	assert.False(t, s.HasFatal())

	mark := s.Mark()
	assert.False(t, s.FatalSince(mark))

	s.Fatalf(Location{File: "a.go", Line: 10, Column: 4}, Subject{Controller: "Users", Handler: "Get", Param: "id"},
		UnknownExtractor, "unknown extractor kind %q", "Pth")
	s.Suggest("valid kinds: %s", "Path, Query")

	assert.True(t, s.HasFatal())
	assert.True(t, s.FatalSince(mark))
	assert.Equal(t, 1, s.Count(Fatal))
	assert.Equal(t, 1, s.Count(Advisory))
	require.Len(t, s.Since(mark), 1)
	assert.Equal(t, "valid kinds: Path, Query", s.Since(mark)[0].Suggestion)
}

func TestSink_ReportOrdering(t *testing.T) {
	s := NewSink()
	s.Warnf(Location{File: "b.go", Line: 1}, Subject{}, UnknownArgument, "third")
	s.Warnf(Location{File: "a.go", Line: 9}, Subject{}, UnknownArgument, "second")
	s.Warnf(Location{File: "a.go", Line: 2, Column: 5}, Subject{}, UnknownArgument, "first")
	s.Warnf(Location{File: "a.go", Line: 9}, Subject{}, UnknownArgument, "second-b")

	var got []string
	for _, d := range s.Report() {
		got = append(got, d.Message)
	}
	assert.Equal(t, []string{"first", "second", "second-b", "third"}, got)

	// reporting order is untouched
	assert.Equal(t, "third", s.Items()[0].Message)
}

func TestSink_Err(t *testing.T) {
	s := NewSink()
	s.Fatalf(Location{File: "x.go", Line: 4}, Subject{Controller: "C", Handler: "H"}, DuplicateRoute, "duplicate route GET /")
	s.Warnf(Location{File: "x.go", Line: 2}, Subject{}, EmptyHeader, "empty header value")

	err := s.Err()
	require.Error(t, err)

	var fatal *FatalError
	require.True(t, errors.As(err, &fatal))
	require.Len(t, fatal.Diagnostics, 1)
	assert.Equal(t, "x.go:4: error: C.H: duplicate route GET /", err.Error())

	s.Fatalf(Location{}, Subject{}, SyntaxError, "unexpected token")
	assert.Contains(t, s.Err().Error(), "2 errors:")
}

func TestSink_Merge(t *testing.T) {
	a, b := NewSink(), NewSink()
	a.Warnf(Location{}, Subject{}, EmptyPath, "one")
	b.Fatalf(Location{}, Subject{}, SyntaxError, "two")
	a.Merge(b)
	a.Merge(nil)
	assert.Equal(t, 2, a.Len())
	assert.True(t, a.HasFatal())
}

func TestDiagnostic_String(t *testing.T) {
	tests := []struct {
		name string
		d    Diagnostic
		want string
	}{
		{
			name: "full",
			d: Diagnostic{
				Severity:   Advisory,
				Code:       DanglingExtractor,
				Message:    `extractor "x" has no matching parameter`,
				Subject:    Subject{Controller: "Users", Handler: "List", Param: "x"},
				Location:   Location{File: "users.go", Line: 12, Column: 3},
				Suggestion: "remove the entry",
			},
			want: `users.go:12:3: warning: Users.List(x): extractor "x" has no matching parameter (remove the entry)`,
		},
		{
			name: "no location",
			d:    Diagnostic{Severity: Fatal, Code: UnknownMethod, Message: "unknown method"},
			want: "error: unknown method",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.d.String())
		})
	}
}

func TestLocation(t *testing.T) {
	assert.Equal(t, "unknown location", Location{}.String())
	assert.Equal(t, "f.go", Location{File: "f.go"}.String())
	assert.Equal(t, "f.go:2", Location{File: "f.go", Line: 2}.String())
	assert.Equal(t, "f.go:2:7", Location{File: "f.go", Line: 2, Column: 3}.Offset(4).String())
	assert.Equal(t, "MultipleBodyExtractors", MultipleBodyExtractors.String())
}
