package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/toyz/routectl/internal/models"
)

// Category groups extractor kinds by the part of the request they read
type Category string

const (
	CategoryNone    Category = "none"
	CategoryPath    Category = "path"
	CategoryQuery   Category = "query"
	CategoryBody    Category = "body"
	CategoryContext Category = "context"
	CategoryState   Category = "state"
)

// Extractor describes one extractor kind
type Extractor struct {
	Kind       models.ExtractorKind
	Name       string
	Category   Category
	Capability models.Capability
	Helper     string // runtime function in package routectl that performs the extraction
}

// ExtractorRegistry holds the closed table of extractor kinds
type ExtractorRegistry struct {
	byKind map[models.ExtractorKind]Extractor
}

// NewExtractorRegistry creates a registry with every known kind
func NewExtractorRegistry() *ExtractorRegistry {
	r := &ExtractorRegistry{byKind: make(map[models.ExtractorKind]Extractor)}
	r.add(models.None, CategoryNone, "")
	r.add(models.Path, CategoryPath, "PathValues")
	r.add(models.Query, CategoryQuery, "BindQuery")
	r.add(models.Json, CategoryBody, "BindJSON")
	r.add(models.Form, CategoryBody, "BindForm")
	r.add(models.Bytes, CategoryBody, "BodyBytes")
	r.add(models.Text, CategoryBody, "BodyText")
	r.add(models.Html, CategoryBody, "BodyText")
	r.add(models.Xml, CategoryBody, "BodyText")
	r.add(models.JavaScript, CategoryBody, "BodyText")
	r.add(models.HeaderParam, CategoryContext, "HeaderValue")
	r.add(models.CookieParam, CategoryContext, "CookieJarOf")
	r.add(models.SessionParam, CategoryContext, "SessionValue")
	r.add(models.State, CategoryState, "")
	return r
}

func (r *ExtractorRegistry) add(kind models.ExtractorKind, category Category, helper string) {
	r.byKind[kind] = Extractor{
		Kind:       kind,
		Name:       kind.String(),
		Category:   category,
		Capability: kind.Capability(),
		Helper:     helper,
	}
}

// Get returns the description of kind
func (r *ExtractorRegistry) Get(kind models.ExtractorKind) (Extractor, bool) {
	e, ok := r.byKind[kind]
	return e, ok
}

// Lookup resolves an extractor by its annotation name
func (r *ExtractorRegistry) Lookup(name string) (Extractor, bool) {
	kind, ok := models.ParseExtractorKind(name)
	if !ok {
		return Extractor{}, false
	}
	return r.Get(kind)
}

// Names returns the annotation names of every kind, in declaration order
func (r *ExtractorRegistry) Names() []string {
	names := make([]string, 0, len(models.AnnotationKinds))
	for _, k := range models.AnnotationKinds {
		names = append(names, r.byKind[k].Name)
	}
	return names
}

// Capabilities is the set of enabled host capabilities
type Capabilities struct {
	Headers  bool
	Cookies  bool
	Sessions bool
}

// DefaultCapabilities enables headers and cookies; sessions need a SessionStore
func DefaultCapabilities() Capabilities {
	return Capabilities{Headers: true, Cookies: true}
}

// Enabled reports whether the capability is available
func (c Capabilities) Enabled(cap models.Capability) bool {
	switch cap {
	case models.HeadersCapability:
		return c.Headers
	case models.CookiesCapability:
		return c.Cookies
	case models.SessionCapability:
		return c.Sessions
	}
	return true
}

// SortedKeys returns the extractor map keys in sorted order
func SortedKeys(m map[string]models.ExtractorKind) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func describeEntries(names []string, m map[string]models.ExtractorKind) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = fmt.Sprintf("%s: %s", n, m[n])
	}
	return strings.Join(parts, ", ")
}
