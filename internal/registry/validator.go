package registry

import (
	"github.com/toyz/routectl/internal/diagnostics"
	"github.com/toyz/routectl/internal/models"
	"github.com/toyz/routectl/pkg/routectl"
)

// Validator checks a route's extractor map against its path and the host capabilities
type Validator struct {
	registry *ExtractorRegistry
	caps     Capabilities
}

// NewValidator creates a validator for the given capabilities
func NewValidator(registry *ExtractorRegistry, caps Capabilities) *Validator {
	return &Validator{registry: registry, caps: caps}
}

// Placeholders returns the parameter names of a path template in order
func Placeholders(path string) []string {
	return routectl.Path(path).Params()
}

// Validate reports every violation of the route's extractor invariants.
// It returns false when a fatal diagnostic was reported.
func (v *Validator) Validate(route models.RouteDescriptor, loc diagnostics.Location, subject diagnostics.Subject, sink *diagnostics.Sink) bool {
	mark := sink.Mark()

	placeholders := make(map[string]bool)
	for _, name := range Placeholders(route.Path) {
		if name == "" {
			sink.Fatalf(loc, subject, diagnostics.PathPlaceholderMismatch, "path %q has an unnamed placeholder", route.Path)
			continue
		}
		if placeholders[name] {
			sink.Fatalf(loc, subject.WithParam(name), diagnostics.DuplicatePlaceholder,
				"placeholder {%s} appears more than once in path %q", name, route.Path)
			continue
		}
		placeholders[name] = true

		kind, ok := route.Extractors[name]
		switch {
		case !ok:
			sink.Fatalf(loc, subject.WithParam(name), diagnostics.PathPlaceholderMismatch,
				"placeholder {%s} has no Path extractor", name)
			sink.Suggest("add extract(%s = Path)", name)
		case kind != models.Path:
			sink.Fatalf(loc, subject.WithParam(name), diagnostics.PathPlaceholderMismatch,
				"placeholder {%s} must be extracted as Path, found %s", name, kind)
		}
	}

	keys := SortedKeys(route.Extractors)
	var bodies []string
	for _, name := range keys {
		kind := route.Extractors[name]
		param := subject.WithParam(name)

		if kind == models.Path && !placeholders[name] {
			sink.Fatalf(loc, param, diagnostics.PathPlaceholderMismatch,
				"Path extractor %q has no {%s} placeholder in path %q", name, name, route.Path)
		}

		if kind.IsBody() {
			bodies = append(bodies, name)
			if route.Method.CarriesNoBody() {
				sink.Warnf(loc, param, diagnostics.BodyOnBodylessMethod,
					"%s extractor on %s, which conventionally carries no body", kind, route.Method)
			}
		}

		if e, ok := v.registry.Get(kind); ok && !v.caps.Enabled(e.Capability) {
			sink.Warnf(loc, param, diagnostics.MissingCapability,
				"%s extractor requires the %s capability, which is disabled; it may not work at run time", kind, e.Capability)
			sink.Suggest("enable features.%s in routectl.yaml", e.Capability)
		}
	}

	if len(bodies) > 1 {
		sink.Fatalf(loc, subject, diagnostics.MultipleBodyExtractors,
			"multiple body extractors: %s", describeEntries(bodies, route.Extractors))
		sink.Suggest("a route may consume the request body only once")
	}

	return !sink.FatalSince(mark)
}
