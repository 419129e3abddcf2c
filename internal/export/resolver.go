package export

import (
	"strings"

	"github.com/rmhman/illumio2algosec/internal/model"
)

// UnknownApp marks a row whose destination carries none of the configured
// application-label dimensions. Such rows never survive the row filter.
const UnknownApp = "Unknown"

// AppNameResolver derives a single application name from one or more label
// dimensions of a flow's destination endpoint.
type AppNameResolver struct {
	keys      []string
	separator string
}

// NewAppNameResolver creates a resolver over the given label keys, joined in
// order with the given separator. Defaults: keys ["app"], separator "-".
func NewAppNameResolver(keys []string, separator string) *AppNameResolver {
	if len(keys) == 0 {
		keys = []string{"app"}
	}
	if separator == "" {
		separator = "-"
	}
	return &AppNameResolver{keys: keys, separator: separator}
}

// Resolve looks up each configured key on the destination label set. Absent
// keys contribute nothing; present keys contribute their value. If no key is
// present at all the result is the literal UnknownApp, which downstream
// filtering distinguishes from a partially populated name.
func (r *AppNameResolver) Resolve(labels model.Labels) string {
	present := 0
	var parts []string
	for _, key := range r.keys {
		v, ok := labels[key]
		if !ok {
			continue
		}
		present++
		if v != "" {
			parts = append(parts, v)
		}
	}
	if present == 0 {
		return UnknownApp
	}
	return strings.Join(parts, r.separator)
}
