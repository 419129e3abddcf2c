package query

import (
	"context"
	"fmt"
	"time"

	"github.com/rmhman/illumio2algosec/internal/config"
	"github.com/rmhman/illumio2algosec/internal/model"
)

// DefaultPolicyDecisions is used when a traffic configuration does not set
// policy_decisions explicitly.
var DefaultPolicyDecisions = []string{"potentially_blocked", "blocked"}

// Criteria is the single-use query request derived from exactly one named
// traffic configuration. Empty selector lists mean "no constraint".
type Criteria struct {
	StartDate           string
	EndDate             string
	IncludeSources      []string
	IncludeDestinations []string
	ExcludeSources      []string
	ExcludeDestinations []string
	PolicyDecisions     []string

	// AppLabelKeys are the label dimensions that make up the application
	// name, in join order.
	AppLabelKeys []string
}

// Executor runs a built criteria against the policy engine and returns the
// raw flows it matched, in the order the engine reported them.
type Executor interface {
	TrafficFlows(ctx context.Context, c Criteria) ([]model.RawFlow, error)
}

// Build looks up the named traffic configuration and turns it into a
// Criteria. It fails with a ConfigError when the name is unknown, when the
// date range is inverted, or when a selector is an empty string.
func Build(cfgs map[string]config.TrafficConfig, name string, appLabelKeys []string) (Criteria, error) {
	tc, ok := cfgs[name]
	if !ok {
		return Criteria{}, &model.ConfigError{Msg: fmt.Sprintf("traffic configuration %q not found", name)}
	}

	if startAfterEnd(tc.StartDate, tc.EndDate) {
		return Criteria{}, &model.ConfigError{
			Msg: fmt.Sprintf("start_date %q is after end_date %q in traffic configuration %q", tc.StartDate, tc.EndDate, name),
		}
	}

	for _, selectors := range [][]string{tc.IncludeSources, tc.IncludeDestinations, tc.ExcludeSources, tc.ExcludeDestinations} {
		for _, s := range selectors {
			if s == "" {
				return Criteria{}, &model.ConfigError{Msg: fmt.Sprintf("empty label selector in traffic configuration %q", name)}
			}
		}
	}

	decisions := tc.PolicyDecisions
	if len(decisions) == 0 {
		decisions = DefaultPolicyDecisions
	}

	return Criteria{
		StartDate:           tc.StartDate,
		EndDate:             tc.EndDate,
		IncludeSources:      copyStrings(tc.IncludeSources),
		IncludeDestinations: copyStrings(tc.IncludeDestinations),
		ExcludeSources:      copyStrings(tc.ExcludeSources),
		ExcludeDestinations: copyStrings(tc.ExcludeDestinations),
		PolicyDecisions:     copyStrings(decisions),
		AppLabelKeys:        copyStrings(appLabelKeys),
	}, nil
}

// startAfterEnd compares the two config dates. When both parse as timestamps
// the comparison is temporal; otherwise it falls back to lexical order,
// which is correct for the ISO date strings the config uses.
func startAfterEnd(start, end string) bool {
	ts, okStart := parseDate(start)
	te, okEnd := parseDate(end)
	if okStart && okEnd {
		return ts.After(te)
	}
	return start > end
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func copyStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
