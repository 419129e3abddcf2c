package query

import (
	"errors"
	"testing"

	"github.com/rmhman/illumio2algosec/internal/config"
	"github.com/rmhman/illumio2algosec/internal/model"
)

func testConfigs() map[string]config.TrafficConfig {
	return map[string]config.TrafficConfig{
		"default": {
			StartDate:           "2024-10-01",
			EndDate:             "2024-11-01",
			IncludeSources:      []string{"app=web"},
			IncludeDestinations: []string{"app=db"},
			PolicyDecisions:     []string{"blocked"},
		},
		"no-decisions": {
			StartDate: "2024-10-01",
			EndDate:   "2024-11-01",
		},
		"inverted": {
			StartDate: "2024-11-01",
			EndDate:   "2024-10-01",
		},
	}
}

func TestBuild_CopiesConfig(t *testing.T) {
	criteria, err := Build(testConfigs(), "default", []string{"app", "env"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if criteria.StartDate != "2024-10-01" || criteria.EndDate != "2024-11-01" {
		t.Errorf("Dates were not copied verbatim: %+v", criteria)
	}
	if len(criteria.IncludeSources) != 1 || criteria.IncludeSources[0] != "app=web" {
		t.Errorf("Include sources were not copied: %v", criteria.IncludeSources)
	}
	if len(criteria.PolicyDecisions) != 1 || criteria.PolicyDecisions[0] != "blocked" {
		t.Errorf("Policy decisions were not copied: %v", criteria.PolicyDecisions)
	}
	if len(criteria.AppLabelKeys) != 2 || criteria.AppLabelKeys[0] != "app" {
		t.Errorf("App label keys were not carried: %v", criteria.AppLabelKeys)
	}
}

func TestBuild_DefaultsPolicyDecisions(t *testing.T) {
	criteria, err := Build(testConfigs(), "no-decisions", nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(criteria.PolicyDecisions) != 2 ||
		criteria.PolicyDecisions[0] != "potentially_blocked" ||
		criteria.PolicyDecisions[1] != "blocked" {
		t.Errorf("Expected default policy decisions, got %v", criteria.PolicyDecisions)
	}
}

func TestBuild_UnknownName(t *testing.T) {
	_, err := Build(testConfigs(), "nope", nil)
	if err == nil {
		t.Fatal("Expected an error for an unknown configuration name")
	}
	var cfgErr *model.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("Expected a ConfigError, got %T: %v", err, err)
	}
}

func TestBuild_InvertedDateRange(t *testing.T) {
	_, err := Build(testConfigs(), "inverted", nil)
	if err == nil {
		t.Fatal("Expected an error when start_date is after end_date")
	}
	var cfgErr *model.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("Expected a ConfigError, got %T: %v", err, err)
	}
}

func TestBuild_EmptySelector(t *testing.T) {
	cfgs := testConfigs()
	cfgs["bad"] = config.TrafficConfig{
		StartDate:      "2024-10-01",
		EndDate:        "2024-11-01",
		ExcludeSources: []string{""},
	}

	_, err := Build(cfgs, "bad", nil)
	if err == nil {
		t.Fatal("Expected an error for an empty selector string")
	}
}

func TestStartAfterEnd(t *testing.T) {
	cases := []struct {
		start, end string
		want       bool
	}{
		{"2024-10-01", "2024-11-01", false},
		{"2024-11-01", "2024-10-01", true},
		{"2024-10-01", "2024-10-01", false},
		{"2024-10-01T00:00:00Z", "2024-10-01T00:00:01Z", false},
		// Unparseable dates fall back to lexical comparison.
		{"alpha", "beta", false},
		{"zulu", "alpha", true},
	}

	for _, c := range cases {
		if got := startAfterEnd(c.start, c.end); got != c.want {
			t.Errorf("startAfterEnd(%q, %q) = %v, want %v", c.start, c.end, got, c.want)
		}
	}
}
