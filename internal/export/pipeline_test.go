package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rmhman/illumio2algosec/internal/model"
)

func sampleFlows() []model.RawFlow {
	return []model.RawFlow{
		// Destination name empty: must be filtered out.
		{
			Src:     model.Endpoint{IP: "10.0.0.1", Hostname: "web-1", Labels: model.Labels{"app": "web"}},
			Dst:     model.Endpoint{IP: "10.0.0.9", Labels: model.Labels{"app": "db"}},
			Service: model.Service{Port: 5432, Proto: 6},
		},
		// Fully populated: must survive.
		{
			Src:     model.Endpoint{IP: "10.0.0.2", Hostname: "lb-1", Labels: model.Labels{"loc": "dc1"}},
			Dst:     model.Endpoint{IP: "10.0.0.3", Hostname: "web-1", Labels: model.Labels{"app": "web"}},
			Service: model.Service{Port: 443, Proto: 6, Name: "https"},
		},
	}
}

func TestPipeline_EndToEnd(t *testing.T) {
	// 1. Run the pipeline over one rejectable and one valid flow
	p := NewPipeline([]string{"app"}, "-")
	rows, stats := p.Run(sampleFlows())

	// 2. Exactly the valid flow survives
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}
	if rows[0].Service != "443" {
		t.Errorf("Expected Service \"443\", got %q", rows[0].Service)
	}
	if rows[0].AppName != "web" {
		t.Errorf("Expected Application Name \"web\", got %q", rows[0].AppName)
	}

	// 3. Stats reflect what happened
	if stats.Retrieved != 2 || stats.Rejected != 1 || stats.Duplicates != 0 || stats.Exported != 1 {
		t.Errorf("Unexpected stats: %+v", stats)
	}

	// 4. The CSV has the fixed header and exactly one data row
	var buf bytes.Buffer
	if err := WriteRows(&buf, rows); err != nil {
		t.Fatalf("WriteRows failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected header plus 1 data row, got %d lines", len(lines))
	}
	if lines[0] != "Source IP,Source Name,Destination IP,Destination Name,Service,Service Name,Application Name" {
		t.Errorf("Unexpected header: %q", lines[0])
	}
	if lines[1] != "10.0.0.2,lb-1,10.0.0.3,web-1,443,https,web" {
		t.Errorf("Unexpected data row: %q", lines[1])
	}
}

func TestPipeline_DuplicateFlowsCollapse(t *testing.T) {
	flow := model.RawFlow{
		Src:     model.Endpoint{IP: "10.0.0.1", Hostname: "web-1"},
		Dst:     model.Endpoint{IP: "10.0.0.2", Hostname: "db-1", Labels: model.Labels{"app": "db"}},
		Service: model.Service{Port: 5432, Proto: 6, Name: "postgres"},
	}

	p := NewPipeline([]string{"app"}, "-")
	rows, stats := p.Run([]model.RawFlow{flow, flow})

	if len(rows) != 1 {
		t.Fatalf("Two identical flows should produce one row, got %d", len(rows))
	}
	if stats.Duplicates != 1 {
		t.Errorf("Expected 1 duplicate counted, got %d", stats.Duplicates)
	}
}

func TestPipeline_Idempotent(t *testing.T) {
	p := NewPipeline([]string{"app", "env"}, "-")
	flows := sampleFlows()

	first, _ := p.Run(flows)
	second, _ := p.Run(flows)

	var a, b bytes.Buffer
	if err := WriteRows(&a, first); err != nil {
		t.Fatalf("WriteRows failed: %v", err)
	}
	if err := WriteRows(&b, second); err != nil {
		t.Fatalf("WriteRows failed: %v", err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("Running the pipeline twice must produce byte-identical CSV output")
	}
}

func TestPipeline_UnknownNeverAppearsInOutput(t *testing.T) {
	// No configured key is present on the destination.
	flow := model.RawFlow{
		Src:     model.Endpoint{IP: "10.0.0.1", Hostname: "web-1"},
		Dst:     model.Endpoint{IP: "10.0.0.2", Hostname: "db-1", Labels: model.Labels{"loc": "dc1"}},
		Service: model.Service{Port: 5432, Proto: 6},
	}

	p := NewPipeline([]string{"app", "env"}, "-")
	rows, _ := p.Run([]model.RawFlow{flow})

	for _, row := range rows {
		if row.AppName == UnknownApp {
			t.Fatalf("Unknown application name leaked into the output: %+v", row)
		}
	}
	if len(rows) != 0 {
		t.Errorf("Expected the row to be rejected, got %d rows", len(rows))
	}
}
