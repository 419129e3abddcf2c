package export

import (
	"github.com/rmhman/illumio2algosec/internal/model"
)

// Stats counts what happened to the rows of one run, for verbose reporting.
type Stats struct {
	Retrieved  int
	Rejected   int
	Duplicates int
	Exported   int
}

// Pipeline transforms a fully materialized set of raw flows into the final,
// deduplicated export rows: normalize, resolve the application name, filter,
// deduplicate. Every stage is a pure in-memory transformation; the pipeline
// performs no I/O and never re-queries.
type Pipeline struct {
	resolver *AppNameResolver
}

// NewPipeline creates a pipeline that derives application names from the
// given label keys, joined with separator.
func NewPipeline(appLabelKeys []string, separator string) *Pipeline {
	return &Pipeline{resolver: NewAppNameResolver(appLabelKeys, separator)}
}

// Run processes the flows in order and returns the rows to export together
// with the per-stage counts.
func (p *Pipeline) Run(flows []model.RawFlow) ([]model.ExportRow, Stats) {
	stats := Stats{Retrieved: len(flows)}

	rows := make([]model.ExportRow, 0, len(flows))
	for _, flow := range flows {
		row := Normalize(flow)
		// Application identity is attributed to the destination endpoint.
		row.AppName = p.resolver.Resolve(flow.Dst.Labels)
		if !Accept(row) {
			stats.Rejected++
			continue
		}
		rows = append(rows, row)
	}

	deduped := Deduplicate(rows)
	stats.Duplicates = len(rows) - len(deduped)
	stats.Exported = len(deduped)
	return deduped, stats
}
