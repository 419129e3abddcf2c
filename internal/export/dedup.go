package export

import (
	"github.com/rmhman/illumio2algosec/internal/model"
)

// Deduplicate collapses rows whose seven columns are all identical, keeping
// the first occurrence in its original position. Ordering comes from the
// output slice; the seen-set only answers membership.
func Deduplicate(rows []model.ExportRow) []model.ExportRow {
	seen := make(map[[7]string]struct{}, len(rows))
	out := make([]model.ExportRow, 0, len(rows))
	for _, row := range rows {
		key := row.Tuple()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, row)
	}
	return out
}
