package export

import (
	"strconv"

	"github.com/rmhman/illumio2algosec/internal/model"
)

// Accept reports whether a normalized row carries enough data to be useful
// to the downstream policy tool. Rejected rows are dropped silently; the
// pipeline only counts them.
func Accept(row model.ExportRow) bool {
	if row.SrcName == "" || row.DstName == "" {
		return false
	}
	if row.Service == "" {
		return false
	}
	if port, err := strconv.Atoi(row.Service); err == nil && port == 0 {
		return false
	}
	if row.AppName == "" || row.AppName == UnknownApp {
		return false
	}
	return true
}
