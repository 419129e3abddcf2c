package export

import (
	"strconv"

	"github.com/rmhman/illumio2algosec/internal/model"
)

// Normalize maps one raw flow onto the flat row shape consumed by the rest
// of the pipeline. Missing or zero sub-fields degrade to empty strings;
// deciding whether such a row is usable is the row filter's job, so this
// stage never rejects anything. The application name is left blank for the
// resolver.
func Normalize(flow model.RawFlow) model.ExportRow {
	row := model.ExportRow{
		SrcIP:       flow.Src.IP,
		SrcName:     flow.Src.Hostname,
		DstIP:       flow.Dst.IP,
		DstName:     flow.Dst.Hostname,
		ServiceName: flow.Service.Name,
	}
	if flow.Service.Port > 0 {
		row.Service = strconv.Itoa(flow.Service.Port)
	}
	return row
}
