package model

// Labels maps a label dimension key (e.g. "app", "env") to its value for one
// endpoint. A key missing from the map is "absent", which downstream stages
// treat differently from a key present with an empty value.
type Labels map[string]string

// Endpoint describes one side of a traffic flow as reported by the PCE.
type Endpoint struct {
	// IP is the raw address of the endpoint.
	IP string
	// Hostname is the resolved display name. The PCE client fills in the
	// workload hostname when the endpoint maps to a managed workload, and
	// falls back to the raw address otherwise.
	Hostname string
	// Labels holds the endpoint's label dimensions, keyed by label key.
	Labels Labels
}

// Service describes the service portion of a traffic flow.
type Service struct {
	Port  int
	Proto int
	Name  string
}

// RawFlow is one traffic-flow record returned by the policy engine query.
// It is read-only input to the export pipeline.
type RawFlow struct {
	Src            Endpoint
	Dst            Endpoint
	Service        Service
	PolicyDecision string
}

// ExportRow is the flat, CSV-shaped unit of work produced from one RawFlow.
// Unknown fields carry the empty string; the row filter decides whether a
// row with empty fields is kept.
type ExportRow struct {
	SrcIP       string `json:"source_ip"`
	SrcName     string `json:"source_name"`
	DstIP       string `json:"destination_ip"`
	DstName     string `json:"destination_name"`
	Service     string `json:"service"`
	ServiceName string `json:"service_name"`
	AppName     string `json:"application_name"`
}

// Tuple returns the row's columns in canonical output order. Two rows are
// duplicates exactly when their tuples are equal.
func (r ExportRow) Tuple() [7]string {
	return [7]string{r.SrcIP, r.SrcName, r.DstIP, r.DstName, r.Service, r.ServiceName, r.AppName}
}
