package pce

// Wire types for the subset of the PCE REST API (v2) this tool consumes.

// apiLabel is one entry of the label catalog.
type apiLabel struct {
	Href  string `json:"href"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

// labelRef is how workloads and query filters refer to a catalog label.
type labelRef struct {
	Href string `json:"href"`
}

type apiWorkload struct {
	Hostname string     `json:"hostname"`
	Labels   []labelRef `json:"labels"`
}

type apiEndpoint struct {
	IP       string       `json:"ip"`
	Workload *apiWorkload `json:"workload"`
}

type apiService struct {
	Port  int    `json:"port"`
	Proto int    `json:"proto"`
	Name  string `json:"service_name"`
}

// apiTrafficFlow is one record of a traffic query result.
type apiTrafficFlow struct {
	Src            apiEndpoint `json:"src"`
	Dst            apiEndpoint `json:"dst"`
	Service        apiService  `json:"service"`
	PolicyDecision string      `json:"policy_decision"`
}

// labelEntry wraps a label reference inside a query filter clause.
type labelEntry struct {
	Label labelRef `json:"label"`
}

// trafficFilter is the include/exclude clause for one side of a traffic
// query. Each inner include list is an AND-group; the outer list ORs them.
type trafficFilter struct {
	Include [][]labelEntry `json:"include"`
	Exclude []labelEntry   `json:"exclude"`
}

// trafficQueryRequest is the body of an async traffic query.
type trafficQueryRequest struct {
	QueryName       string        `json:"query_name"`
	Sources         trafficFilter `json:"sources"`
	Destinations    trafficFilter `json:"destinations"`
	PolicyDecisions []string      `json:"policy_decisions"`
	StartDate       string        `json:"start_date"`
	EndDate         string        `json:"end_date"`
	MaxResults      int           `json:"max_results"`
}

// asyncJob is the polling status of an async PCE job.
type asyncJob struct {
	Status string `json:"status"`
	Result struct {
		Href string `json:"href"`
	} `json:"result"`
}
