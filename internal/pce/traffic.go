package pce

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rmhman/illumio2algosec/internal/model"
	"github.com/rmhman/illumio2algosec/internal/query"
)

const maxQueryResults = 100000

// TrafficFlows executes a built criteria as an async traffic query: submit,
// poll until the job finishes, then download and decode the result set.
// FetchLabels must have populated the catalog so selectors can be resolved.
func (c *Client) TrafficFlows(ctx context.Context, criteria query.Criteria) ([]model.RawFlow, error) {
	body, err := c.buildRequest(criteria)
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, fmt.Sprintf("/orgs/%d/traffic_flows/async_queries", c.org), body)
	if err != nil {
		return nil, &model.QueryError{Msg: "building traffic query request", Err: err}
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &model.QueryError{Msg: "failed to submit traffic query", Err: err}
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusCreated {
		return nil, &model.QueryError{Msg: fmt.Sprintf("traffic query not accepted, status %d", resp.StatusCode)}
	}
	location := resp.Header.Get("Location")
	if location == "" {
		return nil, &model.QueryError{Msg: "traffic query response missing Location header"}
	}

	resultHref, err := c.pollJob(ctx, location)
	if err != nil {
		return nil, &model.QueryError{Msg: "traffic query did not complete", Err: err}
	}

	var apiFlows []apiTrafficFlow
	if err := c.getJSON(ctx, resultHref, &apiFlows); err != nil {
		return nil, &model.QueryError{Msg: "failed to download traffic query results", Err: err}
	}

	flows := make([]model.RawFlow, 0, len(apiFlows))
	for _, f := range apiFlows {
		flows = append(flows, c.convertFlow(f))
	}
	return flows, nil
}

// buildRequest translates criteria selectors into catalog hrefs and
// assembles the query body.
func (c *Client) buildRequest(criteria query.Criteria) (*trafficQueryRequest, error) {
	srcInclude, err := c.includeClauses(criteria.IncludeSources)
	if err != nil {
		return nil, err
	}
	dstInclude, err := c.includeClauses(criteria.IncludeDestinations)
	if err != nil {
		return nil, err
	}
	srcExclude, err := c.excludeClause(criteria.ExcludeSources)
	if err != nil {
		return nil, err
	}
	dstExclude, err := c.excludeClause(criteria.ExcludeDestinations)
	if err != nil {
		return nil, err
	}

	return &trafficQueryRequest{
		QueryName:       "daily_traffic",
		Sources:         trafficFilter{Include: srcInclude, Exclude: srcExclude},
		Destinations:    trafficFilter{Include: dstInclude, Exclude: dstExclude},
		PolicyDecisions: criteria.PolicyDecisions,
		StartDate:       criteria.StartDate,
		EndDate:         criteria.EndDate,
		MaxResults:      maxQueryResults,
	}, nil
}

// includeClauses puts each selector into its own OR-group.
func (c *Client) includeClauses(selectors []string) ([][]labelEntry, error) {
	clauses := make([][]labelEntry, 0, len(selectors))
	for _, s := range selectors {
		href, err := c.resolveSelector(s)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, []labelEntry{{Label: labelRef{Href: href}}})
	}
	return clauses, nil
}

func (c *Client) excludeClause(selectors []string) ([]labelEntry, error) {
	entries := make([]labelEntry, 0, len(selectors))
	for _, s := range selectors {
		href, err := c.resolveSelector(s)
		if err != nil {
			return nil, err
		}
		entries = append(entries, labelEntry{Label: labelRef{Href: href}})
	}
	return entries, nil
}

// convertFlow maps a wire record onto the pipeline's RawFlow. Endpoint names
// resolve to the workload hostname when one exists, otherwise the raw IP.
func (c *Client) convertFlow(f apiTrafficFlow) model.RawFlow {
	return model.RawFlow{
		Src: c.convertEndpoint(f.Src),
		Dst: c.convertEndpoint(f.Dst),
		Service: model.Service{
			Port:  f.Service.Port,
			Proto: f.Service.Proto,
			Name:  f.Service.Name,
		},
		PolicyDecision: f.PolicyDecision,
	}
}

func (c *Client) convertEndpoint(e apiEndpoint) model.Endpoint {
	name := e.IP
	if e.Workload != nil && e.Workload.Hostname != "" {
		name = e.Workload.Hostname
	}
	return model.Endpoint{
		IP:       e.IP,
		Hostname: name,
		Labels:   c.labelsFor(e.Workload),
	}
}
