package pce

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sort"

	"github.com/rmhman/illumio2algosec/internal/model"
)

// FetchLabels downloads the org's label catalog and builds the lookup maps
// used to resolve "key=value" selectors and to attach key/value label sets
// to flow endpoints. It must be called before TrafficFlows.
func (c *Client) FetchLabels(ctx context.Context) error {
	var labels []apiLabel
	if err := c.getJSON(ctx, fmt.Sprintf("/orgs/%d/labels", c.org), &labels); err != nil {
		return &model.ConnectivityError{Msg: "failed to fetch label catalog", Err: err}
	}

	c.labelByHref = make(map[string]apiLabel, len(labels))
	c.hrefBySelector = make(map[string]string, len(labels))
	for _, l := range labels {
		c.labelByHref[l.Href] = l
		c.hrefBySelector[l.Key+"="+l.Value] = l.Href
	}

	log.Printf("Fetched %d labels from PCE", len(labels))
	return nil
}

// resolveSelector maps a "key=value" selector string onto its label href.
func (c *Client) resolveSelector(selector string) (string, error) {
	href, ok := c.hrefBySelector[selector]
	if !ok {
		return "", &model.ConfigError{Msg: fmt.Sprintf("label selector %q does not match any PCE label", selector)}
	}
	return href, nil
}

// labelsFor converts a workload's label references into a key→value map,
// skipping hrefs that are not in the catalog.
func (c *Client) labelsFor(w *apiWorkload) model.Labels {
	labels := make(model.Labels)
	if w == nil {
		return labels
	}
	for _, ref := range w.Labels {
		if l, ok := c.labelByHref[ref.Href]; ok {
			labels[l.Key] = l.Value
		}
	}
	return labels
}

// AppLabelValues runs the async label-listing job and returns the sorted
// values of all "app" labels in the org.
func (c *Client) AppLabelValues(ctx context.Context) ([]string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf("/orgs/%d/labels?key=app", c.org), nil)
	if err != nil {
		return nil, &model.QueryError{Msg: "building label job request", Err: err}
	}
	req.Header.Set("Prefer", "respond-async")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &model.QueryError{Msg: "failed to initiate label job", Err: err}
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		return nil, &model.QueryError{Msg: fmt.Sprintf("label job not accepted, status %d", resp.StatusCode)}
	}
	location := resp.Header.Get("Location")
	if location == "" {
		return nil, &model.QueryError{Msg: "label job response missing Location header"}
	}

	resultHref, err := c.pollJob(ctx, location)
	if err != nil {
		return nil, &model.QueryError{Msg: "label job did not complete", Err: err}
	}

	var labels []apiLabel
	if err := c.getJSON(ctx, resultHref, &labels); err != nil {
		return nil, &model.QueryError{Msg: "failed to download label job results", Err: err}
	}

	values := make([]string, 0, len(labels))
	for _, l := range labels {
		if l.Value != "" {
			values = append(values, l.Value)
		}
	}
	sort.Strings(values)
	return values, nil
}
