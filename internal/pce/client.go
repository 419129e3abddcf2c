package pce

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rmhman/illumio2algosec/internal/model"
)

const defaultTimeout = 30 * time.Second

// Client talks to a Policy Compute Engine over its v2 REST API using an API
// key/secret pair. It is not safe for concurrent use; the exporter runs one
// logical invocation per process.
type Client struct {
	baseURL   string
	org       int
	apiKey    string
	apiSecret string
	httpc     *http.Client

	// pollInterval paces async job polling. Tests shorten it.
	pollInterval time.Duration

	// Label catalog, populated by FetchLabels.
	labelByHref    map[string]apiLabel
	hrefBySelector map[string]string
}

// NewClient creates a PCE client for the given FQDN, organization and port.
// insecure disables TLS certificate verification, matching PCE deployments
// with self-signed certificates.
func NewClient(fqdn string, org, port int, apiKey, apiSecret string, insecure bool) *Client {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: insecure},
	}
	return &Client{
		baseURL:      fmt.Sprintf("https://%s:%d/api/v2", fqdn, port),
		org:          org,
		apiKey:       apiKey,
		apiSecret:    apiSecret,
		httpc:        &http.Client{Timeout: defaultTimeout, Transport: transport},
		pollInterval: 5 * time.Second,
	}
}

// CheckConnection validates reachability and credentials with a single
// authenticated request before any query is attempted.
func (c *Client) CheckConnection(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf("/orgs/%d/labels?max_results=1", c.org), nil)
	if err != nil {
		return &model.ConnectivityError{Msg: "building connection check request", Err: err}
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return &model.ConnectivityError{Msg: "PCE unreachable", Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return &model.ConnectivityError{Msg: fmt.Sprintf("PCE returned status %d", resp.StatusCode)}
	}
	return nil
}

// newRequest builds an authenticated API request. path is relative to the
// /api/v2 base.
func (c *Client) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.apiKey, c.apiSecret)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// getJSON performs an authenticated GET and decodes the response into out.
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(data))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// pollJob polls an async job location until it completes, then returns the
// href of the downloadable result.
func (c *Client) pollJob(ctx context.Context, location string) (string, error) {
	for {
		var job asyncJob
		if err := c.getJSON(ctx, location, &job); err != nil {
			return "", fmt.Errorf("failed to poll job %s: %w", location, err)
		}

		switch job.Status {
		case "done", "completed":
			return job.Result.Href, nil
		case "failed":
			return "", fmt.Errorf("job %s failed", location)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}
