package harness

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dice-group/sparql-transactional-test/script"
)

// ProtocolError wraps a non-2xx HTTP response. It is always fatal for
// the worker that received it, regardless of WorkerBehavior — only
// transport-level failures (connection refused, reset, aborted read)
// are subject to IgnoreConnectionError/ReportConnectionError.
type ProtocolError struct {
	StatusCode int
	Status     string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("unexpected response status: %s", e.Status)
}

// Client is a single connection-pooled HTTP client shared by one
// worker for its entire lifetime, wrapping GET/POST/PUT/DELETE with
// the header and query-param shaping spec.md §6 requires. Workers
// construct exactly one Client and reuse it for every request.
type Client struct {
	http *http.Client
}

// NewClient builds a Client over a dedicated *http.Transport. The
// dialer explicitly disables Nagle's algorithm on every connection it
// opens (Go's default dialer already does this, but spec.md calls the
// behavior out explicitly for reader workers, so it is set here rather
// than left implicit).
func NewClient() *Client {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			conn, err := dialer.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn, nil
		},
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 8,
		IdleConnTimeout:     90 * time.Second,
	}
	return &Client{http: &http.Client{Transport: transport}}
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

func buildQueryURL(endpoint, sparql string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("query", sparql)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Query issues GET endpoint?query=<sparql>. accept, if non-empty, is
// sent as the Accept header (verification queries force
// application/n-triples; plain reader queries leave it unset).
func (c *Client) Query(ctx context.Context, endpoint, sparql, accept string) (string, error) {
	raw, err := buildQueryURL(endpoint, sparql)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, raw, nil)
	if err != nil {
		return "", err
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if !isSuccess(resp.StatusCode) {
		return "", &ProtocolError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return string(data), nil
}

// TimedQuery behaves like Query but only reports elapsed wall time
// from request send through full body drain; it never returns the
// body itself, since a reader discards it after measuring. Elapsed is
// only meaningful when err is nil.
func (c *Client) TimedQuery(ctx context.Context, endpoint, sparql string) (time.Duration, error) {
	raw, err := buildQueryURL(endpoint, sparql)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, raw, nil)
	if err != nil {
		return 0, err
	}
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, err = io.Copy(io.Discard, resp.Body)
	elapsed := time.Since(start)
	if err != nil {
		return 0, err
	}
	if !isSuccess(resp.StatusCode) {
		return 0, &ProtocolError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return elapsed, nil
}

func (c *Client) issue(ctx context.Context, rawURL, method string, queryParams, headers map[string]string, body string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	if len(queryParams) > 0 {
		q := u.Query()
		for k, v := range queryParams {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), strings.NewReader(body))
	if err != nil {
		return err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return err
	}
	if !isSuccess(resp.StatusCode) {
		return &ProtocolError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return nil
}

func withDefaultHeader(h map[string]string, k, v string) map[string]string {
	if _, ok := h[k]; ok {
		return h
	}
	ret := make(map[string]string, len(h)+1)
	for kk, vv := range h {
		ret[kk] = vv
	}
	ret[k] = v
	return ret
}

// IssueMutation sends m against the appropriate endpoint of eps,
// shaping headers and body per spec.md §6: SPARQL UPDATE bodies get
// Content-Type application/sparql-update; GSP POST/PUT bodies get
// application/n-triples; GSP DELETE carries no body.
func (c *Client) IssueMutation(ctx context.Context, eps Endpoints, m script.Mutation) error {
	switch m.Endpoint {
	case script.SparqlUpdateEndpoint:
		headers := withDefaultHeader(m.Headers, "Content-Type", "application/sparql-update")
		return c.issue(ctx, eps.UpdateEndpoint, string(script.MethodPost), m.QueryParams, headers, m.Body)
	case script.GSPEndpoint:
		body := m.Body
		headers := m.Headers
		if m.Method == script.MethodDelete {
			body = ""
		} else {
			headers = withDefaultHeader(headers, "Content-Type", "application/n-triples")
		}
		return c.issue(ctx, eps.GSPEndpoint, string(m.Method), m.QueryParams, headers, body)
	default:
		return fmt.Errorf("unknown mutation endpoint: %v", m.Endpoint)
	}
}
