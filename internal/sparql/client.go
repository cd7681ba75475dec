package sparql

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Client issues SELECT queries against a single SPARQL endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     logrus.FieldLogger
}

// NewClient returns a client for the given endpoint URL. A timeout of zero
// leaves the transport default in place (no client-side timeout).
func NewClient(endpoint string, timeout time.Duration, logger logrus.FieldLogger) *Client {
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Endpoint returns the endpoint URL this client queries.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Select executes a SELECT query and returns the decoded JSON results.
func (c *Client) Select(ctx context.Context, query string) (*Response, error) {
	form := url.Values{
		"query":  {query},
		"format": {"json"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create SPARQL request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/sparql-results+json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "SPARQL request to %s failed", c.endpoint)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read SPARQL response body")
	}
	if res.StatusCode != http.StatusOK {
		return nil, errors.Errorf("endpoint %s returned status %d: %s",
			c.endpoint, res.StatusCode, truncate(string(body), 200))
	}
	return parseResponse(body)
}

// Probe reports whether the endpoint answers the given lightweight query.
// It is the pre-flight availability check run once per annotation call; the
// result is not cached.
func (c *Client) Probe(ctx context.Context, query string) bool {
	if _, err := c.Select(ctx, query); err != nil {
		c.logger.WithError(err).WithField("endpoint", c.endpoint).
			Debug("SPARQL endpoint probe failed")
		return false
	}
	return true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
