/**
 * Copyright (c) 2019, The Artemis Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/botobag/placeholder-gateway/apierror"

	"github.com/cenkalti/backoff/v4"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

// DefaultBaseURL is the public JSONPlaceholder service.
const DefaultBaseURL = "https://jsonplaceholder.typicode.com"

// DefaultTimeout bounds each attempt when no timeout is configured.
const DefaultTimeout = 10 * time.Second

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Config specifies options for creating a Client.
type Config struct {
	// BaseURL is the root of the REST service. Default to DefaultBaseURL.
	BaseURL string

	// HTTPClient sends the requests. Default to http.DefaultClient.
	HTTPClient *http.Client

	// Timeout bounds each attempt. Default to DefaultTimeout.
	Timeout time.Duration

	// Retry controls retrying of transport failures.
	Retry RetryPolicy

	// Metrics records fetch outcomes if non-nil.
	Metrics *Metrics

	// Logger receives per-attempt debug and per-retry warning messages. Default to a no-op logger.
	Logger *zap.Logger
}

// Client fetches resources from the upstream REST service. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	retry      RetryPolicy
	metrics    *Metrics
	logger     *zap.Logger
}

// NewClient creates a client from config.
func NewClient(config Config) (*Client, error) {
	baseURL := config.BaseURL
	if len(baseURL) == 0 {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, apierror.Wrap(err, fmt.Sprintf(`invalid upstream base URL "%s"`, baseURL),
			apierror.Op("upstream.NewClient"), apierror.KindInternal)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, apierror.New(fmt.Sprintf(`upstream base URL "%s" must use http or https`, baseURL),
			apierror.Op("upstream.NewClient"), apierror.KindInternal)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		timeout:    timeout,
		retry:      config.Retry,
		metrics:    config.Metrics,
		logger:     logger,
	}, nil
}

// BaseURL returns the root URL that endpoints are resolved against.
func (client *Client) BaseURL() string {
	return client.baseURL
}

// URL returns the absolute URL of endpoint.
func (client *Client) URL(endpoint Endpoint) string {
	return client.baseURL + "/" + endpoint.Path()
}

// List fetches the whole collection. The result is the decoded JSON array.
func (client *Client) List(ctx context.Context, collection Collection) ([]interface{}, error) {
	value, err := client.Fetch(ctx, ListEndpoint(collection))
	if err != nil {
		return nil, err
	}
	return value.([]interface{}), nil
}

// Get fetches one item of collection. The result is the decoded JSON object.
func (client *Client) Get(ctx context.Context, collection Collection, id int) (map[string]interface{}, error) {
	value, err := client.Fetch(ctx, ItemEndpoint(collection, id))
	if err != nil {
		return nil, err
	}
	return value.(map[string]interface{}), nil
}

// Fetch issues one logical GET for endpoint and decodes the body. A collection endpoint yields a
// []interface{} and an item endpoint yields a map[string]interface{}; any other shape is reported
// as a response decode error.
func (client *Client) Fetch(ctx context.Context, endpoint Endpoint) (interface{}, error) {
	var (
		resource = apierror.Resource(endpoint.Collection)
		target   = client.URL(endpoint)
		start    = time.Now()
		attempt  int
		body     []byte
	)

	operation := func() error {
		attempt++
		client.logger.Debug("upstream request",
			zap.String("url", target),
			zap.Int("attempt", attempt))

		var err error
		body, err = client.attempt(ctx, endpoint, target)
		return err
	}

	notify := func(err error, wait time.Duration) {
		client.metrics.retried(endpoint.Collection)
		client.logger.Warn("upstream request failed; retrying",
			zap.String("url", target),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", wait),
			zap.Error(err))
	}

	if err := backoff.RetryNotify(operation, client.retry.newBackOff(ctx), notify); err != nil {
		outcome := OutcomeUnavailable
		switch {
		case ctx.Err() != nil:
			outcome = OutcomeCanceled
		case apierror.Is(err, apierror.KindUpstreamRejected):
			outcome = OutcomeRejected
		}
		client.metrics.observe(endpoint.Collection, outcome, time.Since(start))

		if _, ok := apierror.As(err); !ok {
			err = apierror.Wrap(err, "GET "+endpoint.Path(), apierror.KindUpstreamUnavailable, resource)
		}
		return nil, err
	}

	value, err := decode(endpoint, body)
	if err != nil {
		client.metrics.observe(endpoint.Collection, OutcomeDecodeError, time.Since(start))
		return nil, err
	}

	client.metrics.observe(endpoint.Collection, OutcomeOK, time.Since(start))
	return value, nil
}

// attempt performs a single HTTP round trip bounded by the client timeout. Errors that must not be
// retried are wrapped with backoff.Permanent.
func (client *Client) attempt(ctx context.Context, endpoint Endpoint, target string) ([]byte, error) {
	resource := apierror.Resource(endpoint.Collection)

	ctx, cancel := context.WithTimeout(ctx, client.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, backoff.Permanent(apierror.Wrap(err, "GET "+endpoint.Path(),
			apierror.KindInternal, resource))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.httpClient.Do(req)
	if err != nil {
		return nil, apierror.Wrap(err, "GET "+endpoint.Path(), apierror.KindUpstreamUnavailable, resource)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, resp.Body)
		return nil, backoff.Permanent(apierror.New(
			fmt.Sprintf("GET %s returned %s", endpoint.Path(), resp.Status),
			apierror.KindUpstreamRejected, resource, apierror.Status(resp.StatusCode)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierror.Wrap(err, "GET "+endpoint.Path()+": read body",
			apierror.KindUpstreamUnavailable, resource)
	}

	return body, nil
}

func decode(endpoint Endpoint, body []byte) (interface{}, error) {
	resource := apierror.Resource(endpoint.Collection)

	var value interface{}
	if err := json.Unmarshal(body, &value); err != nil {
		return nil, apierror.Wrap(err, "GET "+endpoint.Path()+": invalid JSON body",
			apierror.KindResponseDecode, resource)
	}

	if endpoint.HasID {
		if _, ok := value.(map[string]interface{}); !ok {
			return nil, apierror.New(
				fmt.Sprintf("GET %s: expected a JSON object but got %s", endpoint.Path(), describe(value)),
				apierror.KindResponseDecode, resource)
		}
	} else {
		if _, ok := value.([]interface{}); !ok {
			return nil, apierror.New(
				fmt.Sprintf("GET %s: expected a JSON array but got %s", endpoint.Path(), describe(value)),
				apierror.KindResponseDecode, resource)
		}
	}

	return value, nil
}

// describe names the JSON type of a decoded value.
func describe(value interface{}) string {
	switch value.(type) {
	case nil:
		return "null"
	case map[string]interface{}:
		return "an object"
	case []interface{}:
		return "an array"
	case string:
		return "a string"
	case float64:
		return "a number"
	case bool:
		return "a boolean"
	}
	return fmt.Sprintf("%T", value)
}
