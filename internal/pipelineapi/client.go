package pipelineapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// API is the set of remote calls the dashboard makes. *Client implements it;
// tests substitute fakes.
type API interface {
	ListPipelines(ctx context.Context) ([]PipelineSummary, error)
	GetPipeline(ctx context.Context, id string) (*PipelineDetail, error)
	CreatePipeline(ctx context.Context, question string) (*CreateResponse, error)
	DeletePipeline(ctx context.Context, id string) error
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

// Client talks to the pipeline HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	DefaultAPIURL         = "http://127.0.0.1:5002"
	defaultUserAgent      = "pipedeck/0.1"
	defaultRequestTimeout = 30 * time.Second
	maxErrorBody          = 64 << 10
	requestIDHeader       = "X-Request-ID"
)

// NewClient builds a Client for apiURL. A bare host:port is treated as http.
// A non-positive timeout uses the default.
func NewClient(apiURL string, timeout time.Duration) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: timeout},
		userAgent: defaultUserAgent,
	}, nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ListPipelines retrieves every pipeline in server order.
func (c *Client) ListPipelines(ctx context.Context) ([]PipelineSummary, error) {
	var payload ListResponse
	if err := c.do(ctx, http.MethodGet, c.endpoint("pipelines"), nil, &payload); err != nil {
		return nil, err
	}
	return payload.Pipelines, nil
}

// GetPipeline retrieves one pipeline including its live write count.
func (c *Client) GetPipeline(ctx context.Context, id string) (*PipelineDetail, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("pipeline id required")
	}
	var payload PipelineDetail
	if err := c.do(ctx, http.MethodGet, c.endpoint("pipelines", id), nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// CreatePipeline asks the server to generate a pipeline for question.
func (c *Client) CreatePipeline(ctx context.Context, question string) (*CreateResponse, error) {
	var payload CreateResponse
	body := CreateRequest{Question: question}
	if err := c.do(ctx, http.MethodPost, c.endpoint("pipelines"), body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// DeletePipeline removes a pipeline and its server-side resources.
func (c *Client) DeletePipeline(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("pipeline id required")
	}
	return c.do(ctx, http.MethodDelete, c.endpoint("pipelines", id), nil, nil)
}

func (c *Client) endpoint(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, segment := range segments {
		escaped[i] = url.PathEscape(segment)
	}
	return strings.TrimRight(c.baseURL.String(), "/") + "/" + strings.Join(escaped, "/")
}

// do issues exactly one request. Every failure comes back as *RemoteError.
func (c *Client) do(ctx context.Context, method, target string, body, dest any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encode request")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(requestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("method", method).Str("url", target).Str("request_id", requestID).Msg("pipeline api request failed")
		return transportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	log.Debug().
		Str("method", method).
		Str("url", target).
		Int("status", resp.StatusCode).
		Str("request_id", requestID).
		Dur("elapsed", time.Since(started)).
		Msg("pipeline api request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		fallback := fmt.Sprintf("%s %s returned status %d", method, req.URL.Path, resp.StatusCode)
		return statusError(resp.StatusCode, fallback, raw)
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &RemoteError{Status: resp.StatusCode, Detail: fmt.Sprintf("decode response: %v", err), cause: err}
	}
	return nil
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = DefaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, errors.Wrapf(err, "parse api url %q", apiURL)
	}
	if u.Host == "" {
		return nil, errors.Errorf("api url %q has no host", apiURL)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
