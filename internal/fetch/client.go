package fetch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"context"

	"go.uber.org/zap"
)

const (
	contentType      = "application/json"
	defaultUserAgent = "credlens/verification-bot"
	defaultTimeout   = 15 * time.Second

	// maxBodySize caps response bodies. Verification pages and profile API
	// payloads are small; anything larger is not worth parsing.
	maxBodySize = 4 << 20
)

// Response is the raw result of one successful fetch.
type Response struct {
	StatusCode int
	Body       []byte
}

// Client performs exactly one network round trip per call. It never retries;
// retry policy lives in Retry so every verifier shares the same behavior.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
	// Token, when set, is sent as a bearer token. Only the code-host API
	// requires authentication.
	Token string

	logger *zap.Logger
}

// New creates a fetch client with the given per-request timeout.
func New(logger *zap.Logger, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		UserAgent: defaultUserAgent,
		logger:    logger,
	}
}

// Get performs a single GET request. A non-2xx status is returned as an
// *Error with KindHTTPStatus.
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{Kind: KindTransport, URL: url, Err: err}
	}

	return c.do(req)
}

// GetJSON performs a GET request and decodes the JSON body into target.
func (c *Client) GetJSON(ctx context.Context, url string, target any) error {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(resp.Body, target); err != nil {
		return &Error{Kind: KindParse, URL: url, Err: err}
	}

	return nil
}

// PostJSON performs a POST request with a JSON body and decodes the JSON
// response into target when target is non-nil.
func (c *Client) PostJSON(ctx context.Context, url string, payload, target any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &Error{Kind: KindParse, URL: url, Err: fmt.Errorf("marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return &Error{Kind: KindTransport, URL: url, Err: err}
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.do(req)
	if err != nil {
		return err
	}

	if target == nil {
		return nil
	}

	if err := json.Unmarshal(resp.Body, target); err != nil {
		return &Error{Kind: KindParse, URL: url, Err: err}
	}

	return nil
}

func (c *Client) do(req *http.Request) (*Response, error) {
	c.setHeaders(req)

	c.logger.Debug("make request", zap.String("url", req.URL.String()), zap.String("method", req.Method))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, Classify(req.URL.String(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, Classify(req.URL.String(), err)
	}

	c.logger.Debug("got response",
		zap.String("url", req.URL.String()),
		zap.Int("status", resp.StatusCode),
		zap.Int("body_length", len(body)),
	)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &Error{Kind: KindHTTPStatus, Status: resp.StatusCode, URL: req.URL.String()}
	}

	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

func (c *Client) setHeaders(req *http.Request) {
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	if c.Token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.Token))
	}
}
