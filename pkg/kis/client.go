package kis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/parkstar12/newstoss/pkg/logger"
)

// Client calls the KIS open API quotation endpoints with retries and a
// circuit breaker. Zero value is not usable; use New.
type Client struct {
	http    *http.Client
	baseURL *url.URL
	cfg     Config
	backoff BackoffStrategy
	breaker *CircuitBreaker
	now     func() time.Time
	logger  *slog.Logger
}

// New creates a client from cfg.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.AppKey == "" || cfg.AppSecret == "" || cfg.AccessToken == "" {
		return nil, ErrMissingCredentials
	}

	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, errors.Join(ErrInvalidBaseURL, err)
	}
	if (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, cfg.BaseURL)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}

	c := &Client{
		http: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL: base,
		cfg:     cfg,
		backoff: DefaultBackoffStrategy(),
		breaker: NewCircuitBreaker(cfg.CircuitFailureThreshold, 1, cfg.CircuitRecoveryTimeout),
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(logger.Component("kis-client"))
	return c, nil
}

// response is the envelope shared by every quotation endpoint.
type response struct {
	ResultCode  string          `json:"rt_cd"`
	MessageCode string          `json:"msg_cd"`
	Message     string          `json:"msg1"`
	Output      json.RawMessage `json:"output"`
	Output1     json.RawMessage `json:"output1"`
}

// get performs a GET with retries and decodes the response envelope.
func (c *Client) get(ctx context.Context, path, trID string, query url.Values) (response, error) {
	if c.breaker != nil && !c.breaker.Allow() {
		return response{}, ErrCircuitOpen
	}

	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return response{}, ctx.Err()
			case <-time.After(c.backoff.NextInterval(attempt)):
			}
		}

		resp, status, err := c.attempt(ctx, path, trID, query)
		if c.breaker != nil {
			if err == nil || isPermanent(status) {
				c.breaker.RecordSuccess()
			} else {
				c.breaker.RecordFailure()
			}
		}
		if err == nil {
			return resp, nil
		}

		lastErr = err
		if isPermanent(status) {
			return response{}, fmt.Errorf("%w: %w", ErrPermanentFailure, err)
		}

		c.logger.WarnContext(ctx, "kis request failed, retrying",
			slog.String("tr_id", trID),
			slog.Int("attempt", attempt+1),
			slog.Int("status", status),
			logger.Error(err))
	}

	return response{}, fmt.Errorf("%w after %d attempts: %w", ErrRequestFailed, c.cfg.MaxRetries+1, lastErr)
}

func (c *Client) attempt(ctx context.Context, path, trID string, query url.Values) (response, int, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	u := c.baseURL.JoinPath(path)
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, u.String(), nil)
	if err != nil {
		return response{}, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("authorization", "Bearer "+c.cfg.AccessToken)
	req.Header.Set("appkey", c.cfg.AppKey)
	req.Header.Set("appsecret", c.cfg.AppSecret)
	req.Header.Set("tr_id", trID)
	req.Header.Set("custtype", "P")

	res, err := c.http.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return response{}, 0, fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return response{}, 0, fmt.Errorf("%w: %w", ErrTemporaryFailure, err)
	}
	defer func() { _ = res.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return response{}, res.StatusCode, fmt.Errorf("%w: reading body: %w", ErrTemporaryFailure, err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return response{}, res.StatusCode, fmt.Errorf("kis returned status %d: %s", res.StatusCode, snippet(body))
	}

	var out response
	if err := json.Unmarshal(body, &out); err != nil {
		return response{}, res.StatusCode, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	if out.ResultCode != "0" {
		// Business errors are reported with a 200 status and never change on retry.
		return response{}, http.StatusUnprocessableEntity,
			fmt.Errorf("%w: %s %s", ErrAPIError, out.MessageCode, out.Message)
	}
	return out, res.StatusCode, nil
}

// isPermanent reports whether a status means retrying cannot help.
func isPermanent(status int) bool {
	if status < 400 || status >= 500 {
		return false
	}
	switch status {
	case http.StatusRequestTimeout, http.StatusTooEarly, http.StatusTooManyRequests:
		return false
	default:
		return true
	}
}

func snippet(body []byte) string {
	s := strings.ReplaceAll(string(body), "\n", " ")
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
