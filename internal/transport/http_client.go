package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/net/http2"

	"github.com/joelwehr/ppclog/internal/config"
	"github.com/joelwehr/ppclog/internal/events"
	"github.com/joelwehr/ppclog/internal/models"
)

// HTTPClient implements Client over net/http.
type HTTPClient struct {
	client    *http.Client
	baseURL   string
	userAgent string
	clientID  string
	logger    *events.Logger

	mu    sync.RWMutex
	token string

	maxRetries int
	retryDelay time.Duration
}

// NewHTTPClient creates an HTTP client. clientID is the per-install
// identifier sent as X-Client-ID; empty omits the header.
func NewHTTPClient(cfg *config.APIConfig, clientID string, logger *events.Logger) *HTTPClient {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	if err := http2.ConfigureTransport(transport); err != nil {
		logger.WithError(err).Warn("Failed to configure HTTP/2")
	}

	return &HTTPClient{
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		baseURL:    cfg.BaseURL,
		userAgent:  cfg.UserAgent,
		clientID:   clientID,
		maxRetries: cfg.MaxRetries,
		retryDelay: time.Second,
		logger:     logger.WithField("component", "http_client"),
	}
}

// SetToken sets the bearer token.
func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token returns the current bearer token.
func (c *HTTPClient) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// GetJSON issues a GET request.
func (c *HTTPClient) GetJSON(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// PostJSON issues a POST request with a JSON body.
func (c *HTTPClient) PostJSON(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body []byte, out interface{}) error {
	url := c.baseURL + path

	c.logger.WithFields(map[string]interface{}{
		"method": method,
		"url":    url,
		"size":   len(body),
	}).Debug("Sending request")

	var respBody []byte
	var status int

	err := c.retry(ctx, func() error {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.clientID != "" {
			req.Header.Set("X-Client-ID", c.clientID)
		}
		if token := c.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("execute request: %w", err)
		}
		defer resp.Body.Close()

		respBody, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}
		status = resp.StatusCode

		if isRetryable(status) {
			return fmt.Errorf("server error %d: %s", status, respBody)
		}
		return nil
	})
	if err != nil {
		return err
	}

	c.logger.WithFields(map[string]interface{}{
		"status": status,
		"size":   len(respBody),
	}).Debug("Received response")

	if status < 200 || status > 299 {
		apiErr := &models.APIError{StatusCode: status}
		if jsonErr := json.Unmarshal(respBody, apiErr); jsonErr != nil || apiErr.Message == "" {
			apiErr.Message = string(respBody)
		}
		apiErr.StatusCode = status
		return apiErr
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

// retry executes fn with exponential backoff. Only transient
// conditions are retried; a definitive HTTP status (including 401)
// returns immediately.
func (c *HTTPClient) retry(ctx context.Context, fn func() error) error {
	var lastErr error
	delay := c.retryDelay

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.WithFields(map[string]interface{}{
				"attempt": attempt,
				"delay":   delay,
			}).Debug("Retrying request")

			select {
			case <-time.After(delay):
				delay *= 2
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return lastErr
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func isRetryable(status int) bool {
	return status == http.StatusTooManyRequests ||
		(status >= 500 && status < 600)
}
