// Package ordersystem is the REST client for the third-party order system.
package ordersystem

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/retailops/backend/internal/domain/integration"
	"github.com/retailops/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const (
	maxResponseSize  = 10 << 20
	maxErrorBodySize = 256
)

// Client talks to the order system's REST API with bearer tokens
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client. An empty base URL yields a client whose calls
// fail with integration.ErrUpstreamNotConfigured.
func NewClient(cfg config.OrderSystemConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.Named("ordersystem"),
	}
}

// WithTransport replaces the round tripper and keeps the configured timeout
func (c *Client) WithTransport(rt http.RoundTripper) *Client {
	c.httpClient.Transport = rt
	return c
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges username and password for a bearer token
func (c *Client) Login(ctx context.Context, username, password string) (*integration.LoginResult, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/api/auth/login", "", nil, loginRequest{Username: username, Password: password})
	if err != nil {
		return nil, err
	}
	return parseLogin(body)
}

// FetchOrders reads one page of orders
func (c *Client) FetchOrders(ctx context.Context, token string, page integration.PageRequest) (*integration.OrderPage, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/api/orders", token, pageQuery(page), nil)
	if err != nil {
		return nil, err
	}
	return parseOrderPage(body)
}

// FetchInventory reads one page of inventory levels
func (c *Client) FetchInventory(ctx context.Context, token string, page integration.PageRequest) (*integration.InventoryPage, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/api/inventory", token, pageQuery(page), nil)
	if err != nil {
		return nil, err
	}
	return parseInventoryPage(body)
}

// Ping calls the profile endpoint to prove the token is accepted
func (c *Client) Ping(ctx context.Context, token string) error {
	_, err := c.doRequest(ctx, http.MethodGet, "/api/me", token, nil, nil)
	return err
}

func pageQuery(p integration.PageRequest) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("page_size", strconv.Itoa(p.PageSize))
	return q
}

// doRequest performs one call and maps failures onto the integration errors
func (c *Client) doRequest(ctx context.Context, method, path, token string, query url.Values, payload any) ([]byte, error) {
	if c.baseURL == "" {
		return nil, integration.ErrUpstreamNotConfigured
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("ordersystem: failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("ordersystem: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", integration.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", integration.ErrUpstreamUnavailable, err)
	}

	c.logger.Debug("order system call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: %w: HTTP %d: %s", integration.ErrUpstreamRequestFailed, integration.ErrUpstreamAuthFailed, resp.StatusCode, truncate(body))
	case resp.StatusCode >= 300:
		return nil, fmt.Errorf("%w: HTTP %d: %s", integration.ErrUpstreamRequestFailed, resp.StatusCode, truncate(body))
	}
	return body, nil
}

func truncate(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBodySize {
		return s[:maxErrorBodySize] + "..."
	}
	return s
}
