package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"forecast-service/internal/model"
	"forecast-service/pkg/config"
	"forecast-service/pkg/jwtutil"
	"forecast-service/prometheus"

	"go.uber.org/zap"
)

// CatalogClient reads products and orders from the upstream inventory and order services
type CatalogClient struct {
	BaseURL      string
	ProductsPath string
	OrdersPath   string
	HTTPClient   *http.Client
	Tokens       *jwtutil.TokenIssuer
	Logger       *zap.Logger
}

// NewCatalogClient creates a client from the upstream configuration.
// tokens may be nil, in which case only the caller's Authorization header is forwarded.
func NewCatalogClient(cfg config.UpstreamConfig, tokens *jwtutil.TokenIssuer, logger *zap.Logger) *CatalogClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogClient{
		BaseURL:      cfg.BaseURL,
		ProductsPath: cfg.ProductsPath,
		OrdersPath:   cfg.OrdersPath,
		HTTPClient:   &http.Client{Timeout: cfg.Timeout},
		Tokens:       tokens,
		Logger:       logger,
	}
}

// FetchProducts returns the product catalog
func (c *CatalogClient) FetchProducts(ctx context.Context, authorization string) ([]model.Product, error) {
	var products []model.Product
	if err := c.get(ctx, "products", c.ProductsPath, authorization, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// FetchOrders returns every recorded order
func (c *CatalogClient) FetchOrders(ctx context.Context, authorization string) ([]model.Order, error) {
	var orders []model.Order
	if err := c.get(ctx, "orders", c.OrdersPath, authorization, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *CatalogClient) get(ctx context.Context, resource, path, authorization string, out interface{}) (err error) {
	track := prometheus.TrackUpstreamCall(resource)
	start := time.Now()
	defer func() { track(start, err) }()

	url := c.BaseURL + path
	c.Logger.Debug("Calling catalog service",
		zap.String("resource", resource),
		zap.String("url", url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", resource, err)
	}
	req.Header.Set("Accept", "application/json")

	if authorization == "" && c.Tokens != nil {
		token, tokenErr := c.Tokens.GenerateToken()
		if tokenErr != nil {
			return fmt.Errorf("fetch %s: service token: %w", resource, tokenErr)
		}
		authorization = "Bearer " + token
	}
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Logger.Error("Catalog request failed",
			zap.String("resource", resource),
			zap.Error(err))
		return fmt.Errorf("fetch %s: %w", resource, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("fetch %s: read body: %w", resource, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.Logger.Error("Catalog request returned error status",
			zap.String("resource", resource),
			zap.Int("status", resp.StatusCode),
			zap.String("response", truncate(string(body), 512)))
		return &StatusError{Resource: resource, StatusCode: resp.StatusCode, Body: truncate(string(body), 512)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		c.Logger.Error("Failed to parse catalog response",
			zap.String("resource", resource),
			zap.Error(err))
		return fmt.Errorf("fetch %s: decode response: %w", resource, err)
	}
	return nil
}

// StatusError is returned when the upstream answers with a non-2xx status
type StatusError struct {
	Resource   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: upstream returned %d %s", e.Resource, e.StatusCode, e.Body)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
