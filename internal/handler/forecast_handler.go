package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"forecast-service/internal/forecast"
	"forecast-service/internal/model"
	"forecast-service/pkg/logger"
	"forecast-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// CatalogSource supplies the product and order snapshots a forecast runs on.
// authorization is the caller's Authorization header, forwarded as is.
type CatalogSource interface {
	FetchProducts(ctx context.Context, authorization string) ([]model.Product, error)
	FetchOrders(ctx context.Context, authorization string) ([]model.Order, error)
}

// ForecastHandler serves the out-of-stock forecast endpoints
type ForecastHandler struct {
	service        *forecast.Service
	source         CatalogSource
	defaultHorizon int
	maxHorizon     int
}

// NewForecastHandler creates the forecast handler
func NewForecastHandler(service *forecast.Service, source CatalogSource, defaultHorizon, maxHorizon int) *ForecastHandler {
	return &ForecastHandler{
		service:        service,
		source:         source,
		defaultHorizon: defaultHorizon,
		maxHorizon:     maxHorizon,
	}
}

// Register mounts the forecast routes on g
func (h *ForecastHandler) Register(g *echo.Group) {
	g.GET("/out_of_stock", h.OutOfStock)
	g.GET("/out_of_stock/all", h.OutOfStockAll)
}

// OutOfStock forecasts the out-of-stock date of a single product
func (h *ForecastHandler) OutOfStock(c echo.Context) error {
	log := logger.FromEcho(c)

	barcode := model.Barcode(strings.TrimSpace(c.QueryParam("barcode")))
	if barcode.IsEmpty() {
		log.Warn("Missing barcode parameter")
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "missing 'barcode' parameter",
		})
	}

	days, err := h.horizon(c)
	if err != nil {
		log.Warn("Invalid days parameter", zap.String("days", c.QueryParam("days")), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	products, orders, err := h.loadCatalog(c)
	if err != nil {
		log.Error("Failed to load catalog", zap.Error(err))
		return c.JSON(http.StatusBadGateway, echo.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	result, err := h.service.ForecastOne(barcode, days, products, orders)
	if err != nil {
		log.Error("Forecast computation failed",
			zap.String("barcode", barcode.String()),
			zap.Error(err))
		prometheus.RecordForecastOutcome(forecast.OutcomeError)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   err.Error(),
		})
	}
	prometheus.RecordForecastOutcome(result.Status)

	log.Info("Forecast computed",
		zap.String("barcode", result.Barcode),
		zap.String("status", string(result.Status)),
		zap.Int("horizon_days", days))

	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadRequest
	}
	return c.JSON(status, result)
}

// OutOfStockAll forecasts every product in the catalog
func (h *ForecastHandler) OutOfStockAll(c echo.Context) error {
	log := logger.FromEcho(c)

	days, err := h.horizon(c)
	if err != nil {
		log.Warn("Invalid days parameter", zap.String("days", c.QueryParam("days")), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	products, orders, err := h.loadCatalog(c)
	if err != nil {
		log.Error("Failed to load catalog", zap.Error(err))
		return c.JSON(http.StatusBadGateway, echo.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	batch, err := h.service.ForecastAll(days, products, orders)
	if err != nil {
		log.Error("Batch forecast failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   err.Error(),
		})
	}
	prometheus.RecordBatch(batch)

	log.Info("Batch forecast computed",
		zap.Int("total_products", batch.TotalProducts),
		zap.Int("horizon_days", days))

	return c.JSON(http.StatusOK, BatchResponse{Success: true, Batch: batch})
}

// BatchResponse wraps a batch forecast for the JSON API
type BatchResponse struct {
	Success bool `json:"success"`
	forecast.Batch
}

func (h *ForecastHandler) horizon(c echo.Context) (int, error) {
	raw := strings.TrimSpace(c.QueryParam("days"))
	if raw == "" {
		return h.defaultHorizon, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("'days' must be an integer, got %q", raw)
	}
	if days <= 0 || days > h.maxHorizon {
		return 0, fmt.Errorf("'days' must be between 1 and %d, got %d", h.maxHorizon, days)
	}
	return days, nil
}

// loadCatalog fetches products and orders concurrently
func (h *ForecastHandler) loadCatalog(c echo.Context) ([]model.Product, []model.Order, error) {
	authorization := c.Request().Header.Get(echo.HeaderAuthorization)

	var (
		products []model.Product
		orders   []model.Order
	)
	g, ctx := errgroup.WithContext(c.Request().Context())
	g.Go(func() error {
		var err error
		products, err = h.source.FetchProducts(ctx, authorization)
		return err
	})
	g.Go(func() error {
		var err error
		orders, err = h.source.FetchOrders(ctx, authorization)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", errCatalogUnavailable, err)
	}
	return products, orders, nil
}

var errCatalogUnavailable = errors.New("catalog source unavailable")
