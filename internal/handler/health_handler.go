package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthHandler reports liveness together with the catalog source in use
type HealthHandler struct {
	serviceName   string
	catalogSource string
	now           func() time.Time
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status        string `json:"status"`
	Service       string `json:"service"`
	CatalogSource string `json:"catalogSource"`
	Time          string `json:"time"`
}

// NewHealthHandler creates the health handler
func NewHealthHandler(serviceName, catalogSource string) *HealthHandler {
	return &HealthHandler{
		serviceName:   serviceName,
		catalogSource: catalogSource,
		now:           time.Now,
	}
}

// Check handles the health check endpoint
func (h *HealthHandler) Check(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:        "ok",
		Service:       h.serviceName,
		CatalogSource: h.catalogSource,
		Time:          h.now().Format(time.RFC3339),
	})
}
