package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"

	appConfig "mountain-recommendation-engine/internal/config"
	"mountain-recommendation-engine/internal/services/database"
	"mountain-recommendation-engine/internal/services/resolver"
)

// Pinger reports database connectivity.
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	db      Pinger
	closer  func()
	version string
	stage   string
}

// NewHealthHandler creates a new health handler. A missing or unreachable
// database is reported in the response rather than failing construction.
func NewHealthHandler() (*HealthHandler, error) {
	cfg, err := appConfig.Load()
	if err != nil {
		return &HealthHandler{version: "unknown", stage: "unknown"}, nil
	}

	h := &HealthHandler{version: cfg.ServiceVersion, stage: cfg.Stage}
	if !cfg.DatabaseConfigured() {
		return h, nil
	}

	db, err := database.New(cfg)
	if err != nil {
		return h, nil
	}

	h.db = db
	h.closer = db.Close
	return h, nil
}

// NewHealthHandlerWith creates a health handler around an existing pinger, which may be nil.
func NewHealthHandlerWith(db Pinger, version, stage string) *HealthHandler {
	return &HealthHandler{db: db, version: version, stage: stage}
}

// HealthResponse is the response structure for health checks.
type HealthResponse struct {
	Status       string `json:"status"`
	Timestamp    string `json:"timestamp"`
	Service      string `json:"service"`
	Version      string `json:"version"`
	Stage        string `json:"stage"`
	Database     string `json:"database,omitempty"`
	Destinations int    `json:"destinations"`
}

// Check builds the health report.
func (h *HealthHandler) Check(ctx context.Context) HealthResponse {
	response := HealthResponse{
		Status:       "healthy",
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		Service:      "mountain-recommendation-engine",
		Version:      h.version,
		Stage:        h.stage,
		Destinations: len(resolver.Destinations()),
	}

	if h.db != nil {
		if err := h.db.HealthCheck(ctx); err != nil {
			response.Database = "disconnected"
			response.Status = "degraded"
		} else {
			response.Database = "connected"
		}
	} else {
		response.Database = "not configured"
	}

	return response
}

// Handle processes health check requests.
func (h *HealthHandler) Handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	headers := map[string]string{
		"Access-Control-Allow-Origin": "*",
		"Content-Type":                "application/json",
	}

	response := h.Check(ctx)

	statusCode := http.StatusOK
	if response.Status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	return jsonResponse(headers, statusCode, response)
}

// Close cleans up resources.
func (h *HealthHandler) Close() {
	if h.closer != nil {
		h.closer()
	}
}
