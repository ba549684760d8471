package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"

	appConfig "mountain-recommendation-engine/internal/config"
	s3service "mountain-recommendation-engine/internal/services/s3"
	"mountain-recommendation-engine/internal/utils"
)

// UploadURLExpiry is how long a presigned upload URL stays valid.
const UploadURLExpiry = time.Hour

// UploadURLGenerator presigns PUT requests. *s3service.Service satisfies it.
type UploadURLGenerator interface {
	GeneratePresignedUploadURL(ctx context.Context, key string, contentType string, expiry time.Duration) (*s3service.PresignedURLResult, error)
}

// PresignedURLHandler handles requests for presigned questionnaire upload URLs.
type PresignedURLHandler struct {
	presigner UploadURLGenerator
	now       func() time.Time
}

// NewPresignedURLHandler creates a new presigned URL handler.
func NewPresignedURLHandler(ctx context.Context) (*PresignedURLHandler, error) {
	cfg, err := appConfig.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load app config: %w", err)
	}

	svc, err := s3service.NewService(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return NewPresignedURLHandlerWith(svc), nil
}

// NewPresignedURLHandlerWith creates a handler around an existing presigner.
func NewPresignedURLHandlerWith(presigner UploadURLGenerator) *PresignedURLHandler {
	return &PresignedURLHandler{presigner: presigner, now: time.Now}
}

// PresignedURLResponse is the response structure for presigned URL requests.
type PresignedURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	S3Key     string `json:"s3Key"`
	ExpiresIn int    `json:"expiresIn"`
}

// Handle processes the API Gateway request for generating presigned URLs.
func (h *PresignedURLHandler) Handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger := utils.GetLogger()
	headers := corsHeaders("GET,OPTIONS")

	if request.HTTPMethod == "OPTIONS" {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusOK,
			Headers:    headers,
		}, nil
	}

	key, err := s3service.UploadKey(request.QueryStringParameters["filename"], h.now())
	if errors.Is(err, s3service.ErrNotCSV) {
		return errorResponse(headers, http.StatusBadRequest, "Only CSV files are allowed")
	}
	if err != nil {
		return errorResponse(headers, http.StatusBadRequest, err.Error())
	}

	presigned, err := h.presigner.GeneratePresignedUploadURL(ctx, key, "text/csv", UploadURLExpiry)
	if err != nil {
		logger.Error("Failed to generate presigned URL", utils.Error(err))
		return errorResponse(headers, http.StatusInternalServerError, "Failed to generate upload URL")
	}

	logger.Info("Generated presigned URL", utils.String("s3Key", key))

	return jsonResponse(headers, http.StatusOK, PresignedURLResponse{
		UploadURL: presigned.URL,
		S3Key:     presigned.Key,
		ExpiresIn: int(UploadURLExpiry.Seconds()),
	})
}
