package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	appConfig "mountain-recommendation-engine/internal/config"
	"mountain-recommendation-engine/internal/services/database"
	"mountain-recommendation-engine/internal/services/ses"
	"mountain-recommendation-engine/internal/utils"
)

// NotifyRequest is the request body for notifying a batch.
type NotifyRequest struct {
	BatchID string `json:"batch_id"`
}

// NotifyResult reports how many recommendation emails went out.
type NotifyResult struct {
	Message string   `json:"message"`
	BatchID string   `json:"batch_id"`
	Pending int      `json:"pending"`
	Sent    int      `json:"sent"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// Notifier emails stored recommendations that have not been sent yet.
type Notifier struct {
	Store        SubmissionStore
	Mailer       Mailer
	DashboardURL string
}

// NotifyBatch emails every pending submission of a batch and marks it notified.
func (n *Notifier) NotifyBatch(ctx context.Context, batchID string) (*NotifyResult, error) {
	logger := utils.GetLogger()

	pending, err := n.Store.ListPendingNotification(ctx, batchID)
	if err != nil {
		return nil, err
	}

	result := &NotifyResult{BatchID: batchID, Pending: len(pending)}
	var errs []string

	batch := make([]ses.RecommendationEmailParams, len(pending))
	for i, s := range pending {
		batch[i] = ses.BuildRecommendationEmailParams(s, n.DashboardURL)
	}

	for _, sent := range n.Mailer.SendBatchRecommendations(ctx, batch) {
		if sent.Err != nil {
			result.Failed++
			errs = append(errs, fmt.Sprintf("submission %s: %v", sent.SubmissionID, sent.Err))
			continue
		}

		if err := n.Store.MarkNotified(ctx, sent.SubmissionID); err != nil {
			logger.Warn("Failed to mark submission notified",
				utils.String("submissionId", sent.SubmissionID),
				utils.Error(err))
		}
		result.Sent++
	}

	result.Errors = truncateErrors(errs)
	result.Message = fmt.Sprintf("Sent %d of %d recommendation emails", result.Sent, result.Pending)

	logger.Info("Batch notified",
		utils.String("batchID", batchID),
		utils.Int("sent", result.Sent),
		utils.Int("failed", result.Failed))

	return result, nil
}

// NotificationHandler handles requests to email a batch of recommendations.
type NotificationHandler struct {
	notifier *Notifier
	db       *database.DB
}

// NewNotificationHandler creates a new notification handler.
func NewNotificationHandler(ctx context.Context) (*NotificationHandler, error) {
	cfg, err := appConfig.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load app config: %w", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	mailer, err := ses.NewService(ctx, cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &NotificationHandler{
		notifier: &Notifier{
			Store:        database.NewSubmissionRepository(db),
			Mailer:       mailer,
			DashboardURL: cfg.DashboardURL,
		},
		db: db,
	}, nil
}

// NewNotificationHandlerWith creates a handler around an existing notifier.
func NewNotificationHandlerWith(n *Notifier) *NotificationHandler {
	return &NotificationHandler{notifier: n}
}

// Handle processes API Gateway requests to notify a batch.
func (h *NotificationHandler) Handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger := utils.GetLogger()
	headers := corsHeaders("POST,OPTIONS")

	if request.HTTPMethod == "OPTIONS" {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusOK,
			Headers:    headers,
		}, nil
	}

	var req NotifyRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return errorResponse(headers, http.StatusBadRequest, "Invalid JSON in request body")
	}

	if req.BatchID == "" {
		return errorResponse(headers, http.StatusBadRequest, "Missing required field: batch_id")
	}

	result, err := h.notifier.NotifyBatch(ctx, req.BatchID)
	if err != nil {
		logger.Error("Failed to notify batch",
			utils.String("batchID", req.BatchID),
			utils.Error(err))
		return errorResponse(headers, http.StatusInternalServerError, fmt.Sprintf("Failed to notify batch: %v", err))
	}

	return jsonResponse(headers, http.StatusOK, result)
}

// Close cleans up resources.
func (h *NotificationHandler) Close() {
	if h.db != nil {
		h.db.Close()
	}
}
