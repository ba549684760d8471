// Package handlers provides Lambda handlers for the mountain recommendation engine.
package handlers

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"mountain-recommendation-engine/internal/models"
	"mountain-recommendation-engine/internal/services/ses"
)

// SubmissionStore persists questionnaire submissions.
// *database.SubmissionRepository satisfies it.
type SubmissionStore interface {
	Create(ctx context.Context, s *models.SubmissionCreate) (string, error)
	BulkInsert(ctx context.Context, submissions []*models.SubmissionCreate) (*models.BulkInsertResult, error)
	ListPendingNotification(ctx context.Context, batchID string) ([]*models.Submission, error)
	MarkNotified(ctx context.Context, id string) error
}

// Mailer sends recommendation emails. *ses.Service satisfies it.
type Mailer interface {
	SendRecommendation(ctx context.Context, params ses.RecommendationEmailParams) (*ses.SendEmailResult, error)
	SendBatchRecommendations(ctx context.Context, batch []ses.RecommendationEmailParams) []ses.BatchSendResult
}

// corsHeaders returns the API Gateway response headers for the given methods.
func corsHeaders(methods string) map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Headers": "Content-Type,Authorization",
		"Access-Control-Allow-Methods": methods,
		"Content-Type":                 "application/json",
	}
}

// jsonResponse marshals body into an API Gateway response.
func jsonResponse(headers map[string]string, statusCode int, body interface{}) (events.APIGatewayProxyResponse, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return errorResponse(headers, http.StatusInternalServerError, "Failed to encode response")
	}

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    headers,
		Body:       string(data),
	}, nil
}

// errorResponse creates an error response.
func errorResponse(headers map[string]string, statusCode int, message string) (events.APIGatewayProxyResponse, error) {
	body, _ := json.Marshal(map[string]string{
		"error":   http.StatusText(statusCode),
		"message": message,
	})

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    headers,
		Body:       string(body),
	}, nil
}

// GenerateBatchID generates a unique batch ID for an upload.
func GenerateBatchID(key string) string {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	hash := sha256.Sum256([]byte(key + timestamp))
	return hex.EncodeToString(hash[:])[:16]
}

// postJSON sends payload to a webhook and fails on any 4xx/5xx reply.
func postJSON(ctx context.Context, client *http.Client, url string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}
