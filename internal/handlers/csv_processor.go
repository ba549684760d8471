package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/aws/aws-lambda-go/events"

	appConfig "mountain-recommendation-engine/internal/config"
	"mountain-recommendation-engine/internal/metrics"
	"mountain-recommendation-engine/internal/models"
	"mountain-recommendation-engine/internal/services/database"
	"mountain-recommendation-engine/internal/services/resolver"
	s3service "mountain-recommendation-engine/internal/services/s3"
	"mountain-recommendation-engine/internal/utils"
)

const maxReportedErrors = 10

// ObjectStore reads and archives uploaded files. *s3service.Service satisfies it.
type ObjectStore interface {
	FileExists(ctx context.Context, bucket, key string) (bool, error)
	DownloadFile(ctx context.Context, bucket, key string) ([]byte, error)
	Archive(ctx context.Context, bucket, key string) (string, error)
}

// RowRecommendation is the outcome for one imported questionnaire row.
type RowRecommendation struct {
	RespondentID    string `json:"respondent_id"`
	DestinationName string `json:"destination_name"`
	Rule            int    `json:"rule"`
}

// CSVProcessResult is the result of processing a CSV file.
type CSVProcessResult struct {
	Message         string                    `json:"message"`
	BatchID         string                    `json:"batch_id"`
	SourceKey       string                    `json:"source_key,omitempty"`
	Parsed          int                       `json:"parsed"`
	Inserted        int                       `json:"inserted"`
	Failed          int                       `json:"failed"`
	ByDestination   []models.DestinationCount `json:"by_destination,omitempty"`
	Recommendations []RowRecommendation       `json:"recommendations,omitempty"`
	Errors          []string                  `json:"errors,omitempty"`
	ArchivedKey     string                    `json:"archived_key,omitempty"`
	ProcessingMs    int64                     `json:"processing_ms"`
}

// ResolveSubmissions fills in the recommendation of every parsed row and
// returns per-destination counts in catalogue order.
func ResolveSubmissions(submissions []*models.SubmissionCreate) []models.DestinationCount {
	counts := make(map[string]int)

	for _, s := range submissions {
		profile := models.NewProfile(s.Profile)
		result := resolver.Explain(profile)

		s.RuleNumber = result.RuleNumber
		s.DestinationName = result.Recommendation.DestinationName
		s.Rationale = result.Recommendation.Rationale
		counts[s.DestinationName]++

		metrics.RecordRecommendation(s.DestinationName, s.RuleNumber, profile.CoercedFields())
	}

	byDestination := []models.DestinationCount{}
	for _, d := range resolver.Destinations() {
		if n := counts[d.DestinationName]; n > 0 {
			byDestination = append(byDestination, models.DestinationCount{
				DestinationName: d.DestinationName,
				Count:           n,
			})
		}
	}
	return byDestination
}

// ImportCSV parses questionnaire CSV content, resolves every row and stores
// the rows when store is non-nil.
func ImportCSV(ctx context.Context, store SubmissionStore, content string, batchID string) (*CSVProcessResult, error) {
	logger := utils.GetLogger()
	start := time.Now()

	parser := utils.NewCSVParser()
	submissions, parseErrors := parser.ParseQuestionnaires(content, batchID)

	allErrors := make([]string, 0, len(parseErrors))
	for _, e := range parseErrors {
		allErrors = append(allErrors, e.Error())
	}

	result := &CSVProcessResult{
		BatchID: batchID,
		Parsed:  len(submissions),
		Failed:  len(parseErrors),
	}

	if len(submissions) == 0 {
		result.Message = "No valid questionnaires found in CSV"
		result.Errors = truncateErrors(allErrors)
		result.ProcessingMs = time.Since(start).Milliseconds()
		return result, nil
	}

	metrics.CSVImportRows.Observe(float64(len(submissions)))

	result.ByDestination = ResolveSubmissions(submissions)
	result.Recommendations = make([]RowRecommendation, len(submissions))
	for i, s := range submissions {
		result.Recommendations[i] = RowRecommendation{
			RespondentID:    s.RespondentID,
			DestinationName: s.DestinationName,
			Rule:            s.RuleNumber,
		}
	}

	logger.Info("Parsed CSV",
		utils.String("batchID", batchID),
		utils.Int("validRows", len(submissions)),
		utils.Int("parseErrors", len(parseErrors)))

	if store != nil {
		inserted, err := store.BulkInsert(ctx, submissions)
		if err != nil {
			return nil, fmt.Errorf("failed to insert submissions: %w", err)
		}

		result.Inserted = inserted.InsertedCount
		result.Failed += inserted.FailedCount
		allErrors = append(allErrors, inserted.Errors...)

		logger.Info("Inserted submissions",
			utils.String("batchID", batchID),
			utils.Int("inserted", inserted.InsertedCount),
			utils.Int("failed", inserted.FailedCount))
	}

	result.Message = "CSV processed successfully"
	result.Errors = truncateErrors(allErrors)
	result.ProcessingMs = time.Since(start).Milliseconds()
	return result, nil
}

func truncateErrors(errs []string) []string {
	if len(errs) > maxReportedErrors {
		return errs[:maxReportedErrors]
	}
	return errs
}

// CSVProcessorHandler handles S3 events for questionnaire CSV uploads.
type CSVProcessorHandler struct {
	objects    ObjectStore
	store      SubmissionStore
	db         *database.DB
	webhookURL string
	httpClient *http.Client
}

// NewCSVProcessorHandler creates a new CSV processor handler.
func NewCSVProcessorHandler(ctx context.Context) (*CSVProcessorHandler, error) {
	cfg, err := appConfig.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load app config: %w", err)
	}

	objects, err := s3service.NewService(ctx, cfg)
	if err != nil {
		return nil, err
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	h := NewCSVProcessorHandlerWith(objects, database.NewSubmissionRepository(db), cfg.ResultsWebhookURL)
	h.db = db
	return h, nil
}

// NewCSVProcessorHandlerWith creates a handler around existing dependencies.
func NewCSVProcessorHandlerWith(objects ObjectStore, store SubmissionStore, webhookURL string) *CSVProcessorHandler {
	return &CSVProcessorHandler{
		objects:    objects,
		store:      store,
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Handle processes S3 events for uploaded CSV files.
func (h *CSVProcessorHandler) Handle(ctx context.Context, s3Event events.S3Event) (CSVProcessResult, error) {
	logger := utils.GetLogger()

	if len(s3Event.Records) == 0 {
		return CSVProcessResult{Message: "No records to process"}, nil
	}

	record := s3Event.Records[0]
	bucket := record.S3.Bucket.Name
	key, err := url.QueryUnescape(record.S3.Object.Key)
	if err != nil {
		return CSVProcessResult{}, fmt.Errorf("failed to decode S3 key: %w", err)
	}

	logger.Info("Processing CSV file",
		utils.String("bucket", bucket),
		utils.String("key", key))

	// S3 delivers events at least once; a second delivery finds the upload archived.
	exists, err := h.objects.FileExists(ctx, bucket, key)
	if err != nil {
		return CSVProcessResult{}, fmt.Errorf("failed to check upload: %w", err)
	}
	if !exists {
		logger.Info("Upload already processed, skipping",
			utils.String("bucket", bucket),
			utils.String("key", key))
		return CSVProcessResult{
			Message:     "File already processed",
			SourceKey:   key,
			ArchivedKey: s3service.ArchiveKey(key),
		}, nil
	}

	data, err := h.objects.DownloadFile(ctx, bucket, key)
	if err != nil {
		return CSVProcessResult{}, fmt.Errorf("failed to download CSV: %w", err)
	}
	if len(data) == 0 {
		return CSVProcessResult{}, errors.New("CSV file is empty")
	}

	batchID := GenerateBatchID(key)

	result, err := ImportCSV(ctx, h.store, string(data), batchID)
	if err != nil {
		logger.Error("Failed to import CSV", utils.Error(err))
		return CSVProcessResult{}, err
	}

	// Nobody reads per-row results of an S3-triggered invocation.
	result.Recommendations = nil
	result.SourceKey = key

	if result.Inserted > 0 && h.webhookURL != "" {
		payload := map[string]interface{}{
			"batch_id":       batchID,
			"inserted":       result.Inserted,
			"by_destination": result.ByDestination,
			"trigger_type":   "csv_upload",
			"timestamp":      time.Now().UTC().Format(time.RFC3339),
		}
		if err := postJSON(ctx, h.httpClient, h.webhookURL, payload); err != nil {
			logger.Warn("Failed to trigger results webhook", utils.Error(err))
		}
	}

	archivedKey, err := h.objects.Archive(ctx, bucket, key)
	if err != nil {
		logger.Warn("Failed to archive file", utils.Error(err))
	} else {
		result.ArchivedKey = archivedKey
	}

	return *result, nil
}

// Close cleans up resources.
func (h *CSVProcessorHandler) Close() {
	if h.db != nil {
		h.db.Close()
	}
}
