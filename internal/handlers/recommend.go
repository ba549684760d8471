package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	appConfig "mountain-recommendation-engine/internal/config"
	"mountain-recommendation-engine/internal/metrics"
	"mountain-recommendation-engine/internal/models"
	"mountain-recommendation-engine/internal/services/database"
	"mountain-recommendation-engine/internal/services/resolver"
	"mountain-recommendation-engine/internal/services/ses"
	"mountain-recommendation-engine/internal/utils"
	"mountain-recommendation-engine/internal/validation"
)

// RecommendRequest is a questionnaire submitted from the form.
type RecommendRequest struct {
	models.RawProfile
	RespondentID string `json:"respondentId,omitempty"`
	Email        string `json:"email,omitempty"`
}

// RecommendResponse is returned for a submitted questionnaire.
type RecommendResponse struct {
	DestinationName string   `json:"destinationName"`
	Rationale       string   `json:"rationale"`
	Rule            int      `json:"rule"`
	RuleName        string   `json:"ruleName"`
	SubmissionID    string   `json:"submissionId,omitempty"`
	CoercedFields   []string `json:"coercedFields,omitempty"`
	Notified        bool     `json:"notified"`
}

// Recommender resolves questionnaires and, when wired, stores and emails the result.
// Store and Mailer are optional.
type Recommender struct {
	Store        SubmissionStore
	Mailer       Mailer
	DashboardURL string
}

// ParseRecommendRequest checks the JSON shape of body and decodes it.
func ParseRecommendRequest(body []byte) (*RecommendRequest, error) {
	if err := validation.ValidateQuestionnaireJSON(body); err != nil {
		return nil, err
	}

	var req RecommendRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("%w: %v", validation.ErrInvalidQuestionnaire, err)
	}
	return &req, nil
}

// Recommend resolves one questionnaire. Only an invalid email address is
// rejected; storage and email failures are logged and do not affect the
// recommendation.
func (r *Recommender) Recommend(ctx context.Context, req *RecommendRequest) (*RecommendResponse, error) {
	logger := utils.GetLogger()

	if req.Email != "" && !models.IsValidEmail(req.Email) {
		return nil, models.ErrInvalidEmail
	}

	profile := models.NewProfile(req.RawProfile)
	result := resolver.Explain(profile)
	coerced := profile.CoercedFields()

	metrics.RecordRecommendation(result.Recommendation.DestinationName, result.RuleNumber, coerced)

	resp := &RecommendResponse{
		DestinationName: result.Recommendation.DestinationName,
		Rationale:       result.Recommendation.Rationale,
		Rule:            result.RuleNumber,
		RuleName:        result.RuleName,
		CoercedFields:   coerced,
	}

	if len(coerced) > 0 {
		logger.Debug("Numeric answers defaulted", utils.Strings("fields", coerced))
	}
	if unknown := profile.UnknownFields(); len(unknown) > 0 {
		logger.Debug("Unrecognised answer tokens", utils.Strings("fields", unknown))
	}

	if r.Store != nil {
		respondentID := req.RespondentID
		if respondentID == "" {
			respondentID = "web-" + uuid.New().String()[:8]
		}

		id, err := r.Store.Create(ctx, &models.SubmissionCreate{
			RespondentID:    respondentID,
			Email:           req.Email,
			Profile:         req.RawProfile,
			RuleNumber:      result.RuleNumber,
			DestinationName: result.Recommendation.DestinationName,
			Rationale:       result.Recommendation.Rationale,
		})
		if err != nil {
			logger.Warn("Failed to store submission", utils.Error(err))
		} else {
			resp.SubmissionID = id
		}
	}

	if r.Mailer != nil && req.Email != "" {
		_, err := r.Mailer.SendRecommendation(ctx, ses.RecommendationEmailParams{
			SubmissionID:    resp.SubmissionID,
			RespondentName:  req.RespondentID,
			Email:           req.Email,
			DestinationName: resp.DestinationName,
			Rationale:       resp.Rationale,
			DashboardURL:    r.DashboardURL,
		})
		if err != nil {
			logger.Warn("Failed to email recommendation", utils.Error(err))
		} else {
			resp.Notified = true
			if r.Store != nil && resp.SubmissionID != "" {
				if err := r.Store.MarkNotified(ctx, resp.SubmissionID); err != nil {
					logger.Warn("Failed to mark submission notified",
						utils.String("submissionId", resp.SubmissionID),
						utils.Error(err))
				}
			}
		}
	}

	logger.Info("Recommendation served",
		utils.String("destination", resp.DestinationName),
		utils.Int("rule", resp.Rule),
		utils.String("submissionId", resp.SubmissionID))

	return resp, nil
}

// RecommendHandler handles questionnaire submissions from API Gateway.
type RecommendHandler struct {
	recommender *Recommender
	db          *database.DB
}

// NewRecommendHandler creates a recommend handler. The database and SES are
// wired only when configured; without them the handler still resolves.
func NewRecommendHandler(ctx context.Context) (*RecommendHandler, error) {
	logger := utils.GetLogger()

	cfg, err := appConfig.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load app config: %w", err)
	}

	h := &RecommendHandler{
		recommender: &Recommender{DashboardURL: cfg.DashboardURL},
	}

	if cfg.DatabaseConfigured() {
		db, err := database.New(cfg)
		if err != nil {
			logger.Warn("Database unavailable, submissions will not be stored", utils.Error(err))
		} else {
			h.db = db
			h.recommender.Store = database.NewSubmissionRepository(db)
		}
	}

	if cfg.NotifyOnRecommend && cfg.SESSenderEmail != "" {
		mailer, err := ses.NewService(ctx, cfg)
		if err != nil {
			logger.Warn("SES unavailable, recommendations will not be emailed", utils.Error(err))
		} else {
			h.recommender.Mailer = mailer
		}
	}

	return h, nil
}

// NewRecommendHandlerWith creates a handler around an existing recommender.
func NewRecommendHandlerWith(r *Recommender) *RecommendHandler {
	return &RecommendHandler{recommender: r}
}

// Handle processes the API Gateway request for a recommendation.
func (h *RecommendHandler) Handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	headers := corsHeaders("POST,OPTIONS")

	if request.HTTPMethod == "OPTIONS" {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusOK,
			Headers:    headers,
		}, nil
	}

	req, err := ParseRecommendRequest([]byte(request.Body))
	if err != nil {
		metrics.RecordRequest("recommend", http.StatusBadRequest)
		return errorResponse(headers, http.StatusBadRequest, err.Error())
	}

	resp, err := h.recommender.Recommend(ctx, req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, models.ErrInvalidEmail) {
			status = http.StatusBadRequest
		}
		metrics.RecordRequest("recommend", status)
		return errorResponse(headers, status, err.Error())
	}

	metrics.RecordRequest("recommend", http.StatusOK)
	return jsonResponse(headers, http.StatusOK, resp)
}

// Close cleans up resources.
func (h *RecommendHandler) Close() {
	if h.db != nil {
		h.db.Close()
	}
}
