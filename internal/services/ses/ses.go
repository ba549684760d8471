// Package ses sends recommendation emails via AWS SES
package ses

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"

	appConfig "mountain-recommendation-engine/internal/config"
	"mountain-recommendation-engine/internal/models"
	"mountain-recommendation-engine/internal/utils"
)

// ErrNoSender is returned when no sender address is configured.
var ErrNoSender = errors.New("SES sender email is not configured")

// API is the part of the SES client the service uses.
type API interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// Service handles SES email operations
type Service struct {
	client    API
	fromEmail string
}

// EmailParams represents parameters for sending an email
type EmailParams struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
	ReplyTo  string
}

// RecommendationEmailParams contains data for a recommendation email
type RecommendationEmailParams struct {
	SubmissionID    string
	RespondentName  string
	Email           string
	DestinationName string
	Rationale       string
	DashboardURL    string
}

// SendEmailResult contains the result of sending an email
type SendEmailResult struct {
	MessageID string
	SentAt    time.Time
}

// NewService creates a new SES service
func NewService(ctx context.Context, cfg *appConfig.Config) (*Service, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewServiceWithClient(ses.NewFromConfig(awsCfg), cfg.SESSenderEmail), nil
}

// NewServiceWithClient creates a service around an existing client.
func NewServiceWithClient(client API, fromEmail string) *Service {
	return &Service{client: client, fromEmail: fromEmail}
}

// SendEmail sends a basic email
func (s *Service) SendEmail(ctx context.Context, params EmailParams) (*SendEmailResult, error) {
	if s.fromEmail == "" {
		return nil, ErrNoSender
	}

	input := &ses.SendEmailInput{
		Source: aws.String(s.fromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{params.To},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(params.Subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{},
		},
	}

	if params.HTMLBody != "" {
		input.Message.Body.Html = &types.Content{
			Data:    aws.String(params.HTMLBody),
			Charset: aws.String("UTF-8"),
		}
	}

	if params.TextBody != "" {
		input.Message.Body.Text = &types.Content{
			Data:    aws.String(params.TextBody),
			Charset: aws.String("UTF-8"),
		}
	}

	if params.ReplyTo != "" {
		input.ReplyToAddresses = []string{params.ReplyTo}
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		utils.GetLogger().Error("Failed to send email",
			zap.String("to", params.To),
			zap.String("subject", params.Subject),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to send email: %w", err)
	}

	messageID := aws.ToString(result.MessageId)
	utils.GetLogger().Info("Email sent successfully",
		zap.String("to", params.To),
		zap.String("messageId", messageID),
	)

	return &SendEmailResult{
		MessageID: messageID,
		SentAt:    time.Now(),
	}, nil
}

// SendRecommendation emails a single recommendation to a respondent.
func (s *Service) SendRecommendation(ctx context.Context, params RecommendationEmailParams) (*SendEmailResult, error) {
	htmlBody, err := RenderRecommendationHTML(params)
	if err != nil {
		return nil, fmt.Errorf("failed to render email template: %w", err)
	}

	return s.SendEmail(ctx, EmailParams{
		To:       params.Email,
		Subject:  fmt.Sprintf("Your mountain getaway: %s", params.DestinationName),
		HTMLBody: htmlBody,
		TextBody: RenderRecommendationText(params),
	})
}

// BatchSendResult is the outcome of one email of a batch.
type BatchSendResult struct {
	SubmissionID string
	MessageID    string
	Err          error
}

// SendBatchRecommendations sends recommendation emails to multiple respondents.
// It returns one result per input, in order. Once ctx is done the remaining
// entries fail with the context error.
func (s *Service) SendBatchRecommendations(ctx context.Context, batch []RecommendationEmailParams) []BatchSendResult {
	results := make([]BatchSendResult, len(batch))
	failed := 0

	for i, params := range batch {
		results[i].SubmissionID = params.SubmissionID

		if err := ctx.Err(); err != nil {
			results[i].Err = err
			failed++
			continue
		}

		sent, err := s.SendRecommendation(ctx, params)
		if err != nil {
			results[i].Err = fmt.Errorf("failed to send to %s: %w", params.Email, err)
			failed++
			continue
		}
		results[i].MessageID = sent.MessageID
	}

	utils.GetLogger().Info("Batch recommendations sent",
		zap.Int("total", len(batch)),
		zap.Int("success", len(batch)-failed),
		zap.Int("failed", failed),
	)

	return results
}

// BuildRecommendationEmailParams creates email params from a stored submission.
func BuildRecommendationEmailParams(s *models.Submission, dashboardURL string) RecommendationEmailParams {
	return RecommendationEmailParams{
		SubmissionID:    s.ID,
		RespondentName:  s.RespondentID,
		Email:           s.Email,
		DestinationName: s.DestinationName,
		Rationale:       s.Rationale,
		DashboardURL:    dashboardURL,
	}
}

var recommendationTemplate = template.Must(template.New("recommendation").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: linear-gradient(135deg, #2f6f4f 0%, #1d3c5a 100%); color: white; padding: 30px; border-radius: 10px 10px 0 0; text-align: center; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { background: #f7f9f7; padding: 30px; border-radius: 0 0 10px 10px; }
        .destination { background: white; border-radius: 8px; padding: 20px; margin: 15px 0; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        .destination h2 { margin: 0 0 10px 0; color: #2f6f4f; }
        .cta-button { display: inline-block; background: #2f6f4f; color: white; padding: 15px 30px; text-decoration: none; border-radius: 8px; font-weight: bold; margin-top: 20px; }
        .footer { text-align: center; margin-top: 30px; color: #999; font-size: 12px; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Your Mountain Recommendation</h1>
        <p>Hi {{.RespondentName}}, here is the place we picked for you</p>
    </div>
    <div class="content">
        <div class="destination">
            <h2>{{.DestinationName}}</h2>
            <p>{{.Rationale}}</p>
        </div>
        {{if .DashboardURL}}
        <div style="text-align: center;">
            <a href="{{.DashboardURL}}" class="cta-button">Plan Your Trip</a>
        </div>
        {{end}}
    </div>
    <div class="footer">
        <p>AMT Azerbaijan Modern Tourism</p>
        <p>You received this because you answered our mountain travel questionnaire.</p>
    </div>
</body>
</html>`))

// RenderRecommendationHTML renders the HTML email body.
func RenderRecommendationHTML(params RecommendationEmailParams) (string, error) {
	var buf bytes.Buffer
	if err := recommendationTemplate.Execute(&buf, params); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderRecommendationText renders the plain text email body.
func RenderRecommendationText(params RecommendationEmailParams) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Hi %s,\n\n", params.RespondentName)
	fmt.Fprintf(&b, "Based on your answers, we recommend: %s\n\n", params.DestinationName)
	b.WriteString(params.Rationale)
	b.WriteString("\n\n")

	if params.DashboardURL != "" {
		fmt.Fprintf(&b, "Plan your trip: %s\n\n", params.DashboardURL)
	}

	b.WriteString("Best regards,\nAMT Azerbaijan Modern Tourism\n")

	return b.String()
}
