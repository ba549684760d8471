package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"mountain-recommendation-engine/internal/models"
	"mountain-recommendation-engine/internal/services/resolver"
)

const submissionColumns = `id, batch_id, respondent_id, email,
	family_size, age_group, region, trips_per_year, budget, destination_type, vacation_style, interest,
	rule_number, destination_name, rationale, created_at, updated_at, notified_at`

const insertSubmission = `
	INSERT INTO submissions (
		id, batch_id, respondent_id, email,
		family_size, age_group, region, trips_per_year, budget, destination_type, vacation_style, interest,
		rule_number, destination_name, rationale, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $16)`

// SubmissionRepository handles submission database operations.
type SubmissionRepository struct {
	db *DB
}

// NewSubmissionRepository creates a new submission repository.
func NewSubmissionRepository(db *DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

func insertArgs(id string, s *models.SubmissionCreate, now time.Time) []interface{} {
	return []interface{}{
		id,
		s.BatchID,
		s.RespondentID,
		s.Email,
		s.Profile.FamilySize,
		s.Profile.AgeGroup,
		s.Profile.Region,
		s.Profile.TripsPerYear,
		s.Profile.Budget,
		s.Profile.DestinationType,
		s.Profile.VacationStyle,
		s.Profile.Interest,
		s.RuleNumber,
		s.DestinationName,
		s.Rationale,
		now,
	}
}

// Create inserts a new submission and returns its id.
func (r *SubmissionRepository) Create(ctx context.Context, s *models.SubmissionCreate) (string, error) {
	id := uuid.New().String()

	if _, err := r.db.ExecContext(ctx, insertSubmission, insertArgs(id, s, time.Now().UTC())...); err != nil {
		return "", fmt.Errorf("failed to create submission: %w", err)
	}

	return id, nil
}

// BulkInsert inserts multiple submissions in one transaction. A failing row
// is rolled back to its savepoint and reported; the other rows are kept.
func (r *SubmissionRepository) BulkInsert(ctx context.Context, submissions []*models.SubmissionCreate) (*models.BulkInsertResult, error) {
	result := &models.BulkInsertResult{
		IDs:    []string{},
		Errors: []string{},
	}

	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		now := time.Now().UTC()

		for _, s := range submissions {
			sp, err := tx.Begin(ctx)
			if err != nil {
				return fmt.Errorf("failed to create savepoint: %w", err)
			}

			id := uuid.New().String()
			if _, err := sp.Exec(ctx, insertSubmission, insertArgs(id, s, now)...); err != nil {
				_ = sp.Rollback(ctx)
				result.FailedCount++
				result.Errors = append(result.Errors, fmt.Sprintf("respondent %s: %v", s.RespondentID, err))
				continue
			}

			if err := sp.Commit(ctx); err != nil {
				return fmt.Errorf("failed to release savepoint: %w", err)
			}
			result.InsertedCount++
			result.IDs = append(result.IDs, id)
		}
		return nil
	})

	if err != nil {
		return result, fmt.Errorf("bulk insert failed: %w", err)
	}

	return result, nil
}

// GetByID retrieves a submission by id.
func (r *SubmissionRepository) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = $1`

	s, err := scanSubmission(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrSubmissionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	return s, nil
}

// ListByBatch returns the submissions of a batch, newest first.
// An empty batchID lists the most recent submissions across batches.
func (r *SubmissionRepository) ListByBatch(ctx context.Context, batchID string, limit int) ([]*models.Submission, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows pgx.Rows
	var err error
	if batchID == "" {
		rows, err = r.db.QueryContext(ctx,
			`SELECT `+submissionColumns+` FROM submissions ORDER BY created_at DESC LIMIT $1`, limit)
	} else {
		rows, err = r.db.QueryContext(ctx,
			`SELECT `+submissionColumns+` FROM submissions WHERE batch_id = $1 ORDER BY created_at DESC LIMIT $2`,
			batchID, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer rows.Close()

	return collectSubmissions(rows)
}

// ListPendingNotification returns submissions of a batch that have an email
// address and have not been notified yet.
func (r *SubmissionRepository) ListPendingNotification(ctx context.Context, batchID string) ([]*models.Submission, error) {
	query := `SELECT ` + submissionColumns + `
		FROM submissions
		WHERE batch_id = $1 AND email <> '' AND notified_at IS NULL
		ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending notifications: %w", err)
	}
	defer rows.Close()

	return collectSubmissions(rows)
}

// MarkNotified records that the recommendation email was sent.
func (r *SubmissionRepository) MarkNotified(ctx context.Context, id string) error {
	now := time.Now().UTC()
	affected, err := r.db.ExecContext(ctx,
		`UPDATE submissions SET notified_at = $2, updated_at = $2 WHERE id = $1`, id, now)
	if err != nil {
		return fmt.Errorf("failed to mark submission notified: %w", err)
	}
	if affected == 0 {
		return models.ErrSubmissionNotFound
	}
	return nil
}

// Summary returns destination counts for a batch. An empty batchID covers all submissions.
func (r *SubmissionRepository) Summary(ctx context.Context, batchID string) (*models.BatchSummary, error) {
	summary := &models.BatchSummary{
		BatchID:       batchID,
		ByDestination: []models.DestinationCount{},
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT destination_name,
			COUNT(*) AS total,
			COUNT(notified_at) AS notified,
			COUNT(*) FILTER (WHERE rule_number = $2) AS fallback
		FROM submissions
		WHERE $1 = '' OR batch_id = $1
		GROUP BY destination_name
		ORDER BY total DESC, destination_name`, batchID, resolver.FallbackRuleNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize submissions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var total, notified, fallback int
		if err := rows.Scan(&name, &total, &notified, &fallback); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}
		summary.ByDestination = append(summary.ByDestination, models.DestinationCount{
			DestinationName: name,
			Count:           total,
		})
		summary.TotalSubmissions += total
		summary.NotifiedCount += notified
		summary.FallbackCount += fallback
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read summary rows: %w", err)
	}

	return summary, nil
}

// DeleteAll removes every submission and returns the number of rows deleted.
func (r *SubmissionRepository) DeleteAll(ctx context.Context) (int64, error) {
	affected, err := r.db.ExecContext(ctx, `DELETE FROM submissions`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete submissions: %w", err)
	}
	return affected, nil
}

func scanSubmission(row pgx.Row) (*models.Submission, error) {
	var s models.Submission
	err := row.Scan(
		&s.ID,
		&s.BatchID,
		&s.RespondentID,
		&s.Email,
		&s.Profile.FamilySize,
		&s.Profile.AgeGroup,
		&s.Profile.Region,
		&s.Profile.TripsPerYear,
		&s.Profile.Budget,
		&s.Profile.DestinationType,
		&s.Profile.VacationStyle,
		&s.Profile.Interest,
		&s.RuleNumber,
		&s.DestinationName,
		&s.Rationale,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.NotifiedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func collectSubmissions(rows pgx.Rows) ([]*models.Submission, error) {
	submissions := []*models.Submission{}
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		submissions = append(submissions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read submissions: %w", err)
	}
	return submissions, nil
}
