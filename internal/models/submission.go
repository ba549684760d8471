// Package models defines the data structures for the mountain recommendation engine.
package models

import (
	"time"
)

// Submission is a stored questionnaire together with the recommendation it received.
type Submission struct {
	ID              string     `json:"id" db:"id"`
	BatchID         string     `json:"batch_id,omitempty" db:"batch_id"`
	RespondentID    string     `json:"respondent_id" db:"respondent_id"`
	Email           string     `json:"email,omitempty" db:"email"`
	Profile         RawProfile `json:"profile"`
	RuleNumber      int        `json:"rule_number" db:"rule_number"`
	DestinationName string     `json:"destination_name" db:"destination_name"`
	Rationale       string     `json:"rationale" db:"rationale"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
	NotifiedAt      *time.Time `json:"notified_at,omitempty" db:"notified_at"`
}

// Recommendation returns the recommendation stored with the submission.
func (s *Submission) Recommendation() Recommendation {
	return Recommendation{DestinationName: s.DestinationName, Rationale: s.Rationale}
}

// SubmissionCreate represents the data needed to store a new submission.
// RuleNumber, DestinationName and Rationale are filled in after resolution.
type SubmissionCreate struct {
	BatchID         string     `json:"batch_id,omitempty"`
	RespondentID    string     `json:"respondent_id"`
	Email           string     `json:"email,omitempty"`
	Profile         RawProfile `json:"profile"`
	RuleNumber      int        `json:"rule_number"`
	DestinationName string     `json:"destination_name"`
	Rationale       string     `json:"rationale"`
}

// QuestionnaireRow represents a row from an uploaded questionnaire CSV file.
type QuestionnaireRow struct {
	RespondentID    string `csv:"respondent_id"`
	Email           string `csv:"email"`
	FamilySize      string `csv:"family_size"`
	AgeGroup        string `csv:"age_group"`
	Region          string `csv:"region"`
	TripsPerYear    string `csv:"trips_per_year"`
	Budget          string `csv:"budget"`
	DestinationType string `csv:"destination_type"`
	VacationStyle   string `csv:"vacation_style"`
	Interest        string `csv:"interest"`
}

// ToSubmissionCreate converts a CSV row to a SubmissionCreate model.
func (r *QuestionnaireRow) ToSubmissionCreate(batchID string) (*SubmissionCreate, error) {
	s := &SubmissionCreate{
		BatchID:      batchID,
		RespondentID: r.RespondentID,
		Email:        r.Email,
		Profile: RawProfile{
			FamilySize:      r.FamilySize,
			AgeGroup:        r.AgeGroup,
			Region:          r.Region,
			TripsPerYear:    r.TripsPerYear,
			Budget:          r.Budget,
			DestinationType: r.DestinationType,
			VacationStyle:   r.VacationStyle,
			Interest:        r.Interest,
		},
	}

	if err := ValidateSubmissionCreate(s); err != nil {
		return nil, err
	}
	return s, nil
}

// BulkInsertResult contains the results of a bulk insert operation.
type BulkInsertResult struct {
	InsertedCount int      `json:"inserted_count"`
	FailedCount   int      `json:"failed_count"`
	IDs           []string `json:"ids,omitempty"`
	Errors        []string `json:"errors,omitempty"`
}
