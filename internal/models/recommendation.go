// Package models defines the data structures for the mountain recommendation engine.
package models

// Recommendation is the single destination returned for a questionnaire.
type Recommendation struct {
	DestinationName string `json:"destinationName"`
	Rationale       string `json:"rationale"`
}

// IsZero reports whether the recommendation carries no destination.
func (r Recommendation) IsZero() bool {
	return r.DestinationName == "" && r.Rationale == ""
}

// DestinationCount is the number of submissions resolved to one destination.
type DestinationCount struct {
	DestinationName string `json:"destination_name"`
	Count           int    `json:"count"`
}

// BatchSummary provides summary statistics for an imported questionnaire batch.
type BatchSummary struct {
	BatchID           string             `json:"batch_id"`
	TotalSubmissions  int                `json:"total_submissions"`
	NotifiedCount     int                `json:"notified_count"`
	FallbackCount     int                `json:"fallback_count"`
	ByDestination     []DestinationCount `json:"by_destination"`
	ProcessingSeconds float64            `json:"processing_seconds,omitempty"`
}
