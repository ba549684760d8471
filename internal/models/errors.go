// Package models defines the data structures for the mountain recommendation engine.
package models

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// Length limits shared with the questionnaire JSON schema.
const (
	MaxRespondentIDLength = 100
	MaxEmailLength        = 254
)

// Common errors
var (
	ErrEmptyRespondentID  = errors.New("respondent_id cannot be empty")
	ErrRespondentIDLength = errors.New("respondent_id is longer than 100 characters")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrSubmissionNotFound = errors.New("submission not found")
)

// ValidateSubmissionCreate validates submission data before it is stored.
// Questionnaire answers are never validated here; every answer maps to a
// recommendation.
func ValidateSubmissionCreate(s *SubmissionCreate) error {
	if strings.TrimSpace(s.RespondentID) == "" {
		return ErrEmptyRespondentID
	}
	if utf8.RuneCountInString(s.RespondentID) > MaxRespondentIDLength {
		return ErrRespondentIDLength
	}

	if s.Email != "" && (utf8.RuneCountInString(s.Email) > MaxEmailLength || !IsValidEmail(s.Email)) {
		return ErrInvalidEmail
	}

	return nil
}

// IsValidEmail performs basic email validation.
func IsValidEmail(email string) bool {
	if email == "" {
		return false
	}

	// Basic check: must contain @ and have content before and after
	atIndex := strings.Index(email, "@")
	if atIndex <= 0 || atIndex == len(email)-1 {
		return false
	}

	// Must have a dot after @
	dotIndex := strings.LastIndex(email, ".")
	if dotIndex <= atIndex+1 || dotIndex == len(email)-1 {
		return false
	}

	return true
}
