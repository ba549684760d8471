// Package validation checks the shape of incoming questionnaire documents.
//
// Only the JSON shape is checked: answers must be strings. The answer values
// themselves are never checked against their domains, since every set of
// answers resolves to a recommendation.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidQuestionnaire is returned when a document does not have the questionnaire shape.
var ErrInvalidQuestionnaire = errors.New("invalid questionnaire document")

const questionnaireSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"familySize":      {"type": "string"},
		"ageGroup":        {"type": "string"},
		"region":          {"type": "string"},
		"tripsPerYear":    {"type": "string"},
		"budget":          {"type": "string"},
		"destinationType": {"type": "string"},
		"vacationStyle":   {"type": "string"},
		"interest":        {"type": "string"},
		"respondentId":    {"type": "string", "maxLength": 100},
		"email":           {"type": "string", "maxLength": 254}
	},
	"additionalProperties": true
}`

var schemaLoader = gojsonschema.NewStringLoader(questionnaireSchema)

// FieldError describes one violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every violation found in a document.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return fmt.Sprintf("%s: %s", ErrInvalidQuestionnaire, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidQuestionnaire }

// ValidateQuestionnaireJSON validates a raw JSON body.
func ValidateQuestionnaireJSON(body []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidQuestionnaire, err)
	}

	if result.Valid() {
		return nil
	}

	verr := &ValidationError{}
	for _, desc := range result.Errors() {
		verr.Errors = append(verr.Errors, FieldError{
			Field:   desc.Field(),
			Message: desc.Description(),
		})
	}
	return verr
}
