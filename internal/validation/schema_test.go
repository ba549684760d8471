package validation_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mountain-recommendation-engine/internal/validation"
)

func TestValidateQuestionnaireJSON_Valid(t *testing.T) {
	bodies := []string{
		`{}`,
		`{"familySize":"4","budget":"high","vacationStyle":"comfort"}`,
		`{"familySize":"","interest":"garbage","budget":"HIGH"}`,
		`{"interest":"photography","respondentId":"R1","email":"x@example.com","utm_source":42}`,
	}

	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			assert.NoError(t, validation.ValidateQuestionnaireJSON([]byte(body)))
		})
	}
}

func TestValidateQuestionnaireJSON_WrongTypes(t *testing.T) {
	err := validation.ValidateQuestionnaireJSON([]byte(`{"familySize":4,"budget":null}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, validation.ErrInvalidQuestionnaire)

	var verr *validation.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Errors, 2)

	fields := []string{verr.Errors[0].Field, verr.Errors[1].Field}
	assert.ElementsMatch(t, []string{"familySize", "budget"}, fields)
}

func TestValidateQuestionnaireJSON_NotAnObject(t *testing.T) {
	for _, body := range []string{`[]`, `"budget"`, `12`} {
		err := validation.ValidateQuestionnaireJSON([]byte(body))
		assert.ErrorIs(t, err, validation.ErrInvalidQuestionnaire, body)
	}
}

func TestValidateQuestionnaireJSON_Malformed(t *testing.T) {
	err := validation.ValidateQuestionnaireJSON([]byte(`{"budget":`))
	require.Error(t, err)
	assert.ErrorIs(t, err, validation.ErrInvalidQuestionnaire)
}
