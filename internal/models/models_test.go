package models_test

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mountain-recommendation-engine/internal/models"
)

func TestParseLeadingInt(t *testing.T) {
	tests := []struct {
		input    string
		expected int
		ok       bool
	}{
		{"4", 4, true},
		{"  7", 7, true},
		{"\t12", 12, true},
		{"+3", 3, true},
		{"-2", -2, true},
		{"4 people", 4, true},
		{"3.9", 3, true},
		{"007", 7, true},
		{"", 0, false},
		{"   ", 0, false},
		{"abc", 0, false},
		{"-", 0, false},
		{"+-1", 0, false},
		{".5", 0, false},
		{"99999999999999999999999", math.MaxInt, true},
		{"0x4", 4, true},
		{"0X1f", 31, true},
		{"-0xA", -10, true},
		{"0x", 0, false},
		{"0xg", 0, false},
		{"4e0", 4, true},
		{"\ufeff5", 5, true},
		{"\u00a0 6", 6, true},
		{"ff", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			n, ok := models.ParseLeadingInt(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, n)
		})
	}
}

func TestNewProfile_Coercion(t *testing.T) {
	tests := []struct {
		name         string
		familySize   string
		tripsPerYear string
		wantFamily   int
		wantTrips    int
		wantCoerced  []string
	}{
		{"valid numbers", "4", "2", 4, 2, nil},
		{"empty numbers", "", "", 1, 0, []string{models.FieldFamilySize, models.FieldTripsPerYear}},
		{"garbage family size", "many", "3", 1, 3, []string{models.FieldFamilySize}},
		{"zero family size", "0", "0", 1, 0, []string{models.FieldFamilySize}},
		{"negative trips", "2", "-1", 2, 0, []string{models.FieldTripsPerYear}},
		{"leading digits", "5 kids", "10x", 5, 10, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := models.NewProfile(models.RawProfile{FamilySize: tt.familySize, TripsPerYear: tt.tripsPerYear})

			assert.Equal(t, tt.wantFamily, p.FamilySize())
			assert.Equal(t, tt.wantTrips, p.TripsPerYear())
			assert.Equal(t, tt.wantCoerced, p.CoercedFields())
		})
	}
}

func TestNewProfile_KeepsTokensVerbatim(t *testing.T) {
	raw := models.RawProfile{
		AgeGroup:        "Senior",
		Region:          "baku ",
		Budget:          "high",
		DestinationType: "scenic",
		VacationStyle:   "comfort",
		Interest:        "photography",
	}

	p := models.NewProfile(raw)

	assert.Equal(t, models.AgeGroup("Senior"), p.AgeGroup())
	assert.Equal(t, models.Region("baku "), p.Region())
	assert.Equal(t, models.BudgetHigh, p.Budget())
	assert.Equal(t, models.DestinationTypeScenic, p.DestinationType())
	assert.Equal(t, models.VacationStyleComfort, p.VacationStyle())
	assert.Equal(t, models.InterestPhotography, p.Interest())
}

func TestProfile_CoercedFieldsIsCopy(t *testing.T) {
	p := models.NewProfile(models.RawProfile{})

	fields := p.CoercedFields()
	require.Len(t, fields, 2)
	fields[0] = "mutated"

	assert.Equal(t, models.FieldFamilySize, p.CoercedFields()[0])
}

func TestProfile_UnknownFields(t *testing.T) {
	p := models.NewProfile(models.RawProfile{
		AgeGroup:        "adult",
		Region:          "Baku",
		Budget:          "",
		DestinationType: "beach",
		VacationStyle:   "relaxation",
		Interest:        "family",
	})

	assert.Equal(t, []string{models.FieldRegion, models.FieldDestinationType}, p.UnknownFields())
	assert.Empty(t, models.NewProfile(models.RawProfile{}).UnknownFields())
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, models.BudgetMedium.IsValid())
	assert.False(t, models.Budget("MEDIUM").IsValid())
	assert.True(t, models.InterestFamily.IsValid())
	assert.False(t, models.Interest("").IsValid())
	assert.Len(t, models.ValidInterests(), 5)
	assert.Len(t, models.ValidDestinationTypes(), 4)
	assert.Len(t, models.ValidVacationStyles(), 4)
	assert.Len(t, models.ValidRegions(), 4)
	assert.Len(t, models.ValidAgeGroups(), 3)
	assert.Len(t, models.ValidBudgets(), 3)
}

func TestValidateSubmissionCreate(t *testing.T) {
	tests := []struct {
		name    string
		input   models.SubmissionCreate
		wantErr error
	}{
		{"valid", models.SubmissionCreate{RespondentID: "R1", Email: "aysel@example.az"}, nil},
		{"no email", models.SubmissionCreate{RespondentID: "R1"}, nil},
		{"blank respondent", models.SubmissionCreate{RespondentID: "   "}, models.ErrEmptyRespondentID},
		{"bad email", models.SubmissionCreate{RespondentID: "R1", Email: "not-an-email"}, models.ErrInvalidEmail},
		{"email without tld", models.SubmissionCreate{RespondentID: "R1", Email: "a@b"}, models.ErrInvalidEmail},
		{"respondent at limit", models.SubmissionCreate{RespondentID: strings.Repeat("r", 100)}, nil},
		{"respondent too long", models.SubmissionCreate{RespondentID: strings.Repeat("r", 101)}, models.ErrRespondentIDLength},
		{"multibyte respondent at limit", models.SubmissionCreate{RespondentID: strings.Repeat("ə", 100)}, nil},
		{"email too long", models.SubmissionCreate{RespondentID: "R1", Email: strings.Repeat("a", 250) + "@example.az"}, models.ErrInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := models.ValidateSubmissionCreate(&tt.input)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestQuestionnaireRow_ToSubmissionCreate(t *testing.T) {
	row := &models.QuestionnaireRow{
		RespondentID:  "R7",
		Email:         "r7@example.com",
		FamilySize:    "5",
		Budget:        "high",
		VacationStyle: "comfort",
	}

	s, err := row.ToSubmissionCreate("batch-1")
	require.NoError(t, err)

	assert.Equal(t, "batch-1", s.BatchID)
	assert.Equal(t, "R7", s.RespondentID)
	assert.Equal(t, "5", s.Profile.FamilySize)
	assert.Equal(t, "comfort", s.Profile.VacationStyle)
	assert.Zero(t, s.RuleNumber)

	_, err = (&models.QuestionnaireRow{}).ToSubmissionCreate("batch-1")
	assert.ErrorIs(t, err, models.ErrEmptyRespondentID)
}

func TestSubmission_Recommendation(t *testing.T) {
	s := &models.Submission{DestinationName: "Lahij Mountain Village", Rationale: "Copper."}

	rec := s.Recommendation()
	assert.Equal(t, "Lahij Mountain Village", rec.DestinationName)
	assert.False(t, rec.IsZero())
	assert.True(t, models.Recommendation{}.IsZero())
}
