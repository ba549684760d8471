// Package utils provides logging and CSV helpers for the mountain recommendation engine.
package utils

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"mountain-recommendation-engine/internal/models"
)

// CSVParser errors
var (
	ErrEmptyCSV       = errors.New("CSV content is empty")
	ErrMissingColumns = errors.New("missing required columns")
	ErrNoDataRows     = errors.New("CSV file contains no data rows")
)

// Standard column names of a questionnaire export.
const (
	ColumnRespondentID    = "respondent_id"
	ColumnEmail           = "email"
	ColumnFamilySize      = "family_size"
	ColumnAgeGroup        = "age_group"
	ColumnRegion          = "region"
	ColumnTripsPerYear    = "trips_per_year"
	ColumnBudget          = "budget"
	ColumnDestinationType = "destination_type"
	ColumnVacationStyle   = "vacation_style"
	ColumnInterest        = "interest"
)

// RequiredColumns defines the columns that must be present in the CSV.
// Answer columns are optional: a missing answer is an empty answer.
var RequiredColumns = []string{
	ColumnRespondentID,
}

// ColumnAliases maps alternative column names to standard names.
// Header names are lowercased before lookup, so the form's camelCase
// field names ("familySize", "vacationType") appear here in lower case.
var ColumnAliases = map[string]string{
	// respondent_id aliases
	"respondentid": ColumnRespondentID,
	"respondent":   ColumnRespondentID,
	"user_id":      ColumnRespondentID,
	"userid":       ColumnRespondentID,
	"id":           ColumnRespondentID,
	"name":         ColumnRespondentID,

	// email aliases
	"emailaddress":  ColumnEmail,
	"email_address": ColumnEmail,
	"mail":          ColumnEmail,

	// family_size aliases
	"familysize":  ColumnFamilySize,
	"family size": ColumnFamilySize,
	"family":      ColumnFamilySize,

	// age_group aliases
	"age":       ColumnAgeGroup,
	"agegroup":  ColumnAgeGroup,
	"age group": ColumnAgeGroup,

	// trips_per_year aliases
	"tripsperyear":   ColumnTripsPerYear,
	"trips per year": ColumnTripsPerYear,
	"trips":          ColumnTripsPerYear,

	// destination_type aliases
	"destination":      ColumnDestinationType,
	"destinationtype":  ColumnDestinationType,
	"destination type": ColumnDestinationType,

	// vacation_style aliases
	"vacationtype":   ColumnVacationStyle,
	"vacation_type":  ColumnVacationStyle,
	"vacationstyle":  ColumnVacationStyle,
	"vacation style": ColumnVacationStyle,
	"style":          ColumnVacationStyle,
}

// CSVParser handles parsing of questionnaire CSV files.
type CSVParser struct {
	columnMapping map[string]int
}

// NewCSVParser creates a new CSV parser instance.
func NewCSVParser() *CSVParser {
	return &CSVParser{
		columnMapping: make(map[string]int),
	}
}

// ParseQuestionnaires parses CSV content into submissions awaiting resolution.
// Answer cells are kept exactly as written; only the respondent id and the
// email are trimmed.
func (p *CSVParser) ParseQuestionnaires(content string, batchID string) ([]*models.SubmissionCreate, []error) {
	if strings.TrimSpace(content) == "" {
		return nil, []error{ErrEmptyCSV}
	}

	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1 // Allow variable number of fields

	header, err := reader.Read()
	if err != nil {
		return nil, []error{fmt.Errorf("failed to read header: %w", err)}
	}

	if err := p.buildColumnMapping(header); err != nil {
		return nil, []error{err}
	}

	var submissions []*models.SubmissionCreate
	var parseErrors []error

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				err = fmt.Errorf("line %d: %w", perr.StartLine, perr.Err)
			}
			parseErrors = append(parseErrors, err)
			continue
		}

		// Quoted cells may span lines, so ask the reader where the record began.
		line, _ := reader.FieldPos(0)

		row := p.parseRow(record)
		submission, err := row.ToSubmissionCreate(batchID)
		if err != nil {
			parseErrors = append(parseErrors, fmt.Errorf("line %d: %w", line, err))
			continue
		}

		submissions = append(submissions, submission)
	}

	if len(submissions) == 0 && len(parseErrors) > 0 {
		return nil, append([]error{ErrNoDataRows}, parseErrors...)
	}

	return submissions, parseErrors
}

// buildColumnMapping creates a mapping of standard column names to their indices.
func (p *CSVParser) buildColumnMapping(header []string) error {
	p.columnMapping = make(map[string]int)

	for i, col := range header {
		normalized := normalizeColumn(col)
		if _, seen := p.columnMapping[normalized]; seen {
			continue // first occurrence wins
		}
		p.columnMapping[normalized] = i
	}

	var missing []string
	for _, required := range RequiredColumns {
		if _, ok := p.columnMapping[required]; !ok {
			missing = append(missing, required)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	return nil
}

// parseRow maps a record onto a QuestionnaireRow; absent cells stay empty.
func (p *CSVParser) parseRow(record []string) *models.QuestionnaireRow {
	cell := func(column string) string {
		idx, ok := p.columnMapping[column]
		if !ok || idx >= len(record) {
			return ""
		}
		return record[idx]
	}

	return &models.QuestionnaireRow{
		RespondentID:    strings.TrimSpace(cell(ColumnRespondentID)),
		Email:           strings.TrimSpace(cell(ColumnEmail)),
		FamilySize:      cell(ColumnFamilySize),
		AgeGroup:        cell(ColumnAgeGroup),
		Region:          cell(ColumnRegion),
		TripsPerYear:    cell(ColumnTripsPerYear),
		Budget:          cell(ColumnBudget),
		DestinationType: cell(ColumnDestinationType),
		VacationStyle:   cell(ColumnVacationStyle),
		Interest:        cell(ColumnInterest),
	}
}

func normalizeColumn(col string) string {
	normalized := strings.ToLower(strings.TrimSpace(col))
	normalized = strings.TrimPrefix(normalized, "\ufeff")
	if alias, ok := ColumnAliases[normalized]; ok {
		return alias
	}
	return normalized
}

// ValidateCSVStructure performs a quick validation of CSV structure without full parsing.
func ValidateCSVStructure(content string) (*CSVValidationResult, error) {
	result := &CSVValidationResult{
		Columns:        []string{},
		MissingColumns: []string{},
		UnknownColumns: []string{},
		Errors:         []string{},
	}

	if strings.TrimSpace(content) == "" {
		result.Errors = append(result.Errors, "empty file")
		return result, nil
	}

	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("failed to read header: %v", err))
		return result, nil
	}

	known := make(map[string]bool, len(ColumnAliases))
	for _, c := range []string{
		ColumnRespondentID, ColumnEmail, ColumnFamilySize, ColumnAgeGroup, ColumnRegion,
		ColumnTripsPerYear, ColumnBudget, ColumnDestinationType, ColumnVacationStyle, ColumnInterest,
	} {
		known[c] = true
	}

	normalizedColumns := make(map[string]bool)
	for _, col := range header {
		normalized := normalizeColumn(col)
		normalizedColumns[normalized] = true
		result.Columns = append(result.Columns, col)
		if !known[normalized] {
			result.UnknownColumns = append(result.UnknownColumns, col)
		}
	}

	for _, required := range RequiredColumns {
		if !normalizedColumns[required] {
			result.MissingColumns = append(result.MissingColumns, required)
		}
	}

	for {
		_, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row error: %v", err))
			continue
		}
		result.RowCount++
	}

	result.Valid = len(result.MissingColumns) == 0 && result.RowCount > 0

	return result, nil
}

// CSVValidationResult contains the results of CSV validation.
type CSVValidationResult struct {
	Valid          bool     `json:"valid"`
	RowCount       int      `json:"row_count"`
	Columns        []string `json:"columns"`
	MissingColumns []string `json:"missing_columns"`
	UnknownColumns []string `json:"unknown_columns"`
	Errors         []string `json:"errors"`
}
