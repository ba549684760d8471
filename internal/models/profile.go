// Package models defines the data structures for the mountain recommendation engine.
package models

import (
	"math"
	"strconv"
	"unicode"
)

// Defaults substituted when a numeric answer is missing or unparseable.
const (
	DefaultFamilySize   = 1
	DefaultTripsPerYear = 0
)

// Names of the profile fields, as used in JSON bodies and coercion reports.
const (
	FieldFamilySize      = "familySize"
	FieldAgeGroup        = "ageGroup"
	FieldRegion          = "region"
	FieldTripsPerYear    = "tripsPerYear"
	FieldBudget          = "budget"
	FieldDestinationType = "destinationType"
	FieldVacationStyle   = "vacationStyle"
	FieldInterest        = "interest"
)

// ProfileFields lists every questionnaire field in form order.
var ProfileFields = []string{
	FieldFamilySize,
	FieldAgeGroup,
	FieldRegion,
	FieldTripsPerYear,
	FieldBudget,
	FieldDestinationType,
	FieldVacationStyle,
	FieldInterest,
}

// RawProfile is the questionnaire exactly as submitted: one string per field.
type RawProfile struct {
	FamilySize      string `json:"familySize"`
	AgeGroup        string `json:"ageGroup"`
	Region          string `json:"region"`
	TripsPerYear    string `json:"tripsPerYear"`
	Budget          string `json:"budget"`
	DestinationType string `json:"destinationType"`
	VacationStyle   string `json:"vacationStyle"`
	Interest        string `json:"interest"`
}

// Profile is the typed, immutable view of a questionnaire.
// Enum fields keep the submitted token verbatim; an unknown token simply
// never equals any known value.
type Profile struct {
	familySize      int
	ageGroup        AgeGroup
	region          Region
	tripsPerYear    int
	budget          Budget
	destinationType DestinationType
	vacationStyle   VacationStyle
	interest        Interest
	coerced         []string
}

// NewProfile builds a Profile from raw answers. It never fails: numeric
// answers that are empty, unparseable or below their domain fall back to
// DefaultFamilySize / DefaultTripsPerYear.
func NewProfile(raw RawProfile) Profile {
	p := Profile{
		ageGroup:        AgeGroup(raw.AgeGroup),
		region:          Region(raw.Region),
		budget:          Budget(raw.Budget),
		destinationType: DestinationType(raw.DestinationType),
		vacationStyle:   VacationStyle(raw.VacationStyle),
		interest:        Interest(raw.Interest),
	}

	if n, ok := ParseLeadingInt(raw.FamilySize); ok && n >= 1 {
		p.familySize = n
	} else {
		p.familySize = DefaultFamilySize
		p.coerced = append(p.coerced, FieldFamilySize)
	}

	if n, ok := ParseLeadingInt(raw.TripsPerYear); ok && n >= 0 {
		p.tripsPerYear = n
	} else {
		p.tripsPerYear = DefaultTripsPerYear
		p.coerced = append(p.coerced, FieldTripsPerYear)
	}

	return p
}

func (p Profile) FamilySize() int                  { return p.familySize }
func (p Profile) AgeGroup() AgeGroup               { return p.ageGroup }
func (p Profile) Region() Region                   { return p.region }
func (p Profile) TripsPerYear() int                { return p.tripsPerYear }
func (p Profile) Budget() Budget                   { return p.budget }
func (p Profile) DestinationType() DestinationType { return p.destinationType }
func (p Profile) VacationStyle() VacationStyle     { return p.vacationStyle }
func (p Profile) Interest() Interest               { return p.interest }

// CoercedFields reports which numeric fields were replaced by their default.
func (p Profile) CoercedFields() []string {
	if len(p.coerced) == 0 {
		return nil
	}
	out := make([]string, len(p.coerced))
	copy(out, p.coerced)
	return out
}

// UnknownFields reports enum fields whose token is outside the known domain.
// Empty answers are not reported.
func (p Profile) UnknownFields() []string {
	var unknown []string
	check := func(name string, token string, valid bool) {
		if token != "" && !valid {
			unknown = append(unknown, name)
		}
	}
	check(FieldAgeGroup, string(p.ageGroup), p.ageGroup.IsValid())
	check(FieldRegion, string(p.region), p.region.IsValid())
	check(FieldBudget, string(p.budget), p.budget.IsValid())
	check(FieldDestinationType, string(p.destinationType), p.destinationType.IsValid())
	check(FieldVacationStyle, string(p.vacationStyle), p.vacationStyle.IsValid())
	check(FieldInterest, string(p.interest), p.interest.IsValid())
	return unknown
}

// ParseLeadingInt reads an integer the way the questionnaire form always has
// (JavaScript parseInt without a radix): leading whitespace and a byte order
// mark are skipped, an optional sign is accepted, a "0x" prefix switches to
// hexadecimal, and the leading run of digits is used ("4 people" is 4, "3.9"
// is 3, "0x1f" is 31). It reports false when no digit follows. Out-of-range
// values saturate.
func ParseLeadingInt(s string) (int, bool) {
	runes := []rune(s)
	i := 0
	for i < len(runes) && isLeadingSpace(runes[i]) {
		i++
	}

	negative := false
	if i < len(runes) && (runes[i] == '+' || runes[i] == '-') {
		negative = runes[i] == '-'
		i++
	}

	base := 10
	if i+1 < len(runes) && runes[i] == '0' && (runes[i+1] == 'x' || runes[i+1] == 'X') {
		base = 16
		i += 2
	}

	start := i
	for i < len(runes) && isDigit(runes[i], base) {
		i++
	}
	if i == start {
		return 0, false
	}

	v, err := strconv.ParseInt(string(runes[start:i]), base, strconv.IntSize)
	n := int(v)
	if err != nil {
		// Only a range error is possible here.
		n = math.MaxInt
	}
	if negative {
		n = -n
	}
	return n, true
}

func isLeadingSpace(r rune) bool {
	return r == '\ufeff' || (unicode.IsSpace(r) && r != '\u0085')
}

func isDigit(r rune, base int) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case base == 16:
		return (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
	}
	return false
}
