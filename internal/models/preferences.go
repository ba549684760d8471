// Package models defines the data structures for the mountain recommendation engine.
package models

// AgeGroup represents the respondent's age bracket.
type AgeGroup string

const (
	AgeGroupYouth  AgeGroup = "youth"
	AgeGroupAdult  AgeGroup = "adult"
	AgeGroupSenior AgeGroup = "senior"
)

// Region represents where the respondent lives.
type Region string

const (
	RegionBaku    Region = "baku"
	RegionGanja   Region = "ganja"
	RegionSumgait Region = "sumgait"
	RegionOther   Region = "other"
)

// Budget represents the respondent's spending level for a trip.
type Budget string

const (
	BudgetLow    Budget = "low"
	BudgetMedium Budget = "medium"
	BudgetHigh   Budget = "high"
)

// DestinationType represents the kind of place the respondent prefers.
type DestinationType string

const (
	DestinationTypeNature   DestinationType = "nature"
	DestinationTypeCultural DestinationType = "cultural"
	DestinationTypeScenic   DestinationType = "scenic"
	DestinationTypeResort   DestinationType = "resort"
)

// VacationStyle represents how the respondent likes to spend a trip.
type VacationStyle string

const (
	VacationStyleActive     VacationStyle = "active"
	VacationStyleRelaxation VacationStyle = "relaxation"
	VacationStyleComfort    VacationStyle = "comfort"
	VacationStyleBudget     VacationStyle = "budget"
)

// Interest represents the respondent's main interest.
type Interest string

const (
	InterestAdventure   Interest = "adventure"
	InterestNature      Interest = "nature"
	InterestCultural    Interest = "cultural"
	InterestPhotography Interest = "photography"
	InterestFamily      Interest = "family"
)

// ValidAgeGroups returns all valid age group values.
func ValidAgeGroups() []AgeGroup {
	return []AgeGroup{AgeGroupYouth, AgeGroupAdult, AgeGroupSenior}
}

// ValidRegions returns all valid region values.
func ValidRegions() []Region {
	return []Region{RegionBaku, RegionGanja, RegionSumgait, RegionOther}
}

// ValidBudgets returns all valid budget values.
func ValidBudgets() []Budget {
	return []Budget{BudgetLow, BudgetMedium, BudgetHigh}
}

// ValidDestinationTypes returns all valid destination type values.
func ValidDestinationTypes() []DestinationType {
	return []DestinationType{
		DestinationTypeNature,
		DestinationTypeCultural,
		DestinationTypeScenic,
		DestinationTypeResort,
	}
}

// ValidVacationStyles returns all valid vacation style values.
func ValidVacationStyles() []VacationStyle {
	return []VacationStyle{
		VacationStyleActive,
		VacationStyleRelaxation,
		VacationStyleComfort,
		VacationStyleBudget,
	}
}

// ValidInterests returns all valid interest values.
func ValidInterests() []Interest {
	return []Interest{
		InterestAdventure,
		InterestNature,
		InterestCultural,
		InterestPhotography,
		InterestFamily,
	}
}

// IsValid checks if the age group is one of the known values.
func (a AgeGroup) IsValid() bool { return contains(ValidAgeGroups(), a) }

// IsValid checks if the region is one of the known values.
func (r Region) IsValid() bool { return contains(ValidRegions(), r) }

// IsValid checks if the budget is one of the known values.
func (b Budget) IsValid() bool { return contains(ValidBudgets(), b) }

// IsValid checks if the destination type is one of the known values.
func (d DestinationType) IsValid() bool { return contains(ValidDestinationTypes(), d) }

// IsValid checks if the vacation style is one of the known values.
func (v VacationStyle) IsValid() bool { return contains(ValidVacationStyles(), v) }

// IsValid checks if the interest is one of the known values.
func (i Interest) IsValid() bool { return contains(ValidInterests(), i) }

func contains[T comparable](values []T, v T) bool {
	for _, valid := range values {
		if v == valid {
			return true
		}
	}
	return false
}
