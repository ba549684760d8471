// Package resolver maps a questionnaire profile to a single mountain destination.
//
// Resolution walks a fixed, ordered rule table and returns the recommendation
// of the first rule whose predicate holds. The last rule always holds, so
// every profile resolves. The package keeps no state and performs no I/O;
// it is safe for concurrent use.
package resolver

import (
	"mountain-recommendation-engine/internal/models"
)

// Rule pairs a predicate over a profile with the recommendation it yields.
type Rule struct {
	Number         int
	Name           string
	Matches        func(p models.Profile) bool
	Recommendation models.Recommendation
}

// Result is a recommendation together with the rule that produced it.
type Result struct {
	Recommendation models.Recommendation `json:"recommendation"`
	RuleNumber     int                   `json:"rule"`
	RuleName       string                `json:"rule_name"`
	Fallback       bool                  `json:"fallback"`
}

// FallbackRuleNumber is the number of the unconditional last rule.
const FallbackRuleNumber = 9

// rules is evaluated top to bottom; the first match wins.
var rules = []Rule{
	{
		Number: 1,
		Name:   "large_family_comfort",
		Matches: func(p models.Profile) bool {
			return p.FamilySize() > 3 &&
				p.Budget() == models.BudgetHigh &&
				p.VacationStyle() == models.VacationStyleComfort
		},
		Recommendation: shahdagResort,
	},
	{
		Number: 2,
		Name:   "active_adventure",
		Matches: func(p models.Profile) bool {
			return p.Interest() == models.InterestAdventure &&
				p.VacationStyle() == models.VacationStyleActive
		},
		Recommendation: tufandagResort,
	},
	{
		Number: 3,
		Name:   "cultural",
		Matches: func(p models.Profile) bool {
			return p.Interest() == models.InterestCultural ||
				p.DestinationType() == models.DestinationTypeCultural
		},
		Recommendation: khinalug,
	},
	{
		Number: 4,
		Name:   "medium_budget_relaxation",
		Matches: func(p models.Profile) bool {
			return p.Budget() == models.BudgetMedium &&
				(p.VacationStyle() == models.VacationStyleRelaxation ||
					p.VacationStyle() == models.VacationStyleComfort)
		},
		Recommendation: gabala,
	},
	{
		Number: 5,
		Name:   "low_budget",
		Matches: func(p models.Profile) bool {
			return p.Budget() == models.BudgetLow &&
				(p.Interest() == models.InterestCultural ||
					p.VacationStyle() == models.VacationStyleBudget)
		},
		Recommendation: lahij,
	},
	{
		Number: 6,
		Name:   "nature",
		Matches: func(p models.Profile) bool {
			return p.Interest() == models.InterestNature ||
				p.DestinationType() == models.DestinationTypeNature
		},
		Recommendation: qubaQusar,
	},
	{
		Number: 7,
		Name:   "photography",
		Matches: func(p models.Profile) bool {
			return p.Interest() == models.InterestPhotography ||
				p.DestinationType() == models.DestinationTypeScenic
		},
		Recommendation: goyazan,
	},
	{
		Number: 8,
		Name:   "frequent_traveler",
		Matches: func(p models.Profile) bool {
			return p.TripsPerYear() > 3
		},
		Recommendation: caucasusTrails,
	},
	{
		Number:         FallbackRuleNumber,
		Name:           "fallback",
		Matches:        func(models.Profile) bool { return true },
		Recommendation: shahdagPark,
	},
}

// Rules returns a copy of the rule table in priority order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Resolve returns the recommendation of the first matching rule.
func Resolve(p models.Profile) models.Recommendation {
	return Explain(p).Recommendation
}

// ResolveRaw coerces raw questionnaire answers and resolves them.
func ResolveRaw(raw models.RawProfile) models.Recommendation {
	return Resolve(models.NewProfile(raw))
}

// Explain resolves a profile and reports which rule decided the outcome.
func Explain(p models.Profile) Result {
	for _, r := range rules {
		if r.Matches(p) {
			return Result{
				Recommendation: r.Recommendation,
				RuleNumber:     r.Number,
				RuleName:       r.Name,
				Fallback:       r.Number == FallbackRuleNumber,
			}
		}
	}

	// Unreachable while the last rule is unconditional.
	return Result{
		Recommendation: shahdagPark,
		RuleNumber:     FallbackRuleNumber,
		RuleName:       "fallback",
		Fallback:       true,
	}
}
