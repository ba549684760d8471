package resolver_test

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mountain-recommendation-engine/internal/models"
	"mountain-recommendation-engine/internal/services/resolver"
)

func TestResolve_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		raw      models.RawProfile
		expected string
		rule     int
	}{
		{
			name:     "large family with high budget wanting comfort",
			raw:      models.RawProfile{FamilySize: "4", Budget: "high", VacationStyle: "comfort"},
			expected: resolver.ShahdagMountainResort,
			rule:     1,
		},
		{
			name:     "active adventurer",
			raw:      models.RawProfile{Interest: "adventure", VacationStyle: "active"},
			expected: resolver.TufandagMountainResort,
			rule:     2,
		},
		{
			name:     "active adventurer with large family and high budget",
			raw:      models.RawProfile{FamilySize: "6", Budget: "high", Interest: "adventure", VacationStyle: "active"},
			expected: resolver.TufandagMountainResort,
			rule:     2,
		},
		{
			name:     "cultural interest",
			raw:      models.RawProfile{FamilySize: "2", Budget: "low", Interest: "cultural"},
			expected: resolver.KhinalugVillage,
			rule:     3,
		},
		{
			name:     "cultural destination type",
			raw:      models.RawProfile{DestinationType: "cultural", Budget: "medium", VacationStyle: "relaxation"},
			expected: resolver.KhinalugVillage,
			rule:     3,
		},
		{
			name:     "medium budget comfort",
			raw:      models.RawProfile{Budget: "medium", VacationStyle: "comfort"},
			expected: resolver.GabalaMountainRegion,
			rule:     4,
		},
		{
			name:     "low budget traveller",
			raw:      models.RawProfile{Budget: "low", VacationStyle: "budget", Interest: "family"},
			expected: resolver.LahijMountainVillage,
			rule:     5,
		},
		{
			name:     "nature destination",
			raw:      models.RawProfile{DestinationType: "nature", Budget: "high"},
			expected: resolver.QubaQusarMountains,
			rule:     6,
		},
		{
			name:     "photographer",
			raw:      models.RawProfile{Interest: "photography"},
			expected: resolver.GoyazanMountain,
			rule:     7,
		},
		{
			name:     "scenic destination",
			raw:      models.RawProfile{DestinationType: "scenic", VacationStyle: "active"},
			expected: resolver.GoyazanMountain,
			rule:     7,
		},
		{
			name: "frequent traveller bypassing medium budget rule",
			raw: models.RawProfile{
				TripsPerYear:    "5",
				Budget:          "medium",
				VacationStyle:   "none",
				Interest:        "family",
				DestinationType: "resort",
			},
			expected: resolver.GreaterCaucasusTrails,
			rule:     8,
		},
		{
			name:     "all fields empty",
			raw:      models.RawProfile{},
			expected: resolver.ShahdagNationalPark,
			rule:     resolver.FallbackRuleNumber,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := models.NewProfile(tt.raw)
			result := resolver.Explain(p)

			assert.Equal(t, tt.expected, result.Recommendation.DestinationName)
			assert.Equal(t, tt.rule, result.RuleNumber)
			assert.Equal(t, tt.rule == resolver.FallbackRuleNumber, result.Fallback)
			assert.Equal(t, result.Recommendation, resolver.Resolve(p))
			assert.Equal(t, result.Recommendation, resolver.ResolveRaw(tt.raw))
		})
	}
}

func TestResolve_AllEmptyUsesDefaults(t *testing.T) {
	p := models.NewProfile(models.RawProfile{})

	assert.Equal(t, 1, p.FamilySize())
	assert.Equal(t, 0, p.TripsPerYear())
	assert.Equal(t, resolver.Fallback(), resolver.Resolve(p))
}

// profileGrid enumerates every combination of known tokens, an empty answer
// and an unknown token for each field the rules read.
func profileGrid() []models.RawProfile {
	withExtras := func(values ...string) []string {
		return append(values, "", "garbage")
	}

	familySizes := []string{"", "1", "3", "4", "abc"}
	trips := []string{"", "0", "3", "4", "-2"}
	budgets := withExtras("low", "medium", "high")
	destinations := withExtras("nature", "cultural", "scenic", "resort")
	styles := withExtras("active", "relaxation", "comfort", "budget")
	interests := withExtras("adventure", "nature", "cultural", "photography", "family")

	var grid []models.RawProfile
	for _, fs := range familySizes {
		for _, tp := range trips {
			for _, b := range budgets {
				for _, d := range destinations {
					for _, v := range styles {
						for _, i := range interests {
							grid = append(grid, models.RawProfile{
								FamilySize:      fs,
								TripsPerYear:    tp,
								Budget:          b,
								DestinationType: d,
								VacationStyle:   v,
								Interest:        i,
							})
						}
					}
				}
			}
		}
	}
	return grid
}

func TestResolve_FirstMatchWins(t *testing.T) {
	rules := resolver.Rules()

	for _, raw := range profileGrid() {
		p := models.NewProfile(raw)

		first := -1
		for i, r := range rules {
			if r.Matches(p) {
				first = i
				break
			}
		}
		require.NotEqual(t, -1, first, "no rule matched %+v", raw)

		result := resolver.Explain(p)
		if !assert.Equal(t, rules[first].Number, result.RuleNumber, "profile %+v", raw) {
			return
		}
	}
}

// chooseDestination is the questionnaire's decision chain written out by hand.
// Grid answers are plain decimals, so strconv.Atoi is enough here.
func chooseDestination(raw models.RawProfile) string {
	familySize, err := strconv.Atoi(raw.FamilySize)
	if err != nil || familySize == 0 {
		familySize = 1
	}
	trips, _ := strconv.Atoi(raw.TripsPerYear)

	if familySize > 3 && raw.Budget == "high" && raw.VacationStyle == "comfort" {
		return resolver.ShahdagMountainResort
	} else if raw.Interest == "adventure" && raw.VacationStyle == "active" {
		return resolver.TufandagMountainResort
	} else if raw.Interest == "cultural" || raw.DestinationType == "cultural" {
		return resolver.KhinalugVillage
	} else if raw.Budget == "medium" && (raw.VacationStyle == "relaxation" || raw.VacationStyle == "comfort") {
		return resolver.GabalaMountainRegion
	} else if raw.Budget == "low" && (raw.Interest == "cultural" || raw.VacationStyle == "budget") {
		return resolver.LahijMountainVillage
	} else if raw.Interest == "nature" || raw.DestinationType == "nature" {
		return resolver.QubaQusarMountains
	} else if raw.Interest == "photography" || raw.DestinationType == "scenic" {
		return resolver.GoyazanMountain
	} else if trips > 3 {
		return resolver.GreaterCaucasusTrails
	}
	return resolver.ShahdagNationalPark
}

func TestResolve_MatchesDecisionChain(t *testing.T) {
	for _, raw := range profileGrid() {
		got := resolver.ResolveRaw(raw).DestinationName
		if !assert.Equal(t, chooseDestination(raw), got, "profile %+v", raw) {
			return
		}
	}
}

func TestResolve_Totality(t *testing.T) {
	catalogue := make(map[models.Recommendation]bool)
	for _, d := range resolver.Destinations() {
		catalogue[d] = true
	}

	for _, raw := range profileGrid() {
		rec := resolver.ResolveRaw(raw)
		require.NotEmpty(t, rec.DestinationName)
		require.NotEmpty(t, rec.Rationale)
		require.True(t, catalogue[rec], "recommendation outside the catalogue: %+v", rec)
	}
}

func TestResolve_Deterministic(t *testing.T) {
	raw := models.RawProfile{
		FamilySize:      "3",
		AgeGroup:        "adult",
		Region:          "baku",
		TripsPerYear:    "2",
		Budget:          "medium",
		DestinationType: "resort",
		VacationStyle:   "relaxation",
		Interest:        "family",
	}

	first := resolver.ResolveRaw(raw)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, resolver.ResolveRaw(raw))
	}
}

func TestResolve_ConcurrentUse(t *testing.T) {
	grid := profileGrid()[:500]
	expected := make([]models.Recommendation, len(grid))
	for i, raw := range grid {
		expected[i] = resolver.ResolveRaw(raw)
	}

	var wg sync.WaitGroup
	errs := make(chan string, 8)
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i, raw := range grid {
				if got := resolver.ResolveRaw(raw); got != expected[i] {
					errs <- got.DestinationName
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for e := range errs {
		t.Errorf("concurrent resolution diverged: %s", e)
	}
}

func TestResolve_FamilySizeCoercionBoundary(t *testing.T) {
	base := models.RawProfile{Budget: "high", VacationStyle: "comfort"}

	empty := base
	empty.FamilySize = ""
	one := base
	one.FamilySize = "1"

	assert.Equal(t, resolver.ResolveRaw(one), resolver.ResolveRaw(empty))
	assert.NotEqual(t, resolver.ShahdagMountainResort, resolver.ResolveRaw(empty).DestinationName)

	four := base
	four.FamilySize = "4 people"
	assert.Equal(t, resolver.ShahdagMountainResort, resolver.ResolveRaw(four).DestinationName)

	three := base
	three.FamilySize = "3.9"
	assert.NotEqual(t, resolver.ShahdagMountainResort, resolver.ResolveRaw(three).DestinationName)

	for _, size := range []string{"0x4", "\ufeff5"} {
		p := base
		p.FamilySize = size
		assert.Equal(t, resolver.ShahdagMountainResort, resolver.ResolveRaw(p).DestinationName, "familySize %q", size)
	}
}

func TestResolve_TripsPerYearCoercion(t *testing.T) {
	tests := []struct {
		trips    string
		frequent bool
	}{
		{"", false},
		{"3", false},
		{"4", true},
		{" 12", true},
		{"lots", false},
		{"-10", false},
	}

	for _, tt := range tests {
		t.Run(tt.trips, func(t *testing.T) {
			rec := resolver.ResolveRaw(models.RawProfile{TripsPerYear: tt.trips})
			if tt.frequent {
				assert.Equal(t, resolver.GreaterCaucasusTrails, rec.DestinationName)
			} else {
				assert.Equal(t, resolver.ShahdagNationalPark, rec.DestinationName)
			}
		})
	}
}

func TestResolve_TokensAreCaseSensitive(t *testing.T) {
	rec := resolver.ResolveRaw(models.RawProfile{Interest: "Photography"})
	assert.Equal(t, resolver.ShahdagNationalPark, rec.DestinationName)

	rec = resolver.ResolveRaw(models.RawProfile{Interest: " photography"})
	assert.Equal(t, resolver.ShahdagNationalPark, rec.DestinationName)
}

func TestResolve_IgnoresAgeGroupAndRegion(t *testing.T) {
	base := models.RawProfile{Budget: "medium", VacationStyle: "relaxation"}
	expected := resolver.ResolveRaw(base)

	for _, age := range models.ValidAgeGroups() {
		for _, region := range models.ValidRegions() {
			raw := base
			raw.AgeGroup = string(age)
			raw.Region = string(region)
			assert.Equal(t, expected, resolver.ResolveRaw(raw))
		}
	}
}

func TestRules_OrderAndCopy(t *testing.T) {
	rules := resolver.Rules()
	require.Len(t, rules, 9)

	for i, r := range rules {
		assert.Equal(t, i+1, r.Number)
		assert.NotEmpty(t, r.Name)
		assert.False(t, r.Recommendation.IsZero())
	}
	assert.True(t, rules[8].Matches(models.NewProfile(models.RawProfile{})))

	rules[0].Recommendation = models.Recommendation{DestinationName: "Elsewhere"}
	assert.Equal(t, resolver.ShahdagMountainResort, resolver.Rules()[0].Recommendation.DestinationName)
}

func TestDestinations_ClosedCatalogue(t *testing.T) {
	destinations := resolver.Destinations()
	require.Len(t, destinations, 9)

	seen := make(map[string]bool)
	for _, d := range destinations {
		assert.False(t, seen[d.DestinationName], "duplicate destination %s", d.DestinationName)
		seen[d.DestinationName] = true
		assert.NotEmpty(t, d.Rationale)
	}

	assert.Equal(t, resolver.ShahdagNationalPark, destinations[8].DestinationName)
	assert.Equal(t, destinations[8], resolver.Fallback())
}
