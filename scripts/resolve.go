//go:build ignore
// +build ignore

// Resolves one questionnaire given as flags, or every row of a CSV file,
// and prints the recommendation with the rule that decided it.
//
//	go run scripts/resolve.go -familySize 5 -budget high -vacationStyle comfort
//	go run scripts/resolve.go -csv data/questionnaires.csv
package main

import (
	"flag"
	"fmt"
	"os"

	"mountain-recommendation-engine/internal/models"
	"mountain-recommendation-engine/internal/services/resolver"
	"mountain-recommendation-engine/internal/utils"
)

func main() {
	var raw models.RawProfile
	csvPath := flag.String("csv", "", "questionnaire CSV file to resolve row by row")
	flag.StringVar(&raw.FamilySize, "familySize", "", "family size")
	flag.StringVar(&raw.AgeGroup, "ageGroup", "", "youth, adult or senior")
	flag.StringVar(&raw.Region, "region", "", "baku, ganja, sumgait or other")
	flag.StringVar(&raw.TripsPerYear, "tripsPerYear", "", "trips per year")
	flag.StringVar(&raw.Budget, "budget", "", "low, medium or high")
	flag.StringVar(&raw.DestinationType, "destinationType", "", "nature, cultural, scenic or resort")
	flag.StringVar(&raw.VacationStyle, "vacationStyle", "", "active, relaxation, comfort or budget")
	flag.StringVar(&raw.Interest, "interest", "", "adventure, nature, cultural, photography or family")
	flag.Parse()

	if *csvPath == "" {
		printResult("questionnaire", models.NewProfile(raw))
		return
	}

	content, err := os.ReadFile(*csvPath)
	if err != nil {
		fmt.Printf("❌ Failed to read CSV: %v\n", err)
		os.Exit(1)
	}

	submissions, errs := utils.NewCSVParser().ParseQuestionnaires(string(content), "local")
	for _, e := range errs {
		fmt.Printf("⚠️  %v\n", e)
	}
	fmt.Printf("✅ Parsed %d questionnaires\n\n", len(submissions))

	for _, s := range submissions {
		printResult(s.RespondentID, models.NewProfile(s.Profile))
	}
}

func printResult(label string, p models.Profile) {
	result := resolver.Explain(p)
	fmt.Printf("👤 %s\n", label)
	fmt.Printf("   🏔  %s (rule %d, %s)\n", result.Recommendation.DestinationName, result.RuleNumber, result.RuleName)
	if coerced := p.CoercedFields(); len(coerced) > 0 {
		fmt.Printf("   ℹ️  defaulted: %v\n", coerced)
	}
	fmt.Printf("   %s\n\n", result.Recommendation.Rationale)
}
