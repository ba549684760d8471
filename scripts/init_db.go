//go:build ignore
// +build ignore

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"mountain-recommendation-engine/internal/config"
	"mountain-recommendation-engine/internal/services/database"
	"mountain-recommendation-engine/internal/services/resolver"
)

func main() {
	fmt.Println("=== Database Initialization Script ===")
	fmt.Println()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if !cfg.DatabaseConfigured() {
		fmt.Println("❌ Set DATABASE_URL or DB_HOST/DB_USER/DB_PASSWORD/DB_NAME")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	fmt.Println("📡 Connecting to PostgreSQL...")
	db, err := database.New(cfg)
	if err != nil {
		fmt.Printf("❌ Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()
	fmt.Println("✅ Connected to database successfully!")
	fmt.Println()

	fmt.Println("🚀 Applying schema...")
	if err := db.EnsureSchema(ctx); err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
	fmt.Println("✅ Schema applied!")
	fmt.Println()

	fmt.Println("🔍 Verifying database setup...")
	summary, err := database.NewSubmissionRepository(db).Summary(ctx, "")
	if err != nil {
		fmt.Printf("⚠️  Warning: Could not read submissions: %v\n", err)
	} else {
		fmt.Printf("   📦 Submissions stored: %d\n", summary.TotalSubmissions)
		for _, d := range summary.ByDestination {
			fmt.Printf("      %s: %d\n", d.DestinationName, d.Count)
		}
	}

	fmt.Println()
	fmt.Println("   📋 Destinations served by the resolver:")
	for _, rule := range resolver.Rules() {
		fmt.Printf("   %d. %s\n", rule.Number, rule.Recommendation.DestinationName)
	}

	fmt.Println()
	fmt.Println("🎉 Database initialization completed successfully!")
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Test the connection: go run scripts/test_connection.go")
	fmt.Println("  2. Start the dev server: go run ./cmd/server")
}
