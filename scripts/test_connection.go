//go:build ignore
// +build ignore

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"mountain-recommendation-engine/internal/config"
	"mountain-recommendation-engine/internal/services/database"
	s3service "mountain-recommendation-engine/internal/services/s3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ Failed to load config: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	fmt.Printf("🔍 Checking %s (stage %s)\n\n", cfg.ServiceVersion, cfg.Stage)

	fmt.Println("1️⃣  Settings:")
	show("AWS_REGION", cfg.AWSRegion)
	show("S3_BUCKET", cfg.S3Bucket)
	show("SES_SENDER_EMAIL", cfg.SESSenderEmail)
	show("RESULTS_WEBHOOK_URL", mask(cfg.ResultsWebhookURL))
	show("DASHBOARD_URL", cfg.DashboardURL)
	fmt.Printf("   NOTIFY_ON_RECOMMEND: %t\n\n", cfg.NotifyOnRecommend)

	fmt.Println("2️⃣  Database:")
	failed := !checkDatabase(ctx, cfg)
	fmt.Println()

	fmt.Println("3️⃣  Upload bucket:")
	failed = !checkBucket(ctx, cfg) || failed
	fmt.Println()

	if failed {
		fmt.Println("⚠️  Some checks failed")
		os.Exit(1)
	}
	fmt.Println("✅ All checks passed")
}

func show(name, value string) {
	if value == "" {
		fmt.Printf("   ❌ %s: NOT SET\n", name)
		return
	}
	fmt.Printf("   ✅ %s: %s\n", name, value)
}

func mask(value string) string {
	if len(value) <= 12 {
		return value
	}
	return value[:8] + "..." + value[len(value)-4:]
}

func checkDatabase(ctx context.Context, cfg *config.Config) bool {
	if !cfg.DatabaseConfigured() {
		fmt.Println("   ⏭️  No database configured, submissions will not be stored")
		return true
	}

	db, err := database.New(cfg)
	if err != nil {
		fmt.Printf("   ❌ Connection failed: %v\n", err)
		return false
	}
	defer db.Close()

	if err := db.HealthCheck(ctx); err != nil {
		fmt.Printf("   ❌ Ping failed: %v\n", err)
		return false
	}
	fmt.Println("   ✅ Connected")

	summary, err := database.NewSubmissionRepository(db).Summary(ctx, "")
	if err != nil {
		if strings.Contains(err.Error(), "does not exist") {
			fmt.Println("   ⚠️  submissions table missing, run: go run scripts/init_db.go")
		} else {
			fmt.Printf("   ❌ Query failed: %v\n", err)
		}
		return false
	}
	fmt.Printf("   📊 %d submissions stored, %d notified\n", summary.TotalSubmissions, summary.NotifiedCount)
	return true
}

func checkBucket(ctx context.Context, cfg *config.Config) bool {
	svc, err := s3service.NewService(ctx, cfg)
	if err != nil {
		fmt.Printf("   ❌ S3 client failed: %v\n", err)
		return false
	}

	objects, err := svc.ListFiles(ctx, s3service.UploadPrefix, 5)
	if err != nil {
		fmt.Printf("   ❌ Listing %s failed: %v\n", svc.Bucket(), err)
		return false
	}
	fmt.Printf("   ✅ %s reachable, %d pending uploads shown\n", svc.Bucket(), len(objects))
	return true
}
