package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/propmatch/search-service/internal/adapters/database"
	"github.com/propmatch/search-service/internal/application/services"
	"github.com/propmatch/search-service/internal/infrastructure/clients/postgres"
	"github.com/propmatch/search-service/pkg/config"
)

// One-shot rebuild of the popular-search summary, for cron or manual runs.
func main() {
	var timeout time.Duration
	flag.DurationVar(&timeout, "timeout", 5*time.Minute, "Max duration for the refresh")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pgClient.Close()

	analyticsAdapter := database.NewSearchAnalyticsAdapter(pgClient)
	historyAdapter := database.NewSearchHistoryAdapter(pgClient)
	popularAdapter := database.NewPopularSearchAdapter(pgClient)

	svc := services.NewSearchAnalyticsService(analyticsAdapter, historyAdapter, popularAdapter, cfg.Popular)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ctx, timeoutCancel := context.WithTimeout(ctx, timeout)
	defer timeoutCancel()

	start := time.Now()
	if err := svc.RefreshPopularSearches(ctx); err != nil {
		log.Fatalf("Popular search refresh failed: %v", err)
	}

	log.Printf("Popular search refresh completed in %s (window=%dd, min=%d, limit=%d)",
		time.Since(start).Round(time.Millisecond),
		cfg.Popular.WindowDays, cfg.Popular.MinOccurrences, cfg.Popular.Limit)
}
