package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/propmatch/search-service/internal/adapters/cache"
	"github.com/propmatch/search-service/internal/adapters/database"
	"github.com/propmatch/search-service/internal/api/handlers"
	"github.com/propmatch/search-service/internal/api/routes"
	"github.com/propmatch/search-service/internal/application/services"
	"github.com/propmatch/search-service/internal/domain/providers"
	"github.com/propmatch/search-service/internal/domain/repositories"
	"github.com/propmatch/search-service/internal/infrastructure/clients/postgres"
	"github.com/propmatch/search-service/internal/infrastructure/clients/redis"
	"github.com/propmatch/search-service/internal/infrastructure/observability"
	"github.com/propmatch/search-service/pkg/config"
	"github.com/propmatch/search-service/pkg/utils"
)

func main() {
	// Load .env if present; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Printf("Warning: Failed to set up OpenTelemetry: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down OpenTelemetry: %v", err)
				}
			}()
			log.Println("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()

	if err := pgClient.InitSchema(ctx, cfg.Search.EmbeddingDim, cfg.Search.IVFFlatLists); err != nil {
		log.Fatalf("Failed to initialize database schema: %v", err)
	}
	log.Println("PostgreSQL client initialized successfully")

	// Initialize Redis client
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Printf("Warning: Failed to initialize Redis client: %v", err)
		// Continue without Redis - the service works without caching
	} else {
		defer redisClient.Close()
		log.Println("Redis client initialized successfully")
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Initialize adapters
	indexAdapter := database.NewSearchIndexAdapter(pgClient, cfg.Search.IVFFlatProbes)
	embeddingAdapter := database.NewEmbeddingAdapter(pgClient, cfg.Search.EmbeddingDim)
	analyticsAdapter := database.NewSearchAnalyticsAdapter(pgClient)
	suggestionAdapter := database.NewSuggestionAdapter(pgClient)
	historyAdapter := database.NewSearchHistoryAdapter(pgClient)

	var popularAdapter repositories.PopularSearchRepository = database.NewPopularSearchAdapter(pgClient)
	if cacheProvider != nil {
		popularAdapter = database.NewCachedPopularSearchAdapter(popularAdapter, cacheProvider, cfg.Popular.CacheTTLSeconds)
		log.Println("Popular search adapter wrapped with caching layer")
	}

	// Initialize services
	normalizer := utils.NewTextNormalizer()
	rankingService := services.NewSearchRankingService(cfg.Search)
	analyticsService := services.NewSearchAnalyticsService(analyticsAdapter, historyAdapter, popularAdapter, cfg.Popular)
	searchService := services.NewSearchService(indexAdapter, normalizer, rankingService, analyticsService, cfg.Search)
	suggestionService := services.NewSuggestionService(suggestionAdapter, historyAdapter, cfg.Search)
	indexService := services.NewIndexService(indexAdapter, embeddingAdapter, normalizer)

	// Initialize handlers and router
	router := routes.NewRouter(
		handlers.NewSearchHandler(searchService),
		handlers.NewIndexHandler(indexService),
		handlers.NewSuggestionHandler(suggestionService),
		handlers.NewAnalyticsHandler(analyticsService),
		metrics,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Background popular-search refresh
	go runPopularRefresh(ctx, analyticsService, cfg.Popular.RefreshInterval)

	go func() {
		log.Printf("Search service listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// runPopularRefresh periodically rebuilds the popular-search summary until
// ctx is cancelled. The first rebuild runs immediately so a fresh deploy
// does not serve an empty summary for a whole interval.
func runPopularRefresh(ctx context.Context, analytics *services.SearchAnalyticsService, interval time.Duration) {
	refresh := func() {
		refreshCtx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		if err := analytics.RefreshPopularSearches(refreshCtx); err != nil {
			log.Printf("Warning: popular search refresh failed: %v", err)
		}
	}

	refresh()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refresh()
		}
	}
}
