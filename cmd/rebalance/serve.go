package main

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/urfave/cli/v2"

	"github.com/mtlprog/rebalance/internal/api"
	"github.com/mtlprog/rebalance/internal/chain"
	"github.com/mtlprog/rebalance/internal/config"
	"github.com/mtlprog/rebalance/internal/database"
	"github.com/mtlprog/rebalance/internal/domain"
	"github.com/mtlprog/rebalance/internal/events"
	"github.com/mtlprog/rebalance/internal/export"
	"github.com/mtlprog/rebalance/internal/external"
	"github.com/mtlprog/rebalance/internal/plan"
	"github.com/mtlprog/rebalance/internal/portfolio"
	"github.com/mtlprog/rebalance/internal/price"
	"github.com/mtlprog/rebalance/internal/sideshift"
	"github.com/mtlprog/rebalance/internal/worker"
)

func serve(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	// Storage: Postgres when configured, process memory otherwise
	var quoteRepo external.QuoteRepository = external.NewMemoryQuoteRepository()
	var planRepo plan.Repository = plan.NewMemoryRepository()
	if cfg.DatabaseURL != "" {
		pool, err := connectAndMigrate(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		quoteRepo = external.NewPgQuoteRepository(pool)
		planRepo = plan.NewPgRepository(pool)
	} else {
		slog.Warn("DATABASE_URL not set, quotes and plans are kept in memory")
	}

	// Prices
	coingecko := external.NewCoinGeckoClient(cfg.CoinGeckoURL, cfg.CoinGeckoDelay, cfg.CoinGeckoRetryMax)
	externalSvc := external.NewService(coingecko, quoteRepo)
	cache, err := price.NewCache(cfg.PriceCacheTTL)
	if err != nil {
		return err
	}
	defer cache.Close()
	priceSvc := price.NewService(externalSvc, cache)

	// Holdings and plans
	chainClient := chain.NewClient(cfg.EthRPCURL, cfg.EthRPCRetryMax, cfg.EthRPCRetryBaseDelay)
	portfolioSvc := portfolio.NewService(chainClient, priceSvc)
	planSvc := plan.NewService(portfolioSvc, planRepo, cfg.ToleranceUSD)

	swaps := sideshift.NewClient(cfg.SideShiftURL, cfg.SideShiftSecret, cfg.SideShiftAffiliateID)

	// Start workers
	go worker.NewQuoteWorker(priceSvc, cfg.QuoteWorkerInterval).Run(ctx)

	if cfg.WatchAddress != "" {
		targets, err := domain.ParseTargets(cfg.WatchTargets)
		if err != nil {
			return fmt.Errorf("parsing WATCH_TARGETS: %w", err)
		}
		hooks, closeHooks, err := planHooks(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeHooks()

		var hook worker.AfterPlanHook
		if len(hooks) > 0 {
			hook = hooks
		}
		go worker.NewPlanWorker(planSvc, cfg.WatchAddress, targets, cfg.PlanWorkerInterval, hook).Run(ctx)
	}

	if cfg.AdminAPIKey == "" {
		slog.Warn("ADMIN_API_KEY not set, plan generation and shift endpoints are unprotected")
	}

	// Start HTTP server
	handler := api.NewHandler(planSvc, portfolioSvc, swaps)
	srv := api.NewServer(cfg.HTTPPort, handler, cfg.AdminAPIKey, cfg.CORSAllowedOrigins)

	go func() {
		log.Printf("HTTP server listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
	return nil
}

// planHooks builds the after-plan hooks enabled by configuration and a func releasing them.
func planHooks(ctx context.Context, cfg config.Config) (events.MultiHook, func(), error) {
	var hooks events.MultiHook
	closers := []func(){}

	if cfg.GoogleSheetID != "" && cfg.GoogleCredentialsJSON != "" {
		writer, err := export.NewSheetsWriter(ctx, cfg.GoogleSheetID, cfg.GoogleCredentialsJSON)
		if err != nil {
			return nil, nil, fmt.Errorf("creating sheets writer: %w", err)
		}
		hooks = append(hooks, export.NewService(writer))
		slog.Info("plan export to Google Sheets enabled", "sheet", cfg.GoogleSheetID)
	}

	if len(cfg.KafkaBrokers) > 0 {
		pub := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		hooks = append(hooks, pub)
		closers = append(closers, func() {
			if err := pub.Close(); err != nil {
				slog.Warn("closing kafka publisher", "error", err)
			}
		})
		slog.Info("plan events to Kafka enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	return hooks, func() {
		for _, c := range closers {
			c()
		}
	}, nil
}

func connectAndMigrate(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := database.Connect(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	migrationsSub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create migrations sub-fs: %w", err)
	}
	if err := database.RunMigrations(ctx, pool, migrationsSub); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return pool, nil
}

func migrate(c *cli.Context) error {
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	pool, err := connectAndMigrate(c.Context, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	pool.Close()
	log.Println("Migrations applied")
	return nil
}
