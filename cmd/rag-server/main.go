package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/medbook/rag/internal/config"
	"github.com/medbook/rag/internal/domain/documents"
	"github.com/medbook/rag/internal/domain/knowledge"
	"github.com/medbook/rag/internal/domain/query"
	"github.com/medbook/rag/internal/platform/completion"
	"github.com/medbook/rag/internal/platform/db"
	"github.com/medbook/rag/internal/platform/embedding"
	"github.com/medbook/rag/internal/platform/middleware"
	"github.com/medbook/rag/internal/platform/ner"
	"github.com/medbook/rag/internal/platform/pdf"
	"github.com/medbook/rag/internal/platform/telemetry"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "rag-server",
		Short: "Retrieval-augmented query service for patient medical documents",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() zerolog.Logger {
	if os.Getenv("ENV") == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load reference material into the knowledge base",
		Long: "With no flags, loads the built-in medical reference corpus. " +
			"With --file, chunks and embeds the given text file under --label and --category.",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			label, _ := cmd.Flags().GetString("label")
			category, _ := cmd.Flags().GetString("category")

			logger := newLogger()
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			embedder := embedding.WithTimeout(
				embedding.NewOpenAI(cfg.OpenAIAPIKey, cfg.EmbeddingModel), cfg.EmbedTimeout)
			svc := knowledge.NewService(knowledge.NewRepoPG(pool), embedder,
				cfg.ChunkSize, cfg.ChunkOverlap, nil, logger)

			if file == "" {
				total, err := svc.Seed(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("Seeded %d knowledge entries from the built-in corpus.\n", total)
				return nil
			}

			if label == "" || category == "" {
				return fmt.Errorf("--label and --category are required with --file")
			}
			content, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read %s: %w", file, err)
			}
			n, err := svc.Store(ctx, string(content), label, category)
			if err != nil {
				return err
			}
			fmt.Printf("Stored %d knowledge entries from %s.\n", n, file)
			return nil
		},
	}
	cmd.Flags().String("file", "", "Text file to load instead of the built-in corpus")
	cmd.Flags().String("label", "", "Source label for citations, e.g. \"ADA 2024 Guidelines\"")
	cmd.Flags().String("category", "", "Knowledge category, e.g. \"diabetes\"")
	return cmd
}

func runServer() error {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	tp := telemetry.NewTelemetryProvider(telemetry.TelemetryConfig{
		ServiceName:    "rag-server",
		ServiceVersion: version,
		Environment:    cfg.Env,
	})

	// External capabilities
	embedder := embedding.WithTimeout(
		embedding.NewOpenAI(cfg.OpenAIAPIKey, cfg.EmbeddingModel), cfg.EmbedTimeout)
	generator := completion.WithTimeout(
		completion.NewOpenAI(cfg.OpenAIAPIKey, cfg.CompletionModel), cfg.CompletionTimeout)
	extractor := pdf.NewExtractor()
	entityExtractor := ner.New(cfg.NERMode, generator)

	// Domain services
	docSvc := documents.NewService(documents.NewRepoPG(pool), extractor, embedder,
		entityExtractor, cfg.ChunkSize, cfg.ChunkOverlap, tp, logger)
	kbSvc := knowledge.NewService(knowledge.NewRepoPG(pool), embedder,
		cfg.ChunkSize, cfg.ChunkOverlap, tp, logger)
	querySvc := query.NewService(docSvc, kbSvc, embedder, generator, cfg.RetrievalK, tp, logger)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(logger)

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{"Content-Type", "X-Request-ID"},
	}))
	e.Use(tp.TracingMiddleware())
	e.Use(tp.MetricsMiddleware())
	e.Use(middleware.BodyLimit("1M", strconv.FormatInt(cfg.MaxUploadBytes, 10)))

	api := e.Group("/api")
	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	api.Use(middleware.RateLimit(rateLimitCfg))
	api.Use(middleware.RequestTimeout(cfg.RequestTimeout))

	documents.NewHandler(docSvc).RegisterRoutes(api)
	query.NewHandler(querySvc).RegisterRoutes(api)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})
	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/health/db", db.HealthHandler(pool))
	e.GET("/metrics", tp.PrometheusHandler())

	// Periodically refresh health gauges from the pool and the stores.
	gaugeCtx, stopGauges := context.WithCancel(ctx)
	defer stopGauges()
	go recordHealthGauges(gaugeCtx, tp.HealthMetrics(), pool, docSvc, kbSvc)

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

// errorHandler renders every error as {"error": message} so clients get
// one predictable shape.
func errorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		msg := "internal server error"
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				msg = m
			} else {
				msg = http.StatusText(code)
			}
		}

		if jsonErr := c.JSON(code, map[string]string{"error": msg}); jsonErr != nil {
			logger.Error().Err(jsonErr).Msg("failed to write error response")
		}
	}
}

type countingStore interface {
	Count(ctx context.Context) (int64, error)
}

func recordHealthGauges(ctx context.Context, hm *telemetry.HealthMetricsRecorder,
	pool *pgxpool.Pool, docs, kb countingStore) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := db.GetPoolStats(pool)
			hm.SetDBPoolActive(int64(stats.AcquiredConns))
			hm.SetDBPoolIdle(int64(stats.IdleConns))
			if n, err := docs.Count(ctx); err == nil {
				hm.SetDocumentsTotal(n)
			}
			if n, err := kb.Count(ctx); err == nil {
				hm.SetKnowledgeEntriesTotal(n)
			}
		}
	}
}
