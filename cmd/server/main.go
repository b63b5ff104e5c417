package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Suraj182004/saaraansh/internal/api"
	"github.com/Suraj182004/saaraansh/internal/auth"
	"github.com/Suraj182004/saaraansh/internal/billing"
	"github.com/Suraj182004/saaraansh/internal/config"
	"github.com/Suraj182004/saaraansh/internal/db"
	"github.com/Suraj182004/saaraansh/internal/extract"
	"github.com/Suraj182004/saaraansh/internal/gcs"
	"github.com/Suraj182004/saaraansh/internal/ledger"
	"github.com/Suraj182004/saaraansh/internal/logger"
	"github.com/Suraj182004/saaraansh/internal/pipeline"
	"github.com/Suraj182004/saaraansh/internal/services"
	"github.com/Suraj182004/saaraansh/internal/summary"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	bunDB := db.NewBunPostgresClient(cfg.DatabaseURL)
	defer bunDB.Close()

	if cfg.AutoMigrate {
		group, err := db.Migrate(ctx, bunDB)
		if err != nil {
			fatal("Migration failed", err)
		}
		if group != "" {
			logger.Log.Info("applied migrations", "group", group)
		}
	}

	accounts := ledger.New(ledger.NewBunRepository(bunDB))
	summaries := summary.NewBunStore(bunDB)

	prices := billing.NewPriceTable(cfg.StripeBasicPriceID, cfg.StripeProPriceID)
	stripeBilling := billing.NewBilling(cfg.StripeSecretKey, cfg.StripeWebhookSecret, cfg.AppBaseURL, prices)
	checkout := billing.NewCheckout(stripeBilling, accounts, billing.WithRetry(cfg.CheckoutMaxAttempts, cfg.CheckoutRetryDelay))
	reconciler := billing.NewReconciler(accounts, stripeBilling, prices)

	objects, err := gcs.NewStore(ctx, cfg.GCSBucket)
	if err != nil {
		fatal("Failed to create GCS store", err)
	}
	defer objects.Close()

	aiClient, err := services.NewGeminiAIClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		fatal("Failed to create Gemini client", err)
	}
	summarizer, err := services.NewGeminiSummarizer(aiClient, cfg.GeminiModels,
		services.WithUsageTracker(services.NewUsageTracker()),
	)
	if err != nil {
		fatal("Failed to create summarizer", err)
	}

	fetcher := extract.NewSourceFetcher(cfg.MaxUploadBytes, cfg.FetchTimeout, extract.WithObjectOpener(objects))

	p := pipeline.NewPipeline([]pipeline.Stage{
		pipeline.NewAdmissionStage(accounts),
		pipeline.NewExtractStage(fetcher, extract.NewPDFExtractor(), cfg.MaxPromptChars),
		pipeline.NewSummarizeStage(summarizer),
		pipeline.NewRecordStage(pipeline.NewBunRecorder(bunDB, accounts)),
	})

	jwtVerifier, err := auth.NewJWTVerifier(cfg.AuthJWKSURL, auth.WithIssuer(cfg.AuthIssuer))
	if err != nil {
		fatal("Failed to create JWT verifier", err)
	}
	defer jwtVerifier.Close()

	var directory ledger.EmailProvider
	if cfg.WorkOSApiKey != "" {
		directory = auth.NewWorkOSDirectory(cfg.WorkOSApiKey)
	}

	sources := api.SourcePolicy{Bucket: cfg.GCSBucket, UploadHosts: cfg.UploadAllowedHosts}
	handlers := &api.Handlers{
		Account:   api.NewAccountHandler(accounts),
		Summaries: api.NewSummaryHandler(p, summaries, objects, directory, sources, cfg.MaxUploadBytes),
		Uploads:   api.NewUploadHandler(objects, cfg.MaxUploadBytes),
		Billing:   api.NewBillingHandler(checkout, stripeBilling, reconciler),
	}
	router := api.SetupRoutes(handlers,
		auth.NewMiddleware(jwtVerifier).RequireAuth,
		ledger.Middleware(accounts, directory),
		cfg.CORSAllowedOrigins,
	)

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		logger.Log.Info("shutting down server")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Log.Error("server shutdown error", "error", err)
		}
	}()

	logger.Log.Info("server starting", "addr", cfg.ServerAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fatal("Server failed to start", err)
	}

	logger.Log.Info("server stopped")
}

func fatal(msg string, err error) {
	logger.Log.Error(msg, "error", err)
	os.Exit(1)
}
