package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bibbank/scam-service/internal/application/usecase"
	"github.com/bibbank/scam-service/internal/domain/port"
	"github.com/bibbank/scam-service/internal/domain/service"
	"github.com/bibbank/scam-service/internal/infrastructure/cache"
	"github.com/bibbank/scam-service/internal/infrastructure/config"
	"github.com/bibbank/scam-service/internal/infrastructure/dataset"
	"github.com/bibbank/scam-service/internal/infrastructure/kafka"
	"github.com/bibbank/scam-service/internal/infrastructure/llm"
	"github.com/bibbank/scam-service/internal/infrastructure/metrics"
	"github.com/bibbank/scam-service/internal/infrastructure/ml"
	"github.com/bibbank/scam-service/internal/infrastructure/ocr"
	"github.com/bibbank/scam-service/internal/infrastructure/postgres"
	"github.com/bibbank/scam-service/internal/infrastructure/reputation"
	grpcpresentation "github.com/bibbank/scam-service/internal/presentation/grpc"
	"github.com/bibbank/scam-service/internal/presentation/rest"
	pkgkafka "github.com/bibbank/scam-service/pkg/kafka"
	"github.com/bibbank/scam-service/pkg/observability"
	pkgpostgres "github.com/bibbank/scam-service/pkg/postgres"
)

const serviceName = "scam-service"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: serviceName,
	})

	logger.Info("starting scam-service",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
	)

	if cfg.TracingEnabled() {
		shutdownTracer, err := observability.InitTracer(ctx, observability.TracingConfig{
			ServiceName: serviceName,
			Endpoint:    cfg.OTLPEndpoint,
			Insecure:    true,
			SampleRatio: cfg.TraceSampleRate,
		})
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		} else {
			defer func() { _ = shutdownTracer(context.Background()) }()
		}
	}

	// Metrics.
	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: serviceName})
	if err != nil {
		logger.Error("failed to initialize metrics", "error", err)
		os.Exit(1)
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }()

	recorder, err := metrics.NewRecorder(meterProvider.Meter(serviceName))
	if err != nil {
		logger.Error("failed to create metric instruments", "error", err)
		os.Exit(1)
	}

	// Reputation cache.
	var store cache.Store
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, reputation lookups will bypass the cache until it recovers", "error", err)
		}
		store = rdb
	}

	providers, closeProviders := buildProviders(cfg, store, logger)
	defer closeProviders()

	var narrator port.NarrativeGenerator
	if cfg.OpenAIEnabled() {
		narrator = llm.NewNarrativeGenerator(llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.ProviderTimeout))
	}

	var extractor port.TextExtractor
	if cfg.VisionEnabled() {
		extractor = ocr.NewVisionClient(cfg.VisionAPIKey, cfg.VisionBaseURL, cfg.ProviderTimeout)
	}

	// Recording sinks.
	var sinks usecase.Sinks

	if cfg.DatabaseURL != "" {
		version, err := pkgpostgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir)
		if err != nil {
			logger.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		logger.Info("database schema up to date", "version", version)

		dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
		pool, err := pkgpostgres.NewPool(dbCtx, pkgpostgres.Config{URL: cfg.DatabaseURL})
		dbCancel()
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		logger.Info("connected to database")

		sinks.Repository = postgres.NewAssessmentRepository(pool)
	}

	if len(cfg.KafkaBrokers) > 0 {
		producer := pkgkafka.NewProducer(pkgkafka.Config{ClientID: serviceName, Brokers: cfg.KafkaBrokers})
		defer producer.Close()
		sinks.Publisher = kafka.NewPublisher(producer, cfg.KafkaTopic, logger)
	}

	if cfg.TrainingCSVPath != "" {
		sinks.Training = dataset.NewCSVSink(cfg.TrainingCSVPath)
	}

	// Use cases.
	collector := usecase.NewSignalCollector(providers, recorder, logger)
	analyzeMessageUC := usecase.NewAnalyzeMessage(
		service.NewEntityExtractor(),
		collector,
		service.NewFeatureProjector(),
		service.NewRiskFusionEngine(logger),
		service.NewEvidenceComposer(narrator, recorder, logger),
		sinks,
		recorder,
		logger,
	)
	analyzeImageUC := usecase.NewAnalyzeImage(extractor, analyzeMessageUC, logger)
	getAssessmentUC := usecase.NewGetAssessment(sinks.Repository)

	configured := collector.Configured()
	configured["narrative"] = narrator != nil
	configured["ocr"] = extractor != nil
	configured["cache"] = store != nil
	configured["store"] = sinks.Repository != nil
	configured["events"] = sinks.Publisher != nil
	configured["training"] = sinks.Training != nil

	// gRPC server.
	grpcHandler := grpcpresentation.NewScamServiceHandler(analyzeMessageUC, getAssessmentUC, logger)
	grpcServer := grpcpresentation.NewServer(grpcHandler, cfg.GRPCAddress(), grpcpresentation.ServerOptions{
		TLSCertFile: cfg.GRPCTLSCertFile,
		TLSKeyFile:  cfg.GRPCTLSKeyFile,
		Reflection:  cfg.GRPCReflection,
	}, logger)

	// HTTP server.
	scamHandler := rest.NewScamHandler(analyzeMessageUC, analyzeImageUC, getAssessmentUC, cfg.MaxUploadBytes, logger)
	healthHandler := rest.NewHealthHandler(configured, logger)

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddress(),
		Handler:      rest.NewRouter(scamHandler, healthHandler, metricsHandler, logger),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Start(); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "address", cfg.HTTPAddress())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	logger.Info("scam-service started",
		"grpc_address", cfg.GRPCAddress(),
		"http_address", cfg.HTTPAddress(),
		"environment", cfg.Environment,
		"configured", configured,
	)

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	logger.Info("shutting down scam-service")

	grpcServer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("scam-service stopped")
}

// buildProviders wires every configured capability provider. Providers left
// nil are reported as not configured by the signal collector.
func buildProviders(cfg *config.Config, store cache.Store, logger *slog.Logger) (usecase.Providers, func()) {
	var providers usecase.Providers
	closeFn := func() {}

	if cfg.SafeBrowsingEnabled() {
		var urls port.URLReputationProvider = reputation.NewSafeBrowsingClient(
			cfg.SafeBrowsingAPIKey, cfg.SafeBrowsingBaseURL, cfg.ProviderTimeout)
		if store != nil {
			urls = cache.NewURLReputationCache(urls, store, cfg.ReputationCacheTTL, logger)
		}
		providers.URL = urls
	}

	if cfg.TwilioEnabled() {
		var phones port.PhoneReputationProvider = reputation.NewTwilioLookupClient(
			cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioLookupBaseURL, cfg.PhoneDefaultRegion, cfg.ProviderTimeout)
		if store != nil {
			phones = cache.NewPhoneReputationCache(phones, store, cfg.ReputationCacheTTL, logger)
		}
		providers.Phone = phones
	}

	if cfg.OpenAIEnabled() {
		providers.Semantic = llm.NewSemanticClassifier(
			llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.ProviderTimeout))
	}

	// An in-process model bundle takes precedence over the model server.
	if cfg.ONNXModelDir != "" {
		classifier, err := ml.LoadONNXClassifier(cfg.ONNXModelDir, cfg.ONNXRuntimeLibraryPath)
		if err != nil {
			logger.Error("failed to load model bundle", "dir", cfg.ONNXModelDir, "error", err)
		} else {
			logger.Info("statistical classifier loaded", "dir", cfg.ONNXModelDir)
			providers.Statistical = classifier
			closeFn = func() {
				if err := classifier.Close(); err != nil {
					logger.Warn("failed to release model bundle", "error", err)
				}
			}
		}
	}
	if providers.Statistical == nil && cfg.ModelServerURL != "" {
		providers.Statistical = ml.NewHTTPModelClient(cfg.ModelServerURL, cfg.ProviderTimeout)
	}

	return providers, closeFn
}
