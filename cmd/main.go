package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	glog "github.com/cloudwego/hertz/pkg/common/hlog"
	hertzadapter "github.com/hertz-contrib/logger/zerolog"
	hertztracing "github.com/hertz-contrib/obs-opentelemetry/tracing"
	"github.com/spf13/pflag"

	"smart-recruit/internal/api/handler"
	"smart-recruit/internal/api/router"
	"smart-recruit/internal/audit"
	"smart-recruit/internal/config"
	appLogger "smart-recruit/internal/logger"
	"smart-recruit/internal/processor"
	"smart-recruit/internal/ranker"
	"smart-recruit/internal/scorer"
	"smart-recruit/internal/similarity"
	"smart-recruit/internal/storage"
	"smart-recruit/internal/tracing"
)

var serviceName = "smart-recruit" //nolint:gochecknoglobals

func main() {
	var configPath string
	pflag.StringVarP(&configPath, "config", "c", "internal/config/config.yaml", "Path to config file")
	pflag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to load config")
	}

	initLogger(cfg)
	glog.Info("configuration loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Server.EnableTracing {
		shutdownTracer, tracerErr := tracing.InitTracer(ctx, serviceName, cfg.Server.OTLPEndpoint)
		if tracerErr != nil {
			glog.Fatalf("failed to initialize tracing: %v", tracerErr)
		}
		defer func() {
			flushCtx, cancelFlush := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancelFlush()
			if err := shutdownTracer(flushCtx); err != nil {
				glog.Warnf("failed to flush traces: %v", err)
			}
		}()
		glog.Info("tracing initialized")
	}

	storageManager, err := storage.NewStorage(ctx, cfg)
	if err != nil {
		glog.Fatalf("failed to initialize storage: %v", err)
	}
	defer storageManager.Close()
	glog.Info("storage initialized")

	cvProcessor, err := processor.NewProcessorFromConfig(ctx, cfg, storageManager)
	if err != nil {
		glog.Fatalf("failed to initialize CV processor: %v", err)
	}
	glog.Info("CV processor initialized")

	simEngine := similarity.NewEngine()
	factorScorer := scorer.New(cfg.Scoring, simEngine)
	candidateRanker := ranker.New(cfg.Ranking, factorScorer, simEngine)
	auditor := audit.New(cfg.Audit)

	resumeHandler := handler.NewResumeHandler(cfg, storageManager, cvProcessor)
	jobHandler := handler.NewJobHandler(cfg, storageManager)
	rankingHandler := handler.NewRankingHandler(cfg, storageManager, candidateRanker)
	analyticsHandler := handler.NewAnalyticsHandler(cfg, storageManager, auditor)

	stopConsumer, err := cvProcessor.StartConsuming(ctx)
	if err != nil {
		glog.Fatalf("failed to start upload consumer: %v", err)
	}
	glog.Info("upload consumer started")

	var h *server.Hertz
	if cfg.Server.EnableTracing {
		tracer, tracerCfg := hertztracing.NewServerTracer()
		h = server.New(
			tracer,
			server.WithHostPorts(cfg.Server.Address),
			server.WithHandleMethodNotAllowed(true),
		)
		h.Use(hertztracing.ServerMiddleware(tracerCfg))
	} else {
		h = server.New(
			server.WithHostPorts(cfg.Server.Address),
			server.WithHandleMethodNotAllowed(true),
		)
	}

	router.RegisterRoutes(h, cfg, resumeHandler, jobHandler, rankingHandler, analyticsHandler)
	glog.Info("routes registered")

	go func() {
		glog.Infof("HTTP server listening on %s", cfg.Server.Address)
		if err := h.Run(); err != nil {
			glog.Fatalf("HTTP server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	glog.Info("shutdown signal received")

	close(stopConsumer)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := h.Shutdown(shutdownCtx); err != nil {
		glog.Errorf("server shutdown failed: %v", err)
	}
	glog.Info("shutdown complete")
}

func initLogger(cfg *config.Config) {
	appLogger.Init(appLogger.Config{
		Level:        cfg.Logger.Level,
		Format:       cfg.Logger.Format,
		TimeFormat:   cfg.Logger.TimeFormat,
		ReportCaller: cfg.Logger.ReportCaller,
	})

	hertzCompatibleLogger := hertzadapter.From(appLogger.Logger)
	glog.SetLogger(hertzCompatibleLogger)
}
