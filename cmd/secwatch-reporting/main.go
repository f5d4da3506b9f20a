package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"secwatch-reporting/internal/cache"
	"secwatch-reporting/internal/config"
	"secwatch-reporting/internal/database"
	httpapi "secwatch-reporting/internal/http"
	"secwatch-reporting/internal/ingest"
	"secwatch-reporting/internal/logger"
	"secwatch-reporting/internal/mqtt"
	"secwatch-reporting/internal/report"
	"secwatch-reporting/internal/repository"
	"secwatch-reporting/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "secwatch-reporting")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting secwatch-reporting service")

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var reportCache *cache.ReportCache
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warn("Redis unavailable, report caching disabled", zap.Error(err))
	} else {
		kv := cache.NewRedisKVStore(redisClient)
		reportCache = cache.NewReportCache(kv, cfg.Reporting.CacheTTL, log)
	}

	alertsRepo := repository.NewPostgresAlertsRepository(db, log)
	incidentsRepo := repository.NewPostgresIncidentsRepository(db, log)
	auditLogsRepo := repository.NewPostgresAuditLogsRepository(db, log)
	devicesRepo := repository.NewPostgresDevicesRepository(db, log)
	integrationsRepo := repository.NewPostgresIntegrationsRepository(db, log)
	reportsRepo := repository.NewPostgresReportsRepository(db, log)

	var narrative report.NarrativeProvider
	if cfg.Insight.Enabled() {
		narrative = service.NewInsightClient(&cfg.Insight, log)
		log.Info("Insight narrative client enabled", zap.String("model", cfg.Insight.Model))
	}

	windows := report.Windows{
		SecurityDays:    cfg.Reporting.SecurityWindowDays,
		ComplianceDays:  cfg.Reporting.ComplianceWindowDays,
		IncidentDays:    cfg.Reporting.IncidentWindowDays,
		DeviceDays:      cfg.Reporting.DeviceWindowDays,
		IntegrationDays: cfg.Reporting.IntegrationWindowDays,
		AuditLogLimit:   cfg.Reporting.AuditLogLimit,
	}

	generator := report.NewGenerator(
		alertsRepo,
		incidentsRepo,
		auditLogsRepo,
		devicesRepo,
		integrationsRepo,
		narrative,
		windows,
		log,
	)

	reportService := service.NewReportService(generator, reportCache, reportsRepo, log)

	var mqttClient *mqtt.Client
	if cfg.Ingest.Enabled {
		mqttClient, err = mqtt.NewClient(&cfg.MQTT, log)
		if err != nil {
			log.Fatal("Failed to connect to MQTT broker", zap.Error(err))
		}
		defer mqttClient.Disconnect()

		consumer := ingest.NewMetricsConsumer(devicesRepo, log)
		if err := consumer.Start(ctx, mqttClient, cfg.MQTT.Topic, cfg.MQTT.QoS); err != nil {
			log.Fatal("Failed to start metrics consumer", zap.Error(err))
		}
		log.Info("Metric ingest enabled", zap.String("topic", cfg.MQTT.Topic))
	}

	router := httpapi.NewRouter(log)
	router.RegisterReportRoutes(httpapi.NewReportHandler(reportService, log))

	server := service.NewServer(cfg.HTTP.Addr, router, log)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()

	select {
	case sig := <-sigChan:
		log.Info("Received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-errChan:
		log.Error("HTTP server error", zap.Error(err))
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping HTTP server", zap.Error(err))
	}

	log.Info("Service stopped")
}
