package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"

	appService "certform/internal/application/service"
	appStore "certform/internal/application/store"
	"certform/internal/audit"
	"certform/internal/casedata"
	"certform/internal/form/adapters"
	formHandler "certform/internal/form/handler"
	"certform/internal/form/mapfields"
	"certform/internal/form/merge"
	formMetrics "certform/internal/form/metrics"
	"certform/internal/form/pipeline"
	"certform/internal/form/validate"
	httpapi "certform/internal/http"
	"certform/internal/platform/config"
	"certform/internal/platform/httpserver"
	"certform/internal/platform/logger"
	platformMetrics "certform/internal/platform/metrics"
	platformRedis "certform/internal/platform/redis"
	"certform/internal/refdata"
	templateService "certform/internal/template/service"
	templateStore "certform/internal/template/store"
	"certform/pkg/platform/middleware/auth"
)

// main wires dependencies and owns the server lifecycle. Business logic lives
// in the internal services; everything here is assembly.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage. Postgres and Redis are optional; in-memory fallbacks keep
	// local development dependency-free.
	var (
		templates    templateStore.Store = templateStore.NewInMemory()
		applications appStore.Store      = appStore.NewInMemory()
		auditStore   audit.Store         = audit.NewInMemoryStore()
	)
	if cfg.PostgresURL != "" {
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			log.Error("connecting to postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		auditDB, err := sql.Open("postgres", cfg.PostgresURL)
		if err != nil {
			log.Error("opening audit database", "error", err)
			os.Exit(1)
		}
		defer auditDB.Close()

		templates = templateStore.NewPostgres(pool)
		applications = appStore.NewPostgres(pool)
		auditStore = audit.NewPostgresStore(auditDB)
	}

	redisClient, err := platformRedis.New(ctx, cfg.Redis)
	if err != nil {
		log.Error("connecting to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		templates = templateStore.NewCached(templates, redisClient.Client, log)
	}

	// Audit trail: buffered off the request path, always persisted,
	// optionally fanned out to Kafka.
	publisherOpts := []audit.PublisherOption{
		audit.WithLogger(log),
		audit.WithBuffer(256),
	}
	if len(cfg.KafkaBrokers) > 0 {
		sink, err := audit.NewKafkaSink(cfg.KafkaBrokers)
		if err != nil {
			log.Error("connecting to kafka", "error", err)
			os.Exit(1)
		}
		defer sink.Close()
		if err := sink.EnsureTopic(ctx, 3); err != nil {
			log.Error("ensuring audit topic", "error", err)
			os.Exit(1)
		}
		publisherOpts = append(publisherOpts, audit.WithSink(sink))
	}
	auditor := audit.NewPublisher(auditStore, publisherOpts...)
	auditWorker, err := auditor.Worker()
	if err != nil {
		log.Error("starting audit worker", "error", err)
		os.Exit(1)
	}
	auditDone := make(chan struct{})
	go func() {
		defer close(auditDone)
		if err := auditWorker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("audit worker stopped", "error", err)
		}
	}()

	// Domain services and the form pipeline.
	templateSvc := templateService.New(templates, templateService.WithLogger(log))
	applicationSvc := appService.New(applications, appService.WithLogger(log))
	countries := refdata.NewDirectory(refdata.DefaultCountries())
	caseData := casedata.NewInMemory()

	templateDir := adapters.NewTemplateAdapter(templateSvc)
	p := pipeline.New(
		merge.New(templateDir, templateDir, merge.WithLogger(log)),
		validate.New(validate.WithLogger(log)),
		mapfields.New(mapfields.WithLogger(log)),
		adapters.NewApplicationAdapter(applicationSvc),
		adapters.NewCountryAdapter(countries),
		adapters.NewCaseDataAdapter(caseData),
		pipeline.WithLogger(log),
		pipeline.WithMetrics(formMetrics.New()),
		pipeline.WithAuditor(auditor),
	)

	handler := formHandler.New(applicationSvc, p, auditor, log)
	router := httpapi.NewRouter(handler, auth.NewVerifier(cfg.JWTSigningKey), platformMetrics.New(), log)
	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("starting certform", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	// The worker flushes its queue once ctx is cancelled; wait so buffered
	// audit events reach the store before the process exits.
	<-auditDone
}
