package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"plenario/internal/authz"
	"plenario/internal/notify"
	"plenario/internal/platform/config"
	"plenario/internal/platform/httpserver"
	"plenario/internal/platform/jwt"
	"plenario/internal/platform/logger"
	platformmetrics "plenario/internal/platform/metrics"
	"plenario/internal/platform/middleware"
	"plenario/internal/platform/postgres"
	platformredis "plenario/internal/platform/redis"
	publicationhandler "plenario/internal/publication/handler"
	publicationmetrics "plenario/internal/publication/metrics"
	publicationservice "plenario/internal/publication/service"
	publicationstore "plenario/internal/publication/store"
	resourcehandler "plenario/internal/resource/handler"
	resourcemetrics "plenario/internal/resource/metrics"
	resourceservice "plenario/internal/resource/service"
	resourcestore "plenario/internal/resource/store"
	sessionhandler "plenario/internal/session/handler"
	sessionservice "plenario/internal/session/service"
	sessionstore "plenario/internal/session/store"
	subjecthandler "plenario/internal/subject/handler"
	subjectmetrics "plenario/internal/subject/metrics"
	subjectservice "plenario/internal/subject/service"
	subjectstore "plenario/internal/subject/store"
	id "plenario/pkg/domain"
)

// resourceGuard adapts the resource service to the subject module's existence
// check so classification shares the resource error vocabulary.
type resourceGuard struct {
	resources *resourceservice.Service
}

func (g resourceGuard) Exists(ctx context.Context, resourceID id.ResourceID) error {
	_, err := g.resources.Get(ctx, resourceID)
	return err
}

// main wires storage, services and the HTTP surface. Business logic lives in
// the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	bootstrapCtx, cancelBootstrap := context.WithTimeout(context.Background(), 30*time.Second)
	if err := postgres.Bootstrap(bootstrapCtx, db); err != nil {
		cancelBootstrap()
		log.Error("failed to bootstrap schema", "error", err)
		os.Exit(1)
	}
	cancelBootstrap()

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	tx := newPostgresTx(db)
	notifier := notify.NewLogNotifier(log)
	// Identity comes from the JWT; every authenticated clerk may act until a
	// role directory is wired in.
	authorizer := authz.AllowAll{}

	resources := resourcestore.NewPostgres(db)
	resourceSvc := resourceservice.New(resources, authorizer,
		resourceservice.WithLogger(log),
		resourceservice.WithNotifier(notifier),
		resourceservice.WithMetrics(resourcemetrics.New()),
		resourceservice.WithTx(tx),
	)

	subjects := subjectstore.NewPostgres(db)
	subjectOpts := []subjectservice.Option{
		subjectservice.WithLogger(log),
		subjectservice.WithMetrics(subjectmetrics.New()),
		subjectservice.WithTx(tx),
	}
	if redisClient != nil {
		subjectOpts = append(subjectOpts,
			subjectservice.WithTreeCache(subjectservice.NewTreeCache(redisClient, cfg.SubjectTreeTTL)))
	}
	subjectSvc := subjectservice.New(subjects, resourceGuard{resources: resourceSvc}, authorizer, subjectOpts...)

	publications := publicationstore.NewPostgres(db)
	publicationSvc := publicationservice.New(publications, authorizer,
		publicationservice.WithLogger(log),
		publicationservice.WithMetrics(publicationmetrics.New()),
	)

	sessions := sessionstore.NewPostgres(db)
	sessionSvc := sessionservice.New(sessions, resources, publicationSvc, authorizer,
		sessionservice.WithLogger(log),
		sessionservice.WithNotifier(notifier),
		sessionservice.WithTx(tx),
	)

	jwtService := jwt.NewService(cfg.JWTSigningKey, cfg.JWTIssuer)
	httpMetrics := platformmetrics.New()

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RequestTime)
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))
	router.Use(middleware.Timeout(30 * time.Second))
	router.Use(middleware.ContentTypeJSON)
	router.Use(middleware.LatencyMiddleware(httpMetrics))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RequireAuth(jwtService, log))
		resourcehandler.New(resourceSvc, log).Register(r)
		subjecthandler.New(subjectSvc, log).Register(r)
		sessionhandler.New(sessionSvc, log).Register(r)
		publicationhandler.New(publicationSvc, log).Register(r)
	})

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("starting plenario", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("plenario stopped")
}
