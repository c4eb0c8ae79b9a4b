package httpserver_test

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/tenantcore/pkg/config"
	"github.com/dmitrymomot/tenantcore/pkg/environment"
	"github.com/dmitrymomot/tenantcore/pkg/httpserver"
	"github.com/dmitrymomot/tenantcore/pkg/logger"
	"github.com/dmitrymomot/tenantcore/pkg/mongo"
	"github.com/dmitrymomot/tenantcore/pkg/pg"
	"github.com/dmitrymomot/tenantcore/pkg/redis"
	"github.com/dmitrymomot/tenantcore/pkg/registry"
	"github.com/dmitrymomot/tenantcore/pkg/requestid"
	"github.com/dmitrymomot/tenantcore/pkg/tenantctx"
	"github.com/dmitrymomot/tenantcore/pkg/tenantmw"
)

// Example shows the full server composition: env-driven config, a
// production logger with tenant-aware context extractors, the tenant
// middleware chain and a readiness endpoint backed by the Postgres,
// MongoDB and Redis healthchecks.
func Example() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var httpCfg httpserver.Config
	var pgCfg pg.Config
	var mongoCfg mongo.Config
	var redisCfg redis.Config
	config.MustLoad(&httpCfg)
	config.MustLoad(&pgCfg)
	config.MustLoad(&mongoCfg)
	config.MustLoad(&redisCfg)

	log := logger.New(
		logger.WithProduction("tenantcore-api"),
		logger.WithContextExtractors(
			tenantctx.LoggerExtractor(),
			tenantctx.CorrelationLoggerExtractor(),
			environment.LoggerExtractor(),
		),
	)

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		log.ErrorContext(ctx, "postgres connection failed", logger.Error(err))
		os.Exit(1)
	}
	defer pool.Close()

	mongoClient, err := mongo.New(ctx, mongoCfg)
	if err != nil {
		log.ErrorContext(ctx, "mongodb connection failed", logger.Error(err))
		os.Exit(1)
	}
	defer mongoClient.Disconnect(ctx)

	redisClient, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		log.ErrorContext(ctx, "redis connection failed", logger.Error(err))
		os.Exit(1)
	}
	defer redisClient.Close()

	tenants := registry.New(registry.NewPostgresStore(pool))

	r := chi.NewRouter()
	r.Use(environment.Middleware(environment.Production))
	r.Use(requestid.Middleware)
	r.Use(tenantmw.Middleware(tenants,
		tenantmw.WithLogger(log),
		tenantmw.WithSkipPaths([]string{"/health"}),
	))

	r.Get("/health", httpserver.HealthCheckHandler(ctx, log,
		pg.Healthcheck(pool),
		mongo.Healthcheck(mongoClient),
		redis.Healthcheck(redisClient),
	))
	r.Get("/candidates", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))
	if err := srv.Run(ctx, r); err != nil {
		log.ErrorContext(ctx, "server stopped with error", logger.Error(err))
		os.Exit(1)
	}
}
