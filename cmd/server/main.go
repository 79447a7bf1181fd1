package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"fraudgate/internal/aggregates"
	"fraudgate/internal/audit"
	auditmetrics "fraudgate/internal/audit/metrics"
	"fraudgate/internal/commandlog"
	commandlogmetrics "fraudgate/internal/commandlog/metrics"
	"fraudgate/internal/evaluation"
	"fraudgate/internal/evaluation/lua"
	evaluationmetrics "fraudgate/internal/evaluation/metrics"
	"fraudgate/internal/geo"
	"fraudgate/internal/inspector"
	inspectorhandler "fraudgate/internal/inspector/handler"
	inspectormetrics "fraudgate/internal/inspector/metrics"
	jwttoken "fraudgate/internal/jwt_token"
	"fraudgate/internal/lists"
	liststore "fraudgate/internal/lists/store"
	"fraudgate/internal/platform/config"
	"fraudgate/internal/platform/httpserver"
	"fraudgate/internal/platform/logger"
	httpmetrics "fraudgate/internal/platform/metrics"
	"fraudgate/internal/platform/otel"
	"fraudgate/internal/platform/postgres"
	"fraudgate/internal/platform/redis"
	"fraudgate/internal/registry"
	registrymetrics "fraudgate/internal/registry/metrics"
	"fraudgate/internal/resolver"
	httptransport "fraudgate/internal/transport/http"
	"fraudgate/internal/verdict"
	verdictmetrics "fraudgate/internal/verdict/metrics"
	recency "fraudgate/internal/verdict/store"
	"fraudgate/pkg/platform/circuit"
)

// main wires high-level dependencies and keeps the process lifecycle small.
// Business logic lives in internal packages.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fraudgate: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	log := logger.New(cfg.Log)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Setup(ctx, cfg.Otel)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	// Registry and the command log that feeds it.
	reg := registry.New(registry.WithLogger(log), registry.WithMetrics(registrymetrics.New()))
	runner, err := commandlog.NewRunner(cfg.Kafka, reg, log, commandlogmetrics.New())
	if err != nil {
		return err
	}
	defer runner.Close()

	// Optional infrastructure.
	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}
	db, err := postgres.Open(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	sources, err := buildSources(cfg, log, db, redisClient)
	if err != nil {
		return err
	}

	// Request path.
	adapter, err := evaluation.NewAdapter(lua.New(),
		evaluation.WithLogger(log),
		evaluation.WithMetrics(evaluationmetrics.New()),
	)
	if err != nil {
		return err
	}
	var store verdict.RecencyStore = recency.NewMemoryStore(cfg.Inspector.RecencyCapacity)
	if redisClient != nil {
		store = recency.NewRedisStore(redisClient.Client)
	}
	aggregator := verdict.NewAggregator(
		verdict.WithEscalator(verdict.NewRecencyEscalator(store, cfg.Inspector.EscalationWindow, cfg.Inspector.EscalationThreshold)),
		verdict.WithLogger(log),
		verdict.WithMetrics(verdictmetrics.New()),
	)
	inspectorOpts := []inspector.Option{
		inspector.WithSources(sources),
		inspector.WithTimeouts(cfg.Inspector.RequestTimeout, cfg.Inspector.CallTimeout),
		inspector.WithLogger(log),
		inspector.WithMetrics(inspectormetrics.New()),
	}
	var publisher *audit.Publisher
	if cfg.Audit.Enabled {
		sink, err := audit.NewKafkaSink(cfg.Kafka, cfg.Audit.Topic)
		if err != nil {
			return err
		}
		defer sink.Close()
		sampler := audit.NewSampler(1)
		sampler.SetRate(string(verdict.RiskLow), cfg.Audit.LowSampleRate)
		publisher, err = audit.NewPublisher(sink,
			audit.WithBufferSize(cfg.Audit.BufferSize),
			audit.WithBatchSize(cfg.Audit.BatchSize),
			audit.WithFlushInterval(cfg.Audit.FlushInterval),
			audit.WithSampler(sampler),
			audit.WithBreaker(circuit.New("audit")),
			audit.WithLogger(log),
			audit.WithMetrics(auditmetrics.New()),
		)
		if err != nil {
			return err
		}
		inspectorOpts = append(inspectorOpts, inspector.WithAuditor(publisher))
	}
	svc := inspector.New(resolver.New(reg), adapter, aggregator, inspectorOpts...)

	deps := httptransport.Deps{
		Logger:  log,
		API:     inspectorhandler.New(svc, reg, log),
		Ready:   runner.Ready,
		Health:  map[string]httptransport.HealthCheck{},
		Metrics: httpmetrics.New(),
	}
	if cfg.Auth.SigningKey != "" {
		deps.Validator = jwttoken.NewValidator(jwttoken.NewJWTService(cfg.Auth.SigningKey, cfg.Auth.Audience))
	} else {
		log.Warn("AUTH_SIGNING_KEY is empty, the inspector API is unauthenticated")
	}
	if redisClient != nil {
		deps.Health["redis"] = redisClient.Health
	}
	if db != nil {
		deps.Health["postgres"] = db.PingContext
	}
	srv := httpserver.New(ctx, cfg.Server, httptransport.NewRouter(deps), cfg.Inspector.RequestTimeout, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return runner.Run(gctx)
	})
	if publisher != nil {
		g.Go(func() error {
			return publisher.Run(gctx)
		})
	}
	g.Go(func() error {
		log.Info("starting fraudgate", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("fraudgate stopped")
	return nil
}

// buildSources picks the feature sources rules may call. Without Postgres
// the aggregate history is in-memory and list lookups are unavailable.
func buildSources(cfg config.Config, log *slog.Logger, db *sql.DB, redisClient *redis.Client) (evaluation.Sources, error) {
	var src evaluation.Sources

	if db != nil {
		src.Aggregates = aggregates.NewPostgres(db)
		checker, err := lists.New(liststore.NewPostgres(db),
			lists.WithLogger(log),
			lists.WithBreaker(circuit.New("lists")),
		)
		if err != nil {
			return src, err
		}
		src.Lists = checker
	} else {
		log.Warn("POSTGRES_DSN is empty, using in-memory aggregates and no list service")
		src.Aggregates = aggregates.NewMemory()
	}

	if cfg.Geo.URL != "" {
		client, err := geo.NewHTTPClient(cfg.Geo.URL,
			geo.WithLogger(log),
			geo.WithBreaker(circuit.New("geo")),
		)
		if err != nil {
			return src, err
		}
		var countries geo.Resolver = client
		if redisClient != nil {
			countries = geo.NewRedisCache(client, redisClient.Client, cfg.Geo.CacheTTL, log)
		}
		src.Geo = countries
	}
	return src, nil
}
