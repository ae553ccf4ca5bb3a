package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"kustodia/internal/audit"
	"kustodia/internal/audit/kafka"
	"kustodia/internal/delegation"
	"kustodia/internal/gateway"
	gwmetrics "kustodia/internal/gateway/metrics"
	"kustodia/internal/identity"
	"kustodia/internal/jwtauth"
	"kustodia/internal/platform/config"
	"kustodia/internal/platform/httpserver"
	"kustodia/internal/platform/logger"
	"kustodia/internal/platform/metrics"
	"kustodia/internal/platform/postgres"
	"kustodia/internal/platform/redis"
	"kustodia/internal/relay"
	httptransport "kustodia/internal/transport/http"
	"kustodia/pkg/domain"
	txcontext "kustodia/pkg/platform/tx"
)

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	owner, err := domain.ParseAddress(cfg.Auth.OwnerAddress)
	if err != nil {
		return errors.New("KUSTODIA_OWNER_ADDRESS must be a valid address")
	}
	platform, err := domain.ParseAddress(cfg.Auth.PlatformAddress)
	if err != nil {
		return errors.New("KUSTODIA_PLATFORM_ADDRESS must be a valid address")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Storage: postgres when configured, in-memory otherwise.
	var (
		identityStore   identity.Store
		delegationStore delegation.Store
		auditStore      audit.Store
		nonceStore      relay.NonceStore
		runner          txcontext.Runner = txcontext.PassthroughRunner{}
		health                           = map[string]httptransport.HealthChecker{}
	)
	if cfg.Postgres.URL != "" {
		db, err := postgres.Open(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			return err
		}
		identityStore = identity.NewPostgres(db)
		delegationStore = delegation.NewPostgres(db)
		auditStore = audit.NewPostgresStore(db)
		nonceStore = relay.NewPostgresNonceStore(db)
		runner = txcontext.SQLRunner{DB: db}
		health["postgres"] = pingChecker{db.PingContext}
		log.Info("using postgres storage")
	} else {
		identityStore = identity.NewInMemory()
		delegationStore = delegation.NewInMemory()
		auditStore = audit.NewInMemoryStore()
		nonceStore = relay.NewInMemoryNonceStore()
		log.Info("using in-memory storage")
	}

	// Redis takes over nonce tracking when available; nonce atomicity then
	// comes from its compare-and-increment script rather than the SQL tx.
	if cfg.Redis.URL != "" {
		redisClient, err := redis.New(ctx, cfg.Redis.URL)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		nonceStore = relay.NewRedisNonceStore(redisClient.Client)
		health["redis"] = pingChecker{func(ctx context.Context) error { return redisClient.Health(ctx) }}
		log.Info("using redis nonce store")
	}

	identities := identity.NewService(identityStore)
	delegations := delegation.NewService(identities, delegationStore, runner)

	auditor := audit.NewPublisher(1024, log)
	var sink audit.Sink
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaSink, err := kafka.NewSink(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return err
		}
		defer kafkaSink.Close()
		sink = kafkaSink
		log.Info("exporting audit trail to kafka", "topic", cfg.Kafka.Topic)
	}
	auditWorker := audit.NewWorker(auditStore, sink, auditor.Inbox(), log)

	gw := gateway.NewService(owner, platform, identities, delegations, auditor, gwmetrics.New(registry), log)
	dispatcher := relay.NewDispatcher(relay.Domain{
		Name:       cfg.Relay.DomainName,
		Version:    cfg.Relay.DomainVersion,
		NetworkID:  cfg.Relay.NetworkID,
		InstanceID: cfg.Relay.InstanceID,
	}, nonceStore, gw, runner, log)

	tokens := jwtauth.NewService(cfg.Auth.JWTSigningKey, "kustodia", "kustodia-api")

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Gateway:      gw,
		Dispatcher:   dispatcher,
		PlatformOnly: cfg.Relay.PlatformOnly,
		Validator:    tokens,
		Registry:     registry,
		HTTPMetrics:  metrics.NewHTTP(registry),
		Logger:       log,
		Timeout:      30 * time.Second,
		Health:       health,
	})

	srv := httpserver.New(cfg.Server.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := auditWorker.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		log.Info("starting kustodia server", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

type pingChecker struct {
	ping func(ctx context.Context) error
}

func (c pingChecker) Health(ctx context.Context) error { return c.ping(ctx) }
