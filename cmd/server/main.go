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

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"namegate/internal/jwtauth"
	"namegate/internal/naming"
	"namegate/internal/naming/events"
	"namegate/internal/naming/handler"
	"namegate/internal/naming/ledger"
	namingmetrics "namegate/internal/naming/metrics"
	"namegate/internal/naming/service"
	"namegate/internal/naming/store/commitment"
	"namegate/internal/naming/store/registration"
	"namegate/internal/naming/store/resolver"
	"namegate/internal/platform/config"
	"namegate/internal/platform/httpserver"
	"namegate/internal/platform/logger"
	platformmetrics "namegate/internal/platform/metrics"
	"namegate/internal/platform/postgres"
	"namegate/internal/platform/redis"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the naming packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Stores default to memory; PostgreSQL and Redis take over when
	// configured.
	var (
		commitments   service.CommitmentStore   = commitment.NewInMemoryStore()
		registrations service.RegistrationStore = registration.NewInMemoryStore()
		resolvers     service.ResolverStore     = resolver.NewInMemoryStore()
	)
	db, err := postgres.Open(cfg.PostgresDSN)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		commitments = commitment.NewPostgresStore(db)
		registrations = registration.NewPostgresStore(db)
		log.Info("using postgres-backed stores")
	}
	redisClient, err := redis.New(cfg.RedisURL)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		resolvers = resolver.NewRedisStore(redisClient.Client)
		log.Info("using redis-backed resolver store")
	}

	domainMetrics := namingmetrics.New()
	bus := events.NewBus(cfg.EventBuffer, log, events.WithDropCounter(domainMetrics.IncEventsDropped))
	var sink events.Sink = events.NewLogSink(log)
	if len(cfg.KafkaBrokers) > 0 {
		kafkaSink, err := events.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return err
		}
		defer kafkaSink.Close()
		sink = kafkaSink
		log.Info("publishing events to kafka", "topic", cfg.KafkaTopic)
	}
	worker := events.NewWorker(sink, bus.Inbox(), log)

	genesis := time.Now()
	if cfg.GenesisUnix > 0 {
		genesis = time.Unix(cfg.GenesisUnix, 0)
	}
	clock := naming.NewIntervalClock(genesis, cfg.BlockInterval)

	engine := service.New(
		cfg.Params,
		clock,
		ledger.NewMemory(ledger.WithFaucet(naming.Balance(cfg.DevFaucet))),
		commitments,
		registrations,
		resolvers,
		log,
		service.WithEvents(bus),
		service.WithMetrics(domainMetrics),
	)

	tokens := jwtauth.NewService(cfg.JWTSigningKey, "namegate", "namegate")
	h := handler.New(engine, log, platformmetrics.New(), tokens)

	router := chi.NewRouter()
	h.Register(router)
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := httpserver.New(cfg.Addr, router)

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return worker.Run(ctx)
	})
	group.Go(func() error {
		log.Info("starting namegate", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return group.Wait()
}
