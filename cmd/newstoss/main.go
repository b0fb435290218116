package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/parkstar12/newstoss/internal/api"
	"github.com/parkstar12/newstoss/internal/config"
	"github.com/parkstar12/newstoss/internal/db"
	"github.com/parkstar12/newstoss/internal/kisrequest"
	"github.com/parkstar12/newstoss/internal/marketdata"
	"github.com/parkstar12/newstoss/internal/repository"
	"github.com/parkstar12/newstoss/pkg/httpserver"
	"github.com/parkstar12/newstoss/pkg/kis"
	"github.com/parkstar12/newstoss/pkg/logger"
	"github.com/parkstar12/newstoss/pkg/pg"
	"github.com/parkstar12/newstoss/pkg/redis"
	"github.com/parkstar12/newstoss/pkg/stream"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", logger.Error(err))
		os.Exit(1)
	}

	log := logger.New(
		logger.WithEnvironment(cfg.App.Env, cfg.App.Service),
		logger.WithLevelName(cfg.App.LogLevel),
		logger.WithContextExtractors(requestID),
	)
	logger.SetAsDefault(log)

	if err := run(ctx, cfg, log); err != nil {
		log.Error("service stopped with error", logger.Error(err))
		os.Exit(1)
	}
	log.Info("service stopped")
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	rdb, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer func() { _ = rdb.Close() }()

	pool, err := pg.Connect(ctx, cfg.PG)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, db.Migrations, db.MigrationsDir, cfg.PG, log.With(logger.Component("migrate"))); err != nil {
		return err
	}

	kisClient, err := kis.New(cfg.KIS, kis.WithLogger(log))
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := stream.NewMetrics(reg)

	store := stream.NewRedisStore(rdb)

	gate, err := stream.NewGate(store, cfg.Stream.GateOptions()...)
	if err != nil {
		return err
	}
	producer, err := stream.NewProducer(store, cfg.Stream.Stream)
	if err != nil {
		return err
	}
	publisher, err := kisrequest.NewPublisher(gate, producer, kisrequest.WithPublisherLogger(log))
	if err != nil {
		return err
	}

	quotes := marketdata.NewKIS(kisClient)
	router, err := kisrequest.NewRouter(quotes, repository.NewInstrumentRepository(pool), quotes,
		kisrequest.WithRouterLogger(log))
	if err != nil {
		return err
	}

	consumer, err := stream.NewConsumer(store, router, cfg.Stream.Stream, cfg.Stream.Group,
		append(cfg.Stream.ConsumerOptions(),
			stream.WithConsumerLogger(log),
			stream.WithConsumerMetrics(metrics),
		)...)
	if err != nil {
		return err
	}
	sweeper, err := stream.NewSweeper(store, cfg.Stream.Stream,
		append(cfg.Stream.SweeperOptions(),
			stream.WithSweeperLogger(log),
			stream.WithSweeperMetrics(metrics),
		)...)
	if err != nil {
		return err
	}

	handler := api.NewRouter(publisher,
		api.WithLogger(log),
		api.WithMetrics(reg),
		api.WithReadinessChecks(
			httpserver.Check{Name: "redis", Fn: redis.Healthcheck(rdb)},
			httpserver.Check{Name: "postgres", Fn: pg.Healthcheck(pool)},
		),
	)
	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))

	log.InfoContext(ctx, "starting pipeline",
		logger.Stream(cfg.Stream.Stream),
		logger.Group(cfg.Stream.Group),
		logger.Consumer(consumer.Name()))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(consumer.Run(gctx))
	g.Go(sweeper.Run(gctx))
	g.Go(func() error { return srv.Run(gctx, handler) })

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func requestID(ctx context.Context) (slog.Attr, bool) {
	id := middleware.GetReqID(ctx)
	if id == "" {
		return slog.Attr{}, false
	}
	return slog.String("request_id", id), true
}
