package main

import (
	"context"
	"database/sql"
	"fmt"

	clickshttp "go-linktrack/internal/clicks/delivery/http"
	"go-linktrack/internal/clicks/delivery/jobs"
	"go-linktrack/internal/clicks/metrics"
	"go-linktrack/internal/clicks/repository/clickhouse"
	"go-linktrack/internal/clicks/repository/memory"
	"go-linktrack/internal/clicks/repository/postgres"
	"go-linktrack/internal/clicks/repository/redis"
	"go-linktrack/internal/clicks/requestctx"
	"go-linktrack/internal/clicks/usecase"
	"go-linktrack/internal/clicks/webhook"
	"go-linktrack/internal/conf"
	"go-linktrack/internal/infra/database"
	"go-linktrack/internal/infra/eventbus"
	"go-linktrack/internal/server"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func providePostgres(ctx context.Context, c *conf.Config, logger *zap.Logger) (*sqlx.DB, func(), error) {
	db, err := database.Open(ctx, c.PostgresURL)
	if err != nil {
		return nil, nil, err
	}
	if err := database.RunMigrations(db); err != nil {
		db.Close()
		return nil, nil, err
	}

	cleanup := func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close postgres", zap.Error(err))
		}
	}
	return db, cleanup, nil
}

func provideClickHouse(ctx context.Context, c *conf.Config, logger *zap.Logger) (*sql.DB, func(), error) {
	db, err := clickhouse.Open(ctx, clickhouse.Options{
		Addr:     c.ClickHouseAddr,
		Database: c.ClickHouseDB,
		Username: c.ClickHouseUser,
		Password: c.ClickHousePassword,
	})
	if err != nil {
		return nil, nil, err
	}
	if err := clickhouse.RunMigrations(db); err != nil {
		db.Close()
		return nil, nil, err
	}

	cleanup := func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close clickhouse", zap.Error(err))
		}
	}
	return db, cleanup, nil
}

// provideCache uses Redis when REDIS_ADDR is set and the in-process cache otherwise.
func provideCache(ctx context.Context, c *conf.Config, logger *zap.Logger) (usecase.Cache, func(), error) {
	if c.RedisAddr == "" {
		logger.Warn("REDIS_ADDR not set, using in-process cache; dedup is per instance")
		cache, err := memory.NewCache(c.MemoryCacheSize)
		if err != nil {
			return nil, nil, err
		}
		return cache, cache.Close, nil
	}

	rdb, err := redis.NewClient(ctx, c.RedisAddr, c.RedisPassword)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := rdb.Close(); err != nil {
			logger.Error("failed to close redis", zap.Error(err))
		}
	}
	return redis.NewCache(rdb), cleanup, nil
}

func provideExtractor(c *conf.Config, logger *zap.Logger) (requestctx.RuntimeExtractor, func(), error) {
	if c.RuntimeMode == conf.RuntimeLocal {
		return requestctx.NewLocalhostExtractor(), func() {}, nil
	}

	var resolver *requestctx.GeoIPResolver
	if c.GeoIPDBPath != "" {
		var err error
		resolver, err = requestctx.NewGeoIPResolver(c.GeoIPDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open geoip database: %w", err)
		}
	} else {
		logger.Warn("GEOIP_DB_PATH not set, geo comes from edge headers only")
	}

	cleanup := func() {
		if resolver != nil {
			resolver.Close()
		}
	}
	return requestctx.NewHeaderGeoExtractor(resolver, c.EdgeRegion), cleanup, nil
}

func provideBotDetector() requestctx.BotDetector {
	return requestctx.DefaultBotDetector{}
}

func provideNoTrack(c *conf.Config) usecase.NoTrack {
	return usecase.NoTrack{Header: c.NoTrackHeader, Param: c.NoTrackParam}
}

func provideEnricher(c *conf.Config) *usecase.Enricher {
	return usecase.NewEnricher(requestctx.ControlParams(c.NoTrackParam)...)
}

func provideCommitter(
	sink usecase.EventSink,
	cache usecase.Cache,
	store usecase.LinkStore,
	c *conf.Config,
	m *metrics.ClickMetrics,
	logger *zap.Logger,
) *usecase.Committer {
	return usecase.NewCommitter(sink, cache, store, c.DedupTTL, m, logger)
}

func provideTagFilterMode(c *conf.Config) (usecase.TagFilterMode, error) {
	return usecase.ParseTagFilterMode(c.TagFilterMode)
}

// provideDispatcher queues deliveries on SQS when WEBHOOK_QUEUE_URL is set and
// only logs them otherwise.
func provideDispatcher(ctx context.Context, c *conf.Config, logger *zap.Logger) (usecase.WebhookDispatcher, error) {
	if c.WebhookQueueURL == "" {
		return webhook.NewLogDispatcher(logger), nil
	}

	client, err := webhook.NewSQSClient(ctx, c.AWSRegion)
	if err != nil {
		return nil, err
	}
	return webhook.NewSQSDispatcher(client, c.WebhookQueueURL, logger), nil
}

func provideScheduler(bus *eventbus.EventBus) usecase.FanoutScheduler {
	return jobs.NewBusScheduler(bus)
}

func provideFanoutHandler(fanout *usecase.Fanout, c *conf.Config) *jobs.FanoutHandler {
	return jobs.NewFanoutHandler(fanout, c.FanoutTimeout)
}

func provideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func provideClickMetrics(reg *prometheus.Registry) *metrics.ClickMetrics {
	return metrics.NewClickMetrics(reg)
}

func provideRateLimiter(ctx context.Context, c *conf.Config) *server.RateLimiter {
	return server.NewRateLimiter(ctx, c.TrackRateLimit)
}

func provideClicksHandler(
	recorder *usecase.Recorder,
	store *postgres.LinkStore,
	c *conf.Config,
	logger *zap.Logger,
) *clickshttp.Handler {
	return clickshttp.NewHandler(recorder, store, c.RecordTimeout, logger,
		clickshttp.WithNotForwarded(requestctx.ControlParams(c.NoTrackParam)...),
	)
}

func provideHealthDeps(store *postgres.LinkStore, sink *clickhouse.EventSink, cache usecase.Cache) map[string]server.Pinger {
	deps := map[string]server.Pinger{
		"postgres":   store,
		"clickhouse": sink,
	}
	if p, ok := cache.(server.Pinger); ok {
		deps["redis"] = p
	}
	return deps
}
