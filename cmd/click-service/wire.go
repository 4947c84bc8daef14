//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package main

import (
	"context"

	"go-linktrack/internal/clicks/repository/clickhouse"
	"go-linktrack/internal/clicks/repository/postgres"
	"go-linktrack/internal/clicks/usecase"
	"go-linktrack/internal/conf"
	"go-linktrack/internal/folders"
	"go-linktrack/internal/infra/eventbus"
	"go-linktrack/internal/server"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

var clicksSet = wire.NewSet(
	providePostgres,
	provideClickHouse,
	provideCache,
	provideExtractor,
	provideBotDetector,
	provideNoTrack,
	provideEnricher,
	provideCommitter,
	provideTagFilterMode,
	provideDispatcher,
	provideScheduler,
	provideFanoutHandler,
	provideClicksHandler,
	postgres.NewLinkStore,
	wire.Bind(new(usecase.LinkStore), new(*postgres.LinkStore)),
	clickhouse.NewEventSink,
	wire.Bind(new(usecase.EventSink), new(*clickhouse.EventSink)),
	usecase.NewDedupGate,
	usecase.NewWebhookCache,
	usecase.NewFanout,
	usecase.NewRecorder,
)

var foldersSet = wire.NewSet(
	folders.NewPostgresStore,
	wire.Bind(new(folders.Store), new(*folders.PostgresStore)),
	folders.NewService,
	folders.NewHandler,
)

var metricsSet = wire.NewSet(
	provideRegistry,
	provideClickMetrics,
	wire.Bind(new(prometheus.Gatherer), new(*prometheus.Registry)),
)

// wireApp init kratos application.
func wireApp(context.Context, *conf.Config, *zap.Logger, log.Logger) (*kratos.App, func(), error) {
	panic(wire.Build(
		server.ProviderSet,
		eventbus.ProviderSet,
		clicksSet,
		foldersSet,
		metricsSet,
		provideRateLimiter,
		provideHealthDeps,
		newApp,
	))
}
