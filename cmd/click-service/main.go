package main

import (
	"context"
	"os"

	"go-linktrack/internal/clicks/delivery/jobs"
	"go-linktrack/internal/conf"
	"go-linktrack/internal/infra/eventbus"
	"go-linktrack/internal/infra/logging"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"
	"go.uber.org/zap"

	_ "go.uber.org/automaxprocs"
)

// go build -ldflags "-X main.Version=x.y.z"
var (
	// Name is the name of the compiled software.
	Name = "click-service"
	// Version is the version of the compiled software.
	Version string

	id, _ = os.Hostname()
)

func newApp(
	logger log.Logger,
	hs *http.Server,
	eventBus *eventbus.EventBus,
	router *eventbus.Router,
	fanoutHandler *jobs.FanoutHandler,
) *kratos.App {
	router.AddHandler(fanoutHandler)

	return kratos.New(
		kratos.ID(id),
		kratos.Name(Name),
		kratos.Version(Version),
		kratos.Metadata(map[string]string{}),
		kratos.Logger(logger),
		kratos.Server(hs),
		kratos.BeforeStart(func(ctx context.Context) error {
			// Start the event router in a goroutine
			go func() {
				if err := router.Run(ctx); err != nil {
					log.NewHelper(logger).Errorf("event router error: %v", err)
				}
			}()
			return nil
		}),
		kratos.BeforeStop(func(ctx context.Context) error {
			if err := router.Close(); err != nil {
				log.NewHelper(logger).Errorf("failed to close router: %v", err)
			}
			if err := eventBus.Close(); err != nil {
				log.NewHelper(logger).Errorf("failed to close event bus: %v", err)
			}
			return nil
		}),
	)
}

func main() {
	cfg, err := conf.Load()
	if err != nil {
		panic(err)
	}

	zapLogger, err := logging.New(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		panic(err)
	}
	defer zapLogger.Sync()

	zapLogger = zapLogger.With(
		zap.String("service.id", id),
		zap.String("service.name", Name),
		zap.String("service.version", Version),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, cleanup, err := wireApp(ctx, cfg, zapLogger, logging.NewKratosLogger(zapLogger))
	if err != nil {
		zapLogger.Fatal("failed to wire application", zap.Error(err))
	}
	defer cleanup()

	// start and wait for stop signal
	if err := app.Run(); err != nil {
		zapLogger.Error("application stopped with error", zap.Error(err))
	}
}
