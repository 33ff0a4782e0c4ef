package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"freight/cmd"
	"freight/internal/adapters/in/changefeed"
	freighthttp "freight/internal/adapters/in/http"
	"freight/internal/adapters/out/postgres"
	"freight/internal/adapters/out/postgres/migrations"
	"freight/internal/adapters/out/rabbitmq"
	"freight/internal/core/ports"
	"freight/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

const shutdownTimeout = 10 * time.Second

//go:generate swag init -g cmd/app/main.go -d ../../ -o ../../docs

// main starts the freight service.
//
//	@title						Freight API
//	@version					1.0
//	@description				Cargo assignment and delivery lifecycle for drivers.
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Driver JWT as "Bearer <token>"
func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load(".env")

	configs, err := cmd.LoadConfig(os.Getenv)
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: configs.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = run(ctx, configs, logger); err != nil {
		logger.Error("freight service stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configs cmd.Config, logger *slog.Logger) error {
	dsn := configs.Connection().DSN()

	gormDB, sqlDB, err := postgres.Open(ctx, dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()

	if err = migrations.Up(ctx, sqlDB); err != nil {
		return err
	}

	hub := changefeed.NewHub(changefeed.DefaultBuffer, logger)
	defer hub.Close()

	publisher, closePublisher, err := startChangeFeed(ctx, configs, dsn, hub, logger)
	if err != nil {
		return err
	}
	defer closePublisher()

	app, err := cmd.NewCompositionRoot(configs, gormDB, publisher, logger)
	if err != nil {
		return err
	}

	sessions := app.CreateSessionRegistry()

	jobManager := jobs.NewJobManager(hub, configs.RefreshSchedule, sessions, configs.SessionIdleTimeout, logger)
	if err = jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	server := app.CreateHTTPServer(sessions, hub)
	return startWebServer(ctx, server, configs, logger)
}

// startChangeFeed wires the configured backend into the hub and returns the
// publisher the unit of work announces commits to.
func startChangeFeed(
	ctx context.Context,
	configs cmd.Config,
	dsn string,
	hub *changefeed.Hub,
	logger *slog.Logger,
) (ports.ChangePublisher, func(), error) {
	switch configs.ChangeFeed {
	case cmd.ChangeFeedPostgres:
		listener := changefeed.NewPostgresListener(dsn, hub, logger)
		go func() {
			if err := listener.Run(ctx); err != nil {
				logger.Error("postgres change listener failed", "error", err)
			}
		}()
		// Local sessions hear about their own commits without the database round trip.
		return hub, func() {}, nil

	case cmd.ChangeFeedRabbitMQ:
		publisher, err := rabbitmq.NewPublisher(configs.RabbitMQURL, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("connect rabbitmq publisher: %w", err)
		}
		consumer := changefeed.NewRabbitConsumer(configs.RabbitMQURL, hub, logger)
		go func() {
			if runErr := consumer.Run(ctx); runErr != nil {
				logger.Error("rabbitmq change consumer failed", "error", runErr)
			}
		}()
		return publisher, func() { _ = publisher.Close() }, nil

	default:
		return hub, func() {}, nil
	}
}

func startWebServer(ctx context.Context, server *freighthttp.Server, configs cmd.Config, logger *slog.Logger) error {
	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(gommonLevel(configs.LogLevel))
	e.Use(middleware.Recover())
	server.Register(e, []byte(configs.JWTSecret))

	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	logger.Info("freight service started", "port", configs.HTTPPort, "change_feed", configs.ChangeFeed)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func gommonLevel(level slog.Level) log.Lvl {
	switch {
	case level <= slog.LevelDebug:
		return log.DEBUG
	case level <= slog.LevelInfo:
		return log.INFO
	case level <= slog.LevelWarn:
		return log.WARN
	default:
		return log.ERROR
	}
}
