package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "fourheat/docs"
	"fourheat/internal/config"
	"fourheat/internal/handlers"
	"fourheat/internal/logger"
	"fourheat/internal/metric"
	"fourheat/internal/protocol"
	"fourheat/internal/repository"
	"fourheat/internal/repository/db"
	"fourheat/internal/server"
	"fourheat/internal/service"
	"fourheat/internal/transport"
)

const (
	configDir       = "configs"
	shutdownTimeout = 10 * time.Second
	// headroom on top of a full refresh for the HTTP write deadline
	writeTimeoutSlack = 5 * time.Second
)

// @title                       4heat stove API
// @version                     1.0
// @description                 Polls a 4heat stove controller and relays commands to it.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load(configDir)
	if err != nil {
		logger.Get(logger.Options{}).Fatalw("error reading config", "err", err)
	}

	log := logger.Get(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	defer func() { _ = log.Sync() }()

	sqlDB, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err, "path", cfg.DB.Path)
	}
	defer closeDB(sqlDB, log)

	services, metrics, err := wire(cfg, sqlDB, log)
	if err != nil {
		log.Fatalw("failed to wire stove client", "err", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go services.Poller.Run(ctx, cfg.Stove.PollInterval)

	apiHandler := handlers.NewHandler(services, log, metrics.Handler(), cfg.HTTP.AllowedOrigins)
	srv := server.New(cfg.HTTP.Port, apiHandler.InitRoutes(),
		cfg.Socket.Timeout+protocol.OuterTimeoutSlack+writeTimeoutSlack)
	go func() {
		log.Infow("http_server_started", "addr", srv.Addr())
		if err := srv.Run(); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()

	waitForShutdown(cancel, srv, log)
}

// wire builds the stove client stack on top of the repositories.
func wire(cfg *config.Config, sqlDB *sql.DB, log *logger.Logger) (*service.Service, *metric.Metric, error) {
	mode, err := protocol.ParseMode(cfg.Stove.Mode)
	if err != nil {
		return nil, nil, err
	}
	client, err := transport.New(transport.Config{
		Host:       cfg.Stove.Host,
		Port:       cfg.Stove.Port,
		Timeout:    cfg.Socket.Timeout,
		BufferSize: cfg.Socket.Buffer,
	})
	if err != nil {
		return nil, nil, err
	}

	identity := service.DeviceIdentity{
		Host:    cfg.Stove.Host,
		Port:    cfg.Stove.Port,
		Mode:    mode,
		StoveID: cfg.Stove.ID,
	}
	metrics := metric.New(cfg.Stove.ID)

	coordinator, err := service.NewCoordinator(service.CoordinatorConfig{
		Identity:       identity,
		SocketTimeout:  cfg.Socket.Timeout,
		TimeoutRetries: cfg.Socket.TimeoutRetries,
	}, client, log, metrics)
	if err != nil {
		return nil, nil, err
	}
	dispatcher, err := service.NewDispatcher(identity, client, log, metrics)
	if err != nil {
		return nil, nil, err
	}

	id := coordinator.Identity()
	log.Infow("stove_client_ready",
		"addr", client.Addr(),
		"host", id.Host,
		"port", id.Port,
		"mode", id.Mode,
		"stove_id", id.StoveID,
	)

	services := service.NewService(repository.NewRepository(sqlDB), service.Deps{
		Coordinator: coordinator,
		Dispatcher:  dispatcher,
		Auth: service.AuthConfig{
			SigningKey: cfg.Auth.SigningKey,
			TokenTTL:   cfg.Auth.TokenTTL,
		},
		Log: log,
	})
	return services, metrics, nil
}

func closeDB(sqlDB *sql.DB, log *logger.Logger) {
	if err := sqlDB.Close(); err != nil {
		log.Errorw("failed to close sqlite", "err", err)
	}
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop the poller
	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
