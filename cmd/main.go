package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "printwatch/docs"
	"printwatch/internal/alerting"
	"printwatch/internal/config"
	"printwatch/internal/handlers"
	"printwatch/internal/logger"
	"printwatch/internal/notifier"
	"printwatch/internal/repository"
	"printwatch/internal/repository/db"
	"printwatch/internal/server"
	"printwatch/internal/service"
	"printwatch/internal/telemetry"

	"github.com/spf13/pflag"
)

const shutdownTimeout = 10 * time.Second

func main() {
	fs := pflag.NewFlagSet("printwatch", pflag.ExitOnError)
	config.Flags(fs)
	_ = fs.Parse(os.Args[1:])

	loader, err := config.NewLoader(fs)
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error binding flags", "err", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	log := logger.Get(cfg.Log.Level)
	defer func() { _ = log.Sync() }()

	sqlDB, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err, "path", cfg.DB.Path)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(sqlDB)

	var notifiers []service.Notifier
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaNotifier, err := notifier.NewKafka(notifier.KafkaConfig{
			Brokers:      cfg.Kafka.Brokers,
			Topic:        cfg.Kafka.Topic,
			Compression:  cfg.Kafka.Compression,
			WriteTimeout: cfg.Kafka.WriteTimeout,
			BatchSize:    cfg.Kafka.BatchSize,
			BatchTimeout: cfg.Kafka.BatchTimeout,
		})
		if err != nil {
			log.Fatalw("failed to init kafka notifier", "err", err)
		}
		defer func() { _ = kafkaNotifier.Close() }()
		notifiers = append(notifiers, kafkaNotifier)
		log.Infow("kafka_notifier_enabled", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	}
	recorder := service.NewAlertRecorder(repos, log.Named("recorder"), notifiers...)

	store := telemetry.NewStore(cfg.Telemetry.MaxAge)
	engine := alerting.NewEngine(store, recorder, recorder, cfg.Rules, log.Named("alerting"))

	services := service.NewService(repos, store, engine, service.Config{
		Auth: service.AuthConfig{
			SigningKey: cfg.Auth.SigningKey,
			TokenTTL:   cfg.Auth.TokenTTL,
		},
		Simulator: service.SimulatorConfig{
			Enabled:   cfg.Simulator.Enabled,
			PrinterID: cfg.Simulator.PrinterID,
			Filename:  cfg.Simulator.Filename,
			Fault:     cfg.Simulator.Fault,
		},
	}, log.Named("service"))
	apiHandler := handlers.NewHandler(services, log.Named("http"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		engine.Run(ctx)
	}()

	if cfg.Simulator.Enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			services.Simulator.Run(ctx, cfg.Simulator.Tick)
		}()
	}

	loader.Watch(func(next config.Config) {
		applyConfig(next, engine, services, log)
	}, func(err error) {
		log.Warnw("config_reload_rejected", "err", err)
	})

	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	waitForShutdown(cancel, srv, log)
	wg.Wait()
}

// applyConfig pushes the hot-reloadable parts of a new config into the
// running components. Everything else needs a restart.
func applyConfig(cfg config.Config, engine *alerting.Engine, services *service.Service, log *logger.Logger) {
	logger.SetLevel(cfg.Log.Level)
	if err := engine.ApplySettings(cfg.Rules); err != nil {
		log.Warnw("rule_settings_rejected", "err", err)
	}
	if err := services.Simulator.SetFault(cfg.Simulator.Fault); err != nil {
		log.Warnw("simulator_fault_rejected", "fault", cfg.Simulator.Fault, "err", err)
	}
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("http_listening", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
