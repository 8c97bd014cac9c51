package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Werneck0live/cadastro-fundos/internal/admin"
	"github.com/Werneck0live/cadastro-fundos/internal/broker"
	"github.com/Werneck0live/cadastro-fundos/internal/config"
	"github.com/Werneck0live/cadastro-fundos/internal/db"
	"github.com/Werneck0live/cadastro-fundos/internal/funds"
	"github.com/Werneck0live/cadastro-fundos/internal/handlers"
	"github.com/Werneck0live/cadastro-fundos/internal/repository"
	"github.com/Werneck0live/cadastro-fundos/internal/repository/memrepo"
	"github.com/Werneck0live/cadastro-fundos/internal/repository/mongorepo"
	"github.com/Werneck0live/cadastro-fundos/internal/repository/pgrepo"
	"github.com/Werneck0live/cadastro-fundos/internal/uow"
)

// cmd/api/main.go
func main() {
	cfg := config.Load() // .env

	// Logger JSON "global" - permite usar slog.Info/slog.Error/Warn em qualquer lugar
	log := config.InitLogger(cfg.LogLevel)
	log.Info("starting", "port", cfg.Port, "store", cfg.StoreDriver)

	// HOOK: admin job (one-off)
	task := flag.String("task", "", "admin task: seed | migrate")
	flag.Parse()

	store, err := openStore(cfg, log)
	if err != nil {
		log.Error("store_connect_error", "driver", cfg.StoreDriver, "err", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close(context.Background()) }()

	if err := store.Migrate(context.Background()); err != nil {
		log.Error("migrate_failed", "err", err)
		os.Exit(1)
	}

	pub, closePub, err := openPublisher(cfg, log)
	if err != nil {
		log.Error("rabbitmq_connect_error", "err", err)
		os.Exit(1)
	}
	defer closePub()

	svc := funds.NewService(store, pub, log)

	bootCtx, cancelBoot := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelBoot()
	if err := admin.SeedFundTypes(bootCtx, svc, log); err != nil {
		log.Error("seed_fund_types_failed", "err", err)
		os.Exit(1)
	}

	if *task != "" {
		switch *task {
		case "migrate":
			log.Info("migrate_done")
		case "seed":
			if err := admin.SeedFunds(bootCtx, svc, log); err != nil {
				log.Error("seed_failed", "err", err)
				os.Exit(1)
			}
			log.Info("seed_done")
		default:
			log.Error("unknown_admin_task", "task", *task)
			os.Exit(2)
		}
		return // encerra o processo sem subir HTTP
	}

	mux := http.NewServeMux()
	handlers.NewFundHandler(svc, cfg.RequestTimeout).Routes(mux)

	mws := []func(http.Handler) http.Handler{handlers.RequestID, handlers.Logging(log)}
	ctx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	if cfg.RateLimitRPS > 0 {
		rl := handlers.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		rl.StartJanitor(ctx, 2*time.Minute)
		mws = append(mws, rl.Middleware)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.Chain(mux, mws...),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	// start server
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http_server_error", "err", err)
			os.Exit(1)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful_shutdown_error", "err", err)
	}
	log.Info("stopped")
}

func openStore(cfg *config.Config, log *slog.Logger) (repository.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := db.NewPostgresPool(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return pgrepo.NewStore(pool, log), nil
	case config.DriverMongo:
		client, err := db.NewMongoClient(cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		return mongorepo.NewStore(client, cfg.MongoDB, log), nil
	case config.DriverMemory:
		log.Warn("memory_store_in_use")
		return memrepo.New(), nil
	}
	return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
}

func openPublisher(cfg *config.Config, log *slog.Logger) (uow.Publisher, func(), error) {
	if cfg.RabbitURI == "" {
		log.Warn("rabbitmq_disabled", "reason", "RABBITMQ_URL not set; events go to the log")
		return broker.NewLogPublisher(log), func() {}, nil
	}
	pub, err := broker.NewPublisher(cfg.RabbitURI, cfg.RabbitQueue, log)
	if err != nil {
		return nil, nil, err
	}
	return pub, func() { _ = pub.Close() }, nil
}
