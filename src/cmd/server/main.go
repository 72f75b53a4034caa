package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vkdrn/bank-rest-api/src/internal/adapter/events"
	"github.com/vkdrn/bank-rest-api/src/internal/adapter/http/controller"
	"github.com/vkdrn/bank-rest-api/src/internal/adapter/http/router"
	"github.com/vkdrn/bank-rest-api/src/internal/adapter/repository/cache"
	"github.com/vkdrn/bank-rest-api/src/internal/adapter/repository/implementations"
	"github.com/vkdrn/bank-rest-api/src/internal/adapter/repository/memory"
	"github.com/vkdrn/bank-rest-api/src/internal/adapter/repository/repo_interfaces"
	"github.com/vkdrn/bank-rest-api/src/internal/config"
	"github.com/vkdrn/bank-rest-api/src/internal/logger"
	"github.com/vkdrn/bank-rest-api/src/internal/telemetry"
	"github.com/vkdrn/bank-rest-api/src/internal/usecase/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	appLog, err := logger.New(cfg.LogLevel, cfg.Development())
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = appLog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLog); err != nil {
		appLog.Error(context.Background(), "server exited", err, nil)
		os.Exit(1)
	}
}

type stores struct {
	transactor repo_interfaces.Transactor
	accounts   repo_interfaces.AccountRepository
	transfers  repo_interfaces.TransferRepository
	health     repo_interfaces.HealthChecker
	close      func() error
}

func run(ctx context.Context, cfg config.Config, appLog *logger.Logger) error {
	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.OTLPEndpoint, cfg.Environment, appLog)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracer(flushCtx)
	}()

	st, err := openStores(ctx, cfg, appLog)
	if err != nil {
		return err
	}
	defer func() { _ = st.close() }()

	if cfg.SeedDemoAccounts {
		if err := seedDemoAccounts(ctx, st.accounts, appLog); err != nil {
			return err
		}
	}

	var observers []services.TransferObserver
	transfers := st.transfers

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() { _ = client.Close() }()

		if err := client.Ping(ctx).Err(); err != nil {
			appLog.Warn(ctx, "redis unreachable at startup, cache will fall back to the store", logger.Fields{"error": err.Error()})
		}
		transferCache := cache.NewTransferCache(client, transfers, cfg.Redis.TTL, appLog)
		transfers = transferCache
		observers = append(observers, transferCache)
	}

	notifier, err := openNotifier(cfg, appLog)
	if err != nil {
		return err
	}
	if notifier != nil {
		defer func() { _ = notifier.Close() }()
		observers = append(observers, notifier)
	}

	transferService := services.NewTransferService(st.transactor, transfers, appLog, services.WithObservers(observers...))
	accountService := services.NewAccountService(st.accounts, appLog)

	handler := router.New(st.health, appLog,
		controller.NewAccountController(accountService, appLog),
		controller.NewTransferController(transferService, appLog),
	)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		appLog.Info(ctx, "http server listening", logger.Fields{"addr": cfg.HTTPAddr, "storage": cfg.StorageDriver})
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	appLog.Info(context.Background(), "shutting down", logger.Fields{"timeout": cfg.ShutdownTimeout.String()})
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

func openStores(ctx context.Context, cfg config.Config, appLog *logger.Logger) (stores, error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		store := memory.NewStore(cfg.LockTimeout)
		appLog.Warn(ctx, "using in-memory storage, data is lost on exit", nil)
		return stores{
			transactor: store,
			accounts:   store,
			transfers:  store.Transfers(),
			health:     store,
			close:      func() error { return nil },
		}, nil
	}

	bootCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	db, err := implementations.Open(bootCtx, cfg.DatabaseDSN)
	if err != nil {
		return stores{}, err
	}
	if err := implementations.RunMigrations(bootCtx, db, cfg.MigrationsDir, appLog); err != nil {
		_ = db.Close()
		return stores{}, fmt.Errorf("run migrations: %w", err)
	}
	appLog.Info(ctx, "migrations completed", nil)

	transactor := implementations.NewTransactor(db, cfg.LockTimeout, appLog)
	return stores{
		transactor: transactor,
		accounts:   implementations.NewAccountRepository(db, cfg.LockTimeout, appLog),
		transfers:  implementations.NewTransferRepository(db),
		health:     transactor,
		close:      db.Close,
	}, nil
}

func openNotifier(cfg config.Config, appLog *logger.Logger) (*events.Notifier, error) {
	var publisher events.Publisher
	switch cfg.EventsBroker {
	case config.EventsBrokerKafka:
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	case config.EventsBrokerNATS:
		p, err := events.NewNATSPublisher(cfg.NATS.URL, cfg.NATS.Subject, appLog)
		if err != nil {
			return nil, err
		}
		publisher = p
	default:
		return nil, nil
	}

	breaker := events.NewBreakerPublisher(cfg.EventsBroker, publisher, events.DefaultBreakerSettings(), appLog)
	return events.NewNotifier(cfg.EventsBroker, breaker, appLog), nil
}
