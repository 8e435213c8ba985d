package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-ClinicScheduler/internal/api"
	cancelReservationHandler "github.com/m04kA/SMC-ClinicScheduler/internal/api/handlers/cancel_reservation"
	createReservationHandler "github.com/m04kA/SMC-ClinicScheduler/internal/api/handlers/create_reservation"
	getSlotsHandler "github.com/m04kA/SMC-ClinicScheduler/internal/api/handlers/get_slots"
	getSlotsWeekHandler "github.com/m04kA/SMC-ClinicScheduler/internal/api/handlers/get_slots_week"
	healthHandler "github.com/m04kA/SMC-ClinicScheduler/internal/api/handlers/health"
	listReservationsHandler "github.com/m04kA/SMC-ClinicScheduler/internal/api/handlers/list_reservations"
	"github.com/m04kA/SMC-ClinicScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicScheduler/internal/config"
	physicianRepo "github.com/m04kA/SMC-ClinicScheduler/internal/infra/storage/physician"
	reservationsService "github.com/m04kA/SMC-ClinicScheduler/internal/service/reservations"
	"github.com/m04kA/SMC-ClinicScheduler/internal/seed"
	createReservationUC "github.com/m04kA/SMC-ClinicScheduler/internal/usecase/create_reservation"
	getAvailabilityUC "github.com/m04kA/SMC-ClinicScheduler/internal/usecase/get_availability"
	"github.com/m04kA/SMC-ClinicScheduler/pkg/logger"
	"github.com/m04kA/SMC-ClinicScheduler/pkg/metrics"
	"github.com/m04kA/SMC-ClinicScheduler/pkg/slotlock"
)

func serveCmd(configPath *string) *cobra.Command {
	var autoMigrate, autoSeed bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Запустить HTTP сервер",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(*configPath, autoMigrate, autoSeed)
		},
	}
	cmd.Flags().BoolVar(&autoMigrate, "migrate", false, "применить миграции перед запуском")
	cmd.Flags().BoolVar(&autoSeed, "seed", false, "заполнить справочник врачей перед запуском")
	return cmd
}

func runServe(configPath string, autoMigrate, autoSeed bool) error {
	cfg, log, err := bootstrap(configPath)
	if err != nil {
		return err
	}
	defer log.Close()

	log.Info("Starting clinic-scheduler...")

	location, err := cfg.Clinic.Location()
	if err != nil {
		return err
	}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName, prometheus.DefaultRegisterer)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Хранилище
	store, err := openBackend(cfg, metricsCollector, log)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	if autoMigrate {
		if err := store.migrate(ctx, log); err != nil {
			return err
		}
	}
	if autoSeed || cfg.Database.Driver == config.DriverMemory {
		if _, err := seed.Apply(ctx, txOrNil(store), store.physicians, log); err != nil {
			return err
		}
	}

	// Блокировка слота
	locker, closeLocker, err := newLocker(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeLocker()

	// Справочник врачей за предохранителем
	directory := physicianRepo.NewGuardedDirectory(store.physicians, physicianRepo.BreakerSettings{
		FailureThreshold: cfg.Directory.FailureThreshold,
		OpenTimeout:      time.Duration(cfg.Directory.OpenTimeoutSeconds) * time.Second,
		HalfOpenRequests: cfg.Directory.HalfOpenRequests,
	}, log)

	// Инициализируем use cases и сервисы
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		directory,
		store.claims,
		store.reservations,
		getAvailabilityUC.Config{DemoSlots: cfg.Clinic.DemoSlots},
		location,
		log,
	)

	var reservationMetrics createReservationUC.Metrics
	if metricsCollector != nil {
		reservationMetrics = metricsCollector
	}
	createReservationUseCase := createReservationUC.NewUseCase(
		directory,
		store.claims,
		store.reservations,
		locker,
		reservationMetrics,
		createReservationUC.Config{
			DemoSlots:   cfg.Clinic.DemoSlots,
			LockTimeout: cfg.Clinic.LockTimeout(),
		},
		location,
		log,
	)

	reservationSvc := reservationsService.NewService(store.reservations, store.claims, log)

	// Инициализируем handlers
	var pinger healthHandler.Pinger
	if store.db != nil {
		pinger = store.db
	}
	handlers := api.Handlers{
		GetSlots:          getSlotsHandler.NewHandler(getAvailabilityUseCase, log),
		GetSlotsWeek:      getSlotsWeekHandler.NewHandler(getAvailabilityUseCase, log),
		CreateReservation: createReservationHandler.NewHandler(createReservationUseCase, log),
		CancelReservation: cancelReservationHandler.NewHandler(reservationSvc, log),
		ListReservations:  listReservationsHandler.NewHandler(reservationSvc, log),
		Health:            healthHandler.NewHandler(pinger, directory),
	}

	stopCh := make(chan struct{})
	defer close(stopCh)

	opts := api.Options{Metrics: metricsCollector, MetricsPath: cfg.Metrics.Path}
	if cfg.RateLimit.Enabled {
		opts.RateLimiter = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		go opts.RateLimiter.RunCleanup(time.Minute, stopCh)
		log.Info("Rate limit enabled: %.1f rps, burst %d", cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      api.NewRouter(handlers, opts),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}

// newLocker блокировка слота по конфигурации
func newLocker(ctx context.Context, cfg *config.Config, log *logger.Logger) (slotlock.Locker, func(), error) {
	if cfg.Lock.Backend != config.LockRedis {
		log.Info("Using in-process slot lock")
		return slotlock.NewLocal(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Lock.RedisAddr,
		Password: cfg.Lock.RedisPassword,
		DB:       cfg.Lock.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.Lock.RedisAddr, err)
	}

	log.Info("Using redis slot lock at %s", cfg.Lock.RedisAddr)
	ttl := time.Duration(cfg.Lock.LeaseTTLSeconds) * time.Second
	return slotlock.NewRedis(client, ttl, log), func() { _ = client.Close() }, nil
}

// txOrNil менеджер транзакций или nil для memory
func txOrNil(b *backend) seed.TransactionManager {
	if b.txManager == nil {
		return nil
	}
	return b.txManager
}
