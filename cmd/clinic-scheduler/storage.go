package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/m04kA/SMC-ClinicScheduler/internal/config"
	"github.com/m04kA/SMC-ClinicScheduler/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduler/internal/infra/storage/memory"
	physicianRepo "github.com/m04kA/SMC-ClinicScheduler/internal/infra/storage/physician"
	reservationRepo "github.com/m04kA/SMC-ClinicScheduler/internal/infra/storage/reservation"
	slotclaimRepo "github.com/m04kA/SMC-ClinicScheduler/internal/infra/storage/slotclaim"
	"github.com/m04kA/SMC-ClinicScheduler/migrations"
	"github.com/m04kA/SMC-ClinicScheduler/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicScheduler/pkg/logger"
	"github.com/m04kA/SMC-ClinicScheduler/pkg/metrics"
	"github.com/m04kA/SMC-ClinicScheduler/pkg/psqlbuilder"
	"github.com/m04kA/SMC-ClinicScheduler/pkg/txmanager"
	"github.com/m04kA/SMC-ClinicScheduler/pkg/types"
)

type physicianStore interface {
	ListByDepartment(ctx context.Context, department string) ([]*domain.Physician, error)
	Upsert(ctx context.Context, p *domain.Physician, position int) error
}

type claimStore interface {
	TryClaim(ctx context.Context, claim *domain.SlotClaim) error
	BulkGet(ctx context.Context, physicianIDs []string, dates []string) ([]*domain.SlotClaim, error)
	ListAll(ctx context.Context) ([]*domain.SlotClaim, error)
	Delete(ctx context.Context, key domain.SlotKey) error
	Release(ctx context.Context, key domain.SlotKey, reservationID, userID string) error
	AttachReservation(ctx context.Context, key domain.SlotKey, reservationID string) error
}

type reservationStore interface {
	Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
	GetByID(ctx context.Context, userID, id string) (*domain.Reservation, error)
	Delete(ctx context.Context, userID, id string) error
	ExistsForUserSlot(ctx context.Context, userID, department, date string, t types.TimeString) (bool, error)
	ListForUserDepartmentDates(ctx context.Context, userID, department string, dates []string) ([]domain.DateTime, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Reservation, error)
	ListAll(ctx context.Context) ([]*domain.Reservation, error)
}

// backend хранилища выбранного драйвера
type backend struct {
	physicians   physicianStore
	claims       claimStore
	reservations reservationStore

	// Только для SQL драйверов
	db        *sql.DB
	dialect   psqlbuilder.Dialect
	txManager *txmanager.TransactionManager
	stopCh    chan struct{}
}

// openBackend открывает хранилище по конфигурации
// metricsCollector может быть nil
func openBackend(cfg *config.Config, metricsCollector *metrics.Metrics, log *logger.Logger) (*backend, error) {
	if cfg.Database.Driver == config.DriverMemory {
		store := memory.NewStore()
		log.Warn("Using in-memory storage, data is lost on restart")
		return &backend{
			physicians:   store.Physicians(),
			claims:       store.Claims(),
			reservations: store.Reservations(),
		}, nil
	}

	dialect, err := psqlbuilder.ParseDialect(cfg.Database.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(string(dialect), cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Настраиваем connection pool
	if dialect == psqlbuilder.SQLite {
		// SQLite допускает одного писателя
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)
	}

	// Проверяем соединение
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info("Successfully connected to database (driver=%s)", dialect)

	b := &backend{db: db, dialect: dialect, stopCh: make(chan struct{})}

	var wrapped *dbmetrics.DB
	if metricsCollector != nil {
		wrapped = dbmetrics.WrapWithPoolStats(db, metricsCollector,
			time.Duration(cfg.Metrics.PoolStatsEvery)*time.Second, b.stopCh)
		log.Info("Database metrics collection started")
	} else {
		wrapped = dbmetrics.Wrap(db, nil)
	}

	b.physicians = physicianRepo.NewRepository(wrapped, dialect)
	b.claims = slotclaimRepo.NewRepository(wrapped, dialect)
	b.reservations = reservationRepo.NewRepository(wrapped, dialect)
	b.txManager = txmanager.NewTransactionManager(wrapped)
	return b, nil
}

// migrate применяет миграции, для memory ничего не делает
func (b *backend) migrate(ctx context.Context, log *logger.Logger) error {
	if b.db == nil {
		return nil
	}
	n, err := migrations.Up(ctx, b.db, b.dialect)
	if err != nil {
		return err
	}
	log.Info("Applied %d migrations", n)
	return nil
}

func (b *backend) Close() {
	if b.stopCh != nil {
		close(b.stopCh)
	}
	if b.db != nil {
		_ = b.db.Close()
	}
}
