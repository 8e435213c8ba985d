package get_availability

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ClinicScheduler/internal/calendar"
	"github.com/m04kA/SMC-ClinicScheduler/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduler/pkg/types"
)

// UseCase расчет доступности слотов отделения
// На любой набор дат выполняется не больше одного чтения справочника, одного чтения леджера
// и одного чтения записей пользователя
type UseCase struct {
	directory    PhysicianDirectory
	ledger       ClaimLedger
	reservations ReservationReader
	config       Config
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	directory PhysicianDirectory,
	ledger ClaimLedger,
	reservations ReservationReader,
	config Config,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		directory:    directory,
		ledger:       ledger,
		reservations: reservations,
		config:       config,
		timeProvider: &RealTimeProvider{Location: location},
		logger:       logger,
	}
}

// Execute доступность на одну дату
// Результат совпадает с ExecuteBatch для списка из одной даты
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.AvailabilityResult, error) {
	results, err := uc.ExecuteBatch(ctx, &BatchRequest{
		Department: req.Department,
		Dates:      []string{req.Date},
		UserID:     req.UserID,
	})
	if err != nil {
		return nil, err
	}
	return results[0], nil
}

// ExecuteBatch доступность на несколько дат, по одному результату на дату в порядке запроса
func (uc *UseCase) ExecuteBatch(ctx context.Context, req *BatchRequest) ([]*domain.AvailabilityResult, error) {
	if len(req.Dates) > domain.MaxBatchDates {
		uc.logger.Warn("GetAvailability: too many dates: %d", len(req.Dates))
		return nil, fmt.Errorf("%w: got %d, max %d", ErrTooManyDates, len(req.Dates), domain.MaxBatchDates)
	}

	department := strings.TrimSpace(req.Department)
	userID := strings.TrimSpace(req.UserID)
	now := uc.timeProvider.Now()

	uc.logger.Info("GetAvailability: department=%q, dates=%d, user=%q", department, len(req.Dates), userID)

	// 1. Прошедшие, праздничные и некорректные даты решаются без обращения к хранилищам
	results := make(map[string]*domain.AvailabilityResult, len(req.Dates))
	toCompute := make([]string, 0, len(req.Dates))
	for _, raw := range req.Dates {
		date := strings.TrimSpace(raw)
		if _, done := results[date]; done {
			continue
		}
		if res := precompute(department, date, now); res != nil {
			results[date] = res
			continue
		}
		results[date] = nil
		toCompute = append(toCompute, date)
	}

	if len(toCompute) > 0 {
		computed, err := uc.compute(ctx, department, userID, toCompute)
		if err != nil {
			return nil, err
		}
		for date, res := range computed {
			results[date] = res
		}
	}

	out := make([]*domain.AvailabilityResult, len(req.Dates))
	for i, raw := range req.Dates {
		out[i] = results[strings.TrimSpace(raw)]
	}
	return out, nil
}

// precompute возвращает результат для дат, которые не требуют чтения хранилищ, иначе nil
// Приоритет причин: closed (пустое отделение или некорректная дата) > past > holiday
func precompute(department, date string, now time.Time) *domain.AvailabilityResult {
	switch {
	case department == "" || date == "" || !calendar.IsValidDate(date):
		return domain.UnavailableResult(date, domain.ReasonClosed)
	case calendar.IsPast(date, now):
		return domain.UnavailableResult(date, domain.ReasonPast)
	case calendar.IsHoliday(date):
		return domain.UnavailableResult(date, domain.ReasonHoliday)
	default:
		return nil
	}
}

func (uc *UseCase) compute(ctx context.Context, department, userID string, dates []string) (map[string]*domain.AvailabilityResult, error) {
	// 2. Врачи отделения, одно чтение на весь запрос
	physicians, err := uc.directory.ListByDepartment(ctx, department)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to list physicians for department=%q: %v", department, err)
		return nil, fmt.Errorf("%w: failed to list physicians: %v", ErrInternal, err)
	}

	// 3. Собственные записи пользователя; сбой здесь не мешает показать доступность
	userBooked := uc.userBooked(ctx, userID, department, dates)

	results := make(map[string]*domain.AvailabilityResult, len(dates))

	// 4. Нет врачей: демо-правило, если включено, иначе все закрыто
	if len(physicians) == 0 {
		for _, date := range dates {
			if !uc.config.DemoSlots {
				results[date] = domain.UnavailableResult(date, domain.ReasonNone)
				continue
			}
			date := date
			results[date] = domain.ComputedResult(date, func(t types.TimeString) bool {
				if _, mine := userBooked[domain.DateTime{Date: date, Time: t}]; mine {
					return false
				}
				return domain.DemoReservable(date, t)
			})
		}
		return results, nil
	}

	// 5. Заявки всех врачей на все даты, одно логическое чтение леджера
	claims, err := uc.ledger.BulkGet(ctx, domain.PhysicianIDs(physicians), dates)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to read slot claims for department=%q: %v", department, err)
		return nil, fmt.Errorf("%w: failed to read slot claims: %v", ErrInternal, err)
	}
	claimed := make(map[domain.SlotKey]struct{}, len(claims))
	for _, c := range claims {
		claimed[c.Key] = struct{}{}
	}

	// 6. Слот доступен, если хоть один врач работает в это время и не занят, а у пользователя нет записи
	for _, date := range dates {
		date := date
		d, _ := time.Parse(domain.DateFormat, date)
		wd := domain.WeekdayOf(d.Weekday())

		results[date] = domain.ComputedResult(date, func(t types.TimeString) bool {
			if _, mine := userBooked[domain.DateTime{Date: date, Time: t}]; mine {
				return false
			}
			for _, p := range physicians {
				if !p.Schedule.Has(wd, t) {
					continue
				}
				if _, taken := claimed[domain.SlotKey{PhysicianID: p.ID, Date: date, Time: t}]; !taken {
					return true
				}
			}
			return false
		})
	}

	uc.logger.Info("GetAvailability: computed %d dates for department=%q (physicians=%d, claims=%d)",
		len(dates), department, len(physicians), len(claims))
	return results, nil
}

func (uc *UseCase) userBooked(ctx context.Context, userID, department string, dates []string) map[domain.DateTime]struct{} {
	booked := make(map[domain.DateTime]struct{})
	if userID == "" {
		return booked
	}

	list, err := uc.reservations.ListForUserDepartmentDates(ctx, userID, department, dates)
	if err != nil {
		uc.logger.Warn("GetAvailability: failed to read reservations of user=%q, ignoring: %v", userID, err)
		return booked
	}
	for _, dt := range list {
		booked[dt] = struct{}{}
	}
	return booked
}
