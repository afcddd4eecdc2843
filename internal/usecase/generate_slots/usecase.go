package generate_slots

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-LabBookingService/internal/domain"
)

// UseCase use case генерации слотов на неделю вперёд.
// Повторный запуск на то же окно ничего не меняет: существующие слоты не трогаются.
type UseCase struct {
	testServiceRepo TestServiceRepository
	slotFinder      SlotFinder
	shifts          []domain.Shift
	days            int
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case.
// Пустой список смен означает domain.AllShifts, days < 1 - domain.DefaultGenerationDays.
func NewUseCase(
	testServiceRepo TestServiceRepository,
	slotFinder SlotFinder,
	shifts []domain.Shift,
	days int,
	logger Logger,
) *UseCase {
	if len(shifts) == 0 {
		shifts = domain.AllShifts
	}
	if days < 1 {
		days = domain.DefaultGenerationDays
	}
	return &UseCase{
		testServiceRepo: testServiceRepo,
		slotFinder:      slotFinder,
		shifts:          shifts,
		days:            days,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute создает недостающие слоты для каждой активной услуги, каждой даты окна и каждой смены.
// Ошибка на отдельном элементе логируется и учитывается в Failed, генерация продолжается.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	start := req.WeekStart
	if start.IsZero() {
		start = NextWeekStart(uc.timeProvider.Now())
	}
	dates := windowDates(start, uc.days)

	resp := &Response{
		From: dates[0],
		To:   dates[len(dates)-1],
	}

	uc.logger.Info("GenerateSlots: window %s..%s, shifts=%v",
		resp.From.Format(domain.DateFormat), resp.To.Format(domain.DateFormat), uc.shifts)

	for _, shift := range uc.shifts {
		if !shift.IsValid() {
			return nil, fmt.Errorf("%w: unknown shift %q", ErrInvalidInput, shift)
		}
	}

	services, err := uc.testServiceRepo.ListActive(ctx)
	if err != nil {
		uc.logger.Error("GenerateSlots: failed to list active test services: %v", err)
		return nil, fmt.Errorf("%w: failed to list test services: %v", ErrInternal, err)
	}
	resp.Services = len(services)

	for _, service := range services {
		for _, date := range dates {
			for _, shift := range uc.shifts {
				if err := ctx.Err(); err != nil {
					uc.logger.Warn("GenerateSlots: interrupted after %d items: %v", resp.Total(), err)
					return resp, err
				}

				slot, created, err := uc.slotFinder.FindOrCreate(ctx, service.ID, date, shift)
				if err != nil {
					resp.Failed++
					uc.logger.Error("GenerateSlots: service=%d, date=%s, shift=%s: %v",
						service.ID, date.Format(domain.DateFormat), shift, err)
					continue
				}

				if created {
					resp.Created++
					uc.logger.Info("GenerateSlots: created slot id=%d for service=%d, date=%s, shift=%s",
						slot.ID, service.ID, date.Format(domain.DateFormat), shift)
					continue
				}
				resp.Existing++
				uc.logger.Debug("GenerateSlots: slot id=%d for service=%d, date=%s, shift=%s already exists",
					slot.ID, service.ID, date.Format(domain.DateFormat), shift)
			}
		}
	}

	uc.logger.Info("GenerateSlots: done, services=%d, created=%d, existing=%d, failed=%d",
		resp.Services, resp.Created, resp.Existing, resp.Failed)
	return resp, nil
}
