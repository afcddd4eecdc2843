// Package slotgen запускает генерацию слотов по расписанию и по запросу.
package slotgen

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/m04kA/SMC-LabBookingService/internal/usecase/generate_slots"
)

// Источник запуска генерации
const (
	TriggerScheduled = "cron"
	TriggerManual    = "manual"
)

var (
	// ErrAlreadyRunning возвращается, когда генерация уже выполняется
	ErrAlreadyRunning = errors.New("slotgen: generation is already running")

	// ErrInvalidSchedule возвращается при некорректном cron-выражении
	ErrInvalidSchedule = errors.New("slotgen: invalid cron schedule")
)

// Run итог одного прогона генератора
type Run struct {
	ID         string
	Trigger    string
	StartedAt  time.Time
	FinishedAt time.Time
	Result     *generate_slots.Response
	Err        error
}

// Scheduler запускает генератор по cron-расписанию и по запросу персонала.
// Одновременно выполняется не больше одного прогона: пересекающиеся запуски пропускаются.
type Scheduler struct {
	cron      *cron.Cron
	generator Generator
	recorder  MetricsRecorder
	timeout   time.Duration
	logger    Logger

	running atomic.Bool
	wg      sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	lastRun *Run
}

// NewScheduler создает планировщик; spec - стандартное cron-выражение из пяти полей.
// timeout ограничивает длительность одного прогона (0 - без ограничения).
func NewScheduler(
	generator Generator,
	recorder MetricsRecorder,
	spec string,
	location *time.Location,
	timeout time.Duration,
	logger Logger,
) (*Scheduler, error) {
	if location == nil {
		location = time.UTC
	}
	if recorder == nil {
		recorder = noopMetrics{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		generator: generator,
		recorder:  recorder,
		timeout:   timeout,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}
	s.cron = cron.New(
		cron.WithLocation(location),
		cron.WithChain(cron.Recover(cronLogger{logger: logger})),
	)

	if _, err := s.cron.AddFunc(spec, s.scheduled); err != nil {
		cancel()
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSchedule, spec, err)
	}

	return s, nil
}

// Start запускает cron в фоне
func (s *Scheduler) Start() {
	s.cron.Start()
	for _, entry := range s.cron.Entries() {
		s.logger.Info("SlotGen: scheduler started, next run at %s", entry.Next.Format(time.RFC3339))
	}
}

// Enqueue запускает генерацию на следующую неделю в фоне и возвращает ID прогона.
// Если генерация уже идет, возвращает ErrAlreadyRunning.
func (s *Scheduler) Enqueue() (string, error) {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("SlotGen: manual run skipped, generation is already running")
		return "", ErrAlreadyRunning
	}

	runID := uuid.NewString()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.running.Store(false)
		s.execute(TriggerManual, runID)
	}()

	s.logger.Info("SlotGen: manual run id=%s enqueued", runID)
	return runID, nil
}

// LastRun возвращает итог последнего завершённого прогона
func (s *Scheduler) LastRun() *Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastRun == nil {
		return nil
	}
	run := *s.lastRun
	return &run
}

// Wait ждёт завершения фоновых прогонов, запущенных через Enqueue
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// Stop останавливает расписание и ждёт текущий прогон.
// Если ctx истекает раньше, текущий прогон отменяется.
func (s *Scheduler) Stop(ctx context.Context) error {
	cronDone := s.cron.Stop()

	done := make(chan struct{})
	go func() {
		<-cronDone.Done()
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.cancel()
		s.logger.Info("SlotGen: scheduler stopped")
		return nil
	case <-ctx.Done():
		s.cancel()
		<-done
		s.logger.Warn("SlotGen: scheduler stopped, in-flight run was cancelled")
		return ctx.Err()
	}
}

func (s *Scheduler) scheduled() {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("SlotGen: scheduled run skipped, generation is already running")
		return
	}
	defer s.running.Store(false)

	s.execute(TriggerScheduled, uuid.NewString())
}

func (s *Scheduler) execute(trigger, runID string) {
	ctx := s.ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	run := &Run{ID: runID, Trigger: trigger, StartedAt: time.Now()}
	s.logger.Info("SlotGen: run id=%s (%s) started", runID, trigger)

	resp, err := s.generator.Execute(ctx, &generate_slots.Request{})
	run.FinishedAt = time.Now()
	run.Result = resp
	run.Err = err

	if err != nil {
		s.recorder.RecordSlotGenerationError(trigger)
		s.logger.Error("SlotGen: run id=%s (%s) failed after %s: %v",
			runID, trigger, run.FinishedAt.Sub(run.StartedAt), err)
	} else {
		s.recorder.RecordSlotGeneration(trigger, resp.Created, resp.Existing, resp.Failed)
		s.logger.Info("SlotGen: run id=%s (%s) finished in %s, created=%d, existing=%d, failed=%d",
			runID, trigger, run.FinishedAt.Sub(run.StartedAt), resp.Created, resp.Existing, resp.Failed)
	}

	s.mu.Lock()
	s.lastRun = run
	s.mu.Unlock()
}

type noopMetrics struct{}

func (noopMetrics) RecordSlotGeneration(string, int, int, int) {}
func (noopMetrics) RecordSlotGenerationError(string)           {}

// cronLogger адаптер логгера сервиса к cron.Logger
type cronLogger struct {
	logger Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info("SlotGen: cron %s %v", msg, keysAndValues)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("SlotGen: cron %s: %v %v", msg, err, keysAndValues)
}
