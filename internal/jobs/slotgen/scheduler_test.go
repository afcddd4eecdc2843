package slotgen

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-LabBookingService/internal/domain"
	"github.com/m04kA/SMC-LabBookingService/internal/infra/storage/inmemory"
	"github.com/m04kA/SMC-LabBookingService/internal/service/slots"
	"github.com/m04kA/SMC-LabBookingService/internal/usecase/generate_slots"
	"github.com/m04kA/SMC-LabBookingService/pkg/logger"
)

type blockingGenerator struct {
	started chan struct{}
	release chan struct{}
	calls   int
	mu      sync.Mutex
}

func (g *blockingGenerator) Execute(ctx context.Context, _ *generate_slots.Request) (*generate_slots.Response, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()

	g.started <- struct{}{}
	select {
	case <-g.release:
		return &generate_slots.Response{Created: 1}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type failingGenerator struct{}

func (failingGenerator) Execute(context.Context, *generate_slots.Request) (*generate_slots.Response, error) {
	return nil, errors.New("db is down")
}

type recordingMetrics struct {
	mu      sync.Mutex
	runs    map[string]int
	errors  map[string]int
	created int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{runs: make(map[string]int), errors: make(map[string]int)}
}

func (m *recordingMetrics) RecordSlotGeneration(trigger string, created, _, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[trigger]++
	m.created += created
}

func (m *recordingMetrics) RecordSlotGenerationError(trigger string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[trigger]++
}

func TestNewScheduler_InvalidSpec(t *testing.T) {
	_, err := NewScheduler(failingGenerator{}, nil, "every sunday", nil, 0, logger.NewNop())
	assert.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestScheduler_Enqueue_GeneratesNextWeek(t *testing.T) {
	store := inmemory.NewStore()
	store.AddTestService("CBC", 150, false)
	slotService := slots.NewService(store.Slots(), store.TestServices(), nil, 0, logger.NewNop())
	generator := generate_slots.NewUseCase(store.TestServices(), slotService, nil, 0, logger.NewNop())
	recorder := newRecordingMetrics()

	s, err := NewScheduler(generator, recorder, domain.DefaultGenerationCronSpec, time.UTC, time.Minute, logger.NewNop())
	require.NoError(t, err)

	runID, err := s.Enqueue()
	require.NoError(t, err)
	assert.NotEmpty(t, runID)
	s.Wait()

	run := s.LastRun()
	require.NotNil(t, run)
	assert.Equal(t, runID, run.ID)
	assert.Equal(t, TriggerManual, run.Trigger)
	require.NoError(t, run.Err)
	assert.Equal(t, 14, run.Result.Created)
	assert.Equal(t, 14, store.SlotCount())
	assert.Equal(t, 1, recorder.runs[TriggerManual])

	runID2, err := s.Enqueue()
	require.NoError(t, err)
	assert.NotEqual(t, runID, runID2)
	s.Wait()
	assert.Equal(t, 14, s.LastRun().Result.Existing)
	assert.Equal(t, 14, store.SlotCount())

	require.NoError(t, s.Stop(context.Background()))
}

func TestScheduler_OverlappingRunsAreSkipped(t *testing.T) {
	generator := &blockingGenerator{started: make(chan struct{}, 1), release: make(chan struct{})}
	s, err := NewScheduler(generator, nil, domain.DefaultGenerationCronSpec, time.UTC, 0, logger.NewNop())
	require.NoError(t, err)

	_, err = s.Enqueue()
	require.NoError(t, err)
	<-generator.started

	_, err = s.Enqueue()
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	s.scheduled()

	close(generator.release)
	s.Wait()

	generator.mu.Lock()
	assert.Equal(t, 1, generator.calls)
	generator.mu.Unlock()

	_, err = s.Enqueue()
	require.NoError(t, err)
	<-generator.started
	s.Wait()
}

func TestScheduler_ScheduledRunRecordsErrors(t *testing.T) {
	recorder := newRecordingMetrics()
	s, err := NewScheduler(failingGenerator{}, recorder, "@daily", time.UTC, 0, logger.NewNop())
	require.NoError(t, err)

	s.scheduled()

	run := s.LastRun()
	require.NotNil(t, run)
	assert.Equal(t, TriggerScheduled, run.Trigger)
	assert.Error(t, run.Err)
	assert.Equal(t, 1, recorder.errors[TriggerScheduled])
}

func TestScheduler_StopCancelsInFlightRunOnDeadline(t *testing.T) {
	generator := &blockingGenerator{started: make(chan struct{}, 1), release: make(chan struct{})}
	s, err := NewScheduler(generator, nil, domain.DefaultGenerationCronSpec, time.UTC, 0, logger.NewNop())
	require.NoError(t, err)
	s.Start()

	_, err = s.Enqueue()
	require.NoError(t, err)
	<-generator.started

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err = s.Stop(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	run := s.LastRun()
	require.NotNil(t, run)
	assert.ErrorIs(t, run.Err, context.Canceled)
}
