package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotLottery/internal/domain"
	"github.com/m04kA/SMC-SlotLottery/internal/usecase/run_lottery"
	"github.com/m04kA/SMC-SlotLottery/pkg/logger"
)

type mockRunner struct {
	mock.Mock
	mu sync.Mutex
}

func (m *mockRunner) Execute(ctx context.Context, req *run_lottery.Request) (*run_lottery.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*run_lottery.Response)
	return resp, args.Error(1)
}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time { return f.now }

var (
	today    = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	tomorrow = time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
)

func newScheduler(runner LotteryRunner, now time.Time, interval time.Duration) *Scheduler {
	return New(runner, interval, domain.DefaultCutoffHour, time.UTC, logger.Nop()).
		WithTimeProvider(fixedTime{now: now})
}

func TestTick_BeforeCutoffDoesNothing(t *testing.T) {
	runner := &mockRunner{}
	s := newScheduler(runner, time.Date(2026, 10, 19, 11, 59, 59, 0, time.UTC), time.Minute)

	s.Tick(context.Background())

	runner.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestTick_AfterCutoffRunsForTomorrow(t *testing.T) {
	runner := &mockRunner{}
	runner.On("Execute", mock.Anything, &run_lottery.Request{
		TargetDate: tomorrow,
		Trigger:    domain.TriggerScheduled,
		Marker:     run_lottery.MarkerAdvance,
		MarkerDate: today,
	}).Return(&run_lottery.Response{}, nil).Once()

	s := newScheduler(runner, time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC), time.Minute)
	s.Tick(context.Background())

	runner.AssertExpectations(t)
}

func TestTick_AlreadyRanAndFailuresAreSwallowed(t *testing.T) {
	runner := &mockRunner{}
	runner.On("Execute", mock.Anything, mock.Anything).Return(nil, run_lottery.ErrAlreadyRan).Once()
	runner.On("Execute", mock.Anything, mock.Anything).Return(nil, errors.New("db down")).Once()

	s := newScheduler(runner, time.Date(2026, 10, 19, 18, 0, 0, 0, time.UTC), time.Minute)
	s.Tick(context.Background())
	s.Tick(context.Background())

	runner.AssertNumberOfCalls(t, "Execute", 2)
}

func TestTick_UsesConfiguredTimezone(t *testing.T) {
	moscow := time.FixedZone("MSK", 3*60*60)
	runner := &mockRunner{}
	runner.On("Execute", mock.Anything, mock.MatchedBy(func(req *run_lottery.Request) bool {
		return req.TargetDate.Equal(tomorrow) && req.MarkerDate.Equal(today)
	})).Return(&run_lottery.Response{}, nil).Once()

	// 09:30 UTC = 12:30 MSK
	s := New(runner, time.Minute, 12, moscow, logger.Nop()).
		WithTimeProvider(fixedTime{now: time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)})
	s.Tick(context.Background())

	runner.AssertExpectations(t)
}

func TestForceRun_SetsMarkerAndIgnoresCutoff(t *testing.T) {
	runner := &mockRunner{}
	runner.On("Execute", mock.Anything, &run_lottery.Request{
		TargetDate: tomorrow,
		Trigger:    domain.TriggerForced,
		Marker:     run_lottery.MarkerSet,
		MarkerDate: today,
	}).Return(&run_lottery.Response{AvailableSlots: 3}, nil).Once()

	s := newScheduler(runner, time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC), time.Minute)
	resp, err := s.ForceRun(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, resp.AvailableSlots)
	runner.AssertExpectations(t)
}

func TestRunFor_ArbitraryDateWithoutMarker(t *testing.T) {
	date := time.Date(2026, 11, 3, 0, 0, 0, 0, time.UTC)
	runner := &mockRunner{}
	runner.On("Execute", mock.Anything, &run_lottery.Request{
		TargetDate: date,
		Trigger:    domain.TriggerManual,
		Marker:     run_lottery.MarkerNone,
	}).Return(&run_lottery.Response{}, nil).Once()

	s := newScheduler(runner, time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC), time.Minute)
	_, err := s.RunFor(context.Background(), date)

	require.NoError(t, err)
	runner.AssertExpectations(t)
}

func TestStart_TicksUntilCancelled(t *testing.T) {
	runner := &mockRunner{}
	runner.On("Execute", mock.Anything, mock.Anything).Return(nil, run_lottery.ErrAlreadyRan)

	s := newScheduler(runner, time.Date(2026, 10, 19, 13, 0, 0, 0, time.UTC), 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 70*time.Millisecond)
	defer cancel()

	s.Start(ctx)

	runner.mu.Lock()
	defer runner.mu.Unlock()
	assert.GreaterOrEqual(t, len(runner.Calls), 2)
}

func TestStart_StopsOnContextCancel(t *testing.T) {
	runner := &mockRunner{}
	s := newScheduler(runner, time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC), time.Second)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop on context cancel")
	}
}

// blockingRunner держит тик, пока не отменят контекст
type blockingRunner struct {
	started  chan struct{}
	finished chan struct{}
}

func (b *blockingRunner) Execute(ctx context.Context, _ *run_lottery.Request) (*run_lottery.Response, error) {
	close(b.started)
	<-ctx.Done()
	time.Sleep(20 * time.Millisecond)
	close(b.finished)
	return nil, ctx.Err()
}

func TestWait_JoinsRunningTick(t *testing.T) {
	runner := &blockingRunner{started: make(chan struct{}), finished: make(chan struct{})}
	s := newScheduler(runner, time.Date(2026, 10, 19, 13, 0, 0, 0, time.UTC), time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	s.Go(ctx)
	<-runner.started

	cancel()
	s.Wait()

	select {
	case <-runner.finished:
	default:
		t.Fatal("Wait returned before the running tick finished")
	}
}

func TestWait_WithoutGoReturnsImmediately(t *testing.T) {
	s := newScheduler(&mockRunner{}, today, time.Minute)
	s.Wait()
}
