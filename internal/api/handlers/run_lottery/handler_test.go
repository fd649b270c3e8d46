package run_lottery

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotLottery/internal/domain"
	runLottery "github.com/m04kA/SMC-SlotLottery/internal/usecase/run_lottery"
	"github.com/m04kA/SMC-SlotLottery/pkg/logger"
)

type mockRunner struct {
	mock.Mock
}

func (m *mockRunner) RunFor(ctx context.Context, date time.Time) (*runLottery.Response, error) {
	args := m.Called(ctx, date)
	if resp := args.Get(0); resp != nil {
		return resp.(*runLottery.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestHandler_RunFor(t *testing.T) {
	date := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	runner := &mockRunner{}
	runner.On("RunFor", mock.Anything, date).Return(&runLottery.Response{
		TargetDate:     date,
		Run:            &domain.LotteryRun{ID: "run-1", TargetDate: date, Trigger: domain.TriggerManual},
		AvailableSlots: 2,
		Confirmed:      []string{"carol", "bob"},
		Rejected:       []string{"alice"},
	}, nil).Once()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/lottery/run", strings.NewReader(`{"date":"2026-10-20"}`))
	NewHandler(runner, logger.Nop()).Handle(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got LotteryOutcomeResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.NotNil(t, got.RunID)
	assert.Equal(t, "run-1", *got.RunID)
	assert.False(t, got.NoOp)
	assert.Equal(t, "2026-10-20", got.TargetDate)
	assert.Equal(t, []string{"carol", "bob"}, got.Confirmed)
	assert.Equal(t, []string{"alice"}, got.Rejected)
	runner.AssertExpectations(t)
}

func TestHandler_NoOpRun(t *testing.T) {
	date := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	runner := &mockRunner{}
	runner.On("RunFor", mock.Anything, date).Return(&runLottery.Response{TargetDate: date}, nil).Once()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/lottery/run", strings.NewReader(`{"date":"2026-10-20"}`))
	NewHandler(runner, logger.Nop()).Handle(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"targetDate":"2026-10-20","noop":true,"availableSlots":0,"confirmed":[],"rejected":[]}`,
		rec.Body.String())
}

func TestHandler_RunForErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		runErr     error
		wantStatus int
	}{
		{"empty body", ``, nil, http.StatusBadRequest},
		{"bad date", `{"date":"2026/10/20"}`, nil, http.StatusBadRequest},
		{"invalid input", `{"date":"2026-10-20"}`, runLottery.ErrInvalidInput, http.StatusBadRequest},
		{"persistence", `{"date":"2026-10-20"}`, fmt.Errorf("%w: boom", runLottery.ErrPersistence), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &mockRunner{}
			if tt.runErr != nil {
				runner.On("RunFor", mock.Anything, mock.Anything).Return(nil, tt.runErr).Once()
			}

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/lottery/run", strings.NewReader(tt.body))
			NewHandler(runner, logger.Nop()).Handle(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			runner.AssertExpectations(t)
		})
	}
}
