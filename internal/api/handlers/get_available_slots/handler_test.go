package get_available_slots

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	getAvailableSlots "github.com/m04kA/SMC-SlotLottery/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-SlotLottery/pkg/logger"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*getAvailableSlots.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestHandler_ReturnsSlots(t *testing.T) {
	date := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, &getAvailableSlots.Request{Date: date}).
		Return(&getAvailableSlots.Response{Date: date, Slots: []string{"09:00-11:00", "15:00-17:00"}}, nil).Once()

	rec := httptest.NewRecorder()
	NewHandler(uc, logger.Nop()).Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/available-slots?date=2026-10-20", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got AvailableSlotsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, AvailableSlotsResponse{
		Date:  "2026-10-20",
		Slots: []string{"09:00-11:00", "15:00-17:00"},
	}, got)
}

func TestHandler_ClosedDateHasEmptyList(t *testing.T) {
	date := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.Anything).
		Return(&getAvailableSlots.Response{Date: date, Closed: true}, nil).Once()

	rec := httptest.NewRecorder()
	NewHandler(uc, logger.Nop()).Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/available-slots?date=2026-10-01", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"date":"2026-10-01","slots":[],"closed":true}`, rec.Body.String())
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		ucErr      error
		wantStatus int
	}{
		{"missing date", "/api/v1/available-slots", nil, http.StatusBadRequest},
		{"bad date", "/api/v1/available-slots?date=tomorrow", nil, http.StatusBadRequest},
		{"invalid input", "/api/v1/available-slots?date=2026-10-20", getAvailableSlots.ErrInvalidInput, http.StatusBadRequest},
		{"internal", "/api/v1/available-slots?date=2026-10-20", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			if tt.ucErr != nil {
				uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.ucErr).Once()
			}

			rec := httptest.NewRecorder()
			NewHandler(uc, logger.Nop()).Handle(rec, httptest.NewRequest(http.MethodGet, tt.url, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			uc.AssertExpectations(t)
		})
	}
}
