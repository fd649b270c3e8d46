package submit_reservation

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

	"github.com/m04kA/SMC-SlotLottery/internal/api/handlers"
	"github.com/m04kA/SMC-SlotLottery/internal/api/middleware"
	"github.com/m04kA/SMC-SlotLottery/internal/domain"
	submitReservation "github.com/m04kA/SMC-SlotLottery/internal/usecase/submit_reservation"
	"github.com/m04kA/SMC-SlotLottery/pkg/logger"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *submitReservation.Request) (*submitReservation.Response, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*submitReservation.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

var alice = domain.Identity{Name: "alice", ExternalID: "ext-1", AccountKind: domain.AccountKindStandard}

func newRequest(body string, withIdentity bool) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(body))
	if withIdentity {
		req = req.WithContext(middleware.WithIdentity(req.Context(), alice))
	}
	return req
}

func TestHandler_Created(t *testing.T) {
	uc := &mockUseCase{}
	date := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	uc.On("Execute", mock.Anything, &submitReservation.Request{
		Identity: alice,
		Date:     date,
		TimeSlot: "09:00-11:00",
	}).Return(&submitReservation.Response{
		Reservation: &domain.Reservation{
			ID:            7,
			RequesterName: "alice",
			AccountKind:   domain.AccountKindStandard,
			Date:          date,
			TimeSlot:      "09:00-11:00",
			Status:        domain.StatusPending,
		},
		Queued: true,
	}, nil).Once()

	rec := httptest.NewRecorder()
	NewHandler(uc, logger.Nop()).Handle(rec, newRequest(`{"date":"2026-10-20","timeSlot":"09:00-11:00"}`, true))

	require.Equal(t, http.StatusCreated, rec.Code)
	var got SubmitReservationResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.True(t, got.Queued)
	assert.Equal(t, msgQueued, got.Message)
	assert.Equal(t, int64(7), got.Reservation.ID)
	assert.Equal(t, "2026-10-20", got.Reservation.Date)
	assert.Equal(t, "pending", got.Reservation.Status)
	uc.AssertExpectations(t)
}

func TestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"duplicate", submitReservation.ErrDuplicateRequest, http.StatusConflict, msgDuplicateRequest},
		{"conflict", submitReservation.ErrSlotConflict, http.StatusConflict, msgSlotConflict},
		{"capacity", submitReservation.ErrCapacityExceeded, http.StatusConflict, msgCapacityExceeded},
		{"lottery closed", submitReservation.ErrLotteryClosed, http.StatusConflict, msgLotteryClosed},
		{"unknown slot", submitReservation.ErrInvalidTimeSlot, http.StatusBadRequest, msgInvalidTimeSlot},
		{"slot format", fmt.Errorf("%w: %q", domain.ErrInvalidSlotFormat, "9-11"), http.StatusBadRequest, msgInvalidSlotFormat},
		{"past date", submitReservation.ErrDateInPast, http.StatusBadRequest, msgDateInPast},
		{"blocked date", submitReservation.ErrDateBlocked, http.StatusBadRequest, msgDateBlocked},
		{"invalid input", submitReservation.ErrInvalidInput, http.StatusBadRequest, msgInvalidInput},
		{"persistence", fmt.Errorf("%w: boom", submitReservation.ErrPersistence), http.StatusInternalServerError, "внутренняя ошибка сервера"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			rec := httptest.NewRecorder()
			NewHandler(uc, logger.Nop()).Handle(rec, newRequest(`{"date":"2026-10-20","timeSlot":"09:00-11:00"}`, true))

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body handlers.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantMsg, body.Message)
		})
	}
}

func TestHandler_BadRequests(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		identity   bool
		wantStatus int
	}{
		{"no identity", `{"date":"2026-10-20","timeSlot":"09:00-11:00"}`, false, http.StatusUnauthorized},
		{"empty body", ``, true, http.StatusBadRequest},
		{"unknown field", `{"date":"2026-10-20","slot":"09:00-11:00"}`, true, http.StatusBadRequest},
		{"bad date", `{"date":"20.10.2026","timeSlot":"09:00-11:00"}`, true, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}

			rec := httptest.NewRecorder()
			NewHandler(uc, logger.Nop()).Handle(rec, newRequest(tt.body, tt.identity))

			assert.Equal(t, tt.wantStatus, rec.Code)
			uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
		})
	}
}
