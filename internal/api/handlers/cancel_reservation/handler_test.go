package cancel_reservation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-SlotLottery/internal/api/middleware"
	"github.com/m04kA/SMC-SlotLottery/internal/domain"
	"github.com/m04kA/SMC-SlotLottery/internal/service/reservations"
	"github.com/m04kA/SMC-SlotLottery/internal/service/reservations/models"
	"github.com/m04kA/SMC-SlotLottery/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Cancel(ctx context.Context, identity domain.Identity, req *models.CancelRequest) error {
	return m.Called(ctx, identity, req).Error(0)
}

func TestHandler_Cancel(t *testing.T) {
	bob := domain.Identity{Name: "bob", ExternalID: "ext-2"}
	wantReq := &models.CancelRequest{
		Date:     time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC),
		TimeSlot: "13:00-15:00",
	}

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"cancelled", nil, http.StatusNoContent},
		{"not found", reservations.ErrNotFound, http.StatusNotFound},
		{"invalid input", reservations.ErrInvalidInput, http.StatusBadRequest},
		{"internal", reservations.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			svc.On("Cancel", mock.Anything, bob, wantReq).Return(tt.err).Once()

			req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations/cancel",
				strings.NewReader(`{"date":"2026-10-20","timeSlot":"13:00-15:00"}`))
			req = req.WithContext(middleware.WithIdentity(req.Context(), bob))
			rec := httptest.NewRecorder()

			NewHandler(svc, logger.Nop()).Handle(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_CancelRequiresIdentity(t *testing.T) {
	svc := &mockService{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations/cancel",
		strings.NewReader(`{"date":"2026-10-20","timeSlot":"13:00-15:00"}`))
	rec := httptest.NewRecorder()

	NewHandler(svc, logger.Nop()).Handle(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	svc.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything, mock.Anything)
}
