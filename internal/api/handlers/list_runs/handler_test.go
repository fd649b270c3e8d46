package list_runs

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-SlotLottery/internal/service/reservations"
	"github.com/m04kA/SMC-SlotLottery/internal/service/reservations/models"
	"github.com/m04kA/SMC-SlotLottery/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) ListRuns(ctx context.Context, limit int) (*models.RunListResponse, error) {
	args := m.Called(ctx, limit)
	if resp := args.Get(0); resp != nil {
		return resp.(*models.RunListResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestHandler_ListRuns(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantLimit  int
		svcErr     error
		wantStatus int
	}{
		{"default limit", "", 0, nil, http.StatusOK},
		{"explicit limit", "?limit=5", 5, nil, http.StatusOK},
		{"negative limit", "?limit=-1", -1, fmt.Errorf("%w: negative", reservations.ErrInvalidInput), http.StatusBadRequest},
		{"internal", "?limit=5", 5, reservations.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			if tt.svcErr != nil {
				svc.On("ListRuns", mock.Anything, tt.wantLimit).Return(nil, tt.svcErr).Once()
			} else {
				svc.On("ListRuns", mock.Anything, tt.wantLimit).
					Return(&models.RunListResponse{Runs: []models.LotteryRunResponse{}}, nil).Once()
			}

			rec := httptest.NewRecorder()
			NewHandler(svc, logger.Nop()).Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/lottery/runs"+tt.query, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_ListRunsRejectsGarbageLimit(t *testing.T) {
	svc := &mockService{}

	rec := httptest.NewRecorder()
	NewHandler(svc, logger.Nop()).Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/lottery/runs?limit=ten", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "ListRuns", mock.Anything, mock.Anything)
}
