package my_reservations

import (
	"context"

	"github.com/m04kA/SMC-SlotLottery/internal/domain"
	"github.com/m04kA/SMC-SlotLottery/internal/service/reservations/models"
)

type ReservationService interface {
	ListMine(ctx context.Context, identity domain.Identity) (*models.ReservationListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
