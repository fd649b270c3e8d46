package cancel_reservation

import (
	"context"

	"github.com/m04kA/SMC-SlotLottery/internal/domain"
	"github.com/m04kA/SMC-SlotLottery/internal/service/reservations/models"
)

type ReservationService interface {
	Cancel(ctx context.Context, identity domain.Identity, req *models.CancelRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
