package add_subscriber

import (
	"context"

	"github.com/m04kA/SMC-SlotLottery/internal/service/subscribers/models"
)

type SubscriberService interface {
	Add(ctx context.Context, req *models.AddSubscriberRequest) (*models.SubscriberResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
