package add_subscriber

import "github.com/m04kA/SMC-SlotLottery/internal/service/subscribers/models"

// AddSubscriberRequest HTTP request model, тело необязательно
type AddSubscriberRequest struct {
	Label string `json:"label"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *AddSubscriberRequest) ToServiceRequest(subscriptionID string) *models.AddSubscriberRequest {
	return &models.AddSubscriberRequest{
		SubscriptionID: subscriptionID,
		Label:          r.Label,
	}
}
