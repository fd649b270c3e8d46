package models

import (
	"time"

	"github.com/m04kA/SMC-SlotLottery/internal/domain"
)

// SeedLabel метка подписок, загруженных из конфигурации
const SeedLabel = "config"

// AddSubscriberRequest запрос на добавление подписки
type AddSubscriberRequest struct {
	SubscriptionID string `json:"subscriptionId"`
	Label          string `json:"label"`
}

// SubscriberResponse ответ с данными подписки
type SubscriberResponse struct {
	SubscriptionID string    `json:"subscriptionId"`
	Label          string    `json:"label"`
	CreatedAt      time.Time `json:"createdAt"`
}

// SubscriberListResponse ответ со списком подписок
type SubscriberListResponse struct {
	Subscribers []SubscriberResponse `json:"subscribers"`
}

// FromDomainSubscriber конвертирует domain модель в DTO
func FromDomainSubscriber(s *domain.Subscriber) SubscriberResponse {
	return SubscriberResponse{
		SubscriptionID: s.SubscriptionID,
		Label:          s.Label,
		CreatedAt:      s.CreatedAt,
	}
}
