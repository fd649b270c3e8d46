package models

import (
	"time"

	"github.com/m04kA/SMC-SlotLottery/internal/domain"
)

// LoginRequest данные входа
type LoginRequest struct {
	Name           string  `json:"name"`
	ExternalID     string  `json:"externalId"`
	SubscriptionID *string `json:"subscriptionId,omitempty"`
	AccountKind    string  `json:"accountKind,omitempty"`
}

// IdentityResponse данные заявителя
type IdentityResponse struct {
	Name           string  `json:"name"`
	ExternalID     string  `json:"externalId"`
	SubscriptionID *string `json:"subscriptionId,omitempty"`
	AccountKind    string  `json:"accountKind"`
	IsSubscriber   bool    `json:"isSubscriber"`
}

// LoginResponse выданный токен сессии
type LoginResponse struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expiresAt"`
	Identity  IdentityResponse `json:"identity"`
}

// FromDomainIdentity конвертирует domain модель в DTO
func FromDomainIdentity(identity domain.Identity) IdentityResponse {
	return IdentityResponse{
		Name:           identity.Name,
		ExternalID:     identity.ExternalID,
		SubscriptionID: identity.SubscriptionID,
		AccountKind:    identity.AccountKind,
		IsSubscriber:   identity.IsSubscriber,
	}
}
