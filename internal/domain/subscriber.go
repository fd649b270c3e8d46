package domain

import "time"

// Subscriber запись реестра подписок
type Subscriber struct {
	SubscriptionID string
	Label          string
	CreatedAt      time.Time
}
