package subscribers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-SlotLottery/internal/domain"
	subscriberRepo "github.com/m04kA/SMC-SlotLottery/internal/infra/storage/subscriber"
	"github.com/m04kA/SMC-SlotLottery/internal/service/subscribers/models"
)

// Service сервис реестра подписок
type Service struct {
	repo      SubscriberRepository
	txManager TransactionManager
	logger    Logger
}

// NewService создает новый экземпляр сервиса подписок
func NewService(repo SubscriberRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		logger:    logger,
	}
}

// IsSubscriber проверяет подписку; пустой или отсутствующий идентификатор - не подписчик
func (s *Service) IsSubscriber(ctx context.Context, subscriptionID *string) (bool, error) {
	if subscriptionID == nil || strings.TrimSpace(*subscriptionID) == "" {
		return false, nil
	}

	exists, err := s.repo.Exists(ctx, strings.TrimSpace(*subscriptionID))
	if err != nil {
		s.logger.Error("IsSubscriber: repository error: %v", err)
		return false, fmt.Errorf("%w: IsSubscriber - repository error: %v", ErrInternal, err)
	}
	return exists, nil
}

// List возвращает все подписки
func (s *Service) List(ctx context.Context) (*models.SubscriberListResponse, error) {
	subscribers, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	resp := &models.SubscriberListResponse{Subscribers: make([]models.SubscriberResponse, 0, len(subscribers))}
	for _, sub := range subscribers {
		resp.Subscribers = append(resp.Subscribers, models.FromDomainSubscriber(sub))
	}
	return resp, nil
}

// Add добавляет подписку в реестр
func (s *Service) Add(ctx context.Context, req *models.AddSubscriberRequest) (*models.SubscriberResponse, error) {
	id := strings.TrimSpace(req.SubscriptionID)
	if id == "" {
		return nil, fmt.Errorf("%w: subscriptionId is required", ErrInvalidInput)
	}

	added, err := s.repo.Add(ctx, &domain.Subscriber{SubscriptionID: id, Label: strings.TrimSpace(req.Label)})
	if err != nil {
		s.logger.Error("Add: repository error for subscription=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Add - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Add: subscription=%s registered", id)
	resp := models.FromDomainSubscriber(added)
	return &resp, nil
}

// Remove удаляет подписку из реестра
// Уже созданные бронирования сохраняют признак подписчика
func (s *Service) Remove(ctx context.Context, subscriptionID string) error {
	id := strings.TrimSpace(subscriptionID)
	if id == "" {
		return fmt.Errorf("%w: subscriptionId is required", ErrInvalidInput)
	}

	err := s.repo.Remove(ctx, id)
	if errors.Is(err, subscriberRepo.ErrSubscriberNotFound) {
		s.logger.Warn("Remove: subscription=%s not found", id)
		return ErrSubscriberNotFound
	}
	if err != nil {
		s.logger.Error("Remove: repository error for subscription=%s: %v", id, err)
		return fmt.Errorf("%w: Remove - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Remove: subscription=%s removed", id)
	return nil
}

// Seed загружает подписки из конфигурации одной транзакцией
func (s *Service) Seed(ctx context.Context, subscriptionIDs []string) error {
	if len(subscriptionIDs) == 0 {
		return nil
	}

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		for _, raw := range subscriptionIDs {
			id := strings.TrimSpace(raw)
			if id == "" {
				continue
			}
			if _, err := s.repo.Add(txCtx, &domain.Subscriber{SubscriptionID: id, Label: models.SeedLabel}); err != nil {
				return fmt.Errorf("seed subscription %s: %w", id, err)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Seed: failed: %v", err)
		return fmt.Errorf("%w: Seed - %v", ErrInternal, err)
	}

	s.logger.Info("Seed: %d subscription(s) loaded from config", len(subscriptionIDs))
	return nil
}
