package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/m04kA/SMC-SlotLottery/internal/domain"
	"github.com/m04kA/SMC-SlotLottery/internal/service/session/models"
)

// Claims содержимое токена сессии
type Claims struct {
	ExternalID     string  `json:"ext"`
	SubscriptionID *string `json:"subid,omitempty"`
	AccountKind    string  `json:"kind"`
	IsSubscriber   bool    `json:"subscriber"`
	jwt.RegisteredClaims
}

// Service выдача и проверка токенов сессии (HS256)
type Service struct {
	subscribers  SubscriberChecker
	secret       []byte
	ttl          time.Duration
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса сессий
func NewService(subscribers SubscriberChecker, secret string, ttl time.Duration, logger Logger) *Service {
	return &Service{
		subscribers:  subscribers,
		secret:       []byte(secret),
		ttl:          ttl,
		timeProvider: realTime{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// Login определяет признак подписчика по реестру и выдает токен
func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	name := strings.TrimSpace(req.Name)
	externalID := strings.TrimSpace(req.ExternalID)
	if name == "" || externalID == "" {
		return nil, fmt.Errorf("%w: name and externalId are required", ErrInvalidInput)
	}

	isSubscriber, err := s.subscribers.IsSubscriber(ctx, req.SubscriptionID)
	if err != nil {
		s.logger.Error("Login: failed to check subscription for requester=%s: %v", name, err)
		return nil, fmt.Errorf("%w: Login - check subscription: %v", ErrInternal, err)
	}

	accountKind := strings.TrimSpace(req.AccountKind)
	if accountKind == "" {
		accountKind = domain.AccountKindStandard
	}

	identity := domain.Identity{
		Name:           name,
		ExternalID:     externalID,
		SubscriptionID: req.SubscriptionID,
		AccountKind:    accountKind,
		IsSubscriber:   isSubscriber,
	}

	now := s.timeProvider.Now().UTC()
	expiresAt := now.Add(s.ttl)
	claims := Claims{
		ExternalID:     identity.ExternalID,
		SubscriptionID: identity.SubscriptionID,
		AccountKind:    identity.AccountKind,
		IsSubscriber:   identity.IsSubscriber,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.Name,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		s.logger.Error("Login: failed to sign token for requester=%s: %v", name, err)
		return nil, fmt.Errorf("%w: Login - sign token: %v", ErrInternal, err)
	}

	s.logger.Info("Login: requester=%s subscriber=%t", name, isSubscriber)
	return &models.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Identity:  models.FromDomainIdentity(identity),
	}, nil
}

// Parse проверяет подпись и срок токена и возвращает заявителя
func (s *Service) Parse(raw string) (domain.Identity, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(t *jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.timeProvider.Now),
	)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return domain.Identity{}, ErrTokenExpired
	}
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" || claims.ExternalID == "" {
		return domain.Identity{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return domain.Identity{
		Name:           claims.Subject,
		ExternalID:     claims.ExternalID,
		SubscriptionID: claims.SubscriptionID,
		AccountKind:    claims.AccountKind,
		IsSubscriber:   claims.IsSubscriber,
	}, nil
}
