package middleware

import (
	"context"

	"github.com/m04kA/SMC-SlotLottery/internal/domain"
)

type identityKey struct{}

// WithIdentity кладет заявителя в контекст запроса
func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext возвращает заявителя, положенного Auth
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(domain.Identity)
	return identity, ok
}
