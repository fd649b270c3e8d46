package middleware

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SlotLottery/internal/api/handlers"
	"github.com/m04kA/SMC-SlotLottery/internal/service/session"
)

const (
	// AdminTokenHeader заголовок с токеном администратора
	AdminTokenHeader = "X-Admin-Token"

	msgMissingToken   = "требуется авторизация"
	msgInvalidToken   = "недействительный токен"
	msgTokenExpired   = "срок действия токена истек"
	msgAdminDisabled  = "административный доступ отключен"
	msgAdminForbidden = "доступ запрещен"
)

// Auth проверяет заголовок Authorization: Bearer <token> и кладет заявителя в контекст
func Auth(parser TokenParser, logger Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				logger.Warn("Auth: missing bearer token for %s %s", r.Method, r.URL.Path)
				handlers.RespondUnauthorized(w, msgMissingToken)
				return
			}

			identity, err := parser.Parse(raw)
			if err != nil {
				if errors.Is(err, session.ErrTokenExpired) {
					logger.Warn("Auth: expired token for %s %s", r.Method, r.URL.Path)
					handlers.RespondUnauthorized(w, msgTokenExpired)
					return
				}
				logger.Warn("Auth: invalid token for %s %s: %v", r.Method, r.URL.Path, err)
				handlers.RespondUnauthorized(w, msgInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// AdminToken пропускает запрос только с совпадающим X-Admin-Token
// Пустой настроенный токен закрывает административные маршруты
func AdminToken(token string, logger Logger) mux.MiddlewareFunc {
	expected := []byte(token)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(expected) == 0 {
				logger.Warn("AdminToken: admin token is not configured, rejecting %s %s", r.Method, r.URL.Path)
				handlers.RespondForbidden(w, msgAdminDisabled)
				return
			}

			got := []byte(r.Header.Get(AdminTokenHeader))
			if subtle.ConstantTimeCompare(got, expected) != 1 {
				logger.Warn("AdminToken: rejected %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)
				handlers.RespondForbidden(w, msgAdminForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
