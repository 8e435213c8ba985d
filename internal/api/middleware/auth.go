package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-ClinicScheduler/internal/api/handlers"
)

// UserIDHeader идентификатор пользователя, проставленный шлюзом аутентификации
const UserIDHeader = "X-User-ID"

const msgUnauthorized = "требуется авторизация"

type contextKey struct{}

var userIDKey = contextKey{}

// GetUserID пользователь из контекста запроса
func GetUserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// WithUserID кладет пользователя в контекст
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// Auth требует заголовок X-User-ID
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(UserIDHeader))
		if userID == "" {
			handlers.RespondUnauthorized(w, msgUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// OptionalAuth кладет пользователя в контекст, если заголовок есть
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID := strings.TrimSpace(r.Header.Get(UserIDHeader)); userID != "" {
			r = r.WithContext(WithUserID(r.Context(), userID))
		}
		next.ServeHTTP(w, r)
	})
}
