package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-ShareItService/internal/api/handlers"
)

// UserIDHeader заголовок с ID текущего пользователя
const UserIDHeader = "X-Sharer-User-Id"

const (
	msgMissingUserID = "отсутствует заголовок " + UserIDHeader
	msgInvalidUserID = "некорректный " + UserIDHeader
)

type userIDKey struct{}

// Auth достает ID пользователя из X-Sharer-User-Id и кладет в контекст.
// Без заголовка или с некорректным значением запрос не пропускается (401).
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(UserIDHeader)
		if raw == "" {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, msgInvalidUserID)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// WithUserID кладет ID пользователя в контекст
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// GetUserID возвращает ID пользователя, установленный Auth
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey{}).(int64)
	return userID, ok
}
