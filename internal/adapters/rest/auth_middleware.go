package rest

import (
	"net/http"

	"listing-service/internal/contextkeys"

	"github.com/google/uuid"
)

// Аутентификацию выполняет API Gateway, сервис доверяет его заголовкам
const (
	headerUserID   = "X-User-ID"
	headerUserRole = "X-User-Role"

	roleAdmin = "admin"
)

// UserMiddleware требует X-User-ID и кладет пользователя в контекст
func UserMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userIDStr := r.Header.Get(headerUserID)
		if userIDStr == "" {
			WriteJSONError(w, http.StatusUnauthorized, "X-User-ID header is missing")
			return
		}

		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			WriteJSONError(w, http.StatusUnauthorized, "Invalid X-User-ID header format")
			return
		}

		ctx := contextkeys.ContextWithUser(r.Context(), userID, r.Header.Get(headerUserRole))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminMiddleware пропускает только роль admin
func AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(headerUserRole) != roleAdmin {
			WriteJSONError(w, http.StatusForbidden, "admin role is required")
			return
		}

		ctx := r.Context()
		if userID, err := uuid.Parse(r.Header.Get(headerUserID)); err == nil {
			ctx = contextkeys.ContextWithUser(ctx, userID, roleAdmin)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
