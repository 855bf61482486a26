package contextkeys

import (
	"context"

	"github.com/google/uuid"
)

type userIDKeyType struct{}
type userRoleKeyType struct{}

var (
	userIDKey   = userIDKeyType{}
	userRoleKey = userRoleKeyType{}
)

// ContextWithUser кладет в контекст пользователя, которого прислал gateway
func ContextWithUser(ctx context.Context, userID uuid.UUID, role string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, userRoleKey, role)
}

// UserIDFromContext возвращает id пользователя и признак его наличия
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(userIDKey).(uuid.UUID)
	return userID, ok
}

// UserRoleFromContext возвращает роль пользователя или пустую строку
func UserRoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(userRoleKey).(string)
	return role
}
