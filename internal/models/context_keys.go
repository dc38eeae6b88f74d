package models

import "context"

// contextKey - приватный тип для ключей контекста, чтобы избежать коллизий.
type contextKey string

const (
	// UserIDContextKey - ключ для UserID в контексте запроса.
	UserIDContextKey contextKey = "userID"
	// ClaimsContextKey - ключ для полного *Claims.
	ClaimsContextKey contextKey = "claims"

	// GinUserIDKey - ключ в gin.Context, который выставляет gin middleware.
	GinUserIDKey = "user_id"
)

// WithUser кладёт в контекст проверенные claims и UserID.
func WithUser(ctx context.Context, claims *Claims) context.Context {
	ctx = context.WithValue(ctx, UserIDContextKey, claims.Identity())
	return context.WithValue(ctx, ClaimsContextKey, claims)
}

// UserIDFromContext извлекает UserID из контекста.
// Возвращает ID и true, если ключ найден и значение непустое.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDContextKey).(string)
	return userID, ok && userID != ""
}

// ClaimsFromContext извлекает claims, положенные auth middleware.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*Claims)
	return claims, ok
}
