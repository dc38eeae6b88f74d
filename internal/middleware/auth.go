// Package middleware содержит JWT gate и логирование запросов для HTTP обработчиков.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"storyteller/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

const (
	MsgMissingToken = "Missing token"
	MsgInvalidToken = "Invalid token"
)

var tokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "storyteller_token_verifications_total",
		Help: "Total number of token verification attempts by status.",
	},
	[]string{"status"},
)

// TokenVerifier проверяет строку токена и возвращает claims.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, tokenString string) (*models.Claims, error)
}

// extractToken возвращает токен после "Bearer " или весь заголовок, если схемы нет.
func extractToken(authHeader string) string {
	authHeader = strings.TrimSpace(authHeader)
	if strings.EqualFold(authHeader, "bearer") {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return authHeader
}

// authenticate - общая часть gin и net/http вариантов.
// Возвращает claims или сообщение для ответа 401.
func authenticate(ctx context.Context, verifier TokenVerifier, log *zap.Logger, authHeader string) (*models.Claims, string) {
	if strings.TrimSpace(authHeader) == "" {
		log.Warn("Authorization header missing")
		tokenVerificationsTotal.WithLabelValues("missing").Inc()
		return nil, MsgMissingToken
	}

	tokenString := extractToken(authHeader)
	if tokenString == "" {
		// Заголовок есть, но токена в нём нет
		log.Warn("Authorization header has no token")
		tokenVerificationsTotal.WithLabelValues("invalid").Inc()
		return nil, MsgInvalidToken
	}

	claims, err := verifier.VerifyToken(ctx, tokenString)
	if err != nil {
		// Истёкший, некорректный и невалидный токены дают одинаковый ответ
		log.Warn("Token verification failed", zap.Error(err))
		tokenVerificationsTotal.WithLabelValues("invalid").Inc()
		return nil, MsgInvalidToken
	}

	tokenVerificationsTotal.WithLabelValues("success").Inc()
	return claims, ""
}

// Auth создает gin middleware. Успешная проверка кладёт UserID в gin.Context
// (models.GinUserIDKey) и в контекст запроса.
func Auth(verifier TokenVerifier, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("AuthMiddleware")

	return func(c *gin.Context) {
		log := logger.With(zap.String("path", c.Request.URL.Path))
		claims, msg := authenticate(c.Request.Context(), verifier, log, c.GetHeader("Authorization"))
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: msg})
			return
		}

		c.Set(models.GinUserIDKey, claims.Identity())
		c.Request = c.Request.WithContext(models.WithUser(c.Request.Context(), claims))
		log.Debug("User authorized", zap.String("userID", claims.Identity()))
		c.Next()
	}
}

// AuthHTTP - тот же gate для net/http обработчиков.
func AuthHTTP(verifier TokenVerifier, logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("AuthMiddleware")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := logger.With(zap.String("path", r.URL.Path))
			claims, msg := authenticate(r.Context(), verifier, log, r.Header.Get("Authorization"))
			if claims == nil {
				models.SendJSONError(w, msg, http.StatusUnauthorized)
				return
			}

			log.Debug("User authorized", zap.String("userID", claims.Identity()))
			next.ServeHTTP(w, r.WithContext(models.WithUser(r.Context(), claims)))
		})
	}
}
