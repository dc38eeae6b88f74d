// Package gateway - JWT gate перед story backend: проверяет токен и проксирует запрос.
package gateway

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"storyteller/internal/middleware"
	"storyteller/internal/models"

	rateli "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"
)

// UserIDHeader передаётся backend вместе с проверенным UserID.
const UserIDHeader = "X-User-ID"

// Options - зависимости роутера.
type Options struct {
	Upstream       *url.URL
	Verifier       middleware.TokenVerifier
	AllowedOrigins []string
	// RateLimit - запросов в минуту на пользователя; 0 отключает лимит.
	RateLimit uint
	// RedisClient - общее хранилище лимитов; nil - лимиты в памяти процесса.
	RedisClient *redis.Client
	// Metrics включает /metrics и метрики запросов gin.
	Metrics bool
	Logger  *zap.Logger
}

// NewRouter собирает gin.Engine: логирование, CORS, /health, защищённые маршруты.
func NewRouter(opts Options) (*gin.Engine, error) {
	if opts.Upstream == nil {
		return nil, fmt.Errorf("upstream URL is required")
	}
	if opts.Verifier == nil {
		return nil, fmt.Errorf("token verifier is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("Gateway")

	router := gin.New()
	router.Use(middleware.GinZapLogger(logger))
	router.Use(gin.Recovery())

	if opts.Metrics {
		p := ginprometheus.NewPrometheus("gin")
		// По шаблону маршрута, чтобы id историй не раздували метки
		p.ReqCntURLLabelMappingFn = func(c *gin.Context) string {
			if path := c.FullPath(); path != "" {
				return path
			}
			return "unknown"
		}
		p.Use(router)
	}

	router.Use(cors.New(corsConfig(opts.AllowedOrigins)))

	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	proxy := newProxy(opts.Upstream, logger)

	protected := router.Group("/")
	protected.Use(middleware.Auth(opts.Verifier, logger))
	if opts.RateLimit > 0 {
		protected.Use(rateLimiter(opts.RateLimit, opts.RedisClient, logger))
	}
	protected.POST("/generate_story", proxy)
	protected.POST("/save_story", proxy)
	protected.POST("/delete_story/:id", proxy)

	return router, nil
}

func corsConfig(allowedOrigins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(allowedOrigins) > 0 {
		cfg.AllowOrigins = allowedOrigins
	} else {
		cfg.AllowOrigins = []string{"http://localhost:3000"}
	}
	cfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	cfg.AllowCredentials = true
	cfg.MaxAge = 12 * time.Hour
	return cfg
}

func rateLimiter(limit uint, redisClient *redis.Client, logger *zap.Logger) gin.HandlerFunc {
	var store rateli.Store
	if redisClient != nil {
		store = rateli.RedisStore(&rateli.RedisOptions{
			RedisClient: redisClient,
			Rate:        time.Minute,
			Limit:       limit,
		})
	} else {
		store = rateli.InMemoryStore(&rateli.InMemoryOptions{
			Rate:  time.Minute,
			Limit: limit,
		})
	}

	return rateli.RateLimiter(store, &rateli.Options{
		ErrorHandler: func(c *gin.Context, info rateli.Info) {
			logger.Warn("Rate limit exceeded",
				zap.String("userID", c.GetString(models.GinUserIDKey)),
				zap.Time("resetTime", info.ResetTime),
				zap.String("path", c.Request.URL.Path),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
				Error: "Too many requests. Try again in " + time.Until(info.ResetTime).Round(time.Second).String(),
			})
		},
		KeyFunc: func(c *gin.Context) string {
			if userID := c.GetString(models.GinUserIDKey); userID != "" {
				return "user:" + userID
			}
			return "ip:" + c.ClientIP()
		},
	})
}

// newProxy пересылает запрос на upstream, добавляя X-User-ID.
func newProxy(upstream *url.URL, logger *zap.Logger) gin.HandlerFunc {
	rp := httputil.NewSingleHostReverseProxy(upstream)
	director := rp.Director
	rp.Director = func(r *http.Request) {
		director(r)
		r.Header.Del(UserIDHeader)
		if userID, ok := models.UserIDFromContext(r.Context()); ok {
			r.Header.Set(UserIDHeader, userID)
		}
	}
	rp.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Error("Upstream request failed", zap.String("path", r.URL.Path), zap.Error(err))
		models.SendJSONError(w, "Story backend unavailable", http.StatusBadGateway)
	}

	return func(c *gin.Context) {
		rp.ServeHTTP(c.Writer, c.Request)
	}
}
