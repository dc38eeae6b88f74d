// Package config загружает настройки auth gate (envconfig) и CLI (cleanenv).
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"storyteller/internal/logger"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// SecretsDir - каталог Docker Secrets. Переменная, чтобы тесты могли его подменить.
var SecretsDir = "/run/secrets"

// ReadSecret читает секрет из файла в каталоге Docker Secrets.
func ReadSecret(secretName string) (string, error) {
	filePath := fmt.Sprintf("%s/%s", strings.TrimRight(SecretsDir, "/"), secretName)
	secretBytes, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read secret file %s: %w", filePath, err)
	}
	secret := strings.TrimSpace(string(secretBytes))
	if secret == "" {
		return "", fmt.Errorf("secret file %s is empty", filePath)
	}
	return secret, nil
}

// AuthConfig - настройки JWT gate.
type AuthConfig struct {
	// JWTSecret берётся из JWT_SECRET, иначе из секрета jwt_secret.
	JWTSecret   string        `envconfig:"JWT_SECRET"`
	AllowedAlgs []string      `envconfig:"JWT_ALLOWED_ALGS" default:"HS256"`
	TokenTTL    time.Duration `envconfig:"JWT_TOKEN_TTL" default:"24h"`
	LogLevel    string        `envconfig:"LOG_LEVEL" default:"info"`
}

// LoadAuthConfig загружает .env (если есть), переменные окружения и секрет.
func LoadAuthConfig(envFilePath string) (*AuthConfig, error) {
	loadDotEnv(envFilePath)

	var cfg AuthConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("error processing env vars: %w", err)
	}
	if err := cfg.loadSecret(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *AuthConfig) loadSecret() error {
	if c.JWTSecret != "" {
		return nil
	}
	secret, err := ReadSecret("jwt_secret")
	if err != nil {
		return fmt.Errorf("JWT secret is not configured (JWT_SECRET or jwt_secret file): %w", err)
	}
	c.JWTSecret = secret
	return nil
}

// GatewayConfig - настройки `storyctl gate`.
type GatewayConfig struct {
	AuthConfig

	Env                string `envconfig:"ENV" default:"development"`
	Port               string `envconfig:"GATEWAY_PORT" default:"8090"`
	UpstreamURL        string `envconfig:"STORY_BACKEND_URL" default:"http://localhost:5000"`
	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
	RateLimitPerMinute uint   `envconfig:"RATE_LIMIT_PER_MINUTE" default:"30"`
	MetricsEnabled     bool   `envconfig:"METRICS_ENABLED" default:"true"`
	// RedisAddr пустой - лимиты считаются в памяти процесса.
	RedisAddr string `envconfig:"REDIS_ADDR"`
	// Читается из секрета redis_password, не из env
	RedisPassword string `ignored:"true"`
}

// GetAllowedOrigins разбивает CORSAllowedOrigins по запятой.
func (c *GatewayConfig) GetAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(c.CORSAllowedOrigins, " ", ""), ",")
}

// LoadGatewayConfig загружает настройки gate: env, .env, секреты jwt_secret и redis_password.
func LoadGatewayConfig(envFilePath string) (*GatewayConfig, error) {
	loadDotEnv(envFilePath)

	var cfg GatewayConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("error processing env vars: %w", err)
	}
	if err := cfg.loadSecret(); err != nil {
		return nil, err
	}

	// Пароль Redis необязателен
	if redisPass, err := ReadSecret("redis_password"); err == nil {
		cfg.RedisPassword = redisPass
	}
	return &cfg, nil
}

func loadDotEnv(envFilePath string) {
	if envFilePath == "" {
		return
	}
	if _, err := os.Stat(envFilePath); err == nil {
		if err := godotenv.Load(envFilePath); err != nil {
			log.Printf("Warning: Could not load %s file: %v", envFilePath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Printf("Warning: Error checking %s file: %v", envFilePath, err)
	}
}

// ClientConfig - настройки CLI storyctl.
type ClientConfig struct {
	API    APIConfig     `yaml:"api"`
	Speech SpeechConfig  `yaml:"speech"`
	Prefs  PrefsConfig   `yaml:"prefs"`
	Logger logger.Config `yaml:"log"`
}

// APIConfig - адрес story backend.
type APIConfig struct {
	BaseURL string        `yaml:"base_url" env:"STORY_API_URL" env-default:"http://localhost:5000"`
	Token   string        `yaml:"token" env:"STORY_API_TOKEN"`
	Timeout time.Duration `yaml:"timeout" env:"STORY_TIMEOUT" env-default:"60s"`
}

// SpeechConfig - речевые API. Пустой ключ - речь недоступна.
type SpeechConfig struct {
	OpenAIAPIKey  string `yaml:"openai_api_key" env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `yaml:"openai_base_url" env:"OPENAI_BASE_URL"`
	Voice         string `yaml:"voice" env:"TTS_VOICE" env-default:"alloy"`
	Output        string `yaml:"output" env:"TTS_OUTPUT" env-default:"story.mp3"`
}

const (
	PrefsBackendMemory = "memory"
	PrefsBackendFile   = "file"
	PrefsBackendRedis  = "redis"
	PrefsBackendNone   = "none"
)

// PrefsConfig - хранилище настроек UI.
type PrefsConfig struct {
	Backend   string        `yaml:"backend" env:"PREFS_BACKEND" env-default:"file"`
	File      string        `yaml:"file" env:"PREFS_FILE" env-default:".storyctl/prefs.yaml"`
	RedisAddr string        `yaml:"redis_addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Namespace string        `yaml:"namespace" env:"PREFS_NAMESPACE" env-default:"default"`
	TTL       time.Duration `yaml:"ttl" env:"PREFS_TTL" env-default:"0s"`
}

// LoadClientConfig читает YAML (если path задан и файл существует) и
// применяет переменные окружения поверх.
func LoadClientConfig(path string) (*ClientConfig, error) {
	var cfg ClientConfig

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				return nil, fmt.Errorf("error loading config %s: %w", path, err)
			}
			return validate(&cfg)
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error checking config %s: %w", path, err)
		}
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("error processing env vars: %w", err)
	}
	return validate(&cfg)
}

func validate(cfg *ClientConfig) (*ClientConfig, error) {
	switch cfg.Prefs.Backend {
	case PrefsBackendMemory, PrefsBackendFile, PrefsBackendRedis, PrefsBackendNone:
	default:
		return nil, fmt.Errorf("unknown prefs backend %q", cfg.Prefs.Backend)
	}
	if cfg.API.BaseURL == "" {
		return nil, errors.New("story API URL is empty")
	}
	return cfg, nil
}
