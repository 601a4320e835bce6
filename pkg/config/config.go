// Файл: pkg/config/config.go
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendMockAPI  = "mockapi"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type AuthConfig struct {
	MaxLoginAttempts int
	LockoutDuration  time.Duration
}

type JWTConfig struct {
	SecretKey      string
	AccessTokenTTL time.Duration
}

type ServerConfig struct {
	Port        string
	CORSOrigins []string
}

type LogConfig struct {
	Level string
	File  string
}

type StorageConfig struct {
	Backend string
}

type MockAPIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type PostgresConfig struct {
	DSN string
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type ReservationConfig struct {
	SweepInterval  time.Duration
	AutoSale       bool
	ProductLockTTL time.Duration
}

type Config struct {
	Server      ServerConfig
	Log         LogConfig
	Storage     StorageConfig
	MockAPI     MockAPIConfig
	Postgres    PostgresConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Auth        AuthConfig
	Reservation ReservationConfig
}

// New читает .env (если есть) и переменные окружения.
// Учётные данные по умолчанию не задаются: их нужно передать через окружение.
func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Предупреждение: .env файл не найден или не удалось его загрузить.")
	}

	return &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			CORSOrigins: getEnvList("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "debug"),
			File:  getEnv("LOG_FILE", ""),
		},
		Storage: StorageConfig{
			Backend: strings.ToLower(getEnv("STORAGE_BACKEND", BackendMockAPI)),
		},
		MockAPI: MockAPIConfig{
			BaseURL: strings.TrimRight(getEnv("MOCKAPI_BASE_URL", ""), "/"),
			Timeout: getEnvDuration("MOCKAPI_TIMEOUT", 20*time.Second),
		},
		Postgres: PostgresConfig{
			DSN: getEnv("DATABASE_URL", ""),
		},
		Redis: RedisConfig{
			Address:  getEnv("REDIS_ADDRESS", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			SecretKey:      getEnv("JWT_SECRET_KEY", ""),
			AccessTokenTTL: getEnvDuration("JWT_ACCESS_TOKEN_TTL", time.Hour*24),
		},
		Auth: AuthConfig{
			MaxLoginAttempts: getEnvInt("AUTH_MAX_LOGIN_ATTEMPTS", 5),
			LockoutDuration:  getEnvDuration("AUTH_LOCKOUT_DURATION", time.Minute*15),
		},
		Reservation: ReservationConfig{
			SweepInterval:  getEnvDuration("RESERVATION_SWEEP_INTERVAL", time.Minute*5),
			AutoSale:       getEnvBool("RESERVATION_AUTO_SALE", false),
			ProductLockTTL: getEnvDuration("PRODUCT_LOCK_TTL", time.Second*10),
		},
	}
}

// Validate проверяет, что для выбранного хранилища заданы все обязательные параметры.
func (c *Config) Validate() error {
	var missing []string
	if c.JWT.SecretKey == "" {
		missing = append(missing, "JWT_SECRET_KEY")
	}
	switch c.Storage.Backend {
	case BackendMockAPI:
		if c.MockAPI.BaseURL == "" {
			missing = append(missing, "MOCKAPI_BASE_URL")
		}
	case BackendPostgres:
		if c.Postgres.DSN == "" {
			missing = append(missing, "DATABASE_URL")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("неизвестное хранилище STORAGE_BACKEND=%q", c.Storage.Backend)
	}
	if len(missing) > 0 {
		return fmt.Errorf("не заданы обязательные переменные окружения: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("Предупреждение: %s=%q не число, используется %d", key, value, fallback)
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Предупреждение: %s=%q не длительность, используется %s", key, value, fallback)
	}
	return fallback
}

func getEnvList(key, fallback string) []string {
	raw := getEnv(key, fallback)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
