package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds application level configuration loaded from environment variables.
// It is built once at startup and never mutated afterwards.
type Config struct {
	ServerPort   string
	MySQLDSN     string
	RedisAddr    string
	RedisDB      int
	RedisPass    string
	JWTSecret    string
	JWTPwlSecret string
	JWTExpiresIn int // session token lifetime in minutes
	FrontendURL  string
	SwaggerHost  string
}

// Load builds Config from environment with sensible defaults.
// The two signing secrets are required and must differ; a shared secret
// would let a pre-auth token verify as a session token.
func Load() *Config {
	cfg := &Config{
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		MySQLDSN:     getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/app?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:      getEnvInt("REDIS_DB", 0),
		RedisPass:    os.Getenv("REDIS_PASSWORD"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		JWTPwlSecret: os.Getenv("JWT_PWL_SECRET"),
		JWTExpiresIn: getEnvInt("JWT_EXPIRES_IN", 60),
		FrontendURL:  getEnv("FRONTEND_URL", "http://localhost:5173"),
		SwaggerHost:  os.Getenv("SWAGGER_HOST"),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}
	if cfg.JWTPwlSecret == "" {
		log.Fatal("JWT_PWL_SECRET must be set")
	}
	if cfg.JWTPwlSecret == cfg.JWTSecret {
		log.Fatal("JWT_PWL_SECRET must differ from JWT_SECRET")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}
