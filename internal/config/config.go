package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"nexus_game/internal/logger"

	"github.com/joho/godotenv"
)

var ErrMissingJWTSecret = errors.New("JWT_SECRET is not set")

type Config struct {
	AppPort       string
	JWTSecret     string
	LogLevel      string
	LogJSON       bool
	AllowedOrigin string

	// Challenge catalog, empty means the built-in set
	ChallengesFile string

	CountdownPoll time.Duration
	SessionIdle   time.Duration

	// Redis backs the API rate limiter; empty address disables it
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	APIRateLimit  int
	APIRateWindow int
}

// Загрузка конфига из env
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := FromEnv(os.Getenv)
	if err != nil {
		logger.Fatal(err.Error())
	}
	return cfg
}

// FromEnv builds a Config from getenv, applying defaults for unset values.
func FromEnv(getenv func(string) string) (*Config, error) {
	jwtSecret := getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, ErrMissingJWTSecret
	}

	port := getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	logLevel := getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	origin := getenv("ALLOWED_ORIGIN")
	if origin == "" {
		origin = "*"
	}

	pollMS := positiveInt(getenv, "COUNTDOWN_POLL_MS", 250)
	idleMinutes := positiveInt(getenv, "SESSION_IDLE_MINUTES", 30)

	redisDB := 0
	if v := getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			redisDB = n
		}
	}

	return &Config{
		AppPort:        port,
		JWTSecret:      jwtSecret,
		LogLevel:       logLevel,
		LogJSON:        parseBool(getenv("LOG_JSON")),
		AllowedOrigin:  origin,
		ChallengesFile: strings.TrimSpace(getenv("CHALLENGES_FILE")),
		CountdownPoll:  time.Duration(pollMS) * time.Millisecond,
		SessionIdle:    time.Duration(idleMinutes) * time.Minute,
		RedisAddr:      strings.TrimSpace(getenv("REDIS_ADDR")),
		RedisPassword:  getenv("REDIS_PASSWORD"),
		RedisDB:        redisDB,
		APIRateLimit:   positiveInt(getenv, "API_RATE_LIMIT", 120),   // запросов за ->
		APIRateWindow:  positiveInt(getenv, "API_RATE_WINDOW_SECONDS", 60), // -> 60 секунд
	}, nil
}

func positiveInt(getenv func(string) string, key string, def int) int {
	if v := getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func parseBool(v string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	return err == nil && b
}
