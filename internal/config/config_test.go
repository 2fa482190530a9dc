package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestFromEnv_RequiresJWTSecret(t *testing.T) {
	_, err := FromEnv(env(nil))
	assert.ErrorIs(t, err, ErrMissingJWTSecret)
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{"JWT_SECRET": "s"}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.LogJSON)
	assert.Equal(t, "*", cfg.AllowedOrigin)
	assert.Empty(t, cfg.ChallengesFile)
	assert.Equal(t, 250*time.Millisecond, cfg.CountdownPoll)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdle)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, 120, cfg.APIRateLimit)
	assert.Equal(t, 60, cfg.APIRateWindow)
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"JWT_SECRET":              "s",
		"APP_PORT":                "9000",
		"LOG_LEVEL":               "debug",
		"LOG_JSON":                "true",
		"ALLOWED_ORIGIN":          "https://nexus.example",
		"CHALLENGES_FILE":         " configs/challenges.yaml ",
		"COUNTDOWN_POLL_MS":       "100",
		"SESSION_IDLE_MINUTES":    "5",
		"REDIS_ADDR":              "localhost:6379",
		"REDIS_DB":                "2",
		"API_RATE_LIMIT":          "10",
		"API_RATE_WINDOW_SECONDS": "30",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.AppPort)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.LogJSON)
	assert.Equal(t, "https://nexus.example", cfg.AllowedOrigin)
	assert.Equal(t, "configs/challenges.yaml", cfg.ChallengesFile)
	assert.Equal(t, 100*time.Millisecond, cfg.CountdownPoll)
	assert.Equal(t, 5*time.Minute, cfg.SessionIdle)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 10, cfg.APIRateLimit)
	assert.Equal(t, 30, cfg.APIRateWindow)
}

func TestFromEnv_InvalidNumbersFallBack(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"JWT_SECRET":        "s",
		"COUNTDOWN_POLL_MS": "-5",
		"API_RATE_LIMIT":    "lots",
		"REDIS_DB":          "-1",
	}))
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.CountdownPoll)
	assert.Equal(t, 120, cfg.APIRateLimit)
	assert.Equal(t, 0, cfg.RedisDB)
}
