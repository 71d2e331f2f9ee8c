package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type AppConfig struct {
	Addr      string
	JWTSecret string

	GroqAPIKey  string
	GroqBaseURL string
	GroqModel   string

	OracleTimeout time.Duration

	DefaultTurnDuration time.Duration
	MinTurnDuration     time.Duration
	MaxTurnDuration     time.Duration

	// Grace period before a disconnected session is cleaned up.
	GraceInRoom time.Duration
	GraceIdle   time.Duration

	// Whether the chain-mode turn holder rotates between rounds. The observed
	// behavior keeps the holder, so this defaults to off.
	RotateChainTurn bool

	// Race-mode scoring and pacing.
	StreakBonusAt  int
	RolesSwapEvery int
}

func Load() *AppConfig {
	cfg := &AppConfig{
		Addr:                ":8080",
		JWTSecret:           "game-kata-dev-secret",
		GroqBaseURL:         "https://api.groq.com",
		GroqModel:           "openai/gpt-oss-120b",
		OracleTimeout:       8 * time.Second,
		DefaultTurnDuration: 10 * time.Second,
		MinTurnDuration:     5 * time.Second,
		MaxTurnDuration:     60 * time.Second,
		GraceInRoom:         2 * time.Minute,
		GraceIdle:           30 * time.Second,
		StreakBonusAt:       3,
		RolesSwapEvery:      10,
	}

	if v := strings.TrimSpace(os.Getenv("ADDR")); v != "" {
		cfg.Addr = v
	} else if p := strings.TrimSpace(os.Getenv("PORT")); p != "" {
		cfg.Addr = ":" + p
	}
	if v := strings.TrimSpace(os.Getenv("JWT_SECRET")); v != "" {
		cfg.JWTSecret = v
	}
	cfg.GroqAPIKey = strings.TrimSpace(os.Getenv("GROQ_API_KEY"))
	if v := strings.TrimSpace(os.Getenv("GROQ_BASE_URL")); v != "" {
		cfg.GroqBaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("GROQ_MODEL")); v != "" {
		cfg.GroqModel = v
	}

	cfg.OracleTimeout = durationEnv("ORACLE_TIMEOUT", cfg.OracleTimeout)
	cfg.DefaultTurnDuration = durationEnv("TURN_DURATION", cfg.DefaultTurnDuration)
	cfg.GraceInRoom = durationEnv("GRACE_IN_ROOM", cfg.GraceInRoom)
	cfg.GraceIdle = durationEnv("GRACE_IDLE", cfg.GraceIdle)

	if v := strings.TrimSpace(os.Getenv("ROTATE_CHAIN_TURN")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.RotateChainTurn = b
		}
	}
	if v := strings.TrimSpace(os.Getenv("STREAK_BONUS_AT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.StreakBonusAt = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("ROLES_SWAP_EVERY")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RolesSwapEvery = n
		}
	}

	return cfg
}

// ClampTurnDuration bounds a client-chosen turn duration (seconds) to the
// configured window, falling back to the default when unset.
func (c *AppConfig) ClampTurnDuration(seconds int) time.Duration {
	if seconds <= 0 {
		return c.DefaultTurnDuration
	}
	d := time.Duration(seconds) * time.Second
	if d < c.MinTurnDuration {
		return c.MinTurnDuration
	}
	if d > c.MaxTurnDuration {
		return c.MaxTurnDuration
	}
	return d
}

func durationEnv(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 { // bare seconds
		return time.Duration(n) * time.Second
	}
	return def
}
