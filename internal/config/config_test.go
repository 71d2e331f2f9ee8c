package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 10*time.Second, cfg.DefaultTurnDuration)
	assert.Equal(t, 2*time.Minute, cfg.GraceInRoom)
	assert.Equal(t, 30*time.Second, cfg.GraceIdle)
	assert.False(t, cfg.RotateChainTurn)
	assert.Equal(t, 3, cfg.StreakBonusAt)
	assert.Equal(t, 10, cfg.RolesSwapEvery)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("TURN_DURATION", "15s")
	t.Setenv("GRACE_IDLE", "45") // bare seconds
	t.Setenv("ROTATE_CHAIN_TURN", "true")

	cfg := Load()
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 15*time.Second, cfg.DefaultTurnDuration)
	assert.Equal(t, 45*time.Second, cfg.GraceIdle)
	assert.True(t, cfg.RotateChainTurn)
}

func TestClampTurnDuration(t *testing.T) {
	cfg := Load()

	assert.Equal(t, cfg.DefaultTurnDuration, cfg.ClampTurnDuration(0))
	assert.Equal(t, cfg.DefaultTurnDuration, cfg.ClampTurnDuration(-3))
	assert.Equal(t, cfg.MinTurnDuration, cfg.ClampTurnDuration(1))
	assert.Equal(t, cfg.MaxTurnDuration, cfg.ClampTurnDuration(3600))
	assert.Equal(t, 20*time.Second, cfg.ClampTurnDuration(20))
}
