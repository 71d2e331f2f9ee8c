package wordcheck_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bimantaraz/game-kata/internal/wordcheck"
)

func TestLetterCheckValidator(t *testing.T) {
	v := wordcheck.LetterCheckValidator{}
	ctx := context.Background()

	verdict := v.Validate(ctx, "APEL", "A", "L", "General")
	assert.True(t, verdict.IsValid)

	verdict = v.Validate(ctx, "apel", "a", "l", "General")
	assert.True(t, verdict.IsValid, "matching is case-insensitive")

	verdict = v.Validate(ctx, "APEL", "B", "L", "General")
	assert.False(t, verdict.IsValid)

	verdict = v.Validate(ctx, "APEL", "A", "K", "General")
	assert.False(t, verdict.IsValid)

	verdict = v.Validate(ctx, "APEL", "", "", "General")
	assert.True(t, verdict.IsValid, "empty constraints are trivially satisfied")

	verdict = v.Validate(ctx, "  ", "A", "L", "General")
	assert.False(t, verdict.IsValid)
	assert.Equal(t, "Kata kosong.", verdict.Reason)
}

func TestGroqValidator_FallsBackWhenUnreachable(t *testing.T) {
	// Nothing listens here; the request fails fast and the deterministic
	// check must take over.
	v := wordcheck.NewGroqValidator("http://127.0.0.1:1", "test-key",
		wordcheck.WithTimeout(200*time.Millisecond),
	)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	verdict := v.Validate(ctx, "APEL", "A", "L", "General")
	assert.True(t, verdict.IsValid, "letter check accepts the word")
	assert.Contains(t, verdict.Reason, "cek huruf dasar", "degraded mode is visible in the reason")

	verdict = v.Validate(ctx, "APEL", "Z", "L", "General")
	assert.False(t, verdict.IsValid)
}
