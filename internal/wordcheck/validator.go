// Package wordcheck judges whether a submitted word satisfies the active
// game constraints. The real referee is an external LLM oracle; when it is
// unreachable the package degrades to a deterministic letter check so a
// round can always resolve.
package wordcheck

import (
	"context"
	"strings"
	"unicode/utf8"
)

// Verdict is the oracle's decision. Reason is shown to the submitting
// player as-is, so it is written in Indonesian like the rest of the game.
type Verdict struct {
	IsValid bool   `json:"isValid"`
	Reason  string `json:"reason"`
}

// Validator always produces a verdict within a bounded time; transport and
// parse failures are absorbed, never surfaced as errors.
type Validator interface {
	Validate(ctx context.Context, word, startLetter, endLetter, category string) Verdict
}

// LetterCheckValidator is the deterministic fallback: the word's first and
// last characters must match the given constraints, case-insensitively. An
// empty constraint is trivially satisfied. It is used standalone when no
// oracle is configured, and by GroqValidator on oracle failure.
type LetterCheckValidator struct{}

func (LetterCheckValidator) Validate(_ context.Context, word, startLetter, endLetter, _ string) Verdict {
	return letterCheck(word, startLetter, endLetter, "")
}

func letterCheck(word, startLetter, endLetter, degradedNote string) Verdict {
	w := strings.ToLower(strings.TrimSpace(word))
	if utf8.RuneCountInString(w) == 0 {
		return Verdict{IsValid: false, Reason: "Kata kosong."}
	}

	ok := true
	if s := strings.ToLower(strings.TrimSpace(startLetter)); s != "" {
		ok = ok && strings.HasPrefix(w, s)
	}
	if e := strings.ToLower(strings.TrimSpace(endLetter)); e != "" {
		ok = ok && strings.HasSuffix(w, e)
	}

	if !ok {
		return Verdict{IsValid: false, Reason: "Kata tidak cocok dengan huruf yang diminta (cek dasar)."}
	}
	reason := "Kata diterima (cek huruf dasar)."
	if degradedNote != "" {
		reason = degradedNote
	}
	return Verdict{IsValid: true, Reason: reason}
}
