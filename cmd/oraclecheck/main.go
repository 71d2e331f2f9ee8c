// Command oraclecheck validates a single word against the configured oracle
// from the terminal. Handy for checking credentials and prompt behavior
// without starting the server.
//
//	GROQ_API_KEY=... go run ./cmd/oraclecheck APEL A L Buah
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/bimantaraz/game-kata/internal/config"
	"github.com/bimantaraz/game-kata/internal/obslog"
	"github.com/bimantaraz/game-kata/internal/wordcheck"
)

func main() {
	_ = godotenv.Load()
	obslog.InitFromEnv()

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: oraclecheck WORD [START] [END] [CATEGORY]")
		os.Exit(2)
	}
	word := os.Args[1]
	arg := func(i int) string {
		if len(os.Args) > i {
			return os.Args[i]
		}
		return ""
	}
	startLetter, endLetter, category := arg(2), arg(3), arg(4)
	if category == "" {
		category = "General"
	}

	cfg := config.Load()

	var validator wordcheck.Validator
	if cfg.GroqAPIKey != "" {
		validator = wordcheck.NewGroqValidator(cfg.GroqBaseURL, cfg.GroqAPIKey,
			wordcheck.WithModel(cfg.GroqModel),
			wordcheck.WithTimeout(cfg.OracleTimeout),
		)
	} else {
		fmt.Fprintln(os.Stderr, "GROQ_API_KEY not set, using local letter check")
		validator = wordcheck.LetterCheckValidator{}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.OracleTimeout)
	defer cancel()

	verdict := validator.Validate(ctx, word, startLetter, endLetter, category)
	fmt.Printf("word:    %s\nvalid:   %v\nreason:  %s\n", word, verdict.IsValid, verdict.Reason)
	if !verdict.IsValid {
		os.Exit(1)
	}
}
