package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/bimantaraz/game-kata/internal/api/handler"
	"github.com/bimantaraz/game-kata/internal/config"
	"github.com/bimantaraz/game-kata/internal/gamehub"
	"github.com/bimantaraz/game-kata/internal/obslog"
	"github.com/bimantaraz/game-kata/internal/wordcheck"
)

func main() {
	_ = godotenv.Load()
	obslog.InitFromEnv()

	cfg := config.Load()

	var validator wordcheck.Validator
	if cfg.GroqAPIKey != "" {
		validator = wordcheck.NewGroqValidator(cfg.GroqBaseURL, cfg.GroqAPIKey,
			wordcheck.WithModel(cfg.GroqModel),
			wordcheck.WithTimeout(cfg.OracleTimeout),
		)
	} else {
		obslog.L().Warn("no_oracle_key", zap.String("mode", "letter-check only"))
		validator = wordcheck.LetterCheckValidator{}
	}

	hub := gamehub.NewHub(cfg, validator)
	go hub.Run()

	r := gin.Default()
	h := handler.NewHandler(hub, []byte(cfg.JWTSecret))

	r.GET("/session", h.GetSession)
	r.GET("/ws", h.ServeWebSocket)
	r.GET("/rooms", h.Rooms)
	r.GET("/healthz", h.Healthz)

	server := &http.Server{
		Addr:           cfg.Addr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	obslog.L().Info("server_listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil {
		obslog.L().Fatal("server_stopped", zap.Error(err))
	}
}
