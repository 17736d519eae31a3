package main

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/katakuxiko/workspace-agent/internal/api"
	"github.com/katakuxiko/workspace-agent/internal/config"
	"github.com/katakuxiko/workspace-agent/internal/service"
	"github.com/katakuxiko/workspace-agent/internal/store"
)

func main() {
	// .env опционален
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	// config
	cfg := config.Load()

	// store
	guides, err := store.NewGuideStore(cfg.GuidesDir, "/guides")
	if err != nil {
		log.Fatal().Err(err).Msg("guide store init failed")
	}

	// services
	llm := service.NewLLMClient(cfg)
	rag := service.NewRagClient(cfg.RagBaseURL)
	copilot := service.NewCopilotClient(cfg.CopilotBaseURL)
	workspace := service.NewWorkspace(cfg, llm, rag, copilot, guides)

	// api
	app := fiber.New()
	api.RegisterRoutes(app, workspace, llm, cfg.GuidesDir)

	log.Info().Str("addr", cfg.ServerAddr).Msg("🚀 workspace agent started")
	log.Fatal().Err(app.Listen(cfg.ServerAddr)).Msg("server stopped")
}
