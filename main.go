package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/clueloop/codenames/database"
	"github.com/clueloop/codenames/server"
	_ "github.com/lib/pq"
)

func main() {
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = time.RFC3339
	level, err := zerolog.ParseLevel(envOr("LOG_LEVEL", "info"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	db, derr := database.Open("psqlInfo.json")
	if derr != nil {
		log.Fatal().Err(derr).Msg("could not connect to database")
	}
	log.Info().Msg("connected to database")

	if derr := database.Automigrate(db); derr != nil {
		log.Fatal().Err(derr).Msg("could not migrate database")
	}
	log.Info().Msg("migrated the database")

	llm := server.LLMConfig{
		APIKey:  os.Getenv("LLM_API_KEY"),
		Model:   envOr("LLM_MODEL", "gpt-4.1"),
		BaseURL: os.Getenv("LLM_BASE_URL"),
	}

	s := server.New(db, llm, log)
	address := "localhost:" + envOr("PORT", "8080")
	if err := s.Connect(address); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
