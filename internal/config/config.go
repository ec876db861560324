// Package config reads process configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything main needs to wire the application.
type Config struct {
	Port        string
	DBPath      string
	CascadePath string

	// ModelURL points at a remote scoring service. Empty selects the
	// built-in deterministic model.
	ModelURL string

	SpotifyClientID     string
	SpotifyClientSecret string
	SpotifyEnabled      bool

	Workers     int
	WorkerQueue int
}

// Load reads the environment. Spotify integration turns on only when both
// credentials are present; SPOTIFY_ENABLED=false forces demo mode regardless.
func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("DEBUG: no .env file loaded: %v", err)
	}

	cfg := &Config{
		Port:                getEnv("PORT", "8000"),
		DBPath:              getEnv("DB_PATH", "vibesense.db"),
		CascadePath:         getEnv("CASCADE_PATH", "cascade/facefinder"),
		ModelURL:            os.Getenv("MODEL_URL"),
		SpotifyClientID:     os.Getenv("SPOTIFY_CLIENT_ID"),
		SpotifyClientSecret: os.Getenv("SPOTIFY_CLIENT_SECRET"),
		Workers:             getEnvInt("WORKER_COUNT", 2),
		WorkerQueue:         getEnvInt("WORKER_QUEUE", 100),
	}

	cfg.SpotifyEnabled = cfg.SpotifyClientID != "" && cfg.SpotifyClientSecret != ""
	if raw := os.Getenv("SPOTIFY_ENABLED"); raw != "" {
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			log.Printf("WARN: invalid SPOTIFY_ENABLED value %q, ignoring", raw)
		} else {
			cfg.SpotifyEnabled = enabled && cfg.SpotifyClientID != "" && cfg.SpotifyClientSecret != ""
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("WARN: invalid %s value %q, using %d", key, raw, fallback)
		return fallback
	}
	return value
}
