package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vibesense/vibesense/internal/adapters/inference"
	"github.com/vibesense/vibesense/internal/adapters/pigo"
	"github.com/vibesense/vibesense/internal/adapters/rest"
	"github.com/vibesense/vibesense/internal/adapters/spotify"
	"github.com/vibesense/vibesense/internal/adapters/sqlite"
	"github.com/vibesense/vibesense/internal/adapters/ws"
	"github.com/vibesense/vibesense/internal/config"
	"github.com/vibesense/vibesense/internal/core/ports"
	"github.com/vibesense/vibesense/internal/core/services"
	"github.com/vibesense/vibesense/internal/worker"
)

func main() {
	// 1. Configuration (Environment Variables)
	cfg := config.Load()

	// 2. Initialize "Driven" Adapters (The Tools)
	// -- Database Adapter
	db, err := sqlite.NewAdapter(cfg.DBPath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	defer db.Close()

	// -- Face Locator
	locator, err := pigo.NewLocator(cfg.CascadePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to load face detection cascade: %v", err)
	}

	// -- Emotion Model
	// A remote scoring service when configured, the deterministic built-in
	// model otherwise. Both are safe for concurrent use as is.
	var model ports.EmotionModel
	if cfg.ModelURL != "" {
		model = inference.NewClient(cfg.ModelURL)
		log.Printf("DEBUG: using remote emotion model at %s", cfg.ModelURL)
	} else {
		model = inference.NewStubModel()
		log.Println("DEBUG: using built-in deterministic emotion model")
	}

	// -- Spotify Adapter
	spotifyClient := spotify.NewClient(spotify.Config{
		ClientID:     cfg.SpotifyClientID,
		ClientSecret: cfg.SpotifyClientSecret,
		Enabled:      cfg.SpotifyEnabled,
	})
	if cfg.SpotifyEnabled {
		log.Println("DEBUG: Spotify integration enabled")
	} else {
		log.Println("DEBUG: Spotify integration in demo mode")
	}

	// 3. Initialize Core Logic (The Driver)
	inferenceEngine := services.NewInferenceEngine(locator, model)
	recommender := services.NewRecommender(db, spotifyClient, db, nil)

	// 4. Initialize "Driving" Adapters (The Interfaces)
	pool := worker.NewPool(db, cfg.WorkerQueue)
	pool.Start(cfg.Workers)
	defer pool.Stop()

	restHandler := rest.NewHandler(inferenceEngine, recommender, spotifyClient, db, pool)
	wsHandler := ws.NewHandler(inferenceEngine)

	mux := http.NewServeMux()
	mux.Handle("/ws/emotion-detection", wsHandler)
	mux.Handle("/", restHandler)

	// 5. Start the Server
	log.Println("------------------------------------------------")
	log.Printf("VibeSense API is running on http://localhost:%s", cfg.Port)
	log.Println("------------------------------------------------")

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 15 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Fatal(err)
		}
	case <-ctx.Done():
		log.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}
}
