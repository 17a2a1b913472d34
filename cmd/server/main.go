package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voxbridge/internal/answer"
	"voxbridge/internal/attributes"
	"voxbridge/internal/config"
	"voxbridge/internal/database"
	"voxbridge/internal/handlers"
	"voxbridge/internal/middleware"
	"voxbridge/internal/persona"
	"voxbridge/internal/repository"
	"voxbridge/internal/router"
	"voxbridge/internal/skill"
	"voxbridge/internal/websocket"
	"voxbridge/internal/worker"
)

func main() {
	log.Println("🚀 Starting VoxBridge...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Clients ────
	redisClients, err := database.NewRedisClients(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClients.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Step 5: Initialize Persistence ────
	store, err := attributes.NewStore(cfg.StoreDriver, pool, redisClients.Queue)
	if err != nil {
		log.Fatalf("✗ Attributes store initialization failed: %v", err)
	}
	if store != nil {
		log.Printf("✓ Attributes store ready (%s)", cfg.StoreDriver)
	} else {
		log.Println("✓ Attributes persistence disabled")
	}
	transcriptRepo := repository.NewTranscriptRepo(pool)

	// ──── Step 6: Initialize Answer Backend ────
	provider, err := answer.NewProvider(answer.Config{
		Provider:  cfg.AnswerProvider,
		BaseURL:   cfg.AnswerBaseURL,
		APIKey:    cfg.AnswerAPIKey,
		Model:     cfg.ModelName,
		MaxTokens: cfg.MaxTokens,
	})
	if err != nil {
		log.Fatalf("✗ Answer provider initialization failed: %v", err)
	}
	if closer, ok := provider.(io.Closer); ok {
		defer closer.Close()
	}
	answerService := answer.NewService(provider, time.Duration(cfg.AnswerTimeout)*time.Second)
	log.Printf("✓ Answer backend ready (%s)", provider.Name())

	// ──── Step 7: Load Persona ────
	personaPrompt, err := persona.New(cfg.PersonaPath)
	if err != nil {
		log.Fatalf("✗ Persona load failed: %v", err)
	}
	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	if cfg.PersonaPath != "" {
		if err := personaPrompt.Watch(watchCtx); err != nil {
			log.Printf("Persona file watch unavailable: %v", err)
		} else {
			log.Printf("✓ Persona loaded from %s (watching for changes)", cfg.PersonaPath)
		}
	} else {
		log.Println("✓ Persona loaded (built-in prompt)")
	}

	// ──── Step 8: Assemble Skill Dispatcher ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	askHandler := &skill.AskHandler{
		Answer:               answerService,
		Persona:              personaPrompt,
		Store:                store,
		Redis:                redisClients.Queue,
		MaxHistoryEntries:    cfg.MaxHistoryEntries,
		MaxSpeechLength:      cfg.MaxResponseLength,
		TopicResetEnabled:    cfg.TopicResetEnabled,
		TopicResetMinOverlap: cfg.TopicResetMinOverlap,
	}
	dispatcher := skill.NewDispatcher(
		&skill.LaunchHandler{Store: store},
		askHandler,
		&skill.HelpHandler{},
		&skill.StopHandler{},
		&skill.FallbackHandler{},
		&skill.SessionEndedHandler{Store: store},
	)
	verifier := skill.NewVerifier(cfg.SkillID)

	skillHandler := handlers.NewSkillHandler(dispatcher, verifier)
	consoleHandler := handlers.NewConsoleHandler(jwtAuth, cfg.ConsolePasswordHash, dispatcher, store, transcriptRepo)

	// ──── Step 9: Start Archive Worker Pool ────
	workerPool := worker.NewPool(redisClients.Queue, transcriptRepo, cfg.ArchiveWorkers)
	workerPool.Start()
	log.Printf("✓ Archive worker pool started (%d goroutines)", cfg.ArchiveWorkers)

	// ──── Step 10: Start WebSocket Hub ────
	wsHub := websocket.NewHub(redisClients.PubSub, jwtAuth)
	log.Println("✓ WebSocket hub started")

	// ──── Step 11: Start HTTP Server ────
	r := router.New(jwtAuth, skillHandler, consoleHandler, wsHub, cfg.FrontendURL)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		workerPool.Stop()
		stopWatch()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ VoxBridge ready on http://localhost:%s", cfg.Port)
	log.Printf("  Webhook: http://localhost:%s/skill", cfg.Port)
	log.Printf("  Console: http://localhost:%s/api/v1/console", cfg.Port)
	log.Printf("  WS:      ws://localhost:%s/api/v1/console/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
