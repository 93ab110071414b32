package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KirkDiggler/partysync/internal/common/clock"
	"github.com/KirkDiggler/partysync/internal/common/uuid"
	"github.com/KirkDiggler/partysync/internal/config"
	"github.com/KirkDiggler/partysync/internal/handlers/httpapi"
	presenceRepo "github.com/KirkDiggler/partysync/internal/repositories/presence"
	sessionRepo "github.com/KirkDiggler/partysync/internal/repositories/session"
	"github.com/KirkDiggler/partysync/internal/services/channel"
	"github.com/KirkDiggler/partysync/internal/services/directory"
	"github.com/KirkDiggler/partysync/internal/services/presence"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()

	// Test Redis connection
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Initialize repositories
	sessions, err := sessionRepo.NewRedis(&sessionRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		log.Fatalf("Failed to create session repository: %v", err)
	}

	leases, err := presenceRepo.NewRedis(&presenceRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		log.Fatalf("Failed to create presence repository: %v", err)
	}

	realClock := &clock.DefaultClock{}

	// Initialize services
	presenceSvc, err := presence.New(&presence.Config{
		LeaseTTL:     cfg.LeaseTTL,
		PresenceRepo: leases,
		SessionRepo:  sessions,
		Clock:        realClock,
	})
	if err != nil {
		log.Fatalf("Failed to create presence service: %v", err)
	}

	directorySvc, err := directory.New(&directory.Config{
		PreGamePhases: cfg.PreGamePhases,
		SessionRepo:   sessions,
		Presence:      presenceSvc,
		Clock:         realClock,
		UUIDGenerator: uuid.New(),
	})
	if err != nil {
		log.Fatalf("Failed to create directory service: %v", err)
	}

	channelSvc, err := channel.New(&channel.Config{
		SessionRepo: sessions,
		Clock:       realClock,
	})
	if err != nil {
		log.Fatalf("Failed to create channel service: %v", err)
	}

	server, err := httpapi.New(&httpapi.Config{
		Addr:      cfg.HTTPAddr,
		Directory: directorySvc,
		Channel:   channelSvc,
		Presence:  presenceSvc,
	})
	if err != nil {
		log.Fatalf("Failed to create HTTP server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	j := &janitor{
		presence:      presenceSvc,
		directory:     directorySvc,
		sweepInterval: cfg.SweepInterval,
		staleAge:      cfg.StaleSessionAge,
	}
	go j.run(ctx)

	if err := server.Start(); err != nil {
		log.Fatalf("Failed to start HTTP server: %v", err)
	}

	// Wait for interrupt signal to gracefully shutdown
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Stop(shutdownCtx); err != nil {
		log.Printf("Error stopping HTTP server: %v", err)
	}

	log.Println("syncd has been shut down")
}
