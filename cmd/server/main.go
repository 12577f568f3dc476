package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/pkalinn/revolver/internal/chamber"
	"github.com/pkalinn/revolver/internal/common/clock"
	"github.com/pkalinn/revolver/internal/common/uuid"
	"github.com/pkalinn/revolver/internal/handlers/api"
	"github.com/pkalinn/revolver/internal/handlers/ws"
	gameRepo "github.com/pkalinn/revolver/internal/repositories/game"
)

func main() {
	// Load .env if present; real env vars win
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	clk := clock.New()
	spinner := chamber.New(&chamber.Config{})
	idGen := uuid.New()

	// Initialize the realtime coordinator
	wsServer, err := ws.New(&ws.Config{
		Clock:         clk,
		Spinner:       spinner,
		UUIDGenerator: idGen,
	})
	if err != nil {
		log.Fatalf("Failed to create websocket coordinator: %v", err)
	}
	wsServer.Start()

	router := gin.Default()
	router.GET("/ws", wsServer.HandleConnection)

	// The stateless transport is mounted only when a keyed store is
	// configured; the realtime server runs without one.
	if redisAddr := getEnv("REDIS_ADDR", ""); redisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       0,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		cancel()

		repo, err := gameRepo.NewRedis(&gameRepo.Config{
			RedisClient: redisClient,
		})
		if err != nil {
			log.Fatalf("Failed to create game repository: %v", err)
		}

		apiHandler, err := api.New(&api.Config{
			Repo:          repo,
			Clock:         clk,
			Spinner:       spinner,
			UUIDGenerator: idGen,
		})
		if err != nil {
			log.Fatalf("Failed to create API handler: %v", err)
		}
		apiHandler.Register(router.Group("/api"))

		log.Printf("Stateless API mounted, store at %s", redisAddr)
	}

	srv := &http.Server{
		Addr:    ":" + getEnv("PORT", "3000"),
		Handler: router,
	}

	go func() {
		log.Printf("Server running on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	wsServer.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error shutting down server: %v", err)
	}

	log.Println("Server has been shut down")
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
