package main // Entry point package

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/roomatch/roomatch-backend/internal/config"
	"github.com/roomatch/roomatch-backend/internal/database"
	"github.com/roomatch/roomatch-backend/internal/handler"
	"github.com/roomatch/roomatch-backend/internal/middleware"
	"github.com/roomatch/roomatch-backend/internal/queue"
	"github.com/roomatch/roomatch-backend/internal/realtime"
	"github.com/roomatch/roomatch-backend/internal/repository"
	"github.com/roomatch/roomatch-backend/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	// Redis backs both the rate limiter and the realtime message bus. A nil
	// client is tolerated everywhere: the API stays fully usable, only live
	// push and rate limiting switch off.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable: rate limiting and live delivery disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	prefs := repository.NewPreferenceRepo(db)
	messages := repository.NewMessageRepo(db)

	hub := realtime.NewHub()
	bridge := realtime.NewBridge(rdb, hub)
	go bridge.Run(context.Background())

	// Durable message.sent consumer (audit log). Runs its own reconnect loop.
	go func() {
		if err := queue.StartMessageConsumer(); err != nil {
			log.Printf("chat-consumer: %v", err)
		}
	}()

	e := echo.New()

	// Applied per group in the router, after JWTAuth where a caller exists,
	// so rate-limit keys see the authenticated user id.
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	userH := handler.NewUserHandler(users)
	prefH := handler.NewPreferenceHandler(users, prefs)
	matchH := handler.NewMatchHandler(prefs)
	chatH := handler.NewChatHandler(messages, users, rdb)
	wsH := &handler.WSHandler{
		Hub:                hub,
		JWTSecret:          cfg.JWTSecret,
		InsecureSkipVerify: strings.EqualFold(os.Getenv("WS_INSECURE_SKIP_VERIFY"), "true"),
	}

	router.RegisterRoutes(e)
	auth := router.RegisterAuth(e, authH, cfg.JWTSecret, limiter)
	router.RegisterAPI(e, auth, userH, prefH, matchH, chatH, cfg.JWTSecret, limiter)
	router.RegisterWS(e, wsH)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
