package main

import (
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/developerfred/intentkit/db"
	"github.com/developerfred/intentkit/internal/engine"
	"github.com/developerfred/intentkit/internal/handler"
	"github.com/developerfred/intentkit/internal/repository"
	"github.com/developerfred/intentkit/pkg/cryptocompare"
	"github.com/developerfred/intentkit/pkg/finnhub"
	"github.com/developerfred/intentkit/pkg/llm"
	"github.com/developerfred/intentkit/pkg/ratelimit"
	"github.com/developerfred/intentkit/pkg/skill"
)

func main() {

	godotenv.Load()

	err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	if err := db.EnsureSchema(); err != nil {
		log.Fatalf("error preparing schema: %v", err)
	}

	store := newLimiterStore()
	defer db.CloseRedis()

	agentRepo := repository.NewAgentRepository(db.DB)
	callRepo := repository.NewCallRepository(db.DB)

	eng := engine.New(newPlanner(), newRegistry(store), agentRepo, callRepo)
	agentHandler := handler.NewAgentHandler(agentRepo, callRepo, eng)

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}

	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.GET("/agents", agentHandler.GetAgents)
	r.GET("/agents/:id", agentHandler.GetAgent)
	r.POST("/agents/:id/skills/:skill", agentHandler.InvokeSkill)
	r.GET("/agents/:id/calls", agentHandler.GetCalls)
	r.GET("/health", agentHandler.GetHealth)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	err = r.Run(":" + port)
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}

// newLimiterStore prefers Redis so rate limits hold across processes.
func newLimiterStore() ratelimit.Store {
	if os.Getenv("REDIS_URL") == "" {
		slog.Warn("REDIS_URL not set, rate limits are per-process only")
		return ratelimit.NewMemoryStore()
	}

	if err := db.ConnectRedis(); err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}

	return ratelimit.NewRedisStore(db.Redis)
}

func newRegistry(store ratelimit.Store) *skill.Registry {
	registry := skill.NewRegistry()
	registry.Register(cryptocompare.NewFetchNews(cryptocompare.NewClient(), newLimiter(store, cryptocompare.Category)))
	registry.Register(finnhub.NewMarketNews(newLimiter(store, finnhub.Category)))
	return registry
}

func newLimiter(store ratelimit.Store, scope string) *ratelimit.Limiter {
	max := envInt("RATE_LIMIT_MAX", 30)
	window := time.Duration(envInt("RATE_LIMIT_WINDOW_SECONDS", 3600)) * time.Second
	return ratelimit.New(store, scope, int64(max), window)
}

func newPlanner() llm.Client {
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		return llm.NewAnthropicClient(key)
	}
	return llm.NewOpenAIClient(os.Getenv("OPENAI_API_KEY"))
}

func envInt(name string, defaultValue int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("invalid environment variable, using default", "name", name, "value", raw, "error", err)
		return defaultValue
	}

	return value
}
