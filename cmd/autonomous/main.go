package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/developerfred/intentkit/db"
	"github.com/developerfred/intentkit/internal/autonomous"
	"github.com/developerfred/intentkit/internal/engine"
	"github.com/developerfred/intentkit/internal/repository"
	"github.com/developerfred/intentkit/pkg/cryptocompare"
	"github.com/developerfred/intentkit/pkg/finnhub"
	"github.com/developerfred/intentkit/pkg/llm"
	"github.com/developerfred/intentkit/pkg/ratelimit"
	"github.com/developerfred/intentkit/pkg/skill"
)

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if os.Getenv("ANTHROPIC_API_KEY") == "" && os.Getenv("OPENAI_API_KEY") == "" {
		log.Fatalf("no LLM API key configured, set ANTHROPIC_API_KEY or OPENAI_API_KEY")
	}

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
	scheduler := autonomous.New(agentRepo, eng)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := scheduler.Run(ctx); err != nil {
		log.Fatalf("error running scheduler: %v", err)
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
