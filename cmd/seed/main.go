package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/developerfred/intentkit/db"
	"github.com/developerfred/intentkit/internal/agentfile"
	"github.com/developerfred/intentkit/internal/model"
	"github.com/developerfred/intentkit/internal/repository"
	"github.com/developerfred/intentkit/pkg/cryptocompare"
	"github.com/developerfred/intentkit/pkg/finnhub"
)

func main() {

	file := flag.String("file", "agents.yaml", "path to the agents file")
	flag.Parse()

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	f, err := agentfile.Load(*file)
	if err != nil {
		log.Fatalf("error loading agents file: %v", err)
	}

	err = db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	if err := db.EnsureSchema(); err != nil {
		log.Fatalf("error preparing schema: %v", err)
	}

	repo := repository.NewAgentRepository(db.DB)

	for _, cfg := range f.Agents {
		agent := cfg.Agent()

		applyDefaultKeys(agent)

		if err := repo.Upsert(agent); err != nil {
			log.Fatalf("error saving agent %s: %v", agent.ID, err)
		}

		slog.Info("agent saved", "agent_id", agent.ID, "skills", len(agent.Skills), "tasks", len(agent.Autonomous))
	}

	slog.Info("seed complete", "agents", len(f.Agents))
}

// applyDefaultKeys fills missing api_key entries from the environment so
// seed files can stay free of secrets.
func applyDefaultKeys(agent *model.Agent) {
	defaults := map[string]string{
		cryptocompare.Category: "CRYPTOCOMPARE_API_KEY",
		finnhub.Category:       "FINNHUB_API_KEY",
	}

	for category, envName := range defaults {
		config, ok := agent.Skills[category]
		if !ok {
			continue
		}

		if config == nil {
			config = map[string]string{}
			agent.Skills[category] = config
		}

		if config["api_key"] == "" {
			if key := os.Getenv(envName); key != "" {
				config["api_key"] = key
			}
		}
	}
}
