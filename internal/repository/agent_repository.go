package repository

import (
	"database/sql"
	"encoding/json"

	"github.com/developerfred/intentkit/internal/model"
)

type AgentRepository struct {
	db *sql.DB
}

func NewAgentRepository(db *sql.DB) *AgentRepository {
	return &AgentRepository{db: db}
}

// Upsert inserts the agent or refreshes an existing row, bumping updated_at
// so the scheduler notices the change.
func (r *AgentRepository) Upsert(agent *model.Agent) error {
	skills, err := marshalOrNull(agent.Skills, len(agent.Skills) > 0)
	if err != nil {
		return err
	}

	autonomous, err := marshalOrNull(agent.Autonomous, len(agent.Autonomous) > 0)
	if err != nil {
		return err
	}

	return r.db.QueryRow(`
		INSERT INTO agent(id, name, model, prompt, skills, autonomous)
		VALUES($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
			model = EXCLUDED.model,
			prompt = EXCLUDED.prompt,
			skills = EXCLUDED.skills,
			autonomous = EXCLUDED.autonomous,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`, agent.ID, agent.Name, agent.Model, agent.Prompt, skills, autonomous).Scan(&agent.CreatedAt, &agent.UpdatedAt)
}

// marshalOrNull keeps empty configs as SQL NULL so the scheduler's
// autonomous IS NOT NULL filter works.
func marshalOrNull(v any, populated bool) (any, error) {
	if !populated {
		return nil, nil
	}
	return json.Marshal(v)
}

func (r *AgentRepository) GetByID(id string) (*model.Agent, error) {
	var a model.Agent
	var skillsJSON, autonomousJSON []byte

	err := r.db.QueryRow(`
		SELECT id, name, model, prompt, skills, autonomous, created_at, updated_at
		FROM agent
		WHERE id = $1
	`, id).Scan(&a.ID, &a.Name, &a.Model, &a.Prompt, &skillsJSON, &autonomousJSON, &a.CreatedAt, &a.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	if err := unmarshalAgentJSON(&a, skillsJSON, autonomousJSON); err != nil {
		return nil, err
	}

	return &a, nil
}

func (r *AgentRepository) List() ([]model.Agent, error) {
	rows, err := r.db.Query(`
		SELECT id, name, model, prompt, skills, autonomous, created_at, updated_at
		FROM agent
		ORDER BY created_at ASC
	`)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAgents(rows)
}

// ListAutonomous returns agents carrying an autonomous task config.
func (r *AgentRepository) ListAutonomous() ([]model.Agent, error) {
	rows, err := r.db.Query(`
		SELECT id, name, model, prompt, skills, autonomous, created_at, updated_at
		FROM agent
		WHERE autonomous IS NOT NULL
		ORDER BY created_at ASC
	`)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAgents(rows)
}

func (r *AgentRepository) Count() (int, error) {
	var total int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM agent
	`).Scan(&total)
	return total, err
}

func scanAgents(rows *sql.Rows) ([]model.Agent, error) {
	var agents []model.Agent
	for rows.Next() {
		var a model.Agent
		var skillsJSON, autonomousJSON []byte

		err := rows.Scan(&a.ID, &a.Name, &a.Model, &a.Prompt, &skillsJSON, &autonomousJSON, &a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			return nil, err
		}

		if err := unmarshalAgentJSON(&a, skillsJSON, autonomousJSON); err != nil {
			return nil, err
		}

		agents = append(agents, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return agents, nil
}

func unmarshalAgentJSON(a *model.Agent, skillsJSON, autonomousJSON []byte) error {
	if len(skillsJSON) > 0 {
		if err := json.Unmarshal(skillsJSON, &a.Skills); err != nil {
			return err
		}
	}

	if len(autonomousJSON) > 0 {
		if err := json.Unmarshal(autonomousJSON, &a.Autonomous); err != nil {
			return err
		}
	}

	return nil
}
