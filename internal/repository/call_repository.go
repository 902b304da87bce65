package repository

import (
	"database/sql"

	"github.com/developerfred/intentkit/internal/model"
)

type CallRepository struct {
	db *sql.DB
}

func NewCallRepository(db *sql.DB) *CallRepository {
	return &CallRepository{db: db}
}

func (r *CallRepository) Save(call *model.SkillCall) error {
	return r.db.QueryRow(`
		INSERT INTO skill_call(agent_id, skill, arguments, output, success, error)
		VALUES($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, call.AgentID, call.Skill, call.Arguments, call.Output, call.Success, call.Error).Scan(&call.ID, &call.CreatedAt)
}

func (r *CallRepository) ListByAgent(agentID string, limit int) ([]model.SkillCall, error) {
	rows, err := r.db.Query(`
		SELECT id, agent_id, skill, arguments, output, success, error, created_at
		FROM skill_call
		WHERE agent_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, agentID, limit)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var calls []model.SkillCall
	for rows.Next() {
		var c model.SkillCall
		err := rows.Scan(&c.ID, &c.AgentID, &c.Skill, &c.Arguments, &c.Output, &c.Success, &c.Error, &c.CreatedAt)
		if err != nil {
			return nil, err
		}
		calls = append(calls, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return calls, nil
}
