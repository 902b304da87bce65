package autonomous

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/developerfred/intentkit/internal/model"
)

// Runner executes one autonomous task run.
type Runner interface {
	RunTask(ctx context.Context, agent *model.Agent, task model.AutonomousTask)
}

// AgentSource lists agents carrying autonomous task configs.
type AgentSource interface {
	ListAutonomous() ([]model.Agent, error)
}

type agentEntry struct {
	updatedAt time.Time
	tasks     map[string]cron.EntryID
}

// Scheduler keeps cron entries in sync with stored agent configs. It is
// driven from a single goroutine via Run; Refresh is not safe to call
// concurrently with itself.
type Scheduler struct {
	cron      *cron.Cron
	agents    AgentSource
	runner    Runner
	scheduled map[string]*agentEntry
	interval  time.Duration
}

func New(agents AgentSource, runner Runner) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		agents:    agents,
		runner:    runner,
		scheduled: make(map[string]*agentEntry),
		interval:  5 * time.Minute,
	}
}

// Run refreshes the schedule immediately, then keeps it in sync until ctx is
// done. Jobs already running when ctx fires are allowed to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.Refresh(); err != nil {
		return err
	}

	s.cron.Start()
	defer func() {
		<-s.cron.Stop().Done()
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("scheduler stopping")
			return nil
		case <-ticker.C:
			if err := s.Refresh(); err != nil {
				slog.Error("error refreshing schedule", "error", err)
			}
		}
	}
}

// Refresh syncs cron entries with the stored agent configs. Agents whose
// updated_at is unchanged since their last scheduling keep their entries;
// changed agents are rescheduled from scratch and vanished agents pruned.
func (s *Scheduler) Refresh() error {
	agents, err := s.agents.ListAutonomous()
	if err != nil {
		return fmt.Errorf("list autonomous agents: %w", err)
	}

	seen := make(map[string]bool, len(agents))

	for _, agent := range agents {
		seen[agent.ID] = true

		cur, ok := s.scheduled[agent.ID]
		if ok && !cur.updatedAt.Before(agent.UpdatedAt) {
			continue
		}

		s.unschedule(agent.ID)
		s.schedule(agent)
	}

	for id := range s.scheduled {
		if !seen[id] {
			s.unschedule(id)
		}
	}

	return nil
}

func (s *Scheduler) schedule(agent model.Agent) {
	entry := &agentEntry{
		updatedAt: agent.UpdatedAt,
		tasks:     make(map[string]cron.EntryID),
	}

	for _, task := range agent.Autonomous {
		if !task.Enabled {
			continue
		}

		taskID := fmt.Sprintf("%s-%s", agent.ID, task.ID)

		id, err := s.add(agent, task)
		if err != nil {
			slog.Error("invalid autonomous configuration", "task", taskID, "error", err)
			continue
		}

		entry.tasks[taskID] = id
		slog.Info("scheduled task", "task", taskID, "cron", task.Cron, "minutes", task.Minutes)
	}

	s.scheduled[agent.ID] = entry
}

// add registers the task's trigger. Cron wins when both are configured.
func (s *Scheduler) add(agent model.Agent, task model.AutonomousTask) (cron.EntryID, error) {
	run := func() {
		s.runner.RunTask(context.Background(), &agent, task)
	}

	if task.Cron != "" {
		return s.cron.AddFunc(task.Cron, run)
	}

	if task.Minutes > 0 {
		return s.cron.Schedule(cron.Every(time.Duration(task.Minutes)*time.Minute), cron.FuncJob(run)), nil
	}

	return 0, errors.New("task has neither cron nor minutes")
}

func (s *Scheduler) unschedule(agentID string) {
	cur, ok := s.scheduled[agentID]
	if !ok {
		return
	}

	for taskID, id := range cur.tasks {
		s.cron.Remove(id)
		slog.Info("removed task", "task", taskID)
	}

	delete(s.scheduled, agentID)
}
