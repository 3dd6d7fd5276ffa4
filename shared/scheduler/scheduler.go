package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/samasastudio/brutalcast/shared/monitoring"

	"github.com/robfig/cron/v3"
)

// Agent is a unit of scheduled work.
type Agent interface {
	Name() string
	Initialize() error
	RunOnce(ctx context.Context) error
}

// Scheduler runs an agent on a cron schedule, recording each run's outcome
// with the monitor.
type Scheduler struct {
	schedule string
	monitor  *monitoring.Monitor
	agent    Agent
	cron     *cron.Cron
}

func New(schedule string, monitor *monitoring.Monitor, agent Agent) *Scheduler {
	return &Scheduler{
		schedule: schedule,
		monitor:  monitor,
		agent:    agent,
		cron:     cron.New(),
	}
}

// RunOnce executes the agent a single time.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	start := time.Now()
	if err := s.agent.RunOnce(ctx); err != nil {
		s.monitor.RecordFailure(err, time.Since(start))
		return err
	}
	s.monitor.RecordSuccess(fmt.Sprintf("%s run", s.agent.Name()), time.Since(start))
	return nil
}

// Start schedules the agent and blocks until the context is canceled.
func (s *Scheduler) Start(ctx context.Context) error {
	if err := s.agent.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize %s: %w", s.agent.Name(), err)
	}

	_, err := s.cron.AddFunc(s.schedule, func() {
		log.Printf("Scheduled run of %s starting...", s.agent.Name())
		if err := s.RunOnce(ctx); err != nil {
			log.Printf("Scheduled run of %s failed: %v", s.agent.Name(), err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", s.schedule, err)
	}

	log.Printf("Scheduling %s with cron expression %q", s.agent.Name(), s.schedule)
	s.cron.Start()

	<-ctx.Done()
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	return nil
}
