package scheduler

import (
	"context"
	"time"

	"support-ops-dashboard/backend/internal/service"
	"support-ops-dashboard/backend/pkg/logger"

	"github.com/robfig/cron/v3"
)

// Scheduler runs background jobs on cron schedules. Currently its only job
// advances maintenance windows through their lifecycle as the clock crosses
// window boundaries.
type Scheduler struct {
	cron        *cron.Cron
	maintenance *service.MaintenanceService
	log         *logger.Logger
}

// New creates a scheduler with the maintenance advancement job registered on
// the given cron spec (e.g. "@every 1m").
func New(maintenance *service.MaintenanceService, spec string, log *logger.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:        cron.New(),
		maintenance: maintenance,
		log:         log,
	}
	if _, err := s.cron.AddFunc(spec, s.advanceMaintenance); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) advanceMaintenance() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := s.maintenance.AdvanceWindows(ctx, time.Now()); err != nil {
		s.log.Error("maintenance advancement job failed", "error", err.Error())
	}
}

// Start begins running jobs on their schedules.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started")
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("scheduler stopped")
}
