package scheduler

import (
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/rentorahq/rentora-backend/internal/services"
)

// Scheduler runs the nightly maintenance sweeps: flipping due payments
// to overdue and expiring leases past their end date.
type Scheduler struct {
	cron     *cron.Cron
	payments *services.PaymentService
	leases   *services.LeaseService
}

func New(payments *services.PaymentService, leases *services.LeaseService) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		payments: payments,
		leases:   leases,
	}
}

// Start registers the sweep on the given cron spec and begins the schedule.
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.runSweeps); err != nil {
		return err
	}
	s.cron.Start()
	slog.Info("scheduler started", "spec", spec)
	return nil
}

// Stop halts the schedule and waits for any running sweep to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) runSweeps() {
	now := time.Now()

	overdue, err := s.payments.MarkOverdue(now)
	if err != nil {
		slog.Error("overdue sweep failed", "error", err)
	} else if overdue > 0 {
		slog.Info("payments marked overdue", "count", overdue)
	}

	expired, err := s.leases.ExpireEnded(now)
	if err != nil {
		slog.Error("lease expiry sweep failed", "error", err)
	} else if expired > 0 {
		slog.Info("leases expired", "count", expired)
	}
}
