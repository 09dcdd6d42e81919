package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// OverdueSweepJobName is the scheduler name of the invoice overdue sweep
const OverdueSweepJobName = "invoice-overdue-sweep"

// InvoiceSweeper marks sent invoices past their due date as overdue.
type InvoiceSweeper interface {
	MarkOverdue(ctx context.Context, now time.Time) (int, error)
}

// RunRecorder counts job outcomes. *metrics.Metrics satisfies it.
type RunRecorder interface {
	JobRun(job string, err error)
}

// OverdueSweepJob flips sent, past-due invoices to overdue.
type OverdueSweepJob struct {
	invoices InvoiceSweeper
	recorder RunRecorder
	logger   *zap.Logger
	timeout  time.Duration
	now      func() time.Time
}

func NewOverdueSweepJob(invoices InvoiceSweeper, recorder RunRecorder, logger *zap.Logger, timeout time.Duration) *OverdueSweepJob {
	return &OverdueSweepJob{
		invoices: invoices,
		recorder: recorder,
		logger:   logger,
		timeout:  timeout,
		now:      time.Now,
	}
}

// Run executes one sweep. Called by the scheduler.
func (j *OverdueSweepJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	marked, err := j.invoices.MarkOverdue(ctx, j.now())
	j.recorder.JobRun(OverdueSweepJobName, err)
	if err != nil {
		j.logger.Error("invoice overdue sweep failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	j.logger.Info("invoice overdue sweep completed",
		zap.Int("invoices_marked", marked),
		zap.Duration("duration", time.Since(start)))
}

// RegisterOverdueSweepJob adds the sweep to the scheduler
func RegisterOverdueSweepJob(scheduler *Scheduler, invoices InvoiceSweeper, recorder RunRecorder, logger *zap.Logger, cronExpr string, timeout time.Duration) error {
	job := NewOverdueSweepJob(invoices, recorder, logger, timeout)
	return scheduler.AddJob(OverdueSweepJobName, cronExpr, job.Run)
}
