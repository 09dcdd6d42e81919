package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/solarepc/epc-api/internal/domain"
	"github.com/solarepc/epc-api/internal/warehouse"
	"go.uber.org/zap"
)

// SnapshotJobName is the scheduler name of the warehouse export
const SnapshotJobName = "warehouse-snapshot"

type DashboardStatsSource interface {
	Stats(ctx context.Context) (*domain.DashboardStatsDTO, error)
}

type PipelineStatsSource interface {
	Stats(ctx context.Context) ([]domain.LeadStageStatDTO, error)
}

type FinanceStatsSource interface {
	Stats(ctx context.Context) (*domain.FinanceStatsDTO, error)
}

// SnapshotWriter persists a snapshot. *warehouse.Client satisfies it.
type SnapshotWriter interface {
	WriteSnapshot(ctx context.Context, s warehouse.Snapshot) error
}

// SnapshotJob exports dashboard, pipeline and finance aggregates to the warehouse.
type SnapshotJob struct {
	dashboard DashboardStatsSource
	pipeline  PipelineStatsSource
	finance   FinanceStatsSource
	writer    SnapshotWriter
	recorder  RunRecorder
	logger    *zap.Logger
	timeout   time.Duration
	now       func() time.Time
}

func NewSnapshotJob(
	dashboard DashboardStatsSource,
	pipeline PipelineStatsSource,
	finance FinanceStatsSource,
	writer SnapshotWriter,
	recorder RunRecorder,
	logger *zap.Logger,
	timeout time.Duration,
) *SnapshotJob {
	return &SnapshotJob{
		dashboard: dashboard,
		pipeline:  pipeline,
		finance:   finance,
		writer:    writer,
		recorder:  recorder,
		logger:    logger,
		timeout:   timeout,
		now:       time.Now,
	}
}

// Run collects the aggregates and writes one snapshot. Called by the scheduler.
func (j *SnapshotJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	err := j.export(ctx)
	j.recorder.JobRun(SnapshotJobName, err)
	if err != nil {
		j.logger.Error("warehouse snapshot failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}
	j.logger.Info("warehouse snapshot completed", zap.Duration("duration", time.Since(start)))
}

func (j *SnapshotJob) export(ctx context.Context) error {
	dashboard, err := j.dashboard.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to load dashboard stats: %w", err)
	}
	pipeline, err := j.pipeline.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to load pipeline stats: %w", err)
	}
	finance, err := j.finance.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to load finance stats: %w", err)
	}

	return j.writer.WriteSnapshot(ctx, warehouse.Snapshot{
		TakenAt:   j.now().UTC(),
		Dashboard: *dashboard,
		Pipeline:  pipeline,
		Finance:   *finance,
	})
}

// RegisterSnapshotJob adds the warehouse export to the scheduler
func RegisterSnapshotJob(scheduler *Scheduler, job *SnapshotJob, cronExpr string) error {
	return scheduler.AddJob(SnapshotJobName, cronExpr, job.Run)
}
