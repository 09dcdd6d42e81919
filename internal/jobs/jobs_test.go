package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/solarepc/epc-api/internal/domain"
	"github.com/solarepc/epc-api/internal/jobs"
	"github.com/solarepc/epc-api/internal/metrics"
	"github.com/solarepc/epc-api/internal/warehouse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestScheduler_AddRemove(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())

	require.NoError(t, s.AddJob("b", "0 0 * * * *", func() {}))
	require.NoError(t, s.AddJob("a", "@every 1h", func() {}))
	assert.Equal(t, []string{"a", "b"}, s.JobNames())

	assert.Error(t, s.AddJob("a", "@every 1h", func() {}), "duplicate names are rejected")
	assert.Error(t, s.AddJob("c", "not a cron", func() {}))

	require.NoError(t, s.RemoveJob("a"))
	assert.Error(t, s.RemoveJob("a"))
	assert.Equal(t, []string{"b"}, s.JobNames())
}

func TestScheduler_RunsJobs(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())
	ran := make(chan struct{}, 1)
	require.NoError(t, s.AddJob("tick", "* * * * * *", func() {
		select {
		case ran <- struct{}{}:
		default:
		}
	}))

	s.Start()
	defer s.Stop()

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}
}

type fakeSweeper struct {
	marked int
	err    error
	calls  int
}

func (f *fakeSweeper) MarkOverdue(_ context.Context, _ time.Time) (int, error) {
	f.calls++
	return f.marked, f.err
}

func TestOverdueSweepJob_RecordsOutcome(t *testing.T) {
	m := metrics.New(zap.NewNop())

	ok := &fakeSweeper{marked: 2}
	jobs.NewOverdueSweepJob(ok, m, zap.NewNop(), time.Second).Run()
	assert.Equal(t, 1, ok.calls)

	failing := &fakeSweeper{err: errors.New("db down")}
	jobs.NewOverdueSweepJob(failing, m, zap.NewNop(), time.Second).Run()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.JobRuns.WithLabelValues(jobs.OverdueSweepJobName, "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.JobRuns.WithLabelValues(jobs.OverdueSweepJobName, "error")))
}

func TestRegisterOverdueSweepJob(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())
	require.NoError(t, jobs.RegisterOverdueSweepJob(s, &fakeSweeper{}, metrics.New(zap.NewNop()), zap.NewNop(), "0 0 * * * *", time.Minute))
	assert.Equal(t, []string{jobs.OverdueSweepJobName}, s.JobNames())
}

type dashboardSource struct{ err error }

func (d dashboardSource) Stats(context.Context) (*domain.DashboardStatsDTO, error) {
	if d.err != nil {
		return nil, d.err
	}
	return &domain.DashboardStatsDTO{TotalProjects: 2, MegawattCapacity: "1.50", ActiveLeads: 4, PipelineValue: "90000.00"}, nil
}

type pipelineSource struct{}

func (pipelineSource) Stats(context.Context) ([]domain.LeadStageStatDTO, error) {
	return []domain.LeadStageStatDTO{{Stage: domain.LeadStageCosting, Count: 4, Value: "90000.00"}}, nil
}

type financeSource struct{}

func (financeSource) Stats(context.Context) (*domain.FinanceStatsDTO, error) {
	return &domain.FinanceStatsDTO{TotalRevenue: "100.00", Outstanding: "100.00", Collected: "0.00"}, nil
}

type recordingWriter struct {
	snapshots []warehouse.Snapshot
}

func (w *recordingWriter) WriteSnapshot(_ context.Context, s warehouse.Snapshot) error {
	w.snapshots = append(w.snapshots, s)
	return nil
}

func TestSnapshotJob_WritesAggregates(t *testing.T) {
	m := metrics.New(zap.NewNop())
	writer := &recordingWriter{}

	jobs.NewSnapshotJob(dashboardSource{}, pipelineSource{}, financeSource{}, writer, m, zap.NewNop(), time.Second).Run()

	require.Len(t, writer.snapshots, 1)
	snap := writer.snapshots[0]
	assert.Equal(t, int64(2), snap.Dashboard.TotalProjects)
	assert.Equal(t, "100.00", snap.Finance.TotalRevenue)
	require.Len(t, snap.Pipeline, 1)
	assert.Equal(t, domain.LeadStageCosting, snap.Pipeline[0].Stage)
	assert.Equal(t, time.UTC, snap.TakenAt.Location())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.JobRuns.WithLabelValues(jobs.SnapshotJobName, "success")))
}

func TestSnapshotJob_SourceFailureSkipsWrite(t *testing.T) {
	m := metrics.New(zap.NewNop())
	writer := &recordingWriter{}

	jobs.NewSnapshotJob(dashboardSource{err: errors.New("boom")}, pipelineSource{}, financeSource{}, writer, m, zap.NewNop(), time.Second).Run()

	assert.Empty(t, writer.snapshots)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.JobRuns.WithLabelValues(jobs.SnapshotJobName, "error")))
}
