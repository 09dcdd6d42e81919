package warehouse

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/solarepc/epc-api/internal/domain"
	"go.uber.org/zap"
)

// ErrDisabled is returned when writing through a disabled client
var ErrDisabled = errors.New("warehouse client not initialized")

// Snapshot is one point-in-time export of the reporting aggregates
type Snapshot struct {
	TakenAt   time.Time
	Dashboard domain.DashboardStatsDTO
	Pipeline  []domain.LeadStageStatDTO
	Finance   domain.FinanceStatsDTO
}

const (
	insertPipelineRow = `INSERT INTO dbo.epc_pipeline_snapshot (snapshot_at, stage, lead_count, stage_value) VALUES (@p1, @p2, @p3, @p4)`
	insertFinanceRow  = `INSERT INTO dbo.epc_finance_snapshot
		(snapshot_at, total_projects, megawatt_capacity, active_leads, pipeline_value, total_revenue, outstanding, collected, overdue_count)
		VALUES (@p1, @p2, @p3, @p4, @p5, @p6, @p7, @p8, @p9)`
)

// WriteSnapshot inserts one pipeline row per stage and one finance row, atomically
func (c *Client) WriteSnapshot(ctx context.Context, s Snapshot) error {
	if !c.IsEnabled() {
		return ErrDisabled
	}

	ctx, cancel := context.WithTimeout(ctx, c.queryTimeout)
	defer cancel()

	takenAt := s.TakenAt.UTC()
	finance, err := parseAmounts(
		s.Dashboard.MegawattCapacity, s.Dashboard.PipelineValue,
		s.Finance.TotalRevenue, s.Finance.Outstanding, s.Finance.Collected,
	)
	if err != nil {
		return err
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin warehouse transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stat := range s.Pipeline {
		value, err := decimal.NewFromString(stat.Value)
		if err != nil {
			return fmt.Errorf("invalid value for stage %s: %w", stat.Stage, err)
		}
		if _, err := tx.ExecContext(ctx, insertPipelineRow, takenAt, string(stat.Stage), stat.Count, value); err != nil {
			return fmt.Errorf("failed to insert pipeline row: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, insertFinanceRow,
		takenAt,
		s.Dashboard.TotalProjects,
		finance[0],
		s.Dashboard.ActiveLeads,
		finance[1],
		finance[2],
		finance[3],
		finance[4],
		s.Finance.OverdueCount,
	); err != nil {
		return fmt.Errorf("failed to insert finance row: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit warehouse snapshot: %w", err)
	}

	c.logger.Info("Warehouse snapshot written",
		zap.Time("snapshot_at", takenAt),
		zap.Int("pipeline_rows", len(s.Pipeline)),
	)
	return nil
}

func parseAmounts(values ...string) ([]decimal.Decimal, error) {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		if v == "" {
			out[i] = decimal.Zero
			continue
		}
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("invalid amount %q: %w", v, err)
		}
		out[i] = d
	}
	return out, nil
}
