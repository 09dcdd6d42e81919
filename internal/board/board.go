package board

import (
	"context"
	"errors"
	"time"

	"github.com/solarepc/epc-api/internal/domain"
	"go.uber.org/zap"
)

// timestampLayout is RFC 3339 in UTC with fixed-width microseconds, so
// rendered timestamps also sort lexically
const timestampLayout = "2006-01-02T15:04:05.000000Z"

var (
	ErrNoTarget     = errors.New("drop target does not resolve to a stage")
	ErrLeadNotShown = errors.New("lead is not on the board")
)

// DropTarget describes where a card was released: over a column, or over
// another lead's card.
type DropTarget struct {
	Column     domain.LeadStage
	OverLeadID uint
}

type Notification struct {
	Title   string
	Message string
}

// Notifier surfaces errors to the user
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// API is the subset of the HTTP client the board depends on
type API interface {
	ListLeads(ctx context.Context) ([]domain.LeadDTO, error)
	UpdateLeadStage(ctx context.Context, leadID uint, stage domain.LeadStage) (*domain.LeadDTO, error)
	LeadStats(ctx context.Context) ([]domain.LeadStageStatDTO, error)
	DashboardStats(ctx context.Context) (*domain.DashboardStatsDTO, error)
}

// Board is the kanban view of the lead pipeline. There is no locking across
// moves; the last server response wins.
type Board struct {
	api      API
	cache    *QueryCache
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

func NewBoard(api API, cache *QueryCache, notifier Notifier, logger *zap.Logger) *Board {
	cache.Register(KeyLeads, func(ctx context.Context) (interface{}, error) {
		return api.ListLeads(ctx)
	})
	cache.Register(KeyLeadStats, func(ctx context.Context) (interface{}, error) {
		return api.LeadStats(ctx)
	})
	cache.Register(KeyDashboardStats, func(ctx context.Context) (interface{}, error) {
		return api.DashboardStats(ctx)
	})

	return &Board{
		api:      api,
		cache:    cache,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Load fetches the lead list and both aggregate views
func (b *Board) Load(ctx context.Context) error {
	return b.cache.Refetch(ctx, KeyLeads, KeyLeadStats, KeyDashboardStats)
}

// Leads returns the cached lead list
func (b *Board) Leads() []domain.LeadDTO {
	v, _ := b.cache.Get(KeyLeads)
	leads, _ := v.([]domain.LeadDTO)
	return leads
}

// Columns groups the cached leads by stage in board order
func (b *Board) Columns() map[domain.LeadStage][]domain.LeadDTO {
	cols := make(map[domain.LeadStage][]domain.LeadDTO, len(domain.LeadStages))
	for _, stage := range domain.LeadStages {
		cols[stage] = []domain.LeadDTO{}
	}
	for _, lead := range b.Leads() {
		cols[lead.Stage] = append(cols[lead.Stage], lead)
	}
	return cols
}

// ResolveTarget returns the column's stage, or the stage of the lead under
// the drop point.
func (b *Board) ResolveTarget(drop DropTarget) (domain.LeadStage, bool) {
	if drop.Column != "" {
		return drop.Column, drop.Column.IsValid()
	}
	if drop.OverLeadID == 0 {
		return "", false
	}
	if lead, ok := b.find(drop.OverLeadID); ok {
		return lead.Stage, true
	}
	return "", false
}

// MoveLead applies the stage change to the cached list before calling the
// API, rolls back and notifies on failure, and always refetches the lead
// list and the statistics that depend on it.
func (b *Board) MoveLead(ctx context.Context, leadID uint, drop DropTarget) error {
	target, ok := b.ResolveTarget(drop)
	if !ok {
		return ErrNoTarget
	}
	lead, ok := b.find(leadID)
	if !ok {
		return ErrLeadNotShown
	}
	if lead.Stage == target {
		return nil
	}

	snapshot := b.cache.Snapshot(KeyLeads)
	updatedAt := b.now().UTC().Format(timestampLayout)
	b.cache.Update(KeyLeads, func(current interface{}) interface{} {
		leads, _ := current.([]domain.LeadDTO)
		next := make([]domain.LeadDTO, len(leads))
		copy(next, leads)
		for i := range next {
			if next[i].ID == leadID {
				next[i].Stage = target
				next[i].UpdatedAt = updatedAt
			}
		}
		return next
	})

	defer b.reconcile(ctx)

	if _, err := b.api.UpdateLeadStage(ctx, leadID, target); err != nil {
		b.cache.Restore(snapshot)
		b.logger.Warn("lead stage move failed",
			zap.Uint("lead_id", leadID),
			zap.String("stage_from", string(lead.Stage)),
			zap.String("stage_to", string(target)),
			zap.Error(err))
		if b.notifier != nil {
			b.notifier.Notify(Notification{
				Title:   "Error",
				Message: "Failed to update lead stage",
			})
		}
		return err
	}
	return nil
}

func (b *Board) reconcile(ctx context.Context) {
	keys := []string{KeyLeads, KeyLeadStats, KeyDashboardStats}
	b.cache.Invalidate(keys...)
	if err := b.cache.Refetch(context.WithoutCancel(ctx), keys...); err != nil {
		b.logger.Warn("board refetch failed", zap.Error(err))
	}
}

func (b *Board) find(id uint) (domain.LeadDTO, bool) {
	for _, lead := range b.Leads() {
		if lead.ID == id {
			return lead, true
		}
	}
	return domain.LeadDTO{}, false
}
