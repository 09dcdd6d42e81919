package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/solarepc/epc-api/internal/cache"
	"github.com/solarepc/epc-api/internal/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a requested entity does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned for requests the service cannot act on
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when a write would violate a uniqueness rule
	ErrConflict = errors.New("resource conflict")

	// ErrLeadNotConfirmed is returned when converting a lead outside the confirmed stage
	ErrLeadNotConfirmed = fmt.Errorf("%w: lead is not confirmed", ErrConflict)

	// ErrLeadAlreadyConverted is returned when a lead already has a project
	ErrLeadAlreadyConverted = fmt.Errorf("%w: lead already converted", ErrConflict)

	// ErrInvalidCredentials is returned by login for unknown users and wrong passwords
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// lookupError maps a repository error for one entity to the service error space
func lookupError(err error, entity string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
	}
	return fmt.Errorf("failed to get %s: %w", entity, err)
}

// writeError maps duplicate key violations to ErrConflict
func writeError(err error, action string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w", action, ErrConflict)
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

var entityTypes = map[string]bool{
	domain.EntityLead:          true,
	domain.EntityProject:       true,
	domain.EntityVendor:        true,
	domain.EntityPurchaseOrder: true,
	domain.EntityInvoice:       true,
	domain.EntityTask:          true,
}

func validEntityType(entityType string) error {
	if !entityTypes[entityType] {
		return fmt.Errorf("%w: unknown entity type %q", ErrInvalidInput, entityType)
	}
	return nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// cachedStats returns the cached value for key, computing and storing it on a miss.
// Cache failures degrade to a direct load.
func cachedStats[T any](ctx context.Context, c cache.StatsCache, logger *zap.Logger, key string, load func(context.Context) (T, error)) (T, error) {
	var value T
	hit, err := c.Get(ctx, key, &value)
	if err != nil {
		logger.Warn("stats cache read failed", zap.String("key", key), zap.Error(err))
	}
	if hit {
		return value, nil
	}

	value, err = load(ctx)
	if err != nil {
		return value, err
	}
	if err := c.Set(ctx, key, value); err != nil {
		logger.Warn("stats cache write failed", zap.String("key", key), zap.Error(err))
	}
	return value, nil
}

func invalidateStats(ctx context.Context, c cache.StatsCache, logger *zap.Logger, keys ...string) {
	if err := c.Invalidate(ctx, keys...); err != nil {
		logger.Warn("stats cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
