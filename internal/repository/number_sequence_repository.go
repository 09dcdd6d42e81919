package repository

import (
	"context"
	"fmt"

	"github.com/solarepc/epc-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NumberSequenceRepository hands out document numbers per prefix and year
type NumberSequenceRepository struct {
	db *gorm.DB
}

func NewNumberSequenceRepository(db *gorm.DB) *NumberSequenceRepository {
	return &NumberSequenceRepository{db: db}
}

func (r *NumberSequenceRepository) WithTx(tx *gorm.DB) *NumberSequenceRepository {
	return &NumberSequenceRepository{db: tx}
}

// NextNumber atomically increments and returns the sequence for prefix/year,
// starting at 1. The row is seeded with ON CONFLICT DO NOTHING so concurrent
// first callers agree on one row, then locked with SELECT FOR UPDATE where supported.
func (r *NumberSequenceRepository) NextNumber(ctx context.Context, prefix string, year int) (int, error) {
	var next int

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seed := domain.NumberSequence{Prefix: prefix, Year: year}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
			return fmt.Errorf("failed to seed number sequence: %w", err)
		}

		var seq domain.NumberSequence
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("prefix = ? AND year = ?", prefix, year).
			First(&seq).Error; err != nil {
			return fmt.Errorf("failed to get number sequence: %w", err)
		}

		next = seq.LastSequence + 1
		if err := tx.Model(&domain.NumberSequence{}).
			Where("prefix = ? AND year = ?", prefix, year).
			Update("last_sequence", next).Error; err != nil {
			return fmt.Errorf("failed to update number sequence: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return next, nil
}
