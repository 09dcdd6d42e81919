package service

import (
	"context"
	"fmt"
	"time"

	"github.com/solarepc/epc-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Document number prefixes
const (
	PurchaseOrderPrefix = "PO"
	InvoicePrefix       = "INV"
)

// NumberSequenceService generates document numbers of the form
// {PREFIX}-{YEAR}-{SEQUENCE}, e.g. PO-2025-000042. Sequences restart every year.
type NumberSequenceService struct {
	repo   *repository.NumberSequenceRepository
	logger *zap.Logger
}

func NewNumberSequenceService(repo *repository.NumberSequenceRepository, logger *zap.Logger) *NumberSequenceService {
	return &NumberSequenceService{repo: repo, logger: logger}
}

// maxNumberAttempts bounds how many consecutive taken numbers Next skips
const maxNumberAttempts = 100

// NumberInUse reports whether a generated number is already stored, which
// happens when a client supplied that number by hand
type NumberInUse func(ctx context.Context, number string) (bool, error)

// Next returns the next number for prefix. When tx is non-nil the sequence is
// advanced inside that transaction so a rolled back write also releases the number.
// Numbers for which inUse reports true are skipped.
func (s *NumberSequenceService) Next(ctx context.Context, tx *gorm.DB, prefix string, now time.Time, inUse NumberInUse) (string, error) {
	repo := s.repo
	if tx != nil {
		repo = repo.WithTx(tx)
	}

	year := now.UTC().Year()
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		seq, err := repo.NextNumber(ctx, prefix, year)
		if err != nil {
			s.logger.Error("failed to get next sequence number",
				zap.String("prefix", prefix),
				zap.Int("year", year),
				zap.Error(err))
			return "", fmt.Errorf("failed to generate %s number: %w", prefix, err)
		}

		number := fmt.Sprintf("%s-%d-%06d", prefix, year, seq)
		if inUse == nil {
			return number, nil
		}
		taken, err := inUse(ctx, number)
		if err != nil {
			return "", fmt.Errorf("failed to check %s number: %w", prefix, err)
		}
		if !taken {
			return number, nil
		}
		s.logger.Info("skipping document number already in use", zap.String("number", number))
	}
	return "", fmt.Errorf("failed to generate %s number: %d consecutive numbers already in use", prefix, maxNumberAttempts)
}
