package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/velorent/rentalsync/internal/domain/apperrors"
	"github.com/velorent/rentalsync/internal/domain/model"
	domainRepo "github.com/velorent/rentalsync/internal/domain/repository"
)

type paymentRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewPaymentRepository creates a payment repository backed by GORM.
func NewPaymentRepository(db *gorm.DB, logger *zap.Logger) domainRepo.PaymentRepository {
	return &paymentRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert writes the payment keyed on the (source_system, source_id) unique
// index; re-importing the same feed payload updates the existing ledger row
// instead of duplicating it.
func (r *paymentRepository) Upsert(ctx context.Context, payment *model.Payment, updates map[string]any) (*model.Payment, error) {
	conflict := clause.OnConflict{
		Columns: []clause.Column{{Name: "source_system"}, {Name: "source_id"}},
	}
	if len(updates) > 0 {
		assignments := make(map[string]any, len(updates)+1)
		for k, v := range updates {
			assignments[k] = v
		}
		assignments["updated_at"] = time.Now()
		conflict.DoUpdates = clause.Assignments(assignments)
	} else {
		conflict.DoNothing = true
	}

	if err := r.db.WithContext(ctx).Clauses(conflict).Create(payment).Error; err != nil {
		return nil, translateError(err, "failed to upsert payment")
	}

	var saved model.Payment
	err := r.db.WithContext(ctx).
		Where("source_system = ? AND source_id = ?", payment.SourceSystem, payment.SourceID).
		First(&saved).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrInternal, "payment missing after upsert")
		}
		return nil, fmt.Errorf("failed to reload payment: %w", err)
	}
	return &saved, nil
}

func (r *paymentRepository) ListByBooking(ctx context.Context, bookingID int64) ([]model.Payment, error) {
	var payments []model.Payment
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at ASC").
		Find(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list payments for booking: %w", err)
	}
	return payments, nil
}
