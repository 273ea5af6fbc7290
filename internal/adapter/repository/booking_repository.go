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

type bookingRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewBookingRepository creates a booking repository backed by GORM.
func NewBookingRepository(db *gorm.DB, logger *zap.Logger) domainRepo.BookingRepository {
	return &bookingRepository{
		db:     db,
		logger: logger,
	}
}

func (r *bookingRepository) GetByReference(ctx context.Context, reference string) (*model.Booking, error) {
	var booking model.Booking
	err := r.db.WithContext(ctx).Where("reference = ?", reference).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get booking by reference: %w", err)
	}
	return &booking, nil
}

func (r *bookingRepository) GetByPortalToken(ctx context.Context, token string) (*model.Booking, error) {
	var booking model.Booking
	err := r.db.WithContext(ctx).Where("portal_token = ?", token).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get booking by portal token: %w", err)
	}
	return &booking, nil
}

// Upsert writes the booking in one atomic statement keyed on the reference
// unique index. On conflict only the caller's update map is applied, so a
// payload that never mentioned a column cannot regress it, and the portal
// token set on insert is never overwritten.
func (r *bookingRepository) Upsert(ctx context.Context, booking *model.Booking, updates map[string]any) (*model.Booking, error) {
	conflict := clause.OnConflict{Columns: []clause.Column{{Name: "reference"}}}
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

	if err := r.db.WithContext(ctx).Clauses(conflict).Create(booking).Error; err != nil {
		return nil, translateError(err, "failed to upsert booking")
	}

	saved, err := r.GetByReference(ctx, booking.Reference)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return nil, apperrors.New(apperrors.ErrInternal, "booking missing after upsert")
	}
	return saved, nil
}
