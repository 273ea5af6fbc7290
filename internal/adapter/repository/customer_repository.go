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

type customerRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewCustomerRepository creates a customer repository backed by GORM.
func NewCustomerRepository(db *gorm.DB, logger *zap.Logger) domainRepo.CustomerRepository {
	return &customerRepository{
		db:     db,
		logger: logger,
	}
}

func (r *customerRepository) GetByEmail(ctx context.Context, email string) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get customer by email: %w", err)
	}
	return &customer, nil
}

// Upsert is a single atomic write keyed on the email unique index; two syncs
// racing on the same email cannot produce duplicate rows.
func (r *customerRepository) Upsert(ctx context.Context, customer *model.Customer, updates map[string]any) (*model.Customer, error) {
	conflict := clause.OnConflict{Columns: []clause.Column{{Name: "email"}}}
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

	if err := r.db.WithContext(ctx).Clauses(conflict).Create(customer).Error; err != nil {
		return nil, translateError(err, "failed to upsert customer")
	}

	// Re-read so the caller sees the persisted row regardless of which
	// branch the conflict clause took.
	saved, err := r.GetByEmail(ctx, customer.Email)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return nil, apperrors.New(apperrors.ErrInternal, "customer missing after upsert")
	}
	return saved, nil
}

func (r *customerRepository) UpdateEmail(ctx context.Context, id int64, email string) error {
	err := r.db.WithContext(ctx).
		Model(&model.Customer{}).
		Where("id = ?", id).
		Updates(map[string]any{"email": email, "updated_at": time.Now()}).Error
	if err != nil {
		return translateError(err, "failed to update customer email")
	}
	return nil
}

// translateError maps unique-constraint violations onto the persistence
// conflict code so the engine can retry the row once.
func translateError(err error, message string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.Wrap(apperrors.ErrPersistenceConflict, message, err)
	}
	return fmt.Errorf("%s: %w", message, err)
}
