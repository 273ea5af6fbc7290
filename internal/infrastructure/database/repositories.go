package database

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/velorent/rentalsync/internal/adapter/repository"
	domainRepo "github.com/velorent/rentalsync/internal/domain/repository"
)

// Repositories bundles the repository instances over one *gorm.DB and
// implements the Datastore transaction boundary the reconciliation engine
// runs against.
type Repositories struct {
	db     *gorm.DB
	logger *zap.Logger

	Customer domainRepo.CustomerRepository
	Booking  domainRepo.BookingRepository
	Payment  domainRepo.PaymentRepository
}

// NewRepositories creates new repository instances with database connection
func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		db:       db,
		logger:   logger,
		Customer: repository.NewCustomerRepository(db, logger),
		Booking:  repository.NewBookingRepository(db, logger),
		Payment:  repository.NewPaymentRepository(db, logger),
	}
}

func (r *Repositories) Customers() domainRepo.CustomerRepository {
	return r.Customer
}

func (r *Repositories) Bookings() domainRepo.BookingRepository {
	return r.Booking
}

func (r *Repositories) Payments() domainRepo.PaymentRepository {
	return r.Payment
}

// Transaction runs fn against a bundle bound to one database transaction.
// fn returning an error rolls back everything written inside it.
func (r *Repositories) Transaction(ctx context.Context, fn func(ds domainRepo.Datastore) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx, r.logger))
	})
}
