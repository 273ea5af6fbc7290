package repository

import (
	"context"

	"github.com/velorent/rentalsync/internal/domain/model"
)

// CustomerRepository persists canonical customer records keyed by email.
type CustomerRepository interface {
	// GetByEmail returns nil, nil when no customer has the email.
	GetByEmail(ctx context.Context, email string) (*model.Customer, error)

	// Upsert inserts the customer or, when a row with the same email
	// already exists, applies only the given column updates to it. Returns
	// the persisted row.
	Upsert(ctx context.Context, customer *model.Customer, updates map[string]any) (*model.Customer, error)

	// UpdateEmail rewrites a customer's email, used to upgrade a
	// placeholder identity to a real address.
	UpdateEmail(ctx context.Context, id int64, email string) error
}

// BookingRepository persists canonical bookings keyed by reference.
type BookingRepository interface {
	GetByReference(ctx context.Context, reference string) (*model.Booking, error)
	GetByPortalToken(ctx context.Context, token string) (*model.Booking, error)

	// Upsert inserts the booking or applies the column updates to the
	// existing row with the same reference. Columns absent from updates are
	// left untouched on the update path; portal_token is only ever written
	// on insert.
	Upsert(ctx context.Context, booking *model.Booking, updates map[string]any) (*model.Booking, error)
}

// PaymentRepository persists the payment ledger keyed by
// (source_system, source_id).
type PaymentRepository interface {
	Upsert(ctx context.Context, payment *model.Payment, updates map[string]any) (*model.Payment, error)
	ListByBooking(ctx context.Context, bookingID int64) ([]model.Payment, error)
}

// Datastore bundles the repositories with the transaction boundary the
// reconciliation engine runs each row inside. Transaction invokes fn with a
// Datastore whose repositories share one transaction; fn returning an error
// rolls the whole group back.
type Datastore interface {
	Customers() CustomerRepository
	Bookings() BookingRepository
	Payments() PaymentRepository
	Transaction(ctx context.Context, fn func(ds Datastore) error) error
}
