package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/velorent/rentalsync/internal/domain/apperrors"
	"github.com/velorent/rentalsync/internal/domain/model"
	"github.com/velorent/rentalsync/internal/domain/repository"
)

// fakeStore is an in-memory Datastore mirroring the partial-update
// semantics of the GORM repositories: upserts apply only the given column
// updates to existing rows.
type fakeStore struct {
	customers map[string]*model.Customer // keyed by email
	bookings  map[string]*model.Booking  // keyed by reference
	payments  map[string]*model.Payment  // keyed by source_system/source_id
	nextID    int64

	// bookingConflicts makes the next N booking upserts fail with a
	// persistence conflict, simulating a racing sync.
	bookingConflicts int

	// transactionErr fails every transaction, simulating the database being
	// unreachable.
	transactionErr      error
	transactionAttempts int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		customers: map[string]*model.Customer{},
		bookings:  map[string]*model.Booking{},
		payments:  map[string]*model.Payment{},
	}
}

func (s *fakeStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *fakeStore) Customers() repository.CustomerRepository { return (*fakeCustomers)(s) }
func (s *fakeStore) Bookings() repository.BookingRepository   { return (*fakeBookings)(s) }
func (s *fakeStore) Payments() repository.PaymentRepository   { return (*fakePayments)(s) }

func (s *fakeStore) Transaction(_ context.Context, fn func(ds repository.Datastore) error) error {
	s.transactionAttempts++
	if s.transactionErr != nil {
		return s.transactionErr
	}
	return fn(s)
}

type fakeCustomers fakeStore

func (f *fakeCustomers) GetByEmail(_ context.Context, email string) (*model.Customer, error) {
	if c, ok := f.customers[email]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, nil
}

func (f *fakeCustomers) Upsert(_ context.Context, customer *model.Customer, updates map[string]any) (*model.Customer, error) {
	if existing, ok := f.customers[customer.Email]; ok {
		for col, v := range updates {
			switch col {
			case "first_name":
				existing.FirstName = v.(string)
			case "last_name":
				existing.LastName = v.(string)
			case "phone":
				existing.Phone = v.(string)
			case "metadata":
				existing.Metadata = v.(model.JSONB)
			}
		}
		clone := *existing
		return &clone, nil
	}

	clone := *customer
	clone.ID = (*fakeStore)(f).id()
	clone.CreatedAt = time.Now()
	f.customers[clone.Email] = &clone
	out := clone
	return &out, nil
}

func (f *fakeCustomers) UpdateEmail(_ context.Context, id int64, email string) error {
	for old, c := range f.customers {
		if c.ID == id {
			delete(f.customers, old)
			c.Email = email
			f.customers[email] = c
			return nil
		}
	}
	return fmt.Errorf("customer %d not found", id)
}

type fakeBookings fakeStore

func (f *fakeBookings) GetByReference(_ context.Context, reference string) (*model.Booking, error) {
	if b, ok := f.bookings[reference]; ok {
		clone := *b
		return &clone, nil
	}
	return nil, nil
}

func (f *fakeBookings) GetByPortalToken(_ context.Context, token string) (*model.Booking, error) {
	for _, b := range f.bookings {
		if b.PortalToken == token {
			clone := *b
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeBookings) Upsert(_ context.Context, booking *model.Booking, updates map[string]any) (*model.Booking, error) {
	if f.bookingConflicts > 0 {
		f.bookingConflicts--
		return nil, apperrors.New(apperrors.ErrPersistenceConflict, "duplicated key")
	}

	if existing, ok := f.bookings[booking.Reference]; ok {
		for col, v := range updates {
			applyBookingColumn(existing, col, v)
		}
		clone := *existing
		return &clone, nil
	}

	clone := *booking
	clone.ID = (*fakeStore)(f).id()
	clone.CreatedAt = time.Now()
	f.bookings[clone.Reference] = &clone
	out := clone
	return &out, nil
}

func applyBookingColumn(b *model.Booking, col string, v any) {
	switch col {
	case "customer_id":
		id := v.(int64)
		b.CustomerID = &id
	case "vehicle":
		b.Vehicle = v.(string)
	case "status":
		b.Status = v.(model.BookingStatus)
	case "currency":
		b.Currency = v.(string)
	case "start_at":
		t := v.(time.Time)
		b.StartAt = &t
	case "end_at":
		t := v.(time.Time)
		b.EndAt = &t
	case "source_updated_at":
		t := v.(time.Time)
		b.SourceUpdatedAt = &t
	case "total_cents":
		b.TotalCents = v.(int64)
	case "deposit_cents":
		b.DepositCents = v.(int64)
	case "hold_cents":
		b.HoldCents = v.(int64)
	case "source_system":
		s := v.(string)
		b.SourceSystem = &s
	case "source_id":
		s := v.(string)
		b.SourceID = &s
	case "metadata":
		b.Metadata = v.(model.JSONB)
	}
}

type fakePayments fakeStore

func paymentKey(system, id string) string {
	return system + "/" + id
}

func (f *fakePayments) Upsert(_ context.Context, payment *model.Payment, updates map[string]any) (*model.Payment, error) {
	key := paymentKey(payment.SourceSystem, payment.SourceID)
	if existing, ok := f.payments[key]; ok {
		for col, v := range updates {
			switch col {
			case "booking_id":
				existing.BookingID = v.(int64)
			case "amount_cents":
				existing.AmountCents = v.(int64)
			case "currency":
				existing.Currency = v.(string)
			case "status":
				existing.Status = v.(model.PaymentStatus)
			case "method":
				existing.Method = v.(string)
			case "type":
				existing.Type = v.(model.PaymentType)
			case "paid_at":
				t := v.(time.Time)
				existing.PaidAt = &t
			case "reference":
				existing.Reference = v.(string)
			case "metadata":
				existing.Metadata = v.(model.JSONB)
			}
		}
		clone := *existing
		return &clone, nil
	}

	clone := *payment
	clone.ID = (*fakeStore)(f).id()
	clone.CreatedAt = time.Now()
	f.payments[key] = &clone
	out := clone
	return &out, nil
}

func (f *fakePayments) ListByBooking(_ context.Context, bookingID int64) ([]model.Payment, error) {
	var out []model.Payment
	for _, p := range f.payments {
		if p.BookingID == bookingID {
			out = append(out, *p)
		}
	}
	return out, nil
}
