package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/velorent/rentalsync/internal/domain/feed"
	"github.com/velorent/rentalsync/internal/domain/model"
)

func newTestReconciler(store *fakeStore, profile feed.Profile) *Reconciler {
	return NewReconciler(store, profile, Options{}, zap.NewNop())
}

func TestUpsertBooking_DreamDrivesRow(t *testing.T) {
	store := newFakeStore()
	r := newTestReconciler(store, feed.DreamDrives)

	booking, err := r.UpsertBooking(context.Background(), feed.Row{
		"Id":            "R1",
		"CustomerEmail": "a@b.com",
		"CustomerName":  "Jane Doe",
		"CustomerPhone": "+64 21 555 0199",
		"Total":         "100.00",
		"Deposit":       "20.00",
	})
	require.NoError(t, err)

	assert.Equal(t, "DD-R1", booking.Reference)
	assert.Equal(t, int64(10000), booking.TotalCents)
	assert.Equal(t, int64(2000), booking.DepositCents)
	assert.Equal(t, "NZD", booking.Currency)
	assert.NotEmpty(t, booking.PortalToken)
	require.NotNil(t, booking.SourceSystem)
	assert.Equal(t, "dreamdrives", *booking.SourceSystem)
	require.NotNil(t, booking.SourceID)
	assert.Equal(t, "R1", *booking.SourceID)

	require.NotNil(t, booking.CustomerID)
	customer, err := store.Customers().GetByEmail(context.Background(), "a@b.com")
	require.NoError(t, err)
	require.NotNil(t, customer)
	assert.Equal(t, *booking.CustomerID, customer.ID)
	assert.Equal(t, "Jane", customer.FirstName)
	assert.Equal(t, "Doe", customer.LastName)
	assert.Equal(t, "+64 21 555 0199", customer.Phone)
	require.NotNil(t, customer.SourceID)
	assert.Equal(t, "R1", *customer.SourceID)
	assert.Equal(t, "a@b.com", customer.Metadata["email"])
	assert.Equal(t, "Jane Doe", customer.Metadata["name"])
}

func TestUpsertBooking_Idempotent(t *testing.T) {
	store := newFakeStore()
	r := newTestReconciler(store, feed.DreamDrives)

	row := feed.Row{"Id": "R7", "CustomerEmail": "x@y.com", "Total": "80.00"}

	first, err := r.UpsertBooking(context.Background(), row)
	require.NoError(t, err)
	second, err := r.UpsertBooking(context.Background(), row)
	require.NoError(t, err)

	assert.Len(t, store.bookings, 1)
	assert.Equal(t, first.ID, second.ID)
	// The portal token is generated once and never rotated by a re-sync.
	assert.Equal(t, first.PortalToken, second.PortalToken)
}

func TestUpsertBooking_AbsentFieldDoesNotRegress(t *testing.T) {
	store := newFakeStore()
	r := newTestReconciler(store, feed.VEVS)

	_, err := r.UpsertBooking(context.Background(), feed.Row{
		"reference": "BK-12",
		"vehicle":   "Toyota Hiace",
		"total":     "250.00",
	})
	require.NoError(t, err)

	// The second payload never mentions the vehicle; it must survive.
	updated, err := r.UpsertBooking(context.Background(), feed.Row{
		"reference": "BK-12",
		"total":     "300.00",
	})
	require.NoError(t, err)

	assert.Equal(t, "Toyota Hiace", updated.Vehicle)
	assert.Equal(t, int64(30000), updated.TotalCents)
}

func TestUpsertBooking_PlaceholderThenUpgrade(t *testing.T) {
	store := newFakeStore()
	r := newTestReconciler(store, feed.VEVS)

	_, err := r.UpsertBooking(context.Background(), feed.Row{
		"reference":      "BK-9",
		"customer_email": nil,
	})
	require.NoError(t, err)

	placeholder, err := store.Customers().GetByEmail(context.Background(), "unknown+BK-9@example.invalid")
	require.NoError(t, err)
	require.NotNil(t, placeholder)

	// A later feed pass supplies the real address for the same reference;
	// the existing customer row is upgraded in place.
	_, err = r.UpsertBooking(context.Background(), feed.Row{
		"reference":      "BK-9",
		"customer_email": "real@x.com",
	})
	require.NoError(t, err)

	upgraded, err := store.Customers().GetByEmail(context.Background(), "real@x.com")
	require.NoError(t, err)
	require.NotNil(t, upgraded)
	assert.Equal(t, placeholder.ID, upgraded.ID)

	gone, err := store.Customers().GetByEmail(context.Background(), "unknown+BK-9@example.invalid")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestUpsertBooking_UpgradeNeverDowngrades(t *testing.T) {
	store := newFakeStore()
	r := newTestReconciler(store, feed.VEVS)

	_, err := r.UpsertBooking(context.Background(), feed.Row{
		"reference":      "BK-20",
		"customer_email": "person@x.com",
	})
	require.NoError(t, err)

	// A later pass missing the email must not replace the real identity
	// with a placeholder on the existing customer.
	booking, err := r.UpsertBooking(context.Background(), feed.Row{
		"reference": "BK-20",
	})
	require.NoError(t, err)

	real, err := store.Customers().GetByEmail(context.Background(), "person@x.com")
	require.NoError(t, err)
	require.NotNil(t, real)

	// The emailless pass resolves to a separate placeholder identity; the
	// real row keeps its address.
	placeholder, err := store.Customers().GetByEmail(context.Background(), "unknown+BK-20@example.invalid")
	require.NoError(t, err)
	require.NotNil(t, placeholder)
	assert.NotEqual(t, real.ID, placeholder.ID)
	require.NotNil(t, booking.CustomerID)
}

func TestUpsertBooking_NestedPayments(t *testing.T) {
	store := newFakeStore()
	r := newTestReconciler(store, feed.DreamDrives)

	booking, err := r.UpsertBooking(context.Background(), feed.Row{
		"Id": "R3",
		"Payments": []any{
			map[string]any{
				"Id":          "P1",
				"Amount":      "50.00",
				"Description": "deposit payment",
				"Status":      "Paid",
			},
		},
	})
	require.NoError(t, err)

	payments, err := store.Payments().ListByBooking(context.Background(), booking.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)

	assert.Equal(t, int64(5000), payments[0].AmountCents)
	assert.Equal(t, model.PaymentTypeDeposit, payments[0].Type)
	assert.Equal(t, model.PaymentStatusSucceeded, payments[0].Status)
	assert.Equal(t, "NZD", payments[0].Currency)
	assert.Equal(t, "dreamdrives", payments[0].SourceSystem)
	assert.Equal(t, "P1", payments[0].SourceID)
}

func TestUpsertBooking_StatusPolicies(t *testing.T) {
	t.Run("pass through keeps unknown status", func(t *testing.T) {
		store := newFakeStore()
		r := newTestReconciler(store, feed.DreamDrives)

		booking, err := r.UpsertBooking(context.Background(), feed.Row{
			"Id":     "R4",
			"Status": "weird_status",
		})
		require.NoError(t, err)
		assert.Equal(t, model.BookingStatus("weird_status"), booking.Status)
	})

	t.Run("default pending coerces unknown status", func(t *testing.T) {
		store := newFakeStore()
		r := newTestReconciler(store, feed.VEVS)

		booking, err := r.UpsertBooking(context.Background(), feed.Row{
			"reference": "BK-31",
			"status":    "weird_status",
		})
		require.NoError(t, err)
		assert.Equal(t, model.BookingStatusPending, booking.Status)
	})
}

func TestUpsertBooking_RetriesConflictOnce(t *testing.T) {
	store := newFakeStore()
	store.bookingConflicts = 1
	r := newTestReconciler(store, feed.VEVS)

	booking, err := r.UpsertBooking(context.Background(), feed.Row{"reference": "BK-50"})
	require.NoError(t, err)
	assert.Equal(t, "BK-50", booking.Reference)
	assert.Len(t, store.bookings, 1)
}

func TestUpsertBooking_SecondConflictFails(t *testing.T) {
	store := newFakeStore()
	store.bookingConflicts = 2
	r := newTestReconciler(store, feed.VEVS)

	_, err := r.UpsertBooking(context.Background(), feed.Row{"reference": "BK-51"})
	require.Error(t, err)
}

func TestSyncBatch_ContinuesPastBadRows(t *testing.T) {
	store := newFakeStore()
	r := newTestReconciler(store, feed.VEVS)

	result, err := r.SyncBatch(context.Background(), []feed.Row{
		{"reference": "BK-1", "total": "10.00"},
		{}, // no reference, no identifier
		{"reference": "BK-2", "start_date": "not a date"},
		{"reference": "BK-3"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 2, result.Skipped)
	assert.Equal(t, 0, result.Failed)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, 1, result.Errors[0].Index)
	assert.Equal(t, "MALFORMED_ROW", result.Errors[0].Code)
	assert.Equal(t, 2, result.Errors[1].Index)
	assert.Equal(t, "VALIDATION_FAILURE", result.Errors[1].Code)
	assert.Equal(t, "BK-2", result.Errors[1].Reference)
}

func TestSyncBatch_DatastoreFailureAborts(t *testing.T) {
	store := newFakeStore()
	store.transactionErr = errors.New("connection refused")
	r := newTestReconciler(store, feed.VEVS)

	result, err := r.SyncBatch(context.Background(), []feed.Row{
		{"reference": "BK-1"},
		{"reference": "BK-2"},
		{"reference": "BK-3"},
	})
	require.Error(t, err)

	// The first datastore failure aborts the batch; an unreachable database
	// is not retried once per remaining row.
	assert.Equal(t, 1, store.transactionAttempts)
	assert.Equal(t, 0, result.Processed)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "INTERNAL", result.Errors[0].Code)
	assert.Equal(t, "BK-1", result.Errors[0].Reference)
}

func TestUpsertBooking_AllowlistDropsUnknownColumns(t *testing.T) {
	store := newFakeStore()
	r := NewReconciler(store, feed.VEVS, Options{
		AllowedColumns: []string{"customer_id", "status", "total_cents", "metadata", "source_system", "source_id"},
	}, zap.NewNop())

	booking, err := r.UpsertBooking(context.Background(), feed.Row{
		"reference": "BK-60",
		"vehicle":   "Mazda 3",
		"total":     "99.00",
	})
	require.NoError(t, err)

	// vehicle is outside the allowlist and silently dropped; the row still
	// lands.
	assert.Empty(t, booking.Vehicle)
	assert.Equal(t, int64(9900), booking.TotalCents)
}

func TestUpsertBooking_NegativeBookingAmountsClamp(t *testing.T) {
	store := newFakeStore()
	r := newTestReconciler(store, feed.VEVS)

	booking, err := r.UpsertBooking(context.Background(), feed.Row{
		"reference": "BK-70",
		"total":     "-50.00",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), booking.TotalCents)
}
