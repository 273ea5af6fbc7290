package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/velorent/rentalsync/internal/domain/apperrors"
	"github.com/velorent/rentalsync/internal/domain/feed"
	"github.com/velorent/rentalsync/internal/domain/model"
	"github.com/velorent/rentalsync/internal/domain/repository"
)

// Options carries the engine configuration that used to live in ambient
// lookups: business timezone, currency default, and the column allowlist.
// Tests supply fixed values.
type Options struct {
	// Location is the business timezone booking timestamps are converted
	// into. Defaults to UTC.
	Location *time.Location

	// DefaultCurrency is applied when a row has no currency. Defaults to
	// NZD.
	DefaultCurrency string

	// AllowedColumns restricts which booking columns the engine writes;
	// attributes outside the set are dropped rather than crashing an
	// environment whose migrations lag behind. Empty means every column
	// the model knows about.
	AllowedColumns []string
}

// Reconciler merges raw feed rows idempotently into the canonical
// Customer/Booking/Payment tables. One instance serves one feed profile.
type Reconciler struct {
	store   repository.Datastore
	profile feed.Profile
	opts    Options
	allowed map[string]struct{}
	logger  *zap.Logger
}

// NewReconciler creates a reconciliation engine for one feed.
func NewReconciler(store repository.Datastore, profile feed.Profile, opts Options, logger *zap.Logger) *Reconciler {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.DefaultCurrency == "" {
		opts.DefaultCurrency = "NZD"
	}

	columns := opts.AllowedColumns
	if len(columns) == 0 {
		columns = model.BookingColumns()
	}
	allowed := make(map[string]struct{}, len(columns))
	for _, col := range columns {
		allowed[col] = struct{}{}
	}

	return &Reconciler{
		store:   store,
		profile: profile,
		opts:    opts,
		allowed: allowed,
		logger:  logger,
	}
}

// SyncBatch reconciles every row, never letting one bad row abort the rest.
// Rows failing validation are counted as skipped; rows whose own write
// conflicted are counted as failed. An uncoded error is the datastore itself
// failing, not the row: the batch aborts there and the error propagates
// alongside the partial result, so callers do not keep opening transactions
// against a dead database.
func (r *Reconciler) SyncBatch(ctx context.Context, rows []feed.Row) (BatchResult, error) {
	var result BatchResult
	for i, row := range rows {
		_, err := r.UpsertBooking(ctx, row)
		if err == nil {
			result.Processed++
			continue
		}

		code := apperrors.CodeOf(err)
		switch code {
		case apperrors.ErrMalformedRow, apperrors.ErrValidationFailure:
			result.Skipped++
		default:
			result.Failed++
		}

		reference, _ := r.Reference(row)
		result.Errors = append(result.Errors, RowError{
			Index:     i,
			Reference: reference,
			Code:      code,
			Message:   err.Error(),
		})
		r.logger.Warn("row sync failed",
			zap.String("source", r.profile.Source),
			zap.Int("index", i),
			zap.String("reference", reference),
			zap.String("code", code),
			zap.Any("row", row),
			zap.Error(err))

		var appErr *apperrors.AppError
		if !apperrors.As(err, &appErr) {
			return result, fmt.Errorf("batch aborted at row %d: %w", i, err)
		}
	}
	return result, nil
}

// UpsertBooking reconciles one raw row inside a single transaction spanning
// the customer, the booking, and any embedded payments. A unique-constraint
// race with a concurrent sync is retried once against a fresh read.
func (r *Reconciler) UpsertBooking(ctx context.Context, row feed.Row) (*model.Booking, error) {
	booking, err := r.upsertOnce(ctx, row)
	if err != nil && apperrors.CodeOf(err) == apperrors.ErrPersistenceConflict {
		r.logger.Warn("persistence conflict, retrying row",
			zap.String("source", r.profile.Source),
			zap.Error(err))
		booking, err = r.upsertOnce(ctx, row)
	}
	return booking, err
}

func (r *Reconciler) upsertOnce(ctx context.Context, row feed.Row) (*model.Booking, error) {
	reference, err := r.Reference(row)
	if err != nil {
		return nil, err
	}

	booking, attrs, err := r.buildBooking(row, reference)
	if err != nil {
		return nil, err
	}

	var saved *model.Booking
	err = r.store.Transaction(ctx, func(ds repository.Datastore) error {
		customer, err := r.resolveCustomer(ctx, ds, row, reference)
		if err != nil {
			return err
		}
		if customer != nil {
			attrs["customer_id"] = customer.ID
		}

		// The allowlist constrains both paths: the conflict-update map and
		// the columns projected onto the insert struct.
		filtered := r.filterAllowed(attrs)
		applyBookingAttrs(booking, filtered)

		saved, err = ds.Bookings().Upsert(ctx, booking, filtered)
		if err != nil {
			return err
		}

		if r.profile.NestedPayments {
			if paymentRows, ok := feed.List(row, feed.PaymentsKeys...); ok {
				for _, prow := range paymentRows {
					if _, err := r.upsertPayment(ctx, ds, saved, prow); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// Reference computes the canonical external reference for a row. Rows
// without a reference field fall back to a stable fabrication from the
// feed's prefix and the row's own identifier, keeping re-imports of the
// same payload idempotent; random data is never used.
func (r *Reconciler) Reference(row feed.Row) (string, error) {
	if reference, ok := feed.First(row, feed.ReferenceKeys...); ok {
		return reference, nil
	}
	if id, ok := feed.First(row, feed.IDKeys...); ok {
		return r.profile.ReferencePrefix + id, nil
	}
	return "", apperrors.New(apperrors.ErrMalformedRow, "row has no reference and no identifier to fabricate one from")
}

// buildBooking maps the row onto booking attributes. Only fields actually
// present on the row land in the attribute map; the update path never nulls
// out a column the payload did not mention.
func (r *Reconciler) buildBooking(row feed.Row, reference string) (*model.Booking, map[string]any, error) {
	attrs := map[string]any{}

	if vehicle, ok := feed.First(row, feed.VehicleKeys...); ok {
		attrs["vehicle"] = vehicle
	}

	if raw, ok := feed.First(row, feed.StatusKeys...); ok {
		attrs["status"] = feed.MapBookingStatus(raw, r.profile.StatusPolicy)
	}

	if currency, ok := feed.First(row, feed.CurrencyKeys...); ok {
		attrs["currency"] = strings.ToUpper(currency)
	}

	if raw, ok := feed.First(row, feed.StartKeys...); ok {
		t, err := feed.ParseTime(raw, r.opts.Location)
		if err != nil {
			return nil, nil, apperrors.Wrap(apperrors.ErrValidationFailure, "invalid start date", err)
		}
		attrs["start_at"] = t
	}
	if raw, ok := feed.First(row, feed.EndKeys...); ok {
		t, err := feed.ParseTime(raw, r.opts.Location)
		if err != nil {
			return nil, nil, apperrors.Wrap(apperrors.ErrValidationFailure, "invalid end date", err)
		}
		attrs["end_at"] = t
	}
	if raw, ok := feed.First(row, feed.UpdatedKeys...); ok {
		if t, err := feed.ParseTime(raw, r.opts.Location); err == nil {
			attrs["source_updated_at"] = t
		}
	}

	// Booking money columns hold non-negative integer cents.
	if raw, ok := feed.First(row, feed.TotalKeys...); ok {
		attrs["total_cents"] = clampCents(feed.ToCents(raw))
	}
	if raw, ok := feed.First(row, feed.DepositKeys...); ok {
		attrs["deposit_cents"] = clampCents(feed.ToCents(raw))
	}
	if raw, ok := feed.First(row, feed.HoldKeys...); ok {
		attrs["hold_cents"] = clampCents(feed.ToCents(raw))
	}

	attrs["source_system"] = r.profile.Source
	if id, ok := feed.First(row, feed.IDKeys...); ok {
		attrs["source_id"] = id
	}

	// Raw source fields are archived for audit.
	attrs["metadata"] = model.JSONB(row)

	booking := &model.Booking{
		Reference:   reference,
		Status:      model.BookingStatusPending,
		Currency:    r.opts.DefaultCurrency,
		PortalToken: uuid.NewString(),
	}

	return booking, attrs, nil
}

// filterAllowed drops attributes outside the configured column allowlist.
// Schema drift between environments costs the attribute, never the row.
func (r *Reconciler) filterAllowed(attrs map[string]any) map[string]any {
	filtered := make(map[string]any, len(attrs))
	for col, v := range attrs {
		if _, ok := r.allowed[col]; ok {
			filtered[col] = v
		} else {
			r.logger.Debug("dropping attribute outside column allowlist",
				zap.String("column", col))
		}
	}
	return filtered
}

// applyBookingAttrs copies the attribute map onto the insert struct so the
// insert path and the conflict-update path agree on values.
func applyBookingAttrs(b *model.Booking, attrs map[string]any) {
	if v, ok := attrs["customer_id"].(int64); ok {
		b.CustomerID = &v
	}
	if v, ok := attrs["vehicle"].(string); ok {
		b.Vehicle = v
	}
	if v, ok := attrs["status"].(model.BookingStatus); ok {
		b.Status = v
	}
	if v, ok := attrs["currency"].(string); ok {
		b.Currency = v
	}
	if v, ok := attrs["start_at"].(time.Time); ok {
		b.StartAt = &v
	}
	if v, ok := attrs["end_at"].(time.Time); ok {
		b.EndAt = &v
	}
	if v, ok := attrs["source_updated_at"].(time.Time); ok {
		b.SourceUpdatedAt = &v
	}
	if v, ok := attrs["total_cents"].(int64); ok {
		b.TotalCents = v
	}
	if v, ok := attrs["deposit_cents"].(int64); ok {
		b.DepositCents = v
	}
	if v, ok := attrs["hold_cents"].(int64); ok {
		b.HoldCents = v
	}
	if v, ok := attrs["source_system"].(string); ok {
		b.SourceSystem = &v
	}
	if v, ok := attrs["source_id"].(string); ok {
		b.SourceID = &v
	}
	if v, ok := attrs["metadata"].(model.JSONB); ok {
		b.Metadata = v
	}
}

func clampCents(cents int64) int64 {
	if cents < 0 {
		return 0
	}
	return cents
}
