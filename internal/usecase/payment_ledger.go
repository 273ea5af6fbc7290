package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/velorent/rentalsync/internal/domain/feed"
	"github.com/velorent/rentalsync/internal/domain/model"
	"github.com/velorent/rentalsync/internal/domain/repository"
)

// upsertPayment reconciles one embedded payment sub-record against the
// ledger, keyed by (source_system, source_id). A row without its own
// identifier gets a generated one; such payments cannot be re-synced
// idempotently, a known limitation.
func (r *Reconciler) upsertPayment(ctx context.Context, ds repository.Datastore, booking *model.Booking, row feed.Row) (*model.Payment, error) {
	sourceID, ok := feed.First(row, feed.PaymentIDKeys...)
	if !ok {
		sourceID = uuid.NewString()
		r.logger.Debug("payment row has no identifier, generated one",
			zap.String("booking_reference", booking.Reference),
			zap.String("source_id", sourceID))
	}

	attrs := map[string]any{
		"booking_id": booking.ID,
		"metadata":   model.JSONB(row),
	}

	amountRaw, _ := feed.First(row, feed.AmountKeys...)
	attrs["amount_cents"] = feed.ToCents(amountRaw)

	currency := booking.Currency
	if v, ok := feed.First(row, feed.CurrencyKeys...); ok {
		currency = strings.ToUpper(v)
	}
	attrs["currency"] = currency

	statusRaw, _ := feed.First(row, feed.PaymentStatusKeys...)
	attrs["status"] = feed.MapPaymentStatus(statusRaw, r.profile.StatusPolicy)

	if method, ok := feed.First(row, feed.MethodKeys...); ok {
		attrs["method"] = strings.ToLower(method)
	}

	description, _ := feed.First(row, feed.DescriptionKeys...)
	explicit, _ := feed.First(row, feed.PaymentTypeKeys...)
	attrs["type"] = paymentType(explicit, description)

	if raw, ok := feed.First(row, feed.PaidAtKeys...); ok {
		if t, err := feed.ParseTime(raw, r.opts.Location); err == nil {
			attrs["paid_at"] = t
		}
	}

	if reference, ok := feed.First(row, feed.ReferenceKeys...); ok {
		attrs["reference"] = reference
	}

	payment := &model.Payment{
		BookingID:    booking.ID,
		AmountCents:  attrs["amount_cents"].(int64),
		Currency:     currency,
		Status:       attrs["status"].(model.PaymentStatus),
		Type:         attrs["type"].(model.PaymentType),
		SourceSystem: r.profile.Source,
		SourceID:     sourceID,
		Metadata:     model.JSONB(row),
	}
	if v, ok := attrs["method"].(string); ok {
		payment.Method = v
	}
	if v, ok := attrs["paid_at"]; ok {
		t := v.(time.Time)
		payment.PaidAt = &t
	}
	if v, ok := attrs["reference"].(string); ok {
		payment.Reference = v
	}

	return ds.Payments().Upsert(ctx, payment, attrs)
}

// paymentType picks the ledger type: an explicit well-known type wins,
// otherwise the free-text description is inspected for deposit/refund/post
// markers, otherwise it is a balance payment.
func paymentType(explicit, description string) model.PaymentType {
	switch model.PaymentType(strings.ToLower(strings.TrimSpace(explicit))) {
	case model.PaymentTypeDeposit:
		return model.PaymentTypeDeposit
	case model.PaymentTypeBalance:
		return model.PaymentTypeBalance
	case model.PaymentTypePosthire:
		return model.PaymentTypePosthire
	case model.PaymentTypeRefund:
		return model.PaymentTypeRefund
	}

	d := strings.ToLower(description)
	switch {
	case strings.Contains(d, "deposit"):
		return model.PaymentTypeDeposit
	case strings.Contains(d, "refund"):
		return model.PaymentTypeRefund
	case strings.Contains(d, "post"):
		return model.PaymentTypePosthire
	default:
		return model.PaymentTypeBalance
	}
}
