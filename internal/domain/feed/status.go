package feed

import (
	"strings"

	"github.com/velorent/rentalsync/internal/domain/model"
)

// StatusPolicy controls what the mappers do with a non-empty status the
// lookup tables do not recognize. The two import paths intentionally
// differ: the Dream Drives importer preserves unknown provider vocabularies
// verbatim for forward compatibility, while the generic VEVS path coerces
// them to pending.
type StatusPolicy string

const (
	StatusPassThrough    StatusPolicy = "pass_through"
	StatusDefaultPending StatusPolicy = "default_pending"
)

var bookingStatuses = map[string]model.BookingStatus{
	"pending":   model.BookingStatusPending,
	"new":       model.BookingStatusPending,
	"open":      model.BookingStatusPending,
	"confirmed": model.BookingStatusConfirmed,
	"approved":  model.BookingStatusConfirmed,
	"booked":    model.BookingStatusConfirmed,
	"completed": model.BookingStatusCompleted,
	"complete":  model.BookingStatusCompleted,
	"finished":  model.BookingStatusCompleted,
	"returned":  model.BookingStatusCompleted,
	"cancelled": model.BookingStatusCancelled,
	"canceled":  model.BookingStatusCancelled,
	"cancel":    model.BookingStatusCancelled,
	"void":      model.BookingStatusCancelled,
}

var paymentStatuses = map[string]model.PaymentStatus{
	"pending":    model.PaymentStatusPending,
	"open":       model.PaymentStatusPending,
	"authorized": model.PaymentStatusPending,
	"succeeded":  model.PaymentStatusSucceeded,
	"success":    model.PaymentStatusSucceeded,
	"successful": model.PaymentStatusSucceeded,
	"paid":       model.PaymentStatusSucceeded,
	"captured":   model.PaymentStatusSucceeded,
	"completed":  model.PaymentStatusSucceeded,
	"complete":   model.PaymentStatusSucceeded,
	"refunded":   model.PaymentStatusRefunded,
	"refund":     model.PaymentStatusRefunded,
	"reversed":   model.PaymentStatusRefunded,
	"failed":     model.PaymentStatusFailed,
	"failure":    model.PaymentStatusFailed,
	"declined":   model.PaymentStatusFailed,
	"error":      model.PaymentStatusFailed,
	"expired":    model.PaymentStatusFailed,
}

// MapBookingStatus maps a provider's free-text booking status into the
// canonical vocabulary. Empty input always yields pending; unknown input is
// kept or defaulted per the policy.
func MapBookingStatus(raw string, policy StatusPolicy) model.BookingStatus {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return model.BookingStatusPending
	}
	if mapped, ok := bookingStatuses[strings.ToLower(trimmed)]; ok {
		return mapped
	}
	if policy == StatusPassThrough {
		// Unknown vocabulary is kept verbatim, not lowercased.
		return model.BookingStatus(trimmed)
	}
	return model.BookingStatusPending
}

// MapPaymentStatus is the payment-side counterpart of MapBookingStatus.
func MapPaymentStatus(raw string, policy StatusPolicy) model.PaymentStatus {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return model.PaymentStatusPending
	}
	if mapped, ok := paymentStatuses[strings.ToLower(trimmed)]; ok {
		return mapped
	}
	if policy == StatusPassThrough {
		return model.PaymentStatus(trimmed)
	}
	return model.PaymentStatusPending
}
