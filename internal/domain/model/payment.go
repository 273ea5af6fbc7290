package model

import (
	"time"
)

// PaymentStatus is the canonical payment status; like BookingStatus it is an
// open string set under the pass-through mapping policy.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusRefunded  PaymentStatus = "refunded"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// PaymentType classifies what a payment row is for. Inferred from the
// description when the feed does not state it.
type PaymentType string

const (
	PaymentTypeDeposit  PaymentType = "deposit"
	PaymentTypeBalance  PaymentType = "balance"
	PaymentTypePosthire PaymentType = "posthire"
	PaymentTypeRefund   PaymentType = "refund"
)

// Payment is one charge/hold/refund ledger entry attached to a booking.
// (source_system, source_id) is the idempotency key for feed re-imports.
type Payment struct {
	ID           int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	BookingID    int64         `gorm:"not null;index" json:"booking_id"`
	Booking      *Booking      `gorm:"foreignKey:BookingID" json:"booking,omitempty"`
	AmountCents  int64         `gorm:"not null;default:0" json:"amount_cents"`
	Currency     string        `gorm:"size:3;default:'NZD'" json:"currency"`
	Status       PaymentStatus `gorm:"size:50;not null;default:'pending'" json:"status"`
	Method       string        `gorm:"size:50" json:"method"`
	Type         PaymentType   `gorm:"size:20;not null;default:'balance'" json:"type"`
	PaidAt       *time.Time    `json:"paid_at,omitempty"`
	Reference    string        `gorm:"size:100" json:"reference"`
	SourceSystem string        `gorm:"size:50;not null;uniqueIndex:idx_payments_source" json:"source_system"`
	SourceID     string        `gorm:"size:100;not null;uniqueIndex:idx_payments_source" json:"source_id"`
	Metadata     JSONB         `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt    time.Time     `gorm:"default:now()" json:"created_at"`
	UpdatedAt    time.Time     `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Payment) TableName() string {
	return "payments"
}
