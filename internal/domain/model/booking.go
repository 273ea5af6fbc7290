package model

import (
	"time"
)

// BookingStatus is the canonical reservation status. The type is an open
// string set: unrecognized provider vocabularies may pass through verbatim
// under the pass-through mapping policy.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking is the canonical reservation record, keyed across all feeds by its
// unique reference. Monetary fields are integer minor units (cents), never
// floats.
type Booking struct {
	ID              int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID      *int64        `gorm:"index" json:"customer_id,omitempty"`
	Customer        *Customer     `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Reference       string        `gorm:"uniqueIndex;not null;size:100" json:"reference"`
	Status          BookingStatus `gorm:"size:50;not null;default:'pending'" json:"status"`
	Vehicle         string        `gorm:"size:255" json:"vehicle"`
	Currency        string        `gorm:"size:3;default:'NZD'" json:"currency"`
	StartAt         *time.Time    `json:"start_at,omitempty"`
	EndAt           *time.Time    `json:"end_at,omitempty"`
	TotalCents      int64         `gorm:"not null;default:0" json:"total_cents"`
	DepositCents    int64         `gorm:"not null;default:0" json:"deposit_cents"`
	HoldCents       int64         `gorm:"not null;default:0" json:"hold_cents"`
	SourceSystem    *string       `gorm:"size:50;index:idx_bookings_source,unique,where:source_system IS NOT NULL AND source_id IS NOT NULL" json:"source_system,omitempty"`
	SourceID        *string       `gorm:"size:100;index:idx_bookings_source,unique,where:source_system IS NOT NULL AND source_id IS NOT NULL" json:"source_id,omitempty"`
	SourceUpdatedAt *time.Time    `json:"source_updated_at,omitempty"`
	PortalToken     string        `gorm:"uniqueIndex;size:64" json:"portal_token"`
	Metadata        JSONB         `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt       time.Time     `gorm:"default:now()" json:"created_at"`
	UpdatedAt       time.Time     `gorm:"default:now()" json:"updated_at"`

	// Relations
	Payments []Payment `gorm:"foreignKey:BookingID" json:"payments,omitempty"`
}

// TableName specifies the table name for GORM
func (Booking) TableName() string {
	return "bookings"
}

// BookingColumns is every booking column the reconciliation engine is
// allowed to write. Deployments whose schema lags behind can narrow this via
// the sync.booking_columns config allowlist; portal_token and created_at are
// deliberately absent since they are set once on insert and never updated.
func BookingColumns() []string {
	return []string{
		"customer_id",
		"reference",
		"status",
		"vehicle",
		"currency",
		"start_at",
		"end_at",
		"total_cents",
		"deposit_cents",
		"hold_cents",
		"source_system",
		"source_id",
		"source_updated_at",
		"metadata",
	}
}
