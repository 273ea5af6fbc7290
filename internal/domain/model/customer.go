package model

import (
	"strings"
	"time"
)

// Customer is the canonical person/contact record. Email is the identity
// key: it is always non-null and unique, but may be a synthesized
// placeholder when a feed supplied no contact address.
type Customer struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null;size:255" json:"email"`
	FirstName    string    `gorm:"size:100" json:"first_name"`
	LastName     string    `gorm:"size:100" json:"last_name"`
	Phone        string    `gorm:"size:50" json:"phone"`
	SourceSystem *string   `gorm:"size:50;index:idx_customers_source,unique,where:source_system IS NOT NULL AND source_id IS NOT NULL" json:"source_system,omitempty"`
	SourceID     *string   `gorm:"size:100;index:idx_customers_source,unique,where:source_system IS NOT NULL AND source_id IS NOT NULL" json:"source_id,omitempty"`
	Metadata     JSONB     `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt    time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt    time.Time `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// FullName joins first and last name, tolerating either being empty.
func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

const placeholderDomain = "example.invalid"

// PlaceholderEmail synthesizes the deterministic non-deliverable address used
// as an identity key when a feed row has no email. Same reference always
// yields the same placeholder, so re-imports stay idempotent.
func PlaceholderEmail(reference string) string {
	return "unknown+" + reference + "@" + placeholderDomain
}

// IsPlaceholderEmail reports whether email is a synthesized identity key
// rather than a real contact address.
func IsPlaceholderEmail(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	return strings.HasSuffix(email[at+1:], ".invalid")
}
