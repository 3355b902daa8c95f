package domain

import (
	"time"

	"github.com/google/uuid"
)

// Address is one shipping address in a session's address book. At most
// one address per session has IsDefault set.
type Address struct {
	ID         uuid.UUID `json:"id" db:"id"`
	SessionID  string    `json:"session_id" db:"session_id"`
	Name       string    `json:"name" db:"name"`
	Phone      string    `json:"phone" db:"phone"`
	Line1      string    `json:"address_line1" db:"address_line1"`
	Line2      string    `json:"address_line2,omitempty" db:"address_line2"`
	City       string    `json:"city" db:"city"`
	State      string    `json:"state" db:"state"`
	PostalCode string    `json:"postal_code" db:"postal_code"`
	Country    string    `json:"country" db:"country"`
	IsDefault  bool      `json:"is_default" db:"is_default"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// Snapshot copies the address into the immutable form stored on orders.
func (a *Address) Snapshot() AddressSnapshot {
	return AddressSnapshot{
		Name:       a.Name,
		Phone:      a.Phone,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}
