package models

import "time"

// Status is the membership status.
type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusExpired   Status = "expired"
)

// DefaultMaxLoans is the concurrent loan cap assigned at registration when
// none is given.
const DefaultMaxLoans = 3

// Member represents a library member.
//
// Only active members with an unexpired membership may open new loans.
// Suspension blocks new checkouts only: existing loans stay open until the
// member returns them.
type Member struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	MemberNumber     string     `gorm:"uniqueIndex;size:20" json:"member_number"`
	Name             string     `gorm:"index;size:255" json:"name"`
	Email            string     `gorm:"uniqueIndex;size:255" json:"email"`
	Phone            string     `gorm:"size:20" json:"phone,omitempty"`
	Address          string     `gorm:"size:500" json:"address,omitempty"`
	MembershipDate   time.Time  `json:"membership_date"`
	MembershipExpiry *time.Time `json:"membership_expiry,omitempty"`
	Status           Status     `gorm:"size:20" json:"status"`
	MaxLoans         int        `json:"max_loans"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// TableName maps the model to the 'members' table.
func (Member) TableName() string {
	return "members"
}

// ExpiredAt reports whether the membership has lapsed as of now. A member
// without an expiry date never lapses.
func (m Member) ExpiredAt(now time.Time) bool {
	return m.MembershipExpiry != nil && m.MembershipExpiry.Before(now)
}
