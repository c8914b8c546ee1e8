package models

import (
	"strings"
	"time"
)

// Item represents a catalog entry: one title with a fixed total copy count
// and a live available-copy count.
//
// Invariant: 0 <= AvailableCopies <= TotalCopies. The counters are only
// mutated through the catalog store so the invariant holds under concurrency.
type Item struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ISBN            string    `gorm:"uniqueIndex;size:13" json:"isbn"`
	Title           string    `gorm:"index;size:255" json:"title"`
	Author          string    `gorm:"index;size:255" json:"author"`
	Publisher       string    `gorm:"size:255" json:"publisher,omitempty"`
	PublicationYear int       `json:"publication_year,omitempty"`
	Category        string    `gorm:"index;size:100" json:"category"`
	Description     string    `gorm:"size:2000" json:"description,omitempty"`
	TotalCopies     int       `json:"total_copies"`
	AvailableCopies int       `json:"available_copies"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName maps the model to the 'items' table.
func (Item) TableName() string {
	return "items"
}

// IsAvailable reports whether at least one copy can be checked out.
func (i Item) IsAvailable() bool {
	return i.AvailableCopies > 0
}

// NormalizeISBN strips separators so "978-0-13-235088-4" and
// "9780132350884" compare equal.
func NormalizeISBN(isbn string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(isbn) {
		if r == '-' || r == ' ' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ValidateISBN checks a normalized ISBN. Valid forms are 13 digits (ISBN-13)
// or 10 characters where the first nine are digits and the last is a digit
// or the check character X (ISBN-10).
func ValidateISBN(isbn string) string {
	switch len(isbn) {
	case 13:
		for _, r := range isbn {
			if r < '0' || r > '9' {
				return "isbn-13 must contain only digits"
			}
		}
	case 10:
		for i, r := range isbn {
			if r >= '0' && r <= '9' {
				continue
			}
			if i == 9 && r == 'X' {
				continue
			}
			return "isbn-10 must be nine digits plus a digit or X"
		}
	default:
		return "isbn must be 10 or 13 characters"
	}
	return ""
}
