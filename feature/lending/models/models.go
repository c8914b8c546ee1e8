package models

import "time"

// Loan binds one item copy to one member for a borrowing period.
//
// A loan with ReturnAt set is terminal and never mutated again. Invariant:
// ReturnAt, when present, is not before CheckoutAt.
type Loan struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	ItemID       uint       `gorm:"index" json:"item_id"`
	MemberID     uint       `gorm:"index" json:"member_id"`
	CheckoutAt   time.Time  `gorm:"index" json:"checkout_at"`
	DueAt        time.Time  `gorm:"index" json:"due_at"`
	ReturnAt     *time.Time `json:"return_at,omitempty"`
	RenewalCount int        `json:"renewal_count"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName maps the model to the 'loans' table.
func (Loan) TableName() string {
	return "loans"
}

// Active reports whether the loan is still open.
func (l Loan) Active() bool {
	return l.ReturnAt == nil
}

// LoanStatistics is an aggregate snapshot over the whole ledger.
type LoanStatistics struct {
	TotalLoans     int `json:"total_loans"`
	ActiveLoans    int `json:"active_loans"`
	OverdueLoans   int `json:"overdue_loans"`
	CompletedLoans int `json:"completed_loans"`
	TotalRenewals  int `json:"total_renewals"`
}

// OverdueLoan is a ledger entry enriched with the overdue facts derived
// from the lending policy.
type OverdueLoan struct {
	Loan        Loan    `json:"loan"`
	DaysOverdue int     `json:"days_overdue"`
	Fine        float64 `json:"fine"`
}

// MemberStatistics summarizes one member's borrowing state.
type MemberStatistics struct {
	MemberID     uint `json:"member_id"`
	ActiveLoans  int  `json:"active_loans_count"`
	TotalLoans   int  `json:"total_loans_count"`
	OverdueLoans int  `json:"overdue_loans_count"`
	HasOverdue   bool `json:"has_overdue"`
	CanBorrow    bool `json:"can_borrow"`
}
