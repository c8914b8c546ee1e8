package lending

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lending-engine/core/rules"
	"lending-engine/feature/lending/models"
	"lending-engine/feature/lending/overdue"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Ledger owns the loan records and their state transitions.
type Ledger struct {
	db     *gorm.DB
	policy Policy
	logger *zap.Logger
}

// NewLedger creates a loan ledger with the given policy.
func NewLedger(db *gorm.DB, policy Policy, logger *zap.Logger) *Ledger {
	return &Ledger{
		db:     db,
		policy: policy.OrDefaults(),
		logger: logger,
	}
}

// WithTx returns a copy of the ledger bound to the given transaction.
func (l *Ledger) WithTx(tx *gorm.DB) *Ledger {
	return &Ledger{db: tx, policy: l.policy, logger: l.logger}
}

// Open creates a new active loan. Only the lending service calls this, after
// eligibility and reservation have succeeded.
func (l *Ledger) Open(ctx context.Context, itemID, memberID uint, checkoutAt, dueAt time.Time) (*models.Loan, error) {
	loan := &models.Loan{
		ItemID:     itemID,
		MemberID:   memberID,
		CheckoutAt: checkoutAt,
		DueAt:      dueAt,
	}
	if err := l.db.WithContext(ctx).Create(loan).Error; err != nil {
		return nil, fmt.Errorf("failed to create loan: %w", err)
	}
	return loan, nil
}

// Get returns the loan with the given id.
func (l *Ledger) Get(ctx context.Context, id uint) (*models.Loan, error) {
	var loan models.Loan
	err := l.db.WithContext(ctx).First(&loan, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, rules.ErrLoanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load loan %d: %w", id, err)
	}
	return &loan, nil
}

// Close marks the loan returned as of now. A closed loan is terminal;
// closing it again fails.
func (l *Ledger) Close(ctx context.Context, id uint, now time.Time) (*models.Loan, error) {
	loan, err := l.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !loan.Active() {
		return nil, rules.Reject("return", rules.ReasonAlreadyReturned)
	}
	if now.Before(loan.CheckoutAt) {
		return nil, rules.Inconsistent("return", "return time precedes checkout of loan %d", id)
	}

	loan.ReturnAt = &now
	loan.UpdatedAt = now
	if err := l.db.WithContext(ctx).Save(loan).Error; err != nil {
		return nil, fmt.Errorf("failed to close loan %d: %w", id, err)
	}
	return loan, nil
}

// Extend renews the loan: the due date moves out by the policy's renewal
// period and the renewal count goes up by one. A returned loan, a loan at
// the renewal limit, or an overdue loan cannot be extended; every reason
// that applies is reported.
func (l *Ledger) Extend(ctx context.Context, id uint, now time.Time) (*models.Loan, error) {
	loan, err := l.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !loan.Active() {
		return nil, rules.Reject("renew", rules.ReasonAlreadyReturned)
	}

	var reasons []rules.Reason
	if loan.RenewalCount >= l.policy.MaxRenewals {
		reasons = append(reasons, rules.ReasonRenewalLimitReached)
	}
	if overdue.IsOverdue(loan.DueAt, loan.ReturnAt, now) {
		reasons = append(reasons, rules.ReasonOverdue)
	}
	if len(reasons) > 0 {
		return nil, rules.Reject("renew", reasons...)
	}

	loan.DueAt = loan.DueAt.AddDate(0, 0, l.policy.RenewalDays)
	loan.RenewalCount++
	loan.UpdatedAt = now
	if err := l.db.WithContext(ctx).Save(loan).Error; err != nil {
		return nil, fmt.Errorf("failed to extend loan %d: %w", id, err)
	}
	return loan, nil
}

// ActiveLoansForMember returns the member's open loans.
func (l *Ledger) ActiveLoansForMember(ctx context.Context, memberID uint) ([]models.Loan, error) {
	var loans []models.Loan
	err := l.db.WithContext(ctx).
		Where("member_id = ? AND return_at IS NULL", memberID).
		Find(&loans).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load loans for member %d: %w", memberID, err)
	}
	return loans, nil
}

// ActiveLoansForItem returns the open loans against an item.
func (l *Ledger) ActiveLoansForItem(ctx context.Context, itemID uint) ([]models.Loan, error) {
	var loans []models.Loan
	err := l.db.WithContext(ctx).
		Where("item_id = ? AND return_at IS NULL", itemID).
		Find(&loans).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load loans for item %d: %w", itemID, err)
	}
	return loans, nil
}

// LoansForMember returns every loan the member has ever held, open or
// closed. Used by the member statistics snapshot.
func (l *Ledger) LoansForMember(ctx context.Context, memberID uint) ([]models.Loan, error) {
	var loans []models.Loan
	err := l.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Find(&loans).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load loan history for member %d: %w", memberID, err)
	}
	return loans, nil
}

// OverdueLoans returns every open loan whose due date has passed as of the
// given instant.
func (l *Ledger) OverdueLoans(ctx context.Context, asOf time.Time) ([]models.Loan, error) {
	var loans []models.Loan
	err := l.db.WithContext(ctx).
		Where("return_at IS NULL AND due_at < ?", asOf).
		Find(&loans).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load overdue loans: %w", err)
	}
	return loans, nil
}

// All returns every loan in the ledger. Used by the statistics snapshot.
func (l *Ledger) All(ctx context.Context) ([]models.Loan, error) {
	var loans []models.Loan
	if err := l.db.WithContext(ctx).Find(&loans).Error; err != nil {
		return nil, fmt.Errorf("failed to load loans: %w", err)
	}
	return loans, nil
}
