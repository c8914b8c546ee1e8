package lending

import (
	"context"
	"time"

	"lending-engine/core/locks"
	"lending-engine/core/logger"
	"lending-engine/core/rules"
	"lending-engine/feature/catalog"
	catmodels "lending-engine/feature/catalog/models"
	"lending-engine/feature/lending/models"
	"lending-engine/feature/lending/overdue"
	"lending-engine/feature/membership"
	memmodels "lending-engine/feature/membership/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service orchestrates checkout, return and renewal across the catalog, the
// membership registry and the loan ledger. It is the only component exposed
// to callers.
//
// Each mutating operation locks the entities it touches (member first, then
// item) and runs its mutations in one database transaction, so a failure
// after partial mutation rolls everything back and a retried call observes
// the clean pre-attempt state.
type Service struct {
	db        *gorm.DB
	inventory *catalog.Store
	members   *membership.Registry
	ledger    *Ledger
	locks     *locks.Registry
	policy    Policy
	logger    *zap.Logger
}

// NewService creates the lending service.
func NewService(db *gorm.DB, inventory *catalog.Store, members *membership.Registry, ledger *Ledger, policy Policy, log *zap.Logger) *Service {
	return &Service{
		db:        db,
		inventory: inventory,
		members:   members,
		ledger:    ledger,
		locks:     locks.NewRegistry(),
		policy:    policy.OrDefaults(),
		logger:    log,
	}
}

// Checkout lends one copy of the item to the member. The due date defaults
// to now plus the policy's loan period. Eligibility and availability are
// checked and the reservation and loan creation happen atomically under the
// member and item locks; two concurrent checkouts of the last copy cannot
// both succeed.
func (s *Service) Checkout(ctx context.Context, itemID, memberID uint, dueAt *time.Time) (*models.Loan, error) {
	l := logger.WithOpID(s.logger).With(
		zap.Uint("item_id", itemID),
		zap.Uint("member_id", memberID),
	)

	unlock := s.locks.LockPair(memberID, itemID)
	defer unlock()

	now := time.Now().UTC()
	due := now.AddDate(0, 0, s.policy.LoanDays)
	if dueAt != nil {
		due = *dueAt
	}

	var loan *models.Loan
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.inventory.WithTx(tx).Get(ctx, itemID); err != nil {
			return err
		}
		member, err := s.members.WithTx(tx).Get(ctx, memberID)
		if err != nil {
			return err
		}

		active, err := s.ledger.WithTx(tx).ActiveLoansForMember(ctx, memberID)
		if err != nil {
			return err
		}
		snapshots := make([]membership.LoanSnapshot, len(active))
		for i, al := range active {
			snapshots[i] = membership.LoanSnapshot{DueAt: al.DueAt}
		}

		if v := membership.CheckEligibility(member, snapshots, now); v != nil {
			return v
		}

		if err := s.inventory.WithTx(tx).Reserve(ctx, itemID); err != nil {
			return err
		}

		loan, err = s.ledger.WithTx(tx).Open(ctx, itemID, memberID, now, due)
		return err
	})
	if err != nil {
		l.Warn("Checkout rejected", zap.Error(err))
		return nil, err
	}

	l.Info("Checkout completed",
		zap.Uint("loan_id", loan.ID),
		zap.Time("due_at", loan.DueAt),
	)
	return loan, nil
}

// Return closes the loan and puts its copy back on the shelf, atomically.
// If the release would push available copies past the total, the whole
// operation aborts with a consistency error and the loan stays open.
func (s *Service) Return(ctx context.Context, loanID uint) (*models.Loan, error) {
	// The loan's entity references are immutable, so reading them before
	// taking the locks is safe.
	ref, err := s.ledger.Get(ctx, loanID)
	if err != nil {
		return nil, err
	}

	l := logger.WithOpID(s.logger).With(zap.Uint("loan_id", loanID))

	unlock := s.locks.LockPair(ref.MemberID, ref.ItemID)
	defer unlock()

	now := time.Now().UTC()

	var loan *models.Loan
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		loan, txErr = s.ledger.WithTx(tx).Close(ctx, loanID, now)
		if txErr != nil {
			return txErr
		}
		return s.inventory.WithTx(tx).Release(ctx, loan.ItemID)
	})
	if err != nil {
		l.Warn("Return rejected", zap.Error(err))
		return nil, err
	}

	l.Info("Return completed",
		zap.Uint("item_id", loan.ItemID),
		zap.Int("days_overdue", overdue.Days(loan.DueAt, nil, now)),
	)
	return loan, nil
}

// Renew extends the loan's due date by the policy's renewal period, bounded
// by the renewal limit and blocked once the loan is overdue.
func (s *Service) Renew(ctx context.Context, loanID uint) (*models.Loan, error) {
	ref, err := s.ledger.Get(ctx, loanID)
	if err != nil {
		return nil, err
	}

	l := logger.WithOpID(s.logger).With(zap.Uint("loan_id", loanID))

	unlock := s.locks.LockPair(ref.MemberID, ref.ItemID)
	defer unlock()

	now := time.Now().UTC()

	var loan *models.Loan
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		loan, txErr = s.ledger.WithTx(tx).Extend(ctx, loanID, now)
		return txErr
	})
	if err != nil {
		l.Warn("Renewal rejected", zap.Error(err))
		return nil, err
	}

	l.Info("Renewal completed",
		zap.Time("due_at", loan.DueAt),
		zap.Int("renewal_count", loan.RenewalCount),
	)
	return loan, nil
}

// Statistics returns an aggregate snapshot over the whole ledger, computed
// inside one transaction so no loan is observed mid-mutation.
func (s *Service) Statistics(ctx context.Context) (*models.LoanStatistics, error) {
	now := time.Now().UTC()

	var stats models.LoanStatistics
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		loans, err := s.ledger.WithTx(tx).All(ctx)
		if err != nil {
			return err
		}
		for _, loan := range loans {
			stats.TotalLoans++
			if loan.Active() {
				stats.ActiveLoans++
			} else {
				stats.CompletedLoans++
			}
			if overdue.IsOverdue(loan.DueAt, loan.ReturnAt, now) {
				stats.OverdueLoans++
			}
			stats.TotalRenewals += loan.RenewalCount
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// OverdueLoans lists every overdue loan as of the given instant (zero means
// now), enriched with days overdue and the accrued fine.
func (s *Service) OverdueLoans(ctx context.Context, asOf time.Time) ([]models.OverdueLoan, error) {
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	loans, err := s.ledger.OverdueLoans(ctx, asOf)
	if err != nil {
		return nil, err
	}

	report := make([]models.OverdueLoan, len(loans))
	for i, loan := range loans {
		days := overdue.Days(loan.DueAt, loan.ReturnAt, asOf)
		report[i] = models.OverdueLoan{
			Loan:        loan,
			DaysOverdue: days,
			Fine:        overdue.Fine(days, s.policy.FinePerDay),
		}
	}
	return report, nil
}

// MemberStatistics summarizes one member's borrowing state.
func (s *Service) MemberStatistics(ctx context.Context, memberID uint) (*models.MemberStatistics, error) {
	now := time.Now().UTC()

	var stats *models.MemberStatistics
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		member, err := s.members.WithTx(tx).Get(ctx, memberID)
		if err != nil {
			return err
		}
		loans, err := s.ledger.WithTx(tx).LoansForMember(ctx, memberID)
		if err != nil {
			return err
		}

		stats = &models.MemberStatistics{MemberID: memberID}
		var snapshots []membership.LoanSnapshot
		for _, loan := range loans {
			stats.TotalLoans++
			if loan.Active() {
				stats.ActiveLoans++
				snapshots = append(snapshots, membership.LoanSnapshot{DueAt: loan.DueAt})
			}
			if overdue.IsOverdue(loan.DueAt, loan.ReturnAt, now) {
				stats.OverdueLoans++
				stats.HasOverdue = true
			}
		}
		stats.CanBorrow = membership.CheckEligibility(member, snapshots, now) == nil
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// RegisterItem adds a new title to the catalog.
func (s *Service) RegisterItem(ctx context.Context, item *catmodels.Item) error {
	return s.inventory.Register(ctx, item)
}

// AddCopies grows an item's inventory.
func (s *Service) AddCopies(ctx context.Context, itemID uint, n int) (*catmodels.Item, error) {
	return s.inventory.AddCopies(ctx, itemID, n)
}

// RemoveCopies shrinks an item's inventory; only currently available copies
// may be removed.
func (s *Service) RemoveCopies(ctx context.Context, itemID uint, n int) (*catmodels.Item, error) {
	return s.inventory.RemoveCopies(ctx, itemID, n)
}

// RemoveItem deletes an item from the catalog. Forbidden while any
// non-terminal loan references it.
func (s *Service) RemoveItem(ctx context.Context, itemID uint) error {
	unlock := s.locks.LockItem(itemID)
	defer unlock()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		active, err := s.ledger.WithTx(tx).ActiveLoansForItem(ctx, itemID)
		if err != nil {
			return err
		}
		if len(active) > 0 {
			return rules.ErrItemOnLoan
		}
		return s.inventory.WithTx(tx).Delete(ctx, itemID)
	})
}

// RegisterMember registers a new member, generating a member number when
// none is given.
func (s *Service) RegisterMember(ctx context.Context, m *memmodels.Member) error {
	return s.members.Register(ctx, m)
}

// SuspendMember blocks the member from new checkouts. Existing loans stay
// open until returned.
func (s *Service) SuspendMember(ctx context.Context, memberID uint) (*memmodels.Member, error) {
	return s.members.Suspend(ctx, memberID)
}

// ActivateMember restores a suspended member.
func (s *Service) ActivateMember(ctx context.Context, memberID uint) (*memmodels.Member, error) {
	return s.members.Activate(ctx, memberID)
}

// ExtendMembership extends the membership; months <= 0 selects the policy
// default.
func (s *Service) ExtendMembership(ctx context.Context, memberID uint, months int) (*memmodels.Member, error) {
	if months <= 0 {
		months = s.policy.MembershipMonths
	}
	return s.members.ExtendMembership(ctx, memberID, months)
}

// RemoveMember deletes a member. Forbidden while the member holds any
// non-terminal loan.
func (s *Service) RemoveMember(ctx context.Context, memberID uint) error {
	unlock := s.locks.LockMember(memberID)
	defer unlock()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		active, err := s.ledger.WithTx(tx).ActiveLoansForMember(ctx, memberID)
		if err != nil {
			return err
		}
		if len(active) > 0 {
			return rules.ErrMemberHasLoans
		}
		return s.members.WithTx(tx).Delete(ctx, memberID)
	})
}
