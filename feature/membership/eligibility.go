package membership

import (
	"time"

	"lending-engine/core/rules"
	"lending-engine/feature/lending/overdue"
	"lending-engine/feature/membership/models"
)

// LoanSnapshot is the slice of an active loan's state that eligibility
// depends on. The lending service builds these from the ledger so this
// package stays decoupled from loan storage.
type LoanSnapshot struct {
	DueAt time.Time
}

// CheckEligibility decides whether the member may open a new loan as of now,
// given the member's currently active loans. It returns nil when eligible,
// otherwise a Violation carrying every reason that applies.
func CheckEligibility(m *models.Member, activeLoans []LoanSnapshot, now time.Time) *rules.Violation {
	var reasons []rules.Reason

	if m.Status != models.StatusActive {
		reasons = append(reasons, rules.ReasonNotActive)
	}
	if m.ExpiredAt(now) {
		reasons = append(reasons, rules.ReasonExpired)
	}
	if len(activeLoans) >= m.MaxLoans {
		reasons = append(reasons, rules.ReasonLoanLimitReached)
	}
	for _, loan := range activeLoans {
		if overdue.IsOverdue(loan.DueAt, nil, now) {
			reasons = append(reasons, rules.ReasonHasOverdue)
			break
		}
	}

	if len(reasons) == 0 {
		return nil
	}
	return rules.Reject("checkout", reasons...)
}
