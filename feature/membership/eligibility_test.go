package membership_test

import (
	"testing"
	"time"

	"lending-engine/core/rules"
	"lending-engine/feature/membership"
	"lending-engine/feature/membership/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeMember(maxLoans int) *models.Member {
	return &models.Member{
		ID:       1,
		Status:   models.StatusActive,
		MaxLoans: maxLoans,
	}
}

func TestCheckEligibility(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Eligible", func(t *testing.T) {
		m := activeMember(3)
		v := membership.CheckEligibility(m, nil, now)
		assert.Nil(t, v)
	})

	t.Run("Eligible With Future Expiry", func(t *testing.T) {
		m := activeMember(3)
		expiry := now.AddDate(1, 0, 0)
		m.MembershipExpiry = &expiry
		v := membership.CheckEligibility(m, nil, now)
		assert.Nil(t, v)
	})

	t.Run("Suspended", func(t *testing.T) {
		m := activeMember(3)
		m.Status = models.StatusSuspended
		v := membership.CheckEligibility(m, nil, now)
		require.NotNil(t, v)
		assert.True(t, v.Has(rules.ReasonNotActive))
	})

	t.Run("Expired Membership", func(t *testing.T) {
		m := activeMember(3)
		expiry := now.AddDate(0, -1, 0)
		m.MembershipExpiry = &expiry
		v := membership.CheckEligibility(m, nil, now)
		require.NotNil(t, v)
		assert.True(t, v.Has(rules.ReasonExpired))
	})

	t.Run("Loan Limit Reached", func(t *testing.T) {
		m := activeMember(1)
		loans := []membership.LoanSnapshot{{DueAt: now.AddDate(0, 0, 7)}}
		v := membership.CheckEligibility(m, loans, now)
		require.NotNil(t, v)
		assert.Equal(t, []rules.Reason{rules.ReasonLoanLimitReached}, v.Reasons)
	})

	t.Run("Has Overdue", func(t *testing.T) {
		m := activeMember(3)
		loans := []membership.LoanSnapshot{{DueAt: now.AddDate(0, 0, -1)}}
		v := membership.CheckEligibility(m, loans, now)
		require.NotNil(t, v)
		assert.True(t, v.Has(rules.ReasonHasOverdue))
	})

	t.Run("All Reasons Reported Together", func(t *testing.T) {
		m := activeMember(1)
		m.Status = models.StatusSuspended
		expiry := now.AddDate(0, -1, 0)
		m.MembershipExpiry = &expiry
		loans := []membership.LoanSnapshot{{DueAt: now.AddDate(0, 0, -3)}}

		v := membership.CheckEligibility(m, loans, now)
		require.NotNil(t, v)
		assert.True(t, v.Has(rules.ReasonNotActive))
		assert.True(t, v.Has(rules.ReasonExpired))
		assert.True(t, v.Has(rules.ReasonLoanLimitReached))
		assert.True(t, v.Has(rules.ReasonHasOverdue))
		assert.Len(t, v.Reasons, 4)
	})
}
