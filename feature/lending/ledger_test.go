package lending_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"lending-engine/core/rules"
	"lending-engine/feature/lending"
	"lending-engine/feature/lending/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupLedger creates a ledger backed by an in-memory SQLite DB.
func setupLedger(t *testing.T, dbName string) *lending.Ledger {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", dbName)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Loan{}))

	return lending.NewLedger(db, lending.DefaultPolicy(), zap.NewNop())
}

func TestLedger_OpenClose(t *testing.T) {
	ledger := setupLedger(t, "ledger_open_close")
	ctx := context.Background()
	now := time.Now().UTC()

	loan, err := ledger.Open(ctx, 1, 2, now, now.AddDate(0, 0, 14))
	require.NoError(t, err)
	assert.True(t, loan.Active())
	assert.Equal(t, 0, loan.RenewalCount)

	closed, err := ledger.Close(ctx, loan.ID, now.Add(time.Hour))
	require.NoError(t, err)
	require.NotNil(t, closed.ReturnAt)
	assert.False(t, closed.Active())
	assert.False(t, closed.ReturnAt.Before(closed.CheckoutAt))

	// A closed loan is terminal.
	_, err = ledger.Close(ctx, loan.ID, now.Add(2*time.Hour))
	var v *rules.Violation
	require.ErrorAs(t, err, &v)
	assert.True(t, v.Has(rules.ReasonAlreadyReturned))

	_, err = ledger.Close(ctx, 9999, now)
	assert.ErrorIs(t, err, rules.ErrLoanNotFound)
}

func TestLedger_Extend(t *testing.T) {
	ledger := setupLedger(t, "ledger_extend")
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("Advances Due Date", func(t *testing.T) {
		due := now.AddDate(0, 0, 14)
		loan, err := ledger.Open(ctx, 1, 2, now, due)
		require.NoError(t, err)

		extended, err := ledger.Extend(ctx, loan.ID, now)
		require.NoError(t, err)
		assert.Equal(t, 1, extended.RenewalCount)
		assert.WithinDuration(t, due.AddDate(0, 0, 7), extended.DueAt, time.Second)
	})

	t.Run("Renewal Limit", func(t *testing.T) {
		loan, err := ledger.Open(ctx, 1, 3, now, now.AddDate(0, 0, 14))
		require.NoError(t, err)

		_, err = ledger.Extend(ctx, loan.ID, now)
		require.NoError(t, err)
		_, err = ledger.Extend(ctx, loan.ID, now)
		require.NoError(t, err)

		_, err = ledger.Extend(ctx, loan.ID, now)
		var v *rules.Violation
		require.ErrorAs(t, err, &v)
		assert.True(t, v.Has(rules.ReasonRenewalLimitReached))
	})

	t.Run("Overdue Loan Cannot Renew", func(t *testing.T) {
		loan, err := ledger.Open(ctx, 1, 4, now.AddDate(0, 0, -20), now.AddDate(0, 0, -6))
		require.NoError(t, err)

		_, err = ledger.Extend(ctx, loan.ID, now)
		var v *rules.Violation
		require.ErrorAs(t, err, &v)
		assert.True(t, v.Has(rules.ReasonOverdue))
	})

	t.Run("Returned Loan Cannot Renew", func(t *testing.T) {
		loan, err := ledger.Open(ctx, 1, 5, now, now.AddDate(0, 0, 14))
		require.NoError(t, err)
		_, err = ledger.Close(ctx, loan.ID, now)
		require.NoError(t, err)

		_, err = ledger.Extend(ctx, loan.ID, now)
		var v *rules.Violation
		require.ErrorAs(t, err, &v)
		assert.True(t, v.Has(rules.ReasonAlreadyReturned))
	})
}

func TestLedger_Queries(t *testing.T) {
	ledger := setupLedger(t, "ledger_queries")
	ctx := context.Background()
	now := time.Now().UTC()

	// Member 1: one active (overdue), one returned. Member 2: one active.
	overdueLoan, err := ledger.Open(ctx, 10, 1, now.AddDate(0, 0, -30), now.AddDate(0, 0, -16))
	require.NoError(t, err)
	returned, err := ledger.Open(ctx, 11, 1, now.AddDate(0, 0, -10), now.AddDate(0, 0, 4))
	require.NoError(t, err)
	_, err = ledger.Close(ctx, returned.ID, now)
	require.NoError(t, err)
	current, err := ledger.Open(ctx, 10, 2, now, now.AddDate(0, 0, 14))
	require.NoError(t, err)

	active1, err := ledger.ActiveLoansForMember(ctx, 1)
	require.NoError(t, err)
	require.Len(t, active1, 1)
	assert.Equal(t, overdueLoan.ID, active1[0].ID)

	history1, err := ledger.LoansForMember(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, history1, 2)

	item10, err := ledger.ActiveLoansForItem(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, item10, 2)

	od, err := ledger.OverdueLoans(ctx, now)
	require.NoError(t, err)
	require.Len(t, od, 1)
	assert.Equal(t, overdueLoan.ID, od[0].ID)

	// As of a point before the due date nothing is overdue.
	od, err = ledger.OverdueLoans(ctx, now.AddDate(0, 0, -17))
	require.NoError(t, err)
	assert.Empty(t, od)

	all, err := ledger.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_ = current
}
