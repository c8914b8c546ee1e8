package membership_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"lending-engine/core/rules"
	"lending-engine/feature/membership"
	"lending-engine/feature/membership/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupRegistry creates a registry backed by an in-memory SQLite DB.
func setupRegistry(t *testing.T, dbName string) *membership.Registry {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", dbName)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Member{}))

	return membership.NewRegistry(db, zap.NewNop())
}

func TestRegisterMember(t *testing.T) {
	reg := setupRegistry(t, "membership_register")
	ctx := context.Background()

	t.Run("Generates Member Number", func(t *testing.T) {
		m := &models.Member{
			Name:  "John Doe",
			Email: "john.doe@example.com",
		}
		require.NoError(t, reg.Register(ctx, m))

		prefix := fmt.Sprintf("MEM%d", time.Now().UTC().Year())
		assert.Equal(t, prefix+"0001", m.MemberNumber)
		assert.Equal(t, models.StatusActive, m.Status)
		assert.Equal(t, models.DefaultMaxLoans, m.MaxLoans)

		// Sequence increments for the next member
		m2 := &models.Member{Name: "Jane Doe", Email: "jane.doe@example.com"}
		require.NoError(t, reg.Register(ctx, m2))
		assert.Equal(t, prefix+"0002", m2.MemberNumber)
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		m := &models.Member{Name: "Dup", Email: "john.doe@example.com"}
		err := reg.Register(ctx, m)
		assert.ErrorIs(t, err, rules.ErrDuplicateEmail)
	})

	t.Run("Duplicate Member Number", func(t *testing.T) {
		prefix := fmt.Sprintf("MEM%d", time.Now().UTC().Year())
		m := &models.Member{
			Name:         "Dup Number",
			Email:        "dup.number@example.com",
			MemberNumber: prefix + "0001",
		}
		err := reg.Register(ctx, m)
		assert.ErrorIs(t, err, rules.ErrDuplicateMemberNumber)
	})

	t.Run("Missing Email", func(t *testing.T) {
		err := reg.Register(ctx, &models.Member{Name: "No Email"})
		assert.Error(t, err)
	})
}

func TestSuspendActivate(t *testing.T) {
	reg := setupRegistry(t, "membership_status")
	ctx := context.Background()

	m := &models.Member{Name: "Sam", Email: "sam@example.com"}
	require.NoError(t, reg.Register(ctx, m))

	got, err := reg.Suspend(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuspended, got.Status)

	got, err = reg.Activate(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, got.Status)

	_, err = reg.Suspend(ctx, 9999)
	assert.ErrorIs(t, err, rules.ErrMemberNotFound)
}

func TestExtendMembership(t *testing.T) {
	reg := setupRegistry(t, "membership_extend")
	ctx := context.Background()

	t.Run("From Now When Lapsed", func(t *testing.T) {
		expired := time.Now().UTC().AddDate(0, -2, 0)
		m := &models.Member{
			Name:             "Lapsed",
			Email:            "lapsed@example.com",
			MembershipExpiry: &expired,
			Status:           models.StatusExpired,
		}
		require.NoError(t, reg.Register(ctx, m))

		got, err := reg.ExtendMembership(ctx, m.ID, 12)
		require.NoError(t, err)

		// Counts from now, not from the lapsed expiry, and re-activates.
		require.NotNil(t, got.MembershipExpiry)
		expected := time.Now().UTC().AddDate(0, 0, 360)
		assert.WithinDuration(t, expected, *got.MembershipExpiry, time.Minute)
		assert.Equal(t, models.StatusActive, got.Status)
	})

	t.Run("From Current Expiry When Still Valid", func(t *testing.T) {
		future := time.Now().UTC().AddDate(0, 0, 10)
		m := &models.Member{
			Name:             "Current",
			Email:            "current@example.com",
			MembershipExpiry: &future,
		}
		require.NoError(t, reg.Register(ctx, m))

		got, err := reg.ExtendMembership(ctx, m.ID, 1)
		require.NoError(t, err)

		require.NotNil(t, got.MembershipExpiry)
		expected := future.AddDate(0, 0, 30)
		assert.WithinDuration(t, expected, *got.MembershipExpiry, time.Second)
	})

	t.Run("Non-Positive Months", func(t *testing.T) {
		m := &models.Member{Name: "Bad Months", Email: "bad.months@example.com"}
		require.NoError(t, reg.Register(ctx, m))

		_, err := reg.ExtendMembership(ctx, m.ID, 0)
		assert.Error(t, err)
	})

	t.Run("Unknown Member", func(t *testing.T) {
		_, err := reg.ExtendMembership(ctx, 9999, 12)
		assert.ErrorIs(t, err, rules.ErrMemberNotFound)
	})
}

func TestDeleteMember(t *testing.T) {
	reg := setupRegistry(t, "membership_delete")
	ctx := context.Background()

	m := &models.Member{Name: "Gone", Email: "gone@example.com"}
	require.NoError(t, reg.Register(ctx, m))

	require.NoError(t, reg.Delete(ctx, m.ID))

	_, err := reg.Get(ctx, m.ID)
	assert.ErrorIs(t, err, rules.ErrMemberNotFound)

	err = reg.Delete(ctx, m.ID)
	assert.ErrorIs(t, err, rules.ErrMemberNotFound)
}
