package membership

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"lending-engine/core/rules"
	"lending-engine/feature/membership/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Registry manages member records.
type Registry struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewRegistry creates a new membership registry.
func NewRegistry(db *gorm.DB, logger *zap.Logger) *Registry {
	return &Registry{
		db:     db,
		logger: logger,
	}
}

// WithTx returns a copy of the registry bound to the given transaction.
func (r *Registry) WithTx(tx *gorm.DB) *Registry {
	return &Registry{db: tx, logger: r.logger}
}

// Register adds a new member. A member number is generated when none is
// given; email and member number must be unique.
func (r *Registry) Register(ctx context.Context, m *models.Member) error {
	if m.Email == "" {
		return fmt.Errorf("email is required")
	}
	if m.Status == "" {
		m.Status = models.StatusActive
	}
	if m.MaxLoans == 0 {
		m.MaxLoans = models.DefaultMaxLoans
	}
	if m.MaxLoans < 1 {
		return fmt.Errorf("max loans must be at least 1, got %d", m.MaxLoans)
	}
	if m.MembershipDate.IsZero() {
		m.MembershipDate = time.Now().UTC()
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Member{}).
		Where("email = ?", m.Email).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return rules.ErrDuplicateEmail
	}

	if m.MemberNumber == "" {
		number, err := r.GenerateMemberNumber(ctx)
		if err != nil {
			return err
		}
		m.MemberNumber = number
	} else {
		if err := r.db.WithContext(ctx).Model(&models.Member{}).
			Where("member_number = ?", m.MemberNumber).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check member number: %w", err)
		}
		if count > 0 {
			return rules.ErrDuplicateMemberNumber
		}
	}

	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("failed to create member: %w", err)
	}

	r.logger.Info("Member registered",
		zap.Uint("member_id", m.ID),
		zap.String("member_number", m.MemberNumber),
	)
	return nil
}

// GenerateMemberNumber produces the next number in the MEM<year><seq> series,
// e.g. MEM20260042.
func (r *Registry) GenerateMemberNumber(ctx context.Context) (string, error) {
	prefix := fmt.Sprintf("MEM%d", time.Now().UTC().Year())

	var last models.Member
	err := r.db.WithContext(ctx).
		Where("member_number LIKE ?", prefix+"%").
		Order("member_number DESC").
		First(&last).Error

	seq := 1
	if err == nil {
		if n, convErr := strconv.Atoi(strings.TrimPrefix(last.MemberNumber, prefix)); convErr == nil {
			seq = n + 1
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("failed to query member numbers: %w", err)
	}

	return fmt.Sprintf("%s%04d", prefix, seq), nil
}

// Get returns the member with the given id.
func (r *Registry) Get(ctx context.Context, id uint) (*models.Member, error) {
	var m models.Member
	err := r.db.WithContext(ctx).First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, rules.ErrMemberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load member %d: %w", id, err)
	}
	return &m, nil
}

// Suspend blocks the member from new checkouts. Existing loans are not
// force-returned.
func (r *Registry) Suspend(ctx context.Context, id uint) (*models.Member, error) {
	return r.setStatus(ctx, id, models.StatusSuspended)
}

// Activate restores a suspended or expired member.
func (r *Registry) Activate(ctx context.Context, id uint) (*models.Member, error) {
	return r.setStatus(ctx, id, models.StatusActive)
}

func (r *Registry) setStatus(ctx context.Context, id uint, status models.Status) (*models.Member, error) {
	res := r.db.WithContext(ctx).Model(&models.Member{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update member %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, rules.ErrMemberNotFound
	}

	r.logger.Info("Member status changed",
		zap.Uint("member_id", id),
		zap.String("status", string(status)),
	)
	return r.Get(ctx, id)
}

// ExtendMembership pushes the expiry out by the given number of months,
// counting from the later of now and the current expiry, and re-activates
// the member.
func (r *Registry) ExtendMembership(ctx context.Context, id uint, months int) (*models.Member, error) {
	if months <= 0 {
		return nil, fmt.Errorf("months must be positive, got %d", months)
	}

	m, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	base := now
	if m.MembershipExpiry != nil && m.MembershipExpiry.After(now) {
		base = *m.MembershipExpiry
	}
	expiry := base.AddDate(0, 0, 30*months)

	res := r.db.WithContext(ctx).Model(&models.Member{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"membership_expiry": expiry,
			"status":            models.StatusActive,
			"updated_at":        now,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to extend membership %d: %w", id, res.Error)
	}

	r.logger.Info("Membership extended",
		zap.Uint("member_id", id),
		zap.Int("months", months),
		zap.Time("expiry", expiry),
	)
	return r.Get(ctx, id)
}

// Delete removes a member. The caller (the lending service) is responsible
// for checking that the member holds no non-terminal loan.
func (r *Registry) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Member{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete member %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return rules.ErrMemberNotFound
	}
	return nil
}
