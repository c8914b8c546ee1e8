package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lending-engine/core/rules"
	"lending-engine/feature/catalog/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Store manages items and their copy counters.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewStore creates a new catalog store.
func NewStore(db *gorm.DB, logger *zap.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger,
	}
}

// WithTx returns a copy of the store bound to the given transaction. The
// lending service uses this to run reservations inside its checkout/return
// transaction scope.
func (s *Store) WithTx(tx *gorm.DB) *Store {
	return &Store{db: tx, logger: s.logger}
}

// Register adds a new item to the catalog. The ISBN is normalized and
// validated, and AvailableCopies defaults to TotalCopies when unset.
func (s *Store) Register(ctx context.Context, item *models.Item) error {
	item.ISBN = models.NormalizeISBN(item.ISBN)
	if msg := models.ValidateISBN(item.ISBN); msg != "" {
		return fmt.Errorf("invalid isbn %q: %s", item.ISBN, msg)
	}
	if item.TotalCopies < 1 {
		return fmt.Errorf("total copies must be at least 1, got %d", item.TotalCopies)
	}
	if item.AvailableCopies == 0 {
		item.AvailableCopies = item.TotalCopies
	}
	if item.AvailableCopies < 0 || item.AvailableCopies > item.TotalCopies {
		return fmt.Errorf("available copies %d outside [0, %d]", item.AvailableCopies, item.TotalCopies)
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Item{}).
		Where("isbn = ?", item.ISBN).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check isbn: %w", err)
	}
	if count > 0 {
		return rules.ErrDuplicateISBN
	}

	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}

	s.logger.Info("Item registered",
		zap.Uint("item_id", item.ID),
		zap.String("isbn", item.ISBN),
		zap.Int("total_copies", item.TotalCopies),
	)
	return nil
}

// Get returns the item with the given id.
func (s *Store) Get(ctx context.Context, id uint) (*models.Item, error) {
	var item models.Item
	err := s.db.WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, rules.ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load item %d: %w", id, err)
	}
	return &item, nil
}

// Reserve takes one copy of the item. The decrement only happens if a copy
// is available; the guard and the mutation are a single UPDATE statement, so
// two concurrent reservations of the last copy cannot both succeed.
func (s *Store) Reserve(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Model(&models.Item{}).
		Where("id = ? AND available_copies > 0", id).
		Updates(map[string]any{
			"available_copies": gorm.Expr("available_copies - 1"),
			"updated_at":       time.Now().UTC(),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to reserve item %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := s.Get(ctx, id); err != nil {
			return err
		}
		return rules.Reject("reserve", rules.ReasonNoCopiesAvailable)
	}
	return nil
}

// Release returns one copy of the item to the shelf. Exceeding TotalCopies
// means reserve/release got unpaired somewhere, which is an engine bug, so
// the operation aborts with a consistency error instead of clamping.
func (s *Store) Release(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Model(&models.Item{}).
		Where("id = ? AND available_copies < total_copies", id).
		Updates(map[string]any{
			"available_copies": gorm.Expr("available_copies + 1"),
			"updated_at":       time.Now().UTC(),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to release item %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := s.Get(ctx, id); err != nil {
			return err
		}
		return rules.Inconsistent("release", "item %d already at capacity", id)
	}
	return nil
}

// AddCopies grows the inventory of an item by n, raising both counters.
func (s *Store) AddCopies(ctx context.Context, id uint, n int) (*models.Item, error) {
	if n <= 0 {
		return nil, fmt.Errorf("copy count must be positive, got %d", n)
	}

	res := s.db.WithContext(ctx).Model(&models.Item{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"total_copies":     gorm.Expr("total_copies + ?", n),
			"available_copies": gorm.Expr("available_copies + ?", n),
			"updated_at":       time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to add copies to item %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, rules.ErrItemNotFound
	}

	s.logger.Info("Copies added", zap.Uint("item_id", id), zap.Int("count", n))
	return s.Get(ctx, id)
}

// RemoveCopies shrinks the inventory of an item by n. Only currently
// available copies may be removed; copies out on loan stay accounted for.
func (s *Store) RemoveCopies(ctx context.Context, id uint, n int) (*models.Item, error) {
	if n <= 0 {
		return nil, fmt.Errorf("copy count must be positive, got %d", n)
	}

	res := s.db.WithContext(ctx).Model(&models.Item{}).
		Where("id = ? AND available_copies >= ?", id, n).
		Updates(map[string]any{
			"total_copies":     gorm.Expr("total_copies - ?", n),
			"available_copies": gorm.Expr("available_copies - ?", n),
			"updated_at":       time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to remove copies from item %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := s.Get(ctx, id); err != nil {
			return nil, err
		}
		return nil, rules.Reject("remove copies", rules.ReasonInsufficientCopies)
	}

	s.logger.Info("Copies removed", zap.Uint("item_id", id), zap.Int("count", n))
	return s.Get(ctx, id)
}

// Delete removes an item from the catalog. The caller (the lending service)
// is responsible for checking that no non-terminal loan references it.
func (s *Store) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Item{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete item %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return rules.ErrItemNotFound
	}
	return nil
}
