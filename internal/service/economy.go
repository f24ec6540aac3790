package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"taskagotchi/internal/domain"
	"taskagotchi/internal/metrics"
	"taskagotchi/internal/utils"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CatalogEntry is a catalog item, optionally flagged with whether a given user owns it.
type CatalogEntry struct {
	domain.CustomizationItem
	Owned *bool `json:"owned,omitempty"`
}

// PurchaseResult describes the outcome of a purchase. AlreadyOwned purchases change nothing.
type PurchaseResult struct {
	Item         domain.CustomizationItem `json:"item"`
	Balance      int64                    `json:"balance"`
	AlreadyOwned bool                     `json:"already_owned"`
}

// BalanceRecheckDelay is how long after a wallet write the cached balance is deleted a second time.
const BalanceRecheckDelay = 500 * time.Millisecond

// EconomyService owns wallet balances and item purchases.
type EconomyService struct {
	db           *gorm.DB
	rdb          *redis.Client
	cacheTTL     time.Duration
	recheckDelay time.Duration
	now          func() time.Time
}

// NewEconomyService creates the economy service. rdb may be nil to disable caching.
func NewEconomyService(db *gorm.DB, rdb *redis.Client, cacheTTL time.Duration) *EconomyService {
	return &EconomyService{db: db, rdb: rdb, cacheTTL: cacheTTL, recheckDelay: BalanceRecheckDelay, now: time.Now}
}

// ListCatalog returns every catalog item ordered by type, cost and id. When forUser is set
// each entry carries an owned flag for that user.
func (s *EconomyService) ListCatalog(ctx context.Context, forUser *uint) ([]CatalogEntry, error) {
	items, err := s.catalogItems(ctx)
	if err != nil {
		return nil, err
	}

	var owned map[uint]bool
	if forUser != nil {
		var ids []uint
		if err := s.db.WithContext(ctx).Model(&domain.Transaction{}).
			Where("user_id = ?", *forUser).
			Pluck("item_id", &ids).Error; err != nil {
			return nil, fmt.Errorf("load owned items: %w", err)
		}
		owned = make(map[uint]bool, len(ids))
		for _, id := range ids {
			owned[id] = true
		}
	}

	entries := make([]CatalogEntry, len(items))
	for i, item := range items {
		entries[i] = CatalogEntry{CustomizationItem: item}
		if owned != nil {
			has := owned[item.ID]
			entries[i].Owned = &has
		}
	}
	return entries, nil
}

func (s *EconomyService) catalogItems(ctx context.Context) ([]domain.CustomizationItem, error) {
	var items []domain.CustomizationItem
	if found, err := utils.GetCache(ctx, s.rdb, utils.CatalogCacheKey, &items); err == nil && found {
		return items, nil
	} else if err != nil {
		logrus.WithError(err).Warn("Catalog cache read failed")
	}
	if err := s.db.WithContext(ctx).Order("item_type").Order("item_cost").Order("id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	_ = utils.SetCache(ctx, s.rdb, utils.CatalogCacheKey, items, s.cacheTTL)
	return items, nil
}

// Purchase buys itemID for buyerID. The wallet row is locked for the whole transaction, so
// concurrent purchases by the same buyer are serialized. Buying an owned item is a no-op that
// reports AlreadyOwned.
func (s *EconomyService) Purchase(ctx context.Context, buyerID, itemID uint) (*PurchaseResult, error) {
	var result PurchaseResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the buyer's wallet row until commit
		var wallet domain.Wallet
		walletErr := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", buyerID).
			First(&wallet).Error
		if walletErr != nil && !errors.Is(walletErr, gorm.ErrRecordNotFound) {
			return walletErr
		}

		// Already owned: report the current balance and write nothing
		var owned int64
		if err := tx.Model(&domain.Transaction{}).
			Where("user_id = ? AND item_id = ?", buyerID, itemID).
			Count(&owned).Error; err != nil {
			return err
		}
		if owned > 0 {
			result = PurchaseResult{Balance: wallet.Balance, AlreadyOwned: true}
			return tx.First(&result.Item, itemID).Error
		}

		if err := userExists(tx, buyerID); err != nil {
			return err // Unknown buyer
		}
		var item domain.CustomizationItem
		if err := tx.First(&item, itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: item %d", domain.ErrNotFound, itemID)
			}
			return err
		}
		if walletErr != nil {
			return fmt.Errorf("%w: wallet for user %d", domain.ErrNotFound, buyerID)
		}
		if wallet.Balance < item.Cost {
			return domain.ErrInsufficientFunds // Not enough coins
		}

		// Debit only while the balance still covers the cost; free items skip the write
		if item.Cost > 0 {
			res := tx.Model(&domain.Wallet{}).
				Where("id = ? AND balance >= ?", wallet.ID, item.Cost).
				Update("balance", gorm.Expr("balance - ?", item.Cost))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected != 1 {
				return domain.ErrInsufficientFunds // Balance changed after the check
			}
		}
		// Record ownership; the unique (user_id, item_id) index rejects a second row
		if err := tx.Create(&domain.Transaction{UserID: buyerID, ItemID: itemID, CreatedAt: s.now().UTC()}).Error; err != nil {
			return err
		}
		result = PurchaseResult{Item: item, Balance: wallet.Balance - item.Cost}
		return nil
	})

	fields := logrus.Fields{"user_id": buyerID, "item_id": itemID}
	switch {
	case err == nil && result.AlreadyOwned:
		metrics.PurchasesTotal.WithLabelValues("already_owned").Inc()
		return &result, nil
	case err == nil:
		metrics.PurchasesTotal.WithLabelValues("purchased").Inc()
		metrics.CoinsSpentTotal.Add(float64(result.Item.Cost))
		s.invalidateBalance(ctx, buyerID)
		logrus.WithFields(fields).WithFields(logrus.Fields{
			"cost":    result.Item.Cost,
			"balance": result.Balance,
		}).Info("Item purchased")
		return &result, nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		// Lost a race against a concurrent purchase of the same item.
		metrics.PurchasesTotal.WithLabelValues("already_owned").Inc()
		return s.alreadyOwned(ctx, buyerID, itemID)
	case errors.Is(err, domain.ErrInsufficientFunds):
		metrics.PurchasesTotal.WithLabelValues("insufficient_funds").Inc()
		return nil, err
	case errors.Is(err, domain.ErrNotFound):
		metrics.PurchasesTotal.WithLabelValues("not_found").Inc()
		return nil, err
	default:
		metrics.PurchasesTotal.WithLabelValues("error").Inc()
		logrus.WithFields(fields).WithError(err).Error("Purchase failed")
		return nil, fmt.Errorf("purchase: %w", err)
	}
}

func (s *EconomyService) alreadyOwned(ctx context.Context, buyerID, itemID uint) (*PurchaseResult, error) {
	result := PurchaseResult{AlreadyOwned: true}
	db := s.db.WithContext(ctx)
	if err := db.First(&result.Item, itemID).Error; err != nil {
		return nil, fmt.Errorf("load item: %w", err)
	}
	var wallet domain.Wallet
	if err := db.Where("user_id = ?", buyerID).First(&wallet).Error; err != nil {
		return nil, fmt.Errorf("load wallet: %w", err)
	}
	result.Balance = wallet.Balance
	return &result, nil
}

// Balance returns the wallet balance of owner.
func (s *EconomyService) Balance(ctx context.Context, owner uint) (int64, error) {
	key := utils.BalanceCacheKey(owner)
	var cached int64
	if found, err := utils.GetCache(ctx, s.rdb, key, &cached); err == nil && found {
		return cached, nil
	}
	var wallet domain.Wallet
	if err := s.db.WithContext(ctx).Where("user_id = ?", owner).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: wallet for user %d", domain.ErrNotFound, owner)
		}
		return 0, err
	}
	_ = utils.SetCache(ctx, s.rdb, key, wallet.Balance, s.cacheTTL)
	return wallet.Balance, nil
}

// AdjustBalance applies delta (credit or debit) to owner's wallet. A delta that would take the
// balance below zero is rejected with ErrInvalidAdjustment and nothing is written.
func (s *EconomyService) AdjustBalance(ctx context.Context, owner uint, delta int64) (int64, error) {
	var balance int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the wallet row until commit
		var wallet domain.Wallet
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", owner).
			First(&wallet).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: wallet for user %d", domain.ErrNotFound, owner)
			}
			return err
		}
		if delta > 0 && wallet.Balance > math.MaxInt64-delta {
			return fmt.Errorf("%w: balance overflow", domain.ErrInvalidAdjustment)
		}
		if wallet.Balance+delta < 0 {
			return domain.ErrInvalidAdjustment // Never below zero
		}
		balance = wallet.Balance + delta // New balance
		if delta == 0 {
			return nil // Nothing to write
		}
		return tx.Model(&wallet).Update("balance", gorm.Expr("balance + ?", delta)).Error
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAdjustment) {
			metrics.BalanceAdjustmentsTotal.WithLabelValues("rejected").Inc()
		} else {
			metrics.BalanceAdjustmentsTotal.WithLabelValues("error").Inc()
		}
		logrus.WithFields(logrus.Fields{
			"user_id": owner,
			"delta":   delta,
			"error":   err.Error(),
		}).Warn("Balance adjustment failed")
		return 0, err
	}
	metrics.BalanceAdjustmentsTotal.WithLabelValues("applied").Inc()
	s.invalidateBalance(ctx, owner)
	logrus.WithFields(logrus.Fields{
		"user_id": owner,
		"delta":   delta,
		"balance": balance,
	}).Info("Balance adjusted")
	return balance, nil
}

// Purchases returns a page of owner's purchase history, newest first, and the total count.
func (s *EconomyService) Purchases(ctx context.Context, owner uint, page, pageSize int) ([]domain.Transaction, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	db := s.db.WithContext(ctx)
	var total int64
	if err := db.Model(&domain.Transaction{}).Where("user_id = ?", owner).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count purchases: %w", err)
	}
	var txs []domain.Transaction
	if err := db.Where("user_id = ?", owner).
		Order("created_at desc").Order("id desc").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&txs).Error; err != nil {
		return nil, 0, fmt.Errorf("list purchases: %w", err)
	}
	return txs, total, nil
}

// invalidateBalance drops the cached balance after a committed write. A Balance call that read
// the old row before the commit can still write it back, so the key is deleted again after
// recheckDelay. Staleness is bounded by recheckDelay, or by CACHE_TTL if the second delete fails.
func (s *EconomyService) invalidateBalance(ctx context.Context, owner uint) {
	key := utils.BalanceCacheKey(owner)
	if err := utils.DeleteCache(ctx, s.rdb, key); err != nil {
		logrus.WithField("user_id", owner).WithError(err).Warn("Balance cache invalidation failed")
	}
	if s.rdb == nil || s.recheckDelay <= 0 {
		return
	}
	time.AfterFunc(s.recheckDelay, func() {
		// The request context is gone by now
		if err := utils.DeleteCache(context.Background(), s.rdb, key); err != nil {
			logrus.WithField("user_id", owner).WithError(err).Warn("Delayed balance cache invalidation failed")
		}
	})
}

// userExists returns ErrNotFound when no user has the given id.
func userExists(tx *gorm.DB, id uint) error {
	var count int64
	if err := tx.Model(&domain.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%w: user %d", domain.ErrNotFound, id)
	}
	return nil
}
