package repository

import (
	"context"

	"campusfeed/internal/models"

	"gorm.io/gorm"
)

// Ledger reasons written by the server itself.
const (
	ReasonSignupBonus = "signup_bonus"
)

// WalletRepository defines the Auracoin ledger operations.
type WalletRepository interface {
	Get(ctx context.Context, userID uint) (*models.Wallet, error)
	// Credit adds amount and appends a ledger entry atomically.
	Credit(ctx context.Context, userID uint, amount int64, reason string) (*models.Wallet, error)
	// Debit subtracts amount only when the balance covers it, appending a
	// ledger entry in the same transaction.
	Debit(ctx context.Context, userID uint, amount int64, reason string) (*models.Wallet, error)
	Entries(ctx context.Context, userID uint, limit int) ([]models.WalletEntry, error)
}

type walletRepository struct {
	db *gorm.DB
}

// NewWalletRepository returns a new WalletRepository implementation.
func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) Get(ctx context.Context, userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.WithContext(ctx).First(&wallet, "user_id = ?", userID).Error; err != nil {
		return nil, translate(err, "Wallet", userID)
	}
	return &wallet, nil
}

func (r *walletRepository) Credit(ctx context.Context, userID uint, amount int64, reason string) (*models.Wallet, error) {
	return r.apply(ctx, userID, amount, reason, func(tx *gorm.DB) *gorm.DB {
		return tx.Model(&models.Wallet{}).
			Where("user_id = ?", userID).
			Update("balance", gorm.Expr("balance + ?", amount))
	})
}

func (r *walletRepository) Debit(ctx context.Context, userID uint, amount int64, reason string) (*models.Wallet, error) {
	return r.apply(ctx, userID, -amount, reason, func(tx *gorm.DB) *gorm.DB {
		return tx.Model(&models.Wallet{}).
			Where("user_id = ? AND balance >= ?", userID, amount).
			Update("balance", gorm.Expr("balance - ?", amount))
	})
}

// apply runs a conditional balance update and records the ledger entry. When
// the update matches no row it tells a missing wallet apart from a short balance.
func (r *walletRepository) apply(ctx context.Context, userID uint, signed int64, reason string, update func(tx *gorm.DB) *gorm.DB) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := update(tx)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var current models.Wallet
			if err := tx.First(&current, "user_id = ?", userID).Error; err != nil {
				return err
			}
			return models.NewInsufficientFundsError(current.Balance, -signed)
		}
		if err := tx.First(&wallet, "user_id = ?", userID).Error; err != nil {
			return err
		}
		return tx.Create(&models.WalletEntry{
			UserID:       userID,
			Amount:       signed,
			BalanceAfter: wallet.Balance,
			Reason:       reason,
		}).Error
	})
	if err != nil {
		return nil, translate(err, "Wallet", userID)
	}
	return &wallet, nil
}

func (r *walletRepository) Entries(ctx context.Context, userID uint, limit int) ([]models.WalletEntry, error) {
	entries := make([]models.WalletEntry, 0)
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return entries, nil
}
