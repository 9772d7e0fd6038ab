package repository

import (
	"context"
	"errors"
	"strings"

	"campusfeed/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// Create inserts the user and opens their wallet with startingBalance in
	// the same transaction.
	Create(ctx context.Context, user *models.User, startingBalance int64) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	// GetByLogin finds a user by username or email; nil when absent.
	GetByLogin(ctx context.Context, login string) (*models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User, startingBalance int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		wallet := models.Wallet{UserID: user.ID, Balance: startingBalance}
		if err := tx.Create(&wallet).Error; err != nil {
			return err
		}
		return tx.Create(&models.WalletEntry{
			UserID:       user.ID,
			Amount:       startingBalance,
			BalanceAfter: startingBalance,
			Reason:       ReasonSignupBonus,
		}).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return models.NewConflictError("Username or email already taken")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err, "User", id)
	}
	return &user, nil
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	var user models.User
	login = strings.TrimSpace(login)
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", login, strings.ToLower(login)).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}
