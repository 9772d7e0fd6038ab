package repository

import (
	"context"

	"campusfeed/internal/models"

	"gorm.io/gorm"
)

// PollRepository defines persistence operations for polls and their options.
type PollRepository interface {
	// CreateWithOptions inserts the poll and one option per text in a single
	// transaction. On error nothing is persisted.
	CreateWithOptions(ctx context.Context, poll *models.Poll, optionTexts []string) error
	GetByID(ctx context.Context, id uint) (*models.Poll, error)
	List(ctx context.Context, limit, offset int) ([]*models.Poll, error)
	GetOption(ctx context.Context, optionID uint) (*models.PollOption, error)
	// ReconcileTotals sets every drifted poll's total_votes to the sum of its
	// option votes and returns the ids of the polls it changed.
	ReconcileTotals(ctx context.Context) ([]uint, error)
}

type pollRepository struct {
	db *gorm.DB
}

// NewPollRepository returns a new PollRepository implementation.
func NewPollRepository(db *gorm.DB) PollRepository {
	return &pollRepository{db: db}
}

func (r *pollRepository) CreateWithOptions(ctx context.Context, poll *models.Poll, optionTexts []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Options").Create(poll).Error; err != nil {
			return err
		}
		options := make([]models.PollOption, 0, len(optionTexts))
		for _, text := range optionTexts {
			options = append(options, models.PollOption{PollID: poll.ID, Text: text})
		}
		if err := tx.Create(&options).Error; err != nil {
			return err
		}
		poll.Options = options
		return nil
	})
}

func (r *pollRepository) GetByID(ctx context.Context, id uint) (*models.Poll, error) {
	var poll models.Poll
	err := withPollDetails(r.db.WithContext(ctx)).First(&poll, id).Error
	if err != nil {
		return nil, translate(err, "Poll", id)
	}
	return &poll, nil
}

func (r *pollRepository) List(ctx context.Context, limit, offset int) ([]*models.Poll, error) {
	var polls []*models.Poll
	err := withPollDetails(r.db.WithContext(ctx)).
		Order("polls.created_at DESC, polls.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&polls).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return polls, nil
}

func (r *pollRepository) GetOption(ctx context.Context, optionID uint) (*models.PollOption, error) {
	var option models.PollOption
	if err := r.db.WithContext(ctx).First(&option, optionID).Error; err != nil {
		return nil, translate(err, "Poll option", optionID)
	}
	return &option, nil
}

func (r *pollRepository) ReconcileTotals(ctx context.Context) ([]uint, error) {
	const optionSum = "(SELECT COALESCE(SUM(poll_options.votes), 0) FROM poll_options WHERE poll_options.poll_id = polls.id)"
	var ids []uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Poll{}).
			Where("total_votes <> "+optionSum).
			Order("id ASC").
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		return tx.Exec("UPDATE polls SET total_votes = "+optionSum+" WHERE id IN ?", ids).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

func withPollDetails(db *gorm.DB) *gorm.DB {
	return db.Select("polls.*, "+authorNameSelect("polls")).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("poll_options.id ASC")
		})
}
