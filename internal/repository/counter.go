package repository

import (
	"context"
	"fmt"

	"campusfeed/internal/models"
	"campusfeed/internal/observability"

	"gorm.io/gorm"
)

// CounterTarget names one whitelisted integer column that supports atomic
// increments. Table and column names never come from callers.
type CounterTarget int

const (
	TargetPostLikes CounterTarget = iota + 1
	TargetCommentLikes
	TargetPollOptionVotes
	TargetPollTotalVotes
)

type counterColumn struct {
	name        string
	resource    string
	table       string
	column      string
	softDeletes bool
}

var counterColumns = map[CounterTarget]counterColumn{
	TargetPostLikes:       {"post_likes", "Post", "posts", "likes", true},
	TargetCommentLikes:    {"comment_likes", "Comment", "comments", "likes", true},
	TargetPollOptionVotes: {"poll_option_votes", "Poll option", "poll_options", "votes", false},
	TargetPollTotalVotes:  {"poll_total_votes", "Poll", "polls", "total_votes", false},
}

func (t CounterTarget) String() string {
	if c, ok := counterColumns[t]; ok {
		return c.name
	}
	return fmt.Sprintf("CounterTarget(%d)", int(t))
}

// CounterRepository applies storage-side increments to shared counters.
type CounterRepository interface {
	// Increment adds delta to the target column of row rowID in one UPDATE
	// statement, clamping the result at zero, and returns the value the row
	// holds right after this update. NOT_FOUND when the row does not exist.
	Increment(ctx context.Context, target CounterTarget, rowID uint, delta int) (int, error)
}

type counterRepository struct {
	db *gorm.DB
}

// NewCounterRepository returns a new CounterRepository implementation.
func NewCounterRepository(db *gorm.DB) CounterRepository {
	return &counterRepository{db: db}
}

func (r *counterRepository) Increment(ctx context.Context, target CounterTarget, rowID uint, delta int) (int, error) {
	col, ok := counterColumns[target]
	if !ok {
		return 0, models.NewInternalError(fmt.Errorf("unknown counter target %d", int(target)))
	}
	defer observability.TrackQuery("increment", col.table)()

	var value int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scope := tx.Table(col.table).Where("id = ?", rowID)
		if col.softDeletes {
			scope = scope.Where("deleted_at IS NULL")
		}
		expr := fmt.Sprintf("CASE WHEN %[1]s + ? < 0 THEN 0 ELSE %[1]s + ? END", col.column)
		res := scope.Update(col.column, gorm.Expr(expr, delta, delta))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError(col.resource, rowID)
		}
		// the row lock taken by the UPDATE holds until commit
		return tx.Table(col.table).Select(col.column).Where("id = ?", rowID).Row().Scan(&value)
	})
	if err != nil {
		return 0, translate(err, col.resource, rowID)
	}
	return value, nil
}
