// Package service holds the application's business rules on top of the repositories.
package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"campusfeed/internal/cache"
	"campusfeed/internal/middleware"
	"campusfeed/internal/models"
	"campusfeed/internal/observability"
	"campusfeed/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

const (
	minPollOptions    = 2
	maxPollOptions    = 20
	maxPollTextLength = 500
)

// CounterStore performs every mutation of shared counters: post and comment
// likes, poll option votes and poll totals, plus poll creation. Each counter
// change is a single storage-side increment, so concurrent callers never lose
// updates and no in-process lock is held.
type CounterStore struct {
	counters repository.CounterRepository
	polls    repository.PollRepository
	posts    repository.PostRepository
	comments repository.CommentRepository
	now      func() time.Time
}

// CreatePollInput carries the poll fields accepted from clients.
type CreatePollInput struct {
	AuthorID     uint
	Question     string
	IsPrediction bool
	// ExpiresAt is optional; when set it must lie in the future.
	ExpiresAt *time.Time
}

func NewCounterStore(
	counters repository.CounterRepository,
	polls repository.PollRepository,
	posts repository.PostRepository,
	comments repository.CommentRepository,
) *CounterStore {
	return &CounterStore{
		counters: counters,
		polls:    polls,
		posts:    posts,
		comments: comments,
		now:      time.Now,
	}
}

// IncrementLike adds one like to a post and returns it with the like count
// this increment produced.
func (s *CounterStore) IncrementLike(ctx context.Context, postID uint) (*models.Post, error) {
	return s.adjustPostLikes(ctx, "CounterStore.IncrementLike", postID, 1)
}

// DecrementLike removes one like from a post. The count never drops below zero.
func (s *CounterStore) DecrementLike(ctx context.Context, postID uint) (*models.Post, error) {
	return s.adjustPostLikes(ctx, "CounterStore.DecrementLike", postID, -1)
}

func (s *CounterStore) adjustPostLikes(ctx context.Context, op string, postID uint, delta int) (*models.Post, error) {
	span, ctx := observability.NewSpan(ctx, op, attribute.Int64("post.id", int64(postID)))
	defer span.End()

	likes, err := s.counters.Increment(ctx, repository.TargetPostLikes, postID, delta)
	observability.RecordCounterMutation(repository.TargetPostLikes.String(), err)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	cache.InvalidatePosts(ctx)

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	post.Likes = likes
	return post, nil
}

// IncrementCommentLike adds one like to a comment.
func (s *CounterStore) IncrementCommentLike(ctx context.Context, commentID uint) (*models.Comment, error) {
	span, ctx := observability.NewSpan(ctx, "CounterStore.IncrementCommentLike", attribute.Int64("comment.id", int64(commentID)))
	defer span.End()

	likes, err := s.counters.Increment(ctx, repository.TargetCommentLikes, commentID, 1)
	observability.RecordCounterMutation(repository.TargetCommentLikes.String(), err)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	comment.Likes = likes
	return comment, nil
}

// VoteOnPollOption records one vote: first on the option, then on the poll
// total. The two increments are independent statements; if the second fails
// the vote still stands and the total lags until ReconcilePollTotals runs.
func (s *CounterStore) VoteOnPollOption(ctx context.Context, optionID uint) (*models.PollOption, error) {
	span, ctx := observability.NewSpan(ctx, "CounterStore.VoteOnPollOption", attribute.Int64("option.id", int64(optionID)))
	defer span.End()

	option, err := s.polls.GetOption(ctx, optionID)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	span.AddAttributes(attribute.Int64("poll.id", int64(option.PollID)))

	votes, err := s.counters.Increment(ctx, repository.TargetPollOptionVotes, option.ID, 1)
	observability.RecordCounterMutation(repository.TargetPollOptionVotes.String(), err)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	option.Votes = votes

	_, err = s.counters.Increment(ctx, repository.TargetPollTotalVotes, option.PollID, 1)
	observability.RecordCounterMutation(repository.TargetPollTotalVotes.String(), err)
	if err != nil {
		observability.PollTotalDrift.Inc()
		span.AddAttributes(attribute.Bool("poll.total_drift", true))
		middleware.Logger.WarnContext(ctx, "poll total not updated after option vote",
			slog.Uint64("poll_id", uint64(option.PollID)),
			slog.Uint64("option_id", uint64(option.ID)),
			slog.String("error", err.Error()),
		)
	}

	cache.InvalidatePoll(ctx, option.PollID)
	return option, nil
}

// CreatePollWithOptions validates the poll and inserts it together with its
// options atomically. Option texts are trimmed and blanks dropped before the
// minimum of two is checked; nothing is written when validation fails.
func (s *CounterStore) CreatePollWithOptions(ctx context.Context, in CreatePollInput, optionTexts []string) (*models.Poll, error) {
	span, ctx := observability.NewSpan(ctx, "CounterStore.CreatePollWithOptions")
	defer span.End()

	question := strings.TrimSpace(in.Question)
	if question == "" {
		return nil, models.NewValidationError("Question is required")
	}
	if len(question) > maxPollTextLength {
		return nil, models.NewValidationError("Question too long (max 500 characters)")
	}

	options := make([]string, 0, len(optionTexts))
	for _, text := range optionTexts {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if len(text) > maxPollTextLength {
			return nil, models.NewValidationError("Poll option too long (max 500 characters)")
		}
		options = append(options, text)
	}
	if len(options) < minPollOptions {
		return nil, models.NewValidationError("Poll must have at least 2 valid options")
	}
	if len(options) > maxPollOptions {
		return nil, models.NewValidationError("Poll can have at most 20 options")
	}
	if in.ExpiresAt != nil && !in.ExpiresAt.After(s.now()) {
		return nil, models.NewValidationError("Poll expiry must be in the future")
	}

	poll := &models.Poll{
		Question:     question,
		AuthorID:     in.AuthorID,
		IsPrediction: in.IsPrediction,
		ExpiresAt:    in.ExpiresAt,
	}
	if err := s.polls.CreateWithOptions(ctx, poll, options); err != nil {
		span.SetError(err)
		return nil, models.NewCreationFailedError("poll", err)
	}
	span.AddAttributes(attribute.Int64("poll.id", int64(poll.ID)), attribute.Int("poll.options", len(options)))
	cache.InvalidatePoll(ctx, poll.ID)

	return s.polls.GetByID(ctx, poll.ID)
}

// ReconcilePollTotals repairs poll totals that drifted from their option sums
// and returns how many polls were corrected.
func (s *CounterStore) ReconcilePollTotals(ctx context.Context) (int64, error) {
	span, ctx := observability.NewSpan(ctx, "CounterStore.ReconcilePollTotals")
	defer span.End()

	ids, err := s.polls.ReconcileTotals(ctx)
	if err != nil {
		span.SetError(err)
		return 0, err
	}
	fixed := int64(len(ids))
	if fixed > 0 {
		observability.PollTotalsRepaired.Add(float64(fixed))
		cache.InvalidatePolls(ctx, ids...)
		middleware.Logger.InfoContext(ctx, "poll totals reconciled", slog.Int64("polls", fixed))
	}
	return fixed, nil
}
