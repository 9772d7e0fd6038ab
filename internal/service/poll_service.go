package service

import (
	"context"

	"campusfeed/internal/cache"
	"campusfeed/internal/models"
	"campusfeed/internal/repository"
)

// PollService serves poll reads. Writes go through CounterStore.
type PollService struct {
	pollRepo repository.PollRepository
}

func NewPollService(pollRepo repository.PollRepository) *PollService {
	return &PollService{pollRepo: pollRepo}
}

func (s *PollService) ListPolls(ctx context.Context, limit, offset int) ([]*models.Poll, error) {
	limit, offset = clampPage(limit, offset)
	if limit != DefaultPageSize || offset != 0 {
		return s.pollRepo.List(ctx, limit, offset)
	}

	polls := make([]*models.Poll, 0)
	err := cache.Aside(ctx, "polls", cache.PollListKey, &polls, cache.PollListTTL, func() error {
		var err error
		polls, err = s.pollRepo.List(ctx, limit, offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	return polls, nil
}

func (s *PollService) GetPoll(ctx context.Context, pollID uint) (*models.Poll, error) {
	var poll *models.Poll
	err := cache.Aside(ctx, "poll", cache.PollKey(pollID), &poll, cache.PollTTL, func() error {
		var err error
		poll, err = s.pollRepo.GetByID(ctx, pollID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return poll, nil
}
