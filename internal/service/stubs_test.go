package service

import (
	"context"
	"errors"
	"testing"

	"campusfeed/internal/models"
	"campusfeed/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterRepoStub is a stub for repository.CounterRepository.
type counterRepoStub struct {
	incrementFn func(context.Context, repository.CounterTarget, uint, int) (int, error)
}

func (s *counterRepoStub) Increment(ctx context.Context, target repository.CounterTarget, rowID uint, delta int) (int, error) {
	return s.incrementFn(ctx, target, rowID, delta)
}

func noopCounterRepo() *counterRepoStub {
	return &counterRepoStub{
		incrementFn: func(context.Context, repository.CounterTarget, uint, int) (int, error) { return 1, nil },
	}
}

// pollRepoStub is a stub for repository.PollRepository.
type pollRepoStub struct {
	createFn    func(context.Context, *models.Poll, []string) error
	getByIDFn   func(context.Context, uint) (*models.Poll, error)
	listFn      func(context.Context, int, int) ([]*models.Poll, error)
	getOptionFn func(context.Context, uint) (*models.PollOption, error)
	reconcileFn func(context.Context) ([]uint, error)
}

func (s *pollRepoStub) CreateWithOptions(ctx context.Context, poll *models.Poll, options []string) error {
	return s.createFn(ctx, poll, options)
}
func (s *pollRepoStub) GetByID(ctx context.Context, id uint) (*models.Poll, error) {
	return s.getByIDFn(ctx, id)
}
func (s *pollRepoStub) List(ctx context.Context, limit, offset int) ([]*models.Poll, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *pollRepoStub) GetOption(ctx context.Context, id uint) (*models.PollOption, error) {
	return s.getOptionFn(ctx, id)
}
func (s *pollRepoStub) ReconcileTotals(ctx context.Context) ([]uint, error) {
	return s.reconcileFn(ctx)
}

func noopPollRepo() *pollRepoStub {
	return &pollRepoStub{
		createFn:    func(context.Context, *models.Poll, []string) error { return nil },
		getByIDFn:   func(_ context.Context, id uint) (*models.Poll, error) { return &models.Poll{ID: id}, nil },
		listFn:      func(context.Context, int, int) ([]*models.Poll, error) { return nil, nil },
		getOptionFn: func(_ context.Context, id uint) (*models.PollOption, error) { return &models.PollOption{ID: id, PollID: 1}, nil },
		reconcileFn: func(context.Context) ([]uint, error) { return nil, nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn  func(context.Context, *models.Post) error
	getByIDFn func(context.Context, uint) (*models.Post, error)
	listFn    func(context.Context, int, int) ([]*models.Post, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.listFn(ctx, limit, offset)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(context.Context, *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		listFn:    func(context.Context, int, int) ([]*models.Post, error) { return nil, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getByIDFn    func(context.Context, uint) (*models.Comment, error)
	listByPostFn func(context.Context, uint) ([]models.Comment, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:     func(context.Context, *models.Comment) error { return nil },
		getByIDFn:    func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id, PostID: 1}, nil },
		listByPostFn: func(context.Context, uint) ([]models.Comment, error) { return nil, nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn     func(context.Context, *models.User, int64) error
	getByIDFn    func(context.Context, uint) (*models.User, error)
	getByLoginFn func(context.Context, string) (*models.User, error)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User, balance int64) error {
	return s.createFn(ctx, user, balance)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	return s.getByLoginFn(ctx, login)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn: func(_ context.Context, u *models.User, _ int64) error {
			u.ID = 1
			return nil
		},
		getByIDFn:    func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByLoginFn: func(context.Context, string) (*models.User, error) { return nil, nil },
	}
}

// walletRepoStub is a stub for repository.WalletRepository.
type walletRepoStub struct {
	getFn     func(context.Context, uint) (*models.Wallet, error)
	creditFn  func(context.Context, uint, int64, string) (*models.Wallet, error)
	debitFn   func(context.Context, uint, int64, string) (*models.Wallet, error)
	entriesFn func(context.Context, uint, int) ([]models.WalletEntry, error)
}

func (s *walletRepoStub) Get(ctx context.Context, userID uint) (*models.Wallet, error) {
	return s.getFn(ctx, userID)
}
func (s *walletRepoStub) Credit(ctx context.Context, userID uint, amount int64, reason string) (*models.Wallet, error) {
	return s.creditFn(ctx, userID, amount, reason)
}
func (s *walletRepoStub) Debit(ctx context.Context, userID uint, amount int64, reason string) (*models.Wallet, error) {
	return s.debitFn(ctx, userID, amount, reason)
}
func (s *walletRepoStub) Entries(ctx context.Context, userID uint, limit int) ([]models.WalletEntry, error) {
	return s.entriesFn(ctx, userID, limit)
}

func noopWalletRepo() *walletRepoStub {
	return &walletRepoStub{
		getFn:     func(_ context.Context, id uint) (*models.Wallet, error) { return &models.Wallet{UserID: id}, nil },
		creditFn:  func(_ context.Context, id uint, _ int64, _ string) (*models.Wallet, error) { return &models.Wallet{UserID: id}, nil },
		debitFn:   func(_ context.Context, id uint, _ int64, _ string) (*models.Wallet, error) { return &models.Wallet{UserID: id}, nil },
		entriesFn: func(context.Context, uint, int) ([]models.WalletEntry, error) { return []models.WalletEntry{}, nil },
	}
}

// assertCode asserts that err is an AppError carrying code.
func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertCode(t, err, models.CodeValidation)
}
