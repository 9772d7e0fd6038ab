package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"campusfeed/internal/middleware"
	"campusfeed/internal/models"
	"campusfeed/internal/repository"
	"campusfeed/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configures a seeding run.
type Options struct {
	Users           int
	Posts           int
	MaxComments     int
	Polls           int
	MaxDays         int
	StartingBalance int64
	// FastHash uses the minimum bcrypt cost; for tests and local runs.
	FastHash bool
	// RandSeed makes the run reproducible; 0 picks a time-based seed.
	RandSeed int64
}

// Summary counts what a run created.
type Summary struct {
	Users    int
	Posts    int
	Comments int
	Polls    int
	Likes    int
	Votes    int
}

// Seeder populates a database through the application's repositories.
type Seeder struct {
	db       *gorm.DB
	opts     Options
	faker    *gofakeit.Faker
	users    repository.UserRepository
	posts    repository.PostRepository
	comments repository.CommentRepository
	counters *service.CounterStore
	wallets  *service.WalletService
}

// NewSeeder wires a Seeder to db.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	seed := opts.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	users := repository.NewUserRepository(db)
	posts := repository.NewPostRepository(db)
	comments := repository.NewCommentRepository(db)
	polls := repository.NewPollRepository(db)
	return &Seeder{
		db:       db,
		opts:     opts,
		faker:    gofakeit.New(seed),
		users:    users,
		posts:    posts,
		comments: comments,
		counters: service.NewCounterStore(repository.NewCounterRepository(db), polls, posts, comments),
		wallets:  service.NewWalletService(repository.NewWalletRepository(db)),
	}
}

func (s *Seeder) factory() (*Factory, error) {
	return newFactory(s.faker, s.users, s.posts, s.comments, s.opts)
}

// Seed generates random users, posts with threaded comments, polls, likes
// and votes.
func (s *Seeder) Seed(ctx context.Context) (*Summary, error) {
	if s.opts.Users <= 0 {
		return nil, fmt.Errorf("at least one user is required")
	}
	f, err := s.factory()
	if err != nil {
		return nil, err
	}
	sum := &Summary{}

	users := make([]*models.User, 0, s.opts.Users)
	for i := 0; i < s.opts.Users; i++ {
		u, err := f.CreateUser(ctx)
		if err != nil {
			return sum, fmt.Errorf("create user: %w", err)
		}
		users = append(users, u)
		sum.Users++

		if s.faker.Number(0, 3) == 0 {
			if _, err := s.wallets.Grant(ctx, u.ID, int64(s.faker.Number(10, 500)), "seed_bonus"); err != nil {
				return sum, fmt.Errorf("grant bonus: %w", err)
			}
		}
	}
	pick := func() *models.User { return users[s.faker.Number(0, len(users)-1)] }

	for i := 0; i < s.opts.Posts; i++ {
		post, err := f.CreatePost(ctx, pick())
		if err != nil {
			return sum, fmt.Errorf("create post: %w", err)
		}
		sum.Posts++

		thread := make([]*models.Comment, 0)
		for i, n := 0, s.faker.Number(0, max(s.opts.MaxComments, 0)); i < n; i++ {
			var parent *models.Comment
			if len(thread) > 0 && s.faker.Bool() {
				parent = thread[s.faker.Number(0, len(thread)-1)]
			}
			c, err := f.CreateComment(ctx, pick(), post, parent)
			if err != nil {
				return sum, fmt.Errorf("create comment: %w", err)
			}
			thread = append(thread, c)
			sum.Comments++
		}

		for i, n := 0, s.faker.Number(0, len(users)); i < n; i++ {
			if _, err := s.counters.IncrementLike(ctx, post.ID); err != nil {
				return sum, fmt.Errorf("like post: %w", err)
			}
			sum.Likes++
		}
	}

	for i := 0; i < s.opts.Polls; i++ {
		question, options := f.PollQuestion()
		expiresAt := time.Now().Add(time.Duration(s.faker.Number(4, 72)) * time.Hour)
		poll, err := s.counters.CreatePollWithOptions(ctx, service.CreatePollInput{
			AuthorID:     pick().ID,
			Question:     question,
			IsPrediction: s.faker.Number(0, 4) == 0,
			ExpiresAt:    &expiresAt,
		}, options)
		if err != nil {
			return sum, fmt.Errorf("create poll: %w", err)
		}
		sum.Polls++

		for i, n := 0, s.faker.Number(0, len(users)); i < n; i++ {
			opt := poll.Options[s.faker.Number(0, len(poll.Options)-1)]
			if _, err := s.counters.VoteOnPollOption(ctx, opt.ID); err != nil {
				return sum, fmt.Errorf("vote: %w", err)
			}
			sum.Votes++
		}
	}

	middleware.Logger.InfoContext(ctx, "seeding complete",
		slog.Int("users", sum.Users),
		slog.Int("posts", sum.Posts),
		slog.Int("comments", sum.Comments),
		slog.Int("polls", sum.Polls),
		slog.Int("likes", sum.Likes),
		slog.Int("votes", sum.Votes),
	)
	return sum, nil
}

// ClearAll removes every seeded row, children before parents.
func (s *Seeder) ClearAll(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	if db.Dialector.Name() == "postgres" {
		return db.Exec(`TRUNCATE TABLE wallet_entries, wallets, comments, poll_options, polls, posts, users RESTART IDENTITY CASCADE`).Error
	}

	all := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped()
	for _, m := range []any{
		&models.WalletEntry{}, &models.Wallet{}, &models.Comment{},
		&models.PollOption{}, &models.Poll{}, &models.Post{}, &models.User{},
	} {
		if err := all.Delete(m).Error; err != nil {
			return fmt.Errorf("clear %T: %w", m, err)
		}
	}
	return nil
}
