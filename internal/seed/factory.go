// Package seed creates demo data for development databases. It writes
// through the repositories and services so seeded rows obey the same
// counter and wallet rules as live traffic.
package seed

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"campusfeed/internal/models"
	"campusfeed/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
)

// DefaultPassword is the password of every generated user.
const DefaultPassword = "password123"

var nonUsernameChars = regexp.MustCompile(`[^a-z0-9_]`)

// Factory builds and persists single entities with fake content.
type Factory struct {
	faker           *gofakeit.Faker
	users           repository.UserRepository
	posts           repository.PostRepository
	comments        repository.CommentRepository
	passwordHash    string
	startingBalance int64
	maxDays         int
	seq             int
}

func newFactory(faker *gofakeit.Faker, users repository.UserRepository, posts repository.PostRepository,
	comments repository.CommentRepository, opts Options,
) (*Factory, error) {
	cost := bcrypt.DefaultCost
	if opts.FastHash {
		cost = bcrypt.MinCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), cost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}
	maxDays := opts.MaxDays
	if maxDays <= 0 {
		maxDays = 30
	}
	return &Factory{
		faker:           faker,
		users:           users,
		posts:           posts,
		comments:        comments,
		passwordHash:    string(hash),
		startingBalance: opts.StartingBalance,
		maxDays:         maxDays,
	}, nil
}

// username derives a unique, signup-valid username from a fake name.
func (f *Factory) username() string {
	f.seq++
	base := nonUsernameChars.ReplaceAllString(strings.ToLower(f.faker.FirstName()), "")
	if len(base) > 20 {
		base = base[:20]
	}
	if base == "" {
		base = "user"
	}
	return fmt.Sprintf("%s_%d", base, f.seq)
}

// CreateUser persists a fake user with an opened wallet.
func (f *Factory) CreateUser(ctx context.Context, overrides ...func(*models.User)) (*models.User, error) {
	name := f.username()
	user := &models.User{
		Username: name,
		Email:    name + "@campus.edu",
		Password: f.passwordHash,
	}
	for _, override := range overrides {
		override(user)
	}
	if err := f.users.Create(ctx, user, f.startingBalance); err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost persists a fake post backdated up to maxDays.
func (f *Factory) CreatePost(ctx context.Context, author *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		AuthorID:  author.ID,
		Content:   f.faker.Paragraph(1, f.faker.Number(1, 4), 12, " "),
		CreatedAt: f.backdate(),
	}
	for _, override := range overrides {
		override(post)
	}
	if err := f.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment persists a fake comment. parent may be nil for a top-level comment.
func (f *Factory) CreateComment(ctx context.Context, author *models.User, post *models.Post, parent *models.Comment, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		PostID:   post.ID,
		AuthorID: author.ID,
		Content:  f.faker.Sentence(f.faker.Number(4, 14)),
	}
	if parent != nil {
		comment.ParentID = &parent.ID
	}
	for _, override := range overrides {
		override(comment)
	}
	if err := f.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// PollQuestion returns a fake question with between 2 and 5 answers.
func (f *Factory) PollQuestion() (string, []string) {
	question := strings.TrimSuffix(f.faker.Question(), "?") + "?"
	n := f.faker.Number(2, 5)
	seen := make(map[string]bool, n)
	options := make([]string, 0, n)
	for len(options) < n {
		opt := f.faker.Word()
		if seen[opt] {
			opt = fmt.Sprintf("%s %d", opt, len(options)+1)
		}
		seen[opt] = true
		options = append(options, opt)
	}
	return question, options
}

func (f *Factory) backdate() time.Time {
	offset := time.Duration(f.faker.Number(0, f.maxDays*24*60)) * time.Minute
	return time.Now().Add(-offset)
}
