package service

import (
	"context"
	"strings"

	"campusfeed/internal/cache"
	"campusfeed/internal/commenttree"
	"campusfeed/internal/models"
	"campusfeed/internal/repository"
)

const (
	maxPostLength   = 5000
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type PostService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
}

type CreatePostInput struct {
	AuthorID uint
	Content  string
}

func NewPostService(postRepo repository.PostRepository, commentRepo repository.CommentRepository) *PostService {
	return &PostService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
	}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(content) > maxPostLength {
		return nil, models.NewValidationError("Post too long (max 5000 characters)")
	}

	post := &models.Post{Content: content, AuthorID: in.AuthorID}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	cache.InvalidatePosts(ctx)

	return s.postRepo.GetByID(ctx, post.ID)
}

// ListPosts returns posts newest first. The first default-sized page is
// served through the cache.
func (s *PostService) ListPosts(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	limit, offset = clampPage(limit, offset)
	if limit != DefaultPageSize || offset != 0 {
		return s.postRepo.List(ctx, limit, offset)
	}

	posts := make([]*models.Post, 0)
	err := cache.Aside(ctx, "posts", cache.PostListKey, &posts, cache.PostListTTL, func() error {
		var err error
		posts, err = s.postRepo.List(ctx, limit, offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPostDetail returns the post with its threaded comment forest.
func (s *PostService) GetPostDetail(ctx context.Context, postID uint) (*models.PostDetail, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &models.PostDetail{Post: post, Comments: commenttree.Build(comments)}, nil
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
