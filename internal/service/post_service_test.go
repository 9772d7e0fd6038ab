package service

import (
	"context"
	"strings"
	"testing"

	"campusfeed/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostService_CreatePost_Validation(t *testing.T) {
	t.Parallel()
	svc := NewPostService(noopPostRepo(), noopCommentRepo())
	ctx := context.Background()

	_, err := svc.CreatePost(ctx, CreatePostInput{AuthorID: 1, Content: "   "})
	assertValidationError(t, err)

	_, err = svc.CreatePost(ctx, CreatePostInput{AuthorID: 1, Content: strings.Repeat("x", 5001)})
	assertValidationError(t, err)
}

func TestPostService_CreatePost_TrimsContent(t *testing.T) {
	t.Parallel()
	var saved *models.Post
	posts := noopPostRepo()
	posts.createFn = func(_ context.Context, p *models.Post) error {
		p.ID = 5
		saved = p
		return nil
	}

	got, err := NewPostService(posts, noopCommentRepo()).CreatePost(context.Background(), CreatePostInput{AuthorID: 2, Content: "  hello  "})
	require.NoError(t, err)
	assert.Equal(t, "hello", saved.Content)
	assert.Equal(t, uint(2), saved.AuthorID)
	assert.Equal(t, uint(5), got.ID)
}

func TestPostService_ListPosts_ClampsPaging(t *testing.T) {
	t.Parallel()
	var gotLimit, gotOffset int
	posts := noopPostRepo()
	posts.listFn = func(_ context.Context, limit, offset int) ([]*models.Post, error) {
		gotLimit, gotOffset = limit, offset
		return []*models.Post{{ID: 1}}, nil
	}
	svc := NewPostService(posts, noopCommentRepo())

	_, err := svc.ListPosts(context.Background(), 1000, -4)
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, gotLimit)
	assert.Equal(t, 0, gotOffset)

	list, err := svc.ListPosts(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultPageSize, gotLimit)
	assert.Len(t, list, 1)
}

func TestPostService_GetPostDetail_BuildsForest(t *testing.T) {
	t.Parallel()
	parent := uint(1)
	comments := noopCommentRepo()
	comments.listByPostFn = func(_ context.Context, postID uint) ([]models.Comment, error) {
		return []models.Comment{
			{ID: 1, PostID: postID},
			{ID: 2, PostID: postID, ParentID: &parent},
			{ID: 3, PostID: postID},
		}, nil
	}

	detail, err := NewPostService(noopPostRepo(), comments).GetPostDetail(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, uint(7), detail.ID)
	require.Len(t, detail.Comments, 2)
	assert.Equal(t, uint(3), detail.Comments[0].ID)
	require.Len(t, detail.Comments[1].Replies, 1)
	assert.Equal(t, uint(2), detail.Comments[1].Replies[0].ID)
}

func TestPostService_GetPostDetail_NotFound(t *testing.T) {
	t.Parallel()
	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return nil, models.NewNotFoundError("Post", id)
	}
	_, err := NewPostService(posts, noopCommentRepo()).GetPostDetail(context.Background(), 7)
	assertCode(t, err, models.CodeNotFound)
}
