package repository

import (
	"context"
	"testing"

	"campusfeed/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_ListByPost(t *testing.T) {
	db := newSQLiteDB(t)
	user := mustUser(t, db, "nia")
	post := mustPost(t, db, user.ID, 0)
	other := mustPost(t, db, user.ID, 0)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	root := &models.Comment{PostID: post.ID, AuthorID: user.ID, Content: "root"}
	require.NoError(t, repo.Create(ctx, root))
	reply := &models.Comment{PostID: post.ID, AuthorID: user.ID, ParentID: &root.ID, Content: "reply"}
	require.NoError(t, repo.Create(ctx, reply))
	require.NoError(t, repo.Create(ctx, &models.Comment{PostID: other.ID, AuthorID: user.ID, Content: "elsewhere"}))

	list, err := repo.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, root.ID, list[0].ID)
	assert.Equal(t, root.ID, *list[1].ParentID)
	assert.Equal(t, "nia", list[1].AuthorName)

	empty, err := repo.ListByPost(ctx, 999)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	got, err := repo.GetByID(ctx, reply.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, got.PostID)
	_, err = repo.GetByID(ctx, 999)
	assert.True(t, models.IsNotFound(err))
}
