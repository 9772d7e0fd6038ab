package repository

import (
	"context"
	"regexp"
	"sort"
	"sync"
	"testing"

	"campusfeed/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounterRepository_IncrementSQL(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCounterRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "posts" SET "likes"=CASE WHEN likes + $1 < 0 THEN 0 ELSE likes + $2 END WHERE id = $3 AND deleted_at IS NULL`)).
		WithArgs(1, 1, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT likes FROM "posts" WHERE id = $1`)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"likes"}).AddRow(12))
	mock.ExpectCommit()

	got, err := repo.Increment(context.Background(), TargetPostLikes, 7, 1)
	require.NoError(t, err)
	assert.Equal(t, 12, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCounterRepository_IncrementWritesBeforeReading(t *testing.T) {
	tests := []struct {
		target CounterTarget
		table  string
		column string
	}{
		{TargetPostLikes, "posts", "likes"},
		{TargetCommentLikes, "comments", "likes"},
		{TargetPollOptionVotes, "poll_options", "votes"},
		{TargetPollTotalVotes, "polls", "total_votes"},
	}
	for _, tt := range tests {
		t.Run(tt.target.String(), func(t *testing.T) {
			db, mock := setupMockDB(t)
			// a read of the counter ahead of the UPDATE is an unexpected query
			mock.MatchExpectationsInOrder(true)

			mock.ExpectBegin()
			mock.ExpectExec(`^UPDATE "` + tt.table + `" SET "` + tt.column + `"=CASE WHEN ` + tt.column + ` \+ \$1 < 0 THEN 0 ELSE ` + tt.column + ` \+ \$2 END WHERE id = \$3`).
				WithArgs(1, 1, 5).
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectQuery(`^SELECT ` + tt.column + ` FROM "` + tt.table + `"`).
				WithArgs(5).
				WillReturnRows(sqlmock.NewRows([]string{tt.column}).AddRow(3))
			mock.ExpectCommit()

			got, err := NewCounterRepository(db).Increment(context.Background(), tt.target, 5, 1)
			require.NoError(t, err)
			assert.Equal(t, 3, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCounterRepository_IncrementMissingRowRollsBack(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCounterRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "poll_options" SET "votes"=`)).
		WithArgs(1, 1, 99).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.Increment(context.Background(), TargetPollOptionVotes, 99, 1)
	assert.True(t, models.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCounterRepository_UnknownTarget(t *testing.T) {
	db, mock := setupMockDB(t)
	_, err := NewCounterRepository(db).Increment(context.Background(), CounterTarget(42), 1, 1)
	assert.Equal(t, models.CodeInternal, models.ErrorCode(err))
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, "CounterTarget(42)", CounterTarget(42).String())
	assert.Equal(t, "poll_total_votes", TargetPollTotalVotes.String())
}

func TestCounterRepository_ConcurrentIncrementsAreNotLost(t *testing.T) {
	db := newSQLiteDB(t)
	user := mustUser(t, db, "ada")
	post := mustPost(t, db, user.ID, 5)
	repo := NewCounterRepository(db)

	const n = 50
	results := make([]int, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = repo.Increment(context.Background(), TargetPostLikes, post.ID, 1)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	// every caller observes its own post-increment value
	sort.Ints(results)
	for i, v := range results {
		assert.Equal(t, 5+i+1, v)
	}

	var stored models.Post
	require.NoError(t, db.First(&stored, post.ID).Error)
	assert.Equal(t, 5+n, stored.Likes)
}

func TestCounterRepository_DecrementClampsAtZero(t *testing.T) {
	db := newSQLiteDB(t)
	user := mustUser(t, db, "ben")
	post := mustPost(t, db, user.ID, 1)
	repo := NewCounterRepository(db)
	ctx := context.Background()

	got, err := repo.Increment(ctx, TargetPostLikes, post.ID, -1)
	require.NoError(t, err)
	assert.Equal(t, 0, got)

	got, err = repo.Increment(ctx, TargetPostLikes, post.ID, -1)
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

func TestCounterRepository_SoftDeletedPostIsNotFound(t *testing.T) {
	db := newSQLiteDB(t)
	user := mustUser(t, db, "cy")
	post := mustPost(t, db, user.ID, 3)
	require.NoError(t, db.Delete(&models.Post{}, post.ID).Error)

	_, err := NewCounterRepository(db).Increment(context.Background(), TargetPostLikes, post.ID, 1)
	assert.True(t, models.IsNotFound(err))
}
