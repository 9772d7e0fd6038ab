package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"campusfeed/internal/database"
	"campusfeed/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return gormDB, mock
}

// newSQLiteDB returns a migrated in-memory database private to the test.
// A single connection serialises transactions the way row locks would.
func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection serialises transactions, so concurrency tests here show
	// the counts add up but not that the increment is a single statement;
	// TestCounterRepository_IncrementWritesBeforeReading pins the SQL shape
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func mustUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@campus.edu", Password: "x"}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), u, 1000))
	return u
}

func mustPost(t *testing.T, db *gorm.DB, authorID uint, likes int) *models.Post {
	t.Helper()
	p := &models.Post{Content: "hello", AuthorID: authorID, Likes: likes}
	require.NoError(t, db.Create(p).Error)
	return p
}
