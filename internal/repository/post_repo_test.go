package repository

import (
	"Hearth/internal/model"
	"Hearth/internal/pkg/database"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// dryRunMySQL 不连接数据库，只记录生成的 SQL
func dryRunMySQL(t *testing.T) (*gorm.DB, *string) {
	t.Helper()
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "hearth:hearth@tcp(127.0.0.1:3306)/hearth?parseTime=true",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)

	var last string
	err = db.Callback().Query().After("gorm:query").Register("test:capture_sql", func(tx *gorm.DB) {
		last = tx.Statement.SQL.String()
	})
	require.NoError(t, err)
	return db, &last
}

func TestGetPostForUpdate_LocksRowOnMySQL(t *testing.T) {
	db, sql := dryRunMySQL(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	_, err := repo.GetPostForUpdate(ctx, 7)
	require.NoError(t, err)
	assert.Contains(t, *sql, "FOR UPDATE")

	_, err = repo.GetPost(ctx, 7)
	require.NoError(t, err)
	assert.NotContains(t, *sql, "FOR UPDATE")
}

func TestGetPostForUpdate_InsideTransaction(t *testing.T) {
	db, err := database.NewMemoryDB()
	require.NoError(t, err)
	repo := NewPostRepository(db)
	tx := NewTxManager(db)
	ctx := context.Background()

	post := &model.Post{UserID: 1, Title: "t", Content: "c", CreatedAt: time.Now()}
	require.NoError(t, repo.CreatePost(ctx, post))

	err = tx.Transaction(ctx, func(ctx context.Context) error {
		got, err := repo.GetPostForUpdate(ctx, post.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.False(t, got.IsDeleted)

		missing, err := repo.GetPostForUpdate(ctx, post.ID+100)
		require.NoError(t, err)
		assert.Nil(t, missing)
		return nil
	})
	require.NoError(t, err)
}
