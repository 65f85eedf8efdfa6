package repository

import (
	"Hearth/internal/model"
	"Hearth/internal/pkg/database"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLiveAction(userID, postID uint64) *model.UserAction {
	return &model.UserAction{
		UserID:     userID,
		TargetID:   postID,
		TargetType: model.TargetTypePost,
		ActionType: model.ActionLike,
		Live:       model.LiveMark(),
		CreatedAt:  time.Now(),
	}
}

func TestUserAction_OneLiveRowPerKey(t *testing.T) {
	db, err := database.NewMemoryDB()
	require.NoError(t, err)
	repo := NewUserActionRepo(db)
	ctx := context.Background()

	first := newLiveAction(1, 10)
	require.NoError(t, repo.CreateAction(ctx, first))

	err = repo.CreateAction(ctx, newLiveAction(1, 10))
	require.Error(t, err)
	assert.True(t, IsDuplicateError(err))

	// 其他用户或其他动作不受影响
	require.NoError(t, repo.CreateAction(ctx, newLiveAction(2, 10)))
	collect := newLiveAction(1, 10)
	collect.ActionType = model.ActionCollect
	require.NoError(t, repo.CreateAction(ctx, collect))

	// 墓碑释放占位后可以再插入一条有效记录
	n, err := repo.TombstoneAction(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	require.NoError(t, repo.CreateAction(ctx, newLiveAction(1, 10)))

	rows, err := repo.ListByTarget(ctx, 10, model.TargetTypePost, true)
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}

func TestUserAction_ReportsNeverCollide(t *testing.T) {
	db, err := database.NewMemoryDB()
	require.NoError(t, err)
	repo := NewUserActionRepo(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		report := newLiveAction(1, 10)
		report.ActionType = model.ActionReport
		report.Live = nil
		require.NoError(t, repo.CreateAction(ctx, report))
	}
}

func TestUserVote_OneLiveVotePerPost(t *testing.T) {
	db, err := database.NewMemoryDB()
	require.NoError(t, err)
	repo := NewPollRepo(db)
	ctx := context.Background()

	vote := func(optionID uint64) *model.UserVote {
		return &model.UserVote{UserID: 1, PostID: 10, OptionID: optionID, Live: model.LiveMark(), CreatedAt: time.Now()}
	}

	first := vote(100)
	require.NoError(t, repo.CreateVote(ctx, first))

	// 同一帖子换选项也必须先作废旧票
	err = repo.CreateVote(ctx, vote(101))
	require.Error(t, err)
	assert.True(t, IsDuplicateError(err))

	n, err := repo.TombstoneVote(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	require.NoError(t, repo.CreateVote(ctx, vote(101)))

	live, err := repo.GetLiveVote(ctx, 1, 10)
	require.NoError(t, err)
	require.NotNil(t, live)
	assert.Equal(t, uint64(101), live.OptionID)
}
