package service

import (
	"Hearth/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleAction_EvenTogglesRestoreState(t *testing.T) {
	e := newTestEnv(t)
	author := e.user(t, model.UserRoleNormal)
	reader := e.user(t, model.UserRoleNormal)
	postID := e.post(t, author)

	for i := 1; i <= 6; i++ {
		active, err := e.actions.ToggleAction(e.ctx, reader, postID, "", model.ActionLike)
		require.NoError(t, err)
		assert.Equal(t, i%2 == 1, active)
	}

	assert.Equal(t, 0, e.reload(t, postID).LikeCount)
	live, err := e.actionRepo.GetLiveAction(e.ctx, reader, postID, model.TargetTypePost, model.ActionLike)
	require.NoError(t, err)
	assert.Nil(t, live)

	// 每次取消都留下一条墓碑
	all, err := e.actionRepo.ListByTarget(e.ctx, postID, model.TargetTypePost, true)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.True(t, e.dirty.has(postID))
}

func TestToggleAction_OddTogglesLeaveOneLiveRecord(t *testing.T) {
	e := newTestEnv(t)
	author := e.user(t, model.UserRoleNormal)
	reader := e.user(t, model.UserRoleNormal)
	postID := e.post(t, author)

	for i := 0; i < 3; i++ {
		_, err := e.actions.ToggleAction(e.ctx, reader, postID, model.TargetTypePost, model.ActionCollect)
		require.NoError(t, err)
	}

	assert.Equal(t, 1, e.reload(t, postID).CollectCount)
	live, err := e.actionRepo.ListByTarget(e.ctx, postID, model.TargetTypePost, false)
	require.NoError(t, err)
	assert.Len(t, live, 1)

	liked, collected, err := e.actions.GetActionState(e.ctx, reader, postID, "")
	require.NoError(t, err)
	assert.False(t, liked)
	assert.True(t, collected)

	page, err := e.posts.ListUserCollections(e.ctx, reader, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.List, 1)
	assert.Equal(t, postID, page.List[0].ID)
}

func TestToggleAction_TwoUsersLikeAndOneUnlikes(t *testing.T) {
	e := newTestEnv(t)
	author := e.user(t, model.UserRoleNormal)
	u1 := e.user(t, model.UserRoleNormal)
	u2 := e.user(t, model.UserRoleNormal)
	postID := e.post(t, author)

	_, err := e.actions.ToggleAction(e.ctx, u1, postID, "", model.ActionLike)
	require.NoError(t, err)
	_, err = e.actions.ToggleAction(e.ctx, u2, postID, "", model.ActionLike)
	require.NoError(t, err)
	assert.Equal(t, 2, e.reload(t, postID).LikeCount)

	_, err = e.actions.ToggleAction(e.ctx, u1, postID, "", model.ActionLike)
	require.NoError(t, err)
	assert.Equal(t, 1, e.reload(t, postID).LikeCount)

	liked, _, err := e.actions.GetActionState(e.ctx, u2, postID, "")
	require.NoError(t, err)
	assert.True(t, liked)
	liked, _, err = e.actions.GetActionState(e.ctx, u1, postID, "")
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestToggleAction_Rejections(t *testing.T) {
	e := newTestEnv(t)
	author := e.user(t, model.UserRoleNormal)
	reader := e.user(t, model.UserRoleNormal)
	postID := e.post(t, author)

	_, err := e.actions.ToggleAction(e.ctx, reader, postID, "", model.ActionShare)
	assert.ErrorIs(t, err, ErrInvalidVerb)

	_, err = e.actions.ToggleAction(e.ctx, reader, postID, "album", model.ActionLike)
	assert.ErrorIs(t, err, ErrParamInvalid)

	_, err = e.actions.ToggleAction(e.ctx, reader, 9999, "", model.ActionLike)
	assert.ErrorIs(t, err, ErrPostNotFound)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = e.actions.ToggleAction(e.ctx, reader, 9999, model.TargetTypeComment, model.ActionLike)
	assert.ErrorIs(t, err, ErrCommentNotFound)

	require.NoError(t, e.posts.DeletePost(e.ctx, postID, author, false))
	_, err = e.actions.ToggleAction(e.ctx, reader, postID, "", model.ActionLike)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestToggleAction_CommentTargetDoesNotTouchPostCounters(t *testing.T) {
	e := newTestEnv(t)
	author := e.user(t, model.UserRoleNormal)
	reader := e.user(t, model.UserRoleNormal)
	postID := e.post(t, author)
	comment, err := e.comments.CreateComment(e.ctx, postID, "沙发", nil, author)
	require.NoError(t, err)

	active, err := e.actions.ToggleAction(e.ctx, reader, comment.ID, model.TargetTypeComment, model.ActionLike)
	require.NoError(t, err)
	assert.True(t, active)
	assert.Equal(t, 0, e.reload(t, postID).LikeCount)

	liked, _, err := e.actions.GetActionState(e.ctx, reader, comment.ID, model.TargetTypeComment)
	require.NoError(t, err)
	assert.True(t, liked)
}

func TestShareAndReport(t *testing.T) {
	e := newTestEnv(t)
	author := e.user(t, model.UserRoleNormal)
	reader := e.user(t, model.UserRoleNormal)
	postID := e.post(t, author)

	require.NoError(t, e.actions.Share(e.ctx, reader, postID))
	require.NoError(t, e.actions.Share(e.ctx, reader, postID))
	assert.Equal(t, 2, e.reload(t, postID).ShareCount)

	require.NoError(t, e.actions.Report(e.ctx, reader, postID, "", "广告"))
	require.NoError(t, e.actions.Report(e.ctx, reader, postID, "", "广告"))
	assert.ErrorIs(t, e.actions.Report(e.ctx, reader, postID, "", "   "), ErrEmptyContent)

	counts, err := e.actionRepo.CountLiveByTarget(e.ctx, postID, model.TargetTypePost)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[model.ActionShare])
	assert.Equal(t, int64(2), counts[model.ActionReport])
}

func TestGetActionState_Anonymous(t *testing.T) {
	e := newTestEnv(t)
	liked, collected, err := e.actions.GetActionState(e.ctx, 0, 1, "")
	require.NoError(t, err)
	assert.False(t, liked)
	assert.False(t, collected)
}
