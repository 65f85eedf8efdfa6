package service

import (
	"Hearth/internal/api/dto"
	"Hearth/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleFollow(t *testing.T) {
	e := newTestEnv(t)
	alice := e.user(t, model.UserRoleNormal)
	bob := e.user(t, model.UserRoleNormal)

	following, err := e.follows.ToggleFollow(e.ctx, alice, bob)
	require.NoError(t, err)
	assert.True(t, following)

	ok, err := e.follows.IsFollowing(e.ctx, alice, bob)
	require.NoError(t, err)
	assert.True(t, ok)

	n, err := e.follows.CountFollowing(e.ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// 再次切换即取关，边被物理删除
	following, err = e.follows.ToggleFollow(e.ctx, alice, bob)
	require.NoError(t, err)
	assert.False(t, following)

	n, err = e.follows.CountFollowers(e.ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	var edges int64
	require.NoError(t, e.db.Model(&model.UserFollow{}).Count(&edges).Error)
	assert.Equal(t, int64(0), edges)
}

func TestToggleFollow_Rejections(t *testing.T) {
	e := newTestEnv(t)
	alice := e.user(t, model.UserRoleNormal)

	_, err := e.follows.ToggleFollow(e.ctx, alice, alice)
	assert.ErrorIs(t, err, ErrUserFollowSelf)

	_, err = e.follows.ToggleFollow(e.ctx, alice, 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)

	ok, err := e.follows.IsFollowing(e.ctx, alice, alice)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListFollowers_RelationFlags(t *testing.T) {
	e := newTestEnv(t)
	owner := e.user(t, model.UserRoleNormal)
	mutual := e.user(t, model.UserRoleNormal)
	fan := e.user(t, model.UserRoleNormal)
	viewer := e.user(t, model.UserRoleNormal)

	for _, pair := range [][2]uint64{{mutual, owner}, {owner, mutual}, {fan, owner}, {viewer, fan}} {
		_, err := e.follows.ToggleFollow(e.ctx, pair[0], pair[1])
		require.NoError(t, err)
	}

	page, err := e.follows.ListFollowers(e.ctx, owner, viewer, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.List, 2)

	byID := map[uint64]bool{}
	for _, item := range page.List {
		byID[item.UserID] = true
		assert.True(t, item.IsFollowedBy)
		switch item.UserID {
		case mutual:
			assert.True(t, item.IsMutual)
			assert.False(t, item.ViewerFollowing)
		case fan:
			assert.False(t, item.IsMutual)
			assert.True(t, item.ViewerFollowing)
		}
	}
	assert.True(t, byID[mutual])
	assert.True(t, byID[fan])

	following, err := e.follows.ListFollowing(e.ctx, owner, 0, 1, 10)
	require.NoError(t, err)
	require.Len(t, following.List, 1)
	assert.Equal(t, mutual, following.List[0].UserID)
	assert.True(t, following.List[0].IsMutual)
}

func TestGetUserStats(t *testing.T) {
	e := newTestEnv(t)
	owner := e.user(t, model.UserRoleNormal)
	viewer := e.user(t, model.UserRoleNormal)
	e.post(t, owner)
	e.post(t, owner)

	_, err := e.follows.ToggleFollow(e.ctx, viewer, owner)
	require.NoError(t, err)

	stats, err := e.follows.GetUserStats(e.ctx, owner, viewer)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.FollowerCount)
	assert.Equal(t, int64(0), stats.FollowingCount)
	assert.Equal(t, int64(2), stats.PostCount)
	assert.True(t, stats.IsFollowing)
	assert.False(t, stats.IsFollowedBy)

	_, err = e.follows.GetUserStats(e.ctx, 9999, 0)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestListFollowing_CountsAndSelf(t *testing.T) {
	e := newTestEnv(t)
	owner := e.user(t, model.UserRoleNormal)
	star := e.user(t, model.UserRoleNormal)
	quiet := e.user(t, model.UserRoleNormal)
	fan := e.user(t, model.UserRoleNormal)
	e.post(t, star)
	e.post(t, star)

	for _, pair := range [][2]uint64{{owner, star}, {owner, quiet}, {fan, star}, {star, quiet}} {
		_, err := e.follows.ToggleFollow(e.ctx, pair[0], pair[1])
		require.NoError(t, err)
	}

	page, err := e.follows.ListFollowing(e.ctx, owner, star, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.List, 2)

	byID := map[uint64]*dto.FollowUserDTO{}
	for _, item := range page.List {
		byID[item.UserID] = item
	}
	require.Contains(t, byID, star)
	require.Contains(t, byID, quiet)

	assert.Equal(t, int64(2), byID[star].FollowerCount)
	assert.Equal(t, int64(1), byID[star].FollowingCount)
	assert.Equal(t, int64(2), byID[star].PostCount)
	assert.True(t, byID[star].IsSelf)
	assert.False(t, byID[star].ViewerFollowing)

	assert.Equal(t, int64(2), byID[quiet].FollowerCount)
	assert.Equal(t, int64(0), byID[quiet].FollowingCount)
	assert.Equal(t, int64(0), byID[quiet].PostCount)
	assert.False(t, byID[quiet].IsSelf)
	assert.True(t, byID[quiet].ViewerFollowing)
}
