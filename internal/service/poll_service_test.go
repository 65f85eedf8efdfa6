package service

import (
	"Hearth/internal/api/dto"
	"Hearth/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVote_SwitchKeepsSingleLiveVote(t *testing.T) {
	e := newTestEnv(t)
	author := e.user(t, model.UserRoleNormal)
	voter := e.user(t, model.UserRoleNormal)
	postID, opts := e.poll(t, author, "红", "绿", "蓝")
	require.Len(t, opts, 3)

	require.NoError(t, e.polls.Vote(e.ctx, postID, opts[0].ID, voter))
	require.NoError(t, e.polls.Vote(e.ctx, postID, opts[1].ID, voter))

	tallies, total, err := e.polls.Tally(e.ctx, postID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, tallies, 3)
	assert.Equal(t, int64(0), tallies[0].Count)
	assert.Equal(t, int64(1), tallies[1].Count)

	votes, err := e.pollRepo.ListVotes(e.ctx, postID, true)
	require.NoError(t, err)
	assert.Len(t, votes, 2)

	mine, err := e.polls.GetMyVote(e.ctx, postID, voter)
	require.NoError(t, err)
	require.NotNil(t, mine)
	assert.Equal(t, opts[1].ID, *mine)
}

func TestVote_SameOptionTwice(t *testing.T) {
	e := newTestEnv(t)
	author := e.user(t, model.UserRoleNormal)
	voter := e.user(t, model.UserRoleNormal)
	postID, opts := e.poll(t, author, "是", "否")

	require.NoError(t, e.polls.Vote(e.ctx, postID, opts[0].ID, voter))
	err := e.polls.Vote(e.ctx, postID, opts[0].ID, voter)
	assert.ErrorIs(t, err, ErrAlreadyVoted)
	assert.ErrorIs(t, err, ErrAlreadyInState)
}

func TestVote_Rejections(t *testing.T) {
	e := newTestEnv(t)
	author := e.user(t, model.UserRoleNormal)
	voter := e.user(t, model.UserRoleNormal)
	pollA, optsA := e.poll(t, author, "A1", "A2")
	_, optsB := e.poll(t, author, "B1", "B2")
	plain := e.post(t, author)

	assert.ErrorIs(t, e.polls.Vote(e.ctx, pollA, optsB[0].ID, voter), ErrOptionNotInPost)
	assert.ErrorIs(t, e.polls.Vote(e.ctx, pollA, 9999, voter), ErrOptionNotFound)
	assert.ErrorIs(t, e.polls.Vote(e.ctx, plain, optsA[0].ID, voter), ErrPostNotPoll)
	assert.ErrorIs(t, e.polls.Vote(e.ctx, 9999, optsA[0].ID, voter), ErrPostNotFound)
	assert.ErrorIs(t, e.polls.Vote(e.ctx, pollA, optsA[0].ID, 0), ErrParamInvalid)
}

func TestGetPollView_Percentages(t *testing.T) {
	e := newTestEnv(t)
	author := e.user(t, model.UserRoleNormal)
	postID, opts := e.poll(t, author, "甲", "乙", "丙")
	voters := []uint64{e.user(t, model.UserRoleNormal), e.user(t, model.UserRoleNormal), e.user(t, model.UserRoleNormal)}

	require.NoError(t, e.polls.Vote(e.ctx, postID, opts[0].ID, voters[0]))
	require.NoError(t, e.polls.Vote(e.ctx, postID, opts[0].ID, voters[1]))
	require.NoError(t, e.polls.Vote(e.ctx, postID, opts[2].ID, voters[2]))

	view, err := e.polls.GetPollView(e.ctx, postID, voters[2])
	require.NoError(t, err)
	assert.Equal(t, int64(3), view.TotalVotes)
	require.Len(t, view.Options, 3)
	assert.Equal(t, 66.67, view.Options[0].Percentage)
	assert.Equal(t, float64(0), view.Options[1].Percentage)
	assert.Equal(t, 33.33, view.Options[2].Percentage)
	require.NotNil(t, view.MyOptionID)
	assert.Equal(t, opts[2].ID, *view.MyOptionID)
}

func TestCreatePoll_OptionCount(t *testing.T) {
	e := newTestEnv(t)
	author := e.user(t, model.UserRoleNormal)

	for _, options := range [][]string{{"只有一个"}, {"1", "2", "3", "4", "5", "6"}, {"有效", "  "}} {
		_, err := e.posts.CreatePost(e.ctx, author, &dto.CreatePostDTO{
			Title:       "投票",
			Content:     "选一个",
			PostType:    model.PostTypePoll,
			PollOptions: options,
		})
		assert.ErrorIs(t, err, ErrPollOptionCount)
	}
}
