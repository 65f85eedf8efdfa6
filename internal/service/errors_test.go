package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	cases := []struct {
		err  error
		code int
		ok   bool
	}{
		{ErrPostNotFound, NotFound, true},
		{ErrAlreadyVoted, Conflict, true},
		{UnauthorizedError, Forbidden, true},
		{ErrNotLogin, Unauthorized, true},
		{fmt.Errorf("vote: %w", ErrOptionNotInPost), BadRequest, true},
		{&Error{Kind: ErrNotFound, Msg: "标签不存在"}, NotFound, true},
		{errors.New("db down"), InternalServerError, false},
	}
	for _, c := range cases {
		code, ok := CodeOf(c.err)
		assert.Equal(t, c.code, code, c.err.Error())
		assert.Equal(t, c.ok, ok, c.err.Error())
	}
}

func TestErrorKinds(t *testing.T) {
	assert.ErrorIs(t, ErrCommentCycle, ErrInvalidOperation)
	assert.ErrorIs(t, ErrActionDuplicate, ErrAlreadyInState)
	assert.NotErrorIs(t, ErrPostNotFound, ErrInvalidOperation)
}
