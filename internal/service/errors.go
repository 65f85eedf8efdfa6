package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	Conflict            = 409
	InternalServerError = 500
)

// 错误大类，具体错误的 Unwrap 指向所属大类，调用方可以 errors.Is 判断类别
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrAlreadyInState   = errors.New("already in state")
	ErrUnauthorized     = errors.New("unauthorized")
)

// Error 业务错误，Kind 为其所属大类
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func kind(k error, msg string) error {
	return &Error{Kind: k, Msg: msg}
}

var (
	ErrParamInvalid    = kind(ErrInvalidOperation, "参数错误")
	ErrInvalidVerb     = kind(ErrInvalidOperation, "不支持的操作类型")
	ErrUserFollowSelf  = kind(ErrInvalidOperation, "用户不能关注自己")
	ErrCrossPostReply  = kind(ErrInvalidOperation, "不能回复其他帖子下的评论")
	ErrEmptyContent    = kind(ErrInvalidOperation, "内容不能为空")
	ErrPostNotPoll     = kind(ErrInvalidOperation, "该帖子不是投票帖")
	ErrOptionNotInPost = kind(ErrInvalidOperation, "选项不属于该帖子")
	ErrPollOptionCount = kind(ErrInvalidOperation, "投票选项数量必须在2到5之间")
	ErrCommentCycle    = kind(ErrInvalidOperation, "评论引用存在环")

	ErrUserNotFound    = kind(ErrNotFound, "用户不存在")
	ErrPostNotFound    = kind(ErrNotFound, "帖子不存在")
	ErrCommentNotFound = kind(ErrNotFound, "评论不存在")
	ErrOptionNotFound  = kind(ErrNotFound, "投票选项不存在")
	ErrTargetNotFound  = kind(ErrNotFound, "操作对象不存在")
	ErrSysBoxNotFound  = kind(ErrNotFound, "系统通知不存在")

	ErrAlreadyVoted    = kind(ErrAlreadyInState, "已投过该选项")
	ErrActionDuplicate = kind(ErrAlreadyInState, "重复操作")

	UnauthorizedError = kind(ErrUnauthorized, "权限不足")
	ErrNotLogin       = kind(ErrUnauthorized, "请先登录")

	UnExpectedError = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:    BadRequest,
	ErrInvalidVerb:     BadRequest,
	ErrUserFollowSelf:  BadRequest,
	ErrCrossPostReply:  BadRequest,
	ErrEmptyContent:    BadRequest,
	ErrPostNotPoll:     BadRequest,
	ErrOptionNotInPost: BadRequest,
	ErrPollOptionCount: BadRequest,
	ErrCommentCycle:    BadRequest,
	ErrUserNotFound:    NotFound,
	ErrPostNotFound:    NotFound,
	ErrCommentNotFound: NotFound,
	ErrOptionNotFound:  NotFound,
	ErrTargetNotFound:  NotFound,
	ErrSysBoxNotFound:  NotFound,
	ErrAlreadyVoted:    Conflict,
	ErrActionDuplicate: Conflict,
	UnauthorizedError:  Forbidden,
	ErrNotLogin:        Unauthorized,
	UnExpectedError:    InternalServerError,
}

// CodeOf 先查具体错误，再按大类兜底
func CodeOf(err error) (int, bool) {
	if code, ok := ErrorMap[err]; ok {
		return code, true
	}
	for e, code := range ErrorMap {
		if errors.Is(err, e) {
			return code, true
		}
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return NotFound, true
	case errors.Is(err, ErrInvalidOperation):
		return BadRequest, true
	case errors.Is(err, ErrAlreadyInState):
		return Conflict, true
	case errors.Is(err, ErrUnauthorized):
		return Forbidden, true
	}
	return InternalServerError, false
}
