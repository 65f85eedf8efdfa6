package api

import "Hearth/internal/api/handler"

type HandlersGroup struct {
	ActionHandler     *handler.ActionHandler
	UserFollowHandler *handler.UserFollowHandler
	CommentHandler    *handler.CommentHandler
	PollHandler       *handler.PollHandler
	PostHandler       *handler.PostHandler
	SysBoxHandler     *handler.SysBoxHandler
}
