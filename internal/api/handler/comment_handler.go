package handler

import (
	"Hearth/internal/api/dto"
	"Hearth/internal/pkg/response"
	"Hearth/internal/pkg/util"
	"Hearth/internal/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentSvc service.CommentService
}

func NewCommentHandler(commentSvc service.CommentService) *CommentHandler {
	return &CommentHandler{commentSvc: commentSvc}
}

func (s *CommentHandler) Create(c *gin.Context) {
	var req dto.CommentCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Fail(c, response.BadRequest, err.Error())
		return
	}

	comment, err := s.commentSvc.CreateComment(c.Request.Context(), req.PostID, req.Content, req.ParentID, c.GetUint64("user_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, comment)
}

func (s *CommentHandler) Delete(c *gin.Context) {
	commentID, ok := parseUintParam(c, "comment_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	err := s.commentSvc.DeleteComment(c.Request.Context(), commentID, c.GetUint64("user_id"), c.GetBool("is_moderator"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// List 帖子下的一级评论
func (s *CommentHandler) List(c *gin.Context) {
	s.list(c, false)
}

// ListIncludingDeleted 版主查看包括墓碑在内的全部一级评论
func (s *CommentHandler) ListIncludingDeleted(c *gin.Context) {
	s.list(c, true)
}

func (s *CommentHandler) list(c *gin.Context, includeDeleted bool) {
	postID, ok := parseUintParam(c, "post_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	page, pageSize := getPagination(c)
	list, err := s.commentSvc.ListComments(c.Request.Context(), postID, page, pageSize, includeDeleted)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *CommentHandler) Replies(c *gin.Context) {
	commentID, ok := parseUintParam(c, "comment_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	page, pageSize := getPagination(c)
	list, err := s.commentSvc.ListReplies(c.Request.Context(), commentID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *CommentHandler) Depth(c *gin.Context) {
	commentID, ok := parseUintParam(c, "comment_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	depth, err := s.commentSvc.Depth(c.Request.Context(), commentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.CommentDepthDTO{CommentID: commentID, Depth: depth})
}

// UserComments 用户的评论历史
func (s *CommentHandler) UserComments(c *gin.Context) {
	userID, ok := parseUintParam(c, "user_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	page, pageSize := getPagination(c)
	list, err := s.commentSvc.ListUserComments(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}
