package handler

import (
	"Hearth/internal/api/dto"
	"Hearth/internal/pkg/response"
	"Hearth/internal/pkg/util"
	"Hearth/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postSvc    service.PostService
	counterSvc service.CounterService
}

func NewPostHandler(postSvc service.PostService, counterSvc service.CounterService) *PostHandler {
	return &PostHandler{
		postSvc:    postSvc,
		counterSvc: counterSvc,
	}
}

func (s *PostHandler) CreatePost(c *gin.Context) {
	var req dto.CreatePostDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Fail(c, response.BadRequest, err.Error())
		return
	}

	postID, err := s.postSvc.CreatePost(c.Request.Context(), c.GetUint64("user_id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.PostCreatedDTO{PostID: postID})
}

func (s *PostHandler) GetPost(c *gin.Context) {
	postID, ok := parseUintParam(c, "post_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	post, err := s.postSvc.GetPost(c.Request.Context(), postID, c.GetUint64("user_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}

// DeletePost 作者或版主删除，关联记录一并作废
func (s *PostHandler) DeletePost(c *gin.Context) {
	postID, ok := parseUintParam(c, "post_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	err := s.postSvc.DeletePost(c.Request.Context(), postID, c.GetUint64("user_id"), c.GetBool("is_moderator"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// References 版主查看帖子的关联记录，include_deleted=true 时包含墓碑
func (s *PostHandler) References(c *gin.Context) {
	postID, ok := parseUintParam(c, "post_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	includeDeleted, _ := strconv.ParseBool(c.DefaultQuery("include_deleted", "false"))
	refs, err := s.postSvc.GetPostReferences(c.Request.Context(), postID, includeDeleted)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, refs)
}

// Recount 立即回算单个帖子的计数
func (s *PostHandler) Recount(c *gin.Context) {
	postID, ok := parseUintParam(c, "post_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	result, err := s.counterSvc.RecountPost(c.Request.Context(), postID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Feed 首页帖子流，sort=hot 时按热度排序
func (s *PostHandler) Feed(c *gin.Context) {
	page, pageSize := getPagination(c)
	result, err := s.postSvc.ListFeed(c.Request.Context(), page, pageSize, c.Query("sort") == "hot")
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *PostHandler) UserPosts(c *gin.Context) {
	userID, ok := parseUintParam(c, "user_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	page, pageSize := getPagination(c)
	result, err := s.postSvc.ListUserPosts(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *PostHandler) TagPosts(c *gin.Context) {
	page, pageSize := getPagination(c)
	result, err := s.postSvc.ListPostsByTag(c.Request.Context(), c.Param("tag"), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Collections 当前用户的收藏
func (s *PostHandler) Collections(c *gin.Context) {
	page, pageSize := getPagination(c)
	result, err := s.postSvc.ListUserCollections(c.Request.Context(), c.GetUint64("user_id"), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ModerationList 后台帖子列表，include_deleted=true 时包含已删除帖子
func (s *PostHandler) ModerationList(c *gin.Context) {
	page, pageSize := getPagination(c)
	includeDeleted, _ := strconv.ParseBool(c.DefaultQuery("include_deleted", "false"))
	result, err := s.postSvc.ListPostsForModeration(c.Request.Context(), page, pageSize, includeDeleted)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
