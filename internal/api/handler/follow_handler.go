package handler

import (
	"Hearth/internal/api/dto"
	"Hearth/internal/pkg/response"
	"Hearth/internal/service"

	"github.com/gin-gonic/gin"
)

type UserFollowHandler struct {
	userFollowSvc service.UserFollowService
}

func NewUserFollowHandler(userFollowSvc service.UserFollowService) *UserFollowHandler {
	return &UserFollowHandler{userFollowSvc: userFollowSvc}
}

// Toggle 关注/取关
func (s *UserFollowHandler) Toggle(c *gin.Context) {
	followeeID, ok := parseUintParam(c, "user_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	following, err := s.userFollowSvc.ToggleFollow(c.Request.Context(), c.GetUint64("user_id"), followeeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.FollowToggleDTO{Following: following})
}

func (s *UserFollowHandler) Followers(c *gin.Context) {
	ownerID, ok := parseUintParam(c, "user_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	page, pageSize := getPagination(c)
	list, err := s.userFollowSvc.ListFollowers(c.Request.Context(), ownerID, c.GetUint64("user_id"), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *UserFollowHandler) Following(c *gin.Context) {
	ownerID, ok := parseUintParam(c, "user_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	page, pageSize := getPagination(c)
	list, err := s.userFollowSvc.ListFollowing(c.Request.Context(), ownerID, c.GetUint64("user_id"), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *UserFollowHandler) Stats(c *gin.Context) {
	userID, ok := parseUintParam(c, "user_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	stats, err := s.userFollowSvc.GetUserStats(c.Request.Context(), userID, c.GetUint64("user_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}

func (s *UserFollowHandler) IsFollowing(c *gin.Context) {
	followeeID, ok := parseUintParam(c, "user_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	following, err := s.userFollowSvc.IsFollowing(c.Request.Context(), c.GetUint64("user_id"), followeeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.FollowToggleDTO{Following: following})
}
