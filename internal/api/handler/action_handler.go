package handler

import (
	"Hearth/internal/api/dto"
	"Hearth/internal/model"
	"Hearth/internal/pkg/response"
	"Hearth/internal/pkg/util"
	"Hearth/internal/service"

	"github.com/gin-gonic/gin"
)

type ActionHandler struct {
	actionSvc service.UserActionService
}

func NewActionHandler(actionSvc service.UserActionService) *ActionHandler {
	return &ActionHandler{actionSvc: actionSvc}
}

// Toggle 点赞/收藏切换
func (s *ActionHandler) Toggle(c *gin.Context) {
	var req dto.ActionToggleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Fail(c, response.BadRequest, err.Error())
		return
	}
	verb, ok := model.ParseActionType(req.Action)
	if !ok {
		response.Error(c, service.ErrInvalidVerb)
		return
	}

	active, err := s.actionSvc.ToggleAction(c.Request.Context(), c.GetUint64("user_id"), req.TargetID, req.TargetType, verb)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.ActionToggleDTO{Active: active})
}

func (s *ActionHandler) Share(c *gin.Context) {
	postID, ok := parseUintParam(c, "post_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := s.actionSvc.Share(c.Request.Context(), c.GetUint64("user_id"), postID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ActionHandler) Report(c *gin.Context) {
	var req dto.ReportReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Fail(c, response.BadRequest, err.Error())
		return
	}

	err := s.actionSvc.Report(c.Request.Context(), c.GetUint64("user_id"), req.TargetID, req.TargetType, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// State 当前用户对帖子的点赞/收藏状态
func (s *ActionHandler) State(c *gin.Context) {
	postID, ok := parseUintParam(c, "post_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	liked, collected, err := s.actionSvc.GetActionState(c.Request.Context(), c.GetUint64("user_id"), postID, model.TargetTypePost)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.ActionStateDTO{IsLiked: liked, IsCollected: collected})
}
