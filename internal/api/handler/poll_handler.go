package handler

import (
	"Hearth/internal/api/dto"
	"Hearth/internal/pkg/response"
	"Hearth/internal/service"

	"github.com/gin-gonic/gin"
)

type PollHandler struct {
	pollSvc service.PollService
}

func NewPollHandler(pollSvc service.PollService) *PollHandler {
	return &PollHandler{pollSvc: pollSvc}
}

func (s *PollHandler) Vote(c *gin.Context) {
	postID, ok := parseUintParam(c, "post_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	var req dto.VoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.pollSvc.Vote(c.Request.Context(), postID, req.OptionID, c.GetUint64("user_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// View 投票选项、实时票数与访问者的选择
func (s *PollHandler) View(c *gin.Context) {
	postID, ok := parseUintParam(c, "post_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	view, err := s.pollSvc.GetPollView(c.Request.Context(), postID, c.GetUint64("user_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, view)
}
