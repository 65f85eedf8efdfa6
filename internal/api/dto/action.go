package dto

// ActionToggleReq 点赞/收藏切换请求
type ActionToggleReq struct {
	TargetID   uint64 `json:"target_id" binding:"required"`
	TargetType string `json:"target_type" validate:"omitempty,oneof=post comment"` // 缺省为 post
	Action     string `json:"action" binding:"required" validate:"oneof=like collect"`
}

// ActionToggleDTO 切换后的状态
type ActionToggleDTO struct {
	Active bool `json:"active"`
}

// ReportReq 举报
type ReportReq struct {
	TargetID   uint64 `json:"target_id" binding:"required"`
	TargetType string `json:"target_type" validate:"omitempty,oneof=post comment"`
	Reason     string `json:"reason" binding:"required" validate:"min=1,max=200"`
}

// ActionStateDTO 当前用户对帖子的交互状态
type ActionStateDTO struct {
	IsLiked     bool `json:"is_liked"`
	IsCollected bool `json:"is_collected"`
}
