package dto

// VoteReq 投票
type VoteReq struct {
	OptionID uint64 `json:"option_id" binding:"required"`
}

// PollOptionDTO 投票选项及实时票数
type PollOptionDTO struct {
	ID           uint64  `json:"id"`
	OptionText   string  `json:"option_text"`
	DisplayOrder int     `json:"display_order"`
	VoteCount    int64   `json:"vote_count"`
	Percentage   float64 `json:"percentage"`
}

// PollDTO 投票视图
type PollDTO struct {
	PostID     uint64           `json:"post_id"`
	Options    []*PollOptionDTO `json:"options"`
	TotalVotes int64            `json:"total_votes"`
	MyOptionID *uint64          `json:"my_option_id"`
}
