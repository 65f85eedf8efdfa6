package model

import "time"

// UserVote 每个用户在一个帖子上至多一张有效票，改票时旧票打墓碑
type UserVote struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UserID    uint64    `gorm:"not null;uniqueIndex:uk_user_vote_live,priority:1" json:"userId"`
	PostID    uint64    `gorm:"not null;uniqueIndex:uk_user_vote_live,priority:2;index:idx_user_votes_post_id" json:"postId"`
	OptionID  uint64    `gorm:"not null;index:idx_user_votes_option_id" json:"optionId"`
	Live      *int8     `gorm:"type:tinyint;uniqueIndex:uk_user_vote_live,priority:3" json:"-"`
	IsDeleted bool      `gorm:"type:tinyint(1);not null;default:0" json:"isDeleted"`
	CreatedAt time.Time `json:"createdAt"`
}

func (UserVote) TableName() string {
	return "user_votes"
}

// OptionTally 单个选项的实时票数
type OptionTally struct {
	OptionID uint64 `json:"optionId"`
	Count    int64  `json:"count"`
}
