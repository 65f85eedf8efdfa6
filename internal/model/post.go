package model

import (
	"time"
)

const (
	PostTypeNormal int8 = 0
	PostTypePoll   int8 = 1
)

const (
	PostStatusNormal  int8 = 0
	PostStatusRemoved int8 = 1
)

type Post struct {
	ID           uint64    `gorm:"primaryKey" json:"id"`
	UserID       uint64    `gorm:"not null;index:idx_posts_user_id" json:"userId"`
	Title        string    `gorm:"type:varchar(255)" json:"title"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	PostType     int8      `gorm:"not null;default:0" json:"postType"` // 0:普通, 1:投票
	LikeCount    int       `gorm:"not null;default:0" json:"likeCount"`
	CollectCount int       `gorm:"not null;default:0" json:"collectCount"`
	ShareCount   int       `gorm:"not null;default:0" json:"shareCount"`
	CommentCount int       `gorm:"not null;default:0" json:"commentCount"`
	Status       int8      `gorm:"not null;default:0" json:"status"` // 0:正常, 1:已删除/下架
	IsDeleted    bool      `gorm:"type:tinyint(1);not null;default:0;index:idx_posts_is_deleted" json:"isDeleted"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (Post) TableName() string {
	return "posts"
}

// IsPoll 是否为投票帖
func (p *Post) IsPoll() bool {
	return p.PostType == PostTypePoll
}

// PostCounters 帖子上的冗余计数
type PostCounters struct {
	LikeCount    int `json:"likeCount"`
	CollectCount int `json:"collectCount"`
	ShareCount   int `json:"shareCount"`
	CommentCount int `json:"commentCount"`
}

func (p *Post) Counters() PostCounters {
	return PostCounters{
		LikeCount:    p.LikeCount,
		CollectCount: p.CollectCount,
		ShareCount:   p.ShareCount,
		CommentCount: p.CommentCount,
	}
}
