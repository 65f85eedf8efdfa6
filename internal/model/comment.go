package model

import (
	"time"
)

const (
	CommentStatusNormal      int8 = 0
	CommentStatusPlaceholder int8 = 1
)

// CommentPlaceholderContent 有子回复的评论被删除后展示的内容
const CommentPlaceholderContent = "[该评论已被删除]"

type Comment struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	PostID    uint64    `gorm:"not null;index:idx_comments_post_id" json:"postId"`
	UserID    uint64    `gorm:"not null;index:idx_comments_user_id" json:"userId"`
	ParentID  *uint64   `gorm:"index:idx_comments_parent_id" json:"parentId"` // nil 表示直接评论帖子
	Content   string    `gorm:"type:varchar(1000);not null" json:"content"`
	Status    int8      `gorm:"not null;default:0" json:"status"` // 0:正常, 1:占位
	IsDeleted bool      `gorm:"type:tinyint(1);not null;default:0" json:"isDeleted"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Comment) TableName() string {
	return "comments"
}

func (c *Comment) IsPlaceholder() bool {
	return c.Status == CommentStatusPlaceholder
}
