package dto

// CommentCreateDTO 创建评论请求
type CommentCreateDTO struct {
	PostID   uint64  `json:"post_id" binding:"required"`
	Content  string  `json:"content" binding:"required" validate:"max=1000"`
	ParentID *uint64 `json:"parent_id"` // 为空表示直接评论帖子
}

// CommentDTO 评论返回详情
type CommentDTO struct {
	ID            uint64  `json:"id"`
	PostID        uint64  `json:"post_id"`
	UserID        uint64  `json:"user_id"`
	Nickname      string  `json:"nickname"`
	AvatarURL     string  `json:"avatar_url"`
	ParentID      *uint64 `json:"parent_id"`
	Content       string  `json:"content"`
	ContentHTML   string  `json:"content_html"`
	Status        int8    `json:"status"`
	IsPlaceholder bool    `json:"is_placeholder"`
	IsDeleted     bool    `json:"is_deleted"`
	ReplyCount    int64   `json:"reply_count"`
	CreatedAt     string  `json:"created_at"`
}

// CommentDepthDTO 评论所在层级
type CommentDepthDTO struct {
	CommentID uint64 `json:"comment_id"`
	Depth     int    `json:"depth"`
}
