package dto

// CreatePostDTO 发帖请求，PostType 为 1 时需要 2 到 5 个选项
type CreatePostDTO struct {
	Title       string   `json:"title" binding:"required" validate:"min=1,max=255"`
	Content     string   `json:"content" binding:"required" validate:"min=1,max=10000"`
	PostType    int8     `json:"post_type" validate:"oneof=0 1"`
	PollOptions []string `json:"poll_options" validate:"max=5,dive,max=255"`
	Tags        []string `json:"tags" validate:"max=10,dive,max=50"`
}

// PostCreatedDTO 发帖结果
type PostCreatedDTO struct {
	PostID uint64 `json:"post_id"`
}

// PostDetailDTO 帖子详情
type PostDetailDTO struct {
	ID           uint64          `json:"id"`
	UserID       uint64          `json:"user_id"`
	Nickname     string          `json:"nickname"`
	AvatarURL    string          `json:"avatar_url"`
	Title        string          `json:"title"`
	Content      string          `json:"content"`
	ContentHTML  string          `json:"content_html"`
	PostType     int8            `json:"post_type"`
	LikeCount    int             `json:"like_count"`
	CollectCount int             `json:"collect_count"`
	ShareCount   int             `json:"share_count"`
	CommentCount int             `json:"comment_count"`
	Tags         []string        `json:"tags"`
	Poll         *PollDTO        `json:"poll,omitempty"`
	ActionState  *ActionStateDTO `json:"action_state"`
	CreatedAt    string          `json:"created_at"`
}

// PostSummaryDTO 列表中的帖子摘要
type PostSummaryDTO struct {
	ID           uint64   `json:"id"`
	UserID       uint64   `json:"user_id"`
	Nickname     string   `json:"nickname"`
	AvatarURL    string   `json:"avatar_url"`
	Title        string   `json:"title"`
	Excerpt      string   `json:"excerpt"`
	PostType     int8     `json:"post_type"`
	LikeCount    int      `json:"like_count"`
	CollectCount int      `json:"collect_count"`
	ShareCount   int      `json:"share_count"`
	CommentCount int      `json:"comment_count"`
	Status       int8     `json:"status"`
	IsDeleted    bool     `json:"is_deleted"`
	Tags         []string `json:"tags"`
	CreatedAt    string   `json:"created_at"`
}

// PostReferencesDTO 帖子关联数据快照，IncludeDeleted 时包含墓碑记录
type PostReferencesDTO struct {
	PostID      uint64 `json:"post_id"`
	IsDeleted   bool   `json:"is_deleted"`
	Status      int8   `json:"status"`
	TagLinks    int    `json:"tag_links"`
	Actions     int    `json:"actions"`
	PollOptions int    `json:"poll_options"`
	Votes       int    `json:"votes"`
}

// RecountDTO 计数回算结果
type RecountDTO struct {
	PostID       uint64 `json:"post_id"`
	LikeCount    int    `json:"like_count"`
	CollectCount int    `json:"collect_count"`
	ShareCount   int    `json:"share_count"`
	CommentCount int    `json:"comment_count"`
	Changed      bool   `json:"changed"`
}
