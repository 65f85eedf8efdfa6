package dto

// FollowToggleDTO 关注切换结果
type FollowToggleDTO struct {
	Following bool `json:"following"`
}

// FollowUserDTO 关注/粉丝列表中的用户
// IsFollowing/IsFollowedBy 描述列表主人与该用户的关系，Viewer* 描述当前访问者与该用户的关系
type FollowUserDTO struct {
	UserID           uint64 `json:"user_id"`
	Username         string `json:"username"`
	Nickname         string `json:"nickname"`
	AvatarURL        string `json:"avatar_url"`
	Bio              string `json:"bio"`
	IsFollowing      bool   `json:"is_following"`
	IsFollowedBy     bool   `json:"is_followed_by"`
	IsMutual         bool   `json:"is_mutual"`
	ViewerFollowing  bool   `json:"viewer_following"`
	ViewerFollowedBy bool   `json:"viewer_followed_by"`
	IsSelf           bool   `json:"is_self"`
	FollowerCount    int64  `json:"follower_count"`
	FollowingCount   int64  `json:"following_count"`
	PostCount        int64  `json:"post_count"`
	FollowedAt       string `json:"followed_at"`
}

// UserStatsDTO 用户统计，实时计算
type UserStatsDTO struct {
	UserID         uint64 `json:"user_id"`
	FollowerCount  int64  `json:"follower_count"`
	FollowingCount int64  `json:"following_count"`
	PostCount      int64  `json:"post_count"`
	IsFollowing    bool   `json:"is_following"`
	IsFollowedBy   bool   `json:"is_followed_by"`
}
