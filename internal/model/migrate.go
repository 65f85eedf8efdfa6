package model

// All 需要自动迁移的表
func All() []any {
	return []any{
		&User{},
		&Post{},
		&Tag{},
		&PostTag{},
		&UserAction{},
		&UserFollow{},
		&PollOption{},
		&UserVote{},
		&Comment{},
	}
}
