package model

type PostTag struct {
	PostID    uint64 `gorm:"primaryKey" json:"postId"`
	TagID     uint64 `gorm:"primaryKey;index:idx_post_tags_tag_id" json:"tagId"`
	IsDeleted bool   `gorm:"type:tinyint(1);not null;default:0" json:"isDeleted"`
}

func (PostTag) TableName() string {
	return "post_tags"
}
