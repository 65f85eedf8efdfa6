package model

type PollOption struct {
	ID           uint64 `gorm:"primaryKey" json:"id"`
	PostID       uint64 `gorm:"not null;index:idx_poll_options_post_id" json:"postId"`
	OptionText   string `gorm:"type:varchar(255);not null" json:"optionText"`
	DisplayOrder int    `gorm:"not null;default:1" json:"displayOrder"`
	IsDeleted    bool   `gorm:"type:tinyint(1);not null;default:0" json:"isDeleted"`
}

func (PollOption) TableName() string {
	return "poll_options"
}
