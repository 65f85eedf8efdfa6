package model

import "time"

type Tag struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_tag_name" json:"name"`
	Description *string   `gorm:"type:varchar(255)" json:"description"` // 默认可为空
	PostCount   int       `gorm:"not null;default:0" json:"postCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (Tag) TableName() string {
	return "tags"
}
