package model

import (
	"time"
)

const (
	UserRoleNormal    int8 = 1
	UserRoleModerator int8 = 2
	UserRoleAdmin     int8 = 3
)

type User struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_username" json:"username"`
	Nickname  string    `gorm:"type:varchar(50)" json:"nickname"`
	AvatarURL string    `gorm:"type:varchar(255)" json:"avatarUrl"`
	Bio       string    `gorm:"type:varchar(255)" json:"bio"`
	Role      int8      `gorm:"not null;default:1" json:"role"`
	IsBan     bool      `gorm:"type:tinyint(1);default:0" json:"isBan"`
	IsDelete  bool      `gorm:"type:tinyint(1);default:0" json:"isDelete"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// IsModerator 版主及以上
func (u *User) IsModerator() bool {
	return u.Role >= UserRoleModerator
}
