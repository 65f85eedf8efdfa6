package model

import (
	"time"
)

type ActionType int8

const (
	ActionLike    ActionType = 0
	ActionCollect ActionType = 1
	ActionShare   ActionType = 2
	ActionReport  ActionType = 3
)

const (
	TargetTypePost    = "post"
	TargetTypeComment = "comment"
)

// UserAction 用户行为流水，点赞/收藏取消时只打墓碑不删除
// Live 为 1 表示当前有效，墓碑后置 NULL，唯一索引因此只约束有效记录
type UserAction struct {
	ID         uint64     `gorm:"primaryKey" json:"id"`
	UserID     uint64     `gorm:"not null;uniqueIndex:uk_user_action_live,priority:1" json:"userId"`
	TargetID   uint64     `gorm:"not null;uniqueIndex:uk_user_action_live,priority:2;index:idx_user_actions_target" json:"targetId"`
	TargetType string     `gorm:"type:varchar(20);not null;default:'post';uniqueIndex:uk_user_action_live,priority:3;index:idx_user_actions_target" json:"targetType"`
	ActionType ActionType `gorm:"not null;uniqueIndex:uk_user_action_live,priority:4" json:"actionType"`
	ExtraData  string     `gorm:"type:text" json:"extraData"`
	Live       *int8      `gorm:"type:tinyint;uniqueIndex:uk_user_action_live,priority:5" json:"-"`
	IsDeleted  bool       `gorm:"type:tinyint(1);not null;default:0" json:"isDeleted"`
	CreatedAt  time.Time  `json:"createdAt"`
}

func (UserAction) TableName() string {
	return "user_actions"
}

// Toggleable 点赞与收藏可切换，分享和举报只追加
func (t ActionType) Toggleable() bool {
	return t == ActionLike || t == ActionCollect
}

func (t ActionType) String() string {
	switch t {
	case ActionLike:
		return "like"
	case ActionCollect:
		return "collect"
	case ActionShare:
		return "share"
	case ActionReport:
		return "report"
	default:
		return "unknown"
	}
}

// ParseActionType 解析接口传入的动作名
func ParseActionType(s string) (ActionType, bool) {
	switch s {
	case "like":
		return ActionLike, true
	case "collect":
		return ActionCollect, true
	case "share":
		return ActionShare, true
	case "report":
		return ActionReport, true
	default:
		return 0, false
	}
}

// LiveMark 有效记录的唯一索引占位值
func LiveMark() *int8 {
	v := int8(1)
	return &v
}
