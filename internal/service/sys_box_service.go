package service

import (
	"Hearth/internal/api/dto"
	"Hearth/internal/model"
	"Hearth/internal/pkg/mongo"
	"Hearth/internal/repository"
	"context"
	"errors"

	"github.com/jinzhu/copier"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoDB "go.mongodb.org/mongo-driver/mongo"
)

const systemSenderName = "系统通知"

var sysBoxCopyOption = copier.Option{
	Converters: append([]copier.TypeConverter{
		{
			SrcType: primitive.ObjectID{},
			DstType: copier.String,
			Fn: func(src interface{}) (interface{}, error) {
				return src.(primitive.ObjectID).Hex(), nil
			},
		},
	}, copyOption.Converters...),
}

type SysBoxService interface {
	GetNotificationList(ctx context.Context, userID uint64, page, pageSize int) (*dto.PageDTO[*dto.SysBoxDTO], error)
	GetUnreadCount(ctx context.Context, userID uint64) (*dto.SysBoxUnreadDTO, error)
	MarkRead(ctx context.Context, userID uint64, msgID string) error
	MarkAllRead(ctx context.Context, userID uint64) error
}

type sysBoxServiceImpl struct {
	sysBoxRepo mongo.SysBoxRepo
	userRepo   repository.UserRepo
}

func NewSysBoxService(sysBox mongo.SysBoxRepo, user repository.UserRepo) SysBoxService {
	return &sysBoxServiceImpl{
		sysBoxRepo: sysBox,
		userRepo:   user,
	}
}

// GetNotificationList 获取通知列表并批量补全发送者信息
func (s *sysBoxServiceImpl) GetNotificationList(ctx context.Context, userID uint64, page, pageSize int) (*dto.PageDTO[*dto.SysBoxDTO], error) {
	limit, offset, page := pageArgs(page, pageSize)

	list, err := s.sysBoxRepo.GetNotificationList(ctx, userID, int64(limit), int64(offset))
	if err != nil {
		return nil, err
	}
	total, err := s.sysBoxRepo.CountByReceiver(ctx, userID)
	if err != nil {
		return nil, err
	}

	senderIDs := make([]uint64, 0, len(list))
	for _, m := range list {
		if m.SenderID > 0 {
			senderIDs = append(senderIDs, m.SenderID)
		}
	}
	senders, err := s.userRepo.GetUserByIds(ctx, senderIDs)
	if err != nil {
		return nil, err
	}
	senderMap := make(map[uint64]*model.User, len(senders))
	for _, u := range senders {
		senderMap[u.ID] = u
	}

	res := make([]*dto.SysBoxDTO, 0, len(list))
	for _, m := range list {
		d := &dto.SysBoxDTO{}
		if err = copier.CopyWithOption(d, m, sysBoxCopyOption); err != nil {
			return nil, err
		}

		// SenderID 为 0 代表系统发送
		if m.SenderID == 0 {
			d.SenderName = systemSenderName
		} else if u, ok := senderMap[m.SenderID]; ok {
			d.SenderName = u.Nickname
			d.AvatarURL = u.AvatarURL
		}
		res = append(res, d)
	}

	return &dto.PageDTO[*dto.SysBoxDTO]{List: res, Total: total, Page: page, PageSize: limit}, nil
}

func (s *sysBoxServiceImpl) GetUnreadCount(ctx context.Context, userID uint64) (*dto.SysBoxUnreadDTO, error) {
	count, err := s.sysBoxRepo.GetUnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.SysBoxUnreadDTO{UnreadCount: count}, nil
}

// MarkRead 只能标记发给自己的通知
func (s *sysBoxServiceImpl) MarkRead(ctx context.Context, userID uint64, msgID string) error {
	objectID, err := primitive.ObjectIDFromHex(msgID)
	if err != nil {
		return ErrParamInvalid
	}

	notice, err := s.sysBoxRepo.GetByID(ctx, objectID)
	if err != nil {
		if errors.Is(err, mongoDB.ErrNoDocuments) {
			return ErrSysBoxNotFound
		}
		return err
	}

	if notice.ReceiverID != userID {
		return UnauthorizedError
	}

	if notice.IsRead {
		return nil
	}

	return s.sysBoxRepo.MarkAsRead(ctx, userID, objectID)
}

func (s *sysBoxServiceImpl) MarkAllRead(ctx context.Context, userID uint64) error {
	return s.sysBoxRepo.MarkAllAsRead(ctx, userID)
}
