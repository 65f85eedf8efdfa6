package service

import (
	"Hearth/internal/model"
	"Hearth/internal/pkg/mongo"
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoDB "go.mongodb.org/mongo-driver/mongo"
)

type memorySysBox struct {
	mu   sync.Mutex
	msgs []*mongo.SysBoxModel
}

func (m *memorySysBox) CreateNotification(_ context.Context, msg *mongo.SysBoxModel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if msg.ID.IsZero() {
		msg.ID = primitive.NewObjectID()
	}
	m.msgs = append(m.msgs, msg)
	return nil
}

func (m *memorySysBox) GetNotificationList(_ context.Context, userID uint64, limit, offset int64) ([]*mongo.SysBoxModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*mongo.SysBoxModel
	for _, msg := range m.msgs {
		if msg.ReceiverID == userID {
			out = append(out, msg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= int64(len(out)) {
		return nil, nil
	}
	end := offset + limit
	if end > int64(len(out)) {
		end = int64(len(out))
	}
	return out[offset:end], nil
}

func (m *memorySysBox) MarkAsRead(_ context.Context, userID uint64, msgID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range m.msgs {
		if msg.ID == msgID && msg.ReceiverID == userID {
			msg.IsRead = true
		}
	}
	return nil
}

func (m *memorySysBox) MarkAllAsRead(_ context.Context, userID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range m.msgs {
		if msg.ReceiverID == userID {
			msg.IsRead = true
		}
	}
	return nil
}

func (m *memorySysBox) GetUnreadCount(_ context.Context, userID uint64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, msg := range m.msgs {
		if msg.ReceiverID == userID && !msg.IsRead {
			n++
		}
	}
	return n, nil
}

func (m *memorySysBox) CountByReceiver(_ context.Context, userID uint64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, msg := range m.msgs {
		if msg.ReceiverID == userID {
			n++
		}
	}
	return n, nil
}

func (m *memorySysBox) GetByID(_ context.Context, id primitive.ObjectID) (*mongo.SysBoxModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range m.msgs {
		if msg.ID == id {
			cp := *msg
			return &cp, nil
		}
	}
	return nil, mongoDB.ErrNoDocuments
}

func TestSysBoxService(t *testing.T) {
	e := newTestEnv(t)
	receiver := e.user(t, model.UserRoleNormal)
	sender := e.user(t, model.UserRoleNormal)
	other := e.user(t, model.UserRoleNormal)

	box := &memorySysBox{}
	svc := NewSysBoxService(box, e.userRepo)

	now := time.Now()
	liked := &mongo.SysBoxModel{ReceiverID: receiver, SenderID: sender, Type: mongo.SysBoxTypeLike, TargetID: 1, CreatedAt: now}
	system := &mongo.SysBoxModel{ReceiverID: receiver, Type: mongo.SysBoxTypeComment, Content: "欢迎", CreatedAt: now.Add(time.Second)}
	require.NoError(t, box.CreateNotification(e.ctx, liked))
	require.NoError(t, box.CreateNotification(e.ctx, system))

	page, err := svc.GetNotificationList(e.ctx, receiver, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.List, 2)
	assert.Equal(t, systemSenderName, page.List[0].SenderName)
	assert.Equal(t, "用户2", page.List[1].SenderName)
	assert.Equal(t, liked.ID.Hex(), page.List[1].ID)

	unread, err := svc.GetUnreadCount(e.ctx, receiver)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread.UnreadCount)

	assert.ErrorIs(t, svc.MarkRead(e.ctx, receiver, "not-hex"), ErrParamInvalid)
	assert.ErrorIs(t, svc.MarkRead(e.ctx, receiver, primitive.NewObjectID().Hex()), ErrSysBoxNotFound)
	assert.ErrorIs(t, svc.MarkRead(e.ctx, other, liked.ID.Hex()), ErrUnauthorized)

	require.NoError(t, svc.MarkRead(e.ctx, receiver, liked.ID.Hex()))
	unread, err = svc.GetUnreadCount(e.ctx, receiver)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread.UnreadCount)

	require.NoError(t, svc.MarkAllRead(e.ctx, receiver))
	unread, err = svc.GetUnreadCount(e.ctx, receiver)
	require.NoError(t, err)
	assert.Zero(t, unread.UnreadCount)
}
