package service

import (
	"Hearth/internal/api/dto"
	"Hearth/internal/model"
	"Hearth/internal/pkg/database"
	"Hearth/internal/repository"
	"context"
	"fmt"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeDirtySet struct {
	mu  sync.Mutex
	ids map[uint64]struct{}
}

func newFakeDirtySet() *fakeDirtySet {
	return &fakeDirtySet{ids: map[uint64]struct{}{}}
}

func (f *fakeDirtySet) Mark(_ context.Context, ids ...uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		f.ids[id] = struct{}{}
	}
	return nil
}

func (f *fakeDirtySet) Drain(_ context.Context) ([]string, func(context.Context) error, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	members := make([]string, 0, len(f.ids))
	drained := make([]uint64, 0, len(f.ids))
	for id := range f.ids {
		members = append(members, strconv.FormatUint(id, 10))
		drained = append(drained, id)
	}
	done := func(context.Context) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		for _, id := range drained {
			delete(f.ids, id)
		}
		return nil
	}
	return members, done, nil
}

func (f *fakeDirtySet) has(id uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.ids[id]
	return ok
}

type testEnv struct {
	ctx   context.Context
	db    *gorm.DB
	dirty *fakeDirtySet

	userRepo    repository.UserRepo
	postRepo    repository.PostRepo
	actionRepo  repository.UserActionRepo
	commentRepo repository.CommentRepo
	pollRepo    repository.PollRepo
	tagRepo     repository.TagRepo

	actions  UserActionService
	follows  UserFollowService
	polls    PollService
	comments CommentService
	posts    PostService
	counters CounterService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.NewMemoryDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	e := &testEnv{
		ctx:         context.Background(),
		db:          db,
		dirty:       newFakeDirtySet(),
		userRepo:    repository.NewUserRepo(db),
		postRepo:    repository.NewPostRepository(db),
		actionRepo:  repository.NewUserActionRepo(db),
		commentRepo: repository.NewCommentRepo(db),
		pollRepo:    repository.NewPollRepo(db),
		tagRepo:     repository.NewTagRepository(db),
	}
	tx := repository.NewTxManager(db)
	e.actions = NewUserActionService(tx, e.actionRepo, e.postRepo, e.commentRepo, e.dirty)
	e.follows = NewUserFollowService(tx, repository.NewUserFollowRepo(db), e.userRepo, e.postRepo)
	e.polls = NewPollService(tx, e.pollRepo, e.postRepo)
	e.comments = NewCommentService(tx, e.commentRepo, e.postRepo, e.userRepo, e.dirty)
	e.posts = NewPostService(tx, e.postRepo, e.tagRepo, e.actionRepo, e.pollRepo, e.userRepo, e.actions, e.polls)
	e.counters = NewCounterService(tx, e.postRepo, e.actionRepo, e.commentRepo, e.dirty)
	return e
}

func (e *testEnv) user(t *testing.T, role int8) uint64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&model.User{}).Count(&n).Error)
	u := &model.User{
		Username: fmt.Sprintf("user%d", n+1),
		Nickname: fmt.Sprintf("用户%d", n+1),
		Role:     role,
	}
	require.NoError(t, e.userRepo.CreateUser(e.ctx, u))
	return u.ID
}

func (e *testEnv) post(t *testing.T, authorID uint64, tags ...string) uint64 {
	t.Helper()
	id, err := e.posts.CreatePost(e.ctx, authorID, &dto.CreatePostDTO{
		Title:   "标题",
		Content: "正文内容",
		Tags:    tags,
	})
	require.NoError(t, err)
	return id
}

func (e *testEnv) poll(t *testing.T, authorID uint64, options ...string) (uint64, []*model.PollOption) {
	t.Helper()
	id, err := e.posts.CreatePost(e.ctx, authorID, &dto.CreatePostDTO{
		Title:       "投票",
		Content:     "选一个",
		PostType:    model.PostTypePoll,
		PollOptions: options,
	})
	require.NoError(t, err)
	opts, err := e.pollRepo.ListOptions(e.ctx, id, false)
	require.NoError(t, err)
	return id, opts
}

func (e *testEnv) reload(t *testing.T, postID uint64) *model.Post {
	t.Helper()
	p, err := e.postRepo.GetPost(e.ctx, postID)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}
