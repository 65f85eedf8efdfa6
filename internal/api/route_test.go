package api

import (
	"Hearth/internal/api/config"
	"Hearth/internal/api/dto"
	"Hearth/internal/api/handler"
	"Hearth/internal/model"
	"Hearth/internal/pkg/database"
	"Hearth/internal/pkg/security"
	"Hearth/internal/repository"
	"Hearth/internal/service"
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSysBox struct {
	service.SysBoxService
}

func (stubSysBox) GetUnreadCount(context.Context, uint64) (*dto.SysBoxUnreadDTO, error) {
	return &dto.SysBoxUnreadDTO{UnreadCount: 2}, nil
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type apiFixture struct {
	router   *gin.Engine
	userRepo repository.UserRepo
	posts    service.PostService
	polls    repository.PollRepo
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := database.NewMemoryDB()
	require.NoError(t, err)

	tx := repository.NewTxManager(db)
	userRepo := repository.NewUserRepo(db)
	postRepo := repository.NewPostRepository(db)
	actionRepo := repository.NewUserActionRepo(db)
	commentRepo := repository.NewCommentRepo(db)
	pollRepo := repository.NewPollRepo(db)

	actions := service.NewUserActionService(tx, actionRepo, postRepo, commentRepo, nil)
	polls := service.NewPollService(tx, pollRepo, postRepo)
	posts := service.NewPostService(tx, postRepo, repository.NewTagRepository(db), actionRepo, pollRepo, userRepo, actions, polls)
	comments := service.NewCommentService(tx, commentRepo, postRepo, userRepo, nil)
	follows := service.NewUserFollowService(tx, repository.NewUserFollowRepo(db), userRepo, postRepo)
	counters := service.NewCounterService(tx, postRepo, actionRepo, commentRepo, nil)

	group := &HandlersGroup{
		ActionHandler:     handler.NewActionHandler(actions),
		UserFollowHandler: handler.NewUserFollowHandler(follows),
		CommentHandler:    handler.NewCommentHandler(comments),
		PollHandler:       handler.NewPollHandler(polls),
		PostHandler:       handler.NewPostHandler(posts, counters),
		SysBoxHandler:     handler.NewSysBoxHandler(stubSysBox{}),
	}
	cfg := &config.Config{JWT: config.JWTConfig{ModeratorRoles: []string{"ADMIN", "MODERATOR"}}}
	return &apiFixture{
		router:   SetupRouter(group, cfg),
		userRepo: userRepo,
		posts:    posts,
		polls:    pollRepo,
	}
}

func (f *apiFixture) user(t *testing.T, name string) uint64 {
	t.Helper()
	u := &model.User{Username: name, Nickname: name, Role: model.UserRoleNormal}
	require.NoError(t, f.userRepo.CreateUser(context.Background(), u))
	return u.ID
}

func (f *apiFixture) do(t *testing.T, method, path string, userID uint64, roles []string, body any) envelope {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		token, err := security.GenerateToken(userID, roles)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHealthAndPing(t *testing.T) {
	f := newAPIFixture(t)

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	resp := f.do(t, http.MethodGet, "/api/ping", 0, nil, nil)
	assert.Equal(t, "pong", resp.Message)
}

func TestToggleLikeOverHTTP(t *testing.T) {
	f := newAPIFixture(t)
	author := f.user(t, "author")
	reader := f.user(t, "reader")

	created := f.do(t, http.MethodPost, "/api/posts", author, nil, map[string]any{
		"title": "你好", "content": "第一帖 #日常",
	})
	require.Equal(t, 200, created.Code, created.Message)
	var post dto.PostCreatedDTO
	require.NoError(t, json.Unmarshal(created.Data, &post))

	body := map[string]any{"target_id": post.PostID, "action": "like"}
	resp := f.do(t, http.MethodPost, "/api/actions/toggle", reader, nil, body)
	require.Equal(t, 200, resp.Code, resp.Message)
	var toggled dto.ActionToggleDTO
	require.NoError(t, json.Unmarshal(resp.Data, &toggled))
	assert.True(t, toggled.Active)

	resp = f.do(t, http.MethodGet, fmt.Sprintf("/api/posts/%d", post.PostID), reader, nil, nil)
	require.Equal(t, 200, resp.Code)
	var detail dto.PostDetailDTO
	require.NoError(t, json.Unmarshal(resp.Data, &detail))
	assert.Equal(t, 1, detail.LikeCount)
	assert.True(t, detail.ActionState.IsLiked)
	assert.Equal(t, []string{"日常"}, detail.Tags)

	resp = f.do(t, http.MethodPost, "/api/actions/toggle", 0, nil, body)
	assert.Equal(t, 401, resp.Code)

	resp = f.do(t, http.MethodPost, "/api/actions/toggle", reader, nil, map[string]any{"target_id": post.PostID, "action": "share"})
	assert.Equal(t, 400, resp.Code)
}

func TestErrorCodesOverHTTP(t *testing.T) {
	f := newAPIFixture(t)
	author := f.user(t, "author")
	voter := f.user(t, "voter")

	postID, err := f.posts.CreatePost(context.Background(), author, &dto.CreatePostDTO{
		Title: "选哪个", Content: "投票", PostType: model.PostTypePoll, PollOptions: []string{"A", "B"},
	})
	require.NoError(t, err)
	opts, err := f.polls.ListOptions(context.Background(), postID, false)
	require.NoError(t, err)

	votePath := fmt.Sprintf("/api/posts/%d/vote", postID)
	resp := f.do(t, http.MethodPost, votePath, voter, nil, map[string]any{"option_id": opts[0].ID})
	assert.Equal(t, 200, resp.Code)
	resp = f.do(t, http.MethodPost, votePath, voter, nil, map[string]any{"option_id": opts[0].ID})
	assert.Equal(t, 409, resp.Code)

	resp = f.do(t, http.MethodGet, "/api/posts/9999", 0, nil, nil)
	assert.Equal(t, 404, resp.Code)

	resp = f.do(t, http.MethodPost, fmt.Sprintf("/api/users/%d/follow", voter), voter, nil, nil)
	assert.Equal(t, 400, resp.Code)

	resp = f.do(t, http.MethodDelete, fmt.Sprintf("/api/posts/%d", postID), voter, nil, nil)
	assert.Equal(t, 403, resp.Code)
}

func TestModerationRoutes(t *testing.T) {
	f := newAPIFixture(t)
	author := f.user(t, "author")
	postID, err := f.posts.CreatePost(context.Background(), author, &dto.CreatePostDTO{Title: "t", Content: "c"})
	require.NoError(t, err)
	require.NoError(t, f.posts.DeletePost(context.Background(), postID, author, false))

	path := fmt.Sprintf("/api/moderation/posts/%d/references?include_deleted=true", postID)
	resp := f.do(t, http.MethodGet, path, author, []string{"USER"}, nil)
	assert.Equal(t, 403, resp.Code)

	resp = f.do(t, http.MethodGet, path, author, []string{"MODERATOR"}, nil)
	require.Equal(t, 200, resp.Code)
	var refs dto.PostReferencesDTO
	require.NoError(t, json.Unmarshal(resp.Data, &refs))
	assert.True(t, refs.IsDeleted)
}

func TestSysBoxUnread(t *testing.T) {
	f := newAPIFixture(t)
	uid := f.user(t, "reader")

	resp := f.do(t, http.MethodGet, "/api/sys-box/unread", uid, nil, nil)
	require.Equal(t, 200, resp.Code)
	var unread dto.SysBoxUnreadDTO
	require.NoError(t, json.Unmarshal(resp.Data, &unread))
	assert.Equal(t, int64(2), unread.UnreadCount)
}

func TestListingRoutes(t *testing.T) {
	f := newAPIFixture(t)
	author := f.user(t, "author")
	reader := f.user(t, "reader")
	ctx := context.Background()

	tagged, err := f.posts.CreatePost(ctx, author, &dto.CreatePostDTO{Title: "t1", Content: "c1", Tags: []string{"golang"}})
	require.NoError(t, err)
	removed, err := f.posts.CreatePost(ctx, author, &dto.CreatePostDTO{Title: "t2", Content: "c2"})
	require.NoError(t, err)
	require.NoError(t, f.posts.DeletePost(ctx, removed, author, false))

	decode := func(resp envelope) dto.PageDTO[*dto.PostSummaryDTO] {
		require.Equal(t, 200, resp.Code, resp.Message)
		var page dto.PageDTO[*dto.PostSummaryDTO]
		require.NoError(t, json.Unmarshal(resp.Data, &page))
		return page
	}

	feed := decode(f.do(t, http.MethodGet, "/api/posts?page=1&page_size=10", 0, nil, nil))
	require.Len(t, feed.List, 1)
	assert.Equal(t, tagged, feed.List[0].ID)
	assert.Equal(t, []string{"golang"}, feed.List[0].Tags)

	mine := decode(f.do(t, http.MethodGet, fmt.Sprintf("/api/users/%d/posts", author), 0, nil, nil))
	assert.Equal(t, int64(1), mine.Total)

	byTag := decode(f.do(t, http.MethodGet, "/api/tags/golang/posts", 0, nil, nil))
	assert.Equal(t, int64(1), byTag.Total)

	resp := f.do(t, http.MethodGet, "/api/actions/collections", 0, nil, nil)
	assert.Equal(t, 401, resp.Code)
	resp = f.do(t, http.MethodPost, "/api/actions/toggle", reader, nil, map[string]any{"target_id": tagged, "action": "collect"})
	require.Equal(t, 200, resp.Code, resp.Message)
	collections := decode(f.do(t, http.MethodGet, "/api/actions/collections", reader, nil, nil))
	require.Len(t, collections.List, 1)
	assert.Equal(t, tagged, collections.List[0].ID)

	resp = f.do(t, http.MethodGet, "/api/moderation/posts?include_deleted=true", reader, []string{"USER"}, nil)
	assert.Equal(t, 403, resp.Code)
	all := decode(f.do(t, http.MethodGet, "/api/moderation/posts?include_deleted=true", reader, []string{"ADMIN"}, nil))
	assert.Equal(t, int64(2), all.Total)

	resp = f.do(t, http.MethodGet, fmt.Sprintf("/api/users/%d/comments", reader), 0, nil, nil)
	require.Equal(t, 200, resp.Code)
	resp = f.do(t, http.MethodGet, "/api/users/9999/posts", 0, nil, nil)
	assert.Equal(t, 404, resp.Code)
}
