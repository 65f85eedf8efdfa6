package service

import (
	"Hearth/internal/api/dto"
	"Hearth/internal/model"
	"Hearth/internal/pkg/consts"
	"Hearth/internal/pkg/util"
	"Hearth/internal/repository"
	"context"
	log "log/slog"
	"strings"
	"time"

	"github.com/jinzhu/copier"
	"golang.org/x/sync/errgroup"
)

type PostService interface {
	CreatePost(ctx context.Context, actorID uint64, req *dto.CreatePostDTO) (uint64, error)
	GetPost(ctx context.Context, postID, viewerID uint64) (*dto.PostDetailDTO, error)
	DeletePost(ctx context.Context, postID, actorID uint64, isModerator bool) error
	GetPostReferences(ctx context.Context, postID uint64, includeDeleted bool) (*dto.PostReferencesDTO, error)
	ListFeed(ctx context.Context, page, pageSize int, hot bool) (*dto.PageDTO[*dto.PostSummaryDTO], error)
	ListUserPosts(ctx context.Context, userID uint64, page, pageSize int) (*dto.PageDTO[*dto.PostSummaryDTO], error)
	ListPostsByTag(ctx context.Context, tag string, page, pageSize int) (*dto.PageDTO[*dto.PostSummaryDTO], error)
	ListUserCollections(ctx context.Context, userID uint64, page, pageSize int) (*dto.PageDTO[*dto.PostSummaryDTO], error)
	ListPostsForModeration(ctx context.Context, page, pageSize int, includeDeleted bool) (*dto.PageDTO[*dto.PostSummaryDTO], error)
}

type postServiceImpl struct {
	tx            repository.TxManager
	postRepo      repository.PostRepo
	tagRepo       repository.TagRepo
	actionRepo    repository.UserActionRepo
	pollRepo      repository.PollRepo
	userRepo      repository.UserRepo
	actionService UserActionService
	pollService   PollService
}

func NewPostService(
	tx repository.TxManager,
	postRepo repository.PostRepo,
	tagRepo repository.TagRepo,
	actionRepo repository.UserActionRepo,
	pollRepo repository.PollRepo,
	userRepo repository.UserRepo,
	actionService UserActionService,
	pollService PollService,
) PostService {
	return &postServiceImpl{
		tx:            tx,
		postRepo:      postRepo,
		tagRepo:       tagRepo,
		actionRepo:    actionRepo,
		pollRepo:      pollRepo,
		userRepo:      userRepo,
		actionService: actionService,
		pollService:   pollService,
	}
}

// CreatePost 帖子、投票选项与标签在同一事务内写入
// 未显式给出标签时从正文的 #标签 中提取
func (s *postServiceImpl) CreatePost(ctx context.Context, actorID uint64, req *dto.CreatePostDTO) (uint64, error) {
	if actorID == 0 || req == nil {
		return 0, ErrParamInvalid
	}
	title := util.SanitizeText(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" || content == "" {
		return 0, ErrEmptyContent
	}

	var options []string
	switch req.PostType {
	case model.PostTypeNormal:
	case model.PostTypePoll:
		for _, o := range req.PollOptions {
			if o = util.SanitizeText(o); o != "" {
				options = append(options, o)
			}
		}
		if len(options) < consts.MinPollOptions || len(options) > consts.MaxPollOptions {
			return 0, ErrPollOptionCount
		}
	default:
		return 0, ErrParamInvalid
	}

	tags := util.NormalizeTags(req.Tags)
	if len(tags) == 0 {
		tags = util.NormalizeTags(util.ExtractTags(content))
	}

	post := &model.Post{
		UserID:    actorID,
		Title:     title,
		Content:   content,
		PostType:  req.PostType,
		Status:    model.PostStatusNormal,
		CreatedAt: time.Now(),
	}
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		author, err := s.userRepo.GetUserById(ctx, actorID)
		if err != nil {
			return err
		}
		if author == nil {
			return ErrUserNotFound
		}

		if err = s.postRepo.CreatePost(ctx, post); err != nil {
			return err
		}

		if len(options) > 0 {
			pollOptions := make([]*model.PollOption, 0, len(options))
			for i, text := range options {
				pollOptions = append(pollOptions, &model.PollOption{
					PostID:       post.ID,
					OptionText:   text,
					DisplayOrder: i + 1,
				})
			}
			if err = s.pollRepo.CreateOptions(ctx, pollOptions); err != nil {
				return err
			}
		}

		if len(tags) > 0 {
			tagModels, err := s.tagRepo.GetOrCreateTags(ctx, tags)
			if err != nil {
				return err
			}
			tagIDs := make([]uint64, 0, len(tagModels))
			for _, t := range tagModels {
				tagIDs = append(tagIDs, t.ID)
			}
			if err = s.tagRepo.CreatePostTags(ctx, post.ID, tagIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.ErrorContext(ctx, "create post error", "userID", actorID, "err", err)
		return 0, err
	}

	log.InfoContext(ctx, "post created", "postID", post.ID, "userID", actorID, "postType", post.PostType)
	return post.ID, nil
}

// GetPost 作者、标签、访问者交互状态与投票视图并行读取
func (s *postServiceImpl) GetPost(ctx context.Context, postID, viewerID uint64) (*dto.PostDetailDTO, error) {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil || post.IsDeleted {
		return nil, ErrPostNotFound
	}

	detail := &dto.PostDetailDTO{}
	if err = copier.CopyWithOption(detail, post, copyOption); err != nil {
		return nil, err
	}
	detail.ContentHTML = util.RenderMarkdown(post.Content)
	detail.ActionState = &dto.ActionStateDTO{}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		author, err := s.userRepo.GetUserById(gCtx, post.UserID)
		if err != nil || author == nil {
			return err
		}
		detail.Nickname = author.Nickname
		detail.AvatarURL = author.AvatarURL
		return nil
	})
	g.Go(func() error {
		tags, err := s.tagRepo.GetTagsByPost(gCtx, postID)
		if err != nil {
			return err
		}
		detail.Tags = make([]string, 0, len(tags))
		for _, t := range tags {
			detail.Tags = append(detail.Tags, t.Name)
		}
		return nil
	})
	g.Go(func() error {
		liked, collected, err := s.actionService.GetActionState(gCtx, viewerID, postID, model.TargetTypePost)
		if err != nil {
			return err
		}
		detail.ActionState.IsLiked = liked
		detail.ActionState.IsCollected = collected
		return nil
	})
	if post.IsPoll() {
		g.Go(func() error {
			var err error
			detail.Poll, err = s.pollService.GetPollView(gCtx, postID, viewerID)
			return err
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}
	return detail, nil
}

// DeletePost 级联作废帖子的所有关联记录，计数与标签帖子数保持不变
// 必须先作废投票再作废选项，投票按有效选项定位
func (s *postServiceImpl) DeletePost(ctx context.Context, postID, actorID uint64, isModerator bool) error {
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		post, err := s.postRepo.GetPostForUpdate(ctx, postID)
		if err != nil {
			return err
		}
		if post == nil || post.IsDeleted {
			return ErrPostNotFound
		}

		if post.UserID != actorID {
			allowed, err := resolveModerator(ctx, s.userRepo, actorID, isModerator)
			if err != nil {
				return err
			}
			if !allowed {
				return UnauthorizedError
			}
		}

		affected, err := s.postRepo.MarkDeleted(ctx, postID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrPostNotFound
		}
		if _, err = s.tagRepo.TombstonePostTags(ctx, postID); err != nil {
			return err
		}
		if _, err = s.actionRepo.TombstoneByTarget(ctx, postID, model.TargetTypePost); err != nil {
			return err
		}
		if _, err = s.pollRepo.TombstoneVotesByPostOptions(ctx, postID); err != nil {
			return err
		}
		_, err = s.pollRepo.TombstoneOptionsByPost(ctx, postID)
		return err
	})
	if err != nil {
		return err
	}

	log.InfoContext(ctx, "post deleted", "postID", postID, "actorID", actorID)
	return nil
}

// GetPostReferences 帖子关联记录的数量快照，includeDeleted 时包含墓碑记录
func (s *postServiceImpl) GetPostReferences(ctx context.Context, postID uint64, includeDeleted bool) (*dto.PostReferencesDTO, error) {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	refs := &dto.PostReferencesDTO{PostID: postID, IsDeleted: post.IsDeleted, Status: post.Status}
	links, err := s.tagRepo.ListPostTags(ctx, postID, includeDeleted)
	if err != nil {
		return nil, err
	}
	actions, err := s.actionRepo.ListByTarget(ctx, postID, model.TargetTypePost, includeDeleted)
	if err != nil {
		return nil, err
	}
	options, err := s.pollRepo.ListOptions(ctx, postID, includeDeleted)
	if err != nil {
		return nil, err
	}
	votes, err := s.pollRepo.ListVotes(ctx, postID, includeDeleted)
	if err != nil {
		return nil, err
	}
	refs.TagLinks = len(links)
	refs.Actions = len(actions)
	refs.PollOptions = len(options)
	refs.Votes = len(votes)
	return refs, nil
}

// ListFeed 首页默认按发布时间倒序，hot 时按点赞、收藏、分享数排序
func (s *postServiceImpl) ListFeed(ctx context.Context, page, pageSize int, hot bool) (*dto.PageDTO[*dto.PostSummaryDTO], error) {
	return s.listPosts(ctx, repository.PostFilter{ByHeat: hot}, page, pageSize)
}

func (s *postServiceImpl) ListUserPosts(ctx context.Context, userID uint64, page, pageSize int) (*dto.PageDTO[*dto.PostSummaryDTO], error) {
	user, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return s.listPosts(ctx, repository.PostFilter{UserID: userID}, page, pageSize)
}

func (s *postServiceImpl) ListPostsByTag(ctx context.Context, tag string, page, pageSize int) (*dto.PageDTO[*dto.PostSummaryDTO], error) {
	names := util.NormalizeTags([]string{tag})
	if len(names) == 0 {
		return nil, ErrParamInvalid
	}
	return s.listPosts(ctx, repository.PostFilter{TagName: names[0]}, page, pageSize)
}

// ListUserCollections 收藏的帖子按收藏时间倒序，已删除的帖子不返回
func (s *postServiceImpl) ListUserCollections(ctx context.Context, userID uint64, page, pageSize int) (*dto.PageDTO[*dto.PostSummaryDTO], error) {
	if userID == 0 {
		return nil, ErrNotLogin
	}
	return s.listPosts(ctx, repository.PostFilter{CollectedBy: userID}, page, pageSize)
}

// ListPostsForModeration 后台列表按发布时间倒序，includeDeleted 时包含已删除的帖子
func (s *postServiceImpl) ListPostsForModeration(ctx context.Context, page, pageSize int, includeDeleted bool) (*dto.PageDTO[*dto.PostSummaryDTO], error) {
	return s.listPosts(ctx, repository.PostFilter{IncludeDeleted: includeDeleted}, page, pageSize)
}

func (s *postServiceImpl) listPosts(ctx context.Context, filter repository.PostFilter, page, pageSize int) (*dto.PageDTO[*dto.PostSummaryDTO], error) {
	limit, offset, page := pageArgs(page, pageSize)
	posts, total, err := s.postRepo.ListPosts(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}
	list, err := s.toSummaries(ctx, posts)
	if err != nil {
		return nil, err
	}
	return &dto.PageDTO[*dto.PostSummaryDTO]{List: list, Total: total, Page: page, PageSize: limit}, nil
}

// toSummaries 作者与标签各批量查一次
func (s *postServiceImpl) toSummaries(ctx context.Context, posts []*model.Post) ([]*dto.PostSummaryDTO, error) {
	list := make([]*dto.PostSummaryDTO, 0, len(posts))
	if len(posts) == 0 {
		return list, nil
	}

	ids := make([]uint64, 0, len(posts))
	userIDs := make([]uint64, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
		userIDs = append(userIDs, p.UserID)
	}

	var (
		users []*model.User
		tags  map[uint64][]string
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = s.userRepo.GetUserByIds(gCtx, userIDs)
		return err
	})
	g.Go(func() error {
		var err error
		tags, err = s.tagRepo.GetTagNamesByPosts(gCtx, ids)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	userMap := make(map[uint64]*model.User, len(users))
	for _, u := range users {
		userMap[u.ID] = u
	}
	for _, p := range posts {
		item := &dto.PostSummaryDTO{}
		if err := copier.CopyWithOption(item, p, copyOption); err != nil {
			return nil, err
		}
		item.Excerpt = util.Excerpt(p.Content, consts.ExcerptRunes)
		item.Tags = tags[p.ID]
		if item.Tags == nil {
			item.Tags = []string{}
		}
		if author, ok := userMap[p.UserID]; ok {
			item.Nickname = author.Nickname
			item.AvatarURL = author.AvatarURL
		}
		list = append(list, item)
	}
	return list, nil
}
