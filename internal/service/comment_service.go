package service

import (
	"Hearth/internal/api/dto"
	"Hearth/internal/model"
	"Hearth/internal/pkg/consts"
	"Hearth/internal/pkg/metrics"
	"Hearth/internal/pkg/util"
	"Hearth/internal/repository"
	"context"
	log "log/slog"
	"time"
	"unicode/utf8"

	"github.com/jinzhu/copier"
)

const maxCommentRunes = 1000

type CommentService interface {
	CreateComment(ctx context.Context, postID uint64, content string, parentID *uint64, actorID uint64) (*model.Comment, error)
	DeleteComment(ctx context.Context, commentID, actorID uint64, isModerator bool) error
	Depth(ctx context.Context, commentID uint64) (int, error)
	ListComments(ctx context.Context, postID uint64, page, pageSize int, includeDeleted bool) (*dto.PageDTO[*dto.CommentDTO], error)
	ListReplies(ctx context.Context, commentID uint64, page, pageSize int) (*dto.PageDTO[*dto.CommentDTO], error)
	ListUserComments(ctx context.Context, userID uint64, page, pageSize int) (*dto.PageDTO[*dto.CommentDTO], error)
}

type CommentServiceImpl struct {
	tx          repository.TxManager
	commentRepo repository.CommentRepo
	postRepo    repository.PostRepo
	userRepo    repository.UserRepo
	dirty       DirtyMarker
}

func NewCommentService(
	tx repository.TxManager,
	commentRepo repository.CommentRepo,
	postRepo repository.PostRepo,
	userRepo repository.UserRepo,
	dirty DirtyMarker,
) CommentService {
	return &CommentServiceImpl{
		tx:          tx,
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
		dirty:       orNoop(dirty),
	}
}

// CreateComment 回复时父评论必须有效且属于同一帖子
func (s *CommentServiceImpl) CreateComment(ctx context.Context, postID uint64, content string, parentID *uint64, actorID uint64) (*model.Comment, error) {
	if postID == 0 || actorID == 0 {
		return nil, ErrParamInvalid
	}
	content = util.SanitizeText(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > maxCommentRunes {
		return nil, ErrParamInvalid
	}

	comment := &model.Comment{
		PostID:    postID,
		UserID:    actorID,
		ParentID:  parentID,
		Content:   content,
		Status:    model.CommentStatusNormal,
		CreatedAt: time.Now(),
	}
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		post, err := s.postRepo.GetPostForUpdate(ctx, postID)
		if err != nil {
			return err
		}
		if post == nil || post.IsDeleted {
			return ErrPostNotFound
		}

		if parentID != nil {
			parent, err := s.commentRepo.GetCommentByID(ctx, *parentID)
			if err != nil {
				return err
			}
			if parent == nil || parent.IsDeleted || parent.IsPlaceholder() {
				return ErrCommentNotFound
			}
			if parent.PostID != postID {
				return ErrCrossPostReply
			}
		}

		if err = s.commentRepo.CreateComment(ctx, comment); err != nil {
			return err
		}
		return s.postRepo.IncrCounter(ctx, postID, "comment_count", 1)
	})
	metrics.InteractionsTotal.WithLabelValues("comment", metrics.Result(err)).Inc()
	if err != nil {
		return nil, err
	}

	markDirty(ctx, s.dirty, postID)
	return comment, nil
}

// DeleteComment 仍有有效子回复时转为占位评论，否则打墓碑
// 两种情况都从帖子评论数中扣除
func (s *CommentServiceImpl) DeleteComment(ctx context.Context, commentID, actorID uint64, isModerator bool) error {
	var postID uint64
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		comment, err := s.commentRepo.GetCommentByID(ctx, commentID)
		if err != nil {
			return err
		}
		if comment == nil || comment.IsDeleted || comment.IsPlaceholder() {
			return ErrCommentNotFound
		}
		postID = comment.PostID

		// 帖子删除后评论随之隐藏，计数冻结
		post, err := s.postRepo.GetPostForUpdate(ctx, postID)
		if err != nil {
			return err
		}
		if post == nil || post.IsDeleted {
			return ErrCommentNotFound
		}

		if comment.UserID != actorID {
			allowed, err := resolveModerator(ctx, s.userRepo, actorID, isModerator)
			if err != nil {
				return err
			}
			if !allowed {
				return UnauthorizedError
			}
		}

		children, err := s.commentRepo.CountLiveChildren(ctx, commentID)
		if err != nil {
			return err
		}
		if children > 0 {
			_, err = s.commentRepo.MarkPlaceholder(ctx, commentID, model.CommentPlaceholderContent)
		} else {
			_, err = s.commentRepo.Tombstone(ctx, commentID)
		}
		if err != nil {
			return err
		}
		return s.postRepo.IncrCounter(ctx, postID, "comment_count", -1)
	})
	metrics.InteractionsTotal.WithLabelValues("comment_delete", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}

	markDirty(ctx, s.dirty, postID)
	log.InfoContext(ctx, "comment deleted", "commentID", commentID, "actorID", actorID)
	return nil
}

// Depth 一级评论深度为 0，沿父链向上最多走 MaxCommentDepth 步
// 父链上出现重复节点时返回 ErrCommentCycle
func (s *CommentServiceImpl) Depth(ctx context.Context, commentID uint64) (int, error) {
	parentID, exists, err := s.commentRepo.GetParentID(ctx, commentID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, ErrCommentNotFound
	}

	visited := map[uint64]struct{}{commentID: {}}
	depth := 0
	for parentID != nil && depth < consts.MaxCommentDepth {
		if _, seen := visited[*parentID]; seen {
			return 0, ErrCommentCycle
		}
		visited[*parentID] = struct{}{}
		depth++

		next, exists, err := s.commentRepo.GetParentID(ctx, *parentID)
		if err != nil {
			return 0, err
		}
		if !exists {
			break
		}
		parentID = next
	}
	return depth, nil
}

// ListComments 一级评论按时间倒序，占位评论保留以承载子回复
func (s *CommentServiceImpl) ListComments(ctx context.Context, postID uint64, page, pageSize int, includeDeleted bool) (*dto.PageDTO[*dto.CommentDTO], error) {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil || (post.IsDeleted && !includeDeleted) {
		return nil, ErrPostNotFound
	}

	limit, offset, page := pageArgs(page, pageSize)
	comments, err := s.commentRepo.GetRootComments(ctx, postID, limit, offset, includeDeleted)
	if err != nil {
		return nil, err
	}
	total, err := s.commentRepo.CountRootComments(ctx, postID, includeDeleted)
	if err != nil {
		return nil, err
	}

	list, err := s.toDTOs(ctx, comments)
	if err != nil {
		return nil, err
	}
	return &dto.PageDTO[*dto.CommentDTO]{List: list, Total: total, Page: page, PageSize: limit}, nil
}

// ListReplies 直接子回复按时间正序
func (s *CommentServiceImpl) ListReplies(ctx context.Context, commentID uint64, page, pageSize int) (*dto.PageDTO[*dto.CommentDTO], error) {
	_, exists, err := s.commentRepo.GetParentID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrCommentNotFound
	}

	limit, offset, page := pageArgs(page, pageSize)
	replies, err := s.commentRepo.GetReplies(ctx, commentID, limit, offset)
	if err != nil {
		return nil, err
	}
	counts, err := s.commentRepo.CountReplies(ctx, []uint64{commentID})
	if err != nil {
		return nil, err
	}

	list, err := s.toDTOs(ctx, replies)
	if err != nil {
		return nil, err
	}
	return &dto.PageDTO[*dto.CommentDTO]{List: list, Total: counts[commentID], Page: page, PageSize: limit}, nil
}

// ListUserComments 用户评论历史，不含已删除评论及已删除帖子下的评论
func (s *CommentServiceImpl) ListUserComments(ctx context.Context, userID uint64, page, pageSize int) (*dto.PageDTO[*dto.CommentDTO], error) {
	user, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	limit, offset, page := pageArgs(page, pageSize)
	comments, err := s.commentRepo.GetUserComments(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.commentRepo.CountUserComments(ctx, userID)
	if err != nil {
		return nil, err
	}

	list, err := s.toDTOs(ctx, comments)
	if err != nil {
		return nil, err
	}
	return &dto.PageDTO[*dto.CommentDTO]{List: list, Total: total, Page: page, PageSize: limit}, nil
}

func (s *CommentServiceImpl) toDTOs(ctx context.Context, comments []*model.Comment) ([]*dto.CommentDTO, error) {
	list := make([]*dto.CommentDTO, 0, len(comments))
	if len(comments) == 0 {
		return list, nil
	}

	ids := make([]uint64, 0, len(comments))
	userIDs := make([]uint64, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.ID)
		userIDs = append(userIDs, c.UserID)
	}
	replyCounts, err := s.commentRepo.CountReplies(ctx, ids)
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.GetUserByIds(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	userMap := make(map[uint64]*model.User, len(users))
	for _, u := range users {
		userMap[u.ID] = u
	}

	for _, c := range comments {
		item := &dto.CommentDTO{}
		if err = copier.CopyWithOption(item, c, copyOption); err != nil {
			return nil, err
		}
		item.IsPlaceholder = c.IsPlaceholder()
		item.ContentHTML = util.RenderMarkdown(c.Content)
		item.ReplyCount = replyCounts[c.ID]
		if u, ok := userMap[c.UserID]; ok {
			item.Nickname = u.Nickname
			item.AvatarURL = u.AvatarURL
		}
		list = append(list, item)
	}
	return list, nil
}
