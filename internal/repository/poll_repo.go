package repository

import (
	"Hearth/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type PollRepo interface {
	CreateOptions(ctx context.Context, options []*model.PollOption) error
	GetOption(ctx context.Context, id uint64) (*model.PollOption, error)
	ListOptions(ctx context.Context, postID uint64, includeDeleted bool) ([]*model.PollOption, error)
	TombstoneOptionsByPost(ctx context.Context, postID uint64) (int64, error)

	GetLiveVote(ctx context.Context, userID, postID uint64) (*model.UserVote, error)
	CreateVote(ctx context.Context, vote *model.UserVote) error
	TombstoneVote(ctx context.Context, id uint64) (int64, error)
	TombstoneVotesByPostOptions(ctx context.Context, postID uint64) (int64, error)
	TallyByPost(ctx context.Context, postID uint64) (map[uint64]int64, error)
	ListVotes(ctx context.Context, postID uint64, includeDeleted bool) ([]*model.UserVote, error)
}

type PollRepoImpl struct {
	db *gorm.DB
}

func NewPollRepo(db *gorm.DB) PollRepo {
	return &PollRepoImpl{db: db}
}

func (s *PollRepoImpl) CreateOptions(ctx context.Context, options []*model.PollOption) error {
	if len(options) == 0 {
		return nil
	}
	return conn(ctx, s.db).Create(options).Error
}

// GetOption 不过滤删除标记，调用方自行判断
func (s *PollRepoImpl) GetOption(ctx context.Context, id uint64) (*model.PollOption, error) {
	var option model.PollOption
	err := conn(ctx, s.db).First(&option, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &option, nil
}

func (s *PollRepoImpl) ListOptions(ctx context.Context, postID uint64, includeDeleted bool) ([]*model.PollOption, error) {
	var options []*model.PollOption
	q := conn(ctx, s.db).Where("post_id = ?", postID)
	if !includeDeleted {
		q = q.Where("is_deleted = ?", false)
	}
	err := q.Order("display_order ASC").Order("id ASC").Find(&options).Error
	return options, err
}

func (s *PollRepoImpl) TombstoneOptionsByPost(ctx context.Context, postID uint64) (int64, error) {
	result := conn(ctx, s.db).Model(&model.PollOption{}).
		Where("post_id = ? AND is_deleted = ?", postID, false).
		Update("is_deleted", true)
	return result.RowsAffected, result.Error
}

// GetLiveVote 加锁读取用户在帖子上的有效投票
func (s *PollRepoImpl) GetLiveVote(ctx context.Context, userID, postID uint64) (*model.UserVote, error) {
	var vote model.UserVote
	err := forUpdate(conn(ctx, s.db)).
		Where("user_id = ? AND post_id = ? AND is_deleted = ?", userID, postID, false).
		First(&vote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vote, nil
}

func (s *PollRepoImpl) CreateVote(ctx context.Context, vote *model.UserVote) error {
	return conn(ctx, s.db).Create(vote).Error
}

func (s *PollRepoImpl) TombstoneVote(ctx context.Context, id uint64) (int64, error) {
	result := conn(ctx, s.db).Model(&model.UserVote{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]any{"is_deleted": true, "live": nil})
	return result.RowsAffected, result.Error
}

// TombstoneVotesByPostOptions 作废引用该帖子有效选项的所有有效投票，需在作废选项之前调用
func (s *PollRepoImpl) TombstoneVotesByPostOptions(ctx context.Context, postID uint64) (int64, error) {
	result := conn(ctx, s.db).Model(&model.UserVote{}).
		Where("option_id IN (SELECT id FROM poll_options WHERE post_id = ? AND is_deleted = ?) AND is_deleted = ?",
			postID, false, false).
		Updates(map[string]any{"is_deleted": true, "live": nil})
	return result.RowsAffected, result.Error
}

// TallyByPost 实时统计各选项的有效票数
func (s *PollRepoImpl) TallyByPost(ctx context.Context, postID uint64) (map[uint64]int64, error) {
	var rows []struct {
		OptionID uint64
		Total    int64
	}
	err := conn(ctx, s.db).Model(&model.UserVote{}).
		Select("option_id, COUNT(*) AS total").
		Where("post_id = ? AND is_deleted = ?", postID, false).
		Group("option_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	tally := make(map[uint64]int64, len(rows))
	for _, r := range rows {
		tally[r.OptionID] = r.Total
	}
	return tally, nil
}

func (s *PollRepoImpl) ListVotes(ctx context.Context, postID uint64, includeDeleted bool) ([]*model.UserVote, error) {
	var votes []*model.UserVote
	q := conn(ctx, s.db).Where("post_id = ?", postID)
	if !includeDeleted {
		q = q.Where("is_deleted = ?", false)
	}
	err := q.Order("id ASC").Find(&votes).Error
	return votes, err
}
